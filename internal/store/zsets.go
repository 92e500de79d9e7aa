package store

import (
	"cmp"
	"math"
	"slices"
	"time"

	"kvcore/internal/logger"
)

// ScoredMember is a sorted-set member with its score.
type ScoredMember struct {
	Member string
	Score  float64
}

func compareScored(a, b ScoredMember) int {
	if c := cmp.Compare(a.Score, b.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.Member, b.Member)
}

// sortedSet keeps a score index and a slice ordered by (score, member). The
// slice is updated in place on every write, so it is always sorted.
type sortedSet struct {
	scores map[string]float64
	order  []ScoredMember
}

func newSortedSet() *sortedSet {
	return &sortedSet{scores: make(map[string]float64)}
}

func (z *sortedSet) len() int { return len(z.order) }

// add inserts or re-scores member. It returns true if member is new.
func (z *sortedSet) add(member string, score float64) bool {
	old, exists := z.scores[member]
	if exists {
		// compare bits so that re-scoring 0 as -0 is still applied
		if math.Float64bits(old) == math.Float64bits(score) {
			return false
		}
		z.removeEntry(ScoredMember{Member: member, Score: old})
	}
	z.scores[member] = score
	e := ScoredMember{Member: member, Score: score}
	i, _ := slices.BinarySearchFunc(z.order, e, compareScored)
	z.order = slices.Insert(z.order, i, e)
	return !exists
}

func (z *sortedSet) remove(member string) bool {
	score, ok := z.scores[member]
	if !ok {
		return false
	}
	delete(z.scores, member)
	z.removeEntry(ScoredMember{Member: member, Score: score})
	return true
}

func (z *sortedSet) removeEntry(e ScoredMember) {
	if i, found := slices.BinarySearchFunc(z.order, e, compareScored); found {
		z.order = slices.Delete(z.order, i, i+1)
	}
}

func (z *sortedSet) rank(member string) (int, bool) {
	score, ok := z.scores[member]
	if !ok {
		return 0, false
	}
	return slices.BinarySearchFunc(z.order, ScoredMember{Member: member, Score: score}, compareScored)
}

// rangeByIndex returns a copy of entries in [start, stop] inclusive; negative
// indices count from the end.
func (z *sortedSet) rangeByIndex(start, stop int) []ScoredMember {
	n := len(z.order)
	if start < 0 {
		start = n + start
	}
	if stop < 0 {
		stop = n + stop
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop || start >= n {
		return []ScoredMember{}
	}
	return slices.Clone(z.order[start : stop+1])
}

// ZSetAdd sets the score of member in the sorted set at key, inserting the
// member if needed. Re-adding a member replaces its score. It reports whether
// member was newly added.
func (s *Store) ZSetAdd(key string, score float64, member string) (bool, error) {
	if math.IsNaN(score) {
		return false, ErrInvalidScore
	}
	start := time.Now()
	var added bool
	err := s.zsets.write(func() {
		z, ok := s.zsets.entries[key]
		if !ok {
			z = newSortedSet()
			s.zsets.entries[key] = z
		}
		added = z.add(member, score)
	})
	if err != nil {
		return false, err
	}
	logger.Debugf("ZADD '%s' member '%s' score %g (new: %v)", key, member, score, added)
	s.observe(SortedSets, "zadd", true, added, start)
	return added, nil
}

// ZSetScore returns the score of member in the sorted set at key.
func (s *Store) ZSetScore(key, member string) (float64, bool, error) {
	start := time.Now()
	var (
		score float64
		ok    bool
	)
	err := s.zsets.read(func() {
		if z := s.zsets.entries[key]; z != nil {
			score, ok = z.scores[member]
		}
	})
	if err != nil {
		return 0, false, err
	}
	s.observe(SortedSets, "zscore", false, ok, start)
	return score, ok, nil
}

// ZSetRemove removes member from the sorted set at key and reports whether it
// was present.
func (s *Store) ZSetRemove(key, member string) (bool, error) {
	start := time.Now()
	var removed bool
	err := s.zsets.write(func() {
		z := s.zsets.entries[key]
		if z == nil {
			return
		}
		removed = z.remove(member)
		if removed && z.len() == 0 && s.pruneEmpty {
			delete(s.zsets.entries, key)
		}
	})
	if err != nil {
		return false, err
	}
	s.observe(SortedSets, "zrem", true, removed, start)
	return removed, nil
}

// ZSetCard returns the number of members in the sorted set at key.
func (s *Store) ZSetCard(key string) (int, error) {
	start := time.Now()
	var n int
	err := s.zsets.read(func() {
		if z := s.zsets.entries[key]; z != nil {
			n = z.len()
		}
	})
	if err != nil {
		return 0, err
	}
	s.observe(SortedSets, "zcard", false, n > 0, start)
	return n, nil
}

// ZSetRank returns the zero-based position of member in ascending
// (score, member) order.
func (s *Store) ZSetRank(key, member string) (int, bool, error) {
	start := time.Now()
	var (
		rank int
		ok   bool
	)
	err := s.zsets.read(func() {
		if z := s.zsets.entries[key]; z != nil {
			rank, ok = z.rank(member)
		}
	})
	if err != nil {
		return 0, false, err
	}
	s.observe(SortedSets, "zrank", false, ok, start)
	return rank, ok, nil
}

// ZSetRange returns members of the sorted set at key whose positions fall in
// [start, stop], in ascending (score, member) order. Negative indices count
// from the end, -1 being the last member.
func (s *Store) ZSetRange(key string, start, stop int) ([]ScoredMember, error) {
	began := time.Now()
	out := []ScoredMember{}
	err := s.zsets.read(func() {
		if z := s.zsets.entries[key]; z != nil {
			out = z.rangeByIndex(start, stop)
		}
	})
	if err != nil {
		return nil, err
	}
	s.observe(SortedSets, "zrange", false, len(out) > 0, began)
	return out, nil
}
