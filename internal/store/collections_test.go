package store

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// List Tests

func TestListPushPopReverseOrder(t *testing.T) {
	s := New()
	values := []string{"v1", "v2", "v3", "v4"}

	for i, v := range values {
		n, err := s.Push("list", v)
		require.NoError(t, err)
		assert.Equal(t, i+1, n)
	}

	for i := len(values) - 1; i >= 0; i-- {
		v, ok, err := s.Pop("list")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, values[i], v)
	}

	v, ok, err := s.Pop("list")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "", v)

	n, err := s.Len("list")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestListPushMultiMatchesPush(t *testing.T) {
	s := New()

	n, err := s.PushMulti("multi", "v1", "v2", "v3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, v := range []string{"v1", "v2", "v3"} {
		_, err := s.Push("single", v)
		require.NoError(t, err)
	}

	multiLen, err := s.Len("multi")
	require.NoError(t, err)
	singleLen, err := s.Len("single")
	require.NoError(t, err)
	assert.Equal(t, singleLen, multiLen)

	for i := 0; i < 3; i++ {
		a, _, err := s.Pop("multi")
		require.NoError(t, err)
		b, _, err := s.Pop("single")
		require.NoError(t, err)
		assert.Equal(t, b, a)
	}
}

func TestListPushMultiEmpty(t *testing.T) {
	s := New()

	n, err := s.PushMulti("list")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = s.Push("list", "a")
	require.NoError(t, err)
	n, err = s.PushMulti("list")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	keys, err := s.Keys(Lists)
	require.NoError(t, err)
	assert.Equal(t, []string{"list"}, keys)
}

func TestListPushAfterExhaustion(t *testing.T) {
	for _, prune := range []bool{false, true} {
		t.Run(fmt.Sprintf("prune_%v", prune), func(t *testing.T) {
			s := New(WithPruneEmpty(prune))
			_, err := s.Push("list", "a")
			require.NoError(t, err)
			_, _, err = s.Pop("list")
			require.NoError(t, err)

			n, err := s.Push("list", "b")
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			v, ok, err := s.Pop("list")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "b", v)
		})
	}
}

// Hash Tests

func TestHashSetGetDel(t *testing.T) {
	s := New()

	require.NoError(t, s.HashSet("h", "f", "v"))
	v, ok, err := s.HashGet("h", "f")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, s.HashSet("h", "f", "v2"))
	v, _, err = s.HashGet("h", "f")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)

	removed, err := s.HashDel("h", "f")
	require.NoError(t, err)
	assert.True(t, removed)

	_, ok, err = s.HashGet("h", "f")
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err = s.HashDel("h", "never")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = s.HashDel("no-hash", "f")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestHashGetAllReturnsCopy(t *testing.T) {
	s := New()
	require.NoError(t, s.HashSet("h", "a", "1"))
	require.NoError(t, s.HashSet("h", "b", "2"))

	all, err := s.HashGetAll("h")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, all)

	all["a"] = "mutated"
	v, _, err := s.HashGet("h", "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	n, err := s.HashLen("h")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	empty, err := s.HashGetAll("missing")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestHashPruneIsUnobservable(t *testing.T) {
	for _, prune := range []bool{false, true} {
		t.Run(fmt.Sprintf("prune_%v", prune), func(t *testing.T) {
			s := New(WithPruneEmpty(prune))
			require.NoError(t, s.HashSet("h", "f", "v"))
			_, err := s.HashDel("h", "f")
			require.NoError(t, err)

			_, ok, err := s.HashGet("h", "f")
			require.NoError(t, err)
			assert.False(t, ok)
			n, err := s.HashLen("h")
			require.NoError(t, err)
			assert.Equal(t, 0, n)

			_, present := s.hashes.entries["h"]
			assert.Equal(t, !prune, present)
		})
	}
}

// Set Tests

func TestSetAddIdempotent(t *testing.T) {
	s := New()

	added, err := s.SetAdd("s", "v")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.SetAdd("s", "v")
	require.NoError(t, err)
	assert.False(t, added)

	ok, err := s.SetIsMember("s", "v")
	require.NoError(t, err)
	assert.True(t, ok)

	card, err := s.SetCard("s")
	require.NoError(t, err)
	assert.Equal(t, 1, card)

	removed, err := s.SetRemove("s", "v")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = s.SetRemove("s", "v")
	require.NoError(t, err)
	assert.False(t, removed)

	ok, err = s.SetIsMember("s", "v")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetMembersSorted(t *testing.T) {
	s := New()
	for _, v := range []string{"c", "a", "b", "a"} {
		_, err := s.SetAdd("s", v)
		require.NoError(t, err)
	}

	members, err := s.SetMembers("s")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, members)

	members, err = s.SetMembers("missing")
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestSetPruneIsUnobservable(t *testing.T) {
	for _, prune := range []bool{false, true} {
		t.Run(fmt.Sprintf("prune_%v", prune), func(t *testing.T) {
			s := New(WithPruneEmpty(prune))
			_, err := s.SetAdd("s", "only")
			require.NoError(t, err)
			removed, err := s.SetRemove("s", "only")
			require.NoError(t, err)
			require.True(t, removed)

			ok, err := s.SetIsMember("s", "only")
			require.NoError(t, err)
			assert.False(t, ok)
			card, err := s.SetCard("s")
			require.NoError(t, err)
			assert.Equal(t, 0, card)
			members, err := s.SetMembers("s")
			require.NoError(t, err)
			assert.Empty(t, members)
			keys, err := s.Keys(Sets)
			require.NoError(t, err)
			assert.Empty(t, keys)

			_, present := s.sets.entries["s"]
			assert.Equal(t, !prune, present)

			added, err := s.SetAdd("s", "again")
			require.NoError(t, err)
			assert.True(t, added)
			card, err = s.SetCard("s")
			require.NoError(t, err)
			assert.Equal(t, 1, card)
			keys, err = s.Keys(Sets)
			require.NoError(t, err)
			assert.Equal(t, []string{"s"}, keys)
		})
	}
}

// Sorted Set Tests

func TestZSetPruneIsUnobservable(t *testing.T) {
	for _, prune := range []bool{false, true} {
		t.Run(fmt.Sprintf("prune_%v", prune), func(t *testing.T) {
			s := New(WithPruneEmpty(prune))
			_, err := s.ZSetAdd("z", 1, "only")
			require.NoError(t, err)
			removed, err := s.ZSetRemove("z", "only")
			require.NoError(t, err)
			require.True(t, removed)

			_, ok, err := s.ZSetScore("z", "only")
			require.NoError(t, err)
			assert.False(t, ok)
			card, err := s.ZSetCard("z")
			require.NoError(t, err)
			assert.Equal(t, 0, card)
			_, ok, err = s.ZSetRank("z", "only")
			require.NoError(t, err)
			assert.False(t, ok)
			res, err := s.ZSetRange("z", 0, -1)
			require.NoError(t, err)
			assert.Empty(t, res)
			keys, err := s.Keys(SortedSets)
			require.NoError(t, err)
			assert.Empty(t, keys)

			_, present := s.zsets.entries["z"]
			assert.Equal(t, !prune, present)

			added, err := s.ZSetAdd("z", 2, "again")
			require.NoError(t, err)
			assert.True(t, added)
			res, err = s.ZSetRange("z", 0, -1)
			require.NoError(t, err)
			assert.Equal(t, []ScoredMember{{"again", 2}}, res)
			keys, err = s.Keys(SortedSets)
			require.NoError(t, err)
			assert.Equal(t, []string{"z"}, keys)
		})
	}
}

func TestZSetSignedZeroRescore(t *testing.T) {
	s := New()
	_, err := s.ZSetAdd("z", 0, "m")
	require.NoError(t, err)
	_, err = s.ZSetAdd("z", math.Copysign(0, -1), "m")
	require.NoError(t, err)

	score, ok, err := s.ZSetScore("z", "m")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, math.Signbit(score))

	res, err := s.ZSetRange("z", 0, -1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.True(t, math.Signbit(res[0].Score))

	card, err := s.ZSetCard("z")
	require.NoError(t, err)
	assert.Equal(t, 1, card)
}

func TestZSetLastWriteWins(t *testing.T) {
	s := New()

	added, err := s.ZSetAdd("z", 1.0, "m")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.ZSetAdd("z", 2.0, "m")
	require.NoError(t, err)
	assert.False(t, added)

	score, ok, err := s.ZSetScore("z", "m")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.0, score)

	card, err := s.ZSetCard("z")
	require.NoError(t, err)
	assert.Equal(t, 1, card)

	removed, err := s.ZSetRemove("z", "m")
	require.NoError(t, err)
	assert.True(t, removed)

	_, ok, err = s.ZSetScore("z", "m")
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err = s.ZSetRemove("z", "m")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestZSetOrdering(t *testing.T) {
	s := New()
	adds := []ScoredMember{
		{"c", 3}, {"a", 1}, {"b", 1}, {"d", -2}, {"e", math.Inf(1)}, {"a", 5},
	}
	for _, m := range adds {
		_, err := s.ZSetAdd("z", m.Score, m.Member)
		require.NoError(t, err)
	}

	all, err := s.ZSetRange("z", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []ScoredMember{
		{"d", -2}, {"b", 1}, {"c", 3}, {"a", 5}, {"e", math.Inf(1)},
	}, all)

	rank, ok, err := s.ZSetRank("z", "c")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, rank)

	_, ok, err = s.ZSetRank("z", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestZSetTiesBrokenByMember(t *testing.T) {
	s := New()
	for _, m := range []string{"delta", "alpha", "charlie", "bravo"} {
		_, err := s.ZSetAdd("z", 7, m)
		require.NoError(t, err)
	}

	all, err := s.ZSetRange("z", 0, -1)
	require.NoError(t, err)
	names := make([]string, len(all))
	for i, m := range all {
		names[i] = m.Member
	}
	assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta"}, names)
}

func TestZSetRangeIndices(t *testing.T) {
	s := New()
	for i := 0; i < 5; i++ {
		_, err := s.ZSetAdd("z", float64(i), fmt.Sprintf("m%d", i))
		require.NoError(t, err)
	}

	tests := []struct {
		name        string
		start, stop int
		expected    []string
	}{
		{"full", 0, -1, []string{"m0", "m1", "m2", "m3", "m4"}},
		{"middle", 1, 3, []string{"m1", "m2", "m3"}},
		{"negative", -2, -1, []string{"m3", "m4"}},
		{"stop_past_end", 3, 100, []string{"m3", "m4"}},
		{"start_before_begin", -100, 0, []string{"m0"}},
		{"inverted", 3, 1, []string{}},
		{"start_past_end", 10, 20, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.ZSetRange("z", tt.start, tt.stop)
			require.NoError(t, err)
			names := make([]string, len(res))
			for i, m := range res {
				names[i] = m.Member
			}
			assert.Equal(t, tt.expected, names)
		})
	}

	res, err := s.ZSetRange("missing", 0, -1)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestZSetRejectsNaN(t *testing.T) {
	s := New()
	_, err := s.ZSetAdd("z", math.NaN(), "m")
	assert.ErrorIs(t, err, ErrInvalidScore)

	card, err := s.ZSetCard("z")
	require.NoError(t, err)
	assert.Equal(t, 0, card)
}

func TestZSetRangeReturnsCopy(t *testing.T) {
	s := New()
	_, err := s.ZSetAdd("z", 1, "a")
	require.NoError(t, err)

	res, err := s.ZSetRange("z", 0, -1)
	require.NoError(t, err)
	res[0].Member = "mutated"

	score, ok, err := s.ZSetScore("z", "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1.0, score)
}
