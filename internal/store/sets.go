package store

import (
	"sort"
	"time"
)

// SetAdd adds value to the set at key. Adding an existing member is a no-op.
// It reports whether value was newly added.
func (s *Store) SetAdd(key, value string) (bool, error) {
	start := time.Now()
	var added bool
	err := s.sets.write(func() {
		m, ok := s.sets.entries[key]
		if !ok {
			m = make(map[string]struct{})
			s.sets.entries[key] = m
		}
		if _, exists := m[value]; !exists {
			m[value] = struct{}{}
			added = true
		}
	})
	if err != nil {
		return false, err
	}
	s.observe(Sets, "sadd", true, added, start)
	return added, nil
}

// SetIsMember reports whether value is in the set at key.
func (s *Store) SetIsMember(key, value string) (bool, error) {
	start := time.Now()
	var ok bool
	err := s.sets.read(func() {
		_, ok = s.sets.entries[key][value]
	})
	if err != nil {
		return false, err
	}
	s.observe(Sets, "sismember", false, ok, start)
	return ok, nil
}

// SetRemove removes value from the set at key and reports whether it was
// present.
func (s *Store) SetRemove(key, value string) (bool, error) {
	start := time.Now()
	var removed bool
	err := s.sets.write(func() {
		m, ok := s.sets.entries[key]
		if !ok {
			return
		}
		if _, removed = m[value]; !removed {
			return
		}
		delete(m, value)
		if len(m) == 0 && s.pruneEmpty {
			delete(s.sets.entries, key)
		}
	})
	if err != nil {
		return false, err
	}
	s.observe(Sets, "srem", true, removed, start)
	return removed, nil
}

// SetCard returns the number of members in the set at key.
func (s *Store) SetCard(key string) (int, error) {
	start := time.Now()
	var n int
	err := s.sets.read(func() {
		n = len(s.sets.entries[key])
	})
	if err != nil {
		return 0, err
	}
	s.observe(Sets, "scard", false, n > 0, start)
	return n, nil
}

// SetMembers returns the members of the set at key in lexical order.
func (s *Store) SetMembers(key string) ([]string, error) {
	start := time.Now()
	var members []string
	err := s.sets.read(func() {
		m := s.sets.entries[key]
		members = make([]string, 0, len(m))
		for v := range m {
			members = append(members, v)
		}
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(members)
	s.observe(Sets, "smembers", false, len(members) > 0, start)
	return members, nil
}
