package store

import (
	"time"

	"kvcore/internal/logger"
)

// Push appends value to the tail of the list at key, creating the list if
// needed, and returns the new length.
func (s *Store) Push(key, value string) (int, error) {
	return s.push("push", key, value)
}

// PushMulti appends values to the tail of the list at key in order. All
// values are appended under a single lock acquisition. It returns the
// resulting length.
func (s *Store) PushMulti(key string, values ...string) (int, error) {
	return s.push("pushmulti", key, values...)
}

func (s *Store) push(op, key string, values ...string) (int, error) {
	start := time.Now()
	var length int
	err := s.lists.write(func() {
		list := s.lists.entries[key]
		if len(values) > 0 {
			list = append(list, values...)
			s.lists.entries[key] = list
		}
		length = len(list)
	})
	if err != nil {
		return 0, err
	}
	logger.Debugf("PUSH added %d elements, list length: %d", len(values), length)
	s.observe(Lists, op, true, true, start)
	return length, nil
}

// Pop removes and returns the tail-most value of the list at key. The boolean
// is false when the list is missing or empty.
func (s *Store) Pop(key string) (string, bool, error) {
	start := time.Now()
	var (
		value string
		ok    bool
	)
	err := s.lists.write(func() {
		list := s.lists.entries[key]
		if len(list) == 0 {
			return
		}
		last := len(list) - 1
		value, ok = list[last], true
		list[last] = "" // release for GC
		list = list[:last]
		if len(list) == 0 && s.pruneEmpty {
			delete(s.lists.entries, key)
			return
		}
		s.lists.entries[key] = list
	})
	if err != nil {
		return "", false, err
	}
	if ok {
		logger.Debugf("POP returned '%s' from '%s'", value, key)
	}
	s.observe(Lists, "pop", true, ok, start)
	return value, ok, nil
}

// Len returns the length of the list at key, or 0 if it does not exist.
func (s *Store) Len(key string) (int, error) {
	start := time.Now()
	var length int
	err := s.lists.read(func() {
		length = len(s.lists.entries[key])
	})
	if err != nil {
		return 0, err
	}
	s.observe(Lists, "len", false, length > 0, start)
	return length, nil
}
