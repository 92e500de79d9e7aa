package store

import (
	"time"

	"kvcore/internal/logger"
)

// HashSet sets field to value in the hash at key, creating the hash if needed.
func (s *Store) HashSet(key, field, value string) error {
	start := time.Now()
	err := s.hashes.write(func() {
		h, ok := s.hashes.entries[key]
		if !ok {
			h = make(map[string]string)
			s.hashes.entries[key] = h
		}
		h[field] = value
	})
	if err != nil {
		return err
	}
	logger.Debugf("HSET '%s' field '%s'", key, field)
	s.observe(Hashes, "hset", true, true, start)
	return nil
}

// HashGet returns the value of field in the hash at key.
func (s *Store) HashGet(key, field string) (string, bool, error) {
	start := time.Now()
	var (
		value string
		ok    bool
	)
	err := s.hashes.read(func() {
		value, ok = s.hashes.entries[key][field]
	})
	if err != nil {
		return "", false, err
	}
	s.observe(Hashes, "hget", false, ok, start)
	return value, ok, nil
}

// HashDel removes field from the hash at key and reports whether it was
// present.
func (s *Store) HashDel(key, field string) (bool, error) {
	start := time.Now()
	var removed bool
	err := s.hashes.write(func() {
		h, ok := s.hashes.entries[key]
		if !ok {
			return
		}
		if _, removed = h[field]; !removed {
			return
		}
		delete(h, field)
		if len(h) == 0 && s.pruneEmpty {
			delete(s.hashes.entries, key)
		}
	})
	if err != nil {
		return false, err
	}
	s.observe(Hashes, "hdel", true, removed, start)
	return removed, nil
}

// HashLen returns the number of fields in the hash at key.
func (s *Store) HashLen(key string) (int, error) {
	start := time.Now()
	var n int
	err := s.hashes.read(func() {
		n = len(s.hashes.entries[key])
	})
	if err != nil {
		return 0, err
	}
	s.observe(Hashes, "hlen", false, n > 0, start)
	return n, nil
}

// HashGetAll returns a copy of every field/value pair in the hash at key. A
// missing hash yields an empty, non-nil map.
func (s *Store) HashGetAll(key string) (map[string]string, error) {
	start := time.Now()
	var out map[string]string
	err := s.hashes.read(func() {
		h := s.hashes.entries[key]
		out = make(map[string]string, len(h))
		for f, v := range h {
			out[f] = v
		}
	})
	if err != nil {
		return nil, err
	}
	s.observe(Hashes, "hgetall", false, len(out) > 0, start)
	return out, nil
}
