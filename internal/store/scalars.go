package store

import (
	"time"

	"kvcore/internal/logger"
)

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	start := time.Now()
	err := s.scalars.write(func() {
		s.scalars.entries[key] = value
	})
	if err != nil {
		return err
	}
	logger.Debugf("SET stored %d bytes at '%s'", len(value), key)
	s.observe(Scalars, "set", true, true, start)
	return nil
}

// Get returns the value stored under key and whether it exists.
func (s *Store) Get(key string) (string, bool, error) {
	start := time.Now()
	var (
		value string
		ok    bool
	)
	err := s.scalars.read(func() {
		value, ok = s.scalars.entries[key]
	})
	if err != nil {
		return "", false, err
	}
	s.observe(Scalars, "get", false, ok, start)
	return value, ok, nil
}
