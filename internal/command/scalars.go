package command

import (
	"kvcore/internal/store"
)

func registerScalars(r *Registry, s *store.Store) {
	r.Register(&Command{Name: "SET", Arity: 2, Handler: SetHandler(s), Usage: "SET key value"})
	r.Register(&Command{Name: "GET", Arity: 1, Handler: GetHandler(s), ReadOnly: true, Usage: "GET key"})
}

// SetHandler handles the SET command
func SetHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		if err := s.Set(args[0], args[1]); err != nil {
			return Reply{}, err
		}
		return OK, nil
	}
}

// GetHandler handles the GET command
func GetHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		value, ok, err := s.Get(args[0])
		if err != nil {
			return Reply{}, err
		}
		if !ok {
			return NullBulk, nil
		}
		return Bulk(value), nil
	}
}
