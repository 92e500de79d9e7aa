package command

import (
	"sort"

	"kvcore/internal/store"
)

func registerHashes(r *Registry, s *store.Store) {
	r.Register(&Command{Name: "HSET", Arity: 3, Handler: HSetHandler(s), Usage: "HSET key field value"})
	r.Register(&Command{Name: "HGET", Arity: 2, Handler: HGetHandler(s), ReadOnly: true, Usage: "HGET key field"})
	r.Register(&Command{Name: "HDEL", Arity: 2, Handler: HDelHandler(s), Usage: "HDEL key field"})
	r.Register(&Command{Name: "HLEN", Arity: 1, Handler: HLenHandler(s), ReadOnly: true, Usage: "HLEN key"})
	r.Register(&Command{Name: "HGETALL", Arity: 1, Handler: HGetAllHandler(s), ReadOnly: true, Usage: "HGETALL key"})
}

// HSetHandler handles the HSET command
func HSetHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		if err := s.HashSet(args[0], args[1], args[2]); err != nil {
			return Reply{}, err
		}
		return OK, nil
	}
}

// HGetHandler handles the HGET command
func HGetHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		value, ok, err := s.HashGet(args[0], args[1])
		if err != nil {
			return Reply{}, err
		}
		if !ok {
			return NullBulk, nil
		}
		return Bulk(value), nil
	}
}

// HDelHandler handles the HDEL command
func HDelHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		removed, err := s.HashDel(args[0], args[1])
		if err != nil {
			return Reply{}, err
		}
		return Bool(removed), nil
	}
}

// HLenHandler handles the HLEN command
func HLenHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		n, err := s.HashLen(args[0])
		if err != nil {
			return Reply{}, err
		}
		return Int(n), nil
	}
}

// HGetAllHandler handles the HGETALL command. Fields are sorted so output is
// stable.
func HGetAllHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		all, err := s.HashGetAll(args[0])
		if err != nil {
			return Reply{}, err
		}
		fields := make([]string, 0, len(all))
		for f := range all {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		flat := make([]string, 0, 2*len(fields))
		for _, f := range fields {
			flat = append(flat, f, all[f])
		}
		return Strings(flat), nil
	}
}
