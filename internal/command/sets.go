package command

import (
	"kvcore/internal/store"
)

func registerSets(r *Registry, s *store.Store) {
	r.Register(&Command{Name: "SADD", Arity: 2, Handler: SAddHandler(s), Usage: "SADD key member"})
	r.Register(&Command{Name: "SISMEMBER", Arity: 2, Handler: SIsMemberHandler(s), ReadOnly: true, Usage: "SISMEMBER key member"})
	r.Register(&Command{Name: "SREM", Arity: 2, Handler: SRemHandler(s), Usage: "SREM key member"})
	r.Register(&Command{Name: "SCARD", Arity: 1, Handler: SCardHandler(s), ReadOnly: true, Usage: "SCARD key"})
	r.Register(&Command{Name: "SMEMBERS", Arity: 1, Handler: SMembersHandler(s), ReadOnly: true, Usage: "SMEMBERS key"})
}

// SAddHandler handles the SADD command
func SAddHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		added, err := s.SetAdd(args[0], args[1])
		if err != nil {
			return Reply{}, err
		}
		return Bool(added), nil
	}
}

// SIsMemberHandler handles the SISMEMBER command
func SIsMemberHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		ok, err := s.SetIsMember(args[0], args[1])
		if err != nil {
			return Reply{}, err
		}
		return Bool(ok), nil
	}
}

// SRemHandler handles the SREM command
func SRemHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		removed, err := s.SetRemove(args[0], args[1])
		if err != nil {
			return Reply{}, err
		}
		return Bool(removed), nil
	}
}

// SCardHandler handles the SCARD command
func SCardHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		n, err := s.SetCard(args[0])
		if err != nil {
			return Reply{}, err
		}
		return Int(n), nil
	}
}

// SMembersHandler handles the SMEMBERS command
func SMembersHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		members, err := s.SetMembers(args[0])
		if err != nil {
			return Reply{}, err
		}
		return Strings(members), nil
	}
}
