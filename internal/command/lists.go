package command

import (
	"kvcore/internal/store"
)

func registerLists(r *Registry, s *store.Store) {
	r.Register(&Command{Name: "PUSH", Arity: -2, Handler: PushHandler(s), Usage: "PUSH key value [value ...]"})
	r.Register(&Command{Name: "POP", Arity: 1, Handler: PopHandler(s), Usage: "POP key"})
	r.Register(&Command{Name: "LEN", Arity: 1, Handler: LenHandler(s), ReadOnly: true, Usage: "LEN key"})
}

// PushHandler handles the PUSH command. Several values are appended
// atomically, in argument order.
func PushHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		var (
			length int
			err    error
		)
		if len(args) == 2 {
			length, err = s.Push(args[0], args[1])
		} else {
			length, err = s.PushMulti(args[0], args[1:]...)
		}
		if err != nil {
			return Reply{}, err
		}
		return Int(length), nil
	}
}

// PopHandler handles the POP command
func PopHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		value, ok, err := s.Pop(args[0])
		if err != nil {
			return Reply{}, err
		}
		if !ok {
			return NullBulk, nil
		}
		return Bulk(value), nil
	}
}

// LenHandler handles the LEN command
func LenHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		length, err := s.Len(args[0])
		if err != nil {
			return Reply{}, err
		}
		return Int(length), nil
	}
}
