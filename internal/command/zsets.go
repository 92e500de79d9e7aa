package command

import (
	"errors"
	"strconv"
	"strings"

	"kvcore/internal/store"
)

func registerSortedSets(r *Registry, s *store.Store) {
	r.Register(&Command{Name: "ZADD", Arity: 3, Handler: ZAddHandler(s), Usage: "ZADD key score member"})
	r.Register(&Command{Name: "ZSCORE", Arity: 2, Handler: ZScoreHandler(s), ReadOnly: true, Usage: "ZSCORE key member"})
	r.Register(&Command{Name: "ZREM", Arity: 2, Handler: ZRemHandler(s), Usage: "ZREM key member"})
	r.Register(&Command{Name: "ZCARD", Arity: 1, Handler: ZCardHandler(s), ReadOnly: true, Usage: "ZCARD key"})
	r.Register(&Command{Name: "ZRANK", Arity: 2, Handler: ZRankHandler(s), ReadOnly: true, Usage: "ZRANK key member"})
	r.Register(&Command{Name: "ZRANGE", Arity: -3, Handler: ZRangeHandler(s), ReadOnly: true, Usage: "ZRANGE key start stop [WITHSCORES]"})
}

// ZAddHandler handles the ZADD command: ZADD key score member
func ZAddHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		score, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return Reply{}, &CommandError{"ERR value is not a valid float"}
		}
		added, err := s.ZSetAdd(args[0], score, args[2])
		if errors.Is(err, store.ErrInvalidScore) {
			return Reply{}, &CommandError{"ERR value is not a valid float"}
		}
		if err != nil {
			return Reply{}, err
		}
		return Bool(added), nil
	}
}

// ZScoreHandler handles the ZSCORE command
func ZScoreHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		score, ok, err := s.ZSetScore(args[0], args[1])
		if err != nil {
			return Reply{}, err
		}
		if !ok {
			return NullBulk, nil
		}
		return Float(score), nil
	}
}

// ZRemHandler handles the ZREM command
func ZRemHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		removed, err := s.ZSetRemove(args[0], args[1])
		if err != nil {
			return Reply{}, err
		}
		return Bool(removed), nil
	}
}

// ZCardHandler handles the ZCARD command
func ZCardHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		n, err := s.ZSetCard(args[0])
		if err != nil {
			return Reply{}, err
		}
		return Int(n), nil
	}
}

// ZRankHandler handles the ZRANK command
func ZRankHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		rank, ok, err := s.ZSetRank(args[0], args[1])
		if err != nil {
			return Reply{}, err
		}
		if !ok {
			return NullBulk, nil
		}
		return Int(rank), nil
	}
}

// ZRangeHandler handles the ZRANGE command: ZRANGE key start stop [WITHSCORES]
func ZRangeHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		if len(args) > 4 {
			return Reply{}, wrongArgs("ZRANGE")
		}
		start, err1 := strconv.Atoi(args[1])
		stop, err2 := strconv.Atoi(args[2])
		if err1 != nil || err2 != nil {
			return Reply{}, &CommandError{"ERR value is not an integer or out of range"}
		}
		withScores := false
		if len(args) == 4 {
			if !strings.EqualFold(args[3], "WITHSCORES") {
				return Reply{}, &CommandError{"ERR syntax error"}
			}
			withScores = true
		}

		members, err := s.ZSetRange(args[0], start, stop)
		if err != nil {
			return Reply{}, err
		}
		arr := make([]Reply, 0, len(members)*2)
		for _, m := range members {
			arr = append(arr, Bulk(m.Member))
			if withScores {
				arr = append(arr, Float(m.Score))
			}
		}
		return Reply{Type: Array, Array: arr}, nil
	}
}
