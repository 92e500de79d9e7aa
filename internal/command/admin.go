package command

import (
	"fmt"
	"strings"

	"kvcore/internal/stats"
	"kvcore/internal/store"
)

func registerAdmin(r *Registry, s *store.Store, m *stats.Manager) {
	r.Register(&Command{Name: "PING", Arity: 0, Handler: PingHandler(), ReadOnly: true, Usage: "PING"})
	r.Register(&Command{Name: "KEYS", Arity: 1, Handler: KeysHandler(s), ReadOnly: true,
		Usage: "KEYS scalars|lists|hashes|sets|sortedsets"})
	if m != nil {
		r.Register(&Command{Name: "STATS", Arity: 0, Handler: StatsHandler(m), ReadOnly: true, Usage: "STATS"})
	}
}

// PingHandler handles the PING command
func PingHandler() Handler {
	return func(args []string) (Reply, error) {
		return Reply{Type: SimpleString, Str: "PONG"}, nil
	}
}

// KeysHandler handles the KEYS command, listing the keys of one collection.
func KeysHandler(s *store.Store) Handler {
	return func(args []string) (Reply, error) {
		coll, ok := store.ParseCollection(strings.ToLower(args[0]))
		if !ok {
			return Reply{}, &CommandError{"ERR unknown collection '" + args[0] + "'"}
		}
		keys, err := s.Keys(coll)
		if err != nil {
			return Reply{}, err
		}
		return Strings(keys), nil
	}
}

// StatsHandler handles the STATS command, rendering an INFO-like report.
func StatsHandler(m *stats.Manager) Handler {
	return func(args []string) (Reply, error) {
		snap := m.GetSnapshot()
		var b strings.Builder
		b.WriteString("# Stats\n")
		fmt.Fprintf(&b, "version:%s\n", snap.Version)
		fmt.Fprintf(&b, "uptime_in_seconds:%d\n", snap.Uptime)
		fmt.Fprintf(&b, "total_ops:%d\n", snap.TotalOps)
		fmt.Fprintf(&b, "total_writes:%d\n", snap.TotalWrites)
		fmt.Fprintf(&b, "keyspace_hits:%d\n", snap.KeyspaceHits)
		fmt.Fprintf(&b, "keyspace_misses:%d\n", snap.KeyspaceMisses)
		b.WriteString("# Ops\n")
		for _, op := range snap.SortedOps() {
			fmt.Fprintf(&b, "op_%s:calls=%d,avg_usec=%.2f\n", op, snap.OpsByType[op],
				float64(snap.AvgLatency[op].Nanoseconds())/1e3)
		}
		return Bulk(b.String()), nil
	}
}
