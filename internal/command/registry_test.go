package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvcore/internal/stats"
	"kvcore/internal/store"
)

func newTestRegistry() (*Registry, *store.Store) {
	m := stats.NewManager()
	s := store.New(store.WithObserver(m))
	return NewDefaultRegistry(s, m), s
}

func TestRegistryCaseInsensitive(t *testing.T) {
	r, _ := newTestRegistry()

	for _, name := range []string{"GET", "get", "Get"} {
		cmd, ok := r.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, "GET", cmd.Name)
	}

	_, ok := r.Get("NOPE")
	assert.False(t, ok)
}

func TestRegistryArity(t *testing.T) {
	r, _ := newTestRegistry()

	_, err := r.Execute("GET", nil)
	require.Error(t, err)
	assert.Equal(t, "ERR wrong number of arguments for 'get' command", err.Error())

	_, err = r.Execute("PUSH", []string{"only-key"})
	require.Error(t, err)

	_, err = r.Execute("UNKNOWN", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRegistryList(t *testing.T) {
	r, _ := newTestRegistry()
	names := r.List()
	assert.Contains(t, names, "SET")
	assert.Contains(t, names, "ZRANGE")
	assert.Contains(t, names, "STATS")
	assert.IsIncreasing(t, names)

	noStats := NewDefaultRegistry(store.New(), nil)
	assert.NotContains(t, noStats.List(), "STATS")
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"SET key value", []string{"SET", "key", "value"}},
		{"  SET   key\tvalue  ", []string{"SET", "key", "value"}},
		{`SET key "hello world"`, []string{"SET", "key", "hello world"}},
		{`SET key ""`, []string{"SET", "key", ""}},
		{`SET key "a\"b\\c\n"`, []string{"SET", "key", "a\"b\\c\n"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			parts, err := Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, parts)
		})
	}

	_, err := Tokenize(`SET key "unterminated`)
	assert.Error(t, err)
}

func TestExecuteLine(t *testing.T) {
	r, _ := newTestRegistry()

	tests := []struct {
		line     string
		expected string
	}{
		{"PING", "PONG"},
		{"GET missing", "(nil)"},
		{`SET greeting "hello world"`, "OK"},
		{"GET greeting", `"hello world"`},
		{"PUSH stack a", "(integer) 1"},
		{"PUSH stack b c", "(integer) 3"},
		{"LEN stack", "(integer) 3"},
		{"POP stack", `"c"`},
		{"LEN nothing", "(integer) 0"},
		{"POP nothing", "(nil)"},
		{"HSET h f v", "OK"},
		{"HGET h f", `"v"`},
		{"HGETALL h", `1) "f"` + "\n" + `2) "v"`},
		{"HDEL h f", "(integer) 1"},
		{"HDEL h f", "(integer) 0"},
		{"HLEN h", "(integer) 0"},
		{"SADD s m", "(integer) 1"},
		{"SADD s m", "(integer) 0"},
		{"SISMEMBER s m", "(integer) 1"},
		{"SCARD s", "(integer) 1"},
		{"SMEMBERS s", `1) "m"`},
		{"SREM s m", "(integer) 1"},
		{"SMEMBERS s", "(empty array)"},
		{"ZADD z 1.5 m", "(integer) 1"},
		{"ZADD z 2 m", "(integer) 0"},
		{"ZSCORE z m", `"2"`},
		{"ZADD z 0.5 a", "(integer) 1"},
		{"ZRANK z m", "(integer) 1"},
		{"ZRANGE z 0 -1 WITHSCORES", `1) "a"` + "\n" + `2) "0.5"` + "\n" + `3) "m"` + "\n" + `4) "2"`},
		{"ZCARD z", "(integer) 2"},
		{"ZREM z m", "(integer) 1"},
		{"ZSCORE z m", "(nil)"},
		{"ZADD z notanumber m", "(error) ERR value is not a valid float"},
		{"ZADD z NaN m", "(error) ERR value is not a valid float"},
		{"ZRANGE z 0 x", "(error) ERR value is not an integer or out of range"},
		{"ZRANGE z 0 1 BOGUS", "(error) ERR syntax error"},
		{"KEYS scalars", `1) "greeting"`},
		{"KEYS bogus", "(error) ERR unknown collection 'bogus'"},
		{"GET", "(error) ERR wrong number of arguments for 'get' command"},
		{"", "(error) ERR empty command"},
	}

	for _, tt := range tests {
		reply, err := r.ExecuteLine(tt.line)
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.expected, reply.Format(), tt.line)
	}
}

func TestExecuteLineStoreError(t *testing.T) {
	r := NewRegistry()
	r.Register(&Command{Name: "BROKEN", Arity: 0, Handler: func([]string) (Reply, error) {
		return Reply{}, &store.UnavailableError{Collection: store.Lists}
	}})

	reply, err := r.ExecuteLine("broken")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrCollectionUnavailable)
	assert.Equal(t, Error, reply.Type)
	assert.Contains(t, reply.Format(), "(error) ERR collection unavailable")
}

func TestStatsCommand(t *testing.T) {
	r, _ := newTestRegistry()
	_, err := r.ExecuteLine("SET k v")
	require.NoError(t, err)

	reply, err := r.ExecuteLine("STATS")
	require.NoError(t, err)
	out := reply.Format()
	assert.Contains(t, out, "# Stats")
	assert.Contains(t, out, "op_set:calls=1")
}
