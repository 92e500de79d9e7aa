package command

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"kvcore/internal/stats"
	"kvcore/internal/store"
)

// Handler represents a command handler function
type Handler func(args []string) (Reply, error)

// Command represents a registered command
type Command struct {
	Name     string
	Arity    int // -N means at least N arguments, >=0 means exact arity
	Handler  Handler
	ReadOnly bool
	Usage    string
}

// CommandError represents a command execution error
type CommandError struct {
	Message string
}

func (e *CommandError) Error() string {
	return e.Message
}

func wrongArgs(name string) error {
	return &CommandError{"ERR wrong number of arguments for '" + strings.ToLower(name) + "' command"}
}

// Registry maps command names to handlers. Lookups are case-insensitive.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
}

// NewRegistry creates an empty command registry
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command, 32)}
}

// NewDefaultRegistry creates a registry with every store command registered
// against s. m may be nil, in which case STATS is not available.
func NewDefaultRegistry(s *store.Store, m *stats.Manager) *Registry {
	r := NewRegistry()
	registerScalars(r, s)
	registerLists(r, s)
	registerHashes(r, s)
	registerSets(r, s)
	registerSortedSets(r, s)
	registerAdmin(r, s, m)
	return r
}

// Register adds a command to the registry
func (r *Registry) Register(cmd *Command) {
	r.mu.Lock()
	r.commands[strings.ToUpper(cmd.Name)] = cmd
	r.mu.Unlock()
}

// Get retrieves a command by name
func (r *Registry) Get(name string) (*Command, bool) {
	r.mu.RLock()
	cmd, ok := r.commands[strings.ToUpper(name)]
	r.mu.RUnlock()
	return cmd, ok
}

// Execute runs a command with arity validation
func (r *Registry) Execute(name string, args []string) (Reply, error) {
	cmd, ok := r.Get(name)
	if !ok {
		return Reply{}, &CommandError{"ERR unknown command '" + name + "'"}
	}

	if cmd.Arity >= 0 && len(args) != cmd.Arity {
		return Reply{}, wrongArgs(cmd.Name)
	}
	if cmd.Arity < 0 && len(args) < -cmd.Arity {
		return Reply{}, wrongArgs(cmd.Name)
	}

	return cmd.Handler(args)
}

// ExecuteLine tokenizes a command line and executes it. Errors are folded
// into an Error reply; store unavailability is additionally returned so
// callers can stop using a poisoned collection.
func (r *Registry) ExecuteLine(line string) (Reply, error) {
	parts, err := Tokenize(line)
	if err != nil {
		return Reply{Type: Error, Str: err.Error()}, nil
	}
	if len(parts) == 0 {
		return Reply{Type: Error, Str: "ERR empty command"}, nil
	}

	reply, err := r.Execute(parts[0], parts[1:])
	if err == nil {
		return reply, nil
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return Reply{Type: Error, Str: cmdErr.Message}, nil
	}
	return Reply{Type: Error, Str: "ERR " + err.Error()}, err
}

// List returns all registered command names in lexical order
func (r *Registry) List() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Tokenize splits a command line on whitespace. Double-quoted arguments may
// contain spaces and the escapes \" \\ \n \t; "" is an empty argument.
func Tokenize(line string) ([]string, error) {
	var (
		parts   []string
		cur     strings.Builder
		inQuote bool
		hasTok  bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuote && c == '\\' && i+1 < len(line):
			i++
			switch line[i] {
			case 'n':
				cur.WriteByte('\n')
			case 't':
				cur.WriteByte('\t')
			default:
				cur.WriteByte(line[i])
			}
		case c == '"':
			inQuote = !inQuote
			hasTok = true
		case !inQuote && (c == ' ' || c == '\t'):
			if hasTok {
				parts = append(parts, cur.String())
				cur.Reset()
				hasTok = false
			}
		default:
			cur.WriteByte(c)
			hasTok = true
		}
	}
	if inQuote {
		return nil, &CommandError{"ERR unbalanced quotes in request"}
	}
	if hasTok {
		parts = append(parts, cur.String())
	}
	return parts, nil
}
