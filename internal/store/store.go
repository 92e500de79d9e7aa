package store

import (
	"sort"
	"time"
)

// Collection identifies one of the typed namespaces of a Store.
type Collection int

const (
	Scalars Collection = iota
	Lists
	Hashes
	Sets
	SortedSets
)

// Collections lists every collection in declaration order.
var Collections = []Collection{Scalars, Lists, Hashes, Sets, SortedSets}

func (c Collection) String() string {
	switch c {
	case Scalars:
		return "scalars"
	case Lists:
		return "lists"
	case Hashes:
		return "hashes"
	case Sets:
		return "sets"
	case SortedSets:
		return "sortedsets"
	default:
		return "unknown"
	}
}

// ParseCollection maps a collection name, as returned by String, back to
// its Collection.
func ParseCollection(name string) (Collection, bool) {
	for _, c := range Collections {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// Event describes one completed store operation.
type Event struct {
	Collection Collection
	Op         string
	Write      bool
	// Hit is true when a read found its key/field/member, or when a
	// conditional write (pop, delete, remove) had something to act on.
	Hit      bool
	Duration time.Duration
}

// Observer receives an Event after every successful operation. It is called
// after the collection lock has been released.
type Observer interface {
	Observe(Event)
}

// Option configures a Store.
type Option func(*Store)

// WithObserver registers an observer for operation events.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

// WithPruneEmpty removes list, hash, set and sorted-set entries once their
// last element is removed. Reads behave the same either way.
func WithPruneEmpty(prune bool) Option {
	return func(s *Store) { s.pruneEmpty = prune }
}

// collection is a keyed map guarded by its own reader/writer lock.
type collection[V any] struct {
	guard
	entries map[string]V
}

func (c *collection[V]) setup(coll Collection) {
	c.coll = coll
	c.entries = make(map[string]V)
}

// Store is an in-memory multi-type key-value store. Each collection is
// locked independently: operations on different collections never block each
// other. All methods are safe for concurrent use.
//
// Absent keys, fields and members are reported through boolean results, not
// errors. The only errors are ErrCollectionUnavailable, returned for every
// operation on a collection whose writer panicked mid-mutation, and
// ErrInvalidScore for NaN sorted-set scores.
type Store struct {
	scalars collection[string]
	lists   collection[[]string]
	hashes  collection[map[string]string]
	sets    collection[map[string]struct{}]
	zsets   collection[*sortedSet]

	observer   Observer
	pruneEmpty bool
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{}
	s.scalars.setup(Scalars)
	s.lists.setup(Lists)
	s.hashes.setup(Hashes)
	s.sets.setup(Sets)
	s.zsets.setup(SortedSets)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) guardFor(c Collection) *guard {
	switch c {
	case Scalars:
		return &s.scalars.guard
	case Lists:
		return &s.lists.guard
	case Hashes:
		return &s.hashes.guard
	case Sets:
		return &s.sets.guard
	case SortedSets:
		return &s.zsets.guard
	}
	return nil
}

// Poisoned reports whether collection c has been left unusable by a failed
// writer.
func (s *Store) Poisoned(c Collection) bool {
	g := s.guardFor(c)
	return g != nil && g.poisoned.Load()
}

// Keys returns the sorted keys of collection c. Empty containers are
// skipped so the result does not depend on pruning.
func (s *Store) Keys(c Collection) ([]string, error) {
	var keys []string
	var err error
	switch c {
	case Scalars:
		err = s.scalars.read(func() { keys = collectKeys(s.scalars.entries, func(string) bool { return true }) })
	case Lists:
		err = s.lists.read(func() { keys = collectKeys(s.lists.entries, func(l []string) bool { return len(l) > 0 }) })
	case Hashes:
		err = s.hashes.read(func() {
			keys = collectKeys(s.hashes.entries, func(h map[string]string) bool { return len(h) > 0 })
		})
	case Sets:
		err = s.sets.read(func() {
			keys = collectKeys(s.sets.entries, func(m map[string]struct{}) bool { return len(m) > 0 })
		})
	case SortedSets:
		err = s.zsets.read(func() { keys = collectKeys(s.zsets.entries, func(z *sortedSet) bool { return z.len() > 0 }) })
	default:
		return nil, ErrUnknownCollection
	}
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func collectKeys[V any](m map[string]V, keep func(V) bool) []string {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if keep(v) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (s *Store) observe(c Collection, op string, write, hit bool, start time.Time) {
	if s.observer == nil {
		return
	}
	s.observer.Observe(Event{
		Collection: c,
		Op:         op,
		Write:      write,
		Hit:        hit,
		Duration:   time.Since(start),
	})
}
