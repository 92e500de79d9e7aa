package stats

import (
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"kvcore/internal/store"
)

var Version = "0.1.0"
var Commit = "HEAD"
var BuildDate = "now"

const latencySamples = 1000

// StatsSnapshot represents a point-in-time snapshot of all statistics
type StatsSnapshot struct {
	Version string
	OS      string

	TotalOps        int64
	TotalWrites     int64
	OpsByType       map[string]int64
	OpsByCollection map[string]int64
	KeyspaceHits    int64
	KeyspaceMisses  int64
	AvgLatency      map[string]time.Duration
	Uptime          int64
	UptimeInDays    float64
}

// Manager aggregates store events with atomic counters and keeps per-op
// latency samples. It implements store.Observer.
type Manager struct {
	totalOps       int64
	totalWrites    int64
	keyspaceHits   int64
	keyspaceMisses int64
	byCollection   [5]int64

	mu        sync.RWMutex
	opsByType map[string]*int64
	startTime time.Time

	latencyMu sync.RWMutex
	latency   map[string]*ringBuffer
}

var _ store.Observer = (*Manager)(nil)

// ringBuffer is a lock-free circular buffer for latency samples
type ringBuffer struct {
	data   []int64
	size   int
	pos    int64 // atomic position
	filled int64 // atomic filled indicator
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]int64, size),
		size: size,
	}
}

func (rb *ringBuffer) add(value time.Duration) {
	pos := (atomic.AddInt64(&rb.pos, 1) - 1) % int64(rb.size)
	atomic.StoreInt64(&rb.data[pos], int64(value))

	// Mark as filled once we've wrapped around
	if pos == int64(rb.size-1) {
		atomic.StoreInt64(&rb.filled, 1)
	}
}

func (rb *ringBuffer) average() time.Duration {
	count := rb.size
	if atomic.LoadInt64(&rb.filled) == 0 {
		count = int(atomic.LoadInt64(&rb.pos))
		if count > rb.size {
			count = rb.size
		}
	}
	if count == 0 {
		return 0
	}

	var sum int64
	for i := 0; i < count; i++ {
		sum += atomic.LoadInt64(&rb.data[i])
	}
	return time.Duration(sum / int64(count))
}

// NewManager creates an empty stats manager
func NewManager() *Manager {
	return &Manager{
		opsByType: make(map[string]*int64),
		startTime: time.Now(),
		latency:   make(map[string]*ringBuffer),
	}
}

// Observe records one store operation.
func (s *Manager) Observe(ev store.Event) {
	atomic.AddInt64(&s.totalOps, 1)
	if ev.Collection >= 0 && int(ev.Collection) < len(s.byCollection) {
		atomic.AddInt64(&s.byCollection[ev.Collection], 1)
	}
	if ev.Write {
		atomic.AddInt64(&s.totalWrites, 1)
	} else if ev.Hit {
		atomic.AddInt64(&s.keyspaceHits, 1)
	} else {
		atomic.AddInt64(&s.keyspaceMisses, 1)
	}
	s.incrementOp(ev.Op)
	s.RecordLatency(ev.Op, ev.Duration)
}

func (s *Manager) incrementOp(op string) {
	// Use read lock first for common case (op already seen)
	s.mu.RLock()
	counter, exists := s.opsByType[op]
	s.mu.RUnlock()

	if !exists {
		s.mu.Lock()
		if counter, exists = s.opsByType[op]; !exists {
			counter = new(int64)
			s.opsByType[op] = counter
		}
		s.mu.Unlock()
	}
	atomic.AddInt64(counter, 1)
}

func (s *Manager) GetTotalOps() int64 {
	return atomic.LoadInt64(&s.totalOps)
}

func (s *Manager) GetTotalWrites() int64 {
	return atomic.LoadInt64(&s.totalWrites)
}

func (s *Manager) GetKeyspaceHits() int64 {
	return atomic.LoadInt64(&s.keyspaceHits)
}

func (s *Manager) GetKeyspaceMisses() int64 {
	return atomic.LoadInt64(&s.keyspaceMisses)
}

// GetOpsByCollection returns operation counts keyed by collection name.
func (s *Manager) GetOpsByCollection() map[string]int64 {
	out := make(map[string]int64, len(store.Collections))
	for _, c := range store.Collections {
		out[c.String()] = atomic.LoadInt64(&s.byCollection[c])
	}
	return out
}

// GetOpsByType returns a copy of the per-operation counters.
func (s *Manager) GetOpsByType() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int64, len(s.opsByType))
	for op, c := range s.opsByType {
		out[op] = atomic.LoadInt64(c)
	}
	return out
}

// RecordLatency adds a latency sample for op.
func (s *Manager) RecordLatency(op string, latency time.Duration) {
	s.latencyMu.RLock()
	rb, exists := s.latency[op]
	s.latencyMu.RUnlock()

	if !exists {
		s.latencyMu.Lock()
		if rb, exists = s.latency[op]; !exists {
			rb = newRingBuffer(latencySamples)
			s.latency[op] = rb
		}
		s.latencyMu.Unlock()
	}
	rb.add(latency)
}

// GetAverageLatency returns the mean of the retained samples for op.
func (s *Manager) GetAverageLatency(op string) time.Duration {
	s.latencyMu.RLock()
	rb, exists := s.latency[op]
	s.latencyMu.RUnlock()
	if !exists {
		return 0
	}
	return rb.average()
}

// GetUptime returns seconds since the manager was created.
func (s *Manager) GetUptime() int64 {
	return int64(time.Since(s.startTime).Seconds())
}

// HitRatio returns hits / (hits + misses), or 0 before any read.
func (s *Manager) HitRatio() float64 {
	hits := s.GetKeyspaceHits()
	total := hits + s.GetKeyspaceMisses()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// GetSnapshot returns a consistent-enough copy of all statistics.
func (s *Manager) GetSnapshot() StatsSnapshot {
	ops := s.GetOpsByType()
	avg := make(map[string]time.Duration, len(ops))
	for op := range ops {
		avg[op] = s.GetAverageLatency(op)
	}
	uptime := s.GetUptime()
	return StatsSnapshot{
		Version:         Version,
		OS:              runtime.GOOS + " " + runtime.GOARCH,
		TotalOps:        s.GetTotalOps(),
		TotalWrites:     s.GetTotalWrites(),
		OpsByType:       ops,
		OpsByCollection: s.GetOpsByCollection(),
		KeyspaceHits:    s.GetKeyspaceHits(),
		KeyspaceMisses:  s.GetKeyspaceMisses(),
		AvgLatency:      avg,
		Uptime:          uptime,
		UptimeInDays:    float64(uptime) / 86400,
	}
}

// SortedOps returns the operation names of a snapshot in lexical order.
func (snap StatsSnapshot) SortedOps() []string {
	ops := make([]string, 0, len(snap.OpsByType))
	for op := range snap.OpsByType {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}
