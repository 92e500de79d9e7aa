package stats

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "kvcore"

// Collector exposes a Manager as prometheus metrics. Values are read from the
// manager on every scrape, so registering it costs nothing on the hot path.
type Collector struct {
	m *Manager

	ops          *prometheus.Desc
	opsByColl    *prometheus.Desc
	writes       *prometheus.Desc
	hits         *prometheus.Desc
	misses       *prometheus.Desc
	avgLatency   *prometheus.Desc
	uptime       *prometheus.Desc
	poisoned     *prometheus.Desc
	poisonedFunc func(collection string) bool
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a collector for m. poisoned may be nil; when set it
// is asked for the poisoned state of each collection.
func NewCollector(m *Manager, poisoned func(collection string) bool) *Collector {
	return &Collector{
		m:            m,
		poisonedFunc: poisoned,
		ops: prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "ops_total"),
			"Total store operations by operation name.", []string{"op"}, nil),
		opsByColl: prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "collection_ops_total"),
			"Total store operations by collection.", []string{"collection"}, nil),
		writes: prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "writes_total"),
			"Total mutating operations.", nil, nil),
		hits: prometheus.NewDesc(prometheus.BuildFQName(namespace, "keyspace", "hits_total"),
			"Reads that found their key, field or member.", nil, nil),
		misses: prometheus.NewDesc(prometheus.BuildFQName(namespace, "keyspace", "misses_total"),
			"Reads that found nothing.", nil, nil),
		avgLatency: prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "op_latency_avg_seconds"),
			"Mean latency over the most recent samples by operation name.", []string{"op"}, nil),
		uptime: prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "uptime_seconds"),
			"Seconds since the stats manager started.", nil, nil),
		poisoned: prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "collection_poisoned"),
			"1 if the collection was left unusable by a failed writer.", []string{"collection"}, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.ops
	ch <- c.opsByColl
	ch <- c.writes
	ch <- c.hits
	ch <- c.misses
	ch <- c.avgLatency
	ch <- c.uptime
	if c.poisonedFunc != nil {
		ch <- c.poisoned
	}
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.m.GetSnapshot()

	for _, op := range snap.SortedOps() {
		ch <- prometheus.MustNewConstMetric(c.ops, prometheus.CounterValue, float64(snap.OpsByType[op]), op)
		ch <- prometheus.MustNewConstMetric(c.avgLatency, prometheus.GaugeValue, snap.AvgLatency[op].Seconds(), op)
	}
	for coll, n := range snap.OpsByCollection {
		ch <- prometheus.MustNewConstMetric(c.opsByColl, prometheus.CounterValue, float64(n), coll)
		if c.poisonedFunc != nil {
			v := 0.0
			if c.poisonedFunc(coll) {
				v = 1
			}
			ch <- prometheus.MustNewConstMetric(c.poisoned, prometheus.GaugeValue, v, coll)
		}
	}
	ch <- prometheus.MustNewConstMetric(c.writes, prometheus.CounterValue, float64(snap.TotalWrites))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(snap.KeyspaceHits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(snap.KeyspaceMisses))
	ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.GaugeValue, float64(snap.Uptime))
}

// WriteText gathers g and writes it in the prometheus text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
