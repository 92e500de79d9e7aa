package benchmark

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"kvcore/internal/command"
	"kvcore/internal/logger"
)

// BenchmarkResult represents the result of a benchmark test
type BenchmarkResult struct {
	Command    string
	Requests   int64
	Completed  int64
	Duration   time.Duration
	Latencies  []time.Duration
	Errors     int64
	Throughput float64
	P50Latency time.Duration
	P95Latency time.Duration
	P99Latency time.Duration
}

// BenchmarkConfig holds the configuration for benchmarking
type BenchmarkConfig struct {
	Requests    int
	Concurrency int
	Commands    []string
	DataSize    int
	KeySpace    int
	RandomData  bool
	Quiet       bool
	CSV         bool
	LatencyHist bool
	Timeout     time.Duration // 0 means no limit
}

// Executor runs one command against the store under test.
type Executor interface {
	Execute(name string, args []string) (command.Reply, error)
}

// ErrInvalidConfig is returned by Validate and Run for unusable settings.
var ErrInvalidConfig = errors.New("invalid benchmark config")

// Validate checks that config can drive a run.
func (config *BenchmarkConfig) Validate() error {
	switch {
	case config.Requests <= 0:
		return fmt.Errorf("%w: requests must be positive, got %d", ErrInvalidConfig, config.Requests)
	case config.Concurrency <= 0:
		return fmt.Errorf("%w: concurrency must be positive, got %d", ErrInvalidConfig, config.Concurrency)
	case config.KeySpace <= 0:
		return fmt.Errorf("%w: keyspace must be positive, got %d", ErrInvalidConfig, config.KeySpace)
	case config.DataSize < 0:
		return fmt.Errorf("%w: data size must not be negative, got %d", ErrInvalidConfig, config.DataSize)
	case config.Timeout < 0:
		return fmt.Errorf("%w: timeout must not be negative, got %s", ErrInvalidConfig, config.Timeout)
	}
	return nil
}

// Run executes every configured command against exec in turn, spreading
// requests across Concurrency workers. Cancelling ctx stops the run early;
// results gathered so far are returned together with ctx's error.
func Run(ctx context.Context, exec Executor, config *BenchmarkConfig, out io.Writer) ([]BenchmarkResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	results := make([]BenchmarkResult, 0, len(config.Commands))
	for _, name := range config.Commands {
		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if !config.Quiet {
			fmt.Fprintf(out, "Testing %s...\n", name)
		}

		result, err := runCommand(ctx, exec, config, name)
		results = append(results, result)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func runCommand(ctx context.Context, exec Executor, config *BenchmarkConfig, name string) (BenchmarkResult, error) {
	result := BenchmarkResult{
		Command:   name,
		Requests:  int64(config.Requests),
		Latencies: make([]time.Duration, 0, config.Requests),
	}

	requestsPerWorker := config.Requests / config.Concurrency
	remainingRequests := config.Requests % config.Concurrency

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	start := time.Now()

	for i := 0; i < config.Concurrency; i++ {
		workerRequests := requestsPerWorker
		if i < remainingRequests {
			workerRequests++
		}
		workerID := i
		g.Go(func() error {
			wr, err := runWorker(gctx, exec, config, name, workerRequests, workerID)
			atomic.AddInt64(&result.Errors, wr.Errors)
			mu.Lock()
			result.Latencies = append(result.Latencies, wr.Latencies...)
			mu.Unlock()
			return err
		})
	}
	err := g.Wait()

	result.Duration = time.Since(start)
	result.Completed = int64(len(result.Latencies))
	if secs := result.Duration.Seconds(); secs > 0 {
		result.Throughput = float64(result.Completed) / secs
	}
	computePercentiles(&result)

	logger.Debugf("benchmark %s finished: %d requests, %d errors in %s", name, result.Completed, result.Errors, result.Duration)
	return result, err
}

func computePercentiles(result *BenchmarkResult) {
	n := len(result.Latencies)
	if n == 0 {
		return
	}
	sort.Slice(result.Latencies, func(i, j int) bool {
		return result.Latencies[i] < result.Latencies[j]
	})
	result.P50Latency = result.Latencies[n*50/100]
	result.P95Latency = result.Latencies[n*95/100]
	result.P99Latency = result.Latencies[n*99/100]
}

// WorkerResult holds the outcome of one worker goroutine.
type WorkerResult struct {
	Errors    int64
	Latencies []time.Duration
}

func runWorker(ctx context.Context, exec Executor, config *BenchmarkConfig, name string, requests, workerID int) (WorkerResult, error) {
	result := WorkerResult{
		Latencies: make([]time.Duration, 0, requests),
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for i := 0; i < requests; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return result, err
			}
		}
		requestID := workerID*requests + i
		cmdName, args := buildCommand(name, config, rng, requestID)

		start := time.Now()
		reply, err := exec.Execute(cmdName, args)
		if err != nil || reply.Type == command.Error {
			result.Errors++
			continue
		}
		result.Latencies = append(result.Latencies, time.Since(start))
	}
	return result, nil
}

func generateValue(size int, rng *rand.Rand) string {
	if rng != nil {
		const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
		result := make([]byte, size)
		for i := range result {
			result[i] = charset[rng.Intn(len(charset))]
		}
		return string(result)
	}
	return strings.Repeat("x", size)
}

// buildCommand maps a benchmark name to a concrete command and arguments.
// Unknown names fall back to PING.
func buildCommand(name string, config *BenchmarkConfig, rng *rand.Rand, requestID int) (string, []string) {
	var valueRng *rand.Rand
	if config.RandomData {
		valueRng = rng
	}
	slot := strconv.Itoa(requestID % config.KeySpace)
	value := func() string { return generateValue(config.DataSize, valueRng) }

	switch name {
	case "SET":
		return "SET", []string{"key:" + slot, value()}
	case "GET":
		return "GET", []string{"key:" + slot}
	case "PUSH":
		return "PUSH", []string{"list:" + slot, value()}
	case "PUSHM":
		return "PUSH", []string{"list:" + slot, value(), value(), value()}
	case "POP":
		return "POP", []string{"list:" + slot}
	case "LEN":
		return "LEN", []string{"list:" + slot}
	case "HSET":
		return "HSET", []string{"hash:" + slot, "field:" + strconv.Itoa(requestID%1000), value()}
	case "HGET":
		return "HGET", []string{"hash:" + slot, "field:" + strconv.Itoa(requestID%1000)}
	case "HDEL":
		return "HDEL", []string{"hash:" + slot, "field:" + strconv.Itoa(requestID%1000)}
	case "SADD":
		return "SADD", []string{"set:" + slot, value()}
	case "SISMEMBER":
		return "SISMEMBER", []string{"set:" + slot, value()}
	case "SREM":
		return "SREM", []string{"set:" + slot, value()}
	case "ZADD":
		return "ZADD", []string{"zset:" + slot, strconv.Itoa(requestID % 1000), "member:" + strconv.Itoa(requestID%1000)}
	case "ZSCORE":
		return "ZSCORE", []string{"zset:" + slot, "member:" + strconv.Itoa(requestID%1000)}
	case "ZREM":
		return "ZREM", []string{"zset:" + slot, "member:" + strconv.Itoa(requestID%1000)}
	case "ZRANGE":
		return "ZRANGE", []string{"zset:" + slot, "0", "9"}
	default:
		return "PING", nil
	}
}

func PrintResults(w io.Writer, results []BenchmarkResult, config *BenchmarkConfig) {
	if config.CSV {
		printCSVResults(w, results)
		return
	}

	for _, result := range results {
		fmt.Fprintf(w, "====== %s ======\n", result.Command)
		fmt.Fprintf(w, "  %s requests completed in %s\n", humanize.Comma(result.Completed), formatDuration(result.Duration))
		fmt.Fprintf(w, "  %d parallel workers\n", config.Concurrency)
		fmt.Fprintf(w, "  %.2f requests per second\n", result.Throughput)
		fmt.Fprintf(w, "  p50=%s p95=%s p99=%s\n",
			formatDuration(result.P50Latency), formatDuration(result.P95Latency), formatDuration(result.P99Latency))
		if result.Errors > 0 {
			fmt.Fprintf(w, "  %d errors\n", result.Errors)
		}
		if config.LatencyHist {
			printLatencyHistogram(w, result.Latencies)
		}
		fmt.Fprintln(w)
	}

	if !config.Quiet {
		printSummary(w, results)
	}
}

func printCSVResults(w io.Writer, results []BenchmarkResult) {
	fmt.Fprintf(w, "Command,Requests,Errors,Duration,Throughput,P50,P95,P99\n")
	for _, result := range results {
		fmt.Fprintf(w, "%s,%d,%d,%s,%.2f,%s,%s,%s\n",
			result.Command,
			result.Requests,
			result.Errors,
			formatDuration(result.Duration),
			result.Throughput,
			formatDuration(result.P50Latency),
			formatDuration(result.P95Latency),
			formatDuration(result.P99Latency))
	}
}

func printLatencyHistogram(w io.Writer, latencies []time.Duration) {
	if len(latencies) == 0 {
		return
	}

	buckets := []time.Duration{
		100 * time.Nanosecond,
		1 * time.Microsecond,
		10 * time.Microsecond,
		100 * time.Microsecond,
		1 * time.Millisecond,
		10 * time.Millisecond,
	}

	fmt.Fprintf(w, "  Latency histogram:\n")
	for _, bucket := range buckets {
		// latencies are sorted by computePercentiles
		count := sort.Search(len(latencies), func(i int) bool { return latencies[i] > bucket })
		percentage := float64(count) / float64(len(latencies)) * 100
		fmt.Fprintf(w, "    <=%s: %.1f%%\n", formatDuration(bucket), percentage)
	}
}

func printSummary(w io.Writer, results []BenchmarkResult) {
	if len(results) == 0 {
		return
	}

	var totalRequests int64
	var totalErrors int64
	var totalThroughput float64

	for _, result := range results {
		totalRequests += result.Requests
		totalErrors += result.Errors
		totalThroughput += result.Throughput
	}

	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Total requests: %s\n", humanize.Comma(totalRequests))
	fmt.Fprintf(w, "  Total errors: %s\n", humanize.Comma(totalErrors))
	fmt.Fprintf(w, "  Error rate: %.2f%%\n", float64(totalErrors)/float64(totalRequests)*100)
	fmt.Fprintf(w, "  Average throughput: %.2f requests/second\n", totalThroughput/float64(len(results)))
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%d ns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.3f µs", float64(d.Nanoseconds())/1e3)
	case d < time.Second:
		return fmt.Sprintf("%.3f ms", float64(d.Nanoseconds())/1e6)
	default:
		return fmt.Sprintf("%.3f s", d.Seconds())
	}
}

// ParseDataSize parses a value size such as "3", "512B" or "1KiB".
func ParseDataSize(s string) (int, error) {
	n, err := humanize.ParseBytes(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid data size %q: %w", s, err)
	}
	if n > 64<<20 {
		return 0, fmt.Errorf("data size %s exceeds %s", humanize.IBytes(n), humanize.IBytes(64<<20))
	}
	return int(n), nil
}
