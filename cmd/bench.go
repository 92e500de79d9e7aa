package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"kvcore/internal/benchmark"
	"kvcore/internal/config"
	"kvcore/internal/logger"
	"kvcore/internal/stats"
)

// benchCmd represents the bench command
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark store operations in-process",
	Long: `Run store operations from many goroutines against an in-process store
and report throughput and latency percentiles.

Examples:
  kvcore bench --requests 10000 --concurrency 10
  kvcore bench --commands SET,GET,ZADD --requests 5000
  kvcore bench --latency-hist --requests 1000
  kvcore bench --metrics`,
	RunE: runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)
	addBenchFlags(benchCmd)
}

func addBenchFlags(cmd *cobra.Command) {
	cmd.Flags().Int("requests", 100000, "Total number of requests per command")
	cmd.Flags().IntP("concurrency", "c", 50, "Number of parallel workers")
	cmd.Flags().Duration("timeout", 0, "Stop the run after this long (0 means no limit)")

	cmd.Flags().String("commands", "", "Comma-separated list of commands to test")
	cmd.Flags().String("data-size", "", "Value size, e.g. 3, 512B or 1KiB")
	cmd.Flags().Int("keyspace", 10000, "Keyspace size for random key generation")
	cmd.Flags().Bool("random-data", false, "Use random data for values")

	cmd.Flags().BoolP("quiet", "q", false, "Quiet mode (only show summary)")
	cmd.Flags().Bool("csv", false, "Output in CSV format")
	cmd.Flags().Bool("latency-hist", false, "Show latency histogram")
	cmd.Flags().Bool("metrics", false, "Print store metrics in Prometheus text format after the run")
}

// benchConfig merges flags over the loaded defaults; only flags the user set
// override configuration.
func benchConfig(cmd *cobra.Command, defaults config.BenchConfig) (*benchmark.BenchmarkConfig, error) {
	cfg := &benchmark.BenchmarkConfig{
		Requests:    defaults.Requests,
		Concurrency: defaults.Concurrency,
		Commands:    append([]string(nil), defaults.Ops...),
		DataSize:    defaults.DataSize,
		KeySpace:    defaults.KeySpace,
		Timeout:     defaults.Timeout,
		RandomData:  getBoolFlag(cmd, "random-data"),
		Quiet:       getBoolFlag(cmd, "quiet"),
		CSV:         getBoolFlag(cmd, "csv"),
		LatencyHist: getBoolFlag(cmd, "latency-hist"),
	}

	flags := cmd.Flags()
	if flags.Changed("requests") {
		cfg.Requests = getIntFlag(cmd, "requests", cfg.Requests)
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = getIntFlag(cmd, "concurrency", cfg.Concurrency)
	}
	if size := getStringFlag(cmd, "data-size", ""); size != "" {
		n, err := benchmark.ParseDataSize(size)
		if err != nil {
			return nil, err
		}
		cfg.DataSize = n
	}
	if flags.Changed("keyspace") {
		cfg.KeySpace = getIntFlag(cmd, "keyspace", cfg.KeySpace)
	}
	if flags.Changed("timeout") {
		cfg.Timeout = getDurationFlag(cmd, "timeout", cfg.Timeout)
	}
	if commands := getStringFlag(cmd, "commands", ""); commands != "" {
		cfg.Commands = strings.Split(commands, ",")
	}

	for i, name := range cfg.Commands {
		cfg.Commands[i] = strings.ToUpper(strings.TrimSpace(name))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runBench(cmd *cobra.Command, _ []string) error {
	cfg, err := benchConfig(cmd, appConfig.Bench)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	rt := newInstance(appConfig)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithFields(map[string]interface{}{
		"requests":    cfg.Requests,
		"concurrency": cfg.Concurrency,
		"commands":    strings.Join(cfg.Commands, ","),
	}).Info("starting benchmark")

	results, err := benchmark.Run(ctx, rt.registry, cfg, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if err != nil {
		logger.Warnf("benchmark stopped early: %v", err)
	}

	benchmark.PrintResults(out, results, cfg)

	if getBoolFlag(cmd, "metrics") {
		reg := prometheus.NewRegistry()
		if err := reg.Register(stats.NewCollector(rt.stats, rt.poisoned)); err != nil {
			return err
		}
		return stats.WriteText(out, reg)
	}
	return nil
}
