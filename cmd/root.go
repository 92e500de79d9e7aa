package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"kvcore/internal/command"
	"kvcore/internal/config"
	"kvcore/internal/logger"
	"kvcore/internal/stats"
	"kvcore/internal/store"
)

// appConfig is populated before any subcommand runs
var appConfig *config.Config

// rootCmd represents base command when called without subcommands
var rootCmd = &cobra.Command{
	Use:   "kvcore",
	Short: "An in-memory multi-type key-value store",
	Long: `An in-memory key-value store with scalar, list, hash, set and sorted-set
collections. Each collection is locked independently and becomes unavailable,
rather than corrupt, if a writer fails mid-update.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(getStringFlag(cmd, "config", ""))
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = getStringFlag(cmd, "log-level", cfg.LogLevel)
		}
		if cmd.Flags().Changed("prune-empty") {
			cfg.PruneEmpty = getBoolFlag(cmd, "prune-empty")
		}

		logger.Init(logger.LogLevel(cfg.LogLevel))
		appConfig = cfg
		return nil
	},
}

// Execute adds child commands to root and sets flags appropriately.
// Called by main.main(). Only needs to happen once to rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().String("config", "", "Config file (yaml, json, toml or .env)")
	rootCmd.PersistentFlags().Bool("prune-empty", false, "Drop containers once their last element is removed")
}

// instance is one in-process store with its stats and command table
type instance struct {
	store    *store.Store
	stats    *stats.Manager
	registry *command.Registry
}

func newInstance(cfg *config.Config) *instance {
	m := stats.NewManager()
	s := store.New(
		store.WithObserver(m),
		store.WithPruneEmpty(cfg.PruneEmpty),
	)
	logger.WithField("prune_empty", cfg.PruneEmpty).Debugf("store initialized")
	return &instance{
		store:    s,
		stats:    m,
		registry: command.NewDefaultRegistry(s, m),
	}
}

func (rt *instance) poisoned(name string) bool {
	c, ok := store.ParseCollection(name)
	return ok && rt.store.Poisoned(c)
}

// Helper functions for flag parsing
func getStringFlag(cmd *cobra.Command, name, defaultValue string) string {
	if value, err := cmd.Flags().GetString(name); err == nil && value != "" {
		return value
	}
	return defaultValue
}

func getBoolFlag(cmd *cobra.Command, name string) bool {
	if value, err := cmd.Flags().GetBool(name); err == nil {
		return value
	}
	return false
}

func getIntFlag(cmd *cobra.Command, name string, defaultValue int) int {
	if value, err := cmd.Flags().GetInt(name); err == nil {
		return value
	}
	return defaultValue
}

func getDurationFlag(cmd *cobra.Command, name string, defaultValue time.Duration) time.Duration {
	if value, err := cmd.Flags().GetDuration(name); err == nil {
		return value
	}
	return defaultValue
}
