package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	LogLevel   string `mapstructure:"KVCORE_LOG_LEVEL"`
	PruneEmpty bool   `mapstructure:"KVCORE_PRUNE_EMPTY"`

	Bench BenchConfig `mapstructure:",squash"`
}

// BenchConfig holds defaults for the in-process benchmark.
type BenchConfig struct {
	Requests    int           `mapstructure:"KVCORE_BENCH_REQUESTS"`
	Concurrency int           `mapstructure:"KVCORE_BENCH_CONCURRENCY"`
	KeySpace    int           `mapstructure:"KVCORE_BENCH_KEYSPACE"`
	DataSize    int           `mapstructure:"KVCORE_BENCH_DATA_SIZE"`
	Ops         []string      `mapstructure:"KVCORE_BENCH_OPS"`
	Timeout     time.Duration `mapstructure:"KVCORE_BENCH_TIMEOUT"`
}

var validLevels = map[string]struct{}{
	"debug": {}, "info": {}, "warn": {}, "error": {}, "panic": {}, "fatal": {},
}

// Load reads configuration from, in increasing precedence: built-in
// defaults, the optional config file, a .env file in the working directory
// and the process environment.
func Load(configFile string) (*Config, error) {
	loadDotEnv(".env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	// comma-separated env values arrive as a single string
	if ops := v.GetString("KVCORE_BENCH_OPS"); ops != "" && !strings.HasPrefix(ops, "[") {
		v.Set("KVCORE_BENCH_OPS", strings.Split(ops, ","))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("KVCORE_LOG_LEVEL", "info")
	v.SetDefault("KVCORE_PRUNE_EMPTY", false)
	v.SetDefault("KVCORE_BENCH_REQUESTS", 100000)
	v.SetDefault("KVCORE_BENCH_CONCURRENCY", 50)
	v.SetDefault("KVCORE_BENCH_KEYSPACE", 10000)
	v.SetDefault("KVCORE_BENCH_DATA_SIZE", 3)
	v.SetDefault("KVCORE_BENCH_OPS", "SET,GET,PUSH,POP,HSET,HGET,SADD,SISMEMBER,ZADD,ZSCORE")
	v.SetDefault("KVCORE_BENCH_TIMEOUT", "0s")
}

func loadDotEnv(path string) {
	if _, err := os.Stat(path); err == nil {
		_ = gotenv.Load(path) // variables already set take precedence
	}
}

func (c *Config) validate() error {
	if _, ok := validLevels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("KVCORE_LOG_LEVEL %q is not a known level", c.LogLevel)
	}
	if c.Bench.Requests <= 0 {
		return errors.New("KVCORE_BENCH_REQUESTS must be positive")
	}
	if c.Bench.Concurrency <= 0 {
		return errors.New("KVCORE_BENCH_CONCURRENCY must be positive")
	}
	if c.Bench.KeySpace <= 0 {
		return errors.New("KVCORE_BENCH_KEYSPACE must be positive")
	}
	if c.Bench.DataSize < 0 {
		return errors.New("KVCORE_BENCH_DATA_SIZE must not be negative")
	}
	return nil
}
