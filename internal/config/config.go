// Package config loads the xtree CLI settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/xlog"
)

const DefaultFilename = ".xtree.yaml"

type LogConfig struct {
	Level   string               `yaml:"level"`
	Encoder string               `yaml:"encoder"`
	File    *xlog.FileCoreConfig `yaml:"file,omitempty"`
}

type BenchConfig struct {
	MaxN int `yaml:"maxN"`
	Step int `yaml:"step"`
	// Workers is the experiment pool size, 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
	// Trials of shuffled keys per size.
	Trials int    `yaml:"trials"`
	Seed   uint64 `yaml:"seed"`
}

type MetricsConfig struct {
	Exporter string        `yaml:"exporter"`
	Interval time.Duration `yaml:"interval"`
	// Addr serves /metrics for the prometheus exporter.
	Addr string `yaml:"addr"`
}

type Config struct {
	Log     LogConfig     `yaml:"log"`
	Bench   BenchConfig   `yaml:"bench"`
	Metrics MetricsConfig `yaml:"metrics"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:   xlog.LogLevelInfo.String(),
			Encoder: "text",
		},
		Bench: BenchConfig{
			MaxN:   10_000,
			Step:   1_000,
			Trials: 3,
			Seed:   2024,
		},
		Metrics: MetricsConfig{
			Exporter: observability.NoopExporter.String(),
			Interval: 10 * time.Second,
			Addr:     "127.0.0.1:9464",
		},
	}
}

// DefaultPath is $HOME/.xtree.yaml, or empty when there is no home dir.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultFilename)
}

// Load reads path over the defaults. A missing file is not an error, a
// malformed or invalid one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "read config "+path)
	}

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "parse config "+path)
	}
	if err = cfg.Validate(); err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "invalid config "+path)
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	var merr error
	if _, ok := xlog.ParseLogEncoder(cfg.Log.Encoder); !ok {
		merr = multierr.Append(merr, fmt.Errorf("log.encoder %q is neither json nor text", cfg.Log.Encoder))
	}
	if cfg.Bench.MaxN <= 0 {
		merr = multierr.Append(merr, fmt.Errorf("bench.maxN must be positive, got %d", cfg.Bench.MaxN))
	}
	if cfg.Bench.Step <= 0 {
		merr = multierr.Append(merr, fmt.Errorf("bench.step must be positive, got %d", cfg.Bench.Step))
	}
	if cfg.Bench.Workers < 0 {
		merr = multierr.Append(merr, fmt.Errorf("bench.workers must not be negative, got %d", cfg.Bench.Workers))
	}
	if cfg.Bench.Trials <= 0 {
		merr = multierr.Append(merr, fmt.Errorf("bench.trials must be positive, got %d", cfg.Bench.Trials))
	}
	if _, ok := observability.ParseExporter(cfg.Metrics.Exporter); !ok {
		merr = multierr.Append(merr, fmt.Errorf("metrics.exporter %q is unknown", cfg.Metrics.Exporter))
	}
	return merr
}

func (cfg *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	return data, nil
}
