package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// #region types

// Config is the file-driven configuration for a training run.
type Config struct {
	Run      RunConfig      `yaml:"run"`
	Stopping StoppingConfig `yaml:"stopping"`
	Storage  StorageConfig  `yaml:"storage"`
}

// RunConfig bounds the demo training loop.
type RunConfig struct {
	MaxEpochs int   `yaml:"max_epochs"`
	Seed      int64 `yaml:"seed"`
}

// StoppingConfig configures the early stopping handler.
type StoppingConfig struct {
	Patience        int     `yaml:"patience"`
	MinDelta        float64 `yaml:"min_delta"`
	CumulativeDelta bool    `yaml:"cumulative_delta"`

	// Monitor names the metric to watch; Mode is "min" or "max".
	Monitor string `yaml:"monitor"`
	Mode    string `yaml:"mode"`
}

// StorageConfig locates the checkpoint database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// #endregion types

// #region defaults

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Run:      RunConfig{MaxEpochs: 50, Seed: 1},
		Stopping: StoppingConfig{Patience: 5, MinDelta: 0, Monitor: "val_loss", Mode: "min"},
		Storage:  StorageConfig{DBPath: "trainloop.db"},
	}
}

// #endregion defaults

// #region load

// Load reads a YAML config file, applies environment overrides, and
// validates. An empty path loads defaults plus overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides file values with environment variables when set.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TRAINLOOP_DB"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("TRAINLOOP_MAX_EPOCHS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Run.MaxEpochs = n
		}
	}
}

// #endregion load

// #region validate

// Validate surfaces malformed values before any run begins.
func (c Config) Validate() error {
	if c.Run.MaxEpochs < 1 {
		return fmt.Errorf("config: run.max_epochs must be positive, got %d", c.Run.MaxEpochs)
	}
	if c.Stopping.Patience < 1 {
		return fmt.Errorf("config: stopping.patience must be positive, got %d", c.Stopping.Patience)
	}
	if c.Stopping.MinDelta < 0 {
		return fmt.Errorf("config: stopping.min_delta must not be negative, got %g", c.Stopping.MinDelta)
	}
	if c.Stopping.Monitor == "" {
		return fmt.Errorf("config: stopping.monitor is required")
	}
	if c.Stopping.Mode != "min" && c.Stopping.Mode != "max" {
		return fmt.Errorf("config: stopping.mode must be \"min\" or \"max\", got %q", c.Stopping.Mode)
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("config: storage.db_path is required")
	}
	return nil
}

// #endregion validate
