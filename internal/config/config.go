package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Config is the ulto.yaml configuration. Zero values fall back to the
// defaults in constants.go.
type Config struct {
	// MemoryLimit is the simulated quota for the interpreted program, in bytes.
	// Accepts an integer or a human string such as "1 MiB".
	MemoryLimit ByteSize `yaml:"memory_limit"`

	// LogRetentionTime is the age, in seconds, after which history entries
	// are pruned.
	LogRetentionTime Seconds `yaml:"log_retention_time"`

	// ProfileBatchSize is the sampling stride in executed nodes.
	ProfileBatchSize int `yaml:"profile_batch_size"`

	// PruneInterval is the number of executed nodes between log prunes.
	// Zero prunes on the profiling cadence.
	PruneInterval int `yaml:"prune_interval"`

	// HotReferenceThreshold promotes variables referenced more often than this
	// to eager evaluation. Zero disables promotion.
	HotReferenceThreshold int `yaml:"hot_reference_threshold"`

	// LogWarningBytes is the history size above which a warning is logged.
	LogWarningBytes ByteSize `yaml:"log_warning_bytes"`

	// MaxSteps aborts a run after this many executed statements. Zero is unlimited.
	MaxSteps int64 `yaml:"max_steps"`

	// HistoryDB is the SQLite file runs are recorded to. Empty disables recording.
	HistoryDB string `yaml:"history_db"`

	// LogLevel is the slog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// ByteSize is a byte count that decodes from either an integer or a
// humanized string.
type ByteSize int64

func (b *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: byte size must be a scalar", value.Line)
	}
	if n, err := strconv.ParseInt(value.Value, 10, 64); err == nil {
		*b = ByteSize(n)
		return nil
	}
	n, err := humanize.ParseBytes(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid byte size %q: %w", value.Line, value.Value, err)
	}
	if n > math.MaxInt64 {
		return fmt.Errorf("line %d: byte size %q overflows", value.Line, value.Value)
	}
	*b = ByteSize(n)
	return nil
}

func (b ByteSize) String() string {
	if b < 0 {
		return strconv.FormatInt(int64(b), 10) + " B"
	}
	return humanize.IBytes(uint64(b))
}

// Seconds is a duration written as a (possibly fractional) number of seconds.
type Seconds float64

func (s Seconds) Duration() time.Duration {
	return time.Duration(float64(s) * float64(time.Second))
}

// Default returns a configuration with every field at its default.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a ulto.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses ulto.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for ulto.yaml starting from dir and walking up
// to parent directories.
// Returns the path to the config file and nil error if found,
// or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// Validate checks a configuration assembled outside ParseConfig (flags, embedding).
func (c *Config) Validate() error {
	return c.validate("config")
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if c.MemoryLimit < 0 {
		return fmt.Errorf("%s: memory_limit must be positive, got %d", path, c.MemoryLimit)
	}
	if c.LogRetentionTime < 0 {
		return fmt.Errorf("%s: log_retention_time must not be negative, got %g", path, float64(c.LogRetentionTime))
	}
	if c.ProfileBatchSize < 0 {
		return fmt.Errorf("%s: profile_batch_size must be positive, got %d", path, c.ProfileBatchSize)
	}
	if c.PruneInterval < 0 {
		return fmt.Errorf("%s: prune_interval must not be negative, got %d", path, c.PruneInterval)
	}
	if c.HotReferenceThreshold < 0 {
		return fmt.Errorf("%s: hot_reference_threshold must not be negative, got %d", path, c.HotReferenceThreshold)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("%s: max_steps must not be negative, got %d", path, c.MaxSteps)
	}
	if c.LogLevel != "" {
		if _, err := parseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%s: log_level: %w", path, err)
		}
	}
	return nil
}

// WithDefaults returns a copy of c with zero values replaced by the defaults.
// c itself is not modified, so one configuration can be shared by
// concurrent runs.
func (c *Config) WithDefaults() *Config {
	cp := *c
	cp.setDefaults()
	return &cp
}

func (c *Config) setDefaults() {
	if c.MemoryLimit == 0 {
		c.MemoryLimit = ByteSize(DefaultMemoryLimit)
	}
	if c.LogRetentionTime == 0 {
		c.LogRetentionTime = Seconds(DefaultLogRetention.Seconds())
	}
	if c.ProfileBatchSize == 0 {
		c.ProfileBatchSize = DefaultProfileBatchSize
	}
	if c.LogWarningBytes == 0 {
		c.LogWarningBytes = ByteSize(DefaultLogWarningBytes)
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// PruneEvery is the effective pruning cadence in executed nodes.
func (c *Config) PruneEvery() int {
	if c.PruneInterval > 0 {
		return c.PruneInterval
	}
	return c.ProfileBatchSize
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, err
	}
	return lvl, nil
}
