package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nalgeon/be"
)

func TestParseConfig_Full(t *testing.T) {
	yaml := `
memory_limit: 1048576
log_retention_time: 5
profile_batch_size: 10
prune_interval: 4
hot_reference_threshold: 3
max_steps: 1000
history_db: runs.db
log_level: debug
`
	cfg, err := ParseConfig([]byte(yaml), "test.yaml")
	be.Err(t, err, nil)
	be.Equal(t, cfg.MemoryLimit, ByteSize(1048576))
	be.Equal(t, cfg.LogRetentionTime.Duration(), 5*time.Second)
	be.Equal(t, cfg.ProfileBatchSize, 10)
	be.Equal(t, cfg.PruneEvery(), 4)
	be.Equal(t, cfg.HotReferenceThreshold, 3)
	be.Equal(t, cfg.MaxSteps, int64(1000))
	be.Equal(t, cfg.HistoryDB, "runs.db")
	be.Equal(t, cfg.Level(), slog.LevelDebug)
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("{}"), "test.yaml")
	be.Err(t, err, nil)
	be.Equal(t, int64(cfg.MemoryLimit), DefaultMemoryLimit)
	be.Equal(t, cfg.LogRetentionTime.Duration(), DefaultLogRetention)
	be.Equal(t, cfg.ProfileBatchSize, DefaultProfileBatchSize)
	be.Equal(t, cfg.PruneEvery(), DefaultProfileBatchSize)
	be.Equal(t, cfg.Level(), slog.LevelWarn)
}

func TestParseConfig_HumanSizes(t *testing.T) {
	tests := []struct {
		input string
		want  ByteSize
	}{
		{`memory_limit: "1 MiB"`, 1 << 20},
		{`memory_limit: 2MB`, 2000000},
		{`memory_limit: 512`, 512},
	}
	for _, tt := range tests {
		cfg, err := ParseConfig([]byte(tt.input), "test.yaml")
		be.Err(t, err, nil)
		be.Equal(t, cfg.MemoryLimit, tt.want)
	}
	be.Equal(t, ByteSize(1<<20).String(), "1.0 MiB")
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"negative limit", "memory_limit: -1", "memory_limit must be positive"},
		{"bad size", "memory_limit: lots", "invalid byte size"},
		{"negative retention", "log_retention_time: -2", "log_retention_time must not be negative"},
		{"negative batch", "profile_batch_size: -5", "profile_batch_size must be positive"},
		{"bad level", "log_level: chatty", "log_level"},
		{"negative steps", "max_steps: -1", "max_steps must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.input), "test.yaml")
			be.True(t, err != nil)
			be.True(t, strings.Contains(err.Error(), tt.want))
		})
	}
}

func TestFindConfig_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	be.Err(t, os.MkdirAll(nested, 0o755), nil)
	be.Err(t, os.WriteFile(filepath.Join(root, "ulto.yaml"), []byte("profile_batch_size: 7\n"), 0o644), nil)

	path, err := FindConfig(nested)
	be.Err(t, err, nil)
	be.Equal(t, path, filepath.Join(root, "ulto.yaml"))

	cfg, err := LoadConfig(path)
	be.Err(t, err, nil)
	be.Equal(t, cfg.ProfileBatchSize, 7)
}

func TestWithDefaultsFillsZeroValues(t *testing.T) {
	cfg := &Config{MaxSteps: 7}
	got := cfg.WithDefaults()
	be.Equal(t, int64(got.MemoryLimit), DefaultMemoryLimit)
	be.Equal(t, got.ProfileBatchSize, DefaultProfileBatchSize)
	be.Equal(t, got.LogRetentionTime.Duration(), DefaultLogRetention)
	be.Equal(t, got.MaxSteps, int64(7))
	be.Err(t, got.Validate(), nil)

	// the receiver is left as it was
	be.Equal(t, cfg.ProfileBatchSize, 0)
	be.Equal(t, cfg.MemoryLimit, ByteSize(0))
}
