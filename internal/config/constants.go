package config

import "time"

const SourceFileExt = ".yaml"

// SourceFileExtensions are all recognized syntax-tree file extensions
var SourceFileExtensions = []string{".yaml", ".yml", ".ulto"}

// ConfigFileNames are searched, in order, when no -config flag is given.
var ConfigFileNames = []string{"ulto.yaml", "ulto.yml"}

// Defaults: a 50 MiB quota, a 50000 second log retention and a profiling
// stride of 250 executed nodes.
const (
	DefaultMemoryLimit      int64         = 50 * 1024 * 1024
	DefaultLogRetention     time.Duration = 50000 * time.Second
	DefaultProfileBatchSize               = 250
	DefaultLogWarningBytes  int64         = 50 * 1024 * 1024
	DefaultLogLevel                       = "warn"
)

// Report section headers
const (
	OutputHeader = "~~~~~~~~~~~~~~~~~~~~OUTPUT~~~~~~~~~~~~~~~~~~~~"
	CostHeader   = "~~~~~~~~~~~~~~COMPUTATION COSTS~~~~~~~~~~~~~~~~"
)

