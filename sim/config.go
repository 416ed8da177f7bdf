package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Sequence sources understood by the CLI layer.
const (
	SourceManual   = "manual"
	SourceRandom   = "random"
	SourceLocality = "locality"
	SourceProcess  = "process"
)

// Config holds simulator configuration
type Config struct {
	// Simulation Configuration
	FrameCount int    `json:"frame_count"` // Number of physical frames
	Policy     string `json:"policy"`      // Replacement policy (lru, optimal, both)

	// Sequence Configuration
	SequenceSource string  `json:"sequence_source"` // Where references come from (manual, random, locality, process)
	SequenceLength int     `json:"sequence_length"` // Length of generated sequences
	MaxPages       int     `json:"max_pages"`       // Highest page identifier for generated sequences
	LocalityFactor float64 `json:"locality_factor"` // Probability of accessing a hot page
	Seed           int64   `json:"seed"`            // RNG seed for generated sequences (0 = time-based)

	// Trace Configuration
	TraceDirectory   string `json:"trace_directory"`   // Directory for trace files
	TraceCompression string `json:"trace_compression"` // Compression algorithm (none, snappy, lz4)

	// Performance Configuration
	EnableMetrics bool   `json:"enable_metrics"` // Whether to collect performance metrics
	LogLevel      string `json:"log_level"`      // Log level (debug, info, warn, error)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		FrameCount:       4,
		Policy:           PolicyLRU,
		SequenceSource:   SourceManual,
		SequenceLength:   30,
		MaxPages:         10,
		LocalityFactor:   0.6,
		Seed:             0,
		TraceDirectory:   "./traces",
		TraceCompression: "snappy",
		EnableMetrics:    true,
		LogLevel:         "info",
	}
}

// LoadConfigFromFile loads configuration from a JSON file
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	err = json.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigFromEnv loads configuration from environment variables
// Falls back to default values if environment variables are not set
func LoadConfigFromEnv() *Config {
	config := DefaultConfig()

	// Simulation
	if val := os.Getenv("PAGELAB_FRAME_COUNT"); val != "" {
		if count, err := strconv.Atoi(val); err == nil {
			config.FrameCount = count
		}
	}

	if val := os.Getenv("PAGELAB_POLICY"); val != "" {
		config.Policy = val
	}

	// Sequence
	if val := os.Getenv("PAGELAB_SEQUENCE_SOURCE"); val != "" {
		config.SequenceSource = val
	}

	if val := os.Getenv("PAGELAB_SEQUENCE_LENGTH"); val != "" {
		if length, err := strconv.Atoi(val); err == nil {
			config.SequenceLength = length
		}
	}

	if val := os.Getenv("PAGELAB_MAX_PAGES"); val != "" {
		if pages, err := strconv.Atoi(val); err == nil {
			config.MaxPages = pages
		}
	}

	if val := os.Getenv("PAGELAB_SEED"); val != "" {
		if seed, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.Seed = seed
		}
	}

	// Trace
	if val := os.Getenv("PAGELAB_TRACE_DIRECTORY"); val != "" {
		config.TraceDirectory = val
	}

	if val := os.Getenv("PAGELAB_TRACE_COMPRESSION"); val != "" {
		config.TraceCompression = val
	}

	// Performance
	if val := os.Getenv("PAGELAB_ENABLE_METRICS"); val != "" {
		config.EnableMetrics = val == "true" || val == "1"
	}

	if val := os.Getenv("PAGELAB_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	return config
}

// SaveToFile saves the configuration to a JSON file
func (c *Config) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", " ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.FrameCount <= 0 {
		return fmt.Errorf("frame count must be greater than 0")
	}

	if c.Policy != PolicyLRU && c.Policy != PolicyOptimal && c.Policy != "both" {
		return fmt.Errorf("invalid policy: %s (must be lru, optimal, or both)", c.Policy)
	}

	validSources := map[string]bool{
		SourceManual:   true,
		SourceRandom:   true,
		SourceLocality: true,
		SourceProcess:  true,
	}

	if !validSources[c.SequenceSource] {
		return fmt.Errorf("invalid sequence source: %s (must be manual, random, locality, or process)", c.SequenceSource)
	}

	if c.SequenceSource != SourceManual {
		if c.SequenceLength <= 0 {
			return fmt.Errorf("sequence length must be greater than 0")
		}
		if c.MaxPages <= 0 {
			return fmt.Errorf("max pages must be greater than 0")
		}
	}

	if c.LocalityFactor < 0 || c.LocalityFactor > 1 {
		return fmt.Errorf("locality factor must be in [0, 1], got %g", c.LocalityFactor)
	}

	validCompression := map[string]bool{
		"none":   true,
		"snappy": true,
		"lz4":    true,
	}

	if !validCompression[c.TraceCompression] {
		return fmt.Errorf("invalid trace compression: %s (must be none, snappy, or lz4)", c.TraceCompression)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
