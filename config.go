// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package xfts

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/poiesic/xfts/indexing"
)

// Config holds tuning for a Database.
type Config struct {
	// SchemaPath is the YAML schema to load. Searching requires a schema,
	// indexing does not.
	SchemaPath string

	// PoolSize is the number of workers preparing documents.
	// Default: runtime.NumCPU() / 2, at least 1
	PoolSize int

	// BatchSize is the number of records written per transaction.
	// Default: 256
	BatchSize int

	// MaxRetries is the number of attempts for a conflicting write.
	// Default: 3
	MaxRetries int

	// RetryDelay is the base backoff between attempts; it doubles each retry.
	// Default: 50ms
	RetryDelay time.Duration

	// LegacyLinks stores links as bare entity ids instead of "<type>-<id>".
	LegacyLinks bool
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithSchemaPath sets the schema file.
func WithSchemaPath(path string) ConfigOption {
	return func(c *Config) {
		c.SchemaPath = path
	}
}

// WithPoolSize sets the indexing worker pool size.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = size
	}
}

// WithBatchSize sets the indexing batch size.
func WithBatchSize(size int) ConfigOption {
	return func(c *Config) {
		c.BatchSize = size
	}
}

// WithRetry sets the write attempts and base backoff delay.
func WithRetry(maxRetries int, delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// WithLegacyLinks toggles the legacy link encoding for new documents.
func WithLegacyLinks(enabled bool) ConfigOption {
	return func(c *Config) {
		c.LegacyLinks = enabled
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		PoolSize:   max(runtime.NumCPU()/2, 1),
		BatchSize:  indexing.DefaultBatchSize,
		MaxRetries: indexing.DefaultMaxRetries,
		RetryDelay: indexing.DefaultRetryDelay,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithSchemaPath("schema.yaml"),
//	    WithBatchSize(1000),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// A non-positive pool size falls back to the default.
func (c *Config) Normalize() {
	if path := strings.TrimSpace(c.SchemaPath); path != "" {
		c.SchemaPath = filepath.Clean(path)
	} else {
		c.SchemaPath = ""
	}
	if c.PoolSize < 1 {
		c.PoolSize = DefaultConfig().PoolSize
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BatchSize < 1 {
		return errors.New("xfts config: BatchSize must be greater than 0")
	}
	if c.MaxRetries < 1 {
		return errors.New("xfts config: MaxRetries must be greater than 0")
	}
	if c.RetryDelay < 0 {
		return errors.New("xfts config: RetryDelay must not be negative")
	}
	return nil
}

// indexerOptions maps the configuration onto indexer options.
func (c *Config) indexerOptions() []indexing.Option {
	return []indexing.Option{
		indexing.WithPoolSize(c.PoolSize),
		indexing.WithBatchSize(c.BatchSize),
		indexing.WithRetry(c.MaxRetries, c.RetryDelay),
		indexing.WithLegacyLinks(c.LegacyLinks),
	}
}
