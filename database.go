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
	"context"
	"log/slog"

	"github.com/poiesic/xfts/core"
	"github.com/poiesic/xfts/indexing"
	"github.com/poiesic/xfts/schema"
	"github.com/poiesic/xfts/search"
	"github.com/poiesic/xfts/storage"
	"github.com/poiesic/xfts/storage/badger"
)

type Database struct {
	backend *badger.Backend
	index   *badger.IndexRepository
	schema  *schema.Schema
	config  *Config
	logger  *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	config   *Config
	schema   *schema.Schema
	logger   *slog.Logger
	inMemory bool
}

// WithConfig sets the database configuration. Default is DefaultConfig().
func WithConfig(cfg *Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.config = cfg
	}
}

// WithSchema sets the schema directly, taking precedence over Config.SchemaPath.
func WithSchema(s *schema.Schema) DatabaseOption {
	return func(o *databaseOptions) {
		o.schema = s
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// InMemory keeps the index in memory; the file path is ignored.
func InMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the index stored at filePath, creating it if needed.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.config == nil {
		options.config = DefaultConfig()
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if err := options.config.Validate(); err != nil {
		return nil, err
	}

	s := options.schema
	if s == nil && options.config.SchemaPath != "" {
		var err error
		if s, err = schema.Load(options.config.SchemaPath); err != nil {
			return nil, err
		}
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	index, err := badger.NewIndexRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Database{
		backend: backend,
		index:   index,
		schema:  s,
		config:  options.config,
		logger:  options.logger,
	}, nil
}

func (db *Database) Close() error {
	if err := db.index.Close(); err != nil {
		db.logger.Error("error closing index", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) Index() storage.Index {
	return db.index
}

func (db *Database) Schema() *schema.Schema {
	return db.schema
}

// NewIndexer creates an indexer configured from the database Config.
// Options given here override the configured ones.
func (db *Database) NewIndexer(opts ...indexing.Option) (*indexing.Indexer, error) {
	all := append(db.config.indexerOptions(), indexing.WithLogger(db.logger))
	return indexing.NewIndexer(db.index, append(all, opts...)...)
}

// NewSearcher creates a searcher over the index. It fails with
// search.ErrSchemaRequired when the database has no schema.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	if db.schema == nil {
		return nil, search.ErrSchemaRequired
	}
	all := append([]search.Option{search.WithLogger(db.logger)}, opts...)
	return search.NewSearcher(db.index, db.schema, all...)
}

// Search runs one query against the index.
func (db *Database) Search(ctx context.Context, searchTerm string, entityTypeNames ...string) (*core.SearchResult, error) {
	searcher, err := db.NewSearcher()
	if err != nil {
		return nil, err
	}
	return searcher.Search(ctx, searchTerm, entityTypeNames)
}
