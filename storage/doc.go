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


// Package storage provides the index abstraction layer for xfts.
//
// The interfaces here describe what a cross-entity search needs from a
// full-text index: term lookups over all fields, backlink lookups, and reads
// of the structured text stored per entity. The badger subpackage provides a
// BadgerDB implementation; tests may substitute any other.
//
// # Architecture
//
//   - IndexGateway: term and backlink lookups plus read handles
//   - IndexReader: a read handle that fetches stored indexed text
//   - IndexWriter: document maintenance used by the indexer
//   - Index: the combination, as returned by backend constructors
//
// # Usage
//
// Open a BadgerDB-backed index:
//
//	backend, err := badger.OpenBackend("/path/to/index", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	index, err := badger.NewIndexRepository(backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Use in tests with in-memory storage:
//
//	index, backend, err := badger.NewMemoryIndex()
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent access
// from multiple goroutines. Read handles are independent of each other.
//
// # Context Support
//
// All methods accept context.Context. The search core does not cancel or
// time out lookups itself; that is left to callers and implementations.
package storage
