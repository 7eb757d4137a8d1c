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


// Package indexing writes entity records into an index.
//
// An Indexer turns each core.EntityRecord into a core.Document: field
// values become "^^name value" indexed text and links become link keys.
// Documents are prepared concurrently on a worker pool and written in
// batches, retrying transient write conflicts with exponential backoff.
//
// Fixtures describe records in YAML:
//
//	entities:
//	  - type: Order
//	    id: 6f1c9a52-7d3e-4c11-9b0a-2a1f4f3c8e01
//	    fields:
//	      description: red chair
//	    links:
//	      - LineItem-0c6b2f7e-1d44-4b8a-8f0e-5a9d3c2b1e77
package indexing
