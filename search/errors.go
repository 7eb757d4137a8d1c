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


package search

import "errors"

var (
	// ErrGatewayRequired is returned when an index gateway is not provided.
	ErrGatewayRequired = errors.New("index gateway required")

	// ErrSchemaRequired is returned when a schema is not provided.
	ErrSchemaRequired = errors.New("schema required")

	// ErrIndexLookup is returned when a direct or backlink index lookup fails.
	ErrIndexLookup = errors.New("index lookup failed")

	// ErrTermResolution is returned when indexed text for an entity graph
	// cannot be read. No partial result accompanies it.
	ErrTermResolution = errors.New("term resolution failed")
)
