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


// Package search finds entities that satisfy every term of a query when
// considered together with the entities they link to.
//
// A search runs in four steps:
//   - Direct hits: entities of the requested types matching any term
//   - Linked type discovery: the schema names the types requested entities link to
//   - Indirect hits: linked entities matching any term, attached through
//     backlink lookups to the requested entities that reference them
//   - All-terms filter: each entity graph is kept only when its entities
//     together contain every term
//
// Terms are whitespace-separated tokens. '*' matches any run of characters
// and every term is implicitly a word prefix, so "wid" and "w*get" both
// match "widget". Matching is case-insensitive and whole-word.
package search
