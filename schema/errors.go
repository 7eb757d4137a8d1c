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


package schema

import "errors"

var (
	// ErrInvalidSchema is returned when a schema document cannot be used.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrUndeclaredType is returned when a link names a type the schema does not declare.
	ErrUndeclaredType = errors.New("undeclared entity type")
)
