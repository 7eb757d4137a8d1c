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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidEntityRecord indicates an EntityRecord failed validation.
	ErrInvalidEntityRecord = errors.New("invalid entity record")

	// ErrInvalidEntityReference indicates an EntityReference failed validation.
	ErrInvalidEntityReference = errors.New("invalid entity reference")

	// ErrInvalidEntityTypeName indicates an entity type name is empty or not identifier-like.
	ErrInvalidEntityTypeName = errors.New("invalid entity type name")

	// ErrInvalidFieldName indicates a field name is empty or not identifier-like.
	ErrInvalidFieldName = errors.New("invalid field name")

	// ErrNilEntityID indicates an entity has the zero identifier.
	ErrNilEntityID = errors.New("entity id cannot be nil")
)
