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

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidateEntityRecord validates an EntityRecord according to domain rules.
//
// Validation rules:
//   - Ref must be a valid reference
//   - Every field name must be identifier-like (letters, digits, underscore)
//   - Every link must be a valid reference
//
// NOT validated:
//   - Field values (any text, including empty, is indexable)
//   - Whether linked entities are themselves indexed
func ValidateEntityRecord(record *EntityRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidEntityRecord)
	}

	if err := ValidateEntityReference(record.Ref); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntityRecord, err)
	}

	for _, field := range record.Fields {
		if !IsIdentifier(field.Name) {
			return fmt.Errorf("%w: %w: %q", ErrInvalidEntityRecord, ErrInvalidFieldName, field.Name)
		}
	}

	for _, link := range record.Links {
		if err := ValidateEntityReference(link); err != nil {
			return fmt.Errorf("%w: link: %w", ErrInvalidEntityRecord, err)
		}
	}

	return nil
}

// ValidateEntityReference validates that a reference has a type name and id.
func ValidateEntityReference(ref EntityReference) error {
	if err := ValidateEntityTypeName(ref.EntityTypeName); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntityReference, err)
	}
	if ref.Id == uuid.Nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntityReference, ErrNilEntityID)
	}
	return nil
}

// ValidateEntityTypeName validates that a type name is identifier-like.
func ValidateEntityTypeName(name string) error {
	if !IsIdentifier(name) {
		return fmt.Errorf("%w: %q", ErrInvalidEntityTypeName, name)
	}
	return nil
}

// IsIdentifier reports whether s is a non-empty run of word characters.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isWordChar(s[i]) {
			return false
		}
	}
	return true
}
