// Package schema describes which entity types may link to which, the
// metadata the search orchestrator needs to discover linked entities.
//
// Schemas are usually loaded from YAML:
//
//	types:
//	  Order:
//	    links: [LineItem, Customer]
//	  LineItem: {}
//	  Customer: {}
//
// The links of a type are the types whose references its documents store,
// so an Order can be found through a matching LineItem or Customer.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/poiesic/xfts/core"
	"gopkg.in/yaml.v3"
)

// TypeDef is the YAML form of one entity type.
type TypeDef struct {
	Links []string `yaml:"links"`
}

type document struct {
	Types map[string]TypeDef `yaml:"types"`
}

// Schema is an immutable set of entity types and their links.
// It is safe for concurrent use.
type Schema struct {
	links map[string][]string
}

// New builds a schema from a map of type name to linked type names.
// Link lists are sorted and de-duplicated. The result is validated.
func New(types map[string][]string) (*Schema, error) {
	s := &Schema{links: make(map[string][]string, len(types))}
	for name, links := range types {
		normalized := slices.Clone(links)
		slices.Sort(normalized)
		s.links[name] = slices.Compact(normalized)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Parse decodes a YAML schema document.
func Parse(data []byte) (*Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidSchema)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	types := make(map[string][]string, len(doc.Types))
	for name, def := range doc.Types {
		types[name] = def.Links
	}
	return New(types)
}

// Load reads and parses a YAML schema file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks that every type name is identifier-like and every link
// names a declared type.
func (s *Schema) Validate() error {
	if len(s.links) == 0 {
		return fmt.Errorf("%w: no entity types declared", ErrInvalidSchema)
	}
	for _, name := range s.EntityTypeNames() {
		if err := core.ValidateEntityTypeName(name); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSchema, err)
		}
		for _, link := range s.links[name] {
			if _, ok := s.links[link]; !ok {
				return fmt.Errorf("%w: %w: %s links to %q", ErrInvalidSchema, ErrUndeclaredType, name, link)
			}
		}
	}
	return nil
}

// EntityTypeNames returns every declared type name, sorted.
func (s *Schema) EntityTypeNames() []string {
	names := make([]string, 0, len(s.links))
	for name := range s.links {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// HasType reports whether the schema declares entityTypeName.
func (s *Schema) HasType(entityTypeName string) bool {
	_, ok := s.links[entityTypeName]
	return ok
}

// LinkableEntityTypeNames returns the types whose references documents of
// entityTypeName may store. Unknown types have none.
func (s *Schema) LinkableEntityTypeNames(entityTypeName string) []string {
	return slices.Clone(s.links[entityTypeName])
}
