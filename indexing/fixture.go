package indexing

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/poiesic/xfts/core"
	"gopkg.in/yaml.v3"
)

// Fixture is a YAML document of entities to index.
type Fixture struct {
	Entities []FixtureEntity `yaml:"entities"`
}

// FixtureEntity is one entity of a fixture. Links are structured
// "<type>-<id>" link keys.
type FixtureEntity struct {
	Type   string    `yaml:"type"`
	ID     string    `yaml:"id"`
	Fields FieldList `yaml:"fields"`
	Links  []string  `yaml:"links,omitempty"`
}

// FieldList is a YAML mapping of field names to values that keeps the
// order the fields were written in.
type FieldList []core.Field

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FieldList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: fields must be a mapping", node.Line)
	}
	fields := make(FieldList, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: field %q must be a scalar", value.Line, name.Value)
		}
		fields = append(fields, core.Field{Name: name.Value, Value: value.Value})
	}
	*f = fields
	return nil
}

// MarshalYAML implements yaml.Marshaler, writing fields as an ordered mapping.
func (f FieldList) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, field := range f {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: field.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: field.Value, Style: yaml.DoubleQuotedStyle},
		)
	}
	return node, nil
}

// NewFixture builds a fixture from records. Links are written in the
// structured form.
func NewFixture(records ...*core.EntityRecord) *Fixture {
	fixture := &Fixture{Entities: make([]FixtureEntity, 0, len(records))}
	for _, record := range records {
		entity := FixtureEntity{
			Type:   record.Ref.EntityTypeName,
			ID:     record.Ref.Id.String(),
			Fields: FieldList(record.Fields),
		}
		for _, link := range record.Links {
			entity.Links = append(entity.Links, link.LinkKey())
		}
		fixture.Entities = append(fixture.Entities, entity)
	}
	return fixture
}

// Marshal encodes the fixture as YAML.
func (f *Fixture) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseFixture decodes a YAML fixture.
func ParseFixture(data []byte) (*Fixture, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var fixture Fixture
	if err := dec.Decode(&fixture); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFixture, err)
	}
	return &fixture, nil
}

// LoadFixture reads and decodes a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	return ParseFixture(data)
}

// Records converts the fixture into validated entity records.
func (f *Fixture) Records() ([]*core.EntityRecord, error) {
	records := make([]*core.EntityRecord, 0, len(f.Entities))
	for i, entity := range f.Entities {
		id, err := uuid.Parse(entity.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: entity %d: id %q: %w", ErrInvalidFixture, i, entity.ID, err)
		}
		record := &core.EntityRecord{
			Ref:    core.NewEntityReference(entity.Type, id),
			Fields: entity.Fields,
		}
		for _, link := range entity.Links {
			ref, err := core.ParseLinkKey(link)
			if err != nil {
				return nil, fmt.Errorf("%w: entity %d: %w", ErrInvalidFixture, i, err)
			}
			record.Links = append(record.Links, ref)
		}
		if err := core.ValidateEntityRecord(record); err != nil {
			return nil, fmt.Errorf("%w: entity %d: %w", ErrInvalidFixture, i, err)
		}
		records = append(records, record)
	}
	return records, nil
}
