package core

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// EntityID is the opaque unique identifier of an indexed entity.
type EntityID = uuid.UUID

// HashKey derives a fixed-width 64-bit key from arbitrary text using BLAKE2b.
// Identical text always produces the identical key.
func HashKey(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum)
}

// EntityReference identifies one indexed entity.
// Equality is by Id; EntityTypeName is informational.
type EntityReference struct {
	Id             EntityID
	EntityTypeName string
	RawText        string // Indexed text, when the index layer already populated it
}

// NewEntityReference creates a reference without indexed text.
func NewEntityReference(entityTypeName string, id EntityID) EntityReference {
	return EntityReference{Id: id, EntityTypeName: entityTypeName}
}

// String returns the structured "<type>-<id>" form of the reference.
func (r EntityReference) String() string {
	return r.EntityTypeName + "-" + r.Id.String()
}

// LinkKey is the key under which other documents store a link to this entity.
func (r EntityReference) LinkKey() string {
	return r.String()
}

// LegacyLinkKey is the bare-identifier key used by indexes built before
// links carried the entity type.
func (r EntityReference) LegacyLinkKey() string {
	return r.Id.String()
}

// ParseLinkKey parses a structured "<type>-<id>" link key back into a
// reference.
func ParseLinkKey(linkKey string) (EntityReference, error) {
	typeName, rawID, ok := strings.Cut(linkKey, "-")
	if !ok {
		return EntityReference{}, fmt.Errorf("%w: %q has no type prefix", ErrInvalidEntityReference, linkKey)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return EntityReference{}, fmt.Errorf("%w: %q: %w", ErrInvalidEntityReference, linkKey, err)
	}
	ref := NewEntityReference(typeName, id)
	if err := ValidateEntityReference(ref); err != nil {
		return EntityReference{}, err
	}
	return ref, nil
}

// Field is one named value of an entity as it is written to the index.
type Field struct {
	Name  string
	Value string
}

// EntityRecord is the input to indexing: an entity, its field values and
// the entities its document links to.
type EntityRecord struct {
	Ref    EntityReference
	Fields []Field
	Links  []EntityReference
}

// Document is the stored form of an indexed entity.
type Document struct {
	Id             EntityID
	EntityTypeName string
	Text           string    // Structured "^^field value" text
	LinkKeys       []string  // Backlink field contents, structured or legacy keys
	IndexedAt      time.Time // When the document was last written
}

// Ref returns a reference to the document's entity, with the text populated.
func (d *Document) Ref() EntityReference {
	return EntityReference{Id: d.Id, EntityTypeName: d.EntityTypeName, RawText: d.Text}
}

// SearchResultEntry names one matched main entity.
type SearchResultEntry struct {
	EntityTypeName string
	EntityId       EntityID
	Indirect       bool // Matched through the entity graph, not necessarily by the entity alone
}

// SearchResult is the outcome of one search.
type SearchResult struct {
	Query   string
	Entries []SearchResultEntry
}

// NewSearchResult creates an empty result for a query.
func NewSearchResult(query string) *SearchResult {
	return &SearchResult{Query: query, Entries: []SearchResultEntry{}}
}

// AddEntry appends an entry to the result.
func (r *SearchResult) AddEntry(entry SearchResultEntry) {
	r.Entries = append(r.Entries, entry)
}
