package storage

import (
	"context"

	"github.com/poiesic/xfts/core"
)

// IndexGateway provides the lookups a cross-entity search issues against the
// full-text index. Implementations must be thread-safe.
type IndexGateway interface {
	ReaderProvider

	// SearchAllFields finds entities of the given types whose indexed text
	// contains a word matching any whitespace-delimited token of searchTerm.
	// Results are de-duplicated by id. No types means no results.
	SearchAllFields(ctx context.Context, searchTerm string, entityTypeNames []string) ([]core.EntityReference, error)

	// SearchByBacklink finds entities of the given types whose stored
	// backlink field contains linkKey exactly. Both the structured
	// (EntityReference.LinkKey) and legacy (EntityReference.LegacyLinkKey)
	// key forms are supported.
	SearchByBacklink(ctx context.Context, linkKey string, entityTypeNames []string) ([]core.EntityReference, error)
}

// ReaderProvider hands out read handles on the index.
type ReaderProvider interface {
	// AcquireReader returns a read handle over a consistent view of the index.
	// The caller must Release it.
	AcquireReader(ctx context.Context) (IndexReader, error)
}

// IndexReader reads stored documents through a read handle.
type IndexReader interface {
	// FetchIndexedText returns the indexed text stored for the entity with
	// ref's id and type name. found is false when no such document exists;
	// that is not an error.
	FetchIndexedText(ctx context.Context, ref core.EntityReference) (text string, found bool, err error)

	// Release returns the handle. Safe to call more than once.
	Release()
}

// IndexWriter maintains documents in the index.
type IndexWriter interface {
	// IndexDocuments stores documents, replacing any previous document with
	// the same id together with its postings.
	IndexDocuments(ctx context.Context, docs ...*core.Document) error

	// DeleteDocuments removes documents and their postings by id.
	// Unknown ids are ignored.
	DeleteDocuments(ctx context.Context, ids ...core.EntityID) error

	// GetDocument retrieves a single document by id.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.EntityID) (*core.Document, error)

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)
}

// Index combines read and write access to a full-text index.
type Index interface {
	IndexGateway
	IndexWriter

	// Close releases resources held by the index.
	Close() error
}
