package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/xfts/core"
	"github.com/poiesic/xfts/metrics"
	"github.com/poiesic/xfts/storage"
)

// IndexRepository implements storage.Index on BadgerDB as an inverted index.
//
// Every document is stored once under its ID. Each distinct lower-cased word
// of its indexed text gets a term posting and each of its link keys gets a
// link posting, so both full-text and backlink lookups are prefix scans.
type IndexRepository struct {
	backend *Backend
}

var _ storage.Index = (*IndexRepository)(nil)

// NewIndexRepository creates a new IndexRepository.
func NewIndexRepository(backend *Backend) (*IndexRepository, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	return &IndexRepository{backend: backend}, nil
}

// Close releases resources. The backend is owned by the caller.
func (r *IndexRepository) Close() error {
	return nil
}

// SearchAllFields implements storage.IndexGateway.
func (r *IndexRepository) SearchAllFields(ctx context.Context, searchTerm string, entityTypeNames []string) (refs []core.EntityReference, err error) {
	done := metrics.TimeOp("index_search_all_fields")
	defer func() { done(err == nil) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	types := typeSet(entityTypeNames)
	terms := core.ParseQueryTerms(searchTerm)
	if len(types) == 0 || len(terms) == 0 {
		return nil, nil
	}

	seen := make(map[core.EntityID]bool)
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		for _, term := range terms {
			opts := badger.DefaultIteratorOptions
			opts.PrefetchValues = false
			opts.Prefix = makePartialTermKey(term.LiteralPrefix())
			iter := tx.NewIterator(opts)
			for iter.Rewind(); iter.Valid(); iter.Next() {
				word, typeName, id, ok := splitTermKey(iter.Item().Key())
				if !ok || seen[id] || !types[typeName] || !term.MatchesWord(word) {
					continue
				}
				seen[id] = true
				refs = append(refs, core.NewEntityReference(typeName, id))
			}
			iter.Close()
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// SearchByBacklink implements storage.IndexGateway.
func (r *IndexRepository) SearchByBacklink(ctx context.Context, linkKey string, entityTypeNames []string) (refs []core.EntityReference, err error) {
	done := metrics.TimeOp("index_search_backlinks")
	defer func() { done(err == nil) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	types := typeSet(entityTypeNames)
	if len(types) == 0 || linkKey == "" {
		return nil, nil
	}

	seen := make(map[core.EntityID]bool)
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialLinkKey(linkKey)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			typeName, id, ok := splitLinkKey(item.Key())
			if !ok || seen[id] || !types[typeName] {
				continue
			}
			// Rule out hash collisions against the stored link key.
			var match bool
			if err := item.Value(func(val []byte) error {
				match = string(val) == linkKey
				return nil
			}); err != nil {
				return err
			}
			if !match {
				continue
			}
			seen[id] = true
			refs = append(refs, core.NewEntityReference(typeName, id))
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// AcquireReader implements storage.ReaderProvider. The reader sees a
// consistent snapshot of the index until it is released.
func (r *IndexRepository) AcquireReader(ctx context.Context) (storage.IndexReader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx, err := r.backend.newReadTx()
	if err != nil {
		return nil, err
	}
	return &indexReader{tx: tx}, nil
}

// IndexDocuments adds or replaces documents. Postings of a replaced document
// that its new text no longer carries are removed in the same transaction.
// The stored copy carries the write time in IndexedAt; docs are not modified.
func (r *IndexRepository) IndexDocuments(ctx context.Context, docs ...*core.Document) (err error) {
	done := metrics.TimeOp("index_write")
	defer func() { done(err == nil) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			if doc == nil {
				continue
			}
			old, err := readDocument(tx, doc.Id)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}
			if old != nil {
				if err := deletePostings(tx, old); err != nil {
					return err
				}
			}

			stored := *doc
			stored.IndexedAt = now
			if err := tx.Set(makeDocumentKey(stored.Id), storage.MarshalDocument(&stored)); err != nil {
				return err
			}
			if err := writePostings(tx, &stored); err != nil {
				return err
			}
		}
		return commit(tx)
	}, true)
}

// DeleteDocuments removes documents and their postings. Missing IDs are ignored.
func (r *IndexRepository) DeleteDocuments(ctx context.Context, ids ...core.EntityID) (err error) {
	done := metrics.TimeOp("index_delete")
	defer func() { done(err == nil) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			doc, err := readDocument(tx, id)
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if err := deletePostings(tx, doc); err != nil {
				return err
			}
			if err := tx.Delete(makeDocumentKey(id)); err != nil {
				return err
			}
		}
		return commit(tx)
	}, true)
}

// GetDocument retrieves a document by ID.
// Returns storage.ErrNotFound when no document has that ID.
func (r *IndexRepository) GetDocument(ctx context.Context, id core.EntityID) (*core.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var doc *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		doc, err = readDocument(tx, id)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// CountDocuments returns the number of stored documents.
func (r *IndexRepository) CountDocuments(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readDocument reads a document within a transaction.
func readDocument(tx *badger.Txn, id core.EntityID) (*core.Document, error) {
	item, err := tx.Get(makeDocumentKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: document %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	return doc, err
}

// writePostings stores the term and link postings of doc.
func writePostings(tx *badger.Txn, doc *core.Document) error {
	for _, word := range postingWords(doc) {
		if err := tx.Set(makeTermKey(word, doc.EntityTypeName, doc.Id), nil); err != nil {
			return err
		}
	}
	for _, linkKey := range postingLinks(doc) {
		if err := tx.Set(makeLinkKey(linkKey, doc.EntityTypeName, doc.Id), []byte(linkKey)); err != nil {
			return err
		}
	}
	return nil
}

// deletePostings removes the term and link postings of doc.
func deletePostings(tx *badger.Txn, doc *core.Document) error {
	for _, word := range postingWords(doc) {
		if err := tx.Delete(makeTermKey(word, doc.EntityTypeName, doc.Id)); err != nil {
			return err
		}
	}
	for _, linkKey := range postingLinks(doc) {
		if err := tx.Delete(makeLinkKey(linkKey, doc.EntityTypeName, doc.Id)); err != nil {
			return err
		}
	}
	return nil
}

// postingWords returns the words of doc that can be stored in a term key.
func postingWords(doc *core.Document) []string {
	words := core.IndexedWords(doc.Text)
	kept := words[:0]
	for _, word := range words {
		if strings.IndexByte(word, keySep) < 0 {
			kept = append(kept, word)
		}
	}
	return kept
}

// postingLinks returns the distinct non-empty link keys of doc.
func postingLinks(doc *core.Document) []string {
	links := make([]string, 0, len(doc.LinkKeys))
	seen := make(map[string]bool, len(doc.LinkKeys))
	for _, linkKey := range doc.LinkKeys {
		if linkKey == "" || seen[linkKey] {
			continue
		}
		seen[linkKey] = true
		links = append(links, linkKey)
	}
	return links
}

func typeSet(entityTypeNames []string) map[string]bool {
	types := make(map[string]bool, len(entityTypeNames))
	for _, name := range entityTypeNames {
		types[name] = true
	}
	return types
}

// indexReader implements storage.IndexReader over a read-only snapshot.
type indexReader struct {
	tx       *badger.Txn
	released bool
}

var _ storage.IndexReader = (*indexReader)(nil)

// FetchIndexedText implements storage.IndexReader.
func (r *indexReader) FetchIndexedText(ctx context.Context, ref core.EntityReference) (text string, found bool, err error) {
	done := metrics.TimeOp("index_fetch_text")
	defer func() { done(err == nil) }()

	if r.released {
		return "", false, storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	doc, err := readDocument(r.tx, ref.Id)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if ref.EntityTypeName != "" && doc.EntityTypeName != ref.EntityTypeName {
		return "", false, nil
	}
	return doc.Text, true, nil
}

// Release implements storage.IndexReader.
func (r *indexReader) Release() {
	if r.released {
		return
	}
	r.released = true
	r.tx.Discard()
}
