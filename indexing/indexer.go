package indexing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/xfts/core"
	"github.com/poiesic/xfts/storage"
)

const (
	DefaultBatchSize  = 256
	DefaultMaxRetries = 3
	DefaultRetryDelay = 50 * time.Millisecond
)

// Indexer writes entity records into an index.
type Indexer struct {
	writer      storage.IndexWriter
	pool        *ants.Pool
	batchSize   int
	maxRetries  int
	retryDelay  time.Duration
	legacyLinks bool
	progress    io.Writer
	logger      *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithPoolSize sets the worker pool size for document preparation.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(ix *Indexer) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if ix.pool != nil {
			ix.pool.Release()
		}
		ix.pool = pool
		return nil
	}
}

// WithBatchSize sets how many records are written per transaction.
func WithBatchSize(size int) Option {
	return func(ix *Indexer) error {
		if size < 1 {
			return ErrInvalidBatchSize
		}
		ix.batchSize = size
		return nil
	}
}

// WithRetry sets the attempts and base backoff delay for conflicting writes.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(ix *Indexer) error {
		if maxAttempts < 1 {
			return ErrInvalidMaxAttempts
		}
		ix.maxRetries = maxAttempts
		ix.retryDelay = baseDelay
		return nil
	}
}

// WithLegacyLinks makes the indexer store links as bare entity ids, the
// encoding of indexes built before links carried a type.
func WithLegacyLinks(enabled bool) Option {
	return func(ix *Indexer) error {
		ix.legacyLinks = enabled
		return nil
	}
}

// WithProgress reports progress of each Index call to w.
func WithProgress(w io.Writer) Option {
	return func(ix *Indexer) error {
		ix.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// NewIndexer creates a new indexer. Call Release when done.
func NewIndexer(writer storage.IndexWriter, opts ...Option) (*Indexer, error) {
	if writer == nil {
		return nil, ErrWriterRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	ix := &Indexer{
		writer:     writer,
		pool:       pool,
		batchSize:  DefaultBatchSize,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		logger:     slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(ix); optErr != nil {
			ix.Release()
			return nil, optErr
		}
	}

	return ix, nil
}

// Release releases the worker pool. The indexer cannot be used afterwards.
func (ix *Indexer) Release() {
	if ix.pool != nil {
		ix.pool.Release()
		ix.pool = nil
	}
}

// ToDocument converts a record into the document stored for it.
// Links are stored in the structured form unless legacy is set.
func ToDocument(record *core.EntityRecord, legacy bool) *core.Document {
	linkKeys := make([]string, 0, len(record.Links))
	for _, link := range record.Links {
		if legacy {
			linkKeys = append(linkKeys, link.LegacyLinkKey())
		} else {
			linkKeys = append(linkKeys, link.LinkKey())
		}
	}
	return &core.Document{
		Id:             record.Ref.Id,
		EntityTypeName: record.Ref.EntityTypeName,
		Text:           core.FormatIndexedText(record.Fields),
		LinkKeys:       linkKeys,
	}
}

// Index validates and writes records, returning how many were written.
// Every record is validated before anything is written. Batches already
// written stay written when a later batch fails.
func (ix *Indexer) Index(ctx context.Context, records ...*core.EntityRecord) (int, error) {
	if ix.pool == nil {
		return 0, ErrIndexerReleased
	}
	for i, record := range records {
		if err := core.ValidateEntityRecord(record); err != nil {
			return 0, fmt.Errorf("record %d: %w", i, err)
		}
	}

	tracker := NewProgressTracker(ix.progress, len(records), ix.batchSize)
	tracker.Start()
	defer tracker.Finish()

	written := 0
	for start := 0; start < len(records); start += ix.batchSize {
		batch := records[start:min(start+ix.batchSize, len(records))]

		docs, err := ix.prepare(batch)
		if err != nil {
			return written, err
		}

		err = RetryWithBackoff(ctx, func() error {
			return ix.writer.IndexDocuments(ctx, docs...)
		}, ix.maxRetries, ix.retryDelay)
		if err != nil {
			ix.logger.Error("error writing batch", "offset", start, "size", len(batch), "err", err)
			return written, fmt.Errorf("batch at %d: %w", start, err)
		}

		written += len(batch)
		tracker.Increment(len(batch))
		ix.logger.Debug("indexed batch", "offset", start, "size", len(batch))
	}

	return written, nil
}

// Delete removes the documents of ids from the index.
func (ix *Indexer) Delete(ctx context.Context, ids ...core.EntityID) error {
	if ix.pool == nil {
		return ErrIndexerReleased
	}
	return RetryWithBackoff(ctx, func() error {
		return ix.writer.DeleteDocuments(ctx, ids...)
	}, ix.maxRetries, ix.retryDelay)
}

// prepare converts a batch into documents on the worker pool.
func (ix *Indexer) prepare(batch []*core.EntityRecord) ([]*core.Document, error) {
	docs := make([]*core.Document, len(batch))
	var wg sync.WaitGroup
	for i, record := range batch {
		wg.Add(1)
		err := ix.pool.Submit(func() {
			defer wg.Done()
			docs[i] = ToDocument(record, ix.legacyLinks)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("failed to submit record %s: %w", record.Ref, err)
		}
	}
	wg.Wait()
	return docs, nil
}
