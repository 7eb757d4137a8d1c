package xfts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/poiesic/xfts/core"
	"github.com/poiesic/xfts/schema"
	"github.com/poiesic/xfts/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
types:
  Order:
    links: [LineItem]
  LineItem: {}
`

func writeSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSchema), 0644))
	return path
}

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		assert.NotNil(t, db.Index())
		assert.Nil(t, db.Schema())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		db, err := NewDatabase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("error with invalid config", func(t *testing.T) {
		db, err := NewDatabase("", InMemory(), WithConfig(NewConfig(WithBatchSize(0))))
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("error with missing schema file", func(t *testing.T) {
		cfg := NewConfig(WithSchemaPath(filepath.Join(t.TempDir(), "missing.yaml")))
		db, err := NewDatabase("", InMemory(), WithConfig(cfg))
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("loads schema from config", func(t *testing.T) {
		db, err := NewDatabase("", InMemory(), WithConfig(NewConfig(WithSchemaPath(writeSchema(t)))))
		require.NoError(t, err)
		defer db.Close()
		assert.Equal(t, []string{"LineItem"}, db.Schema().LinkableEntityTypeNames("Order"))
	})
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, db.Close())
}

func TestDatabase_SearcherRequiresSchema(t *testing.T) {
	db, err := NewDatabase("", InMemory())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.NewSearcher()
	assert.ErrorIs(t, err, search.ErrSchemaRequired)
}

func TestDatabase_IndexAndSearch(t *testing.T) {
	s, err := schema.Parse([]byte(testSchema))
	require.NoError(t, err)

	dir := t.TempDir()
	db, err := NewDatabase(dir, WithSchema(s), WithConfig(NewConfig(WithBatchSize(1))))
	require.NoError(t, err)

	ctx := context.Background()
	item := &core.EntityRecord{
		Ref:    core.NewEntityReference("LineItem", uuid.New()),
		Fields: []core.Field{{Name: "name", Value: "widget set"}},
	}
	order := &core.EntityRecord{
		Ref:    core.NewEntityReference("Order", uuid.New()),
		Fields: []core.Field{{Name: "description", Value: "red chair"}},
		Links:  []core.EntityReference{item.Ref},
	}

	indexer, err := db.NewIndexer()
	require.NoError(t, err)
	written, err := indexer.Index(ctx, item, order)
	indexer.Release()
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	result, err := db.Search(ctx, "red widget", "Order")
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, order.Ref.Id, result.Entries[0].EntityId)
	assert.True(t, result.Entries[0].Indirect)

	// The index survives a reopen.
	require.NoError(t, db.Close())
	db, err = NewDatabase(dir, WithSchema(s))
	require.NoError(t, err)
	defer db.Close()

	result, err = db.Search(ctx, "red widget", "Order")
	require.NoError(t, err)
	assert.Len(t, result.Entries, 1)
}
