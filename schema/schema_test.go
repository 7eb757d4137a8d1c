package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/xfts/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersYAML = `
types:
  Order:
    links: [LineItem, Customer, LineItem]
  LineItem: {}
  Customer:
    links: []
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(ordersYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"Customer", "LineItem", "Order"}, s.EntityTypeNames())
	assert.Equal(t, []string{"Customer", "LineItem"}, s.LinkableEntityTypeNames("Order"))
	assert.Empty(t, s.LinkableEntityTypeNames("LineItem"))
	assert.Empty(t, s.LinkableEntityTypeNames("Invoice"))
	assert.True(t, s.HasType("Order"))
	assert.False(t, s.HasType("Invoice"))
}

func TestLinkableEntityTypeNames_ReturnsCopy(t *testing.T) {
	s, err := Parse([]byte(ordersYAML))
	require.NoError(t, err)

	links := s.LinkableEntityTypeNames("Order")
	links[0] = "Mutated"
	assert.Equal(t, []string{"Customer", "LineItem"}, s.LinkableEntityTypeNames("Order"))
}

func TestParse_Errors(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		_, err := Parse(nil)
		assert.ErrorIs(t, err, ErrInvalidSchema)
	})

	t.Run("no types", func(t *testing.T) {
		_, err := Parse([]byte("types: {}\n"))
		assert.ErrorIs(t, err, ErrInvalidSchema)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Parse([]byte("types:\n  Order:\n    backlinks: [LineItem]\n"))
		assert.ErrorIs(t, err, ErrInvalidSchema)
	})

	t.Run("undeclared link", func(t *testing.T) {
		_, err := Parse([]byte("types:\n  Order:\n    links: [LineItem]\n"))
		assert.ErrorIs(t, err, ErrInvalidSchema)
		assert.ErrorIs(t, err, ErrUndeclaredType)
	})

	t.Run("bad type name", func(t *testing.T) {
		_, err := Parse([]byte("types:\n  Line-Item: {}\n"))
		assert.ErrorIs(t, err, ErrInvalidSchema)
		assert.ErrorIs(t, err, core.ErrInvalidEntityTypeName)
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(ordersYAML), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Customer", "LineItem"}, s.LinkableEntityTypeNames("Order"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	s, err := New(map[string][]string{"Order": {"LineItem"}, "LineItem": nil})
	require.NoError(t, err)
	assert.Equal(t, []string{"LineItem"}, s.LinkableEntityTypeNames("Order"))
}
