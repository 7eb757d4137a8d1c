package badger

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermKey_RoundTrip(t *testing.T) {
	id := uuid.New()
	key := makeTermKey("widget", "Product", id)

	assert.True(t, bytes.HasPrefix(key, makePartialTermKey("wid")))
	assert.True(t, bytes.HasPrefix(key, makePartialTermKey("")))

	word, typeName, gotID, ok := splitTermKey(key)
	require.True(t, ok)
	assert.Equal(t, "widget", word)
	assert.Equal(t, "Product", typeName)
	assert.Equal(t, id, gotID)
}

func TestTermKey_IDBytesMayContainSeparator(t *testing.T) {
	var id uuid.UUID // all zero bytes
	word, typeName, gotID, ok := splitTermKey(makeTermKey("red", "Order", id))
	require.True(t, ok)
	assert.Equal(t, "red", word)
	assert.Equal(t, "Order", typeName)
	assert.Equal(t, id, gotID)
}

func TestLinkKey_RoundTrip(t *testing.T) {
	id := uuid.New()
	linkKey := "LineItem-" + uuid.NewString()
	key := makeLinkKey(linkKey, "Order", id)

	assert.True(t, bytes.HasPrefix(key, makePartialLinkKey(linkKey)))
	assert.False(t, bytes.HasPrefix(key, makePartialLinkKey("LineItem-other")))

	typeName, gotID, ok := splitLinkKey(key)
	require.True(t, ok)
	assert.Equal(t, "Order", typeName)
	assert.Equal(t, id, gotID)
}

func TestSplitKeys_Malformed(t *testing.T) {
	_, _, _, ok := splitTermKey([]byte("trm:noseparator"))
	assert.False(t, ok)
	_, _, _, ok = splitTermKey([]byte("doc:abc"))
	assert.False(t, ok)
	_, _, ok = splitLinkKey([]byte("lnk:"))
	assert.False(t, ok)
}
