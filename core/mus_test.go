package core

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentMUS_StoredLayout(t *testing.T) {
	indexedAt := time.Date(2025, 3, 14, 15, 9, 26, 535000, time.UTC)
	doc := Document{
		Id:             uuid.MustParse("6f1c9a52-7d3e-4c11-9b0a-2a1f4f3c8e01"),
		EntityTypeName: "Order",
		Text:           "^^description red chair",
		LinkKeys:       []string{"LineItem-0c6b2f7e-1d44-4b8a-8f0e-5a9d3c2b1e77"},
		IndexedAt:      indexedAt,
	}

	// Build the expected bytes field by field.
	want := make([]byte, 0, 128)
	appendWith := func(size int, marshal func([]byte) int) {
		buf := make([]byte, size)
		marshal(buf)
		want = append(want, buf...)
	}
	appendWith(ord.String.Size(doc.Id.String()), func(bs []byte) int { return ord.String.Marshal(doc.Id.String(), bs) })
	appendWith(ord.String.Size(doc.EntityTypeName), func(bs []byte) int { return ord.String.Marshal(doc.EntityTypeName, bs) })
	appendWith(ord.String.Size(doc.Text), func(bs []byte) int { return ord.String.Marshal(doc.Text, bs) })
	appendWith(varint.Int.Size(1), func(bs []byte) int { return varint.Int.Marshal(1, bs) })
	appendWith(ord.String.Size(doc.LinkKeys[0]), func(bs []byte) int { return ord.String.Marshal(doc.LinkKeys[0], bs) })
	appendWith(varint.Int64.Size(indexedAt.UnixMicro()), func(bs []byte) int { return varint.Int64.Marshal(indexedAt.UnixMicro(), bs) })

	got := make([]byte, DocumentMUS.Size(doc))
	n := DocumentMUS.Marshal(doc, got)
	assert.Equal(t, len(got), n)
	assert.Equal(t, want, got)

	decoded, n, err := DocumentMUS.Unmarshal(want)
	require.NoError(t, err)
	assert.Equal(t, len(want), n)
	assert.Equal(t, doc, decoded)

	skipped, err := DocumentMUS.Skip(want)
	require.NoError(t, err)
	assert.Equal(t, len(want), skipped)
}

func TestEntityIDMUS_RejectsInvalidUUID(t *testing.T) {
	bs := make([]byte, ord.String.Size("not-a-uuid"))
	ord.String.Marshal("not-a-uuid", bs)

	_, _, err := EntityIDMUS.Unmarshal(bs)
	assert.Error(t, err)
}
