package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// DocumentMUS serializes a Document in the stored record layout: id, type
// name, text, link keys, then IndexedAt as a varint of Unix microseconds.
// Changing the field order or encodings makes existing indexes unreadable.
var DocumentMUS = documentMUS{}

type documentMUS struct{}

func (s documentMUS) Marshal(v Document, bs []byte) (n int) {
	n = EntityIDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.EntityTypeName, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += stringSliceMUS.Marshal(v.LinkKeys, bs[n:])
	return n + varint.Int64.Marshal(v.IndexedAt.UnixMicro(), bs[n:])
}

func (s documentMUS) Unmarshal(bs []byte) (v Document, n int, err error) {
	v.Id, n, err = EntityIDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.EntityTypeName, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.LinkKeys, n1, err = stringSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var indexedAt int64
	indexedAt, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.IndexedAt = time.UnixMicro(indexedAt).UTC()
	return
}

func (s documentMUS) Size(v Document) (size int) {
	size = EntityIDMUS.Size(v.Id)
	size += ord.String.Size(v.EntityTypeName)
	size += ord.String.Size(v.Text)
	size += stringSliceMUS.Size(v.LinkKeys)
	return size + varint.Int64.Size(v.IndexedAt.UnixMicro())
}

func (s documentMUS) Skip(bs []byte) (n int, err error) {
	n, err = EntityIDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	for range 2 {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = stringSliceMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}
