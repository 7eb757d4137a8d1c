package core

import (
	"errors"

	"github.com/google/uuid"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// ErrNegativeLength is returned when a serialized collection length is negative.
var ErrNegativeLength = errors.New("negative length")

// EntityIDMUS serializes an EntityID in its canonical string form so stored
// records stay readable with badger's tooling.
var EntityIDMUS = entityIDMUS{}

type entityIDMUS struct{}

func (s entityIDMUS) Marshal(v EntityID, bs []byte) (n int) {
	return ord.String.Marshal(v.String(), bs)
}

func (s entityIDMUS) Unmarshal(bs []byte) (v EntityID, n int, err error) {
	str, n, err := ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v, err = uuid.Parse(str)
	return
}

func (s entityIDMUS) Size(v EntityID) (size int) {
	return ord.String.Size(v.String())
}

func (s entityIDMUS) Skip(bs []byte) (n int, err error) {
	return ord.String.Skip(bs)
}

var stringSliceMUS = stringSliceMUSType{}

type stringSliceMUSType struct{}

func (s stringSliceMUSType) Marshal(v []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, e := range v {
		n += ord.String.Marshal(e, bs[n:])
	}
	return
}

func (s stringSliceMUSType) Unmarshal(bs []byte) (v []string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrNegativeLength
		return
	}
	var n1 int
	v = make([]string, length)
	for i := 0; i < length; i++ {
		v[i], n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s stringSliceMUSType) Size(v []string) (size int) {
	size = varint.Int.Size(len(v))
	for _, e := range v {
		size += ord.String.Size(e)
	}
	return
}

func (s stringSliceMUSType) Skip(bs []byte) (n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrNegativeLength
		return
	}
	var n1 int
	for i := 0; i < length; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}
