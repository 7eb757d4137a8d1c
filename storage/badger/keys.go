package badger

import (
	"bytes"
	"encoding/binary"

	"github.com/poiesic/xfts/core"
)

// Key prefixes for different data types
const (
	documentPrefix = "doc:"
	termPrefix     = "trm:"
	linkPrefix     = "lnk:"
)

// keySep separates variable-length key components.
const keySep = 0x00

const idSize = 16

// makeDocumentKey generates a key for a document by ID.
// Format: doc:<id bytes>
func makeDocumentKey(id core.EntityID) []byte {
	buf := make([]byte, 0, len(documentPrefix)+idSize)
	buf = append(buf, documentPrefix...)
	return append(buf, id[:]...)
}

// makeTermKey generates a posting key for one word of a document.
// Format: trm:<word>\x00<type>\x00<id bytes>
func makeTermKey(word, entityTypeName string, id core.EntityID) []byte {
	buf := make([]byte, 0, len(termPrefix)+len(word)+len(entityTypeName)+2+idSize)
	buf = append(buf, termPrefix...)
	buf = append(buf, word...)
	buf = append(buf, keySep)
	buf = append(buf, entityTypeName...)
	buf = append(buf, keySep)
	return append(buf, id[:]...)
}

// makePartialTermKey generates the scan prefix for words starting with prefix.
func makePartialTermKey(prefix string) []byte {
	return append([]byte(termPrefix), prefix...)
}

// makeLinkKey generates a posting key for one link key of a document.
// The link key itself is hashed to keep keys fixed-width; the full link key
// is stored as the value.
// Format: lnk:<hash>(8 bytes)<type>\x00<id bytes>
func makeLinkKey(linkKey, entityTypeName string, id core.EntityID) []byte {
	buf := makePartialLinkKey(linkKey)
	buf = append(buf, entityTypeName...)
	buf = append(buf, keySep)
	return append(buf, id[:]...)
}

// makePartialLinkKey generates the scan prefix for one link key.
func makePartialLinkKey(linkKey string) []byte {
	buf := make([]byte, len(linkPrefix)+8, len(linkPrefix)+8+32+idSize)
	offset := copy(buf, linkPrefix)
	binary.BigEndian.PutUint64(buf[offset:], core.HashKey(linkKey))
	return buf
}

// splitTermKey extracts the word, type name and entity ID from a term key.
func splitTermKey(key []byte) (word, entityTypeName string, id core.EntityID, ok bool) {
	rest, found := bytes.CutPrefix(key, []byte(termPrefix))
	if !found {
		return "", "", id, false
	}
	wordEnd := bytes.IndexByte(rest, keySep)
	if wordEnd < 0 {
		return "", "", id, false
	}
	entityTypeName, id, ok = splitTypedID(rest[wordEnd+1:])
	return string(rest[:wordEnd]), entityTypeName, id, ok
}

// splitLinkKey extracts the type name and entity ID from a link key.
func splitLinkKey(key []byte) (entityTypeName string, id core.EntityID, ok bool) {
	if len(key) < len(linkPrefix)+8 {
		return "", id, false
	}
	return splitTypedID(key[len(linkPrefix)+8:])
}

// splitTypedID decodes a "<type>\x00<id bytes>" key tail.
func splitTypedID(tail []byte) (string, core.EntityID, bool) {
	var id core.EntityID
	if len(tail) < idSize+1 || tail[len(tail)-idSize-1] != keySep {
		return "", id, false
	}
	copy(id[:], tail[len(tail)-idSize:])
	return string(tail[:len(tail)-idSize-1]), id, true
}
