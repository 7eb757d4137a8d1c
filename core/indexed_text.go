package core

import (
	"iter"
	"strings"
)

// fieldMarker precedes every field name in indexed text.
const fieldMarker = "^^"

// FormatIndexedText renders fields in the indexed text format:
//
//	^^fieldName fieldValue ^^fieldName fieldValue
//
// Marker sequences inside values are replaced by a space so a value can
// never start a new field.
func FormatIndexedText(fields []Field) string {
	var sb strings.Builder
	for i, field := range fields {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fieldMarker)
		sb.WriteString(field.Name)
		sb.WriteByte(' ')
		sb.WriteString(strings.ReplaceAll(field.Value, fieldMarker, " "))
	}
	return sb.String()
}

// ParseIndexedText lazily yields (fieldName, fieldValue) pairs from indexed
// text. A field name is a run of word characters directly after "^^" and
// must be followed by whitespace; the value is everything after that
// whitespace up to the next "^^" or the end of the text. Segments that do
// not fit this shape are skipped, so malformed input yields nothing.
func ParseIndexedText(text string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		pos := 0
		for {
			idx := strings.Index(text[pos:], fieldMarker)
			if idx < 0 {
				return
			}
			start := pos + idx
			nameStart := start + len(fieldMarker)
			nameEnd := nameStart
			for nameEnd < len(text) && isWordChar(text[nameEnd]) {
				nameEnd++
			}
			valueStart := nameEnd
			for valueStart < len(text) && isSpace(text[valueStart]) {
				valueStart++
			}
			if nameEnd == nameStart || valueStart == nameEnd {
				// Retry one byte further so "^^^name" still finds "^^name".
				pos = start + 1
				continue
			}
			valueEnd := len(text)
			if next := strings.Index(text[valueStart:], fieldMarker); next >= 0 {
				valueEnd = valueStart + next
			}
			if valueEnd > valueStart {
				if !yield(text[nameStart:nameEnd], text[valueStart:valueEnd]) {
					return
				}
			}
			pos = valueEnd
			if pos >= len(text) {
				return
			}
		}
	}
}

// IndexedWords returns the distinct lower-cased words of every field value
// in indexed text, in first-seen order.
func IndexedWords(text string) []string {
	var words []string
	seen := make(map[string]bool)
	for _, value := range ParseIndexedText(text) {
		for _, word := range strings.Fields(value) {
			word = strings.ToLower(word)
			if seen[word] {
				continue
			}
			seen[word] = true
			words = append(words, word)
		}
	}
	return words
}

func isWordChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
