package core

import "strings"

// QueryTerm is one token of a search string compiled for word matching.
//
// The supported grammar is literal text plus '*', which matches any
// sequence of characters. Every term carries an implicit trailing '*', so a
// bare term matches as a word prefix. Matching is case-insensitive.
type QueryTerm struct {
	raw      string
	segments []string // Lower-cased literal runs between '*' characters
}

// NewQueryTerm compiles a single token into a QueryTerm.
func NewQueryTerm(token string) QueryTerm {
	parts := strings.Split(strings.ToLower(token), "*")
	// Runs of '*' and a trailing '*' add nothing to the implicit wildcards.
	segments := []string{parts[0]}
	for _, part := range parts[1:] {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return QueryTerm{raw: token, segments: segments}
}

// ParseQueryTerms splits a raw search string on whitespace and compiles each
// token. Tokens that compile to the same pattern are collapsed, keeping the
// first occurrence. An empty or all-whitespace string yields no terms.
func ParseQueryTerms(searchTerm string) []QueryTerm {
	tokens := strings.Fields(searchTerm)
	terms := make([]QueryTerm, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		term := NewQueryTerm(token)
		if seen[term.Pattern()] {
			continue
		}
		seen[term.Pattern()] = true
		terms = append(terms, term)
	}
	return terms
}

// Raw returns the token the term was compiled from.
func (t QueryTerm) Raw() string {
	return t.raw
}

// Pattern returns the normalized pattern, lower-cased with the implicit
// trailing wildcard made explicit. Two terms with equal patterns match
// exactly the same words.
func (t QueryTerm) Pattern() string {
	return strings.Join(t.segments, "*") + "*"
}

// LiteralPrefix returns the lower-cased text before the first '*'.
// Every word the term matches starts with it.
func (t QueryTerm) LiteralPrefix() string {
	if len(t.segments) == 0 {
		return ""
	}
	return t.segments[0]
}

// String implements fmt.Stringer.
func (t QueryTerm) String() string {
	return t.raw
}

// MatchesWord reports whether the whole lower-cased word matches the term.
func (t QueryTerm) MatchesWord(word string) bool {
	word = strings.ToLower(word)
	if !strings.HasPrefix(word, t.LiteralPrefix()) {
		return false
	}
	pos := len(t.LiteralPrefix())
	for _, segment := range t.segments[1:] {
		idx := strings.Index(word[pos:], segment)
		if idx < 0 {
			return false
		}
		pos += idx + len(segment)
	}
	// The implicit trailing wildcard absorbs whatever remains.
	return true
}

// Matches reports whether any whitespace-delimited word of fieldValue
// matches the term.
func (t QueryTerm) Matches(fieldValue string) bool {
	for _, word := range strings.Fields(fieldValue) {
		if t.MatchesWord(word) {
			return true
		}
	}
	return false
}
