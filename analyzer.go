// Package blaze implements the core of an embedded full-text search
// engine: inverted-index retrieval with phrase/slop proximity, per-term
// edit-distance fuzziness, BM25 scoring, and persistent on-disk segments.
//
// ═══════════════════════════════════════════════════════════════════════════════
// TEXT ANALYSIS OVERVIEW
// ═══════════════════════════════════════════════════════════════════════════════
// Text analysis transforms raw text into a normalized, stemmed, stop-word-
// filtered token stream with positions (§4.1). The pipeline, in order:
//
//  1. Replace any character not in [A-Za-z0-9\s] with a single space
//  2. Lowercase
//  3. Split on runs of whitespace
//  4. Drop stop words (a fixed ~35-entry English set, see Glossary)
//  5. Stem surviving tokens with the Snowball English algorithm
//
// Positions are the indices within the post-filter, post-stem stream
// (0-based, dense) — a stop word or a word dropped upstream leaves no gap.
// ═══════════════════════════════════════════════════════════════════════════════
package blaze

import (
	"strings"

	snowballeng "github.com/kljensen/snowball/english"
)

// stopWords is the fixed English function-word set dropped before
// indexing (§4.1, Glossary: "~35 entries"). Taken verbatim from the
// reference tokenizer's STOP_WORDS table rather than a broader general-
// purpose list, since the spec's fuzzy/proximity tests assume exactly
// this set.
var stopWords = map[string]struct{}{
	"a": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "but": {},
	"by": {}, "for": {}, "if": {}, "in": {}, "into": {}, "is": {}, "it": {},
	"no": {}, "not": {}, "of": {}, "on": {}, "or": {}, "s": {}, "such": {},
	"t": {}, "that": {}, "the": {}, "their": {}, "then": {}, "there": {},
	"these": {}, "they": {}, "this": {}, "to": {}, "was": {}, "will": {},
	"with": {}, "www": {},
}

func isStopword(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// isWordByte reports whether b belongs to [A-Za-z0-9]; anything else is
// replaced with a space before splitting (§4.1 step 1).
func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// Analyze runs the full tokenizer pipeline and returns the surviving,
// stemmed tokens in stream order. It is a convenience wrapper around
// TokenizeGroup for callers that don't need positions.
func Analyze(text string) []string {
	n, groups, _ := TokenizeGroup(text)
	tokens := make([]string, n)
	for term, positions := range groups {
		for _, p := range positions {
			tokens[p] = term
		}
	}
	return tokens
}

// stemToken normalizes a single query word the same way the indexing
// pipeline does (strip non-alnum, lowercase, stem) without the stop-word
// drop: an explicit query term is something the caller asked for by
// name, and dropping it silently would desync phrase position alignment
// instead of just matching nothing.
func stemToken(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if isWordByte(raw[i]) {
			b.WriteByte(raw[i])
		}
	}
	lowered := strings.ToLower(b.String())
	if lowered == "" {
		return lowered
	}
	return snowballeng.Stem(lowered, false)
}

// TokenizeGroup implements §4.1's tokenize_group(doc): it returns N, the
// number of emitted tokens, and a mapping from term to the ascending
// positions (within the post-filter, post-stem stream) at which that term
// occurs. The third return value is the set of distinct terms in first-
// occurrence order, so callers that need a stable iteration order (tests,
// Analyze above) don't have to sort a map.
func TokenizeGroup(doc string) (int, map[string][]int, []string) {
	var b strings.Builder
	b.Grow(len(doc))
	for i := 0; i < len(doc); i++ {
		if isWordByte(doc[i]) {
			b.WriteByte(doc[i])
		} else {
			b.WriteByte(' ')
		}
	}
	lowered := strings.ToLower(b.String())
	fields := strings.Fields(lowered)

	groups := make(map[string][]int)
	var order []string
	pos := 0
	for _, raw := range fields {
		if isStopword(raw) {
			continue
		}
		term := snowballeng.Stem(raw, false)
		if _, seen := groups[term]; !seen {
			order = append(order, term)
		}
		groups[term] = append(groups[term], pos)
		pos++
	}
	return pos, groups, order
}
