// Package blaze — query grammar (§4.3).
//
//	query       := phrase_slop | bare
//	phrase_slop := '"' term_list '"' '~' <uint>
//	bare        := term_list
//	term_list   := term (WS term)*
//	term        := word ( '~' <uint>? )?
//
// Grounded on original_source/minisearch/parser.py's two regexes
// (parse_slop, parse_fuzziness), reimplemented with Go's regexp package
// rather than the source's generator-based re.finditer walk.
package blaze

import (
	"regexp"
	"strconv"
)

// SlopUnbounded marks a query with no explicit phrase/slop wrapper: the
// bare-query form is proximity-unconstrained (§4.3: "equivalent to
// phrase_slop with S = +∞ for proximity").
const SlopUnbounded = -1

// FuzzyMax is the sentinel fuzziness a bare `word~` (no digits) parses to:
// "use the maximum automaton distance available" (§4.3).
const FuzzyMax = -1

var (
	slopPattern      = regexp.MustCompile(`^"(.*)"~([0-9]+)$`)
	fuzzinessPattern = regexp.MustCompile(`([^~\s]+)(~([0-9]*))?`)
)

// QueryTerm is one parsed term-with-fuzziness in query order.
type QueryTerm struct {
	Word  string
	Fuzzy int // 0 = exact, 1..MaxFuzzyDistance = explicit, FuzzyMax = sentinel
}

// ParsedQuery is the result of parsing a query string: an ordered term
// list and a slop bound (SlopUnbounded for the proximity-unconstrained
// bare form).
type ParsedQuery struct {
	Terms []QueryTerm
	Slop  int
}

// ParseQuery parses a query string per the grammar above, returning
// SearchQueryError/ErrInvalidQuery on unbalanced phrase quoting or a
// fuzziness integer beyond MaxFuzzyDistance.
func ParseQuery(query string) (ParsedQuery, error) {
	body := query
	slop := SlopUnbounded

	if m := slopPattern.FindStringSubmatch(query); m != nil {
		body = m[1]
		s, err := strconv.Atoi(m[2])
		if err != nil {
			return ParsedQuery{}, &SearchQueryError{Cause: err}
		}
		slop = s
	} else if hasStrayQuote(query) {
		return ParsedQuery{}, &SearchQueryError{Cause: ErrInvalidQuery}
	}

	terms, err := parseFuzziness(body)
	if err != nil {
		return ParsedQuery{}, err
	}
	if len(terms) == 0 {
		return ParsedQuery{}, &SearchQueryError{Cause: ErrInvalidQuery}
	}
	return ParsedQuery{Terms: terms, Slop: slop}, nil
}

// hasStrayQuote reports whether query contains a quote character that
// slopPattern didn't already account for. The only grammar production
// allowing a quote is phrase_slop (`"..."~<uint>`), matched above
// before this is called; bare's term regex has no quote char at all.
// So any quote reaching here — whether unbalanced or a well-formed
// `"..."` missing its required `~<uint>` suffix — means the query
// matches neither production and must be rejected rather than falling
// through to parseFuzziness with literal quote characters embedded in
// a word.
func hasStrayQuote(query string) bool {
	for i := 0; i < len(query); i++ {
		if query[i] == '"' {
			return true
		}
	}
	return false
}

// parseFuzziness yields (word, distance) pairs from a term_list, mirroring
// parser.py's parse_fuzziness: an explicit `~N` sets distance=N, a bare
// `~` with no digits sets the FuzzyMax sentinel, and no `~` at all means
// exact (distance 0).
func parseFuzziness(body string) ([]QueryTerm, error) {
	matches := fuzzinessPattern.FindAllStringSubmatch(body, -1)
	terms := make([]QueryTerm, 0, len(matches))
	for _, m := range matches {
		word, hasTilde, digits := m[1], m[2] != "", m[3]
		dist := 0
		switch {
		case hasTilde && digits != "":
			d, err := strconv.Atoi(digits)
			if err != nil {
				return nil, &SearchQueryError{Cause: err}
			}
			if d > MaxFuzzyDistance {
				return nil, &SearchQueryError{Cause: ErrInvalidQuery}
			}
			dist = d
		case hasTilde:
			dist = FuzzyMax
		}
		terms = append(terms, QueryTerm{Word: word, Fuzzy: dist})
	}
	return terms, nil
}
