package blaze

import "fmt"

// Error kinds surfaced across the public Index operations. Each wraps the
// underlying cause (serialization failure, I/O error, malformed input) so
// callers can still errors.Is/errors.As through to it.

// IndexInitError reports a failure opening or replaying an index: a bad
// segment, a corrupt write log, or an unreadable meta registry.
type IndexInitError struct{ Cause error }

func (e *IndexInitError) Error() string { return fmt.Sprintf("index init: %v", e.Cause) }
func (e *IndexInitError) Unwrap() error { return e.Cause }

// IndexGetError reports a malformed or unknown document id passed to Get.
type IndexGetError struct{ Cause error }

func (e *IndexGetError) Error() string { return fmt.Sprintf("index get: %v", e.Cause) }
func (e *IndexGetError) Unwrap() error { return e.Cause }

// IndexAddError reports a failure adding a document: id-generator exhaustion,
// serialization, or write-log append failure.
type IndexAddError struct{ Cause error }

func (e *IndexAddError) Error() string { return fmt.Sprintf("index add: %v", e.Cause) }
func (e *IndexAddError) Unwrap() error { return e.Cause }

// IndexDeleteError reports a malformed document id or a write-log append
// failure while recording a tombstone.
type IndexDeleteError struct{ Cause error }

func (e *IndexDeleteError) Error() string { return fmt.Sprintf("index delete: %v", e.Cause) }
func (e *IndexDeleteError) Unwrap() error { return e.Cause }

// IndexFlushError reports a failure sealing the mutable segment to disk.
type IndexFlushError struct{ Cause error }

func (e *IndexFlushError) Error() string { return fmt.Sprintf("index flush: %v", e.Cause) }
func (e *IndexFlushError) Unwrap() error { return e.Cause }

// IndexSessionError reports a flush failure at session-scope exit.
type IndexSessionError struct{ Cause error }

func (e *IndexSessionError) Error() string { return fmt.Sprintf("index session: %v", e.Cause) }
func (e *IndexSessionError) Unwrap() error { return e.Cause }

// SearchQueryError reports a syntactic error in a query string.
type SearchQueryError struct{ Cause error }

func (e *SearchQueryError) Error() string { return fmt.Sprintf("search query: %v", e.Cause) }
func (e *SearchQueryError) Unwrap() error { return e.Cause }

// ErrUnknownLogOperation is the sentinel cause for an unrecognized write-log
// record tag. Log corruption is fatal to load — it is never silently
// truncated, per §4.6.
var ErrUnknownLogOperation = fmt.Errorf("unknown log operation tag")

// ErrInvalidQuery is the sentinel cause for a query that fails to parse:
// unbalanced phrase quoting, or a fuzziness integer beyond the highest
// precompiled automaton distance.
var ErrInvalidQuery = fmt.Errorf("invalid query")
