package blaze

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// idGenerator produces strictly monotonic ULIDs (Crockford base32, 26
// chars) for document ids, per §6 and the §9 design note: "the id
// generator must be strictly monotonic within a process to preserve
// posting-list ordering." ulid.MonotonicEntropy already guarantees
// monotonic ids for calls sharing a millisecond; the mutex serializes
// access to that shared entropy source across the single-writer index.
type idGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func newIDGenerator() *idGenerator {
	return &idGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Next returns the next monotonic ULID string.
func (g *idGenerator) Next() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), g.entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// validDocID reports whether s parses as a well-formed ULID, used to
// reject malformed ids in Get/Delete with IndexGetError/IndexDeleteError.
func validDocID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
