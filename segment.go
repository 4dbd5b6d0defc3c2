package blaze

import "github.com/RoaringBitmap/roaring"

// docEntry is one row of a segment's document table (§3): the original
// text and token count. Liveness is tracked separately in the segment's
// roaring bitmap rather than as a field here, so it stays a fast O(1)
// existence/tombstone check (§DOMAIN STACK) instead of a per-entry flag
// scan.
type docEntry struct {
	DocID  string
	Length int
	Text   string
}

// Segment is an immutable-once-flushed snapshot: a term dictionary with
// postings, a document table, and aggregate stats (§3). The same type
// also serves as the mutable segment while it is being written to — the
// distinction is structural (mutable has a live write log behind it, see
// wal.go) rather than a different Go type, matching the teacher's
// preference for one struct per entity.
type Segment struct {
	docIndex    map[string]int
	docOrder    []string
	docEntries  []docEntry
	live        *roaring.Bitmap
	terms       map[string]*PostingList
	trie        *Trie
	totalTokens int64
}

// NewSegment returns an empty, writable segment.
func NewSegment() *Segment {
	return &Segment{
		docIndex: make(map[string]int),
		live:     roaring.New(),
		terms:    make(map[string]*PostingList),
		trie:     NewTrie(),
	}
}

// AddDoc inserts a new live document and its term postings. groups is the
// term -> positions mapping produced by TokenizeGroup.
func (s *Segment) AddDoc(docID, text string, length int, groups map[string][]int) {
	idx := len(s.docOrder)
	s.docIndex[docID] = idx
	s.docOrder = append(s.docOrder, docID)
	s.docEntries = append(s.docEntries, docEntry{DocID: docID, Length: length, Text: text})
	s.live.Add(uint32(idx))
	s.totalTokens += int64(length)

	for term, positions := range groups {
		s.trie.Insert(term)
		pl, ok := s.terms[term]
		if !ok {
			pl = &PostingList{}
			s.terms[term] = pl
		}
		pl.Insert(Posting{DocID: docID, TF: len(positions), Positions: append([]int(nil), positions...)})
	}
}

// DeleteDoc tombstones docID if it is live in this segment, returning
// whether it was. Postings are left untouched until the next merge
// (§3: "tombstoned... until the next merge drops it").
func (s *Segment) DeleteDoc(docID string) bool {
	idx, ok := s.docIndex[docID]
	if !ok || !s.live.Contains(uint32(idx)) {
		return false
	}
	s.live.Remove(uint32(idx))
	s.totalTokens -= int64(s.docEntries[idx].Length)
	return true
}

// IsLive reports whether docID is present and not tombstoned.
func (s *Segment) IsLive(docID string) bool {
	idx, ok := s.docIndex[docID]
	return ok && s.live.Contains(uint32(idx))
}

// Get returns the original text and token length of a live document.
func (s *Segment) Get(docID string) (docEntry, bool) {
	idx, ok := s.docIndex[docID]
	if !ok || !s.live.Contains(uint32(idx)) {
		return docEntry{}, false
	}
	return s.docEntries[idx], true
}

// LiveCount returns the number of non-tombstoned documents in this segment.
func (s *Segment) LiveCount() int { return int(s.live.GetCardinality()) }

// TotalTokens returns the summed token length of live documents.
func (s *Segment) TotalTokens() int64 { return s.totalTokens }

// DF returns the number of live documents containing term in this segment.
func (s *Segment) DF(term string) int {
	pl, ok := s.terms[term]
	if !ok {
		return 0
	}
	n := 0
	for _, p := range pl.Postings {
		if s.IsLive(p.DocID) {
			n++
		}
	}
	return n
}

// livePostings returns the postings for term restricted to live
// documents, in doc_id order.
func (s *Segment) livePostings(term string) []Posting {
	pl, ok := s.terms[term]
	if !ok {
		return nil
	}
	out := make([]Posting, 0, len(pl.Postings))
	for _, p := range pl.Postings {
		if s.IsLive(p.DocID) {
			out = append(out, p)
		}
	}
	return out
}
