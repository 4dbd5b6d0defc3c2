package blaze

import "sort"

// Posting is one term's occurrence record within a single document, per
// §3: doc_id, term frequency, and a strictly increasing position list.
// TFNorm is a slot for a cached BM25 length-normalized term weight (§4.5
// "precomputed per-posting tf_norm contribution"); nothing in the package
// sets or reads it, and the scorer computes the weight per window.
type Posting struct {
	DocID     string
	TF        int
	Positions []int
	TFNorm    float64
}

// PostingList is a term's postings sorted by doc_id — a contiguous slice
// of primitive tuples rather than a linked structure, per the §9 design
// note calling for cache-friendly tagged structures in place of the
// source's dynamic dictionaries. Replaces the teacher's linked SkipList
// representation, which modeled positions as float64 sentinels unsuited
// to this spec's integer position/doc-id model.
type PostingList struct {
	Postings []Posting
}

// Len reports the number of postings (the term's document frequency).
func (pl *PostingList) Len() int { return len(pl.Postings) }

// At returns the posting at index i (§4.5 "random access by index").
func (pl *PostingList) At(i int) Posting { return pl.Postings[i] }

// Insert adds a posting, keeping Postings sorted by doc_id. Callers append
// in increasing doc_id order during indexing (ULIDs are monotonic), so
// this is a fast-path append with a fallback insertion sort for
// out-of-order callers.
func (pl *PostingList) Insert(p Posting) {
	n := len(pl.Postings)
	if n == 0 || pl.Postings[n-1].DocID < p.DocID {
		pl.Postings = append(pl.Postings, p)
		return
	}
	i := sort.Search(n, func(i int) bool { return pl.Postings[i].DocID >= p.DocID })
	if i < n && pl.Postings[i].DocID == p.DocID {
		pl.Postings[i] = p
		return
	}
	pl.Postings = append(pl.Postings, Posting{})
	copy(pl.Postings[i+1:], pl.Postings[i:])
	pl.Postings[i] = p
}

// SkipTo binary-searches for the first posting with DocID >= target
// (§4.5 "binary search by doc_id (bisect_left) — used by skip-to"),
// returning its index and whether one was found.
func (pl *PostingList) SkipTo(target string) (int, bool) {
	i := sort.Search(len(pl.Postings), func(i int) bool { return pl.Postings[i].DocID >= target })
	if i >= len(pl.Postings) {
		return i, false
	}
	return i, true
}

// Remove drops the posting for docID, if present, preserving order.
func (pl *PostingList) Remove(docID string) {
	i, ok := pl.SkipTo(docID)
	if !ok || pl.Postings[i].DocID != docID {
		return
	}
	pl.Postings = append(pl.Postings[:i], pl.Postings[i+1:]...)
}
