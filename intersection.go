// Intersection Driver (§4.7): given K query tokens, each expanded to a
// set of fuzzy variants with their posting lists, finds every doc_id
// containing at least one variant per query position, in ascending order.
package blaze

import "container/heap"

// tokenBundle is the K-way cursor set for one query-token position: a
// min-heap of its fuzzy variants, ordered by each variant's current
// doc_id.
type tokenBundle struct {
	h docCursorHeap
}

func newTokenBundle(variants []FuzzyMatch, lists func(term string) *PostingList) *tokenBundle {
	b := &tokenBundle{}
	for _, v := range variants {
		pl := lists(v.Term)
		if pl == nil || pl.Len() == 0 {
			continue
		}
		b.h = append(b.h, &variantCursor{term: v.Term, distance: v.Distance, list: pl})
	}
	heap.Init(&b.h)
	return b
}

func (b *tokenBundle) exhausted() bool { return b.h.Len() == 0 }

func (b *tokenBundle) currentDocID() string { return b.h[0].docID() }

// bundleHit is one (variant, posting) pair sharing the bundle's current
// target doc_id.
type bundleHit struct {
	term     string
	distance int
	posting  Posting
}

// nextDocIndex consumes the bundle's current doc_id, returning every
// variant's posting at it, and leaves the bundle on the next distinct
// doc_id (§4.7).
func (b *tokenBundle) nextDocIndex() []bundleHit {
	if b.h.Len() == 0 {
		return nil
	}
	target := b.h[0].docID()
	var hits []bundleHit
	for b.h.Len() > 0 && b.h[0].docID() == target {
		c := b.h[0]
		hits = append(hits, bundleHit{term: c.term, distance: c.distance, posting: c.list.At(c.idx)})
		c.idx++
		if c.exhausted() {
			heap.Pop(&b.h)
		} else {
			heap.Fix(&b.h, 0)
		}
	}
	return hits
}

// geqDocIndex binary-searches every variant to the first doc_id >= target
// (§4.7). The bundle's current doc_id is left unconsumed, so the driver
// can compare it against the other bundles before calling nextDocIndex.
func (b *tokenBundle) geqDocIndex(target string) {
	for i := 0; i < len(b.h); i++ {
		c := b.h[i]
		if c.exhausted() || c.docID() >= target {
			continue
		}
		idx, ok := c.list.SkipTo(target)
		c.idx = idx
		if !ok {
			c.idx = c.list.Len()
		}
	}
	// Drop now-exhausted cursors and re-heapify.
	live := b.h[:0]
	for _, c := range b.h {
		if !c.exhausted() {
			live = append(live, c)
		}
	}
	b.h = live
	heap.Init(&b.h)
}

// Candidate is one doc_id the intersection driver agreed on, with every
// bundle's hits at that doc_id (in query-token order).
type Candidate struct {
	DocID string
	Hits  [][]bundleHit
}

// Intersect drives K token bundles in lock-step and yields candidate
// doc_ids in ascending order (§4.7's driver loop).
func Intersect(bundles []*tokenBundle) []Candidate {
	var out []Candidate
	if len(bundles) == 0 {
		return out
	}
	for _, b := range bundles {
		if b.exhausted() {
			return out
		}
	}
	target := maxDocID(bundles)
	for {
		allAgree := true
		for _, b := range bundles {
			if b.currentDocID() != target {
				allAgree = false
				break
			}
		}
		if allAgree {
			hits := make([][]bundleHit, len(bundles))
			exhausted := false
			for i, b := range bundles {
				hits[i] = b.nextDocIndex()
				if b.exhausted() {
					exhausted = true
				}
			}
			out = append(out, Candidate{DocID: target, Hits: hits})
			if exhausted {
				return out
			}
			target = maxDocID(bundles)
			continue
		}
		for _, b := range bundles {
			if b.currentDocID() < target {
				b.geqDocIndex(target)
				if b.exhausted() {
					return out
				}
			}
		}
		target = maxDocID(bundles)
	}
}

func maxDocID(bundles []*tokenBundle) string {
	max := bundles[0].currentDocID()
	for _, b := range bundles[1:] {
		if b.currentDocID() > max {
			max = b.currentDocID()
		}
	}
	return max
}
