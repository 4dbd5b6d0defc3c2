// Adapted from the teacher's linked skip-list cursor file. The §9 design
// note calls for contiguous arrays of primitive tuples in place of the
// source's dynamic, pointer-chased structures; posting lists themselves
// moved to PostingList (posting.go). What the old skip list actually gave
// the teacher's query engine was ordered, heap-driven cursor advancement
// over multiple lists at once — that concern survives here as the three
// min-heaps the Intersection Driver (§4.7), Proximity Matcher (§4.8), and
// BM25 top-k (§4.9) all need, built on container/heap the way
// necyber-goclaw's pkg/lane/priority_queue.go builds its task heap.
package blaze

import "container/heap"

// ═══════════════════════════════════════════════════════════════════════════════
// DOC-CURSOR HEAP — Intersection Driver bundles (§4.7)
// ═══════════════════════════════════════════════════════════════════════════════

// variantCursor tracks one fuzzy variant's position within its posting
// list, for one query token's bundle.
type variantCursor struct {
	term     string
	distance int
	list     *PostingList
	idx      int
}

func (c *variantCursor) exhausted() bool { return c.idx >= c.list.Len() }
func (c *variantCursor) docID() string   { return c.list.At(c.idx).DocID }

// docCursorHeap is a min-heap of variant cursors ordered by current
// doc_id — the representation behind one query-token bundle.
type docCursorHeap []*variantCursor

func (h docCursorHeap) Len() int            { return len(h) }
func (h docCursorHeap) Less(i, j int) bool  { return h[i].docID() < h[j].docID() }
func (h docCursorHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *docCursorHeap) Push(x any)         { *h = append(*h, x.(*variantCursor)) }
func (h *docCursorHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// ═══════════════════════════════════════════════════════════════════════════════
// POSITION HEAP — TokensIterator merge within a token group (§4.8)
// ═══════════════════════════════════════════════════════════════════════════════

// positionCursor tracks one variant's position within one document's
// posting, for the proximity matcher's per-token-group merge.
type positionCursor struct {
	positions []int
	idx       int
	distance  int
	tf        int
	term      string
}

func (c *positionCursor) exhausted() bool { return c.idx >= len(c.positions) }
func (c *positionCursor) value() int      { return c.positions[c.idx] }

type positionHeap []*positionCursor

func (h positionHeap) Len() int           { return len(h) }
func (h positionHeap) Less(i, j int) bool { return h[i].value() < h[j].value() }
func (h positionHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *positionHeap) Push(x any)        { *h = append(*h, x.(*positionCursor)) }
func (h *positionHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// ═══════════════════════════════════════════════════════════════════════════════
// TOP-K SCORE HEAP — BM25 bounded result set (§4.9)
// ═══════════════════════════════════════════════════════════════════════════════

// scoredDoc is one candidate's final score, kept in the bounded top-k
// min-heap. Seq preserves ascending-doc_id insertion order so ties break
// deterministically (§4.9 "ties broken by insertion order").
type scoredDoc struct {
	docID string
	score float64
	seq   int
}

type scoreHeap []scoredDoc

func (h scoreHeap) Len() int { return len(h) }
func (h scoreHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score < h[j].score
	}
	return h[i].seq > h[j].seq
}
func (h scoreHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *scoreHeap) Push(x any)   { *h = append(*h, x.(scoredDoc)) }
func (h *scoreHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// topKHeap bounds a scoreHeap to size k, keeping the k highest scores.
type topKHeap struct {
	h    scoreHeap
	k    int
	next int
}

func newTopKHeap(k int) *topKHeap {
	t := &topKHeap{k: k}
	heap.Init(&t.h)
	return t
}

// Offer inserts a (docID, score) pair, evicting the current minimum if the
// heap is already at capacity and the new score is higher.
func (t *topKHeap) Offer(docID string, score float64) {
	item := scoredDoc{docID: docID, score: score, seq: t.next}
	t.next++
	if t.k <= 0 || t.h.Len() < t.k {
		heap.Push(&t.h, item)
		return
	}
	if t.h.Len() > 0 && score > t.h[0].score {
		heap.Pop(&t.h)
		heap.Push(&t.h, item)
	}
}

// MinIfFull returns the current minimum score and true when the heap is
// at capacity, or (0, false) otherwise — used by the scorer's early-exit
// shortcut (§4.9).
func (t *topKHeap) MinIfFull() (float64, bool) {
	if t.k <= 0 || t.h.Len() < t.k {
		return 0, false
	}
	return t.h[0].score, true
}

// Results drains the heap into a descending-score slice.
func (t *topKHeap) Results() []scoredDoc {
	out := make([]scoredDoc, t.h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&t.h).(scoredDoc)
	}
	return out
}
