// Proximity Matcher (§4.8): slop-bounded window enumeration over the
// positional lists of a candidate document's matched token groups.
package blaze

import "container/heap"

// posMeta is what the scorer needs about the occurrence at a given
// position: which variant term matched, at what fuzzy distance, and that
// term's frequency in the document (for BM25, §4.9).
type posMeta struct {
	term     string
	distance int
	tf       int
}

// tokensIterator merges the positional lists of one token group's
// variants, deduplicated on value, via a min-heap (§4.8). peek/next/
// closest are the three primitives the greedy matcher drives.
type tokensIterator struct {
	h positionHeap
}

func newTokensIterator(hits []bundleHit) *tokensIterator {
	it := &tokensIterator{}
	for _, hit := range hits {
		if len(hit.posting.Positions) == 0 {
			continue
		}
		it.h = append(it.h, &positionCursor{
			positions: hit.posting.Positions,
			distance:  hit.distance,
			tf:        hit.posting.TF,
			term:      hit.term,
		})
	}
	heap.Init(&it.h)
	return it
}

// peek returns the smallest current position without advancing.
func (it *tokensIterator) peek() (int, posMeta, bool) {
	if it.h.Len() == 0 {
		return 0, posMeta{}, false
	}
	c := it.h[0]
	return c.value(), posMeta{term: c.term, distance: c.distance, tf: c.tf}, true
}

// next advances past the current minimum, collapsing any other cursors
// that share the same position value, and returns the value consumed.
func (it *tokensIterator) next() (int, posMeta, bool) {
	if it.h.Len() == 0 {
		return 0, posMeta{}, false
	}
	value, meta, _ := it.peek()
	for it.h.Len() > 0 && it.h[0].value() == value {
		c := it.h[0]
		if c.distance < meta.distance {
			meta = posMeta{term: c.term, distance: c.distance, tf: c.tf}
		}
		c.idx++
		if c.exhausted() {
			heap.Pop(&it.h)
		} else {
			heap.Fix(&it.h, 0)
		}
	}
	return value, meta, true
}

// closest discards every position at or below target and returns the
// smallest one strictly greater than it, WITHOUT consuming that
// position (§4.8): it stays current so a later, tighter pairing from
// an earlier group can still reuse it on a subsequent outer-loop pass.
// The returned position is discarded only by a later closest() whose
// target is at or above it.
func (it *tokensIterator) closest(target int) (int, posMeta, bool) {
	for {
		v, meta, ok := it.peek()
		if !ok {
			return 0, posMeta{}, false
		}
		if v > target {
			return v, meta, true
		}
		it.next()
	}
}

// Window is one emitted match: the K positions in query order, their
// per-position metadata, and the total slop.
type Window struct {
	Positions []int
	Meta      []posMeta
	Slop      int
}

// abs mirrors the spec's |p - (q-1)| slop contribution.
func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// MatchWindows runs the greedy left-anchored scan of §4.8 over K token
// groups for one candidate document, emitting every window whose total
// slop is within bound S (SlopUnbounded means no bound).
func MatchWindows(groups [][]bundleHit, slopBound int) []Window {
	k := len(groups)
	if k == 0 {
		return nil
	}
	iters := make([]*tokensIterator, k)
	for i, g := range groups {
		iters[i] = newTokensIterator(g)
	}

	window := make([]int, k)
	meta := make([]posMeta, k)
	slops := make([]int, k)
	for i := 0; i < k; i++ {
		v, m, ok := iters[i].peek()
		if !ok {
			return nil
		}
		window[i] = v
		meta[i] = m
	}

	var windows []Window
	for {
		i := 1
		fits := true
		for i <= k-1 {
			v, m, ok := iters[i].closest(window[i-1])
			if !ok {
				return windows
			}
			window[i] = v
			meta[i] = m
			s := slops[i-1] + abs(window[i-1]-(window[i]-1))
			if slopBound != SlopUnbounded && s > slopBound {
				fits = false
				break
			}
			slops[i] = s
			i++
		}
		if fits && i > k-1 {
			total := 0
			if k > 1 {
				total = slops[k-1]
			}
			windows = append(windows, Window{
				Positions: append([]int(nil), window...),
				Meta:      append([]posMeta(nil), meta...),
				Slop:      total,
			})
		}
		iters[0].next()
		v, m, ok := iters[0].peek()
		if !ok {
			return windows
		}
		window[0] = v
		meta[0] = m
	}
}
