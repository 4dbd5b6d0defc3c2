// Merger (§4.10): compacts an ordered set of segments into one, dropping
// tombstoned documents and rebuilding the doc table, postings and token
// total from the live documents rather than carrying stale values
// forward. Postings carry no tf_norm value (TFNorm stays zero).
package blaze

import "sort"

// MergeSegments merges segs (ordered oldest to newest) into a single new
// segment containing only live documents, rebuilding the dictionary and
// posting lists by re-adding every live document, in doc_id order, with
// the positions gathered from the inputs' postings.
func MergeSegments(segs []*Segment) *Segment {
	out := NewSegment()
	if len(segs) == 0 {
		return out
	}

	type liveDoc struct {
		docID  string
		text   string
		length int
		groups map[string][]int
	}
	byDoc := make(map[string]*liveDoc)
	var order []string

	for _, seg := range segs {
		for i, docID := range seg.docOrder {
			if !seg.live.Contains(uint32(i)) {
				continue
			}
			entry := seg.docEntries[i]
			if _, ok := byDoc[docID]; !ok {
				byDoc[docID] = &liveDoc{docID: docID, text: entry.Text, length: entry.Length, groups: make(map[string][]int)}
				order = append(order, docID)
			}
		}
		for term, pl := range seg.terms {
			for _, p := range pl.Postings {
				d, ok := byDoc[p.DocID]
				if !ok {
					continue
				}
				d.groups[term] = p.Positions
			}
		}
	}

	sort.Strings(order)
	for _, docID := range order {
		d := byDoc[docID]
		out.AddDoc(d.docID, d.text, d.length, d.groups)
	}
	return out
}
