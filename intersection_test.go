package blaze

import "testing"

// ═══════════════════════════════════════════════════════════════════════════════
// INTERSECTION DRIVER TESTS (§4.7)
// ═══════════════════════════════════════════════════════════════════════════════

func listsFor(data map[string]*PostingList) func(string) *PostingList {
	return func(term string) *PostingList { return data[term] }
}

func TestIntersect_SingleBundleYieldsEveryDoc(t *testing.T) {
	quick := &PostingList{}
	quick.Insert(Posting{DocID: "A", TF: 1, Positions: []int{0}})
	quick.Insert(Posting{DocID: "B", TF: 1, Positions: []int{2}})

	bundle := newTokenBundle([]FuzzyMatch{{Term: "quick", Distance: 0}}, listsFor(map[string]*PostingList{"quick": quick}))
	candidates := Intersect([]*tokenBundle{bundle})
	if len(candidates) != 2 || candidates[0].DocID != "A" || candidates[1].DocID != "B" {
		t.Errorf("candidates = %+v, want A then B", candidates)
	}
}

func TestIntersect_TwoBundlesOnlyAgreeingDocsSurvive(t *testing.T) {
	quick := &PostingList{}
	quick.Insert(Posting{DocID: "A", TF: 1, Positions: []int{0}})
	quick.Insert(Posting{DocID: "B", TF: 1, Positions: []int{0}})

	fox := &PostingList{}
	fox.Insert(Posting{DocID: "B", TF: 1, Positions: []int{1}})
	fox.Insert(Posting{DocID: "C", TF: 1, Positions: []int{1}})

	lists := listsFor(map[string]*PostingList{"quick": quick, "fox": fox})
	b1 := newTokenBundle([]FuzzyMatch{{Term: "quick"}}, lists)
	b2 := newTokenBundle([]FuzzyMatch{{Term: "fox"}}, lists)

	candidates := Intersect([]*tokenBundle{b1, b2})
	if len(candidates) != 1 || candidates[0].DocID != "B" {
		t.Errorf("candidates = %+v, want only B", candidates)
	}
}

func TestIntersect_BundleWithMultipleVariantsMergesHits(t *testing.T) {
	exact := &PostingList{}
	exact.Insert(Posting{DocID: "A", TF: 1, Positions: []int{0}})
	fuzzy := &PostingList{}
	fuzzy.Insert(Posting{DocID: "A", TF: 1, Positions: []int{5}})

	lists := listsFor(map[string]*PostingList{"quick": exact, "quack": fuzzy})
	bundle := newTokenBundle([]FuzzyMatch{{Term: "quick", Distance: 0}, {Term: "quack", Distance: 1}}, lists)
	candidates := Intersect([]*tokenBundle{bundle})
	if len(candidates) != 1 {
		t.Fatalf("candidates = %+v, want 1", candidates)
	}
	if len(candidates[0].Hits[0]) != 2 {
		t.Errorf("hits for doc A = %+v, want both variants", candidates[0].Hits[0])
	}
}

func TestIntersect_EmptyBundleYieldsNoCandidates(t *testing.T) {
	bundle := newTokenBundle(nil, listsFor(nil))
	candidates := Intersect([]*tokenBundle{bundle})
	if len(candidates) != 0 {
		t.Errorf("candidates = %+v, want none for an empty bundle", candidates)
	}
}
