package blaze

import "testing"

// ═══════════════════════════════════════════════════════════════════════════════
// MERGER TESTS (§4.10)
// ═══════════════════════════════════════════════════════════════════════════════

func TestMergeSegments_DropsTombstones(t *testing.T) {
	seg1 := NewSegment()
	_, g, _ := TokenizeGroup("quick brown fox")
	seg1.AddDoc("01A", "quick brown fox", 3, g)
	seg1.DeleteDoc("01A")

	seg2 := NewSegment()
	_, g2, _ := TokenizeGroup("quick brown dog")
	seg2.AddDoc("01B", "quick brown dog", 3, g2)

	merged := MergeSegments([]*Segment{seg1, seg2})
	if merged.IsLive("01A") {
		t.Error("tombstoned doc 01A survived merge")
	}
	if !merged.IsLive("01B") {
		t.Error("live doc 01B did not survive merge")
	}
	if merged.DF("quick") != 1 {
		t.Errorf("DF(quick) after merge = %d, want 1", merged.DF("quick"))
	}
}

func TestMergeSegments_PreservesPositions(t *testing.T) {
	seg := NewSegment()
	_, g, _ := TokenizeGroup("quick brown quick")
	seg.AddDoc("01A", "quick brown quick", 3, g)

	merged := MergeSegments([]*Segment{seg})
	postings := merged.livePostings("quick")
	if len(postings) != 1 || len(postings[0].Positions) != 2 {
		t.Errorf("livePostings(quick) after merge = %+v, want 2 positions", postings)
	}
}

func TestMergeSegments_EmptyInputYieldsEmptySegment(t *testing.T) {
	merged := MergeSegments(nil)
	if merged.LiveCount() != 0 {
		t.Errorf("LiveCount() = %d, want 0", merged.LiveCount())
	}
}
