package blaze

import (
	"reflect"
	"testing"
)

// ═══════════════════════════════════════════════════════════════════════════════
// TOKENIZATION TESTS
// ═══════════════════════════════════════════════════════════════════════════════

func TestTokenizeGroup_Basic(t *testing.T) {
	n, groups, order := TokenizeGroup("the quick brown fox jumps")

	if n != 4 {
		t.Errorf("N = %d, want 4 (stop word 'the' dropped)", n)
	}
	want := []string{"quick", "brown", "fox", "jump"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	if got := groups["jump"]; !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("jump positions = %v, want [3]", got)
	}
}

func TestTokenizeGroup_DropsStopwords(t *testing.T) {
	_, groups, _ := TokenizeGroup("a the and of in")
	if len(groups) != 0 {
		t.Errorf("expected all-stopword doc to produce no terms, got %v", groups)
	}
}

func TestTokenizeGroup_PositionsAreDenseAfterFiltering(t *testing.T) {
	_, groups, _ := TokenizeGroup("quick and quick")
	if got := groups["quick"]; !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("positions = %v, want [0 1] (the dropped 'and' leaves no gap)", got)
	}
}

func TestTokenizeGroup_StripsPunctuation(t *testing.T) {
	_, groups, _ := TokenizeGroup("well-known, state-of-the-art!")
	for _, term := range []string{"well", "known", "state", "art"} {
		if _, ok := groups[term]; !ok {
			t.Errorf("expected term %q after punctuation stripping, groups=%v", term, groups)
		}
	}
}

func TestAnalyze_ExpandsPositionsBackToTokenStream(t *testing.T) {
	got := Analyze("quick quick brown")
	want := []string{"quick", "quick", "brown"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Analyze = %v, want %v", got, want)
	}
}

func TestStemToken_DoesNotDropStopwords(t *testing.T) {
	if got := stemToken("the"); got != "the" {
		t.Errorf("stemToken(%q) = %q, want unchanged stop word", "the", got)
	}
}

func TestStemToken_MatchesIndexingStem(t *testing.T) {
	_, groups, _ := TokenizeGroup("running")
	for term := range groups {
		if got := stemToken("running"); got != term {
			t.Errorf("stemToken(\"running\") = %q, want %q to match indexing pipeline", got, term)
		}
	}
}
