package blaze

import (
	"math"
	"testing"
)

// ═══════════════════════════════════════════════════════════════════════════════
// BM25 SCORER TESTS (§4.9)
// ═══════════════════════════════════════════════════════════════════════════════

func TestIDF_RarerTermsScoreHigher(t *testing.T) {
	common := idf(1000, 500, 0.5)
	rare := idf(1000, 5, 0.5)
	if rare <= common {
		t.Errorf("idf(rare)=%f should exceed idf(common)=%f", rare, common)
	}
}

func TestNorm_HigherTFScoresHigher(t *testing.T) {
	params := DefaultBM25Parameters()
	low := norm(params, 1.0, 1, 100, 100)
	high := norm(params, 1.0, 10, 100, 100)
	if high <= low {
		t.Errorf("norm with tf=10 (%f) should exceed tf=1 (%f)", high, low)
	}
}

func TestNorm_LongerDocumentsPenalized(t *testing.T) {
	params := DefaultBM25Parameters()
	short := norm(params, 1.0, 1, 50, 100)
	long := norm(params, 1.0, 1, 500, 100)
	if long >= short {
		t.Errorf("norm for a longer-than-average doc (%f) should be lower than a shorter one (%f)", long, short)
	}
}

func TestDocumentScore_TakesMaxNotSum(t *testing.T) {
	params := DefaultBM25Parameters()
	dfOf := func(string) int { return 10 }
	w1 := Window{Meta: []posMeta{{term: "quick", tf: 1}}, Slop: 0}
	w2 := Window{Meta: []posMeta{{term: "quick", tf: 1}}, Slop: 0}

	single := documentScore([]Window{w1}, params, 100, 100, dfOf, 1000)
	double := documentScore([]Window{w1, w2}, params, 100, 100, dfOf, 1000)
	if math.Abs(single-double) > 1e-9 {
		t.Errorf("documentScore with two identical windows = %f, want equal to single-window score %f (max, not sum)", double, single)
	}
}

func TestWindowScore_FuzzyDistancePenalizesScore(t *testing.T) {
	params := DefaultBM25Parameters()
	dfOf := func(string) int { return 10 }
	exact := Window{Meta: []posMeta{{term: "quick", tf: 1, distance: 0}}, Slop: 0}
	fuzzy := Window{Meta: []posMeta{{term: "quack", tf: 1, distance: 2}}, Slop: 0}

	exactScore := windowScore(params, exact, 100, 100, dfOf, 1000)
	fuzzyScore := windowScore(params, fuzzy, 100, 100, dfOf, 1000)
	if fuzzyScore >= exactScore {
		t.Errorf("fuzzy match score (%f) should be penalized below exact match score (%f)", fuzzyScore, exactScore)
	}
}

func TestWindowScore_WiderSlopReducesScore(t *testing.T) {
	params := DefaultBM25Parameters()
	dfOf := func(string) int { return 10 }
	tight := Window{Meta: []posMeta{{term: "quick", tf: 1}}, Slop: 0}
	wide := Window{Meta: []posMeta{{term: "quick", tf: 1}}, Slop: 5}

	tightScore := windowScore(params, tight, 100, 100, dfOf, 1000)
	wideScore := windowScore(params, wide, 100, 100, dfOf, 1000)
	if wideScore >= tightScore {
		t.Errorf("wider-slop window score (%f) should be lower than tight window score (%f)", wideScore, tightScore)
	}
}
