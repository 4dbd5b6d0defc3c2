// BM25 Scorer and Top-k (§4.9).
package blaze

import "math"

// fuzzyPenaltyBase is φ, the per-match fuzzy-distance penalty base.
const fuzzyPenaltyBase = 0.8

// idf computes ln(((N - df + eps) / (df + eps)) + 1).
func idf(n, df int, eps float64) float64 {
	return math.Log(((float64(n)-float64(df)+eps)/(float64(df)+eps))+1)
}

// norm computes the length-normalized BM25 term weight for one posting.
func norm(params BM25Parameters, idfT float64, tf, docLen int, avgDocLen float64) float64 {
	k1, b := params.K1, params.B
	return idfT * (float64(tf) * (k1 + 1)) / (float64(tf) + k1*(1-b+b*float64(docLen)/avgDocLen))
}

// windowScore computes one window's contribution: the sum of per-position
// norm(d,term,tf)*φ^dist, divided by (slop+1) (§4.9).
func windowScore(params BM25Parameters, w Window, docLen int, avgDocLen float64, dfOf func(term string) int, n int) float64 {
	sum := 0.0
	for _, m := range w.Meta {
		df := dfOf(m.term)
		if df == 0 {
			continue
		}
		sum += norm(params, idf(n, df, 0.5), m.tf, docLen, avgDocLen) * math.Pow(fuzzyPenaltyBase, float64(m.distance))
	}
	return sum / float64(w.Slop+1)
}

// documentScore is the max score across every emitted window for a
// document — multiple matches don't stack (§4.9, §9 design note).
func documentScore(windows []Window, params BM25Parameters, docLen int, avgDocLen float64, dfOf func(term string) int, n int) float64 {
	best := 0.0
	for _, w := range windows {
		s := windowScore(params, w, docLen, avgDocLen, dfOf, n)
		if s > best {
			best = s
		}
	}
	return best
}

// upperBoundContribution bounds one token bundle's best possible score
// contribution at a candidate document, before the (expensive) proximity
// match runs — the §4.9 early-exit shortcut's per-token term.
func upperBoundContribution(hits []bundleHit, params BM25Parameters, docLen int, avgDocLen float64, dfOf func(term string) int, n int) float64 {
	best := 0.0
	for _, h := range hits {
		df := dfOf(h.term)
		if df == 0 {
			continue
		}
		s := norm(params, idf(n, df, 0.5), h.posting.TF, docLen, avgDocLen) * math.Pow(fuzzyPenaltyBase, float64(h.distance))
		if s > best {
			best = s
		}
	}
	return best
}
