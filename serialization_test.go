package blaze

import "testing"

// ═══════════════════════════════════════════════════════════════════════════════
// SEGMENT SERIALIZATION TESTS (§6)
// ═══════════════════════════════════════════════════════════════════════════════

func buildSampleSegment() *Segment {
	seg := NewSegment()
	_, g1, _ := TokenizeGroup("quick brown fox")
	_, g2, _ := TokenizeGroup("quick brown dog")
	seg.AddDoc("01A", "quick brown fox", 3, g1)
	seg.AddDoc("01B", "quick brown dog", 3, g2)
	seg.DeleteDoc("01A")
	return seg
}

func TestEncodeDecodeSegment_RoundTrips(t *testing.T) {
	seg := buildSampleSegment()
	data, err := EncodeSegment(seg, CompressionNone)
	if err != nil {
		t.Fatalf("EncodeSegment: %v", err)
	}
	got, err := DecodeSegment(data)
	if err != nil {
		t.Fatalf("DecodeSegment: %v", err)
	}

	if got.IsLive("01A") {
		t.Error("01A should still be tombstoned after round trip")
	}
	if !got.IsLive("01B") {
		t.Error("01B should be live after round trip")
	}
	entry, ok := got.Get("01B")
	if !ok || entry.Text != "quick brown dog" {
		t.Errorf("Get(01B) = %+v, %v", entry, ok)
	}
	if got.DF("quick") != 1 {
		t.Errorf("DF(quick) = %d, want 1 (only 01B live)", got.DF("quick"))
	}
}

func TestEncodeDecodeSegment_SnappyRoundTrips(t *testing.T) {
	seg := buildSampleSegment()
	data, err := EncodeSegment(seg, CompressionSnappy)
	if err != nil {
		t.Fatalf("EncodeSegment: %v", err)
	}
	got, err := DecodeSegment(data)
	if err != nil {
		t.Fatalf("DecodeSegment: %v", err)
	}
	if !got.IsLive("01B") {
		t.Error("01B should be live after snappy round trip")
	}
}

func TestDecodeSegment_RejectsBadMagic(t *testing.T) {
	_, err := DecodeSegment([]byte("not a segment file"))
	if err == nil {
		t.Fatal("DecodeSegment with bad magic returned nil error")
	}
}

func TestEncodeDecodeMeta_RoundTrips(t *testing.T) {
	m := metaFile{Segments: []string{"00000000.seg", "00000001.seg"}, Compression: CompressionSnappy, BM25: BM25Parameters{K1: 1.2, B: 0.8}}
	got, err := decodeMeta(encodeMeta(m))
	if err != nil {
		t.Fatalf("decodeMeta: %v", err)
	}
	if got.Compression != m.Compression || got.BM25 != m.BM25 || len(got.Segments) != 2 {
		t.Errorf("decodeMeta = %+v, want %+v", got, m)
	}
}
