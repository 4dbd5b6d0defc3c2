package blaze

import "testing"

// ═══════════════════════════════════════════════════════════════════════════════
// OPTIONS VALIDATION TESTS
// ═══════════════════════════════════════════════════════════════════════════════

func TestDefaultOptions_Validates(t *testing.T) {
	opts, err := DefaultOptions().validateAndFill()
	if err != nil {
		t.Fatalf("DefaultOptions() failed validation: %v", err)
	}
	if opts.Compression != CompressionNone {
		t.Errorf("Compression = %v, want CompressionNone", opts.Compression)
	}
	if opts.Logger == nil {
		t.Error("Logger defaulted to nil")
	}
}

func TestOptions_ZeroValueFillsDefaults(t *testing.T) {
	opts, err := (Options{}).validateAndFill()
	if err != nil {
		t.Fatalf("zero-value Options failed validation: %v", err)
	}
	if opts.BM25 != DefaultBM25Parameters() {
		t.Errorf("BM25 = %+v, want defaults filled in", opts.BM25)
	}
}

func TestOptions_RejectsUnknownCompressionMode(t *testing.T) {
	opts := DefaultOptions()
	opts.Compression = CompressionMode("lz4")
	if _, err := opts.validateAndFill(); err == nil {
		t.Error("validateAndFill accepted an unknown compression mode")
	}
}

func TestOptions_RejectsNegativeFlushEveryN(t *testing.T) {
	opts := DefaultOptions()
	opts.FlushEveryN = -1
	if _, err := opts.validateAndFill(); err == nil {
		t.Error("validateAndFill accepted a negative FlushEveryN")
	}
}
