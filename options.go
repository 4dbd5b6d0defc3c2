package blaze

import (
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
)

var optionsValidate = validator.New()

// CompressionMode selects whether segment sections and write-log payloads
// are snappy-compressed on disk.
type CompressionMode string

const (
	CompressionNone   CompressionMode = "none"
	CompressionSnappy CompressionMode = "snappy"
)

// Options configures an Index at Open time. Unlike a networked service, an
// embedded index takes its configuration as Go values from the caller
// rather than from a config file, so this holds plain struct fields
// validated with struct tags rather than a koanf/viper-style loader.
type Options struct {
	// BM25 holds the k1/b ranking constants (§4.9).
	BM25 BM25Parameters `validate:"required"`

	// Compression selects the on-disk payload compression for segments
	// and the write log (§4.6, §6).
	Compression CompressionMode `validate:"required,oneof=none snappy"`

	// FlushEveryN auto-flushes the mutable segment once an Add brings its
	// live document count to this many. 0 disables automatic flushing;
	// callers flush explicitly.
	FlushEveryN int `validate:"min=0"`

	// Logger receives structured diagnostics. Defaults to slog.Default().
	Logger *slog.Logger `validate:"-"`
}

// DefaultOptions returns the Options the teacher's tests and the spec's
// scenarios assume: default BM25 constants, no compression, no automatic
// flush, default logger.
func DefaultOptions() Options {
	return Options{
		BM25:        DefaultBM25Parameters(),
		Compression: CompressionNone,
		FlushEveryN: 0,
		Logger:      slog.Default(),
	}
}

func (o Options) validateAndFill() (Options, error) {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Compression == "" {
		o.Compression = CompressionNone
	}
	if o.BM25 == (BM25Parameters{}) {
		o.BM25 = DefaultBM25Parameters()
	}
	if err := optionsValidate.Struct(o); err != nil {
		return o, fmt.Errorf("validate options: %w", err)
	}
	return o, nil
}
