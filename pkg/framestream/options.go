package framestream

import "github.com/klauspost/compress/zstd"

type options struct {
	crc      bool
	compress bool
	raw      bool
	level    zstd.EncoderLevel
}

// Option configures a Reader or Writer.
type Option func(*options)

// WithCRC appends a little-endian CRC32 (IEEE) of each frame after it on
// write, and verifies it on read.
func WithCRC() Option {
	return func(o *options) { o.crc = true }
}

// WithCompression wraps the written stream in zstd. Readers detect a zstd
// stream on their own, so this option only affects writers.
func WithCompression() Option {
	return func(o *options) { o.compress = true }
}

// WithRaw disables zstd detection on read, for raw streams whose first
// record happens to start with the zstd magic number.
func WithRaw() Option {
	return func(o *options) { o.raw = true }
}

// WithLevel sets the zstd encoder level and implies WithCompression.
func WithLevel(level zstd.EncoderLevel) Option {
	return func(o *options) {
		o.compress = true
		o.level = level
	}
}

func buildOptions(opts []Option) options {
	o := options{level: zstd.SpeedDefault}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
