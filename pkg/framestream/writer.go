// Package framestream reads and writes sequences of fixed-size binmap
// records. A stream is the concatenation of frames; each frame is exactly
// one record's bytes, optionally followed by a 4-byte CRC32 trailer. The
// whole stream may be zstd compressed.
package framestream

import (
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/rawbytedev/binmap"
)

// ErrSchemaMismatch is returned when a record's kind differs from the
// stream's.
var ErrSchemaMismatch = errors.New("framestream: record kind does not match stream")

// ErrChecksum is returned when a frame's CRC trailer does not match.
var ErrChecksum = errors.New("framestream: crc mismatch")

const crcSize = 4

// Writer appends record frames to an io.Writer.
type Writer struct {
	schema *binmap.Schema
	opts   options
	w      io.Writer
	enc    *zstd.Encoder
	frame  []byte
	frames int
}

// NewWriter returns a Writer of records of kind s.
func NewWriter(w io.Writer, s *binmap.Schema, opts ...Option) (*Writer, error) {
	o := buildOptions(opts)
	fw := &Writer{schema: s, opts: o, w: w}
	if o.compress {
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(o.level))
		if err != nil {
			return nil, errors.Wrap(err, "framestream: zstd encoder")
		}
		fw.enc, fw.w = enc, enc
	}
	size := s.Size()
	if o.crc {
		size += crcSize
	}
	fw.frame = make([]byte, size)
	return fw, nil
}

// Write appends one frame.
func (w *Writer) Write(r *binmap.Record) error {
	if r.Schema() != w.schema {
		return errors.Wrapf(ErrSchemaMismatch, "got %s, want %s", r.Schema().Name(), w.schema.Name())
	}
	n := copy(w.frame, r.Bytes())
	if w.opts.crc {
		binary.LittleEndian.PutUint32(w.frame[n:], crc32.ChecksumIEEE(w.frame[:n]))
	}
	if _, err := w.w.Write(w.frame); err != nil {
		return errors.Wrapf(err, "framestream: write frame %d", w.frames)
	}
	w.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int { return w.frames }

// Close flushes the compressor, if any. It does not close the underlying
// writer.
func (w *Writer) Close() error {
	if w.enc == nil {
		return nil
	}
	return errors.Wrap(w.enc.Close(), "framestream: close zstd encoder")
}
