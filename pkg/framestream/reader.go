package framestream

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/rawbytedev/binmap"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Reader yields records of one kind from a frame stream.
type Reader struct {
	schema *binmap.Schema
	opts   options
	r      io.Reader
	dec    *zstd.Decoder
	frame  []byte
	frames int
}

// NewReader returns a Reader of records of kind s. Compressed streams are
// detected by the zstd magic number unless WithRaw is given.
func NewReader(r io.Reader, s *binmap.Schema, opts ...Option) (*Reader, error) {
	o := buildOptions(opts)
	br := bufio.NewReader(r)
	fr := &Reader{schema: s, opts: o, r: br}
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "framestream: read stream header")
	}
	if !o.raw && bytes.Equal(head, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "framestream: zstd decoder")
		}
		fr.dec, fr.r = dec, dec
	}
	size := s.Size()
	if o.crc {
		size += crcSize
	}
	fr.frame = make([]byte, size)
	return fr, nil
}

// Next returns the next record. It returns io.EOF at a clean end of stream
// and io.ErrUnexpectedEOF when the stream ends inside a frame. A stream of
// zero-width frames holds no records.
func (r *Reader) Next() (*binmap.Record, error) {
	if len(r.frame) == 0 {
		return nil, io.EOF
	}
	if _, err := io.ReadFull(r.r, r.frame); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, err
		}
		return nil, errors.Wrapf(err, "framestream: read frame %d", r.frames)
	}
	n := r.schema.Size()
	if r.opts.crc {
		want := binary.LittleEndian.Uint32(r.frame[n:])
		if crc32.ChecksumIEEE(r.frame[:n]) != want {
			return nil, errors.Wrapf(ErrChecksum, "frame %d", r.frames)
		}
	}
	rec, err := r.schema.FromBytes(r.frame[:n])
	if err != nil {
		return nil, errors.Wrapf(err, "framestream: frame %d", r.frames)
	}
	r.frames++
	return rec, nil
}

// All reads records until the end of the stream.
func (r *Reader) All() ([]*binmap.Record, error) {
	var out []*binmap.Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// Frames returns the number of frames read so far.
func (r *Reader) Frames() int { return r.frames }

// Compressed reports whether the stream was detected as zstd.
func (r *Reader) Compressed() bool { return r.dec != nil }

// Close releases the decompressor, if any.
func (r *Reader) Close() error {
	if r.dec != nil {
		r.dec.Close()
	}
	return nil
}
