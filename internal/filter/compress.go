package filter

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Deflate implements zlib compression.
type Deflate struct {
	level int
}

// NewDeflate returns a deflate filter; level follows compress/flate, with
// out-of-range values meaning the default level.
func NewDeflate(level int) *Deflate {
	if level < zlib.HuffmanOnly || level > zlib.BestCompression {
		level = zlib.DefaultCompression
	}
	return &Deflate{level: level}
}

func (f *Deflate) ID() uint16     { return IDDeflate }
func (f *Deflate) Optional() bool { return true }

func (f *Deflate) Encode(input []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, f.level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(input); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	return buf.Bytes(), nil
}

func (f *Deflate) Decode(input []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("zlib reader: %w", err)
	}
	defer r.Close()
	output, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib decompress: %w", err)
	}
	return output, nil
}

// Zstd implements Zstandard compression. One Zstd may be shared by many
// pipelines; EncodeAll and DecodeAll are safe for concurrent use.
type Zstd struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func NewZstd() (*Zstd, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &Zstd{enc: enc, dec: dec}, nil
}

func (f *Zstd) ID() uint16     { return IDZstd }
func (f *Zstd) Optional() bool { return true }

func (f *Zstd) Encode(input []byte) ([]byte, error) { return f.enc.EncodeAll(input, nil), nil }

func (f *Zstd) Decode(input []byte) ([]byte, error) {
	out, err := f.dec.DecodeAll(input, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return out, nil
}

// Close releases the encoder and decoder.
func (f *Zstd) Close() error {
	f.dec.Close()
	return f.enc.Close()
}
