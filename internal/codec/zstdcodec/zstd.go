// Package zstdcodec provides a zstd compression codec.
package zstdcodec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/discochess/insight/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements zstd compression. The zero value is not usable; call New.
type Codec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// New returns a new zstd codec. The encoder and decoder are created once
// and reused for every payload.
func New() (*Codec, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	return &Codec{encoder: enc, decoder: dec}, nil
}

// Name returns "zstd".
func (c *Codec) Name() string { return "zstd" }

// Encode compresses p with zstd.
func (c *Codec) Encode(p []byte) ([]byte, error) {
	return c.encoder.EncodeAll(p, make([]byte, 0, len(p)/2)), nil
}

// Decode decompresses zstd data.
func (c *Codec) Decode(p []byte) ([]byte, error) {
	data, err := c.decoder.DecodeAll(p, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}
	return data, nil
}

// Extension returns "zst".
func (c *Codec) Extension() string {
	return "zst"
}
