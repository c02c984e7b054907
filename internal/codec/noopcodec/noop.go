// Package noopcodec provides a pass-through codec that stores payloads as-is.
package noopcodec

import "github.com/discochess/insight/internal/codec"

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec stores payloads uncompressed, so cache files stay plain JSON.
type Codec struct{}

// New returns a new no-op codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "none".
func (c *Codec) Name() string { return "none" }

// Encode returns a copy of p.
func (c *Codec) Encode(p []byte) ([]byte, error) {
	return append([]byte(nil), p...), nil
}

// Decode returns a copy of p.
func (c *Codec) Decode(p []byte) ([]byte, error) {
	return append([]byte(nil), p...), nil
}

// Extension returns empty string.
func (c *Codec) Extension() string {
	return ""
}
