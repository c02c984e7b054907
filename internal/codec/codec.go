// Package codec provides compression for cached payloads.
package codec

// Codec encodes payloads before they are written to the cache and decodes
// them on read. Decode(Encode(p)) must return p unchanged.
type Codec interface {
	// Name identifies the codec in configuration ("none", "gzip", "zstd").
	Name() string
	// Encode compresses p.
	Encode(p []byte) ([]byte, error)
	// Decode reverses Encode.
	Decode(p []byte) ([]byte, error)
	// Extension returns the file extension without dot (e.g., "zst", "gz").
	// Returns empty string for no compression.
	Extension() string
}
