// Package codec serializes values for the source byte cache.
//
// Every codec here can carry a source.Blob; CBOR is the default.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
