package codec

import "fmt"

// Limit rejects records larger than MaxDecode bytes before they reach Inner.
// Useful when the provider is shared (Redis) and cannot be fully trusted.
// MaxDecode <= 0 disables the check. Encode is forwarded unchanged.
type Limit[V any] struct {
	Inner     Codec[V]
	MaxDecode int
}

func (c Limit[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }
func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("record too large: %d > %d", len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
