package source

import "time"

// Blob is the fetched payload of one origin, as kept by the source byte
// cache. Tags cover the json, msgpack and cbor codecs.
type Blob struct {
	Data      []byte    `json:"data" msgpack:"data" cbor:"1,keyasint"`
	MIME      string    `json:"mime,omitempty" msgpack:"mime,omitempty" cbor:"2,keyasint,omitempty"`
	Animated  bool      `json:"animated,omitempty" msgpack:"animated,omitempty" cbor:"3,keyasint,omitempty"`
	FetchedAt time.Time `json:"fetched_at" msgpack:"fetched_at" cbor:"4,keyasint"`
}
