// Package source opens byte streams for origins.
//
// Resolve performs a single read-side operation per call and never touches
// cache state. The animated classification for a fetch is decided here, once,
// and travels with the stream.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/unkn0wn-root/texcache/origin"
)

// Stream is an open byte stream for one origin.
type Stream struct {
	io.ReadCloser
	Animated bool   // authoritative animated hint for this fetch
	MIME     string // declared content type, if known
}

// Resolver turns origins into streams. The zero value resolves everything
// except remote URLs.
type Resolver struct {
	Fetcher Fetcher
}

// NewResolver returns a Resolver using f for remote origins.
// A nil f gets an HTTPFetcher with defaults.
func NewResolver(f Fetcher) *Resolver {
	if f == nil {
		f = &HTTPFetcher{}
	}
	return &Resolver{Fetcher: f}
}

// Resolve opens a stream for o. name is the logical texture name and takes
// part in the animated classification.
func (r *Resolver) Resolve(ctx context.Context, name string, o origin.Origin) (*Stream, error) {
	animated := origin.Animated(name, o)

	switch o.Kind() {
	case origin.KindFile, origin.KindPath:
		f, err := os.Open(o.Value())
		if err != nil {
			return nil, &Error{Kind: KindIO, Origin: o.String(), Err: err}
		}
		return &Stream{ReadCloser: f, Animated: animated}, nil

	case origin.KindBytes:
		raw := o.Value()
		if mime, payload, ok := origin.ParseDataURI(raw); ok {
			b, err := origin.DecodeBase64(payload)
			if err != nil {
				return nil, &Error{Kind: KindPayload, Origin: o.String(), Err: err}
			}
			return &Stream{
				ReadCloser: io.NopCloser(bytes.NewReader(b)),
				Animated:   animated || origin.IsAnimatedMIME(mime),
				MIME:       mime,
			}, nil
		}
		return &Stream{ReadCloser: io.NopCloser(bytes.NewReader([]byte(raw))), Animated: animated}, nil

	case origin.KindURL:
		if r.Fetcher == nil {
			return nil, &Error{Kind: KindNetwork, Origin: o.String(), Err: ErrNoFetcher}
		}
		resp, err := r.Fetcher.Fetch(ctx, o.Value())
		if err != nil {
			return nil, &Error{Kind: KindNetwork, Origin: o.String(), Err: err}
		}
		return &Stream{
			ReadCloser: resp.Body,
			Animated:   animated || origin.IsAnimatedMIME(resp.ContentType),
			MIME:       resp.ContentType,
		}, nil

	default:
		return nil, &Error{Kind: KindIO, Origin: o.String(), Err: ErrUnsupported}
	}
}

// ReadAll drains and closes s. If max > 0 and the stream is longer than max
// bytes, ErrTooLarge is returned.
func ReadAll(s *Stream, max int64) ([]byte, error) {
	defer s.Close()
	var r io.Reader = s
	if max > 0 {
		r = io.LimitReader(s, max+1)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if max > 0 && int64(len(b)) > max {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, max)
	}
	return b, nil
}
