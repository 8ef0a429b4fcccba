// Package origin describes where an image's bytes come from.
//
// An Origin is a small comparable value. Two requests for the same logical
// texture name are considered to want the same image iff their origins are ==.
package origin

import (
	"net/url"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// Kind tags the variant held by an Origin.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindFile         // an already resolved local file
	KindPath         // a path string supplied by the user
	KindBytes        // raw image bytes or a base64 data URI
	KindURL          // a remote http(s) resource
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindPath:
		return "path"
	case KindBytes:
		return "bytes"
	case KindURL:
		return "url"
	default:
		return "unknown"
	}
}

// Origin is a tagged union over the supported sources. The zero value is
// KindUnknown and never resolves.
type Origin struct {
	kind  Kind
	value string
}

// File returns an origin for a local file.
func File(p string) Origin { return Origin{kind: KindFile, value: filepath.Clean(p)} }

// Path returns an origin for a user supplied path string. The string is kept
// verbatim.
func Path(p string) Origin { return Origin{kind: KindPath, value: p} }

// Bytes returns an origin for an in-memory payload. b is copied.
func Bytes(b []byte) Origin { return Origin{kind: KindBytes, value: string(b)} }

// Payload returns an origin for a string payload, usually a data URI.
func Payload(s string) Origin { return Origin{kind: KindBytes, value: s} }

// URL returns an origin for a remote resource.
func URL(u string) Origin { return Origin{kind: KindURL, value: u} }

// Parse classifies a raw string:
//
//	http://..., https://...      -> URL
//	data:<mime>;base64,<payload> -> Bytes
//	file://...                   -> File
//	anything else                -> Path
func Parse(s string) Origin {
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "http"):
		return URL(s)
	case IsDataURI(s):
		return Payload(s)
	case strings.HasPrefix(lower, "file://"):
		if u, err := url.Parse(s); err == nil && u.Path != "" {
			return File(u.Path)
		}
		return File(s[len("file://"):])
	default:
		return Path(s)
	}
}

func (o Origin) Kind() Kind    { return o.kind }
func (o Origin) Value() string { return o.value }
func (o Origin) IsZero() bool  { return o.kind == KindUnknown }

// Ext returns the lower-cased extension of the file or URL path, "" for
// payloads.
func (o Origin) Ext() string {
	switch o.kind {
	case KindFile, KindPath:
		return strings.ToLower(filepath.Ext(o.value))
	case KindURL:
		if u, err := url.Parse(o.value); err == nil {
			return strings.ToLower(path.Ext(u.Path))
		}
		return strings.ToLower(path.Ext(o.value))
	default:
		return ""
	}
}

// String is safe to log: payload contents are never printed.
func (o Origin) String() string {
	if o.kind == KindBytes {
		if mime, _, ok := ParseDataURI(o.value); ok {
			return "bytes(" + mime + ", " + strconv.Itoa(len(o.value)) + "B)"
		}
		return "bytes(" + strconv.Itoa(len(o.value)) + "B)"
	}
	return o.kind.String() + ":" + o.value
}

// Fingerprint is a stable identity string suitable for hashing into storage
// keys.
func (o Origin) Fingerprint() string {
	return strconv.Itoa(int(o.kind)) + "\x00" + o.value
}
