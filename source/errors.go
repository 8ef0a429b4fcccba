package source

import (
	"errors"
	"fmt"
)

// ErrorKind classifies resolve failures.
type ErrorKind uint8

const (
	KindIO      ErrorKind = iota + 1 // local file could not be opened or read
	KindNetwork                      // remote fetch failed
	KindPayload                      // inline payload could not be decoded
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindNetwork:
		return "network"
	case KindPayload:
		return "payload"
	default:
		return "unknown"
	}
}

var (
	ErrUnsupported = errors.New("source: unsupported origin")
	ErrTooLarge    = errors.New("source: payload exceeds size limit")
	ErrNoFetcher   = errors.New("source: no fetcher configured for remote origin")
)

// Error wraps a resolve failure with the origin it happened for.
// Origin is the redacted origin string, safe to log.
type Error struct {
	Kind   ErrorKind
	Origin string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("resolve %s (%s): %v", e.Origin, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// StatusError is returned by HTTPFetcher for non-2xx responses.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}
