package texcache

import (
	"errors"
	"fmt"
)

// Stage names the step of a fetch that failed.
type Stage string

const (
	StageResolve Stage = "resolve" // origin could not be opened
	StageRead    Stage = "read"    // stream failed or exceeded MaxSourceBytes
	StageDecode  Stage = "decode"  // bytes are not a usable image
	StagePanic   Stage = "panic"   // something panicked while handling the request
)

// FetchError is what the worker reports to Hooks and the Logger when a
// request fails. It never reaches Acquire callers.
type FetchError struct {
	Key    string
	Origin string // redacted, safe to log
	Stage  Stage
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %q from %s: %s: %v", e.Key, e.Origin, e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// InvalidateError reports a source cache purge that did not fully succeed.
// The in-memory entry is always gone by the time it is returned.
type InvalidateError struct {
	Key     string
	BumpErr error
	DelErr  error
}

func (e *InvalidateError) Error() string {
	switch {
	case e.BumpErr != nil && e.DelErr != nil:
		return fmt.Sprintf("invalidate %q: gen bump and delete failed: bump=%v; delete=%v",
			e.Key, e.BumpErr, e.DelErr)
	case e.BumpErr != nil:
		return fmt.Sprintf("invalidate %q: gen bump failed: %v", e.Key, e.BumpErr)
	case e.DelErr != nil:
		return fmt.Sprintf("invalidate %q: delete failed: %v", e.Key, e.DelErr)
	default:
		return fmt.Sprintf("invalidate %q: unknown error", e.Key)
	}
}

func (e *InvalidateError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.BumpErr != nil {
		errs = append(errs, e.BumpErr)
	}
	if e.DelErr != nil {
		errs = append(errs, e.DelErr)
	}
	return errs
}

var (
	// ErrClosed is returned by Invalidate after Close.
	ErrClosed = errors.New("texcache: closed")

	errStale       = errors.New("texcache: entry moved on")
	errNilResource = errors.New("texcache: realizer returned nil resource")
)
