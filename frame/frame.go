// Package frame decodes image bytes into display frames.
//
// A static image yields exactly one Frame with a zero delay. An animated
// (GIF) source yields its frames in display order, each composited onto the
// logical screen and carrying its own delay. Frames are delivered to a Sink as
// soon as they are materialized so a consumer can start playing before the
// whole sequence is ready.
package frame

import (
	"image"
	"time"
)

// DefaultDelay is used for animated frames that do not declare a delay.
const DefaultDelay = 100 * time.Millisecond

// Frame is one decoded raster image and how long it stays on screen.
// Everything except the shown-at timestamp is immutable after New; the
// timestamp is owned by whoever plays the frame and must be guarded by them.
type Frame struct {
	img     image.Image
	delay   time.Duration
	shownAt time.Time
}

// New returns a frame. delay <= 0 means the frame never advances on its own.
func New(img image.Image, delay time.Duration) *Frame {
	if delay < 0 {
		delay = 0
	}
	return &Frame{img: img, delay: delay}
}

func (f *Frame) Image() image.Image      { return f.img }
func (f *Frame) Delay() time.Duration    { return f.delay }
func (f *Frame) Bounds() image.Rectangle { return f.img.Bounds() }
func (f *Frame) ShownAt() time.Time      { return f.shownAt }

// Show stamps the moment the frame became current.
func (f *Frame) Show(at time.Time) { f.shownAt = at }

// Shown reports whether the frame has been stamped since it was created.
func (f *Frame) Shown() bool { return !f.shownAt.IsZero() }

// Due reports whether the frame has been on screen for its whole delay.
// Frames that were never shown and frames without a delay are never due.
func (f *Frame) Due(now time.Time) bool {
	if f.delay <= 0 || f.shownAt.IsZero() {
		return false
	}
	return now.Sub(f.shownAt) >= f.delay
}
