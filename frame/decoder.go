package frame

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"
	"time"

	// registered image formats
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrCorrupt matches every DecodeError.
var ErrCorrupt = errors.New("frame: corrupt or unsupported image data")

// DecodeError reports bytes that could not be turned into a frame.
type DecodeError struct {
	Format string // "" when the format could not be detected
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("decode image: %v", e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error        { return e.Err }
func (e *DecodeError) Is(target error) bool { return target == ErrCorrupt }

// Header describes a decoded source before its frames are delivered.
type Header struct {
	Format   string
	Animated bool // decoded through the animated path
	Loop     bool // playback wraps after the last frame
	Frames   int  // number of frames that will follow
	Width    int
	Height   int
}

// Sink receives the result of a decode. Header is called once, before any
// Frame. Returning an error from either method stops decoding and that error is
// returned from Decode unchanged.
type Sink interface {
	Header(h Header) error
	Frame(f *Frame) error
}

// Decoder turns a byte stream into frames.
type Decoder interface {
	Decode(r io.Reader, animated bool, sink Sink) (Header, error)
}

// Std decodes PNG, JPEG, BMP and WebP as static images and GIF either as a
// static first frame or, when the animated hint is set, as a full sequence.
type Std struct {
	// DefaultDelay for animated frames without timing; 0 => DefaultDelay.
	DefaultDelay time.Duration
}

var _ Decoder = Std{}

var gifMagic = []byte("GIF8")

func (d Std) Decode(r io.Reader, animated bool, sink Sink) (Header, error) {
	br := bufio.NewReader(r)
	if animated {
		// the hint is best-effort: only take the animated path for real GIF data
		if head, err := br.Peek(len(gifMagic)); err == nil && bytes.Equal(head, gifMagic) {
			return d.decodeGIF(br, sink)
		}
	}
	return d.decodeStatic(br, sink)
}

func (d Std) decodeStatic(r io.Reader, sink Sink) (Header, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return Header{}, &DecodeError{Format: format, Err: err}
	}
	b := img.Bounds()
	h := Header{Format: format, Frames: 1, Width: b.Dx(), Height: b.Dy()}
	if err := sink.Header(h); err != nil {
		return h, err
	}
	return h, sink.Frame(New(img, 0))
}

func (d Std) decodeGIF(r io.Reader, sink Sink) (Header, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return Header{}, &DecodeError{Format: "gif", Err: err}
	}
	if len(g.Image) == 0 {
		return Header{}, &DecodeError{Format: "gif", Err: errors.New("no frames")}
	}
	def := d.DefaultDelay
	if def <= 0 {
		def = DefaultDelay
	}
	c := newCompositor(g)
	h := Header{
		Format:   "gif",
		Animated: true,
		Loop:     true, // LoopCount is -1 both for play-once and for a missing loop extension
		Frames:   len(g.Image),
		Width:    c.bounds.Dx(),
		Height:   c.bounds.Dy(),
	}
	if err := sink.Header(h); err != nil {
		return h, err
	}
	for i := range g.Image {
		delay := def
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		if err := sink.Frame(New(c.render(i), delay)); err != nil {
			return h, err
		}
	}
	return h, nil
}

// DecodeAll is a convenience wrapper collecting every frame.
func DecodeAll(d Decoder, r io.Reader, animated bool) (Header, []*Frame, error) {
	var c collector
	h, err := d.Decode(r, animated, &c)
	if err != nil {
		return h, nil, err
	}
	return h, c.frames, nil
}

type collector struct{ frames []*Frame }

func (c *collector) Header(h Header) error {
	c.frames = make([]*Frame, 0, h.Frames)
	return nil
}

func (c *collector) Frame(f *Frame) error {
	c.frames = append(c.frames, f)
	return nil
}
