package frame

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"
	"time"
)

var testPalette = color.Palette{
	color.RGBA{0, 0, 0, 0},
	color.RGBA{255, 0, 0, 255},
	color.RGBA{0, 255, 0, 255},
	color.RGBA{0, 0, 255, 255},
}

func paletted(r image.Rectangle, idx uint8) *image.Paletted {
	p := image.NewPaletted(r, testPalette)
	for i := range p.Pix {
		p.Pix[i] = idx
	}
	return p
}

func encodeGIF(t *testing.T, g *gif.GIF) []byte {
	t.Helper()
	if g.Config.Width == 0 {
		g.Config = image.Config{ColorModel: testPalette, Width: 4, Height: 4}
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("EncodeAll: %v", err)
	}
	return buf.Bytes()
}

func threeFrameGIF(t *testing.T, delays []int, loop int) []byte {
	full := image.Rect(0, 0, 4, 4)
	return encodeGIF(t, &gif.GIF{
		Image:     []*image.Paletted{paletted(full, 1), paletted(full, 2), paletted(full, 3)},
		Delay:     delays,
		LoopCount: loop,
	})
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func TestDecodeStaticPNG(t *testing.T) {
	h, frames, err := DecodeAll(Std{}, bytes.NewReader(pngBytes(t)), false)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if h.Format != "png" || h.Animated || h.Loop || h.Frames != 1 || h.Width != 3 || h.Height != 2 {
		t.Fatalf("unexpected header: %+v", h)
	}
	if len(frames) != 1 || frames[0].Delay() != 0 {
		t.Fatalf("expected one frame with zero delay, got %d", len(frames))
	}
}

func TestDecodeAnimatedHintOnStaticData(t *testing.T) {
	h, frames, err := DecodeAll(Std{}, bytes.NewReader(pngBytes(t)), true)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if h.Animated || len(frames) != 1 {
		t.Fatalf("png with animated hint must decode as a single static frame: %+v", h)
	}
}

func TestDecodeGIFWithoutHintIsStatic(t *testing.T) {
	data := threeFrameGIF(t, []int{10, 5, 20}, 0)
	h, frames, err := DecodeAll(Std{}, bytes.NewReader(data), false)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if h.Format != "gif" || h.Animated || len(frames) != 1 {
		t.Fatalf("expected first frame only, got header %+v and %d frames", h, len(frames))
	}
	if got := rgba(frames[0].Image().At(0, 0)); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("first frame color = %v", got)
	}
}

func TestDecodeGIFSequence(t *testing.T) {
	data := threeFrameGIF(t, []int{10, 5, 20}, 0)
	h, frames, err := DecodeAll(Std{}, bytes.NewReader(data), true)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if !h.Animated || !h.Loop || h.Frames != 3 || h.Width != 4 || h.Height != 4 {
		t.Fatalf("unexpected header: %+v", h)
	}
	want := []time.Duration{100 * time.Millisecond, 50 * time.Millisecond, 200 * time.Millisecond}
	colors := []color.RGBA{{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255}}
	if len(frames) != len(want) {
		t.Fatalf("frames=%d want %d", len(frames), len(want))
	}
	for i, f := range frames {
		if f.Delay() != want[i] {
			t.Fatalf("frame %d delay=%v want %v", i, f.Delay(), want[i])
		}
		if got := rgba(f.Image().At(1, 1)); got != colors[i] {
			t.Fatalf("frame %d color=%v want %v", i, got, colors[i])
		}
	}
}

func TestDecodeGIFDefaultDelay(t *testing.T) {
	data := threeFrameGIF(t, []int{0, 0, 7}, 0)

	_, frames, err := DecodeAll(Std{}, bytes.NewReader(data), true)
	if err != nil {
		t.Fatal(err)
	}
	if frames[0].Delay() != DefaultDelay || frames[2].Delay() != 70*time.Millisecond {
		t.Fatalf("delays = %v, %v", frames[0].Delay(), frames[2].Delay())
	}

	_, frames, err = DecodeAll(Std{DefaultDelay: 40 * time.Millisecond}, bytes.NewReader(data), true)
	if err != nil {
		t.Fatal(err)
	}
	if frames[1].Delay() != 40*time.Millisecond {
		t.Fatalf("custom default delay not applied: %v", frames[1].Delay())
	}
}

func TestDecodeGIFWithoutLoopExtensionLoops(t *testing.T) {
	// LoopCount -1 is also what image/gif reports when the loop block is absent
	data := threeFrameGIF(t, []int{1, 1, 1}, -1)
	h, _, err := DecodeAll(Std{}, bytes.NewReader(data), true)
	if err != nil {
		t.Fatal(err)
	}
	if !h.Animated || !h.Loop {
		t.Fatalf("animated GIF must loop: %+v", h)
	}
}

func TestDecodeGIFDisposal(t *testing.T) {
	data := encodeGIF(t, &gif.GIF{
		Image: []*image.Paletted{
			paletted(image.Rect(0, 0, 4, 4), 1), // red background
			paletted(image.Rect(0, 0, 2, 2), 2), // green patch, cleared afterwards
			paletted(image.Rect(2, 2, 4, 4), 3), // blue patch
		},
		Delay:     []int{1, 1, 1},
		Disposal:  []byte{gif.DisposalNone, gif.DisposalBackground, gif.DisposalNone},
		LoopCount: 0,
	})
	_, frames, err := DecodeAll(Std{}, bytes.NewReader(data), true)
	if err != nil {
		t.Fatal(err)
	}
	if got := rgba(frames[1].Image().At(0, 0)); got != (color.RGBA{0, 255, 0, 255}) {
		t.Fatalf("frame 1 (0,0) = %v, want green", got)
	}
	if got := rgba(frames[1].Image().At(3, 3)); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("frame 1 (3,3) = %v, want red carried over", got)
	}
	if got := rgba(frames[2].Image().At(0, 0)); got.A != 0 {
		t.Fatalf("frame 2 (0,0) = %v, want cleared by background disposal", got)
	}
	if got := rgba(frames[2].Image().At(3, 0)); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("frame 2 (3,0) = %v, want red", got)
	}
	if got := rgba(frames[2].Image().At(3, 3)); got != (color.RGBA{0, 0, 255, 255}) {
		t.Fatalf("frame 2 (3,3) = %v, want blue", got)
	}
}

func TestDecodeCorrupt(t *testing.T) {
	for _, tc := range []struct {
		data     []byte
		animated bool
	}{
		{[]byte("not an image"), false},
		{[]byte("GIF89a\x00\x01garbage"), true},
	} {
		_, frames, err := DecodeAll(Std{}, bytes.NewReader(tc.data), tc.animated)
		if !errors.Is(err, ErrCorrupt) {
			t.Fatalf("expected ErrCorrupt for %q, got %v", tc.data, err)
		}
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("expected *DecodeError, got %T", err)
		}
		if frames != nil {
			t.Fatalf("no frames may be produced for corrupt input")
		}
	}
}

type stopAfter struct {
	n      int
	got    int
	header Header
	err    error
}

func (s *stopAfter) Header(h Header) error { s.header = h; return nil }
func (s *stopAfter) Frame(*Frame) error {
	s.got++
	if s.got >= s.n {
		return s.err
	}
	return nil
}

func TestSinkErrorStopsDecoding(t *testing.T) {
	stop := errors.New("stop")
	s := &stopAfter{n: 2, err: stop}
	_, err := Std{}.Decode(bytes.NewReader(threeFrameGIF(t, []int{1, 1, 1}, 0)), true, s)
	if !errors.Is(err, stop) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if s.got != 2 || s.header.Frames != 3 {
		t.Fatalf("got=%d header=%+v", s.got, s.header)
	}
}

func TestFrameDue(t *testing.T) {
	t0 := time.Unix(1000, 0)
	f := New(image.NewRGBA(image.Rect(0, 0, 1, 1)), 100*time.Millisecond)
	if f.Due(t0) {
		t.Fatalf("unshown frame must not be due")
	}
	f.Show(t0)
	if f.Due(t0.Add(99 * time.Millisecond)) {
		t.Fatalf("due too early")
	}
	if !f.Due(t0.Add(100 * time.Millisecond)) {
		t.Fatalf("should be due after its delay")
	}

	static := New(image.NewRGBA(image.Rect(0, 0, 1, 1)), 0)
	static.Show(t0)
	if static.Due(t0.Add(time.Hour)) {
		t.Fatalf("zero-delay frame must never be due")
	}
}
