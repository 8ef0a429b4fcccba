package texcache

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/unkn0wn-root/texcache/frame"
	pr "github.com/unkn0wn-root/texcache/provider"
)

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	green = color.RGBA{G: 0xff, A: 0xff}
	blue  = color.RGBA{B: 0xff, A: 0xff}
	gray  = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// ------------------------------
// provider
// ------------------------------

type memProvider struct {
	mu     sync.Mutex
	m      map[string][]byte
	closed bool
}

var _ pr.Provider = (*memProvider)(nil)

func newMemProvider() *memProvider { return &memProvider{m: make(map[string][]byte)} }

func (p *memProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.m[key]
	return v, ok, nil
}

func (p *memProvider) Set(_ context.Context, key string, value []byte, _ int64, _ time.Duration) (bool, error) {
	p.mu.Lock()
	p.m[key] = value
	p.mu.Unlock()
	return true, nil
}

func (p *memProvider) Del(_ context.Context, key string) error {
	p.mu.Lock()
	delete(p.m, key)
	p.mu.Unlock()
	return nil
}

func (p *memProvider) Close(_ context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

func (p *memProvider) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.m)
}

// ------------------------------
// clock, hooks, realizer
// ------------------------------

var epoch = time.Unix(1_700_000_000, 0)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) at(ms int) {
	c.mu.Lock()
	c.now = epoch.Add(time.Duration(ms) * time.Millisecond)
	c.mu.Unlock()
}

type recHooks struct {
	NopHooks

	mu      sync.Mutex
	queued  map[string]int
	failed  map[string]*FetchError
	stale   map[string]int
	ready   map[string]int
	healed  []string
	realize int
	outages int
}

func newRecHooks() *recHooks {
	return &recHooks{
		queued: make(map[string]int),
		failed: make(map[string]*FetchError),
		stale:  make(map[string]int),
		ready:  make(map[string]int),
	}
}

func (h *recHooks) FetchQueued(key string) {
	h.mu.Lock()
	h.queued[key]++
	h.mu.Unlock()
}

func (h *recHooks) FetchFailed(key string, _ Stage, err error) {
	h.mu.Lock()
	h.failed[key], _ = err.(*FetchError)
	h.mu.Unlock()
}

func (h *recHooks) StaleDiscarded(key string) {
	h.mu.Lock()
	h.stale[key]++
	h.mu.Unlock()
}

func (h *recHooks) FramesReady(key string, n int) {
	h.mu.Lock()
	h.ready[key] = n
	h.mu.Unlock()
}

func (h *recHooks) RealizeFailed(string, int, error) {
	h.mu.Lock()
	h.realize++
	h.mu.Unlock()
}

func (h *recHooks) SourceSelfHeal(_ string, reason string) {
	h.mu.Lock()
	h.healed = append(h.healed, reason)
	h.mu.Unlock()
}

func (h *recHooks) InvalidateOutage(string, error, error) {
	h.mu.Lock()
	h.outages++
	h.mu.Unlock()
}

func (h *recHooks) queuedFor(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.queued[key]
}

func (h *recHooks) staleFor(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stale[key]
}

func (h *recHooks) failure(key string) *FetchError {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.failed[key]
}

func (h *recHooks) healedWith(reason string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.healed {
		if r == reason {
			return true
		}
	}
	return false
}

type texture struct {
	name string
	img  image.Image
}

type countingRealizer struct {
	mu       sync.Mutex
	realized int
	released int
}

func (r *countingRealizer) Realize(name string, img image.Image) (any, error) {
	r.mu.Lock()
	r.realized++
	r.mu.Unlock()
	return &texture{name: name, img: img}, nil
}

func (r *countingRealizer) Release(any) {
	r.mu.Lock()
	r.released++
	r.mu.Unlock()
}

func (r *countingRealizer) counts() (realized, released int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.realized, r.released
}

func colorOf(t *testing.T, h Handle) color.RGBA {
	t.Helper()
	tex, ok := h.Resource.(*texture)
	if !ok {
		t.Fatalf("unexpected resource %T", h.Resource)
	}
	b := tex.img.Bounds()
	return color.RGBAModel.Convert(tex.img.At(b.Min.X, b.Min.Y)).(color.RGBA)
}

// ------------------------------
// fixture
// ------------------------------

type fixture struct {
	c     *cache
	hooks *recHooks
	clock *fakeClock
	tex   *countingRealizer
}

func newFixture(t *testing.T, mod func(*Options)) *fixture {
	t.Helper()
	f := &fixture{
		hooks: newRecHooks(),
		clock: &fakeClock{now: epoch},
		tex:   &countingRealizer{},
	}
	opts := Options{
		Hooks:    f.hooks,
		Clock:    f.clock.Now,
		Realizer: f.tex,
	}
	if mod != nil {
		mod(&opts)
	}
	cc, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.c = cc.(*cache)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = f.c.Close(ctx)
	})
	return f
}

func (f *fixture) waitState(t *testing.T, key string, want State) Info {
	t.Helper()
	var in Info
	waitFor(t, fmt.Sprintf("%s to be %s", key, want), func() bool {
		var ok bool
		in, ok = f.c.Stat(key)
		return ok && in.State == want
	})
	return in
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// ------------------------------
// images and decoders
// ------------------------------

func pngBytes(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

// gifBytes encodes one solid 2x2 frame per delay (in 1/100s), frame i
// painted with cols[i].
func gifBytes(t *testing.T, loopCount int, delays []int, cols ...color.RGBA) []byte {
	t.Helper()
	pal := color.Palette{color.Transparent}
	for _, c := range cols {
		pal = append(pal, c)
	}
	g := &gif.GIF{LoopCount: loopCount}
	for i, d := range delays {
		img := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)
		for p := range img.Pix {
			img.Pix[p] = uint8(i + 1)
		}
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, d)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("gif encode: %v", err)
	}
	return buf.Bytes()
}

func solid(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return img
}

// stepDecoder decodes payloads of the form "<tag>:<frames>". With a step
// channel it waits for one token before each frame, so tests control
// exactly when frames land.
type stepDecoder struct {
	step  chan struct{}
	loop  bool
	delay time.Duration
}

func (d stepDecoder) Decode(r io.Reader, _ bool, sink frame.Sink) (frame.Header, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return frame.Header{}, err
	}
	tag, count, _ := strings.Cut(string(b), ":")
	n, err := strconv.Atoi(count)
	if err != nil {
		return frame.Header{}, &frame.DecodeError{Format: "step", Err: err}
	}
	c := gray
	switch tag {
	case "A":
		c = red
	case "B":
		c = blue
	}

	h := frame.Header{Format: "step", Animated: n > 1, Loop: d.loop, Frames: n, Width: 1, Height: 1}
	if err := sink.Header(h); err != nil {
		return h, err
	}
	for i := 0; i < n; i++ {
		if d.step != nil {
			select {
			case <-d.step:
			case <-time.After(5 * time.Second):
				return h, fmt.Errorf("step decoder: no token for frame %d", i)
			}
		}
		if err := sink.Frame(frame.New(solid(c), d.delay)); err != nil {
			return h, err
		}
	}
	return h, nil
}

// panicDecoder panics on the payload "boom" and defers to Decoder otherwise.
type panicDecoder struct {
	frame.Decoder
}

func (d panicDecoder) Decode(r io.Reader, animated bool, sink frame.Sink) (frame.Header, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return frame.Header{}, err
	}
	if string(b) == "boom" {
		panic("decoder exploded")
	}
	return d.Decoder.Decode(bytes.NewReader(b), animated, sink)
}
