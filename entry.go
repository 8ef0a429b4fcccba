package texcache

import (
	"image"
	"sync"
	"time"

	"github.com/unkn0wn-root/texcache/frame"
	"github.com/unkn0wn-root/texcache/origin"
)

// State is where an entry is in its lifecycle.
type State uint8

const (
	Empty      State = iota // no frame decoded yet (or the fetch failed)
	Populating              // frames are showing, the worker may append more
	Ready                   // the worker finished; the frame set is final
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Populating:
		return "populating"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Info is a point-in-time view of one entry.
type Info struct {
	Origin   origin.Origin
	State    State
	Frames   int
	Index    int
	Loop     bool
	Animated bool
	Size     image.Point     // bounds of the first frame
	Realized int             // frames with a live resource
	Delays   []time.Duration // per frame, in display order
}

type entry struct {
	mu sync.Mutex

	origin   origin.Origin
	gen      uint64
	frames   []*frame.Frame
	realized []Handle // parallel to frames; zero Handle = not realized yet
	index    int
	loop     bool
	animated bool
	complete bool
	removed  bool
}

// request is one unit of work for the worker.
type request struct {
	key    string
	origin origin.Origin
	gen    uint64
}

// accepts reports whether results for r may still land in e.
// Caller holds e.mu.
func (e *entry) accepts(r request) bool {
	return !e.removed && e.gen == r.gen && e.origin == r.origin
}

// reset clears e for a new origin and returns the realized resources that
// must be released. Caller holds e.mu.
func (e *entry) reset(o origin.Origin, gen uint64) []Handle {
	old := e.realized
	e.origin = o
	e.gen = gen
	e.frames = nil
	e.realized = nil
	e.index = 0
	e.loop = false
	e.animated = false
	e.complete = false
	return old
}

func (e *entry) state() State {
	switch {
	case len(e.frames) == 0:
		return Empty
	case e.complete:
		return Ready
	default:
		return Populating
	}
}

func (e *entry) info() Info {
	in := Info{
		Origin:   e.origin,
		State:    e.state(),
		Frames:   len(e.frames),
		Index:    e.index,
		Loop:     e.loop,
		Animated: e.animated,
		Delays:   make([]time.Duration, len(e.frames)),
	}
	if len(e.frames) > 0 {
		in.Size = e.frames[0].Bounds().Size()
	}
	for i, f := range e.frames {
		in.Delays[i] = f.Delay()
		if e.realized[i].Valid() {
			in.Realized++
		}
	}
	return in
}

// advance moves playback forward if the current frame has been on screen
// for its delay. The first display of a frame only stamps it. Playback never
// runs past the last decoded frame: it holds there while the worker is still
// appending, then wraps when looping or holds for good.
// Caller holds e.mu and has checked len(e.frames) > 0.
func (e *entry) advance(now time.Time) {
	cur := e.frames[e.index]
	if !cur.Shown() {
		cur.Show(now)
		return
	}
	if !cur.Due(now) {
		return
	}
	switch {
	case e.index+1 < len(e.frames):
		e.index++
	case e.loop && e.complete:
		e.index = 0
	default:
		return
	}
	e.frames[e.index].Show(now)
}

// store maps keys to entries. The map lock only guards membership; entry
// fields are guarded by each entry's own lock.
type store struct {
	mu sync.RWMutex
	m  map[string]*entry
}

func newStore() *store { return &store{m: make(map[string]*entry)} }

func (s *store) get(key string) *entry {
	s.mu.RLock()
	e := s.m[key]
	s.mu.RUnlock()
	return e
}

// getOrCreate returns the entry for key, linking a fresh one (gen 0) if
// absent. Whoever first locks a gen-0 entry owns its reset.
func (s *store) getOrCreate(key string) *entry {
	if e := s.get(key); e != nil {
		return e
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.m[key]; e != nil {
		return e
	}
	e := &entry{}
	s.m[key] = e
	return e
}

// remove unlinks key and returns its entry, nil if absent.
func (s *store) remove(key string) *entry {
	s.mu.Lock()
	e := s.m[key]
	delete(s.m, key)
	s.mu.Unlock()
	return e
}

// drain unlinks every entry.
func (s *store) drain() []*entry {
	s.mu.Lock()
	out := make([]*entry, 0, len(s.m))
	for k, e := range s.m {
		out = append(out, e)
		delete(s.m, k)
	}
	s.mu.Unlock()
	return out
}
