package texcache

import (
	"image"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

// Handle is a displayable frame. The zero value is the invalid sentinel
// returned while nothing can be shown.
type Handle struct {
	Name     string // lower-cased key, "_<index>" appended for animated entries
	Index    int    // frame index within the entry
	Resource any    // whatever the Realizer produced
}

// Valid reports whether h refers to a realized frame.
func (h Handle) Valid() bool { return h.Resource != nil }

func handleName(key string, index int, animated bool) string {
	name := strings.ToLower(key)
	if animated {
		name += "_" + strconv.Itoa(index)
	}
	return name
}

// Realizer turns a decoded frame into a backend resource (a GPU texture,
// a terminal bitmap, ...). It runs at most once per frame, on the goroutine
// calling Acquire and with the entry locked: it must not call back into the
// Cache.
type Realizer interface {
	Realize(name string, img image.Image) (any, error)
}

// Releaser is implemented by Realizers whose resources need freeing. Release
// is called when an entry is reset, invalidated, or the cache is closed.
type Releaser interface {
	Release(resource any)
}

type RealizerFunc func(name string, img image.Image) (any, error)

func (f RealizerFunc) Realize(name string, img image.Image) (any, error) { return f(name, img) }

// RGBARealizer produces *image.RGBA resources. The resource is always a copy;
// decoded frames stay private to the cache.
type RGBARealizer struct{}

func (RGBARealizer) Realize(_ string, img image.Image) (any, error) {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, img, b.Min, draw.Src)
	return dst, nil
}
