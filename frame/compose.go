package frame

import (
	"image"
	"image/gif"

	"golang.org/x/image/draw"
)

// compositor replays GIF sub-images onto the logical screen. render must be
// called for indices 0..n-1 in order.
type compositor struct {
	g      *gif.GIF
	bounds image.Rectangle
	canvas *image.RGBA
}

func newCompositor(g *gif.GIF) *compositor {
	b := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if b.Empty() {
		for _, pm := range g.Image {
			b = b.Union(pm.Bounds())
		}
	}
	return &compositor{g: g, bounds: b, canvas: image.NewRGBA(b)}
}

func (c *compositor) render(i int) *image.RGBA {
	pm := c.g.Image[i]
	var disposal byte
	if i < len(c.g.Disposal) {
		disposal = c.g.Disposal[i]
	}

	var saved *image.RGBA
	if disposal == gif.DisposalPrevious {
		saved = clone(c.canvas)
	}

	draw.Draw(c.canvas, pm.Bounds(), pm, pm.Bounds().Min, draw.Over)
	out := clone(c.canvas)

	switch disposal {
	case gif.DisposalBackground:
		// browsers clear to transparent rather than the background color
		draw.Draw(c.canvas, pm.Bounds(), image.Transparent, image.Point{}, draw.Src)
	case gif.DisposalPrevious:
		c.canvas = saved
	}
	return out
}

func clone(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
