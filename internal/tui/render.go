package tui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// upperHalf draws the top pixel of a cell in the foreground color and the
// bottom pixel in the background color.
const upperHalf = "▀"

// fit scales w x h into maxW x maxH keeping the aspect ratio.
func fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	sx := float64(maxW) / float64(w)
	sy := float64(maxH) / float64(h)
	s := min(sx, sy)
	return max(1, int(float64(w)*s)), max(1, int(float64(h)*s))
}

// scale resamples img to fit cols x rows cells, two pixels per cell
// vertically, over the backdrop color.
func scale(img image.Image, cols, rows int) *image.RGBA {
	b := img.Bounds()
	w, h := fit(b.Dx(), b.Dy(), cols, rows*2)
	if w == 0 {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := color.RGBA{backdrop[0], backdrop[1], backdrop[2], 0xff}
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// halfBlocks renders img as at most cols x rows terminal cells.
func halfBlocks(img image.Image, cols, rows int) string {
	px := scale(img, cols, rows)
	if px == nil {
		return ""
	}
	w, h := px.Rect.Dx(), px.Rect.Dy()
	bg := color.RGBA{backdrop[0], backdrop[1], backdrop[2], 0xff}

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			top := px.RGBAAt(x, y)
			bot := bg
			if y+1 < h {
				bot = px.RGBAAt(x, y+1)
			}
			sb.WriteString(lipgloss.NewStyle().
				Foreground(hex(top)).
				Background(hex(bot)).
				Render(upperHalf))
		}
	}
	return sb.String()
}
