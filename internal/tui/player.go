// Package tui plays one cache entry in the terminal.
package tui

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/texcache"
	"github.com/unkn0wn-root/texcache/origin"
)

// Source is the part of texcache.Cache the player needs.
type Source interface {
	Acquire(key string, o origin.Origin) texcache.Handle
	Stat(key string) (texcache.Info, bool)
	Invalidate(ctx context.Context, key string) error
}

// FrameRate is how often the player asks the cache for the current frame.
const FrameRate = 60

const (
	headerLines = 1
	footerLines = 1
)

type tickMsg time.Time

// Player is a Bubble Tea model that acquires one key every tick and shows
// the returned frame.
type Player struct {
	src    Source
	key    string
	origin origin.Origin

	width  int
	height int

	handle texcache.Handle
	info   texcache.Info
	ticks  int
	err    error

	// last rendered frame, reused until the handle or the size changes
	drawn     string
	drawnName string
	drawnSize image.Point
}

func NewPlayer(src Source, key string, o origin.Origin) Player {
	return Player{src: src, key: key, origin: o}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/FrameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (p Player) Init() tea.Cmd {
	return tick()
}

func (p Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)

	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tickMsg:
		p.ticks++
		p.handle = p.src.Acquire(p.key, p.origin)
		p.info, _ = p.src.Stat(p.key)
		p.redraw()
		return p, tick()
	}
	return p, nil
}

func (p Player) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return p, tea.Quit
	case "r":
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		p.err = p.src.Invalidate(ctx, p.key)
		p.handle = texcache.Handle{}
		p.drawnName = ""
		p.drawn = ""
	}
	return p, nil
}

// canvas is the cell area left for the image.
func (p Player) canvas() image.Point {
	return image.Pt(p.width, p.height-headerLines-footerLines)
}

func (p *Player) redraw() {
	if !p.handle.Valid() {
		return
	}
	size := p.canvas()
	if p.handle.Name == p.drawnName && size == p.drawnSize {
		return
	}
	img, ok := p.handle.Resource.(image.Image)
	if !ok {
		p.err = fmt.Errorf("resource %T is not an image", p.handle.Resource)
		return
	}
	p.drawn = halfBlocks(img, size.X, size.Y)
	p.drawnName = p.handle.Name
	p.drawnSize = size
}

func (p Player) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(p.key))
	b.WriteString("\n")

	switch {
	case p.err != nil:
		b.WriteString(errorStyle.Render(p.err.Error()))
	case !p.handle.Valid():
		b.WriteString(loadingStyle.Render(fmt.Sprintf("loading %s ...", p.origin)))
	default:
		b.WriteString(p.drawn)
	}
	b.WriteString("\n")
	b.WriteString(p.renderStatusBar())
	return b.String()
}

func (p Player) renderStatusBar() string {
	in := p.info
	parts := []string{in.State.String()}
	if in.Frames > 0 {
		parts = append(parts, fmt.Sprintf("frame %d/%d", in.Index+1, in.Frames))
		parts = append(parts, fmt.Sprintf("%dx%d", in.Size.X, in.Size.Y))
	}
	if in.Animated {
		if in.Loop {
			parts = append(parts, "loop")
		} else {
			parts = append(parts, "once")
		}
	}
	parts = append(parts, "r reload", "q quit")
	return statusBarStyle.Render(strings.Join(parts, " · "))
}
