package sdlhost

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/anim"
)

// DrawFunc paints a screen onto a transparent target of the container size.
type DrawFunc func(r *sdl.Renderer, width, height int32)

// Screen is the handle of one screen inside a Host. It either shows a layout
// template or calls a DrawFunc every frame.
type Screen struct {
	ref     string
	charset string
	draw    DrawFunc
	frame   anim.Frame
}

// NewScreen returns a screen painted by draw. Screen factories use it.
func NewScreen(draw DrawFunc) *Screen {
	return &Screen{draw: draw, frame: anim.Identity}
}

func (s *Screen) Apply(f anim.Frame) {
	s.frame = f
}

// Frame returns the last frame applied to the screen.
func (s *Screen) Frame() anim.Frame {
	return s.frame
}

func (s *Screen) name() string {
	if s.ref != "" {
		return s.ref
	}
	return "drawn"
}
