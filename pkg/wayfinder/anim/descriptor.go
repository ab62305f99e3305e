// Package anim is the animation model used by transactions.
//
// Animations are described by a Descriptor, a tagged value whose Kind selects
// fade, scale, slide, compound or none. A single Interpolate function turns a
// leaf descriptor and a progress value into a Frame that is applied to the
// screen handle being animated. Descriptors are registered by name in a
// Registry and instantiated per navigation with Factory.Build, so callbacks
// never accumulate on shared instances.
//
// Playback is frame driven: an Engine schedules per-frame steps and the host
// advances it. Driver is the engine shipped with the package; the SDL host
// drives it from the display clock and tests drive it by hand.
package anim

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Kind selects the animation variant.
type Kind int

const (
	KindNone Kind = iota
	KindFade
	KindScale
	KindSlide
	KindCompound
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindFade:
		return "fade"
	case KindScale:
		return "scale"
	case KindSlide:
		return "slide"
	case KindCompound:
		return "compound"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses a kind name as written in configuration files.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return KindNone, nil
	case "fade":
		return KindFade, nil
	case "scale":
		return KindScale, nil
	case "slide":
		return KindSlide, nil
	case "compound", "group":
		return KindCompound, nil
	}
	return 0, fmt.Errorf("unknown animation kind %q", s)
}

// Mode is the play mode of a compound animation.
type Mode int

const (
	ModeParallel Mode = iota
	ModeSequential
)

// ParseMode parses "parallel" or "sequential".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "parallel":
		return ModeParallel, nil
	case "sequential":
		return ModeSequential, nil
	}
	return 0, fmt.Errorf("unknown play mode %q", s)
}

// Edge is the side of the container a slide moves along.
type Edge int

const (
	EdgeRight Edge = iota
	EdgeLeft
	EdgeTop
	EdgeBottom
)

// ParseEdge parses an edge name.
func ParseEdge(s string) (Edge, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "right":
		return EdgeRight, nil
	case "left":
		return EdgeLeft, nil
	case "top":
		return EdgeTop, nil
	case "bottom":
		return EdgeBottom, nil
	}
	return 0, fmt.Errorf("unknown slide edge %q", s)
}

// Easing names a progress curve.
type Easing string

const (
	EaseLinear Easing = "linear"
	EaseIn     Easing = "ease-in"
	EaseOut    Easing = "ease-out"
	EaseInOut  Easing = "ease-in-out"
)

func (e Easing) apply(t float64) float64 {
	switch e {
	case EaseIn:
		return t * t
	case EaseOut:
		return 1 - (1-t)*(1-t)
	case EaseInOut:
		return (1 - math.Cos(math.Pi*t)) / 2
	default:
		return t
	}
}

// Valid reports whether e is a known easing (the empty easing means linear).
func (e Easing) Valid() bool {
	switch e {
	case "", EaseLinear, EaseIn, EaseOut, EaseInOut:
		return true
	}
	return false
}

// Descriptor holds the registered attributes of an animation.
//
// For fades From/To are opacities, for scales they are scale factors and for
// slides they are offsets expressed as fractions of the container size along
// Edge (1 is fully outside, 0 is in place). Compound descriptors list their
// children by name; Next names an animation played after this one finishes.
type Descriptor struct {
	Name      string
	Kind      Kind
	Duration  time.Duration
	From      float64
	To        float64
	Edge      Edge
	Easing    Easing
	AutoReset bool
	Mode      Mode
	Children  []string
	Next      string
}

// Frame is the visual state applied to a screen handle.
type Frame struct {
	Opacity float64
	Scale   float64
	OffsetX float64 // fraction of the container width
	OffsetY float64 // fraction of the container height
}

// Identity is the resting frame of a fully shown screen.
var Identity = Frame{Opacity: 1, Scale: 1}

// Target receives frames. Screen handles implement it.
type Target interface {
	Apply(f Frame)
}

// Interpolate computes the frame of leaf descriptor d at progress t in [0,1].
// Compound and none descriptors yield Identity.
func Interpolate(d Descriptor, t float64) Frame {
	t = math.Max(0, math.Min(1, t))
	v := d.From + (d.To-d.From)*d.Easing.apply(t)

	f := Identity
	switch d.Kind {
	case KindFade:
		f.Opacity = v
	case KindScale:
		f.Scale = v
	case KindSlide:
		switch d.Edge {
		case EdgeRight:
			f.OffsetX = v
		case EdgeLeft:
			f.OffsetX = -v
		case EdgeBottom:
			f.OffsetY = v
		case EdgeTop:
			f.OffsetY = -v
		}
	}
	return f
}
