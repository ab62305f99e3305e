package anim

import (
	"time"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/naverr"
)

// Animation is a playable instance of a Descriptor bound to a Target.
//
// Start callbacks fire when playback begins and finish callbacks when it
// completes, each exactly once per Play. Stop halts playback without firing
// finish callbacks. With auto-reset enabled Reset runs right after the finish
// callbacks. Chain-finish callbacks fire once the animation and every
// animation chained after it with SetNext have finished. A compound animation
// starts when its first child starts and finishes when the chain of its last
// child (sequential) or of all children (parallel) has finished.
type Animation struct {
	desc     Descriptor
	target   Target
	engine   Engine
	children []*Animation
	parent   *Animation
	next     *Animation
	prev     *Animation // link this one is chained after

	onStart       []func()
	onFinish      []func()
	onChainFinish []func()

	running  bool
	started  bool
	cycle    int
	elapsed  time.Duration
	cancel   func()
	childIdx int
	finished int
}

// New creates a leaf animation from d. Compound descriptors are built through
// Factory.Build or NewCompound.
func New(d Descriptor, engine Engine) *Animation {
	return &Animation{desc: d, engine: engine}
}

// NewCompound groups children under one animation played in mode.
func NewCompound(name string, mode Mode, children ...*Animation) *Animation {
	a := &Animation{desc: Descriptor{Name: name, Kind: KindCompound, Mode: mode}}
	for _, c := range children {
		if c == nil {
			continue
		}
		c.parent = a
		a.children = append(a.children, c)
	}
	return a
}

// None returns a no-op animation bound to target.
func None(target Target) *Animation {
	a := New(Descriptor{Name: "none", Kind: KindNone}, nil)
	a.SetTarget(target)
	return a
}

func (a *Animation) Name() string           { return a.desc.Name }
func (a *Animation) Kind() Kind             { return a.desc.Kind }
func (a *Animation) Descriptor() Descriptor { return a.desc }
func (a *Animation) Target() Target         { return a.target }
func (a *Animation) Next() *Animation       { return a.next }
func (a *Animation) Running() bool          { return a.running }
func (a *Animation) AutoReset() bool        { return a.desc.AutoReset }

// Children returns the compound's children in play order.
func (a *Animation) Children() []*Animation {
	out := make([]*Animation, len(a.children))
	copy(out, a.children)
	return out
}

// Duration is the total play time: the longest child for parallel compounds,
// the sum of children for sequential ones. Chained animations are not counted
// for a itself.
func (a *Animation) Duration() time.Duration {
	if a.desc.Kind != KindCompound {
		return a.desc.Duration
	}
	var total time.Duration
	for _, c := range a.children {
		d := c.Duration()
		if a.desc.Mode == ModeSequential {
			total += d
		} else if d > total {
			total = d
		}
	}
	return total
}

// SetTarget binds t to a and to every child and chained animation that has no
// target of its own.
func (a *Animation) SetTarget(t Target) {
	a.target = t
	for _, c := range a.children {
		if c.target == nil {
			c.SetTarget(t)
		}
	}
	if a.next != nil && a.next.target == nil {
		a.next.SetTarget(t)
	}
}

// SetNext chains n to play after a finishes. n inherits a's target if it has none.
func (a *Animation) SetNext(n *Animation) {
	if a.next != nil && a.next.prev == a {
		a.next.prev = nil
	}
	a.next = n
	if n == nil {
		return
	}
	n.prev = a
	if n.target == nil && a.target != nil {
		n.SetTarget(a.target)
	}
}

// SetAutoReset toggles auto-reset for a.
func (a *Animation) SetAutoReset(v bool) {
	a.desc.AutoReset = v
}

// OnStart registers fn to run when playback starts.
func (a *Animation) OnStart(fn func()) {
	a.onStart = append(a.onStart, fn)
}

// OnFinish registers fn to run when playback completes.
func (a *Animation) OnFinish(fn func()) {
	a.onFinish = append(a.onFinish, fn)
}

// OnChainFinish registers fn to run when a and the animations chained after
// it have all finished. Without a chain it runs right after the finish
// callbacks.
func (a *Animation) OnChainFinish(fn func()) {
	a.onChainFinish = append(a.onChainFinish, fn)
}

// Play starts a from the beginning, stopping it first if it is running.
func (a *Animation) Play() error {
	if err := a.validate(make(map[*Animation]bool)); err != nil {
		return err
	}
	a.Stop()
	a.begin()
	return nil
}

// Stop halts a, its children and its chained animation. Finish callbacks do
// not fire for a stopped cycle.
func (a *Animation) Stop() {
	if a.running {
		a.running = false
		if a.cancel != nil {
			a.cancel()
			a.cancel = nil
		}
		for _, c := range a.children {
			c.Stop()
		}
	}
	if a.next != nil {
		a.next.Stop()
	}
}

// Reset stops a and returns its target to the identity frame.
func (a *Animation) Reset() {
	a.Stop()
	a.started = false
	a.elapsed = 0
	a.childIdx = 0
	a.finished = 0
	if a.desc.Kind != KindCompound && a.target != nil {
		a.target.Apply(Identity)
	}
	for _, c := range a.children {
		c.Reset()
	}
}

func (a *Animation) validate(seen map[*Animation]bool) error {
	if seen[a] {
		return naverr.AnimationState("play", a.desc.Name, "animation chain loops back on itself")
	}
	seen[a] = true

	if a.desc.Kind == KindCompound {
		for _, c := range a.children {
			if err := c.validate(seen); err != nil {
				return err
			}
		}
	} else {
		if a.target == nil {
			return naverr.AnimationState("play", a.desc.Name, "no target bound")
		}
		if a.desc.Duration > 0 && a.engine == nil {
			return naverr.AnimationState("play", a.desc.Name, "no engine to drive a %s animation", a.desc.Duration)
		}
	}

	if a.next != nil {
		return a.next.validate(seen)
	}
	return nil
}

func (a *Animation) begin() {
	a.cycle++
	a.running = true
	a.started = false

	if a.desc.Kind == KindCompound {
		a.childIdx = 0
		a.finished = 0
		if len(a.children) == 0 {
			a.fireStart()
			a.complete()
			return
		}
		if a.desc.Mode == ModeSequential {
			a.children[0].begin()
			return
		}
		for _, c := range a.children {
			if !a.running {
				return
			}
			c.begin()
		}
		return
	}

	a.elapsed = 0
	a.fireStart()
	if !a.running {
		return
	}
	if a.desc.Duration <= 0 {
		a.target.Apply(Interpolate(a.desc, 1))
		a.complete()
		return
	}
	a.target.Apply(Interpolate(a.desc, 0))

	cycle := a.cycle
	a.cancel = a.engine.Schedule(func(dt time.Duration) bool {
		if !a.running || a.cycle != cycle {
			return true
		}
		a.elapsed += dt
		t := float64(a.elapsed) / float64(a.desc.Duration)
		a.target.Apply(Interpolate(a.desc, t))
		if t < 1 {
			return false
		}
		a.cancel = nil
		a.complete()
		return true
	})
}

func (a *Animation) fireStart() {
	if a.started {
		return
	}
	a.started = true
	for _, fn := range a.onStart {
		fn()
	}
	if a.parent != nil {
		a.parent.childStarted()
	}
}

func (a *Animation) complete() {
	a.running = false
	for _, fn := range a.onFinish {
		fn()
	}
	if a.desc.AutoReset {
		a.Reset()
	}
	if a.next != nil {
		a.next.begin()
		return
	}
	a.chainFinished()
}

// chainFinished runs on the last link of a chain and walks back to its head,
// so every link, and the compound owning the head, learns the chain is done.
func (a *Animation) chainFinished() {
	links := []*Animation{a}
	for l := a.prev; l != nil && l != a; l = l.prev {
		links = append(links, l)
	}
	for _, l := range links {
		for _, fn := range l.onChainFinish {
			fn()
		}
		if l.parent != nil {
			l.parent.childFinished()
		}
	}
}

func (a *Animation) childStarted() {
	if a.running {
		a.fireStart()
	}
}

func (a *Animation) childFinished() {
	if !a.running {
		return
	}
	if a.desc.Mode == ModeSequential {
		a.childIdx++
		if a.childIdx < len(a.children) {
			a.children[a.childIdx].begin()
			return
		}
		a.complete()
		return
	}
	a.finished++
	if a.finished == len(a.children) {
		a.complete()
	}
}
