package transaction

import (
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/anim"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/naverr"
)

// ScreenHandle is the toolkit object that represents a screen inside the
// content container. The engine only ever applies animation frames to it.
type ScreenHandle interface {
	anim.Target
}

// Container is the single content container shared by all screens of a
// transaction. Attach places the handle on top, moving it there if it is
// already attached.
type Container interface {
	Attach(h ScreenHandle)
	Detach(h ScreenHandle)
}

// Lifecycle receives the screen lifecycle callbacks of a Target.
type Lifecycle interface {
	OnCreate()
	OnBeforeShow()
	OnShow()
	OnHide()
	OnDestroy()
}

// Hooks implements Lifecycle with optional funcs.
type Hooks struct {
	Create     func()
	BeforeShow func()
	Show       func()
	Hide       func()
	Destroy    func()
}

func (h Hooks) OnCreate()     { call(h.Create) }
func (h Hooks) OnBeforeShow() { call(h.BeforeShow) }
func (h Hooks) OnShow()       { call(h.Show) }
func (h Hooks) OnHide()       { call(h.Hide) }
func (h Hooks) OnDestroy()    { call(h.Destroy) }

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

// Target is one screen instance managed by a Transaction.
type Target struct {
	tag       string
	screen    ScreenHandle
	lifecycle Lifecycle

	inflight *anim.Animation
	created  bool
	attached bool
	visible  bool
}

// NewTarget creates a target. The tag must be non-empty and the screen handle
// non-nil; lc may be nil.
func NewTarget(tag string, screen ScreenHandle, lc Lifecycle) (*Target, error) {
	if tag == "" {
		return nil, naverr.TransactionUsage("new_target", "", "target tag is required")
	}
	if screen == nil {
		return nil, naverr.TransactionUsage("new_target", tag, "screen handle is required")
	}
	if lc == nil {
		lc = Hooks{}
	}
	return &Target{tag: tag, screen: screen, lifecycle: lc}, nil
}

func (t *Target) Tag() string               { return t.tag }
func (t *Target) Screen() ScreenHandle      { return t.screen }
func (t *Target) Lifecycle() Lifecycle      { return t.lifecycle }
func (t *Target) Attached() bool            { return t.attached }
func (t *Target) InFlight() *anim.Animation { return t.inflight }

// Showing reports whether the target is attached and not being hidden.
func (t *Target) Showing() bool {
	return t.attached && t.visible
}

func (t *Target) stopInflight() {
	if t.inflight != nil {
		t.inflight.Stop()
		t.inflight = nil
	}
}
