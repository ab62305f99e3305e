// Package transaction realises navigation decisions as animated screen effects.
//
// A Transaction batches effects into a FIFO operation queue. Begin opens a
// batch, Add, Replace, Hide, Remove and PopBackstack enqueue operations and
// Commit runs them in order. Every operation starts its animation and returns
// without waiting for it to finish; lifecycle callbacks fire from the
// animation's start and finish signals, exactly once per effect.
//
// The transaction keeps its own backstack of Targets, parallel to the router's
// backstack of navigation entries.
package transaction

import (
	"fmt"
	"log/slog"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/anim"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/backstack"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/internal"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/naverr"
)

// Backdrop is a screen kept directly beneath the newest target, such as a
// dimming scrim. Its Enter animation plays in parallel with every target enter
// animation; Exit plays when the last target is removed.
type Backdrop struct {
	Screen ScreenHandle
	Enter  string
	Exit   string
}

// Options configures a Transaction.
type Options struct {
	Name      string        // used in log records
	Container Container     // required
	Factory   *anim.Factory // required; builds animations by name
	Backdrop  *Backdrop     // optional
	Logger    *slog.Logger  // defaults to the internal logger
}

type operation struct {
	name string
	run  func() error
}

// Transaction is an animated operation queue over one content container.
// It is not safe for concurrent use; all calls happen on the UI thread.
type Transaction struct {
	name      string
	container Container
	factory   *anim.Factory
	backdrop  *Backdrop
	logger    *slog.Logger

	stack *backstack.Backstack[*Target]
	queue []operation
	open  bool

	backdropAttached bool
}

// New creates a transaction.
func New(opts Options) (*Transaction, error) {
	if opts.Container == nil {
		return nil, naverr.Configuration("new_transaction", opts.Name, "content container is required")
	}
	if opts.Factory == nil {
		return nil, naverr.Configuration("new_transaction", opts.Name, "animation factory is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = internal.GetInternalLogger()
	}

	tx := &Transaction{
		name:      opts.Name,
		container: opts.Container,
		factory:   opts.Factory,
		backdrop:  opts.Backdrop,
		logger:    logger,
		stack:     backstack.New[*Target](),
	}
	tx.stack.AddListener(backstack.Listener[*Target]{
		TopChanged: func(top *Target, ok bool) {
			if ok {
				tx.logger.Debug("Transaction top changed", "transaction", tx.name, "tag", top.tag)
			} else {
				tx.logger.Debug("Transaction emptied", "transaction", tx.name)
			}
		},
	})
	return tx, nil
}

// Begin opens a batch. Calling Begin on an open batch keeps the queued operations.
func (tx *Transaction) Begin() {
	tx.open = true
}

// Pending returns the number of queued operations.
func (tx *Transaction) Pending() int {
	return len(tx.queue)
}

// Add enqueues showing t with the enter animation.
func (tx *Transaction) Add(t *Target, enter string) error {
	if err := tx.checkTarget("add", t); err != nil {
		return err
	}
	return tx.enqueue("add", func() error {
		return tx.show(t, enter)
	})
}

// Replace enqueues hiding the current top with exit, without destroying it,
// followed by showing t with enter.
func (tx *Transaction) Replace(t *Target, enter, exit string) error {
	if err := tx.checkTarget("replace", t); err != nil {
		return err
	}
	return tx.enqueue("replace", func() error {
		if top, ok := tx.Top(); ok && top != t {
			if err := tx.hide(top, exit, false); err != nil {
				return err
			}
		}
		return tx.show(t, enter)
	})
}

// Hide enqueues hiding the target tagged tag with exit. The target stays on
// the backstack. Unknown tags are ignored.
func (tx *Transaction) Hide(tag, exit string) error {
	return tx.enqueue("hide", func() error {
		t, ok := tx.Find(tag)
		if !ok {
			return nil
		}
		return tx.hide(t, exit, false)
	})
}

// Remove enqueues removing the target tagged tag from the backstack and
// destroying it, animated with exit when it is attached. Unknown tags are ignored.
func (tx *Transaction) Remove(tag, exit string) error {
	return tx.enqueue("remove", func() error {
		t, ok := tx.stack.PopIf(func(x *Target) bool { return x.tag == tag })
		if !ok {
			return nil
		}
		return tx.hide(t, exit, true)
	})
}

// PopBackstack enqueues returning to the screen below the current top.
//
// Nothing happens when the top is already tagged tag and showing. A top that
// carries tag but was hidden is shown again with popEnter. Otherwise the top
// is popped, the new top is shown with popEnter and the popped target is
// destroyed after its popExit animation.
func (tx *Transaction) PopBackstack(tag, popEnter, popExit string) error {
	return tx.enqueue("pop_backstack", func() error {
		top, ok := tx.Top()
		if !ok {
			return naverr.TransactionUsage("pop_backstack", tag, "backstack is empty")
		}
		if top.tag == tag {
			if top.Showing() {
				return nil
			}
			return tx.show(top, popEnter)
		}
		if tx.stack.Len() < 2 {
			return naverr.TransactionUsage("pop_backstack", tag, "no target below %q", top.tag)
		}

		popped, err := tx.stack.Pop(0)
		if err != nil {
			return err
		}
		newTop, err := tx.stack.Peek(0)
		if err != nil {
			return err
		}
		if err := tx.show(newTop, popEnter); err != nil {
			return err
		}
		return tx.hide(popped, popExit, true)
	})
}

// Commit runs the queued operations in order and closes the batch. It reports
// whether any operation ran. The first failing operation aborts the rest.
func (tx *Transaction) Commit() (bool, error) {
	ops := tx.queue
	tx.queue = nil
	tx.open = false

	if len(ops) == 0 {
		return false, nil
	}

	tx.logger.Debug("Transaction commit", "transaction", tx.name, "operations", len(ops))
	for i, op := range ops {
		if err := op.run(); err != nil {
			tx.logger.Error("Transaction operation failed",
				"transaction", tx.name, "operation", op.name, "index", i, "dropped", len(ops)-i-1, "error", err)
			return true, fmt.Errorf("%s: %w", op.name, err)
		}
	}
	return true, nil
}

// DoForcedShow shows t immediately, without animation and outside the queue.
func (tx *Transaction) DoForcedShow(t *Target) {
	t.stopInflight()
	if !t.created {
		t.created = true
		t.lifecycle.OnCreate()
	}
	tx.attachBackdrop()
	tx.container.Attach(t.screen)
	t.attached = true
	t.visible = true
	t.screen.Apply(anim.Identity)
	if err := tx.stack.BringToTop(t); err != nil {
		tx.logger.Error("Failed to bring target to top", "transaction", tx.name, "target", t.tag, "error", err)
	}
	t.lifecycle.OnBeforeShow()
	t.lifecycle.OnShow()
}

// DoForcedHide hides t immediately, without animation and outside the queue.
func (tx *Transaction) DoForcedHide(t *Target) {
	t.stopInflight()
	if t.attached {
		tx.container.Detach(t.screen)
		t.attached = false
	}
	t.visible = false
	t.screen.Apply(anim.Identity)
	t.lifecycle.OnHide()
}

// DoForcedDestroy detaches t, removes it from the backstack and destroys it
// immediately, without animation and outside the queue.
func (tx *Transaction) DoForcedDestroy(t *Target) {
	t.stopInflight()
	if t.attached {
		tx.container.Detach(t.screen)
		t.attached = false
	}
	t.visible = false
	tx.stack.PopIf(func(x *Target) bool { return x == t })
	t.lifecycle.OnDestroy()
	if tx.stack.IsEmpty() {
		tx.detachBackdrop()
	}
}

// Find returns the target tagged tag.
func (tx *Transaction) Find(tag string) (*Target, bool) {
	return tx.stack.FindFirst(func(t *Target) bool { return t.tag == tag })
}

// Top returns the target on top of the backstack.
func (tx *Transaction) Top() (*Target, bool) {
	t, err := tx.stack.Peek(0)
	return t, err == nil
}

// Len returns the number of targets on the backstack.
func (tx *Transaction) Len() int {
	return tx.stack.Len()
}

// Targets returns the backstack, bottom first.
func (tx *Transaction) Targets() []*Target {
	return tx.stack.Entries()
}

// Dispose drops queued operations and destroys every target, top first.
func (tx *Transaction) Dispose() {
	tx.queue = nil
	tx.open = false
	for {
		t, ok := tx.Top()
		if !ok {
			break
		}
		tx.DoForcedDestroy(t)
	}
	tx.detachBackdrop()
	tx.stack.Dispose()
}

func (tx *Transaction) enqueue(name string, run func() error) error {
	if !tx.open {
		return naverr.TransactionUsage(name, tx.name, "called before Begin")
	}
	tx.queue = append(tx.queue, operation{name: name, run: run})
	return nil
}

func (tx *Transaction) checkTarget(op string, t *Target) error {
	if t == nil {
		return naverr.TransactionUsage(op, tx.name, "target is nil")
	}
	if other, ok := tx.Find(t.tag); ok && other != t {
		return naverr.TransactionUsage(op, t.tag, "tag already used by another target")
	}
	return nil
}

func (tx *Transaction) show(t *Target, enter string) error {
	a, err := tx.factory.Build(enter)
	if err != nil {
		return err
	}
	a.SetTarget(t.screen)

	if tx.backdrop != nil {
		b, err := tx.factory.Build(tx.backdrop.Enter)
		if err != nil {
			return err
		}
		b.SetTarget(tx.backdrop.Screen)
		a = anim.NewCompound(t.tag+"+backdrop", anim.ModeParallel, b, a)
	}

	t.stopInflight()
	if !t.created {
		t.created = true
		t.lifecycle.OnCreate()
	}
	tx.attachBackdrop()
	tx.container.Attach(t.screen)
	t.attached = true
	t.visible = true
	if err := tx.stack.BringToTop(t); err != nil {
		return err
	}

	a.OnStart(t.lifecycle.OnBeforeShow)
	a.OnChainFinish(func() {
		if t.inflight == a {
			t.inflight = nil
		}
		t.lifecycle.OnShow()
	})
	t.inflight = a
	return a.Play()
}

func (tx *Transaction) hide(t *Target, exit string, destroy bool) error {
	t.stopInflight()
	t.visible = false

	if !t.attached {
		if destroy {
			t.lifecycle.OnDestroy()
			tx.maybeDropBackdrop()
		}
		return nil
	}

	a, err := tx.factory.Build(exit)
	if err != nil {
		return err
	}
	a.SetTarget(t.screen)
	// The screen is detached only after the last chained exit finished, then
	// put back to rest for its next show.
	a.OnChainFinish(func() {
		if t.inflight == a {
			t.inflight = nil
		}
		tx.container.Detach(t.screen)
		t.attached = false
		if destroy {
			t.lifecycle.OnDestroy()
			tx.maybeDropBackdrop()
		} else {
			t.lifecycle.OnHide()
		}
		a.Reset()
	})
	t.inflight = a
	return a.Play()
}

func (tx *Transaction) attachBackdrop() {
	if tx.backdrop == nil {
		return
	}
	tx.container.Attach(tx.backdrop.Screen)
	tx.backdropAttached = true
}

func (tx *Transaction) maybeDropBackdrop() {
	if tx.backdrop == nil || !tx.backdropAttached || !tx.stack.IsEmpty() {
		return
	}
	a, err := tx.factory.Build(tx.backdrop.Exit)
	if err != nil {
		tx.logger.Error("Backdrop exit animation unavailable", "transaction", tx.name, "error", err)
		tx.detachBackdrop()
		return
	}
	a.SetTarget(tx.backdrop.Screen)
	a.OnChainFinish(func() {
		tx.detachBackdrop()
		a.Reset()
	})
	if err := a.Play(); err != nil {
		tx.logger.Error("Backdrop exit animation failed", "transaction", tx.name, "error", err)
		tx.detachBackdrop()
	}
}

func (tx *Transaction) detachBackdrop() {
	if tx.backdrop == nil || !tx.backdropAttached {
		return
	}
	tx.container.Detach(tx.backdrop.Screen)
	tx.backdropAttached = false
}
