package router

import (
	"github.com/google/uuid"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/naverr"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/transaction"
)

// TransactionExecutor is the default Executor. It keeps one transaction over
// the router's content container and maps every NavEntry to a Target.
//
// Target tags are the destination id. A second live entry of the same
// destination gets the id suffixed with a short form of its entry id.
type TransactionExecutor struct {
	router *Router
	tx     *transaction.Transaction

	tags    map[uuid.UUID]string
	owners  map[string]string       // tag -> destination id
	leaving map[uuid.UUID]*NavEntry // popped, screen not destroyed yet
}

// NewTransactionExecutor is the ExecutorFactory registered under
// constants.DefaultExecutor.
func NewTransactionExecutor(r *Router) (Executor, error) {
	tx, err := transaction.New(transaction.Options{
		Name:      "router",
		Container: r.settings.Container,
		Factory:   r.factory,
		Backdrop:  r.settings.Backdrop,
		Logger:    r.logger,
	})
	if err != nil {
		return nil, err
	}
	return &TransactionExecutor{
		router:  r,
		tx:      tx,
		tags:    make(map[uuid.UUID]string),
		owners:  make(map[string]string),
		leaving: make(map[uuid.UUID]*NavEntry),
	}, nil
}

// Transaction exposes the underlying transaction.
func (x *TransactionExecutor) Transaction() *transaction.Transaction {
	return x.tx
}

func (x *TransactionExecutor) Show(e Effect) error {
	if e.PopBackstack {
		if tag, ok := x.tags[e.Entry.ID]; ok {
			return x.run(func() error { return x.tx.PopBackstack(tag, e.Enter, e.Exit) })
		}
	}

	target, err := x.target(e)
	if err != nil {
		return err
	}
	return x.run(func() error { return x.tx.Add(target, e.Enter) })
}

func (x *TransactionExecutor) Hide(e Effect) error {
	tag, ok := x.tags[e.Entry.ID]
	if !ok {
		return nil
	}
	return x.run(func() error { return x.tx.Hide(tag, e.Exit) })
}

// PopBackstack removes the entry's screen. The entry is disposed when the
// screen is destroyed, after any exit animation has finished.
func (x *TransactionExecutor) PopBackstack(e Effect) error {
	tag, ok := x.tags[e.Entry.ID]
	if !ok {
		e.Entry.Dispose()
		return nil
	}
	delete(x.tags, e.Entry.ID)
	delete(x.owners, tag)
	x.leaving[e.Entry.ID] = e.Entry
	err := x.run(func() error { return x.tx.Remove(tag, e.Exit) })
	if err != nil {
		x.release(e.Entry)
	}
	return err
}

func (x *TransactionExecutor) OnLifecycleShow(dest Destination) {
	if t, ok := x.topmost(dest.ID); ok {
		x.tx.DoForcedShow(t)
	}
}

func (x *TransactionExecutor) OnLifecycleHide(dest Destination) {
	if t, ok := x.topmost(dest.ID); ok {
		x.tx.DoForcedHide(t)
	}
}

// Dispose destroys every live screen and disposes entries still leaving.
func (x *TransactionExecutor) Dispose() {
	x.tx.Dispose()
	for _, e := range x.leaving {
		e.Dispose()
	}
	clear(x.leaving)
	clear(x.tags)
	clear(x.owners)
}

func (x *TransactionExecutor) release(e *NavEntry) {
	if _, ok := x.leaving[e.ID]; ok {
		delete(x.leaving, e.ID)
		e.Dispose()
	}
}

// releasing wraps lc so that destroying the screen releases a popped entry.
func (x *TransactionExecutor) releasing(lc transaction.Lifecycle, e *NavEntry) transaction.Lifecycle {
	if lc == nil {
		lc = transaction.Hooks{}
	}
	return transaction.Hooks{
		Create:     lc.OnCreate,
		BeforeShow: lc.OnBeforeShow,
		Show:       lc.OnShow,
		Hide:       lc.OnHide,
		Destroy: func() {
			lc.OnDestroy()
			x.release(e)
		},
	}
}

func (x *TransactionExecutor) run(enqueue func() error) error {
	x.tx.Begin()
	if err := enqueue(); err != nil {
		return err
	}
	_, err := x.tx.Commit()
	return err
}

// target returns the live target of e.Entry, creating its screen on first use.
func (x *TransactionExecutor) target(e Effect) (*transaction.Target, error) {
	if tag, ok := x.tags[e.Entry.ID]; ok {
		if t, ok := x.tx.Find(tag); ok {
			return t, nil
		}
	}

	screen, err := x.router.CreateScreen(e.Destination, e.Entry, e.Options)
	if err != nil {
		return nil, err
	}
	tag := e.Destination.ID
	if _, taken := x.owners[tag]; taken {
		tag += "#" + e.Entry.ID.String()[:8]
	}
	t, err := transaction.NewTarget(tag, screen.Handle, x.releasing(screen.Lifecycle, e.Entry))
	if err != nil {
		return nil, naverr.New(naverr.KindConfiguration, "create_screen", e.Destination.ID, err)
	}
	x.tags[e.Entry.ID] = tag
	x.owners[tag] = e.Destination.ID
	return t, nil
}

func (x *TransactionExecutor) topmost(destID string) (*transaction.Target, bool) {
	targets := x.tx.Targets()
	for i := len(targets) - 1; i >= 0; i-- {
		if x.owners[targets[i].Tag()] == destID {
			return targets[i], true
		}
	}
	return nil, false
}
