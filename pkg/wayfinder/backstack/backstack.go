// Package backstack provides the ordered navigation history used by both the
// router (one entry per visited destination) and transactions (one entry per
// live screen).
//
// Unlike a plain stack it supports searching at any depth, popping until a
// predicate matches and promoting an existing entry back to the top. Every
// mutation is reported to registered listeners once it has been applied.
package backstack

import (
	"errors"
	"slices"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/naverr"
)

var errNilEntry = errors.New("nil entry")

// Disposable is implemented by entries that hold resources which must be
// released when the backstack is disposed.
type Disposable interface {
	Dispose()
}

// Listener receives backstack notifications. Any field may be nil.
//
// TopChanged is called with the new top and false when the stack became empty.
// Batch is called for operations that move several entries at once; popped is
// ordered top first.
type Listener[E any] struct {
	TopChanged func(top E, ok bool)
	Pushed     func(entry E)
	Popped     func(entry E)
	Batch      func(popped []E, pushed []E)
}

// Backstack is an ordered stack of entries. Index 0 of the underlying slice is
// the bottom; the top is the last element. Entries are compared with ==.
type Backstack[E comparable] struct {
	entries   []E
	listeners []registration[E]
	nextID    int
}

type registration[E any] struct {
	id int
	Listener[E]
}

// New creates an empty backstack.
func New[E comparable]() *Backstack[E] {
	return &Backstack[E]{
		entries: make([]E, 0),
	}
}

// AddListener registers l and returns a function that removes it again.
func (s *Backstack[E]) AddListener(l Listener[E]) (remove func()) {
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, registration[E]{id: id, Listener: l})
	return func() {
		for i, r := range s.listeners {
			if r.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Push adds e on top. The zero value (nil for pointers and interfaces) is rejected.
func (s *Backstack[E]) Push(e E) error {
	var zero E
	if e == zero {
		return naverr.New(naverr.KindNavigation, "push", "", errNilEntry)
	}
	prev, hadTop := s.top()
	s.entries = append(s.entries, e)
	s.notifyPushed(e)
	s.notifyTop(prev, hadTop)
	return nil
}

// Peek returns the entry fromTop positions below the top without removing it.
func (s *Backstack[E]) Peek(fromTop int) (E, error) {
	idx, err := s.index("peek", fromTop)
	if err != nil {
		var zero E
		return zero, err
	}
	return s.entries[idx], nil
}

// Pop removes and returns the single entry fromTop positions below the top.
func (s *Backstack[E]) Pop(fromTop int) (E, error) {
	idx, err := s.index("pop", fromTop)
	if err != nil {
		var zero E
		return zero, err
	}
	return s.removeAt(idx), nil
}

// PopIf removes and returns the topmost entry satisfying pred.
// It reports false, leaving the stack untouched, when nothing matches.
func (s *Backstack[E]) PopIf(pred func(E) bool) (E, bool) {
	idx := s.search(pred)
	if idx < 0 {
		var zero E
		return zero, false
	}
	return s.removeAt(idx), true
}

// BringToTop moves e to the top if it is already present, otherwise pushes it.
// The stack never holds e twice.
func (s *Backstack[E]) BringToTop(e E) error {
	idx := s.search(func(x E) bool { return x == e })
	if idx < 0 {
		return s.Push(e)
	}
	if idx == len(s.entries)-1 {
		return nil
	}
	prev, hadTop := s.top()
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	s.entries = append(s.entries, e)
	s.notifyBatch([]E{e}, []E{e})
	s.notifyTop(prev, hadTop)
	return nil
}

// FindFirst returns the first entry satisfying pred, searching from the top.
func (s *Backstack[E]) FindFirst(pred func(E) bool) (E, bool) {
	idx := s.search(pred)
	if idx < 0 {
		var zero E
		return zero, false
	}
	return s.entries[idx], true
}

// Depth returns how far below the top the first entry satisfying pred sits,
// or -1 when nothing matches.
func (s *Backstack[E]) Depth(pred func(E) bool) int {
	idx := s.search(pred)
	if idx < 0 {
		return -1
	}
	return len(s.entries) - 1 - idx
}

// Contains reports whether e is on the stack.
func (s *Backstack[E]) Contains(e E) bool {
	return s.search(func(x E) bool { return x == e }) >= 0
}

// PopEntriesUpTo pops entries from the top until the first entry satisfying
// pred is reached. When inclusive is set that entry is popped as well.
// The popped entries are returned top first. If no entry matches, the stack
// is left untouched and nil is returned.
func (s *Backstack[E]) PopEntriesUpTo(pred func(E) bool, inclusive bool) []E {
	idx := s.search(pred)
	if idx < 0 {
		return nil
	}
	cut := idx + 1
	if inclusive {
		cut = idx
	}
	if cut >= len(s.entries) {
		return nil
	}

	prev, hadTop := s.top()
	popped := make([]E, 0, len(s.entries)-cut)
	for i := len(s.entries) - 1; i >= cut; i-- {
		popped = append(popped, s.entries[i])
	}
	clear(s.entries[cut:])
	s.entries = s.entries[:cut]

	s.notifyBatch(popped, nil)
	s.notifyTop(prev, hadTop)
	return popped
}

// Len returns the number of entries.
func (s *Backstack[E]) Len() int {
	return len(s.entries)
}

// IsEmpty returns true if the stack has no entries.
func (s *Backstack[E]) IsEmpty() bool {
	return len(s.entries) == 0
}

// Entries returns a copy of the entries, bottom first.
func (s *Backstack[E]) Entries() []E {
	out := make([]E, len(s.entries))
	copy(out, s.entries)
	return out
}

// Clear removes all entries without disposing them.
func (s *Backstack[E]) Clear() {
	if len(s.entries) == 0 {
		return
	}
	prev, hadTop := s.top()
	popped := make([]E, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		popped = append(popped, s.entries[i])
	}
	clear(s.entries)
	s.entries = s.entries[:0]
	s.notifyBatch(popped, nil)
	s.notifyTop(prev, hadTop)
}

// Dispose releases every Disposable entry from top to bottom, then clears
// the stack and drops all listeners.
func (s *Backstack[E]) Dispose() {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if d, ok := any(s.entries[i]).(Disposable); ok {
			d.Dispose()
		}
	}
	clear(s.entries)
	s.entries = s.entries[:0]
	s.listeners = nil
}

func (s *Backstack[E]) index(op string, fromTop int) (int, error) {
	if fromTop < 0 || fromTop >= len(s.entries) {
		return 0, naverr.OutOfRange(op, fromTop, len(s.entries))
	}
	return len(s.entries) - 1 - fromTop, nil
}

func (s *Backstack[E]) search(pred func(E) bool) int {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if pred(s.entries[i]) {
			return i
		}
	}
	return -1
}

func (s *Backstack[E]) removeAt(idx int) E {
	prev, hadTop := s.top()
	e := s.entries[idx]
	copy(s.entries[idx:], s.entries[idx+1:])
	var zero E
	s.entries[len(s.entries)-1] = zero
	s.entries = s.entries[:len(s.entries)-1]
	s.notifyPopped(e)
	s.notifyTop(prev, hadTop)
	return e
}

func (s *Backstack[E]) top() (E, bool) {
	if len(s.entries) == 0 {
		var zero E
		return zero, false
	}
	return s.entries[len(s.entries)-1], true
}

// snapshot copies the listeners so a callback may add or remove listeners
// without disturbing the notification in progress.
func (s *Backstack[E]) snapshot() []registration[E] {
	return slices.Clone(s.listeners)
}

func (s *Backstack[E]) notifyTop(prev E, hadTop bool) {
	cur, ok := s.top()
	if ok == hadTop && cur == prev {
		return
	}
	for _, l := range s.snapshot() {
		if l.TopChanged != nil {
			l.TopChanged(cur, ok)
		}
	}
}

func (s *Backstack[E]) notifyPushed(e E) {
	for _, l := range s.snapshot() {
		if l.Pushed != nil {
			l.Pushed(e)
		}
	}
}

func (s *Backstack[E]) notifyPopped(e E) {
	for _, l := range s.snapshot() {
		if l.Popped != nil {
			l.Popped(e)
		}
	}
}

func (s *Backstack[E]) notifyBatch(popped, pushed []E) {
	for _, l := range s.snapshot() {
		if l.Batch != nil {
			l.Batch(popped, pushed)
		}
	}
}
