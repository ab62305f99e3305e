// Package navtest provides recording fakes for the toolkit-facing interfaces,
// shared by the package tests.
package navtest

import (
	"fmt"
	"strings"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/anim"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/transaction"
)

// Log is an ordered list of events shared by fakes.
type Log struct {
	events []string
}

func (l *Log) Add(format string, args ...any) {
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

// Events returns a copy of the recorded events.
func (l *Log) Events() []string {
	out := make([]string, len(l.events))
	copy(out, l.events)
	return out
}

// Matching returns the events that start with prefix.
func (l *Log) Matching(prefix string) []string {
	var out []string
	for _, e := range l.events {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

func (l *Log) Reset() {
	l.events = nil
}

// Screen is a named screen handle remembering the last applied frame.
type Screen struct {
	Name   string
	Frame  anim.Frame
	Frames int
}

func NewScreen(name string) *Screen {
	return &Screen{Name: name, Frame: anim.Identity}
}

func (s *Screen) Apply(f anim.Frame) {
	s.Frame = f
	s.Frames++
}

// Container records the attached screens bottom first.
type Container struct {
	Log      *Log
	children []transaction.ScreenHandle
}

func NewContainer(log *Log) *Container {
	return &Container{Log: log}
}

func (c *Container) Attach(h transaction.ScreenHandle) {
	c.remove(h)
	c.children = append(c.children, h)
	if c.Log != nil {
		c.Log.Add("attach:%s", name(h))
	}
}

func (c *Container) Detach(h transaction.ScreenHandle) {
	c.remove(h)
	if c.Log != nil {
		c.Log.Add("detach:%s", name(h))
	}
}

// Names returns the names of the attached screens, bottom first.
func (c *Container) Names() []string {
	out := make([]string, 0, len(c.children))
	for _, h := range c.children {
		out = append(out, name(h))
	}
	return out
}

func (c *Container) remove(h transaction.ScreenHandle) {
	for i, x := range c.children {
		if x == h {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return
		}
	}
}

func name(h transaction.ScreenHandle) string {
	if s, ok := h.(*Screen); ok {
		return s.Name
	}
	return fmt.Sprintf("%T", h)
}

// Lifecycle returns transaction hooks that record into log as "<event>:<tag>".
func Lifecycle(log *Log, tag string) transaction.Hooks {
	return transaction.Hooks{
		Create:     func() { log.Add("create:%s", tag) },
		BeforeShow: func() { log.Add("before-show:%s", tag) },
		Show:       func() { log.Add("show:%s", tag) },
		Hide:       func() { log.Add("hide:%s", tag) },
		Destroy:    func() { log.Add("destroy:%s", tag) },
	}
}
