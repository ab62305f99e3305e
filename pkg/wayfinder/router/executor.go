package router

import (
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/anim"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/transaction"
)

// Options are per-call overrides. Unset animations fall back to the router
// defaults and then to the no-op animation.
type Options struct {
	EnterAnimation    string
	ExitAnimation     string
	PopEnterAnimation string
	PopExitAnimation  string

	LocaleBundle *i18n.Bundle
	Languages    []string
	Charset      string // character set of template resources, UTF-8 when empty
}

// Animations holds the router-level default animation names.
type Animations struct {
	Enter    string
	Exit     string
	PopEnter string
	PopExit  string
}

// Effect is one screen effect handed to an Executor. Enter and Exit hold the
// animation names already resolved for the move that produced the effect.
type Effect struct {
	Destination  Destination
	Entry        *NavEntry
	Enter        string
	Exit         string
	PopBackstack bool // Show is returning to Entry after the entries above it were popped
	Title        string
	Options      Options
}

// Executor turns navigation decisions into screen effects for the
// destinations that name it. Implementations may also implement Dispose,
// which the router calls when it is disposed.
//
// PopBackstack hands the popped entry over to the executor, which disposes it
// once the entry's screen is gone.
type Executor interface {
	Show(e Effect) error
	Hide(e Effect) error
	PopBackstack(e Effect) error
	OnLifecycleShow(dest Destination)
	OnLifecycleHide(dest Destination)
}

type disposer interface {
	Dispose()
}

// ExecutorFactory creates the executor registered under a name. It runs once
// per router, the first time a destination needs that executor.
type ExecutorFactory func(r *Router) (Executor, error)

// Screen is a screen instance produced for a NavEntry.
type Screen struct {
	Handle    transaction.ScreenHandle
	Lifecycle transaction.Lifecycle // may be nil
}

// ScreenFactory builds the screen for entry. The entry's Data and Result stay
// readable for the lifetime of the screen.
type ScreenFactory func(dest Destination, entry *NavEntry) (Screen, error)

// TemplateLoader realises a layout template reference as a screen handle.
// Text resources are decoded from charset.
type TemplateLoader func(ref, charset string) (transaction.ScreenHandle, error)

// Settings configures a Router.
type Settings struct {
	Container transaction.Container // content container used by the default executor
	Engine    anim.Engine           // defaults to a new *anim.Driver
	Logger    *slog.Logger          // defaults to the internal logger
	Backdrop  *transaction.Backdrop // optional backdrop for the default executor
}

func resolve(option, fallback string) string {
	if option != "" {
		return option
	}
	return fallback
}
