package router

import (
	"github.com/google/uuid"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/args"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/constants"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/naverr"
)

// Source names where a destination's screen comes from. At least one field
// must be set; Factory wins when both are.
type Source struct {
	Template string // layout template reference handed to the TemplateLoader
	Factory  string // name of a registered ScreenFactory
}

// Destination describes a navigable screen. It is registered once and never
// changes afterwards.
type Destination struct {
	ID            string
	Source        Source
	Title         string // message id, localised through Options.LocaleBundle
	ExecutorName  string // defaults to constants.DefaultExecutor
	ArgumentSetID string
	SingleTop     bool // reuse and promote an existing entry instead of pushing a duplicate
	// RemoveFromHistory pops the entry as soon as another destination is
	// shown on top of it, so back navigation skips it.
	RemoveFromHistory bool
}

func (d Destination) executorName() string {
	if d.ExecutorName == "" {
		return constants.DefaultExecutor
	}
	return d.ExecutorName
}

func (d Destination) validate(op string) error {
	if d.ID == "" {
		return naverr.Configuration(op, "", "destination id is required")
	}
	if d.Source.Template == "" && d.Source.Factory == "" {
		return naverr.Configuration(op, d.ID, "destination needs a template or a screen factory")
	}
	return nil
}

// NavEntry is one occurrence of a destination on the router's backstack.
// It carries the data the screen was opened with and the result handed back
// when a screen above it was popped.
type NavEntry struct {
	ID     uuid.UUID
	Data   *args.Argument
	Result *args.Argument

	destination Destination
	title       string
}

func newEntry(dest Destination, data *args.Argument) *NavEntry {
	return &NavEntry{
		ID:          uuid.New(),
		Data:        data,
		destination: dest,
	}
}

// DestinationID returns the id of the entry's destination.
func (e *NavEntry) DestinationID() string {
	return e.destination.ID
}

// Destination returns the destination the entry was created for.
func (e *NavEntry) Destination() Destination {
	return e.destination
}

// Title returns the localised title resolved when the entry was last shown.
func (e *NavEntry) Title() string {
	return e.title
}

// Dispose releases the entry's data and result.
func (e *NavEntry) Dispose() {
	e.Data = nil
	e.Result = nil
}
