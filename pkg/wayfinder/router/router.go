package router

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/anim"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/args"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/backstack"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/constants"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/internal"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/locale"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/naverr"
)

// NavigateFunc is called with the new top entry after a navigation call
// changed it. top is nil once the backstack is empty.
type NavigateFunc func(top *NavEntry)

// Router resolves navigation requests against its registered destinations and
// drives its backstack and executors accordingly.
//
// A Router exclusively owns its registries, its backstack and the executors it
// created; Dispose tears all of them down. It is not safe for concurrent use.
type Router struct {
	settings Settings
	logger   *slog.Logger
	engine   anim.Engine
	factory  *anim.Factory

	destinations *destinationRegistry
	argumentSets *args.Registry
	animations   *anim.Registry

	executorFactories map[string]ExecutorFactory
	executors         map[string]Executor
	screenFactories   map[string]ScreenFactory
	templates         TemplateLoader

	home      string
	homeData  *args.Argument
	homeEnter string
	defaults  Animations

	stack     *backstack.Backstack[*NavEntry]
	listeners []navListener
	nextID    int
	moving    int
	topDirty  bool
	lastTop   *NavEntry
}

type navListener struct {
	id int
	fn NavigateFunc
}

// New creates a router. The default executor, a TransactionExecutor over
// settings.Container, is registered under constants.DefaultExecutor.
func New(settings Settings) *Router {
	logger := settings.Logger
	if logger == nil {
		logger = internal.GetInternalLogger()
	}
	engine := settings.Engine
	if engine == nil {
		engine = anim.NewDriver()
	}

	animations := anim.NewRegistry()
	r := &Router{
		settings:          settings,
		logger:            logger,
		engine:            engine,
		factory:           anim.NewFactory(animations, engine),
		destinations:      newDestinationRegistry(),
		argumentSets:      args.NewRegistry(),
		animations:        animations,
		executorFactories: map[string]ExecutorFactory{constants.DefaultExecutor: NewTransactionExecutor},
		executors:         make(map[string]Executor),
		screenFactories:   make(map[string]ScreenFactory),
		stack:             backstack.New[*NavEntry](),
	}
	r.stack.AddListener(backstack.Listener[*NavEntry]{
		TopChanged: func(*NavEntry, bool) {
			r.topDirty = true
			if r.moving == 0 {
				r.notify()
			}
		},
	})
	return r
}

// Engine returns the engine animations are played on. Hosts advance it once
// per frame when it is an *anim.Driver.
func (r *Router) Engine() anim.Engine { return r.engine }

// AnimationFactory builds the router's registered animations.
func (r *Router) AnimationFactory() *anim.Factory { return r.factory }

// Settings returns the settings the router was created with.
func (r *Router) Settings() Settings { return r.settings }

// Logger returns the router's logger.
func (r *Router) Logger() *slog.Logger { return r.logger }

// RegisterDestination adds d. Duplicate ids and destinations without a screen
// source are configuration errors.
func (r *Router) RegisterDestination(d Destination) error {
	return r.destinations.add(d)
}

// RegisterArgumentSet adds an argument set destinations can name as their
// default arguments.
func (r *Router) RegisterArgumentSet(set *args.Argument) error {
	return r.argumentSets.Register(set)
}

// RegisterAnimation adds an animation descriptor.
func (r *Router) RegisterAnimation(d anim.Descriptor) error {
	return r.animations.Register(d)
}

// RegisterExecutor adds an executor factory under name. The built-in default
// executor may be replaced until it is first used.
func (r *Router) RegisterExecutor(name string, f ExecutorFactory) error {
	const op = "register_executor"
	if name == "" || f == nil {
		return naverr.Configuration(op, name, "executor name and factory are required")
	}
	if _, exists := r.executorFactories[name]; exists {
		if name != constants.DefaultExecutor {
			return naverr.Configuration(op, name, "duplicate executor name")
		}
		if _, used := r.executors[name]; used {
			return naverr.Configuration(op, name, "default executor already in use")
		}
	}
	r.executorFactories[name] = f
	return nil
}

// RegisterScreenFactory adds a screen factory destinations can name as their source.
func (r *Router) RegisterScreenFactory(name string, f ScreenFactory) error {
	const op = "register_screen_factory"
	if name == "" || f == nil {
		return naverr.Configuration(op, name, "screen factory name and func are required")
	}
	if _, exists := r.screenFactories[name]; exists {
		return naverr.Configuration(op, name, "duplicate screen factory name")
	}
	r.screenFactories[name] = f
	return nil
}

// SetTemplateLoader sets the loader for destinations sourced from templates.
func (r *Router) SetTemplateLoader(l TemplateLoader) {
	r.templates = l
}

// SetHome sets the destination Begin navigates to, the data it is opened with
// and its enter animation.
func (r *Router) SetHome(id string, data *args.Argument, enterAnimation string) {
	r.home = id
	r.homeData = data
	r.homeEnter = enterAnimation
}

// SetDefaultAnimations sets the animations used when a call does not name one.
func (r *Router) SetDefaultAnimations(a Animations) {
	r.defaults = a
}

// OnNavigate registers fn to run whenever a navigation call leaves a
// different entry on top. It returns a function that removes fn again.
func (r *Router) OnNavigate(fn NavigateFunc) (remove func()) {
	id := r.nextID
	r.nextID++
	r.listeners = append(r.listeners, navListener{id: id, fn: fn})
	return func() {
		for i, l := range r.listeners {
			if l.id == id {
				r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
				return
			}
		}
	}
}

// Begin shows the home destination.
func (r *Router) Begin() error {
	const op = "begin"
	if r.home == "" {
		return naverr.Configuration(op, "", "no home destination set")
	}
	dest, ok := r.destinations.get(r.home)
	if !ok {
		return naverr.Configuration(op, r.home, "home destination is not registered")
	}
	if !r.stack.IsEmpty() {
		return naverr.Navigation(op, r.home, "router already started")
	}
	_, err := r.moveForward(dest, r.homeData, Options{EnterAnimation: r.homeEnter}, "", false)
	return err
}

// MoveTo navigates forward to the destination registered under id.
func (r *Router) MoveTo(id string, data *args.Argument, opts *Options) (*NavEntry, error) {
	dest, ok := r.destinations.get(id)
	if !ok {
		return nil, naverr.Navigation("move_to", id, "unknown destination")
	}
	return r.moveForward(dest, data, optionsOf(opts), "", false)
}

// MoveToDestination navigates forward to dest, which does not need to be registered.
func (r *Router) MoveToDestination(dest Destination, data *args.Argument, opts *Options) (*NavEntry, error) {
	if err := dest.validate("move_to"); err != nil {
		return nil, err
	}
	return r.moveForward(dest, data, optionsOf(opts), "", false)
}

// MovePoppingUpTo pops the backstack down to the topmost entry of popToID
// (and that entry too when inclusive is set) before navigating forward to id.
func (r *Router) MovePoppingUpTo(id, popToID string, inclusive bool, data *args.Argument, opts *Options) (*NavEntry, error) {
	dest, ok := r.destinations.get(id)
	if !ok {
		return nil, naverr.Navigation("move_popping_up_to", id, "unknown destination")
	}
	return r.moveForward(dest, data, optionsOf(opts), popToID, inclusive)
}

// PopBackstack returns to the entry below the top, handing it result.
// Popping a single-entry backstack is a navigation error.
func (r *Router) PopBackstack(result *args.Argument, opts *Options) (bool, error) {
	below, err := r.stack.Peek(1)
	if err != nil {
		return false, errLastEntry("pop_backstack")
	}
	return r.moveBackward(func(e *NavEntry) bool { return e == below }, false, result, optionsOf(opts))
}

// PopBackstackUpTo pops down to the topmost entry of targetID, popping that
// entry too when inclusive is set. It returns false without side effects when
// no entry matches. The bottom entry is never popped.
func (r *Router) PopBackstackUpTo(targetID string, inclusive bool, result *args.Argument, opts *Options) (bool, error) {
	return r.moveBackward(byDestination(targetID), inclusive, result, optionsOf(opts))
}

// Current returns the top entry.
func (r *Router) Current() (*NavEntry, bool) {
	e, err := r.stack.Peek(0)
	return e, err == nil
}

// Len returns the backstack size.
func (r *Router) Len() int {
	return r.stack.Len()
}

// Entries returns the backstack, bottom first.
func (r *Router) Entries() []*NavEntry {
	return r.stack.Entries()
}

// Destination returns the destination registered under id.
func (r *Router) Destination(id string) (Destination, bool) {
	return r.destinations.get(id)
}

// Destinations returns the registered destinations in registration order.
func (r *Router) Destinations() []Destination {
	out := make([]Destination, 0, len(r.destinations.order))
	for _, id := range r.destinations.order {
		d, _ := r.destinations.get(id)
		out = append(out, d)
	}
	return out
}

// Home returns the home destination id.
func (r *Router) Home() string {
	return r.home
}

// LifecycleShow re-displays the current screen without animation, for hosts
// whose container was detached and attached again.
func (r *Router) LifecycleShow() {
	if top, ok := r.Current(); ok {
		if x, err := r.executor(top.destination); err == nil {
			x.OnLifecycleShow(top.destination)
		}
	}
}

// LifecycleHide hides the current screen without animation.
func (r *Router) LifecycleHide() {
	if top, ok := r.Current(); ok {
		if x, err := r.executor(top.destination); err == nil {
			x.OnLifecycleHide(top.destination)
		}
	}
}

// CreateScreen builds the screen for entry from dest's source. Executors call
// it the first time they show an entry.
func (r *Router) CreateScreen(dest Destination, entry *NavEntry, opts Options) (Screen, error) {
	const op = "create_screen"
	if name := dest.Source.Factory; name != "" {
		f, ok := r.screenFactories[name]
		if !ok {
			return Screen{}, naverr.Configuration(op, dest.ID, "screen factory %q is not registered", name)
		}
		s, err := f(dest, entry)
		if err != nil {
			return Screen{}, fmt.Errorf("screen factory %q: %w", name, err)
		}
		if s.Handle == nil {
			return Screen{}, naverr.Configuration(op, dest.ID, "screen factory %q returned no handle", name)
		}
		return s, nil
	}

	if r.templates == nil {
		return Screen{}, naverr.Configuration(op, dest.ID, "no template loader for %q", dest.Source.Template)
	}
	h, err := r.templates(dest.Source.Template, opts.Charset)
	if err != nil {
		return Screen{}, fmt.Errorf("load template %q: %w", dest.Source.Template, err)
	}
	return Screen{Handle: h}, nil
}

// Dispose disposes every executor and entry and drops all listeners.
func (r *Router) Dispose() {
	names := make([]string, 0, len(r.executors))
	for name := range r.executors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if d, ok := r.executors[name].(disposer); ok {
			d.Dispose()
		}
	}
	clear(r.executors)
	r.listeners = nil
	r.stack.Dispose()
	r.lastTop = nil
}

func (r *Router) moveForward(dest Destination, data *args.Argument, opts Options, popToID string, popToInclusive bool) (*NavEntry, error) {
	existing, found := r.stack.FindFirst(byDestination(dest.ID))

	resolved, err := r.resolveArguments(dest, data, existing, found)
	if err != nil {
		return nil, err
	}
	x, err := r.executor(dest)
	if err != nil {
		return nil, err
	}

	r.moving++
	defer r.endMove()

	exit := resolve(opts.ExitAnimation, r.defaults.Exit)
	var errs []error

	popped := 0
	if popToID != "" {
		entries, err := r.popToTarget(byDestination(popToID), popToInclusive, opts)
		errs = append(errs, err)
		popped = len(entries)
		existing, found = r.stack.FindFirst(byDestination(dest.ID))
	}
	if popped == 0 {
		if top, ok := r.Current(); ok && !(dest.SingleTop && found && top == existing) {
			errs = append(errs, r.leave(top, exit, opts))
		}
	}

	var entry *NavEntry
	if dest.SingleTop && found {
		entry = existing
		entry.Data = resolved
		errs = append(errs, r.stack.BringToTop(entry))
	} else {
		entry = newEntry(dest, resolved)
		errs = append(errs, r.stack.Push(entry))
	}
	entry.title = r.title(dest, opts)

	r.logger.Debug("Navigate forward",
		"destination", dest.ID,
		"entry", entry.ID.String(),
		"reused", dest.SingleTop && found,
		"depth", r.stack.Len())

	errs = append(errs, x.Show(Effect{
		Destination: dest,
		Entry:       entry,
		Enter:       resolve(opts.EnterAnimation, r.defaults.Enter),
		Exit:        exit,
		Title:       entry.title,
		Options:     opts,
	}))
	return entry, errors.Join(errs...)
}

// leave takes the current top out of view before another entry is shown over
// it: popped when its destination is removed from history, hidden otherwise.
func (r *Router) leave(top *NavEntry, exit string, opts Options) error {
	x, err := r.executor(top.destination)
	if err != nil {
		return err
	}
	effect := Effect{Destination: top.destination, Entry: top, Exit: exit, Title: top.title, Options: opts}
	if !top.destination.RemoveFromHistory {
		return x.Hide(effect)
	}

	if _, err := r.stack.Pop(0); err != nil {
		return err
	}
	r.logger.Debug("Removed from history", "destination", top.DestinationID(), "entry", top.ID.String())
	return x.PopBackstack(effect)
}

func (r *Router) moveBackward(pred func(*NavEntry) bool, inclusive bool, result *args.Argument, opts Options) (bool, error) {
	if r.stack.Len() <= 1 {
		return false, errLastEntry("pop_backstack")
	}

	r.moving++
	defer r.endMove()

	popped, popErr := r.popToTarget(pred, inclusive, opts)
	if len(popped) == 0 {
		return false, popErr
	}

	top, ok := r.Current()
	if !ok {
		return true, popErr
	}
	top.Result = result
	top.title = r.title(top.destination, opts)

	r.logger.Debug("Navigate backward",
		"destination", top.DestinationID(),
		"popped", len(popped),
		"depth", r.stack.Len())

	x, err := r.executor(top.destination)
	if err != nil {
		return true, errors.Join(popErr, err)
	}
	err = x.Show(Effect{
		Destination:  top.destination,
		Entry:        top,
		Enter:        resolve(opts.PopEnterAnimation, r.defaults.PopEnter),
		Exit:         resolve(opts.PopExitAnimation, r.defaults.PopExit),
		PopBackstack: true,
		Title:        top.title,
		Options:      opts,
	})
	return true, errors.Join(popErr, err)
}

// popToTarget pops entries above the topmost match of pred, and the match
// itself when inclusive is set, handing each to its executor with the pop-exit
// animation. The bottom entry always stays.
func (r *Router) popToTarget(pred func(*NavEntry) bool, inclusive bool, opts Options) ([]*NavEntry, error) {
	match, ok := r.stack.FindFirst(pred)
	if !ok {
		return nil, nil
	}
	if inclusive && r.stack.Depth(func(e *NavEntry) bool { return e == match }) == r.stack.Len()-1 {
		inclusive = false
	}

	popped := r.stack.PopEntriesUpTo(pred, inclusive)
	exit := resolve(opts.PopExitAnimation, r.defaults.PopExit)

	var errs []error
	for _, e := range popped {
		x, err := r.executor(e.destination)
		if err != nil {
			// no executor ever saw e, so nothing else will release it
			e.Dispose()
		} else {
			err = x.PopBackstack(Effect{Destination: e.destination, Entry: e, Exit: exit, Title: e.title, Options: opts})
		}
		if err != nil {
			r.logger.Error("Pop effect failed", "destination", e.DestinationID(), "error", err)
			errs = append(errs, err)
		}
	}
	return popped, errors.Join(errs...)
}

// resolveArguments picks the data an entry is shown with: explicit data merged
// onto the destination's template, else the data of an existing single-top
// entry, else the bare template. The result is validated before it is used.
func (r *Router) resolveArguments(dest Destination, data *args.Argument, existing *NavEntry, found bool) (*args.Argument, error) {
	var base *args.Argument
	switch {
	case data != nil:
		tmpl, err := r.template(dest)
		if err != nil {
			return nil, err
		}
		base = tmpl.Merge(data)
	case found && dest.SingleTop && existing.Data != nil:
		base = existing.Data
	default:
		tmpl, err := r.template(dest)
		if err != nil {
			return nil, err
		}
		base = tmpl
	}

	if err := base.Accept(); err != nil {
		return nil, fmt.Errorf("destination %q: %w", dest.ID, err)
	}
	return base, nil
}

func (r *Router) template(dest Destination) (*args.Argument, error) {
	if dest.ArgumentSetID == "" {
		return args.New(""), nil
	}
	tmpl, ok := r.argumentSets.Template(dest.ArgumentSetID)
	if !ok {
		return nil, naverr.Configuration("resolve_arguments", dest.ID, "argument set %q is not registered", dest.ArgumentSetID)
	}
	return tmpl, nil
}

func (r *Router) executor(dest Destination) (Executor, error) {
	name := dest.executorName()
	if x, ok := r.executors[name]; ok {
		return x, nil
	}
	f, ok := r.executorFactories[name]
	if !ok {
		r.logger.Debug("Executor not registered, using default", "executor", name, "destination", dest.ID)
		name = constants.DefaultExecutor
		if x, ok := r.executors[name]; ok {
			return x, nil
		}
		f = r.executorFactories[name]
	}

	x, err := f(r)
	if err != nil {
		return nil, fmt.Errorf("executor %q: %w", name, err)
	}
	r.executors[name] = x
	return x, nil
}

func (r *Router) title(dest Destination, opts Options) string {
	return locale.Localize(opts.LocaleBundle, opts.Languages, dest.Title)
}

func (r *Router) endMove() {
	r.moving--
	if r.moving == 0 {
		r.notify()
	}
}

func (r *Router) notify() {
	if !r.topDirty {
		return
	}
	r.topDirty = false
	top, _ := r.Current()
	if top == r.lastTop {
		return
	}
	r.lastTop = top
	for _, l := range append([]navListener(nil), r.listeners...) {
		l.fn(top)
	}
}

func byDestination(id string) func(*NavEntry) bool {
	return func(e *NavEntry) bool { return e.DestinationID() == id }
}

func optionsOf(opts *Options) Options {
	if opts == nil {
		return Options{}
	}
	return *opts
}

func errLastEntry(op string) error {
	return naverr.Navigation(op, "", "cannot pop the last backstack entry")
}
