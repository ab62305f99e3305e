package router_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/anim"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/args"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/internal"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/internal/navtest"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/locale"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/naverr"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/router"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/transaction"
)

type fixture struct {
	r         *router.Router
	log       *navtest.Log
	driver    *anim.Driver
	container *navtest.Container
}

func screenSource() router.Source {
	return router.Source{Factory: "screen"}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := &navtest.Log{}
	driver := anim.NewDriver()
	container := navtest.NewContainer(log)
	r := router.New(router.Settings{Container: container, Engine: driver, Logger: internal.Discard()})

	require.NoError(t, r.RegisterScreenFactory("screen", func(dest router.Destination, entry *router.NavEntry) (router.Screen, error) {
		return router.Screen{Handle: navtest.NewScreen(dest.ID), Lifecycle: navtest.Lifecycle(log, dest.ID)}, nil
	}))

	item := args.New("item")
	require.NoError(t, item.Define(args.NameValue{Name: "id", Type: args.TypeInt, Required: true}))
	require.NoError(t, item.Define(args.NameValue{Name: "label", Type: args.TypeString}))
	require.NoError(t, r.RegisterArgumentSet(item))

	for _, d := range []router.Destination{
		{ID: "home", Source: screenSource()},
		{ID: "detail", Source: screenSource(), Title: "detail.title"},
		{ID: "settings", Source: screenSource()},
		{ID: "splash", Source: screenSource(), RemoveFromHistory: true},
		{ID: "item", Source: screenSource(), SingleTop: true, ArgumentSetID: "item"},
	} {
		require.NoError(t, r.RegisterDestination(d))
	}
	r.SetHome("home", nil, "")
	return &fixture{r: r, log: log, driver: driver, container: container}
}

func (f *fixture) ids() []string {
	entries := f.r.Entries()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.DestinationID())
	}
	return out
}

func (f *fixture) current(t *testing.T) string {
	t.Helper()
	top, ok := f.r.Current()
	require.True(t, ok)
	return top.DestinationID()
}

func TestBeginRequiresHome(t *testing.T) {
	r := router.New(router.Settings{Logger: internal.Discard()})
	assert.True(t, naverr.IsConfiguration(r.Begin()))

	r.SetHome("missing", nil, "")
	assert.True(t, naverr.IsConfiguration(r.Begin()))
}

func TestBeginTwiceFails(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.Begin())
	assert.True(t, naverr.IsNavigation(f.r.Begin()))
}

func TestMoveToDetailAndBack(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.Begin())
	_, err := f.r.MoveTo("detail", nil, nil)
	require.NoError(t, err)

	popped, err := f.r.PopBackstack(nil, nil)
	require.NoError(t, err)
	assert.True(t, popped)
	assert.Equal(t, "home", f.current(t))
	assert.Equal(t, 1, f.r.Len())

	assert.Equal(t, []string{
		"create:home", "attach:home", "before-show:home", "show:home",
		"detach:home", "hide:home",
		"create:detail", "attach:detail", "before-show:detail", "show:detail",
		"detach:detail", "destroy:detail",
		"attach:home", "before-show:home", "show:home",
	}, f.log.Events())
	assert.Equal(t, []string{"home"}, f.container.Names())
}

func TestRemoveFromHistorySkipsSplashOnBack(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.Begin())
	_, err := f.r.MoveTo("splash", nil, nil)
	require.NoError(t, err)
	_, err = f.r.MoveTo("detail", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"home", "detail"}, f.ids())

	popped, err := f.r.PopBackstack(nil, nil)
	require.NoError(t, err)
	assert.True(t, popped)
	assert.Equal(t, "home", f.current(t))
	assert.Equal(t, 1, f.r.Len())
	assert.Equal(t, []string{"destroy:splash", "destroy:detail"}, f.log.Matching("destroy:"))
	assert.Len(t, f.log.Matching("show:splash"), 1)
}

func TestSingleTopReusesEntryAndKeepsData(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.Begin())

	first, err := f.r.MoveTo("item", args.Of(map[string]any{"id": 7}), nil)
	require.NoError(t, err)
	_, err = f.r.MoveTo("detail", nil, nil)
	require.NoError(t, err)
	size := f.r.Len()

	again, err := f.r.MoveTo("item", nil, nil)
	require.NoError(t, err)

	assert.Same(t, first, again)
	assert.Equal(t, size, f.r.Len(), "no duplicate entry")
	assert.Equal(t, []string{"home", "detail", "item"}, f.ids())
	id, _ := again.Data.Get("id")
	assert.Equal(t, 7, id)
	assert.Len(t, f.log.Matching("create:item"), 1, "the screen is reused")
}

func TestArgumentPrecedence(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.Begin())

	_, err := f.r.MoveTo("item", args.Of(map[string]any{"id": 7, "label": "first"}), nil)
	require.NoError(t, err)

	t.Run("explicit data starts from the template", func(t *testing.T) {
		e, err := f.r.MoveTo("item", args.Of(map[string]any{"id": 9}), nil)
		require.NoError(t, err)
		id, _ := e.Data.Get("id")
		label, _ := e.Data.Get("label")
		assert.Equal(t, 9, id)
		assert.Nil(t, label)
	})

	t.Run("extra keys are added", func(t *testing.T) {
		e, err := f.r.MoveTo("item", args.Of(map[string]any{"id": 1, "extra": true}), nil)
		require.NoError(t, err)
		extra, ok := e.Data.Get("extra")
		assert.True(t, ok)
		assert.Equal(t, true, extra)
	})
}

func TestInvalidArgumentsHaveNoSideEffects(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.Begin())
	f.log.Reset()

	_, err := f.r.MoveTo("item", args.Of(map[string]any{"id": "seven"}), nil)
	assert.True(t, naverr.IsArgument(err))

	_, err = f.r.MoveTo("item", nil, nil)
	assert.True(t, naverr.IsArgument(err), "required id missing from the bare template")

	assert.Equal(t, 1, f.r.Len())
	assert.Empty(t, f.log.Events())
}

func TestPopOnSingleEntryFails(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.Begin())

	popped, err := f.r.PopBackstack(nil, nil)
	assert.False(t, popped)
	assert.True(t, naverr.IsNavigation(err))

	popped, err = f.r.PopBackstackUpTo("home", true, nil, nil)
	assert.False(t, popped)
	assert.True(t, naverr.IsNavigation(err))
}

func TestPopUpToMissingTargetIsSoft(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.Begin())
	_, err := f.r.MoveTo("detail", nil, nil)
	require.NoError(t, err)
	f.log.Reset()

	popped, err := f.r.PopBackstackUpTo("nowhere", false, nil, nil)
	assert.NoError(t, err)
	assert.False(t, popped)
	assert.Equal(t, 2, f.r.Len())
	assert.Empty(t, f.log.Events())
}

func TestPopUpToHomeInclusiveKeepsHome(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.Begin())
	for _, id := range []string{"detail", "settings"} {
		_, err := f.r.MoveTo(id, nil, nil)
		require.NoError(t, err)
	}

	popped, err := f.r.PopBackstackUpTo("home", true, nil, nil)
	require.NoError(t, err)
	assert.True(t, popped)
	assert.Equal(t, []string{"home"}, f.ids())
	assert.Equal(t, []string{"destroy:settings", "destroy:detail"}, f.log.Matching("destroy:"))
	assert.Equal(t, []string{"home"}, f.container.Names())
}

func TestPopBackstackHandsResultToNewTop(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.Begin())
	_, err := f.r.MoveTo("detail", nil, nil)
	require.NoError(t, err)

	_, err = f.r.PopBackstack(args.Of(map[string]any{"picked": "portal"}), nil)
	require.NoError(t, err)

	home, _ := f.r.Current()
	picked, ok := home.Result.Get("picked")
	assert.True(t, ok)
	assert.Equal(t, "portal", picked)
}

func TestMovePoppingUpTo(t *testing.T) {
	tests := []struct {
		name      string
		inclusive bool
		want      []string
	}{
		{"exclusive", false, []string{"home", "detail", "item"}},
		{"inclusive", true, []string{"home", "item"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.r.Begin())
			for _, id := range []string{"detail", "settings"} {
				_, err := f.r.MoveTo(id, nil, nil)
				require.NoError(t, err)
			}
			f.log.Reset()

			_, err := f.r.MovePoppingUpTo("item", "detail", tt.inclusive, args.Of(map[string]any{"id": 1}), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.ids())
			assert.Empty(t, f.log.Matching("attach:detail"), "the popped-to entry is not shown again")
			assert.Equal(t, []string{"item"}, f.container.Names())
		})
	}
}

func TestMoveToUnknownDestination(t *testing.T) {
	f := newFixture(t)
	_, err := f.r.MoveTo("nope", nil, nil)
	assert.True(t, naverr.IsNavigation(err))
	_, err = f.r.MovePoppingUpTo("nope", "home", false, nil, nil)
	assert.True(t, naverr.IsNavigation(err))
}

func TestMoveToDestinationValidates(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.Begin())

	_, err := f.r.MoveToDestination(router.Destination{ID: "adhoc"}, nil, nil)
	assert.True(t, naverr.IsConfiguration(err))

	e, err := f.r.MoveToDestination(router.Destination{ID: "adhoc", Source: screenSource()}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "adhoc", e.DestinationID())
	assert.Equal(t, []string{"home", "adhoc"}, f.ids())
}

func TestRepeatedDestinationGetsDistinctScreens(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.Begin())
	_, err := f.r.MoveTo("detail", nil, nil)
	require.NoError(t, err)
	_, err = f.r.MoveTo("home", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"home", "detail", "home"}, f.ids())
	assert.Len(t, f.log.Matching("create:home"), 2)

	_, err = f.r.PopBackstack(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "detail", f.current(t))
	assert.Equal(t, []string{"detail"}, f.container.Names())
}

func TestDuplicateRegistrations(t *testing.T) {
	f := newFixture(t)
	assert.True(t, naverr.IsConfiguration(f.r.RegisterDestination(router.Destination{ID: "home", Source: screenSource()})))
	assert.True(t, naverr.IsConfiguration(f.r.RegisterDestination(router.Destination{ID: "nosource"})))
	assert.True(t, naverr.IsConfiguration(f.r.RegisterArgumentSet(args.New("item"))))
	assert.True(t, naverr.IsConfiguration(f.r.RegisterScreenFactory("screen", func(router.Destination, *router.NavEntry) (router.Screen, error) {
		return router.Screen{}, nil
	})))
	assert.True(t, naverr.IsConfiguration(f.r.RegisterExecutor("", nil)))
}

type recorder struct {
	effects []string
}

func (r *recorder) record(kind string, e router.Effect) error {
	r.effects = append(r.effects, fmt.Sprintf("%s %s enter=%s exit=%s pop=%t", kind, e.Destination.ID, e.Enter, e.Exit, e.PopBackstack))
	return nil
}

func (r *recorder) Show(e router.Effect) error         { return r.record("show", e) }
func (r *recorder) Hide(e router.Effect) error         { return r.record("hide", e) }
func (r *recorder) PopBackstack(e router.Effect) error { return r.record("pop", e) }
func (r *recorder) OnLifecycleShow(d router.Destination) {
	r.effects = append(r.effects, "lifecycle-show "+d.ID)
}
func (r *recorder) OnLifecycleHide(d router.Destination) {
	r.effects = append(r.effects, "lifecycle-hide "+d.ID)
}

func newRecordingRouter(t *testing.T) (*router.Router, *recorder) {
	t.Helper()
	rec := &recorder{}
	r := router.New(router.Settings{Logger: internal.Discard()})
	require.NoError(t, r.RegisterExecutor("recorder", func(*router.Router) (router.Executor, error) { return rec, nil }))
	for _, id := range []string{"a", "b"} {
		require.NoError(t, r.RegisterDestination(router.Destination{ID: id, Source: router.Source{Template: id}, ExecutorName: "recorder"}))
	}
	r.SetHome("a", nil, "")
	return r, rec
}

func TestAnimationResolution(t *testing.T) {
	r, rec := newRecordingRouter(t)
	r.SetDefaultAnimations(router.Animations{Enter: "fade-in", Exit: "fade-out", PopEnter: "pop-in", PopExit: "pop-out"})

	require.NoError(t, r.Begin())
	_, err := r.MoveTo("b", nil, &router.Options{EnterAnimation: "slide-in"})
	require.NoError(t, err)
	_, err = r.PopBackstack(nil, &router.Options{PopExitAnimation: "none"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"show a enter=fade-in exit=fade-out pop=false",
		"hide a enter= exit=fade-out pop=false",
		"show b enter=slide-in exit=fade-out pop=false",
		"pop b enter= exit=none pop=false",
		"show a enter=pop-in exit=none pop=true",
	}, rec.effects)
}

func TestAnimationResolutionWithoutDefaults(t *testing.T) {
	r, rec := newRecordingRouter(t)
	r.SetHome("a", nil, "home-in")

	require.NoError(t, r.Begin())
	_, err := r.MoveTo("b", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"show a enter=home-in exit= pop=false",
		"hide a enter= exit= pop=false",
		"show b enter= exit= pop=false",
	}, rec.effects)
}

func TestLifecycleGoesToTopExecutor(t *testing.T) {
	r, rec := newRecordingRouter(t)
	require.NoError(t, r.Begin())
	rec.effects = nil

	r.LifecycleHide()
	r.LifecycleShow()
	assert.Equal(t, []string{"lifecycle-hide a", "lifecycle-show a"}, rec.effects)
}

func TestLifecycleForcesDefaultExecutor(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.Begin())
	f.log.Reset()

	f.r.LifecycleHide()
	f.r.LifecycleShow()
	assert.Equal(t, []string{"detach:home", "hide:home", "attach:home", "before-show:home", "show:home"}, f.log.Events())
}

func TestUnknownExecutorFallsBackToDefault(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.RegisterDestination(router.Destination{ID: "odd", Source: screenSource(), ExecutorName: "missing"}))
	require.NoError(t, f.r.Begin())

	_, err := f.r.MoveTo("odd", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"odd"}, f.container.Names())
}

func TestAnimatedNavigation(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.RegisterAnimation(anim.Descriptor{Name: "fade-in", Kind: anim.KindFade, Duration: 200 * time.Millisecond, From: 0, To: 1}))
	require.NoError(t, f.r.RegisterAnimation(anim.Descriptor{Name: "fade-out", Kind: anim.KindFade, Duration: 200 * time.Millisecond, From: 1, To: 0}))
	f.r.SetDefaultAnimations(router.Animations{Enter: "fade-in", Exit: "fade-out", PopEnter: "fade-in", PopExit: "fade-out"})

	require.NoError(t, f.r.Begin())
	f.driver.Settle(16*time.Millisecond, 100)
	f.log.Reset()

	_, err := f.r.MoveTo("detail", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"create:detail", "attach:detail", "before-show:detail"}, f.log.Events(), "returns before animations finish")
	assert.Equal(t, []string{"home", "detail"}, f.container.Names())

	f.driver.Settle(16*time.Millisecond, 100)
	assert.ElementsMatch(t, []string{
		"create:detail", "attach:detail", "before-show:detail",
		"show:detail", "detach:home", "hide:home",
	}, f.log.Events())
	assert.Zero(t, f.driver.Active())
}

func TestPoppedEntryDataOutlivesExitAnimation(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.RegisterAnimation(anim.Descriptor{Name: "fade-out", Kind: anim.KindFade, Duration: 200 * time.Millisecond, From: 1, To: 0}))
	f.r.SetDefaultAnimations(router.Animations{PopExit: "fade-out"})

	require.NoError(t, f.r.Begin())
	e, err := f.r.MoveTo("item", args.Of(map[string]any{"id": 3}), nil)
	require.NoError(t, err)
	f.driver.Settle(16*time.Millisecond, 100)

	_, err = f.r.PopBackstack(nil, nil)
	require.NoError(t, err)
	require.NotNil(t, e.Data, "screen is still animating out")
	id, _ := e.Data.Get("id")
	assert.Equal(t, 3, id)
	assert.Contains(t, f.container.Names(), "item")

	f.driver.Settle(16*time.Millisecond, 100)
	assert.Equal(t, []string{"destroy:item"}, f.log.Matching("destroy:"))
	assert.Nil(t, e.Data)
}

func TestDisposeReleasesEntriesStillLeaving(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.RegisterAnimation(anim.Descriptor{Name: "fade-out", Kind: anim.KindFade, Duration: 200 * time.Millisecond, From: 1, To: 0}))
	f.r.SetDefaultAnimations(router.Animations{PopExit: "fade-out"})

	require.NoError(t, f.r.Begin())
	e, err := f.r.MoveTo("item", args.Of(map[string]any{"id": 3}), nil)
	require.NoError(t, err)
	_, err = f.r.PopBackstack(nil, nil)
	require.NoError(t, err)
	require.NotNil(t, e.Data)

	f.r.Dispose()
	assert.Nil(t, e.Data)
}

func TestNavigationIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := &navtest.Log{}
	r := router.New(router.Settings{
		Container: navtest.NewContainer(log),
		Engine:    anim.NewDriver(),
		Logger:    slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
	require.NoError(t, r.RegisterScreenFactory("screen", func(dest router.Destination, entry *router.NavEntry) (router.Screen, error) {
		return router.Screen{Handle: navtest.NewScreen(dest.ID)}, nil
	}))
	require.NoError(t, r.RegisterDestination(router.Destination{ID: "home", Source: screenSource()}))
	require.NoError(t, r.RegisterDestination(router.Destination{ID: "splash", Source: screenSource(), RemoveFromHistory: true}))
	require.NoError(t, r.RegisterDestination(router.Destination{ID: "detail", Source: screenSource()}))
	r.SetHome("home", nil, "")

	require.NoError(t, r.Begin())
	_, err := r.MoveTo("splash", nil, nil)
	require.NoError(t, err)
	_, err = r.MoveTo("detail", nil, nil)
	require.NoError(t, err)
	_, err = r.PopBackstack(nil, nil)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="Navigate forward" destination=detail`)
	assert.Contains(t, out, `msg="Removed from history" destination=splash`)
	assert.Contains(t, out, `msg="Navigate backward" destination=home`)
	assert.Contains(t, out, `msg="Transaction commit"`)
}

func TestOnNavigateReportsSettledTop(t *testing.T) {
	f := newFixture(t)
	var seen []string
	remove := f.r.OnNavigate(func(top *router.NavEntry) {
		if top == nil {
			seen = append(seen, "<empty>")
			return
		}
		seen = append(seen, top.DestinationID())
	})

	require.NoError(t, f.r.Begin())
	_, err := f.r.MoveTo("splash", nil, nil)
	require.NoError(t, err)
	_, err = f.r.MoveTo("detail", nil, nil)
	require.NoError(t, err)
	_, err = f.r.PopBackstack(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"home", "splash", "detail", "home"}, seen)

	remove()
	_, err = f.r.MoveTo("settings", nil, nil)
	require.NoError(t, err)
	assert.Len(t, seen, 4)
}

func TestTitlesAreLocalised(t *testing.T) {
	f := newFixture(t)
	bundle, err := locale.NewBundle("en")
	require.NoError(t, err)
	require.NoError(t, locale.LoadBytes(bundle, "titles.de.toml", []byte(`"detail.title" = "Einzelheiten"`), ""))

	require.NoError(t, f.r.Begin())
	e, err := f.r.MoveTo("detail", nil, &router.Options{LocaleBundle: bundle, Languages: []string{"de"}})
	require.NoError(t, err)
	assert.Equal(t, "Einzelheiten", e.Title())

	e, err = f.r.MoveTo("settings", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, e.Title())
}

func TestTemplateSource(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.RegisterDestination(router.Destination{ID: "about", Source: router.Source{Template: "layouts/about.svg"}}))
	require.NoError(t, f.r.Begin())

	_, err := f.r.MoveTo("about", nil, nil)
	assert.True(t, naverr.IsConfiguration(err), "no template loader set")

	var loaded []string
	f.r.SetTemplateLoader(func(ref, charset string) (transaction.ScreenHandle, error) {
		loaded = append(loaded, ref+"@"+charset)
		return navtest.NewScreen(ref), nil
	})
	_, err = f.r.MoveTo("settings", nil, nil)
	require.NoError(t, err)
	_, err = f.r.MoveTo("about", nil, &router.Options{Charset: "latin1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"layouts/about.svg@latin1"}, loaded)
	assert.Equal(t, []string{"layouts/about.svg"}, f.container.Names())
}

func TestLoadIsAtomic(t *testing.T) {
	f := newFixture(t)

	err := f.r.Load(router.Config{
		Destinations: []router.Destination{{ID: "x", Source: screenSource()}},
		Animations: []anim.Descriptor{
			{Name: "both", Kind: anim.KindCompound, Mode: anim.ModeParallel, Children: []string{"ghost"}},
		},
	})
	assert.True(t, naverr.IsConfiguration(err))
	_, ok := f.r.Destination("x")
	assert.False(t, ok)

	err = f.r.Load(router.Config{
		Destinations: []router.Destination{{ID: "y", Source: screenSource(), ArgumentSetID: "ghost"}},
	})
	assert.True(t, naverr.IsConfiguration(err))

	err = f.r.Load(router.Config{
		Destinations: []router.Destination{{ID: "z", Source: screenSource()}, {ID: "home", Source: screenSource()}},
	})
	assert.True(t, naverr.IsConfiguration(err), "duplicate of an already registered destination")
	_, ok = f.r.Destination("z")
	assert.False(t, ok)

	err = f.r.Load(router.Config{Home: "ghost"})
	assert.True(t, naverr.IsConfiguration(err))
	assert.Equal(t, "home", f.r.Home())
}

func TestLoadRegistersEverything(t *testing.T) {
	r := router.New(router.Settings{Container: navtest.NewContainer(nil), Logger: internal.Discard()})
	require.NoError(t, r.RegisterScreenFactory("screen", func(dest router.Destination, _ *router.NavEntry) (router.Screen, error) {
		return router.Screen{Handle: navtest.NewScreen(dest.ID)}, nil
	}))

	greeting := args.New("greeting")
	require.NoError(t, greeting.Define(args.NameValue{Name: "name", Type: args.TypeString, Required: true}))

	require.NoError(t, r.Load(router.Config{
		Home:               "start",
		HomeData:           args.Of(map[string]any{"name": "Ada"}),
		HomeEnterAnimation: "fade",
		Defaults:           router.Animations{Enter: "fade"},
		Destinations: []router.Destination{
			{ID: "start", Source: screenSource(), ArgumentSetID: "greeting"},
			{ID: "next", Source: screenSource()},
		},
		Animations:   []anim.Descriptor{{Name: "fade", Kind: anim.KindFade, From: 0, To: 1}},
		ArgumentSets: []*args.Argument{greeting},
	}))

	require.NoError(t, r.Begin())
	top, ok := r.Current()
	require.True(t, ok)
	name, _ := top.Data.Get("name")
	assert.Equal(t, "Ada", name)
	assert.Len(t, r.Destinations(), 2)
}

func TestDisposeTearsDownEverything(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.Begin())
	e, err := f.r.MoveTo("item", args.Of(map[string]any{"id": 3}), nil)
	require.NoError(t, err)

	f.r.Dispose()

	assert.Equal(t, []string{"destroy:item", "destroy:home"}, f.log.Matching("destroy:"))
	assert.Zero(t, f.r.Len())
	assert.Nil(t, e.Data)
	assert.Empty(t, f.container.Names())
}
