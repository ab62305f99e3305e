// Command wayfinder-demo opens an SDL window and navigates between coloured
// panels. Return moves to the next destination, Home pops back to the home
// screen and Escape (or the evdev back key) pops once.
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/args"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/config"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/constants"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/evdevback"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/router"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/sdlhost"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/transaction"
)

//go:embed nav.toml
var defaultGraph []byte

var palette = []sdl.Color{
	{R: 0x26, G: 0x46, B: 0x53, A: 0xff},
	{R: 0x2a, G: 0x9d, B: 0x8f, A: 0xff},
	{R: 0xe9, G: 0xc4, B: 0x6a, A: 0xff},
	{R: 0xf4, G: 0xa2, B: 0x61, A: 0xff},
	{R: 0xe7, G: 0x6f, B: 0x51, A: 0xff},
}

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "navigation config file (default: built-in graph)")
	backDevice := flag.String("back-device", os.Getenv(constants.BackDeviceEnvVar), "evdev device of the hardware back key")
	flag.Parse()

	defer wayfinder.Close()
	logger := wayfinder.GetLogger()

	host, err := sdlhost.New(sdlhost.Options{Title: "wayfinder demo"})
	if err != nil {
		logger.Error("Failed to open window", "error", err)
		return 1
	}
	defer host.Close()

	r, err := newRouter(host, *configPath)
	if err != nil {
		logger.Error("Failed to set up router", "error", err)
		return 1
	}
	defer r.Dispose()

	host.OnBack(func() {
		if _, err := r.PopBackstack(nil, nil); err != nil {
			logger.Debug("Back ignored", "error", err)
		}
	})
	host.OnKey(func(key sdl.Keycode) {
		switch key {
		case sdl.K_RETURN:
			moveToNext(r)
		case sdl.K_HOME:
			if _, err := r.PopBackstackUpTo(r.Home(), false, nil, nil); err != nil {
				logger.Error("Failed to return home", "error", err)
			}
		}
	})
	host.OnVisibility(func(visible bool) {
		if visible {
			r.LifecycleShow()
		} else {
			r.LifecycleHide()
		}
	})

	var frame func()
	if *backDevice != "" {
		back, err := evdevback.Open(*backDevice, logger)
		if err != nil {
			logger.Error("Failed to open back key device", "error", err)
			return 1
		}
		defer back.Close()
		frame = func() { back.Dispatch(r) }
	}

	if err := r.Begin(); err != nil {
		logger.Error("Failed to show home", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := host.Run(ctx, frame); err != nil && ctx.Err() == nil {
		logger.Error("Host stopped", "error", err)
		return 1
	}
	return 0
}

func newRouter(host *sdlhost.Host, configPath string) (*router.Router, error) {
	r, err := wayfinder.New(wayfinder.Options{
		ConfigPath: configPath,
		Settings:   router.Settings{Container: host, Engine: host.Engine()},
	})
	if err != nil {
		return nil, err
	}

	if r.Home() == "" {
		f, err := config.Decode(defaultGraph, config.TOML)
		if err != nil {
			return nil, err
		}
		cfg, err := f.Config()
		if err != nil {
			return nil, err
		}
		if err := r.Load(cfg); err != nil {
			return nil, err
		}
	}

	r.SetTemplateLoader(host.TemplateLoader())
	if err := r.RegisterScreenFactory("panel", panel(r)); err != nil {
		return nil, err
	}

	r.OnNavigate(func(top *router.NavEntry) {
		host.SetTitle(fmt.Sprintf("wayfinder demo: %s (%d)", top.DestinationID(), r.Len()))
	})
	return r, nil
}

// panel draws a full screen block in the destination's colour with an inset
// frame, so stacked screens are easy to tell apart while they animate.
func panel(r *router.Router) router.ScreenFactory {
	index := make(map[string]int)
	for i, d := range r.Destinations() {
		index[d.ID] = i
	}

	return func(dest router.Destination, _ *router.NavEntry) (router.Screen, error) {
		c := palette[index[dest.ID]%len(palette)]
		screen := sdlhost.NewScreen(func(rd *sdl.Renderer, width, height int32) {
			rd.SetDrawColor(c.R, c.G, c.B, c.A)
			rd.FillRect(&sdl.Rect{W: width, H: height})
			rd.SetDrawColor(0xff, 0xff, 0xff, 0xc0)
			rd.DrawRect(&sdl.Rect{X: width / 10, Y: height / 10, W: width * 8 / 10, H: height * 8 / 10})
		})
		logger := r.Logger().With("destination", dest.ID)
		return router.Screen{Handle: screen, Lifecycle: transaction.Hooks{
			Show:    func() { logger.Debug("Screen shown") },
			Hide:    func() { logger.Debug("Screen hidden") },
			Destroy: func() { logger.Debug("Screen destroyed") },
		}}, nil
	}
}

// moveToNext opens the destination registered after the current one.
func moveToNext(r *router.Router) {
	dests := r.Destinations()
	top, ok := r.Current()
	if !ok || len(dests) == 0 {
		return
	}

	next := dests[0]
	for i, d := range dests {
		if d.ID == top.DestinationID() {
			next = dests[(i+1)%len(dests)]
			break
		}
	}

	var data *args.Argument
	if next.ArgumentSetID != "" {
		data = args.Of(map[string]any{"shelf_index": r.Len()})
	}
	if _, err := r.MoveTo(next.ID, data, nil); err != nil {
		r.Logger().Error("Navigation failed", "destination", next.ID, "error", err)
	}
}
