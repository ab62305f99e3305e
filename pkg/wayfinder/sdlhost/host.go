// Package sdlhost runs a router on an SDL2 window.
//
// A Host is the content container of the default executor and owns the
// animation driver. The application hands both to the router and then calls
// Step (or Run) once per frame from the thread that created the Host:
//
//	host, err := sdlhost.New(sdlhost.Options{Title: "Library"})
//	if err != nil {
//	    return err
//	}
//	defer host.Close()
//
//	r := router.New(router.Settings{Container: host, Engine: host.Engine()})
//	r.SetTemplateLoader(host.TemplateLoader())
//	host.OnBack(func() { r.PopBackstack(nil, nil) })
//	...
//	return host.Run(ctx, nil)
package sdlhost

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/anim"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/constants"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/internal"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/transaction"
)

// Host is an SDL window acting as a transaction.Container. It is not safe for
// concurrent use.
type Host struct {
	window     *sdl.Window
	renderer   *sdl.Renderer
	background *sdl.Texture
	scratch    *sdl.Texture // render target for drawn screens
	cache      *textureCache
	driver     *anim.Driver
	logger     *slog.Logger

	layers []transaction.ScreenHandle // bottom first
	back   func()
	keys   func(sdl.Keycode)
	shown  func(visible bool)

	width, height   int32
	hasVSync        bool
	lastPresentTime uint64
	lastTick        uint64
}

// New initialises SDL and opens the window.
func New(opts Options) (*Host, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("init sdl: %w", err)
	}
	if err := img.Init(img.INIT_PNG | img.INIT_JPG); err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("init sdl_image: %w", err)
	}

	h := &Host{
		cache:  newTextureCache(opts.cacheSize()),
		driver: anim.NewDriver(),
		logger: internal.GetInternalLogger(),
	}
	if err := h.initWindow(opts); err != nil {
		img.Quit()
		sdl.Quit()
		return nil, err
	}
	h.loadBackground(opts.BackgroundPath)
	return h, nil
}

func (h *Host) initWindow(opts Options) error {
	winOpts := opts.Window
	if winOpts.IsZero() {
		winOpts = WindowOptions{Resizable: true}
	}

	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		mode, err := sdl.GetCurrentDisplayMode(0)
		if err != nil {
			h.logger.Error("Failed to get display mode", "error", err)
			mode.W, mode.H = 1024, 768
		}
		width, height = mode.W, mode.H
	}

	x, y := int32(0), int32(0)
	if constants.IsDevMode() {
		winOpts.Borderless = false
		x, y = 50, 50
		width = h.envSize(constants.WindowWidthEnvVar, 1024)
		height = h.envSize(constants.WindowHeightEnvVar, 768)
	}

	h.logger.Debug("Initializing SDL window", "width", width, "height", height)

	title := opts.Title
	if title == "" {
		title = "wayfinder"
	}
	window, err := sdl.CreateWindow(title, x, y, width, height, winOpts.ToSDLFlags())
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC|sdl.RENDERER_TARGETTEXTURE)
	if err != nil {
		window.Destroy()
		return fmt.Errorf("create renderer: %w", err)
	}
	renderer.SetLogicalSize(width, height)

	info, err := renderer.GetInfo()
	h.hasVSync = err == nil && info.Flags&sdl.RENDERER_PRESENTVSYNC != 0

	h.window, h.renderer = window, renderer
	h.width, h.height = width, height
	return nil
}

func (h *Host) envSize(name string, fallback int32) int32 {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil || n <= 0 {
		h.logger.Warn("Invalid window size; using default", "variable", name, "value", v, "error", err)
		return fallback
	}
	return int32(n)
}

func (h *Host) loadBackground(path string) {
	if path == "" {
		path = os.Getenv(constants.BackgroundPathEnvVar)
	}
	if path == "" {
		return
	}
	texture, err := img.LoadTexture(h.renderer, path)
	if err != nil {
		h.logger.Warn("Failed to load background", "path", path, "error", err)
		return
	}
	h.background = texture
}

// Engine returns the driver the router should schedule animations on.
func (h *Host) Engine() *anim.Driver {
	return h.driver
}

// Size returns the logical size screens are laid out in.
func (h *Host) Size() (width, height int32) {
	return h.width, h.height
}

// SetTitle changes the window title.
func (h *Host) SetTitle(title string) {
	h.window.SetTitle(title)
}

// OnBack sets the callback run when the window receives a back key press.
func (h *Host) OnBack(fn func()) {
	h.back = fn
}

// OnKey sets the callback run for every other key press.
func (h *Host) OnKey(fn func(key sdl.Keycode)) {
	h.keys = fn
}

// OnVisibility sets the callback run when the window is hidden, minimized,
// shown or restored. Routers forward it to LifecycleHide and LifecycleShow.
func (h *Host) OnVisibility(fn func(visible bool)) {
	h.shown = fn
}

// Attach places screen on top, moving it there if already attached.
func (h *Host) Attach(screen transaction.ScreenHandle) {
	h.Detach(screen)
	h.layers = append(h.layers, screen)
}

func (h *Host) Detach(screen transaction.ScreenHandle) {
	for i, s := range h.layers {
		if s == screen {
			h.layers = append(h.layers[:i], h.layers[i+1:]...)
			return
		}
	}
}

// Tick advances the animation driver by the time elapsed since the previous
// tick.
func (h *Host) Tick() {
	now := sdl.GetTicks64()
	if h.lastTick != 0 {
		h.driver.Advance(time.Duration(now-h.lastTick) * time.Millisecond)
	}
	h.lastTick = now
}

// Step handles pending window events, advances animations and draws one
// frame. It returns false once the window was asked to close.
func (h *Host) Step() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			h.handleKey(e)
		case *sdl.WindowEvent:
			h.handleWindow(e)
		}
	}

	h.Tick()
	h.Render()
	h.Present()
	return true
}

// Run calls Step until the window closes or ctx is done. frame, if set, runs
// before every step on the UI thread.
func (h *Host) Run(ctx context.Context, frame func()) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if frame != nil {
			frame()
		}
		if !h.Step() {
			return nil
		}
	}
}

func (h *Host) handleKey(e *sdl.KeyboardEvent) {
	switch {
	case isBackKey(e):
		if h.back != nil {
			h.back()
		}
	case e.State == sdl.PRESSED && e.Repeat == 0:
		if h.keys != nil {
			h.keys(e.Keysym.Sym)
		}
	}
}

func (h *Host) handleWindow(e *sdl.WindowEvent) {
	if h.shown == nil {
		return
	}
	switch e.Event {
	case sdl.WINDOWEVENT_SHOWN, sdl.WINDOWEVENT_RESTORED:
		h.shown(true)
	case sdl.WINDOWEVENT_HIDDEN, sdl.WINDOWEVENT_MINIMIZED:
		h.shown(false)
	}
}

func isBackKey(e *sdl.KeyboardEvent) bool {
	if e.State != sdl.PRESSED || e.Repeat != 0 {
		return false
	}
	switch e.Keysym.Sym {
	case sdl.K_ESCAPE, sdl.K_AC_BACK, sdl.K_BACKSPACE:
		return true
	}
	return false
}

// Render draws the background and every attached screen, bottom first.
func (h *Host) Render() {
	h.renderer.SetDrawColor(0, 0, 0, 255)
	h.renderer.Clear()

	if h.background != nil {
		h.renderer.Copy(h.background, nil, &sdl.Rect{W: h.width, H: h.height})
	}

	for _, layer := range h.layers {
		screen, ok := layer.(*Screen)
		if !ok {
			continue
		}
		if err := h.renderScreen(screen); err != nil {
			h.logger.Error("Failed to render screen", "screen", screen.name(), "error", err)
		}
	}
}

func (h *Host) renderScreen(s *Screen) error {
	f := s.frame
	if f.Opacity <= 0 || f.Scale <= 0 {
		return nil
	}

	texture, err := h.textureOf(s)
	if err != nil || texture == nil {
		return err
	}

	if err := texture.SetBlendMode(sdl.BLENDMODE_BLEND); err != nil {
		return err
	}
	if err := texture.SetAlphaMod(uint8(min(f.Opacity, 1) * 255)); err != nil {
		return err
	}
	return h.renderer.Copy(texture, nil, frameRect(f, h.width, h.height))
}

// textureOf returns the texture holding the screen's pixels for this frame.
func (h *Host) textureOf(s *Screen) (*sdl.Texture, error) {
	if s.draw == nil {
		return h.template(s.ref, s.charset)
	}

	if h.scratch == nil {
		scratch, err := h.renderer.CreateTexture(sdl.PIXELFORMAT_RGBA8888, sdl.TEXTUREACCESS_TARGET, h.width, h.height)
		if err != nil {
			return nil, fmt.Errorf("create render target: %w", err)
		}
		h.scratch = scratch
	}

	if err := h.renderer.SetRenderTarget(h.scratch); err != nil {
		return nil, err
	}
	h.renderer.SetDrawColor(0, 0, 0, 0)
	h.renderer.Clear()
	s.draw(h.renderer, h.width, h.height)
	return h.scratch, h.renderer.SetRenderTarget(nil)
}

// frameRect maps an animation frame onto the container: scaled around the
// centre, then offset by fractions of the container size.
func frameRect(f anim.Frame, width, height int32) *sdl.Rect {
	w := float64(width) * f.Scale
	hgt := float64(height) * f.Scale
	x := (float64(width)-w)/2 + f.OffsetX*float64(width)
	y := (float64(height)-hgt)/2 + f.OffsetY*float64(height)
	return &sdl.Rect{X: int32(x), Y: int32(y), W: int32(w), H: int32(hgt)}
}

// Present swaps the render buffer and enforces ~60fps frame timing
// when VSync is not available.
func (h *Host) Present() {
	h.renderer.Present()
	if !h.hasVSync {
		interval := uint64(constants.DefaultFrameInterval.Milliseconds())
		now := sdl.GetTicks64()
		if elapsed := now - h.lastPresentTime; elapsed < interval {
			sdl.Delay(uint32(interval - elapsed))
		}
		h.lastPresentTime = sdl.GetTicks64()
	}
}

// Close releases every texture, the window and SDL itself.
func (h *Host) Close() {
	h.cache.destroy()
	if h.scratch != nil {
		h.scratch.Destroy()
	}
	if h.background != nil {
		h.background.Destroy()
	}
	h.renderer.Destroy()
	h.window.Destroy()

	img.Quit()
	sdl.Quit()
}
