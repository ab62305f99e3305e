// Package evdevback turns a hardware back key into router pops.
//
// The device is read on its own goroutine, which only records presses.
// Dispatch must be called from the UI thread, typically once per frame:
//
//	back, err := evdevback.Open("/dev/input/event3", logger)
//	if err != nil {
//	    return err
//	}
//	defer back.Close()
//
//	host.Run(ctx, func() { back.Dispatch(r) })
package evdevback

import (
	"log/slog"

	"github.com/holoplot/go-evdev"
	"go.uber.org/atomic"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/args"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/internal"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/naverr"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/router"
)

const pending = 8 // presses kept between two dispatches

// Popper is the part of a router the reader drives.
type Popper interface {
	PopBackstack(result *args.Argument, opts *router.Options) (bool, error)
}

// Reader reads back key presses from an input device.
type Reader struct {
	device  *evdev.InputDevice
	presses chan struct{}
	running *atomic.Bool
	done    chan struct{}
	logger  *slog.Logger
}

// Open starts reading path. A nil logger uses the internal logger.
func Open(path string, logger *slog.Logger) (*Reader, error) {
	device, err := evdev.Open(path)
	if err != nil {
		return nil, naverr.New(naverr.KindConfiguration, "open_back_device", path, err)
	}
	if logger == nil {
		logger = internal.GetInternalLogger()
	}

	r := &Reader{
		device:  device,
		presses: make(chan struct{}, pending),
		running: atomic.NewBool(true),
		done:    make(chan struct{}),
		logger:  logger,
	}
	go r.read()
	return r, nil
}

func (r *Reader) read() {
	defer close(r.done)
	for r.running.Load() {
		event, err := r.device.ReadOne()
		if err != nil {
			if r.running.Load() {
				r.logger.Error("Back key device read failed", "error", err)
			}
			return
		}
		if !isBackPress(event.Type, event.Code, event.Value) {
			continue
		}
		select {
		case r.presses <- struct{}{}:
		default:
			r.logger.Debug("Dropping back key press, dispatch is behind")
		}
	}
}

// isBackPress reports whether an input event is the initial press of a back
// key. Auto-repeat (2) and release (0) events are ignored.
func isBackPress(typ evdev.EvType, code evdev.EvCode, value int32) bool {
	if typ != evdev.EV_KEY || value != 1 {
		return false
	}
	return code == evdev.KEY_BACK || code == evdev.KEY_ESC
}

// Dispatch pops the router once per press recorded since the last call. It
// returns the number of pops that happened. A press on the home screen does
// nothing.
func (r *Reader) Dispatch(p Popper) int {
	return dispatch(r.presses, p, r.logger)
}

func dispatch(presses <-chan struct{}, p Popper, logger *slog.Logger) int {
	n := 0
	for {
		select {
		case <-presses:
			popped, err := p.PopBackstack(nil, nil)
			if err != nil && !naverr.IsNavigation(err) {
				logger.Error("Back navigation failed", "error", err)
			}
			if popped {
				n++
			}
		default:
			return n
		}
	}
}

// Close stops the reader and closes the device.
func (r *Reader) Close() error {
	if !r.running.CompareAndSwap(true, false) {
		return nil
	}
	err := r.device.Close()
	<-r.done
	return err
}
