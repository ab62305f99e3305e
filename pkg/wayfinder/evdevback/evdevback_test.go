package evdevback

import (
	"testing"

	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/args"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/internal"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/naverr"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/router"
)

func TestIsBackPress(t *testing.T) {
	for name, tt := range map[string]struct {
		typ   evdev.EvType
		code  evdev.EvCode
		value int32
		want  bool
	}{
		"back pressed":   {evdev.EV_KEY, evdev.KEY_BACK, 1, true},
		"escape pressed": {evdev.EV_KEY, evdev.KEY_ESC, 1, true},
		"back released":  {evdev.EV_KEY, evdev.KEY_BACK, 0, false},
		"back repeated":  {evdev.EV_KEY, evdev.KEY_BACK, 2, false},
		"other key":      {evdev.EV_KEY, evdev.KEY_ENTER, 1, false},
		"sync event":     {evdev.EV_SYN, 0, 0, false},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, isBackPress(tt.typ, tt.code, tt.value))
		})
	}
}

// stack pops until one entry remains, like a router.
type stack struct {
	depth int
}

func (s *stack) PopBackstack(*args.Argument, *router.Options) (bool, error) {
	if s.depth <= 1 {
		return false, naverr.Navigation("pop_backstack", "home", "cannot pop the last entry")
	}
	s.depth--
	return true, nil
}

func TestDispatchDrainsPresses(t *testing.T) {
	presses := make(chan struct{}, pending)
	for i := 0; i < 3; i++ {
		presses <- struct{}{}
	}

	s := &stack{depth: 3}
	assert.Equal(t, 2, dispatch(presses, s, internal.Discard()), "the third press hits home")
	assert.Equal(t, 1, s.depth)
	assert.Empty(t, presses)

	assert.Zero(t, dispatch(presses, s, internal.Discard()))
}
