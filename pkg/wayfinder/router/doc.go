// Package router provides stack-based screen navigation with explicit data flow.
//
// A Router owns a set of named destinations and a backstack of NavEntry values.
// Forward moves push (or, for single-top destinations, promote) an entry and
// show its screen; backward moves pop entries and hand an optional result to
// the entry that becomes visible again. The actual screen effects are
// delegated to an Executor; the default one drives a transaction over a single
// content container.
//
// # Basic Usage
//
//	r := router.New(router.Settings{Container: container})
//
//	r.RegisterScreenFactory("list", func(dest router.Destination, e *router.NavEntry) (router.Screen, error) {
//	    return router.Screen{Handle: newListScreen(e.Data)}, nil
//	})
//	r.RegisterDestination(router.Destination{ID: "list", Source: router.Source{Factory: "list"}})
//	r.RegisterDestination(router.Destination{ID: "detail", Source: router.Source{Factory: "detail"}})
//	r.SetHome("list", nil, "")
//
//	if err := r.Begin(); err != nil {
//	    return err
//	}
//
//	// Forward with data
//	r.MoveTo("detail", args.Of(map[string]any{"id": 42}), nil)
//
//	// Back with a result for the list screen
//	r.PopBackstack(args.Of(map[string]any{"played": true}), nil)
//
// # Arguments
//
// A destination may name an argument set. Every forward move starts from a
// fresh, empty copy of that set. Explicit data is merged onto it; without data
// a reused single-top entry keeps the data it already has. The result is
// validated before anything on screen changes, so an argument error leaves the
// router untouched.
//
// # Animations
//
// Enter, exit, pop-enter and pop-exit animations are resolved per call: an
// animation named in Options wins, then the router default, then no animation.
// Navigation calls return as soon as the effects are scheduled; the host
// advances the animation engine once per frame.
package router
