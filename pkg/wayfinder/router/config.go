package router

import (
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/anim"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/args"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/naverr"
)

// Config is a complete navigation graph, usually decoded from a file by the
// config package.
type Config struct {
	Home               string
	HomeData           *args.Argument
	HomeEnterAnimation string
	Defaults           Animations

	Destinations []Destination
	Animations   []anim.Descriptor
	ArgumentSets []*args.Argument
}

// Load registers everything in cfg as one unit. The registrations are applied
// to copies of the router's registries first; the router only changes when
// all of them succeed and every reference resolves.
func (r *Router) Load(cfg Config) error {
	const op = "load"

	dests := r.destinations.clone()
	sets := r.argumentSets.Clone()
	animations := r.animations.Clone()

	for _, set := range cfg.ArgumentSets {
		if err := sets.Register(set); err != nil {
			return err
		}
	}
	for _, d := range cfg.Animations {
		if err := animations.Register(d); err != nil {
			return err
		}
	}
	if err := animations.Validate(); err != nil {
		return err
	}
	for _, d := range cfg.Destinations {
		if err := dests.add(d); err != nil {
			return err
		}
	}

	home := r.home
	if cfg.Home != "" {
		home = cfg.Home
	}
	if home != "" {
		if _, ok := dests.get(home); !ok {
			return naverr.Configuration(op, home, "home destination is not registered")
		}
	}

	defaults := r.defaults
	if cfg.Defaults != (Animations{}) {
		defaults = cfg.Defaults
	}
	for _, name := range []string{defaults.Enter, defaults.Exit, defaults.PopEnter, defaults.PopExit, cfg.HomeEnterAnimation} {
		if name != "" && !animations.Has(name) {
			return naverr.Configuration(op, name, "default animation is not registered")
		}
	}
	for _, id := range dests.order {
		d, _ := dests.get(id)
		if d.ArgumentSetID != "" && !sets.Has(d.ArgumentSetID) {
			return naverr.Configuration(op, d.ID, "argument set %q is not registered", d.ArgumentSetID)
		}
	}

	r.destinations = dests
	r.argumentSets = sets
	*r.animations = *animations
	r.home = home
	r.defaults = defaults
	if cfg.HomeData != nil {
		r.homeData = cfg.HomeData
	}
	if cfg.HomeEnterAnimation != "" {
		r.homeEnter = cfg.HomeEnterAnimation
	}
	r.logger.Debug("Navigation config loaded",
		"home", home,
		"destinations", len(cfg.Destinations),
		"animations", len(cfg.Animations),
		"argument_sets", len(cfg.ArgumentSets))
	return nil
}

// destinationRegistry keeps destinations in registration order.
type destinationRegistry struct {
	byID  map[string]Destination
	order []string
}

func newDestinationRegistry() *destinationRegistry {
	return &destinationRegistry{byID: make(map[string]Destination)}
}

func (d *destinationRegistry) add(dest Destination) error {
	const op = "register_destination"
	if err := dest.validate(op); err != nil {
		return err
	}
	if _, exists := d.byID[dest.ID]; exists {
		return naverr.Configuration(op, dest.ID, "duplicate destination id")
	}
	d.byID[dest.ID] = dest
	d.order = append(d.order, dest.ID)
	return nil
}

func (d *destinationRegistry) get(id string) (Destination, bool) {
	dest, ok := d.byID[id]
	return dest, ok
}

func (d *destinationRegistry) clone() *destinationRegistry {
	c := &destinationRegistry{
		byID:  make(map[string]Destination, len(d.byID)),
		order: append([]string(nil), d.order...),
	}
	for k, v := range d.byID {
		c.byID[k] = v
	}
	return c
}
