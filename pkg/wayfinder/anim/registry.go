package anim

import (
	"sort"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/constants"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/naverr"
)

// Registry maps animation names to descriptors. The no-op animation is always
// registered under constants.NoAnimation.
type Registry struct {
	descs map[string]Descriptor
}

// NewRegistry creates a registry holding only the no-op animation.
func NewRegistry() *Registry {
	return &Registry{descs: map[string]Descriptor{
		constants.NoAnimation: {Name: constants.NoAnimation, Kind: KindNone},
	}}
}

// Register adds d. Empty names, duplicate names and malformed attributes are
// configuration errors. References to children and chained animations are
// checked by Validate once every descriptor is registered.
func (r *Registry) Register(d Descriptor) error {
	const op = "register_animation"
	if d.Name == "" {
		return naverr.Configuration(op, "", "animation name is required")
	}
	if _, exists := r.descs[d.Name]; exists {
		return naverr.Configuration(op, d.Name, "duplicate animation name")
	}
	if d.Duration < 0 {
		return naverr.Configuration(op, d.Name, "negative duration %s", d.Duration)
	}
	if !d.Easing.Valid() {
		return naverr.Configuration(op, d.Name, "unknown easing %q", d.Easing)
	}
	if d.Kind == KindCompound && d.Duration != 0 {
		return naverr.Configuration(op, d.Name, "compound animations take their duration from their children")
	}
	if d.Kind != KindCompound && len(d.Children) > 0 {
		return naverr.Configuration(op, d.Name, "only compound animations have children")
	}
	d.Children = append([]string(nil), d.Children...)
	r.descs[d.Name] = d
	return nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.descs[name]
	return d, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.descs[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.descs))
	for n := range r.descs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every child and chained reference resolves and that no
// animation contains itself.
func (r *Registry) Validate() error {
	for _, name := range r.Names() {
		if err := r.walk(name, map[string]bool{}); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) walk(name string, path map[string]bool) error {
	const op = "validate_animation"
	d, ok := r.descs[name]
	if !ok {
		return naverr.Configuration(op, name, "animation is not registered")
	}
	if path[name] {
		return naverr.Configuration(op, name, "animation references itself")
	}
	path[name] = true
	defer delete(path, name)

	refs := append([]string(nil), d.Children...)
	if d.Next != "" {
		refs = append(refs, d.Next)
	}
	for _, ref := range refs {
		if _, ok := r.descs[ref]; !ok {
			return naverr.Configuration(op, name, "references unknown animation %q", ref)
		}
		if err := r.walk(ref, path); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	c := &Registry{descs: make(map[string]Descriptor, len(r.descs))}
	for k, v := range r.descs {
		c.descs[k] = v
	}
	return c
}

// Factory instantiates registered animations for one engine.
type Factory struct {
	registry *Registry
	engine   Engine
}

// NewFactory creates a factory building from registry and playing on engine.
func NewFactory(registry *Registry, engine Engine) *Factory {
	return &Factory{registry: registry, engine: engine}
}

// Registry returns the registry the factory builds from.
func (f *Factory) Registry() *Registry {
	return f.registry
}

// Build creates a fresh, unbound animation tree for name, including compound
// children and the chained next animation. An empty name builds the no-op
// animation.
func (f *Factory) Build(name string) (*Animation, error) {
	if name == "" {
		name = constants.NoAnimation
	}
	return f.build(name, map[string]bool{})
}

func (f *Factory) build(name string, path map[string]bool) (*Animation, error) {
	d, ok := f.registry.Lookup(name)
	if !ok {
		return nil, naverr.Configuration("build_animation", name, "animation is not registered")
	}
	if path[name] {
		return nil, naverr.Configuration("build_animation", name, "animation references itself")
	}
	path[name] = true
	defer delete(path, name)

	var a *Animation
	if d.Kind == KindCompound {
		children := make([]*Animation, 0, len(d.Children))
		for _, childName := range d.Children {
			c, err := f.build(childName, path)
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		}
		a = NewCompound(d.Name, d.Mode, children...)
		a.desc.AutoReset = d.AutoReset
		a.desc.Next = d.Next
	} else {
		a = New(d, f.engine)
	}

	if d.Next != "" {
		n, err := f.build(d.Next, path)
		if err != nil {
			return nil, err
		}
		a.SetNext(n)
	}
	return a, nil
}
