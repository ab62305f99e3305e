package args

import (
	"sort"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/naverr"
)

// Registry holds the argument sets registered for one router.
// It is append-only after configuration load.
type Registry struct {
	sets map[string]*Argument
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sets: make(map[string]*Argument)}
}

// Register adds set under its ID. Empty and duplicate ids are configuration errors.
func (r *Registry) Register(set *Argument) error {
	if set == nil || set.ID == "" {
		return naverr.Configuration("register_argument_set", "", "argument set id is required")
	}
	if _, exists := r.sets[set.ID]; exists {
		return naverr.Configuration("register_argument_set", set.ID, "duplicate argument set id")
	}
	r.sets[set.ID] = set.Copy()
	return nil
}

// Template returns a fresh copy of the set with all values cleared.
func (r *Registry) Template(id string) (*Argument, bool) {
	set, ok := r.sets[id]
	if !ok {
		return nil, false
	}
	return set.CopyWithoutValue(), true
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.sets[id]
	return ok
}

// Clone returns an independent registry holding the same sets.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	for id, set := range r.sets {
		c.sets[id] = set
	}
	return c
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
