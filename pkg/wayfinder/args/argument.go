// Package args implements the typed argument bags passed to destinations on
// forward navigation and returned to them as pop results.
//
// An Argument is an ordered set of named slots. Argument sets registered from
// configuration act as schemas: the router hands every navigation a fresh
// CopyWithoutValue of the destination's set, merges the caller's data onto it
// and validates the result with Accept before anything is shown.
package args

import (
	"fmt"
	"strings"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/naverr"
)

// NameValue is a single typed slot.
type NameValue struct {
	Name     string
	Type     Type
	Required bool
	Value    any
}

// Argument is an ordered set of NameValue slots keyed by name.
type Argument struct {
	ID    string
	slots map[string]*NameValue
	order []string
	types *TypeRegistry
}

// New creates an empty argument set.
func New(id string) *Argument {
	return &Argument{
		ID:    id,
		slots: make(map[string]*NameValue),
		types: defaultTypes,
	}
}

// Of builds an untyped argument from key/value pairs, the usual way callers
// pass navigation data.
func Of(values map[string]any) *Argument {
	a := New("")
	for _, k := range sortedKeys(values) {
		a.Set(k, values[k])
	}
	return a
}

// WithTypes makes a resolve named slot types through r instead of the
// package-wide registry.
func (a *Argument) WithTypes(r *TypeRegistry) *Argument {
	a.types = r
	return a
}

// Define declares a slot. Declaring the same name twice is a configuration error.
func (a *Argument) Define(nv NameValue) error {
	if nv.Name == "" {
		return naverr.Configuration("define_argument", a.ID, "slot name is required")
	}
	if _, exists := a.slots[nv.Name]; exists {
		return naverr.Configuration("define_argument", a.ID, "duplicate slot %q", nv.Name)
	}
	if nv.Type == "" {
		nv.Type = TypeAny
	}
	slot := nv
	a.slots[nv.Name] = &slot
	a.order = append(a.order, nv.Name)
	return nil
}

// Set assigns value to the named slot, declaring an untyped optional slot if
// it does not exist yet. It returns a for chaining.
func (a *Argument) Set(name string, value any) *Argument {
	if slot, ok := a.slots[name]; ok {
		slot.Value = value
		return a
	}
	slot := &NameValue{Name: name, Type: TypeAny, Value: value}
	a.slots[name] = slot
	a.order = append(a.order, name)
	return a
}

// Get returns the value of the named slot.
func (a *Argument) Get(name string) (any, bool) {
	if a == nil {
		return nil, false
	}
	slot, ok := a.slots[name]
	if !ok {
		return nil, false
	}
	return slot.Value, true
}

// Slot returns a copy of the named slot.
func (a *Argument) Slot(name string) (NameValue, bool) {
	if a == nil {
		return NameValue{}, false
	}
	slot, ok := a.slots[name]
	if !ok {
		return NameValue{}, false
	}
	return *slot, true
}

// Names returns the slot names in declaration order.
func (a *Argument) Names() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Len returns the number of slots.
func (a *Argument) Len() int {
	if a == nil {
		return 0
	}
	return len(a.order)
}

// Values returns the non-nil slot values keyed by name.
func (a *Argument) Values() map[string]any {
	out := make(map[string]any)
	if a == nil {
		return out
	}
	for _, name := range a.order {
		if v := a.slots[name].Value; v != nil {
			out[name] = v
		}
	}
	return out
}

// Accept validates every slot: a required slot must hold a value and every
// value must satisfy its slot type. The first violation is returned as an
// argument error.
func (a *Argument) Accept() error {
	if a == nil {
		return nil
	}
	for _, name := range a.order {
		slot := a.slots[name]
		if slot.Value == nil {
			if slot.Required {
				return naverr.Argument("accept", name, "required value missing in %s", a.describe())
			}
			continue
		}
		if !a.types.Satisfies(slot.Type, slot.Value) {
			return naverr.Argument("accept", name, "value of type %T does not satisfy %q", slot.Value, slot.Type)
		}
	}
	return nil
}

// Merge copies other's slots into a. For a slot present in both, other's value
// replaces a's while a keeps its declared type and requiredness; slots only in
// other are added as they are. It returns a.
func (a *Argument) Merge(other *Argument) *Argument {
	if other == nil {
		return a
	}
	for _, name := range other.order {
		incoming := other.slots[name]
		if slot, ok := a.slots[name]; ok {
			slot.Value = incoming.Value
			continue
		}
		slot := *incoming
		a.slots[name] = &slot
		a.order = append(a.order, name)
	}
	return a
}

// CopyWithoutValue returns a structural clone with every value cleared.
func (a *Argument) CopyWithoutValue() *Argument {
	c := a.Copy()
	if c == nil {
		return nil
	}
	for _, slot := range c.slots {
		slot.Value = nil
	}
	return c
}

// Copy returns a deep copy of the slot structure; values are shared.
func (a *Argument) Copy() *Argument {
	if a == nil {
		return nil
	}
	c := &Argument{
		ID:    a.ID,
		slots: make(map[string]*NameValue, len(a.slots)),
		order: make([]string, len(a.order)),
		types: a.types,
	}
	copy(c.order, a.order)
	for name, slot := range a.slots {
		s := *slot
		c.slots[name] = &s
	}
	return c
}

func (a *Argument) String() string {
	if a == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("{")
	for i, name := range a.order {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s:%v", name, a.slots[name].Value)
	}
	b.WriteString("}")
	return b.String()
}

func (a *Argument) describe() string {
	if a.ID == "" {
		return "arguments"
	}
	return fmt.Sprintf("argument set %q", a.ID)
}
