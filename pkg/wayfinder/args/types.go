package args

import (
	"reflect"
	"strings"
	"unicode/utf8"
)

// Type is a value type tag: one of the primitive names, a primitive followed
// by "[]" for arrays, a named type, or several of those joined with "|".
type Type string

// Primitive type tags.
const (
	TypeAny     Type = "any"
	TypeBoolean Type = "boolean"
	TypeChar    Type = "char"
	TypeShort   Type = "short"
	TypeInt     Type = "int"
	TypeLong    Type = "long"
	TypeFloat   Type = "float"
	TypeDouble  Type = "double"
	TypeString  Type = "string"
)

// ArrayOf returns the array variant of t.
func ArrayOf(t Type) Type {
	return t + "[]"
}

// Union joins several types into a pipe separated union.
func Union(types ...Type) Type {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return Type(strings.Join(parts, "|"))
}

// TypeRegistry resolves named (non-primitive) types to Go types.
// A named type without a registration matches a value whose Go type name or
// fully qualified name equals the tag.
type TypeRegistry struct {
	named map[string]reflect.Type
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{named: make(map[string]reflect.Type)}
}

// Register binds name to the Go type of sample. Interface types are registered
// by passing a nil pointer to the interface, e.g. (*fmt.Stringer)(nil).
func (r *TypeRegistry) Register(name string, sample any) {
	t := reflect.TypeOf(sample)
	if t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Interface {
		t = t.Elem()
	}
	r.named[name] = t
}

// Satisfies reports whether value is acceptable for slot type t. A nil value
// satisfies every type; requiredness is checked separately.
func (r *TypeRegistry) Satisfies(t Type, value any) bool {
	if value == nil {
		return true
	}
	for _, part := range strings.Split(string(t), "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if r.satisfiesOne(Type(part), value) {
			return true
		}
	}
	return false
}

func (r *TypeRegistry) satisfiesOne(t Type, value any) bool {
	if elem, ok := strings.CutSuffix(string(t), "[]"); ok {
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			item := rv.Index(i).Interface()
			if item == nil || !r.satisfiesOne(Type(elem), item) {
				return false
			}
		}
		return true
	}

	switch t {
	case "", TypeAny:
		return true
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeChar:
		switch v := value.(type) {
		case rune:
			return true
		case string:
			return utf8.RuneCountInString(v) == 1
		}
		return false
	case TypeShort:
		switch value.(type) {
		case int8, int16, uint8:
			return true
		}
		return false
	case TypeInt:
		switch value.(type) {
		case int8, int16, int32, int, uint8, uint16:
			return true
		}
		return false
	case TypeLong:
		switch value.(type) {
		case int8, int16, int32, int, int64, uint8, uint16, uint32:
			return true
		}
		return false
	case TypeFloat:
		_, ok := value.(float32)
		return ok
	case TypeDouble:
		switch value.(type) {
		case float32, float64:
			return true
		}
		return false
	case TypeString:
		_, ok := value.(string)
		return ok
	}

	return r.satisfiesNamed(string(t), value)
}

func (r *TypeRegistry) satisfiesNamed(name string, value any) bool {
	vt := reflect.TypeOf(value)
	if rt, ok := r.named[name]; ok {
		if rt == nil {
			return false
		}
		if rt.Kind() == reflect.Interface {
			return vt.Implements(rt)
		}
		return vt.AssignableTo(rt) || (vt.Kind() == reflect.Pointer && vt.Elem() == rt)
	}

	for vt.Kind() == reflect.Pointer {
		vt = vt.Elem()
	}
	return vt.Name() == name || vt.String() == name || vt.PkgPath()+"."+vt.Name() == name
}

var defaultTypes = NewTypeRegistry()

// RegisterType binds a named type in the package-wide registry used by
// arguments that were not given their own registry.
func RegisterType(name string, sample any) {
	defaultTypes.Register(name, sample)
}
