package config

import "fmt"

// Layer is one read-only, possibly-partial key->value source in the
// priority chain. Layers are immutable snapshots: re-reading a source
// produces a new layer rather than mutating an old one.
//
// External source formats are adapted into this interface at the boundary;
// the resolver never branches on the concrete source type.
type Layer interface {
	// Lookup returns the value stored for key and whether the layer
	// defines it. Definition is an existence check, not a truthiness
	// check: a stored empty string, zero, or false counts as defined.
	Lookup(key string) (any, bool)

	// Raw reports whether the layer's values are uncoerced strings that
	// need Kind coercion on resolution. Layers holding already-typed
	// values (parsed flags, plain maps) return false.
	Raw() bool
}

// MapLayer adapts a plain map of already-typed values.
type MapLayer map[string]any

// Lookup implements Layer.
func (l MapLayer) Lookup(key string) (any, bool) {
	v, ok := l[key]
	return v, ok
}

// Raw implements Layer. Map values are used as-is.
func (l MapLayer) Raw() bool { return false }

// StringLayer adapts a map of raw string values, such as one section of an
// INI file. Values are coerced to each variable's Kind on resolution.
type StringLayer map[string]string

// Lookup implements Layer.
func (l StringLayer) Lookup(key string) (any, bool) {
	v, ok := l[key]
	return v, ok
}

// Raw implements Layer.
func (l StringLayer) Raw() bool { return true }

// flagLayer holds values the user explicitly set on the command line,
// keyed by variable name. Kept distinct from MapLayer so ProvidedFlags can
// identify flag-sourced values.
type flagLayer map[string]any

func (l flagLayer) Lookup(key string) (any, bool) {
	v, ok := l[key]
	return v, ok
}

func (l flagLayer) Raw() bool { return false }

// newLayer normalizes a source into a Layer. Anything already satisfying
// Layer passes through; plain maps are adapted; everything else is
// rejected with ErrUnsupportedSource.
func newLayer(source any) (Layer, error) {
	switch s := source.(type) {
	case Layer:
		return s, nil
	case map[string]any:
		return MapLayer(s), nil
	case map[string]string:
		return StringLayer(s), nil
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedSource)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedSource, source)
	}
}
