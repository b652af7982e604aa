package config

import (
	"fmt"
	"reflect"
)

// Combined merges configuration values from an ordered chain of layers
// into one prioritized view. The resulting config is flat: every declared
// variable is a top-level name, which keeps values comparable across
// heterogeneous sources.
//
// Variables are declared once at construction. Layers are added with
// Prepend (highest priority) and Append (lowest priority, but still above
// the implicit defaults). Resolution scans layers front to back and the
// first layer defining a name wins.
//
// Combined is not safe for concurrent use; callers needing that must
// serialize externally.
type Combined struct {
	vars   map[string]Var
	order  []string // declaration order
	layers []Layer  // index 0 = highest priority
}

// New registers the configuration vocabulary and returns a Combined with
// an empty layer chain. Declaring two variables with the same name fails
// with ErrDuplicateVar.
func New(vars ...Var) (*Combined, error) {
	c := &Combined{
		vars: make(map[string]Var, len(vars)),
	}

	for _, v := range vars {
		if v.Name == "" {
			return nil, fmt.Errorf("config variable name cannot be empty")
		}
		if _, exists := c.vars[v.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateVar, v.Name)
		}
		c.vars[v.Name] = v
		c.order = append(c.order, v.Name)
	}

	return c, nil
}

// Prepend normalizes source into a Layer and inserts it at the front of
// the chain, making it the highest-priority source. Keys in the source
// that were never declared are stored but never resolved, so heterogeneous
// sources can be added without filtering.
func (c *Combined) Prepend(source any) error {
	layer, err := newLayer(source)
	if err != nil {
		return err
	}

	c.layers = append([]Layer{layer}, c.layers...)
	return nil
}

// Append normalizes source into a Layer and adds it to the end of the
// chain. It still outranks declared defaults.
func (c *Combined) Append(source any) error {
	layer, err := newLayer(source)
	if err != nil {
		return err
	}

	c.layers = append(c.layers, layer)
	return nil
}

// Find resolves name against the layer chain: layers are scanned in index
// order and the first one defining the name wins, regardless of the value
// it holds. Raw-layer hits are coerced to the variable's Kind; values from
// typed layers pass through unchanged. If no layer defines the name the
// declared default is returned, and a variable with no default fails with
// ErrUnresolved.
//
// An empty string in a raw layer counts as present: it resolves to "" for
// string variables and is a coercion error for numeric and boolean ones.
// Undeclared names fail with ErrUnknownVar.
func (c *Combined) Find(name string) (any, error) {
	v, declared := c.vars[name]
	if !declared {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVar, name)
	}

	for _, layer := range c.layers {
		value, ok := layer.Lookup(name)
		if !ok {
			continue
		}

		if layer.Raw() {
			if s, isString := value.(string); isString {
				return v.coerce(s)
			}
		}
		return value, nil
	}

	if v.HasDefault() {
		return v.Default, nil
	}

	return nil, fmt.Errorf("%w: %q has no value in any layer and no default", ErrUnresolved, name)
}

// Values returns the read-only resolved view over the declared variables.
// The view is never cached: reads always reflect the current layer chain,
// including layers added after the view was obtained.
func (c *Combined) Values() *Values {
	return &Values{config: c}
}

// Names returns the declared variable names in declaration order.
func (c *Combined) Names() []string {
	return append([]string(nil), c.order...)
}

// Var returns the declared variable for name.
func (c *Combined) Var(name string) (Var, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// DefaultedNames returns the set of variables whose resolved value still
// equals their declared default. Variables without a default, or that do
// not resolve, are never included.
func (c *Combined) DefaultedNames() map[string]bool {
	defaulted := make(map[string]bool)

	for _, name := range c.order {
		v := c.vars[name]
		if !v.HasDefault() {
			continue
		}

		value, err := c.Find(name)
		if err != nil {
			continue
		}
		if equalValues(value, v.Default) {
			defaulted[name] = true
		}
	}

	return defaulted
}

// ProvidedFlags returns the set of variables currently supplied by a
// parsed command-line layer, whether or not that layer wins resolution.
func (c *Combined) ProvidedFlags() map[string]bool {
	provided := make(map[string]bool)

	for _, name := range c.order {
		for _, layer := range c.layers {
			if _, ok := layer.Lookup(name); !ok {
				continue
			}
			if _, isFlag := layer.(flagLayer); isFlag {
				provided[name] = true
				break
			}
		}
	}

	return provided
}

// ResolvedValues returns every declared variable that currently resolves,
// mapped to its resolved value. Unresolvable variables are omitted.
func (c *Combined) ResolvedValues() map[string]any {
	values := make(map[string]any, len(c.order))

	for _, name := range c.order {
		if value, err := c.Find(name); err == nil {
			values[name] = value
		}
	}

	return values
}

// equalValues compares a resolved value against a default. Cross-type
// numeric equality matters here: a flag layer stores int64 while a default
// may be a plain int, and that pair must still compare equal.
func equalValues(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}

	af, aok := numericValue(a)
	bf, bok := numericValue(b)
	return aok && bok && af == bf
}

// numericValue extracts a float64 from any numeric kind.
func numericValue(val any) (float64, bool) {
	if val == nil {
		return 0, false
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
