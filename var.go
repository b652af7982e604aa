package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind declares how raw string values (e.g. from a file section) are coerced
// when a variable resolves from a raw layer. Values from typed layers pass
// through unchanged regardless of Kind.
type Kind int

const (
	// KindString is the default: raw values are used as-is.
	KindString Kind = iota
	// KindInt coerces raw values with strconv.ParseInt, stored as int64.
	KindInt
	// KindFloat coerces raw values with strconv.ParseFloat, stored as float64.
	KindFloat
	// KindBool coerces raw values with strconv.ParseBool.
	KindBool
)

// Action declares flag behavior for the parser adapter.
type Action int

const (
	// ActionStore takes a value argument (the default).
	ActionStore Action = iota
	// ActionStoreTrue records true when the flag is present.
	ActionStoreTrue
	// ActionStoreFalse records false when the flag is present.
	ActionStoreFalse
)

// Var describes a single configuration variable: its name, default value,
// coercion kind, and the metadata the flag adapter needs. Vars are value
// types and never mutated after registration.
//
// A nil Default means the variable has no default; resolving it with no
// layer providing a value fails with ErrUnresolved.
type Var struct {
	Name      string
	Shortname string // one-letter flag alias, flag adapter only
	Default   any
	Kind      Kind
	Action    Action
	Help      string
	Metavar   string
}

// IsBool reports whether the variable can be interpreted as a boolean,
// either declared directly or derived from its action or default.
func (v Var) IsBool() bool {
	if v.Kind == KindBool || v.Action == ActionStoreTrue || v.Action == ActionStoreFalse {
		return true
	}
	_, ok := v.Default.(bool)
	return ok
}

// HasDefault reports whether the variable declares a default value.
func (v Var) HasDefault() bool {
	return v.Default != nil
}

// flagName is the long option name: underscores become dashes.
func (v Var) flagName() string {
	return strings.ReplaceAll(v.Name, "_", "-")
}

// coerce converts a raw string from a file-sourced layer into the
// variable's runtime shape. An empty string is a value like any other; it
// coerces to "" for string kinds and fails for numeric and boolean kinds.
func (v Var) coerce(s string) (any, error) {
	kind := v.Kind
	if kind == KindString && v.IsBool() {
		kind = KindBool
	}

	switch kind {
	case KindInt:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q to int for %q", ErrCoerce, s, v.Name)
		}
		return n, nil
	case KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q to float for %q", ErrCoerce, s, v.Name)
		}
		return f, nil
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q to bool for %q", ErrCoerce, s, v.Name)
		}
		return b, nil
	default:
		return s, nil
	}
}
