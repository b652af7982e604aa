package config

import (
	"fmt"
	"reflect"
	"strconv"
)

// Values is the read-only view into a Combined's declared variables.
// Every read resolves against the current layer chain, so layer mutations
// made after the view was obtained are always reflected.
type Values struct {
	config *Combined
}

// Get resolves name against the layer chain. See Combined.Find for the
// resolution and error contract.
func (v *Values) Get(name string) (any, error) {
	return v.config.Find(name)
}

// Names returns the declared variable names in declaration order.
func (v *Values) Names() []string {
	return v.config.Names()
}

// Len returns the number of declared variables.
func (v *Values) Len() int {
	return len(v.config.order)
}

// String resolves name and converts the value to a string. Common types
// are converted; anything else is an error.
func (v *Values) String(name string) (string, error) {
	val, err := v.config.Find(name)
	if err != nil {
		return "", err
	}
	if val == nil {
		return "", nil
	}

	if strVal, ok := val.(string); ok {
		return strVal, nil
	}

	switch s := val.(type) {
	case fmt.Stringer:
		return s.String(), nil
	case []byte:
		return string(s), nil
	case bool:
		return strconv.FormatBool(s), nil
	case error:
		return s.Error(), nil
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	}

	return "", fmt.Errorf("cannot convert type %T to string for %q", val, name)
}

// Int64 resolves name and converts the value to an int64. Numeric types,
// parsable strings, and booleans are converted.
func (v *Values) Int64(name string) (int64, error) {
	val, err := v.config.Find(name)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, fmt.Errorf("value for %q is nil, cannot convert to int64", name)
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		maxInt64 := int64(^uint64(0) >> 1)
		if u > uint64(maxInt64) {
			return 0, fmt.Errorf("cannot convert %d (type %T) to int64 for %q: overflow", u, val, name)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		// Truncate float to int
		return int64(rv.Float()), nil
	case reflect.String:
		s := rv.String()
		if i, err := strconv.ParseInt(s, 0, 64); err == nil {
			return i, nil
		} else {
			if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
				return int64(f), nil // Truncate
			}
			return 0, fmt.Errorf("cannot convert string %q to int64 for %q: %w", s, name, err)
		}
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	}

	return 0, fmt.Errorf("cannot convert type %T to int64 for %q", val, name)
}

// Bool resolves name and converts the value to a bool. Numeric types are
// interpreted as 0=false, non-zero=true; strings are parsed.
func (v *Values) Bool(name string) (bool, error) {
	val, err := v.config.Find(name)
	if err != nil {
		return false, err
	}
	if val == nil {
		return false, fmt.Errorf("value for %q is nil, cannot convert to bool", name)
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		s := rv.String()
		if b, err := strconv.ParseBool(s); err == nil {
			return b, nil
		} else {
			return false, fmt.Errorf("cannot convert string %q to bool for %q: %w", s, name, err)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0, nil
	}

	return false, fmt.Errorf("cannot convert type %T to bool for %q", val, name)
}

// Float64 resolves name and converts the value to a float64.
func (v *Values) Float64(name string) (float64, error) {
	val, err := v.config.Find(name)
	if err != nil {
		return 0.0, err
	}
	if val == nil {
		return 0.0, fmt.Errorf("value for %q is nil, cannot convert to float64", name)
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.String:
		s := rv.String()
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, nil
		} else {
			return 0.0, fmt.Errorf("cannot convert string %q to float64 for %q: %w", s, name, err)
		}
	case reflect.Bool:
		if rv.Bool() {
			return 1.0, nil
		}
		return 0.0, nil
	}

	return 0.0, fmt.Errorf("cannot convert type %T to float64 for %q", val, name)
}
