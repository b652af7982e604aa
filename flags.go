package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// FlagSet builds a pflag.FlagSet with one flag per declared variable. The
// long option is the variable name with underscores replaced by dashes,
// the shorthand comes from Shortname, and Help/Metavar feed the usage
// text. Flag defaults are zero values on purpose: the chain owns defaults,
// and ParseFlags only keeps flags the user explicitly set.
func (c *Combined) FlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)

	for _, varName := range c.order {
		v := c.vars[varName]

		usage := v.Help
		if v.Metavar != "" && v.Action == ActionStore {
			usage = usage + " `" + v.Metavar + "`"
		}

		switch {
		case v.IsBool():
			fs.BoolP(v.flagName(), v.Shortname, false, usage)
		case v.Kind == KindInt:
			fs.Int64P(v.flagName(), v.Shortname, 0, usage)
		case v.Kind == KindFloat:
			fs.Float64P(v.flagName(), v.Shortname, 0, usage)
		default:
			fs.StringP(v.flagName(), v.Shortname, "", usage)
		}
	}

	return fs
}

// ParseFlags parses args against the adapter flag set and returns a layer
// holding only the flags that were explicitly provided, keyed by variable
// name. The layer is typed, so no Kind coercion happens on resolution.
// Prepend the result to let command-line values outrank everything else.
func (c *Combined) ParseFlags(args []string) (Layer, error) {
	fs := c.FlagSet("combined-config")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFlagParse, err)
	}

	return c.LayerFromFlags(fs), nil
}

// LayerFromFlags builds a layer from an already-parsed flag set, keeping
// only the flags the user set. A store-false variable records false when
// its flag is present.
func (c *Combined) LayerFromFlags(fs *pflag.FlagSet) Layer {
	values := make(flagLayer)

	fs.Visit(func(f *pflag.Flag) {
		name, ok := c.varNameForFlag(f.Name)
		if !ok {
			return
		}
		v := c.vars[name]

		switch {
		case v.Action == ActionStoreFalse:
			values[name] = false
		case v.IsBool():
			b, _ := fs.GetBool(f.Name)
			values[name] = b
		case v.Kind == KindInt:
			n, _ := fs.GetInt64(f.Name)
			values[name] = n
		case v.Kind == KindFloat:
			fl, _ := fs.GetFloat64(f.Name)
			values[name] = fl
		default:
			s, _ := fs.GetString(f.Name)
			values[name] = s
		}
	})

	return values
}

// varNameForFlag maps a long flag name back to its variable name.
func (c *Combined) varNameForFlag(flagName string) (string, bool) {
	for _, name := range c.order {
		if c.vars[name].flagName() == flagName {
			return name, true
		}
	}
	return "", false
}
