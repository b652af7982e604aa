package config

import "errors"

// Sentinel errors returned by the package. Wrap sites add context with
// fmt.Errorf("%w: ...") so callers can classify with errors.Is.
var (
	// ErrDuplicateVar indicates two variables were declared with the same name.
	ErrDuplicateVar = errors.New("duplicate config variable")

	// ErrUnknownVar indicates a lookup for a name that was never declared.
	ErrUnknownVar = errors.New("unknown config variable")

	// ErrUnresolved indicates a declared variable with no value in any layer
	// and no default.
	ErrUnresolved = errors.New("config variable unresolved")

	// ErrUnsupportedSource indicates Prepend/Append was given a source type
	// that cannot be adapted into a Layer.
	ErrUnsupportedSource = errors.New("unsupported config source")

	// ErrCoerce indicates a raw string value could not be coerced to the
	// variable's declared kind.
	ErrCoerce = errors.New("cannot coerce config value")

	// ErrFlagParse indicates command-line arguments could not be parsed.
	ErrFlagParse = errors.New("failed to parse flags")
)
