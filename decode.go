package config

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Scan decodes the resolved view into the target struct or map. The
// target must be a non-nil pointer. Fields are matched by the "config"
// struct tag, falling back to field names. Input is weakly typed so
// string values from file layers decode into numeric and duration fields.
func (c *Combined) Scan(target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("target of Scan must be a non-nil pointer, got %T", target)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "config",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(c.ResolvedValues()); err != nil {
		return fmt.Errorf("failed to scan resolved values into %T: %w", target, err)
	}

	return nil
}
