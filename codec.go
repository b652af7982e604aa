package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// fileCodec translates between raw file data and section-keyed string
// maps. All values cross this boundary as strings; Kind coercion happens
// later, at resolution time.
type fileCodec interface {
	decode(data []byte) (map[string]map[string]string, error)
	encode(sections []encodedSection) ([]byte, error)
}

// encodedSection is one section prepared for writing: a name plus its
// keys in write order. Ordering matters for byte-identical rewrites.
type encodedSection struct {
	name   string
	keys   []string
	values map[string]string
}

// codecFor selects a codec from the filename extension. INI is the
// default for .ini, .conf, and anything unrecognized.
func codecFor(path string) fileCodec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return tomlCodec{}
	case ".yaml", ".yml":
		return yamlCodec{}
	default:
		return iniCodec{}
	}
}

// iniCodec reads and writes INI files via gopkg.in/ini.v1.
type iniCodec struct{}

func (iniCodec) decode(data []byte) (map[string]map[string]string, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, err
	}

	sections := make(map[string]map[string]string)
	for _, sec := range f.Sections() {
		keys := sec.KeysHash()
		if sec.Name() == ini.DefaultSection && len(keys) == 0 {
			continue
		}
		sections[sec.Name()] = keys
	}

	return sections, nil
}

func (iniCodec) encode(sections []encodedSection) ([]byte, error) {
	f := ini.Empty()

	for _, section := range sections {
		sec, err := f.NewSection(section.name)
		if err != nil {
			return nil, err
		}
		for _, key := range section.keys {
			if _, err := sec.NewKey(key, section.values[key]); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// tomlCodec maps sections to TOML tables. The BurntSushi encoder sorts
// map keys, so output is deterministic.
type tomlCodec struct{}

func (tomlCodec) decode(data []byte) (map[string]map[string]string, error) {
	parsed := make(map[string]map[string]any)
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	return stringifySections(parsed), nil
}

func (tomlCodec) encode(sections []encodedSection) ([]byte, error) {
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(sectionMaps(sections)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// yamlCodec maps sections to top-level YAML mappings. yaml.v3 also sorts
// map keys on output.
type yamlCodec struct{}

func (yamlCodec) decode(data []byte) (map[string]map[string]string, error) {
	parsed := make(map[string]map[string]any)
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	return stringifySections(parsed), nil
}

func (yamlCodec) encode(sections []encodedSection) ([]byte, error) {
	return yaml.Marshal(sectionMaps(sections))
}

// sectionMaps reshapes encoded sections for the map-based encoders.
func sectionMaps(sections []encodedSection) map[string]map[string]string {
	m := make(map[string]map[string]string, len(sections))
	for _, section := range sections {
		m[section.name] = section.values
	}
	return m
}

// stringifySections flattens typed section values to strings, since the
// file adapter contract deals in raw string data.
func stringifySections(parsed map[string]map[string]any) map[string]map[string]string {
	sections := make(map[string]map[string]string, len(parsed))
	for name, keys := range parsed {
		section := make(map[string]string, len(keys))
		for key, value := range keys {
			section[key] = formatValue(value)
		}
		sections[name] = section
	}
	return sections
}

// formatValue renders a resolved value as its string form for the backing
// file.
func formatValue(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	}

	return fmt.Sprintf("%v", val)
}
