package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Section names one partition of variables in the backing file. A nil
// Vars slice means "every declared variable" (the catch-all section).
type Section struct {
	Name string
	Vars []string
}

// FileBacked adds file persistence to a Combined. The backing format is
// chosen from the filename extension: INI by default, TOML for
// .toml/.tml, YAML for .yaml/.yml.
//
// Nothing coordinates concurrent processes touching the same file; the
// contract is single writer, single reader at a time per path.
type FileBacked struct {
	*Combined

	// Filename is the backing file path.
	Filename string

	// Sections defines, in order, how variables partition into file
	// sections on write and which sections become layers on read.
	Sections []Section
}

// NewFileBacked wraps a Combined with file persistence. With no sections
// given, a single "config" section holding every variable is used.
func NewFileBacked(c *Combined, filename string, sections ...Section) *FileBacked {
	if len(sections) == 0 {
		sections = []Section{{Name: "config"}}
	}

	return &FileBacked{
		Combined: c,
		Filename: filename,
		Sections: sections,
	}
}

// Read loads the backing file and appends one raw layer per declared
// section, in section order. Appending keeps file values below every
// layer already in the chain and above declared defaults; earlier
// sections outrank later ones.
//
// A missing file is not an error: the chain is simply left unchanged.
// Any other read or parse fault is returned to the caller.
func (f *FileBacked) Read() error {
	data, err := os.ReadFile(f.Filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file '%s': %w", f.Filename, err)
	}

	parsed, err := codecFor(f.Filename).decode(data)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", f.Filename, err)
	}

	for _, section := range f.Sections {
		values, ok := parsed[section.Name]
		if !ok {
			continue
		}
		if err := f.Append(StringLayer(values)); err != nil {
			return err
		}
	}

	return nil
}

// Write resolves the current view and replaces the backing file with the
// non-default subset: a variable is written only when it resolves and its
// value differs from its declared default. The diff is value equality,
// not layer origin, so an explicit override that happens to equal the
// default is omitted and picks up future default changes for free.
// Variables with no default are always written when resolvable.
//
// The write is a full atomic replacement of the file's contents, never a
// partial patch, and its output is deterministic: writing twice with no
// intervening layer change produces byte-identical files.
func (f *FileBacked) Write() error {
	defaulted := f.DefaultedNames()
	resolved := f.ResolvedValues()

	sections := make([]encodedSection, 0, len(f.Sections))
	for _, section := range f.Sections {
		names := section.Vars
		if names == nil {
			names = f.order
		}

		enc := encodedSection{
			name:   section.Name,
			values: make(map[string]string),
		}
		for _, name := range names {
			value, ok := resolved[name]
			if !ok || defaulted[name] {
				continue
			}
			enc.keys = append(enc.keys, name)
			enc.values[name] = formatValue(value)
		}
		sections = append(sections, enc)
	}

	data, err := codecFor(f.Filename).encode(sections)
	if err != nil {
		return fmt.Errorf("failed to encode config for '%s': %w", f.Filename, err)
	}

	return atomicWriteFile(f.Filename, data)
}

// atomicWriteFile writes data through a temp file in the target directory
// and renames it into place, so a failed write leaves the previous file
// intact.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
