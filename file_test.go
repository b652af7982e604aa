package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackedConfig(t *testing.T, filename string, sections ...Section) *FileBacked {
	t.Helper()
	cfg, err := New(
		Var{Name: "four"},
		Var{Name: "and"},
		Var{Name: "years", Default: "ago"},
	)
	require.NoError(t, err)
	return NewFileBacked(cfg, filename, sections...)
}

// TestReadMissingFile verifies a nonexistent backing file acts as empty.
func TestReadMissingFile(t *testing.T) {
	backed := newBackedConfig(t, filepath.Join(t.TempDir(), "absent.ini"))

	require.NoError(t, backed.Read())

	val, err := backed.Find("years")
	require.NoError(t, err)
	assert.Equal(t, "ago", val)

	_, err = backed.Find("four")
	assert.ErrorIs(t, err, ErrUnresolved)
}

// TestReadUnderridesExistingLayers verifies file sections rank below
// layers added before Read but above defaults.
func TestReadUnderridesExistingLayers(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "test.ini")
	content := "[config]\nfour = score\nand = seven\n"
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	backed := newBackedConfig(t, configFile)
	require.NoError(t, backed.Append(map[string]any{"four": "thousand"}))
	require.NoError(t, backed.Read())

	values := backed.Values()

	four, err := values.Get("four")
	require.NoError(t, err)
	assert.Equal(t, "thousand", four)

	and, err := values.Get("and")
	require.NoError(t, err)
	assert.Equal(t, "seven", and)

	years, err := values.Get("years")
	require.NoError(t, err)
	assert.Equal(t, "ago", years)
}

// TestWriteSections verifies variables partition into their declared sections.
func TestWriteSections(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "sections.ini")

	cfg, err := New(
		Var{Name: "four"},
		Var{Name: "and"},
		Var{Name: "years"},
		Var{Name: "our"},
	)
	require.NoError(t, err)

	backed := NewFileBacked(cfg, configFile,
		Section{Name: "abraham", Vars: []string{"four", "and"}},
		Section{Name: "lincoln", Vars: []string{"years", "our"}},
	)

	require.NoError(t, backed.Append(map[string]any{
		"four": "score", "and": "seven", "years": "ago", "our": "fathers",
	}))
	require.NoError(t, backed.Write())

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	parsed, err := codecFor(configFile).decode(data)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"four": "score", "and": "seven"}, parsed["abraham"])
	assert.Equal(t, map[string]string{"years": "ago", "our": "fathers"}, parsed["lincoln"])
}

// TestWriteCatchAllSection verifies a nil Vars section takes every variable.
func TestWriteCatchAllSection(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "all.ini")

	cfg, err := New(
		Var{Name: "four"},
		Var{Name: "and"},
		Var{Name: "years"},
	)
	require.NoError(t, err)

	backed := NewFileBacked(cfg, configFile, Section{Name: "log cabin"})
	require.NoError(t, backed.Append(map[string]any{
		"four": "score", "and": "seven", "years": "ago",
	}))
	require.NoError(t, backed.Write())

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	parsed, err := codecFor(configFile).decode(data)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"four": "score", "and": "seven", "years": "ago",
	}, parsed["log cabin"])
}

// TestWriteSkipsDefaults verifies values equal to their defaults are
// omitted, regardless of which layer supplied them.
func TestWriteSkipsDefaults(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "defaults.ini")

	cfg, err := New(
		Var{Name: "four", Default: "score"},
		Var{Name: "and", Default: "eight"},
		Var{Name: "years"},
		Var{Name: "our"},
		Var{Name: "brought", Default: "forth"},
	)
	require.NoError(t, err)

	backed := NewFileBacked(cfg, configFile, Section{Name: "gettysburg"})
	// "four" is an explicit override that happens to equal the default.
	require.NoError(t, backed.Append(map[string]any{
		"four": "score", "and": "seven", "years": "ago", "our": "fathers",
	}))
	require.NoError(t, backed.Write())

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	parsed, err := codecFor(configFile).decode(data)
	require.NoError(t, err)

	section := parsed["gettysburg"]
	assert.NotContains(t, section, "four")
	assert.NotContains(t, section, "brought")
	assert.Equal(t, "seven", section["and"])
	assert.Equal(t, "ago", section["years"])
	assert.Equal(t, "fathers", section["our"])
}

// TestRoundTrip verifies write-then-read restores overridden values and
// lets defaults fall through for everything else.
func TestRoundTrip(t *testing.T) {
	newSchema := func(t *testing.T) *Combined {
		cfg, err := New(
			Var{Name: "a", Default: "my default"},
			Var{Name: "switch", Action: ActionStoreTrue, Default: false},
			Var{Name: "n", Kind: KindInt},
		)
		require.NoError(t, err)
		return cfg
	}

	t.Run("NonDefaultSurvives", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "roundtrip.ini")

		backed := NewFileBacked(newSchema(t), configFile)
		require.NoError(t, backed.Prepend(map[string]any{
			"a": "other value", "switch": true, "n": int64(10),
		}))
		require.NoError(t, backed.Write())

		fresh := NewFileBacked(newSchema(t), configFile)
		require.NoError(t, fresh.Read())

		values := fresh.Values()
		a, err := values.Get("a")
		require.NoError(t, err)
		assert.Equal(t, "other value", a)

		sw, err := values.Bool("switch")
		require.NoError(t, err)
		assert.True(t, sw)

		n, err := values.Int64("n")
		require.NoError(t, err)
		assert.Equal(t, int64(10), n)
	})

	t.Run("DefaultValueNotPersisted", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "roundtrip.ini")

		backed := NewFileBacked(newSchema(t), configFile)
		require.NoError(t, backed.Prepend(map[string]any{"a": "my default"}))
		require.NoError(t, backed.Write())

		data, err := os.ReadFile(configFile)
		require.NoError(t, err)
		parsed, err := codecFor(configFile).decode(data)
		require.NoError(t, err)
		assert.NotContains(t, parsed["config"], "a")

		fresh := NewFileBacked(newSchema(t), configFile)
		require.NoError(t, fresh.Read())
		a, err := fresh.Find("a")
		require.NoError(t, err)
		assert.Equal(t, "my default", a)
	})
}

// TestWriteIdempotent verifies two writes with no intervening change
// produce byte-identical files.
func TestWriteIdempotent(t *testing.T) {
	for _, ext := range []string{".ini", ".toml", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), "twice"+ext)

			cfg, err := New(
				Var{Name: "alpha"},
				Var{Name: "beta"},
				Var{Name: "gamma", Default: "g"},
			)
			require.NoError(t, err)

			backed := NewFileBacked(cfg, configFile)
			require.NoError(t, backed.Append(map[string]any{
				"alpha": "1", "beta": "2", "gamma": "not g",
			}))

			require.NoError(t, backed.Write())
			first, err := os.ReadFile(configFile)
			require.NoError(t, err)

			require.NoError(t, backed.Write())
			second, err := os.ReadFile(configFile)
			require.NoError(t, err)

			assert.Equal(t, first, second)
		})
	}
}

// TestCodecRoundTrip exercises the TOML and YAML backings end to end.
func TestCodecRoundTrip(t *testing.T) {
	for _, ext := range []string{".toml", ".yaml", ".yml", ".tml", ".conf"} {
		t.Run(ext, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), "config"+ext)

			newSchema := func() *Combined {
				cfg, err := New(
					Var{Name: "host", Default: "localhost"},
					Var{Name: "port", Kind: KindInt, Default: 8080},
					Var{Name: "ratio", Kind: KindFloat},
				)
				require.NoError(t, err)
				return cfg
			}

			backed := NewFileBacked(newSchema(), configFile)
			require.NoError(t, backed.Prepend(map[string]any{
				"host": "example.com", "port": int64(9000), "ratio": 0.25,
			}))
			require.NoError(t, backed.Write())

			fresh := NewFileBacked(newSchema(), configFile)
			require.NoError(t, fresh.Read())

			values := fresh.Values()
			host, err := values.String("host")
			require.NoError(t, err)
			assert.Equal(t, "example.com", host)

			port, err := values.Int64("port")
			require.NoError(t, err)
			assert.Equal(t, int64(9000), port)

			ratio, err := values.Float64("ratio")
			require.NoError(t, err)
			assert.Equal(t, 0.25, ratio)
		})
	}
}

// TestReadParseError verifies parse faults surface to the caller.
func TestReadParseError(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("==== not toml at all"), 0644))

	backed := newBackedConfig(t, configFile)
	err := backed.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

// TestWritePreservesOnEncodeFailure is a guard for the atomic-replace
// contract: a failed write leaves the previous file contents intact.
func TestWriteAtomicReplace(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "atomic.ini")

	backed := newBackedConfig(t, configFile)
	require.NoError(t, backed.Append(map[string]any{"four": "score"}))
	require.NoError(t, backed.Write())

	// No stray temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(configFile))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "atomic.ini", entries[0].Name())
}
