// Package config merges configuration values from multiple ordered
// sources (command-line flags, INI/TOML/YAML files, plain maps) into a
// single prioritized view, with declared defaults and per-variable
// coercion.
//
// Features:
//   - Ordered layer chain with first-hit-wins resolution
//   - Declarative variable schema with defaults, kinds, and flag metadata
//   - pflag-based command-line adapter that only captures explicitly set flags
//   - File persistence that writes only non-default values, partitioned
//     into named sections, with atomic full-file replacement
//   - Typed accessors and mapstructure-based struct decoding
//
// The merged config is flat: every variable is a top-level name, which
// keeps values comparable across heterogeneous sources. If you need a
// hierarchical config, this is not the config for you.
//
// Quick Start:
//
//	cfg, err := config.New(
//	    config.Var{Name: "host", Default: "localhost", Help: "server host"},
//	    config.Var{Name: "port", Kind: config.KindInt, Default: 8080},
//	    config.Var{Name: "verbose", Shortname: "v", Action: config.ActionStoreTrue, Default: false},
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	flags, err := cfg.ParseFlags(os.Args[1:])
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.Prepend(flags)
//
//	backed := config.NewFileBacked(cfg, "app.ini")
//	if err := backed.Read(); err != nil {
//	    log.Fatal(err)
//	}
//
//	host, _ := cfg.Values().String("host")
//	port, _ := cfg.Values().Int64("port")
//
// Precedence (highest to lowest):
//  1. Layers added with Prepend, most recent first
//  2. Layers added with Append, oldest first
//  3. Declared defaults
//
// A variable with no default and no layer value fails resolution with
// ErrUnresolved rather than yielding a zero value.
//
// Concurrency:
// The layer chain is not thread-safe and file writes do not coordinate
// across processes. Callers needing concurrent access must serialize
// externally; two processes writing the same backing file may race.
package config
