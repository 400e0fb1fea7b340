// Package cli implements the lvstitch command-line interface.
//
// # Commands
//
//   - run: generate a synthetic view set, stitch it and print a summary
//   - defaults: write the default engine options as TOML
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// turns on the per-frame embedding log. Loggers are passed through
// context.Context.
package cli
