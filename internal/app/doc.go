// Package app wires application dependencies for the binaries.
//
// Config is read from YAML, filled with defaults and validated; command-line
// flags override it. NewWire builds the logger and the configured transport,
// and hands out sessions bound to them as an App.
package app
