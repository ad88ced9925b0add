// Package cli defines the Cobra command tree for the modkit CLI. Each file in
// this package registers one top-level command (scaffold, resolve, init, etc.)
// with the root command. Commands delegate to internal packages for the work
// and only handle flag parsing, configuration layering and output formatting.
// Failures surface as *ExitError values whose code follows the issue kind.
package cli
