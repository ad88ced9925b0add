// Package manifest defines the .modkit.yaml project file: its Go model, YAML
// parsing and rendering, and validation against an embedded JSON Schema.
package manifest
