// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. Hard defaults cover a missing or empty file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	ProjectFile string `yaml:"project_file"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:     "modkit",
			DisplayName: "Modkit",
			Description: "Feature module scaffolding for Kotlin Multiplatform projects",
			HomeDir:     ".modkit",
			EnvPrefix:   "MODKIT",
			ProjectFile: ".modkit.yaml",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "modkit").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".modkit").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "MODKIT").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// ProjectFile returns the name of the per-project settings file (e.g., ".modkit.yaml").
func ProjectFile() string { load(); return defaults.ProjectFile }

// EnvFile returns the name of the per-project dotenv override file (e.g., ".modkit.env").
func EnvFile() string {
	load()
	return strings.TrimSuffix(defaults.ProjectFile, ".yaml") + ".env"
}

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "MODKIT_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
