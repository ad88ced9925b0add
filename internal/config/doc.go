// Package config layers modkit settings: built-in defaults, the user config
// file (~/.modkit/config.yaml), the project file (.modkit.yaml), the project
// env file (.modkit.env), MODKIT_* environment variables and command-line
// flags, each overriding the one before.
package config
