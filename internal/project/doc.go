// Package project finds the Gradle project a command operates on and manages
// its .modkit.yaml project file.
package project
