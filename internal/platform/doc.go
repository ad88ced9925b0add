// Package platform provides the filesystem primitives modkit relies on:
// existence checks, permission management and atomic file replacement. On
// Windows permission changes are no-ops because Unix mode bits do not apply.
package platform
