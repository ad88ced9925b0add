// Package catalog reads the Gradle version catalog (gradle/libs.versions.toml)
// of a project so generated build scripts can reuse its Android SDK levels.
package catalog
