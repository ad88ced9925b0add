// Package settings appends module include directives to a project's Gradle
// settings file (Kotlin or Groovy DSL). The file is read whole, extended and
// replaced atomically; optional de-duplication and a commented-out mode are
// available.
package settings
