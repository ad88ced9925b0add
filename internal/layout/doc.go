// Package layout turns a module name and base package into a Plan: the
// directories, template-backed files and Gradle include coordinates of one
// feature module. Three named layouts exist (kmp, feature, android); planning
// is pure computation with no filesystem access.
package layout
