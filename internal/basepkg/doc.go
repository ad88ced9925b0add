// Package basepkg infers the shared base package of a Gradle project by
// scanning conventional source roots for the first Kotlin or Java package
// declaration and dropping its leaf segment. When nothing usable is found it
// derives "com.<project name>" instead. The scan is read-only.
package basepkg
