// Package issue defines the failure kinds reported by modkit (invalid input,
// existing module, unresolvable project root, write failure, settings update
// failure) and an error type that carries the kind together with the failed
// operation, the resource involved and suggestions for the user.
package issue
