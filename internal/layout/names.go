package layout

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Names holds the spellings of a module name used in paths and types. All
// three derive from the same trimmed input.
type Names struct {
	Original    string // as typed, trimmed (e.g., "userProfile")
	Lower       string // path and package segment (e.g., "userprofile")
	Capitalized string // type-name prefix (e.g., "UserProfile")
}

// NewNames derives Names from a module name. Lowercasing is locale
// independent so "Items" never turns into a dotless-i path on Turkish systems.
func NewNames(name string) Names {
	name = strings.TrimSpace(name)
	return Names{
		Original:    name,
		Lower:       cases.Lower(language.Und).String(name),
		Capitalized: capitalize(name),
	}
}

// capitalize upper-cases the first rune and leaves the rest untouched.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	// A Caser keeps state, so one is built per call.
	return cases.Upper(language.Und).String(string(r)) + s[size:]
}
