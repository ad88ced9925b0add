package scaffold

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"

	"github.com/modkit-labs/modkit/internal/basepkg"
	"github.com/modkit-labs/modkit/internal/issue"
)

// DefaultModuleVersion is written into build scripts when no version is given.
const DefaultModuleVersion = "0.1.0"

// moduleIdent is stricter than a Gradle project name: the module name becomes
// a Kotlin package segment and part of the generated type names.
var moduleIdent = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Request is one validated scaffold request. An empty BasePackage means the
// base package is resolved from the project tree.
type Request struct {
	ModuleName    string
	BasePackage   string
	ModuleVersion string
}

// NewRequest trims and validates user input.
func NewRequest(moduleName, basePackage, moduleVersion string) (*Request, error) {
	name := strings.TrimSpace(moduleName)
	if name == "" {
		return nil, issue.New(issue.InvalidInput, "validate module name", "module name cannot be empty").
			WithSuggestion("Pass a module name, e.g. 'modkit scaffold payments'")
	}
	if !moduleIdent.MatchString(name) {
		suggestion := "Use letters, digits and underscores, starting with a letter"
		if alt := identFrom(name); alt != "" {
			suggestion += fmt.Sprintf(", e.g. '%s'", alt)
		}
		return nil, issue.New(issue.InvalidInput, "validate module name",
			fmt.Sprintf("%q is not a valid identifier", name)).
			WithSuggestion(suggestion)
	}

	base := strings.TrimSpace(basePackage)
	if base != "" && !basepkg.IsDottedIdentifier(base) {
		return nil, issue.New(issue.InvalidInput, "validate base package",
			fmt.Sprintf("%q is not a dotted identifier", base)).
			WithSuggestion("Use a package name like com.example.app")
	}

	version := strings.TrimSpace(moduleVersion)
	if version == "" {
		version = DefaultModuleVersion
	}
	if _, err := semver.StrictNewVersion(version); err != nil {
		return nil, issue.Wrap(issue.InvalidInput, err, "validate module version", version).
			WithSuggestion("Use a semantic version such as 1.0.0")
	}

	return &Request{
		ModuleName:    name,
		BasePackage:   base,
		ModuleVersion: version,
	}, nil
}

// identFrom camel-cases name across any characters an identifier cannot hold
// (payment-gateway → paymentGateway). It returns "" when nothing usable is left.
func identFrom(name string) string {
	var b strings.Builder
	upper := false
	for _, r := range name {
		switch {
		case r < 128 && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			if upper && b.Len() > 0 {
				r = unicode.ToUpper(r)
			}
			b.WriteRune(r)
			upper = false
		case r >= '0' && r <= '9' || r == '_':
			if b.Len() > 0 {
				b.WriteRune(r)
			}
			upper = false
		default:
			upper = true
		}
	}
	return b.String()
}
