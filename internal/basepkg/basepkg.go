package basepkg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultSourceRoots are the conventional source roots scanned, in order.
var DefaultSourceRoots = []string{
	"src/main/kotlin",
	"src/main/java",
	"app/src/main/kotlin",
	"app/src/main/java",
	"shared/src/commonMain/kotlin",
	"composeApp/src/commonMain/kotlin",
}

// FallbackPackage is used when neither a declaration nor a usable project name exists.
const FallbackPackage = "com.example"

var (
	packageDecl   = regexp.MustCompile(`(?m)^\s*package\s+([^\s;]+)`)
	dottedIdent   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
	nonIdentChars = regexp.MustCompile(`[^a-z0-9_]`)
	sourceExts    = map[string]bool{".kt": true, ".java": true}
)

// Source tells where a resolved base package came from.
type Source int

const (
	// SourceDeclaration means the package was taken from a source file.
	SourceDeclaration Source = iota
	// SourceProjectName means no usable declaration was found.
	SourceProjectName
)

func (s Source) String() string {
	if s == SourceDeclaration {
		return "declaration"
	}
	return "project-name"
}

// Resolution is the outcome of a base package lookup.
type Resolution struct {
	BasePackage string
	Source      Source
	File        string // source file whose declaration was used, absolute
	Declared    string // full package declared in File
}

// Options tunes the scan.
type Options struct {
	// SourceRoots overrides DefaultSourceRoots. Paths are relative to the project root.
	SourceRoots []string
}

// Resolve scans the candidate source roots under root for the first Kotlin or
// Java file with a package declaration and returns that package minus its last
// segment. Without one it falls back to FromProjectName(projectName). A
// declaration with a single segment also falls back.
func Resolve(root, projectName string, opts Options) (*Resolution, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading project root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", root)
	}

	roots := opts.SourceRoots
	if len(roots) == 0 {
		roots = DefaultSourceRoots
	}

	for _, rel := range roots {
		dir := filepath.Join(root, filepath.FromSlash(rel))
		if _, err := os.Stat(dir); err != nil {
			continue
		}

		file, declared, err := firstDeclaration(dir)
		if err != nil {
			return nil, err
		}
		if file == "" {
			continue
		}

		base := dropLastSegment(declared)
		if base == "" {
			break
		}
		return &Resolution{
			BasePackage: base,
			Source:      SourceDeclaration,
			File:        file,
			Declared:    declared,
		}, nil
	}

	return &Resolution{
		BasePackage: FromProjectName(projectName),
		Source:      SourceProjectName,
	}, nil
}

// FromProjectName derives "com.<name>" from a project name, lowercased and
// stripped of characters that cannot appear in a package segment.
func FromProjectName(projectName string) string {
	name := nonIdentChars.ReplaceAllString(strings.ToLower(projectName), "")
	name = strings.TrimLeft(name, "0123456789")
	if name == "" {
		return FallbackPackage
	}
	return "com." + name
}

// IsDottedIdentifier reports whether s is a valid dotted package name.
func IsDottedIdentifier(s string) bool {
	return dottedIdent.MatchString(s)
}

// ParseDeclaration extracts the package declared in source, if any.
func ParseDeclaration(source []byte) (string, bool) {
	m := packageDecl.FindSubmatch(source)
	if m == nil {
		return "", false
	}
	pkg := string(m[1])
	if !IsDottedIdentifier(pkg) {
		return "", false
	}
	return pkg, true
}

// firstDeclaration walks dir depth-first in lexical order and returns the first
// source file carrying a package declaration.
func firstDeclaration(dir string) (string, string, error) {
	var foundFile, foundPkg string

	errFound := errors.New("found")
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subtrees are skipped rather than failing the scan.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || name == "build") {
				return fs.SkipDir
			}
			return nil
		}
		if !sourceExts[filepath.Ext(path)] {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		pkg, ok := ParseDeclaration(data)
		if !ok {
			return nil
		}
		foundFile, foundPkg = path, pkg
		return errFound
	})
	if err != nil && !errors.Is(err, errFound) {
		return "", "", fmt.Errorf("scanning %s: %w", dir, err)
	}
	return foundFile, foundPkg, nil
}

func dropLastSegment(pkg string) string {
	i := strings.LastIndex(pkg, ".")
	if i < 0 {
		return ""
	}
	return pkg[:i]
}
