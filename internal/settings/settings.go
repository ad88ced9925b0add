package settings

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/modkit-labs/modkit/internal/issue"
	"github.com/modkit-labs/modkit/internal/platform"
)

// Settings file names probed when none is configured, in order.
const (
	KotlinFile = "settings.gradle.kts"
	GroovyFile = "settings.gradle"
)

// CommentHeader precedes appended lines in comment mode.
const CommentHeader = "// Manually include modules if needed:"

var rootProjectName = regexp.MustCompile(`(?m)^\s*rootProject\.name\s*=\s*["']([^"']+)["']`)

// Dialect is the Gradle DSL of a settings file.
type Dialect int

const (
	// Kotlin is the Kotlin DSL (settings.gradle.kts).
	Kotlin Dialect = iota
	// Groovy is the Groovy DSL (settings.gradle).
	Groovy
)

// DialectOf picks the dialect from the file extension.
func DialectOf(path string) Dialect {
	if strings.HasSuffix(path, ".kts") {
		return Kotlin
	}
	return Groovy
}

// Mode selects what gets appended.
type Mode string

const (
	// ModeInclude appends active include directives.
	ModeInclude Mode = "include"
	// ModeComment appends the directives commented out under CommentHeader.
	ModeComment Mode = "comment"
)

// ParseMode validates a mode name. Empty means ModeInclude.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeInclude:
		return ModeInclude, nil
	case ModeComment:
		return ModeComment, nil
	default:
		return "", fmt.Errorf("unknown settings mode %q (want include or comment)", s)
	}
}

// Options tunes Apply.
type Options struct {
	// File is the settings file relative to the project root. Empty probes
	// KotlinFile then GroovyFile.
	File   string
	Mode   Mode
	Dedupe bool // skip lines already present in the file
	DryRun bool // compute the change without writing
	Logger *log.Logger
}

// Change describes what Apply appended.
type Change struct {
	Path     string
	Dialect  Dialect
	Appended []string // lines added, in order
	Skipped  []string // lines already present (Dedupe only)
	DryRun   bool
}

// Locate returns the absolute path of the settings file.
func Locate(root, file string) (string, error) {
	if file != "" {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, file)
		}
		if !platform.IsFile(path) {
			return "", issue.New(issue.SettingsUpdateFailure, "locate settings file",
				fmt.Sprintf("%s does not exist", path)).
				WithSuggestion("Check the settings.file configuration value")
		}
		return path, nil
	}

	for _, name := range []string{KotlinFile, GroovyFile} {
		path := filepath.Join(root, name)
		if platform.IsFile(path) {
			return path, nil
		}
	}
	return "", issue.New(issue.SettingsUpdateFailure, "locate settings file",
		fmt.Sprintf("no %s or %s in %s", KotlinFile, GroovyFile, root)).
		WithSuggestion("Run the command from the Gradle project root or pass --root")
}

// IncludeLine renders one include directive for a Gradle project path.
func IncludeLine(d Dialect, coordinate string) string {
	if d == Kotlin {
		return fmt.Sprintf("include(%q)", coordinate)
	}
	return fmt.Sprintf("include '%s'", coordinate)
}

// Lines returns the lines Apply would append for the given coordinates,
// before de-duplication.
func Lines(d Dialect, mode Mode, coordinates []string) []string {
	var lines []string
	if mode == ModeComment {
		lines = append(lines, CommentHeader)
	}
	for _, c := range coordinates {
		line := IncludeLine(d, c)
		if mode == ModeComment {
			line = "// " + line
		}
		lines = append(lines, line)
	}
	return lines
}

// Apply reads the whole settings file, appends one line per coordinate and
// writes the file back. There is no locking: edits made by others between the
// read and the write are lost.
func Apply(ctx context.Context, root string, coordinates []string, opts Options) (*Change, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	path, err := Locate(root, opts.File)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, issue.Wrap(issue.SettingsUpdateFailure, err, "update settings file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.Wrap(issue.SettingsUpdateFailure, err, "read settings file", path)
	}
	content := string(data)

	change := &Change{
		Path:    path,
		Dialect: DialectOf(path),
		DryRun:  opts.DryRun,
	}

	existing := make(map[string]bool)
	if opts.Dedupe {
		for _, l := range strings.Split(content, "\n") {
			existing[strings.TrimSpace(l)] = true
		}
	}

	for _, line := range Lines(change.Dialect, opts.Mode, coordinates) {
		if opts.Dedupe && existing[line] {
			change.Skipped = append(change.Skipped, line)
			continue
		}
		change.Appended = append(change.Appended, line)
	}

	// A lone comment header is noise.
	if len(change.Appended) == 1 && change.Appended[0] == CommentHeader {
		change.Skipped = append(change.Skipped, CommentHeader)
		change.Appended = nil
	}

	if len(change.Appended) == 0 {
		logger.Debug("settings file already up to date", "path", path)
		return change, nil
	}
	if opts.DryRun {
		return change, nil
	}

	var b strings.Builder
	b.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	for _, line := range change.Appended {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if err := platform.WriteFileAtomic(path, []byte(b.String()), platform.FileMode(path, platform.FilePerm)); err != nil {
		return nil, issue.Wrap(issue.SettingsUpdateFailure, err, "write settings file", path)
	}

	for _, line := range change.Appended {
		logger.Debug("appended settings line", "line", line)
	}
	return change, nil
}

// ProjectName returns rootProject.name from the settings file under root.
func ProjectName(root, file string) (string, bool) {
	path, err := Locate(root, file)
	if err != nil {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	m := rootProjectName.FindSubmatch(data)
	if m == nil {
		return "", false
	}
	return string(m[1]), true
}
