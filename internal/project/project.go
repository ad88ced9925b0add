package project

import (
	"fmt"
	"path/filepath"

	"github.com/modkit-labs/modkit/internal/branding"
	"github.com/modkit-labs/modkit/internal/issue"
	"github.com/modkit-labs/modkit/internal/manifest"
	"github.com/modkit-labs/modkit/internal/platform"
	"github.com/modkit-labs/modkit/internal/settings"
)

// markers identify a project root, checked in every directory walking up.
func markers() []string {
	return []string{settings.KotlinFile, settings.GroovyFile, branding.ProjectFile()}
}

// Locate walks up from start to the first directory holding a Gradle settings
// file or a project file. Without one, start itself is the root. A start that
// does not exist or is not a directory is a PathResolutionFailure.
func Locate(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", issue.Wrap(issue.PathResolutionFailure, err, "resolve project root", start)
	}
	if !platform.IsDir(abs) {
		return "", issue.New(issue.PathResolutionFailure, "resolve project root",
			fmt.Sprintf("%s is not an existing directory", abs)).
			WithSuggestion("Pass an existing project directory with --root")
	}

	for dir := abs; ; {
		for _, m := range markers() {
			if platform.IsFile(filepath.Join(dir, m)) {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}

// Name returns the project's display name: rootProject.name from the settings
// file, else the root directory's base name.
func Name(root, settingsFile string) string {
	if name, ok := settings.ProjectName(root, settingsFile); ok {
		return name
	}
	return filepath.Base(root)
}

// FilePath returns the full path to the project file of root.
func FilePath(root string) string {
	return filepath.Join(root, branding.ProjectFile())
}

// Load reads and parses the project file of root.
func Load(root string) (*manifest.Project, error) {
	p, err := manifest.ParseFile(FilePath(root))
	if err != nil {
		return nil, fmt.Errorf("loading project file: %w", err)
	}
	return p, nil
}

// Save validates p and writes it as the project file of root.
func Save(root string, p *manifest.Project) error {
	result, err := manifest.ValidateProject(p)
	if err != nil {
		return fmt.Errorf("validating project file: %w", err)
	}
	if !result.Valid {
		first := result.Issues[0]
		return issue.New(issue.InvalidInput, "save project file",
			fmt.Sprintf("%s %s", first.Path, first.Message)).
			WithResource(FilePath(root))
	}

	data, err := manifest.Marshal(p)
	if err != nil {
		return err
	}

	path := FilePath(root)
	if err := platform.WriteFileAtomic(path, data, platform.FileMode(path, platform.FilePerm)); err != nil {
		return issue.Wrap(issue.WriteFailure, err, "write project file", path)
	}
	return nil
}

// Init creates the project file of root. An existing file is AlreadyExists.
func Init(root string, p *manifest.Project) error {
	path := FilePath(root)
	exists, err := platform.Exists(path)
	if err != nil {
		return issue.Wrap(issue.WriteFailure, err, "check project file", path)
	}
	if exists {
		return issue.New(issue.AlreadyExists, "initialize project", path+" already exists").
			WithSuggestion("Edit the existing file or remove it first")
	}

	if p.Version == 0 {
		p.Version = manifest.FormatVersion
	}
	return Save(root, p)
}
