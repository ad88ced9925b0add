package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/modkit-labs/modkit/internal/branding"
	"github.com/modkit-labs/modkit/internal/config"
	"github.com/modkit-labs/modkit/internal/issue"
	"github.com/modkit-labs/modkit/internal/platform"
	"github.com/modkit-labs/modkit/internal/project"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose    bool
	configFile string

	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: branding.CLIName()})
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds feature modules for Kotlin Multiplatform and Android projects.

Each module is split into an API leaf and an implementation leaf under the
features directory, and both are registered in the Gradle settings file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ~/.modkit/config.yaml)")
}

// ExitError carries the process exit status for a failed command.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Execute runs the root command with build info injected via ldflags. A
// failure is returned as an *ExitError whose code follows the error kind.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(printError),
	)
	if err == nil {
		return nil
	}
	return &ExitError{Code: issue.KindOf(err).ExitCode(), Err: err}
}

// ExitCode returns the process status for an Execute result.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

func printError(w io.Writer, _ fang.Styles, err error) {
	fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+issue.FormatForDisplay(err, verbose))
}

// ─── shared helpers ────────────────────────────────────────────────

// resolveRoot returns the project root. An explicit --root is used as given;
// otherwise the root is located by walking up from the working directory.
func resolveRoot(flag string) (string, error) {
	if flag != "" {
		abs, err := filepath.Abs(flag)
		if err != nil {
			return "", issue.Wrap(issue.PathResolutionFailure, err, "resolve project root", flag)
		}
		if !platform.IsDir(abs) {
			return "", issue.New(issue.PathResolutionFailure, "resolve project root",
				fmt.Sprintf("%s is not an existing directory", abs)).
				WithSuggestion("Pass an existing project directory with --root")
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", issue.Wrap(issue.PathResolutionFailure, err, "resolve project root", ".")
	}
	return project.Locate(cwd)
}

// loadConfig loads the layered configuration for root and applies ui.verbose.
func loadConfig(root string) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: configFile, ProjectRoot: root})
	if err != nil {
		return nil, err
	}
	if cfg.Bool(config.KeyVerbose) {
		verbose = true
		logger.SetLevel(log.DebugLevel)
	}
	logger.Debug("configuration loaded", "user", cfg.UserFile, "project", cfg.ProjectFile, "env", cfg.EnvFile)
	return cfg, nil
}
