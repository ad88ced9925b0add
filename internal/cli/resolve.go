package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modkit-labs/modkit/internal/basepkg"
	"github.com/modkit-labs/modkit/internal/config"
	"github.com/modkit-labs/modkit/internal/issue"
	"github.com/modkit-labs/modkit/internal/project"
)

var resolveRootFlag string

func init() {
	resolveCmd.Flags().StringVar(&resolveRootFlag, "root", "", "project root (default: nearest directory with a Gradle settings file)")
	resolveCmd.Flags().String("project-name", "", "project name used for the fallback base package")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the base package new modules would use",
	Long: `Print the base package new modules would use.

The first Kotlin or Java package declaration found under the configured source
roots is used without its last segment. Without one, the package is derived
from the project name.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot(resolveRootFlag)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(root)
		if err != nil {
			return err
		}
		if err := cfg.BindFlag(config.KeyProjectName, cmd.Flags().Lookup("project-name")); err != nil {
			return err
		}

		projectName := cfg.String(config.KeyProjectName)
		if projectName == "" {
			projectName = project.Name(root, cfg.String(config.KeySettingsFile))
		}

		res, err := basepkg.Resolve(root, projectName, basepkg.Options{SourceRoots: cfg.List(config.KeySourceRoots)})
		if err != nil {
			return issue.Wrap(issue.PathResolutionFailure, err, "resolve base package", root)
		}

		fmt.Println(res.BasePackage)
		fmt.Println(MutedStyle.Render("source: " + res.Source.String() + " " + describeResolution(root, res)))
		return nil
	},
}
