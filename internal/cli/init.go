package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modkit-labs/modkit/internal/branding"
	"github.com/modkit-labs/modkit/internal/issue"
	"github.com/modkit-labs/modkit/internal/layout"
	"github.com/modkit-labs/modkit/internal/manifest"
	"github.com/modkit-labs/modkit/internal/project"
)

var (
	initRoot        string
	initLayout      string
	initBasePackage string
	initProjectName string
	initFeaturesDir string
)

func init() {
	initCmd.Flags().StringVar(&initRoot, "root", "", "project root (default: nearest directory with a Gradle settings file)")
	initCmd.Flags().StringVar(&initLayout, "layout", "", "default layout for this project")
	initCmd.Flags().StringVar(&initBasePackage, "base-package", "", "base package for new modules")
	initCmd.Flags().StringVar(&initProjectName, "project-name", "", "project name used for the fallback base package")
	initCmd.Flags().StringVar(&initFeaturesDir, "features-dir", "", "grouping directory for feature modules")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the project file",
	Long: `Create ` + branding.ProjectFile() + ` in the project root.

The file pins per-project defaults such as the layout and the base package.
Any configuration key can be set in it; see 'modkit config list'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot(initRoot)
		if err != nil {
			return err
		}

		p := &manifest.Project{
			BasePackage: initBasePackage,
			ProjectName: initProjectName,
			FeaturesDir: initFeaturesDir,
		}
		if initLayout != "" {
			kind, err := layout.ParseKind(initLayout)
			if err != nil {
				return issue.Wrap(issue.InvalidInput, err, "select layout", initLayout)
			}
			p.Layout = string(kind)
		}

		if err := project.Init(root, p); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", SuccessStyle.Render("Created"), PathStyle.Render(project.FilePath(root)))
		return nil
	},
}
