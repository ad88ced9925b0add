package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modkit-labs/modkit/internal/issue"
	"github.com/modkit-labs/modkit/internal/manifest"
	"github.com/modkit-labs/modkit/internal/platform"
	"github.com/modkit-labs/modkit/internal/project"
)

var (
	validateRoot string
	validateFile string
)

func init() {
	validateCmd.Flags().StringVar(&validateRoot, "root", "", "project root (default: nearest directory with a Gradle settings file)")
	validateCmd.Flags().StringVar(&validateFile, "file", "", "validate this file instead of the project file")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the project file against its schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := validateFile
		if path == "" {
			root, err := resolveRoot(validateRoot)
			if err != nil {
				return err
			}
			path = project.FilePath(root)
		}
		if !platform.IsFile(path) {
			return issue.New(issue.InvalidInput, "validate project file", "file not found").
				WithResource(path).
				WithSuggestion("Run 'modkit init' to create one")
		}
		return runValidate(path)
	},
}

func runValidate(path string) error {
	fmt.Printf("Project file validation: %s\n", path)

	result, err := manifest.ValidateFile(path)
	if err != nil {
		fmt.Printf("  [FAIL] %v\n", err)
		return issue.Wrap(issue.InvalidInput, err, "validate project file", path)
	}

	if result.Valid {
		fmt.Printf("  [ OK ] %s\n", SuccessStyle.Render("Valid project file"))
		return nil
	}

	fmt.Printf("  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, is := range result.Issues {
		if is.Path != "" {
			fmt.Printf("    - %s: %s\n", is.Path, is.Message)
		} else {
			fmt.Printf("    - %s\n", is.Message)
		}
	}
	return issue.New(issue.InvalidInput, "validate project file",
		fmt.Sprintf("%d validation issue(s)", len(result.Issues))).
		WithResource(path)
}
