package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modkit-labs/modkit/internal/branding"
	"github.com/modkit-labs/modkit/internal/config"
	"github.com/modkit-labs/modkit/internal/layout"
	"github.com/modkit-labs/modkit/internal/manifest"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info and built-in defaults as JSON")
	rootCmd.AddCommand(versionCmd)
}

// buildInfo is what `version --json` prints. The defaults are the ones a
// project without .modkit.yaml or user config scaffolds with.
type buildInfo struct {
	Version       string   `json:"version"`
	Commit        string   `json:"commit"`
	Date          string   `json:"date"`
	ProjectFile   int      `json:"project_file_version"`
	Layouts       []string `json:"layouts"`
	DefaultLayout string   `json:"default_layout"`
	FeaturesDir   string   `json:"features_dir"`
	SettingsMode  string   `json:"settings_mode"`
	CompileSdk    int      `json:"compile_sdk"`
	MinSdk        int      `json:"min_sdk"`
}

func newBuildInfo() buildInfo {
	info := buildInfo{
		Version:       buildVersion,
		Commit:        buildCommit,
		Date:          buildDate,
		ProjectFile:   manifest.FormatVersion,
		DefaultLayout: string(layout.Default),
		FeaturesDir:   config.DefaultFeaturesDir,
		SettingsMode:  config.DefaultSettingsMode,
		CompileSdk:    config.DefaultCompileSdk,
		MinSdk:        config.DefaultMinSdk,
	}
	for _, k := range layout.Kinds() {
		info.Layouts = append(info.Layouts, string(k))
	}
	return info
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionShort {
			fmt.Println(buildVersion)
			return nil
		}

		info := newBuildInfo()
		if versionJSON {
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("%s version %s (commit: %s, built: %s)\n", branding.CLIName(), info.Version, info.Commit, info.Date)
		fmt.Println(MutedStyle.Render(fmt.Sprintf("  layouts: %s (default %s), settings mode: %s, project file v%d",
			strings.Join(info.Layouts, ", "), info.DefaultLayout, info.SettingsMode, info.ProjectFile)))
		return nil
	},
}
