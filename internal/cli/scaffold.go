package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modkit-labs/modkit/internal/basepkg"
	"github.com/modkit-labs/modkit/internal/catalog"
	"github.com/modkit-labs/modkit/internal/config"
	"github.com/modkit-labs/modkit/internal/issue"
	"github.com/modkit-labs/modkit/internal/layout"
	"github.com/modkit-labs/modkit/internal/project"
	"github.com/modkit-labs/modkit/internal/prompt"
	"github.com/modkit-labs/modkit/internal/scaffold"
	"github.com/modkit-labs/modkit/internal/settings"
)

var (
	scaffoldRoot        string
	scaffoldDryRun      bool
	scaffoldInteractive bool
)

// scaffoldFlags maps flag names to the configuration keys they override.
var scaffoldFlags = map[string]string{
	"base-package":   config.KeyBasePackage,
	"layout":         config.KeyLayout,
	"with-impl":      config.KeyWithImpl,
	"source-set":     config.KeySourceSet,
	"features-dir":   config.KeyFeaturesDir,
	"project-name":   config.KeyProjectName,
	"module-version": config.KeyModuleVersion,
	"settings-file":  config.KeySettingsFile,
}

func init() {
	f := scaffoldCmd.Flags()
	f.String("base-package", "", "base package (default: resolved from the project sources)")
	f.String("layout", config.DefaultLayout, "module layout: kmp, feature or android")
	f.Bool("with-impl", true, "generate the default implementation class")
	f.String("source-set", config.DefaultSourceSet, "source set for kmp and feature layouts")
	f.String("features-dir", config.DefaultFeaturesDir, "grouping directory for feature modules")
	f.String("project-name", "", "project name used for the fallback base package")
	f.String("module-version", config.DefaultModuleVersion, "version written into the build scripts")
	f.String("settings-file", "", "Gradle settings file (default: settings.gradle.kts, then settings.gradle)")
	f.StringVar(&scaffoldRoot, "root", "", "project root (default: nearest directory with a Gradle settings file)")
	f.BoolVar(&scaffoldDryRun, "dry-run", false, "print what would be created without writing anything")
	f.BoolVarP(&scaffoldInteractive, "interactive", "i", false, "prompt for the layout and module name")
	rootCmd.AddCommand(scaffoldCmd)
}

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold [module-name]",
	Short: "Create a feature module with API and implementation leaves",
	Long: `Create a feature module under the features directory and register its
API and implementation leaves in the Gradle settings file.

Without a module name, the layout and name are asked for interactively when
standard input is a terminal.

Examples:
  modkit scaffold payments
  modkit scaffold userProfile --layout feature --base-package com.acme.app
  modkit scaffold checkout --root ./shop --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot(scaffoldRoot)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(root)
		if err != nil {
			return err
		}
		for name, key := range scaffoldFlags {
			if err := cfg.BindFlag(key, cmd.Flags().Lookup(name)); err != nil {
				return err
			}
		}

		cat, err := catalog.Load(root)
		if err != nil {
			logger.Warn("ignoring version catalog", "err", err)
			cat = nil
		}
		s := cfg.Settings(cat)

		kind, err := layout.ParseKind(s.Layout)
		if err != nil {
			return issue.Wrap(issue.InvalidInput, err, "select layout", s.Layout).
				WithSuggestion("Run 'modkit layouts' to list the available layouts")
		}
		mode, err := settings.ParseMode(s.SettingsMode)
		if err != nil {
			return issue.Wrap(issue.InvalidInput, err, "read configuration", config.KeySettingsMode)
		}

		var moduleName string
		switch {
		case len(args) == 1:
			moduleName = args[0]
		case scaffoldInteractive || prompt.IsTerminal(os.Stdin):
			answers, err := prompt.Run(os.Stdin, os.Stdout, kind)
			if err != nil {
				return err
			}
			kind, moduleName = answers.Layout, answers.ModuleName
		default:
			return issue.New(issue.InvalidInput, "scaffold module", "no module name given").
				WithSuggestion("Pass a module name, or --interactive to be prompted for one")
		}

		req, err := scaffold.NewRequest(moduleName, s.BasePackage, s.ModuleVersion)
		if err != nil {
			return err
		}

		projectName := s.ProjectName
		if projectName == "" {
			projectName = project.Name(root, s.SettingsFile)
		}

		report, err := scaffold.Run(cmd.Context(), scaffold.Job{
			Root:        root,
			ProjectName: projectName,
			Request:     req,
			Layout:      kind,
			Options: layout.Options{
				FeaturesDir: s.FeaturesDir,
				SourceSet:   s.SourceSet,
				WithImpl:    s.WithImpl,
				CompileSdk:  s.CompileSdk,
				MinSdk:      s.MinSdk,
			},
			Resolver: basepkg.Options{SourceRoots: s.SourceRoots},
			Settings: settings.Options{
				File:   s.SettingsFile,
				Mode:   mode,
				Dedupe: s.SettingsDedupe,
			},
			DryRun: scaffoldDryRun,
			Logger: logger,
		})
		if err != nil {
			return err
		}

		printReport(root, report)
		return nil
	},
}

func printReport(root string, r *scaffold.Report) {
	plan := r.Plan
	if r.Result.DryRun {
		fmt.Println(WarningStyle.Render("Dry run: nothing was written."))
	}
	fmt.Printf("%s %s (%s layout, package %s)\n",
		TitleStyle.Render("Module"), plan.Names.Original, plan.Kind, plan.BasePackage)
	if r.Resolution != nil {
		fmt.Println(MutedStyle.Render("  base package " + describeResolution(root, r.Resolution)))
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render("Created:"))
	for _, p := range r.Result.Created {
		fmt.Printf("  %s\n", PathStyle.Render(p))
	}

	fmt.Println()
	rel, err := filepath.Rel(root, r.Settings.Path)
	if err != nil {
		rel = r.Settings.Path
	}
	fmt.Printf("%s %s\n", TitleStyle.Render("Settings:"), filepath.ToSlash(rel))
	for _, line := range r.Settings.Appended {
		fmt.Printf("  + %s\n", line)
	}
	for _, line := range r.Settings.Skipped {
		fmt.Printf("  = %s %s\n", line, MutedStyle.Render("(already present)"))
	}

	if !r.Result.DryRun {
		fmt.Println()
		fmt.Println(SuccessStyle.Render(fmt.Sprintf("Module %s created.", plan.Names.Original)))
	}
}

func describeResolution(root string, res *basepkg.Resolution) string {
	if res.Source != basepkg.SourceDeclaration {
		return "derived from the project name"
	}
	rel, err := filepath.Rel(root, res.File)
	if err != nil {
		rel = res.File
	}
	return fmt.Sprintf("taken from %s (package %s)", filepath.ToSlash(rel), res.Declared)
}
