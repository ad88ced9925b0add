package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/modkit-labs/modkit/internal/basepkg"
	"github.com/modkit-labs/modkit/internal/issue"
	"github.com/modkit-labs/modkit/internal/layout"
	"github.com/modkit-labs/modkit/internal/platform"
	"github.com/modkit-labs/modkit/internal/settings"
)

// Job is everything one scaffold run needs.
type Job struct {
	Root        string
	ProjectName string // fallback source for the base package
	Request     *Request
	Layout      layout.Kind
	Options     layout.Options // ModuleVersion is taken from Request
	Resolver    basepkg.Options
	Settings    settings.Options // DryRun and Logger are taken from the Job
	DryRun      bool
	Logger      *log.Logger
}

// Report describes a finished run.
type Report struct {
	Plan       *layout.Plan
	Resolution *basepkg.Resolution // nil when the request named a base package
	Result     *Result
	Settings   *settings.Change
}

// Run resolves the base package if needed, plans the module, writes it and
// appends the include lines to the settings file. If the settings update
// fails the written module is rolled back.
func Run(ctx context.Context, job Job) (*Report, error) {
	logger := job.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if job.Request == nil {
		return nil, issue.New(issue.InvalidInput, "scaffold module", "no request given")
	}
	if !platform.IsDir(job.Root) {
		return nil, issue.New(issue.PathResolutionFailure, "resolve project root",
			fmt.Sprintf("%s is not a directory", job.Root)).
			WithSuggestion("Pass an existing project directory with --root")
	}

	report := &Report{}

	base := job.Request.BasePackage
	if base == "" {
		res, err := basepkg.Resolve(job.Root, job.ProjectName, job.Resolver)
		if err != nil {
			return nil, issue.Wrap(issue.PathResolutionFailure, err, "resolve base package", job.Root)
		}
		report.Resolution = res
		base = res.BasePackage
		logger.Debug("resolved base package", "package", base, "source", res.Source, "file", res.File)
	}

	opts := job.Options
	opts.ModuleVersion = job.Request.ModuleVersion
	plan, err := layout.Build(job.Layout, job.Request.ModuleName, base, opts)
	if err != nil {
		return nil, issue.Wrap(issue.InvalidInput, err, "plan module", job.Request.ModuleName)
	}
	report.Plan = plan
	logger.Debug("planned module", "layout", plan.Kind, "dir", plan.ModuleDir, "files", len(plan.Files))

	w := NewWriter(job.Root, WithLogger(logger), WithDryRun(job.DryRun))
	result, err := w.Write(ctx, plan)
	if err != nil {
		return nil, err
	}
	report.Result = result

	sopts := job.Settings
	sopts.DryRun = job.DryRun
	sopts.Logger = logger
	change, err := settings.Apply(ctx, job.Root, plan.Includes, sopts)
	if err != nil {
		logger.Debug("settings update failed, rolling back module", "dir", plan.ModuleDir)
		if rbErr := w.Rollback(); rbErr != nil {
			return nil, errors.Join(err, rbErr)
		}
		return nil, err
	}
	report.Settings = change

	return report, nil
}
