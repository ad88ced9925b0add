package scaffold

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/modkit-labs/modkit/internal/issue"
	"github.com/modkit-labs/modkit/internal/layout"
	"github.com/modkit-labs/modkit/internal/platform"
)

// Result holds the outcome of writing a plan.
type Result struct {
	Root     string
	Created  []string // paths created (or that would be), relative to Root, slash separated, in creation order
	Includes []string
	DryRun   bool
}

// Writer commits a layout.Plan under a project root. It remembers every path
// it creates so Rollback can remove them again. A Writer serves one plan.
type Writer struct {
	root    string
	logger  *log.Logger
	dryRun  bool
	journal []string        // absolute paths, creation order
	pending map[string]bool // dry-run view of directories that would exist
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the logger used for per-path debug output.
func WithLogger(l *log.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithDryRun makes Write report what it would create without touching disk.
func WithDryRun(dryRun bool) Option {
	return func(w *Writer) { w.dryRun = dryRun }
}

// NewWriter returns a Writer rooted at root.
func NewWriter(root string, opts ...Option) *Writer {
	w := &Writer{
		root:    root,
		logger:  log.New(io.Discard),
		pending: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Render executes the template of one planned file.
func Render(f layout.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, f.Template, f.Values); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", f.Template, err)
	}
	return buf.Bytes(), nil
}

// Write creates the plan's directories and files. An existing module directory
// fails with issue.AlreadyExists before anything is touched. Any later failure
// rolls back what this call created and returns issue.WriteFailure.
func (w *Writer) Write(ctx context.Context, plan *layout.Plan) (*Result, error) {
	moduleDir := w.abs(plan.ModuleDir)

	exists, err := platform.Exists(moduleDir)
	if err != nil {
		return nil, issue.Wrap(issue.WriteFailure, err, "check module directory", moduleDir)
	}
	if exists {
		return nil, issue.New(issue.AlreadyExists, "create module "+plan.Names.Original,
			fmt.Sprintf("%s already exists", moduleDir)).
			WithResource(plan.ModuleDir).
			WithSuggestion("Pick another module name or remove the existing directory")
	}

	// Render everything up front so a template error never leaves a half-written module.
	rendered := make([][]byte, len(plan.Files))
	for i, f := range plan.Files {
		data, err := Render(f)
		if err != nil {
			return nil, issue.Wrap(issue.WriteFailure, err, "render file", f.Path)
		}
		rendered[i] = data
	}

	res := &Result{
		Root:     w.root,
		Includes: plan.Includes,
		DryRun:   w.dryRun,
	}

	if err := w.commit(ctx, plan, rendered, res); err != nil {
		if rbErr := w.Rollback(); rbErr != nil {
			err.Cause = errors.Join(err.Cause, rbErr)
		}
		return nil, err
	}
	return res, nil
}

func (w *Writer) commit(ctx context.Context, plan *layout.Plan, rendered [][]byte, res *Result) *issue.Error {
	// The grouping directory may legitimately exist already; only journal it when created here.
	if err := w.mkdirAll(ctx, w.abs(plan.FeaturesDir), res); err != nil {
		return err
	}

	for _, dir := range plan.Dirs {
		if err := w.mkdirAll(ctx, w.abs(dir), res); err != nil {
			return err
		}
	}

	for i, f := range plan.Files {
		if err := ctx.Err(); err != nil {
			return issue.Wrap(issue.WriteFailure, err, "write file", f.Path)
		}
		path := w.abs(f.Path)
		if err := w.mkdirAll(ctx, filepath.Dir(path), res); err != nil {
			return err
		}
		if err := w.createFile(path, rendered[i]); err != nil {
			return issue.Wrap(issue.WriteFailure, err, "write file", f.Path)
		}
		w.record(path, res)
	}
	return nil
}

// mkdirAll creates dir and any missing parents, journaling each directory it
// actually creates, outermost first.
func (w *Writer) mkdirAll(ctx context.Context, dir string, res *Result) *issue.Error {
	if err := ctx.Err(); err != nil {
		return issue.Wrap(issue.WriteFailure, err, "create directory", w.rel(dir))
	}

	var missing []string
	for d := dir; ; d = filepath.Dir(d) {
		present, err := w.present(d)
		if err != nil {
			return issue.Wrap(issue.WriteFailure, err, "create directory", w.rel(d))
		}
		if present {
			break
		}
		missing = append(missing, d)
		if parent := filepath.Dir(d); parent == d {
			break
		}
	}

	for i := len(missing) - 1; i >= 0; i-- {
		d := missing[i]
		if w.dryRun {
			w.pending[d] = true
		} else if err := os.Mkdir(d, platform.DirPerm); err != nil {
			if errors.Is(err, fs.ErrExist) && platform.IsDir(d) {
				continue
			}
			return issue.Wrap(issue.WriteFailure, err, "create directory", w.rel(d))
		}
		w.record(d, res)
	}
	return nil
}

func (w *Writer) present(path string) (bool, error) {
	if w.pending[path] {
		return true, nil
	}
	return platform.Exists(path)
}

// createFile refuses to replace an existing file.
func (w *Writer) createFile(path string, data []byte) error {
	if w.dryRun {
		if w.pending[path] {
			return fmt.Errorf("%s: %w", path, fs.ErrExist)
		}
		if exists, err := platform.Exists(path); err != nil {
			return err
		} else if exists {
			return fmt.Errorf("%s: %w", path, fs.ErrExist)
		}
		w.pending[path] = true
		return nil
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, platform.FilePerm)
	if err != nil {
		return err
	}
	// Journal before writing so a short write is still rolled back.
	w.journal = append(w.journal, path)
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}

func (w *Writer) record(path string, res *Result) {
	if !w.dryRun && (len(w.journal) == 0 || w.journal[len(w.journal)-1] != path) {
		w.journal = append(w.journal, path)
	}
	res.Created = append(res.Created, w.rel(path))
	w.logger.Debug("created", "path", w.rel(path), "dry_run", w.dryRun)
}

// Created returns the absolute paths journaled so far, in creation order.
func (w *Writer) Created() []string {
	return append([]string(nil), w.journal...)
}

// Rollback removes every journaled path in reverse creation order. It is
// best effort: failures are logged, joined and returned, and the journal is
// cleared either way. Rollback after a dry run is a no-op.
func (w *Writer) Rollback() error {
	var errs []error
	for i := len(w.journal) - 1; i >= 0; i-- {
		path := w.journal[i]
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			w.logger.Warn("rollback failed", "path", w.rel(path), "err", err)
			errs = append(errs, fmt.Errorf("removing %s: %w", path, err))
			continue
		}
		w.logger.Debug("rolled back", "path", w.rel(path))
	}
	w.journal = nil
	w.pending = make(map[string]bool)
	return errors.Join(errs...)
}

func (w *Writer) abs(rel string) string {
	return filepath.Join(w.root, filepath.FromSlash(rel))
}

func (w *Writer) rel(path string) string {
	r, err := filepath.Rel(w.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(r)
}
