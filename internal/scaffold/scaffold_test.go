package scaffold

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/modkit-labs/modkit/internal/basepkg"
	"github.com/modkit-labs/modkit/internal/issue"
	"github.com/modkit-labs/modkit/internal/layout"
	"github.com/modkit-labs/modkit/internal/settings"
)

func layoutOpts() layout.Options {
	return layout.Options{
		FeaturesDir:   "features",
		WithImpl:      true,
		CompileSdk:    34,
		MinSdk:        24,
		ModuleVersion: "0.1.0",
	}
}

func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, settings.KotlinFile), []byte("rootProject.name = \"Demo\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return root
}

func paymentsJob(t *testing.T, root string) Job {
	t.Helper()
	req, err := NewRequest("Payments", "com.acme", "")
	if err != nil {
		t.Fatal(err)
	}
	return Job{
		Root:        root,
		ProjectName: "Demo",
		Request:     req,
		Layout:      layout.KMP,
		Options:     layoutOpts(),
	}
}

// snapshot lists every path under root with file contents, for before/after comparisons.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		if d.IsDir() {
			out[rel+"/"] = ""
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func assertSameTree(t *testing.T, before, after map[string]string) {
	t.Helper()
	var diffs []string
	for k, v := range after {
		if old, ok := before[k]; !ok {
			diffs = append(diffs, "+"+k)
		} else if old != v {
			diffs = append(diffs, "~"+k)
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			diffs = append(diffs, "-"+k)
		}
	}
	sort.Strings(diffs)
	if len(diffs) > 0 {
		t.Errorf("tree changed: %v", diffs)
	}
}

func TestNewRequest(t *testing.T) {
	t.Run("trims and defaults", func(t *testing.T) {
		r, err := NewRequest("  Payments ", " com.acme ", "")
		if err != nil {
			t.Fatalf("NewRequest() error: %v", err)
		}
		if r.ModuleName != "Payments" {
			t.Errorf("ModuleName = %q, want %q", r.ModuleName, "Payments")
		}
		if r.BasePackage != "com.acme" {
			t.Errorf("BasePackage = %q, want %q", r.BasePackage, "com.acme")
		}
		if r.ModuleVersion != DefaultModuleVersion {
			t.Errorf("ModuleVersion = %q, want %q", r.ModuleVersion, DefaultModuleVersion)
		}
	})

	invalid := []struct {
		name, module, base, version string
	}{
		{"blank name", "   ", "", ""},
		{"empty name", "", "", ""},
		{"name with dash", "my-module", "", ""},
		{"name starting with digit", "1payments", "", ""},
		{"bad base package", "payments", "com..acme", ""},
		{"base package with dash", "payments", "com.my-app", ""},
		{"bad version", "payments", "", "1.0"},
		{"prefixed version", "payments", "", "v1.0.0"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRequest(tt.module, tt.base, tt.version)
			if !issue.Is(err, issue.InvalidInput) {
				t.Errorf("error = %v, want InvalidInput", err)
			}
		})
	}
}

func TestNewRequestSuggestsIdentifier(t *testing.T) {
	tests := []struct {
		module string
		want   string
	}{
		{"payment-gateway", "'paymentGateway'"},
		{"user profile", "'userProfile'"},
		{"1st-party", "'stParty'"},
		{"3d", "'d'"},
	}
	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			_, err := NewRequest(tt.module, "", "")
			var ie *issue.Error
			if !errors.As(err, &ie) || !issue.Is(err, issue.InvalidInput) {
				t.Fatalf("error = %v, want InvalidInput issue", err)
			}
			if got := strings.Join(ie.Suggestions, " "); !strings.Contains(got, tt.want) {
				t.Errorf("Suggestions = %q, want one containing %s", got, tt.want)
			}
		})
	}

	_, err := NewRequest("---", "", "")
	var ie *issue.Error
	if !errors.As(err, &ie) {
		t.Fatalf("error = %v, want issue", err)
	}
	if got := strings.Join(ie.Suggestions, " "); strings.Contains(got, "e.g.") {
		t.Errorf("Suggestions = %q, want no example for a name with no letters", got)
	}
}

func TestRunPaymentsScenario(t *testing.T) {
	root := newProject(t)

	report, err := Run(context.Background(), paymentsJob(t, root))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	apiFile := filepath.Join(root, "features/payments/payments-api/src/commonMain/kotlin/com/acme/paymentsapi/PaymentsApi.kt")
	api := readGenerated(t, apiFile)
	assertContains(t, api, "package com.acme.paymentsapi")
	assertContains(t, api, "interface PaymentsApi {")
	assertContains(t, api, "fun launch()")

	impl := readGenerated(t, filepath.Join(root, "features/payments/payments-impl/src/commonMain/kotlin/com/acme/paymentsimpl/PaymentsImpl.kt"))
	assertContains(t, impl, "package com.acme.paymentsimpl")
	assertContains(t, impl, "import com.acme.paymentsapi.PaymentsApi")
	assertContains(t, impl, "class PaymentsImpl : PaymentsApi {")
	assertContains(t, impl, `println("Launching Payments module")`)

	for _, sub := range layout.ImplFolders {
		dir := filepath.Join(root, "features/payments/payments-impl/src/commonMain/kotlin/com/acme/paymentsimpl", sub)
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Errorf("placeholder %s: %v", sub, err)
			continue
		}
		if len(entries) != 0 {
			t.Errorf("placeholder %s is not empty", sub)
		}
	}

	apiBuild := readGenerated(t, filepath.Join(root, "features/payments/payments-api/build.gradle.kts"))
	assertContains(t, apiBuild, `namespace = "com.acme.paymentsapi"`)
	assertContains(t, apiBuild, "compileSdk = 34")
	assertContains(t, apiBuild, "minSdk = 24")
	assertContains(t, apiBuild, `version = "0.1.0"`)
	if strings.Contains(apiBuild, "implementation(project(") {
		t.Error("api build script must not depend on another module")
	}

	implBuild := readGenerated(t, filepath.Join(root, "features/payments/payments-impl/build.gradle.kts"))
	assertContains(t, implBuild, `namespace = "com.acme.paymentsimpl"`)
	assertContains(t, implBuild, `implementation(project(":features:payments:payments-api"))`)

	settingsText := readGenerated(t, filepath.Join(root, settings.KotlinFile))
	assertContains(t, settingsText, `include(":features:payments:payments-api")`)
	assertContains(t, settingsText, `include(":features:payments:payments-impl")`)

	if report.Resolution != nil {
		t.Error("Resolution should be nil when the base package is given")
	}
	if report.Result.Created[0] != "features" {
		t.Errorf("first created path = %q, want features", report.Result.Created[0])
	}
	if len(report.Settings.Appended) != 2 {
		t.Errorf("settings appended %d lines, want 2", len(report.Settings.Appended))
	}
}

func TestRunSecondCallAlreadyExists(t *testing.T) {
	root := newProject(t)
	if _, err := Run(context.Background(), paymentsJob(t, root)); err != nil {
		t.Fatal(err)
	}
	before := snapshot(t, root)

	_, err := Run(context.Background(), paymentsJob(t, root))
	if !issue.Is(err, issue.AlreadyExists) {
		t.Fatalf("second Run() error = %v, want AlreadyExists", err)
	}
	assertSameTree(t, before, snapshot(t, root))
}

func TestRunResolvesBasePackage(t *testing.T) {
	root := newProject(t)
	src := filepath.Join(root, "app/src/main/kotlin/org/shop/app")
	if err := os.MkdirAll(src, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "Main.kt"), []byte("package org.shop.app\n\nfun main() {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	job := paymentsJob(t, root)
	job.Request.BasePackage = ""
	report, err := Run(context.Background(), job)
	if err != nil {
		t.Fatal(err)
	}
	if report.Resolution == nil || report.Resolution.Source != basepkg.SourceDeclaration {
		t.Fatalf("Resolution = %+v, want declaration source", report.Resolution)
	}
	if report.Plan.APIPackage != "org.shop.paymentsapi" {
		t.Errorf("APIPackage = %q, want %q", report.Plan.APIPackage, "org.shop.paymentsapi")
	}
}

func TestRunFallsBackToProjectName(t *testing.T) {
	root := newProject(t)
	job := paymentsJob(t, root)
	job.Request.BasePackage = ""

	report, err := Run(context.Background(), job)
	if err != nil {
		t.Fatal(err)
	}
	if report.Plan.BasePackage != "com.demo" {
		t.Errorf("BasePackage = %q, want com.demo", report.Plan.BasePackage)
	}
}

func TestRunSettingsFailureRollsBack(t *testing.T) {
	root := t.TempDir()
	before := snapshot(t, root)

	_, err := Run(context.Background(), paymentsJob(t, root))
	if !issue.Is(err, issue.SettingsUpdateFailure) {
		t.Fatalf("Run() error = %v, want SettingsUpdateFailure", err)
	}
	assertSameTree(t, before, snapshot(t, root))
}

func TestRunKeepsExistingFeaturesDir(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "features", "other"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := Run(context.Background(), paymentsJob(t, root))
	if !issue.Is(err, issue.SettingsUpdateFailure) {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "features", "other")); err != nil {
		t.Errorf("pre-existing directory removed by rollback: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "features", "payments")); !os.IsNotExist(err) {
		t.Errorf("module directory left behind: %v", err)
	}
}

func TestRunDryRun(t *testing.T) {
	root := newProject(t)
	before := snapshot(t, root)

	job := paymentsJob(t, root)
	job.DryRun = true
	report, err := Run(context.Background(), job)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	assertSameTree(t, before, snapshot(t, root))

	if !report.Result.DryRun || !report.Settings.DryRun {
		t.Error("report should be flagged as dry run")
	}

	// A real run creates exactly the reported paths.
	applied, err := Run(context.Background(), paymentsJob(t, root))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(applied.Result.Created, "\n") != strings.Join(report.Result.Created, "\n") {
		t.Errorf("dry run paths differ from real run:\n%v\n%v", report.Result.Created, applied.Result.Created)
	}
}

func TestRunMissingRoot(t *testing.T) {
	job := paymentsJob(t, filepath.Join(t.TempDir(), "missing"))
	_, err := Run(context.Background(), job)
	if !issue.Is(err, issue.PathResolutionFailure) {
		t.Errorf("error = %v, want PathResolutionFailure", err)
	}
}

func TestRunCancelled(t *testing.T) {
	root := newProject(t)
	before := snapshot(t, root)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, paymentsJob(t, root))
	if !issue.Is(err, issue.WriteFailure) {
		t.Fatalf("error = %v, want WriteFailure", err)
	}
	assertSameTree(t, before, snapshot(t, root))
}

func TestWriteFailureRollsBack(t *testing.T) {
	root := t.TempDir()
	plan, err := layout.Build(layout.KMP, "Payments", "com.acme", layoutOpts())
	if err != nil {
		t.Fatal(err)
	}
	// The same target twice makes the second exclusive create fail after
	// directories and one file already exist.
	plan.Files = append(plan.Files, plan.Files[0])
	before := snapshot(t, root)

	w := NewWriter(root)
	_, err = w.Write(context.Background(), plan)
	if !issue.Is(err, issue.WriteFailure) {
		t.Fatalf("Write() error = %v, want WriteFailure", err)
	}
	assertSameTree(t, before, snapshot(t, root))
	if len(w.Created()) != 0 {
		t.Errorf("journal not cleared: %v", w.Created())
	}
}

func TestWriteRenderFailureTouchesNothing(t *testing.T) {
	root := t.TempDir()
	plan, err := layout.Build(layout.KMP, "Payments", "com.acme", layoutOpts())
	if err != nil {
		t.Fatal(err)
	}
	plan.Files[0].Template = "missing.tmpl"

	_, err = NewWriter(root).Write(context.Background(), plan)
	if !issue.Is(err, issue.WriteFailure) {
		t.Fatalf("Write() error = %v, want WriteFailure", err)
	}
	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Errorf("root not empty after render failure: %d entries", len(entries))
	}
}

func TestWriteRollbackAfterSuccess(t *testing.T) {
	root := t.TempDir()
	plan, err := layout.Build(layout.Feature, "Cart", "org.shop", layoutOpts())
	if err != nil {
		t.Fatal(err)
	}

	w := NewWriter(root)
	res, err := w.Write(context.Background(), plan)
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Created()) != len(res.Created) {
		t.Errorf("journal has %d entries, result %d", len(w.Created()), len(res.Created))
	}
	if err := w.Rollback(); err != nil {
		t.Fatalf("Rollback() error: %v", err)
	}
	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Errorf("root not empty after rollback: %d entries", len(entries))
	}
}

var packageLine = regexp.MustCompile(`(?m)^package\s+(\S+)`)

func TestGeneratedPackagesMatchPaths(t *testing.T) {
	for _, kind := range layout.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			root := newProject(t)
			job := paymentsJob(t, root)
			job.Layout = kind
			report, err := Run(context.Background(), job)
			if err != nil {
				t.Fatal(err)
			}
			for _, f := range report.Plan.SourceFiles() {
				content := readGenerated(t, filepath.Join(root, filepath.FromSlash(f.Path)))
				m := packageLine.FindStringSubmatch(content)
				if m == nil {
					t.Fatalf("%s: no package line", f.Path)
				}
				dir := f.Path[:strings.LastIndex(f.Path, "/")]
				pkgPath := dir[strings.Index(dir, "/kotlin/")+len("/kotlin/"):]
				if want := strings.ReplaceAll(pkgPath, "/", "."); m[1] != want {
					t.Errorf("%s declares %q, path says %q", f.Path, m[1], want)
				}
			}
		})
	}
}

func TestRenderAndroidBuildScript(t *testing.T) {
	plan, err := layout.Build(layout.Android, "Login", "com.acme", layoutOpts())
	if err != nil {
		t.Fatal(err)
	}
	out, err := Render(plan.Files[len(plan.Files)-1])
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)
	assertContains(t, text, `kotlin("android")`)
	assertContains(t, text, `implementation(project(":features:login:login-api"))`)
	if strings.Contains(text, "multiplatform") {
		t.Error("android build script should not apply the multiplatform plugin")
	}
}

func TestMonotonicSettings(t *testing.T) {
	root := newProject(t)
	names := []string{"Payments", "Cart", "Profile"}
	for _, n := range names {
		req, err := NewRequest(n, "com.acme", "")
		if err != nil {
			t.Fatal(err)
		}
		job := paymentsJob(t, root)
		job.Request = req
		if _, err := Run(context.Background(), job); err != nil {
			t.Fatalf("Run(%s) error: %v", n, err)
		}
	}

	text := readGenerated(t, filepath.Join(root, settings.KotlinFile))
	if got := strings.Count(text, "include("); got != 2*len(names) {
		t.Errorf("include lines = %d, want %d", got, 2*len(names))
	}
	for _, n := range names {
		lower := strings.ToLower(n)
		if _, err := os.Stat(filepath.Join(root, "features", lower, lower+"-api")); err != nil {
			t.Errorf("leaf directory for %s missing: %v", n, err)
		}
		assertContains(t, text, `include(":features:`+lower+`:`+lower+`-impl")`)
	}
}

// ─── Helpers ───────────────────────────────────────────────────────────

func readGenerated(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertContains(t *testing.T, content, substr string) {
	t.Helper()
	if !strings.Contains(content, substr) {
		t.Errorf("expected content to contain %q", substr)
	}
}
