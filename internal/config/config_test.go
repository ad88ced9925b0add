package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/pflag"

	"github.com/modkit-labs/modkit/internal/catalog"
	"github.com/modkit-labs/modkit/internal/issue"
)

// isolate points the user config directory at an empty temp dir and clears
// MODKIT_* variables that would leak in from the developer's shell.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("MODKIT_HOME", home)
	for _, key := range Keys() {
		t.Setenv(EnvVar(key), "")
		os.Unsetenv(EnvVar(key))
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	isolate(t)

	c, err := Load(LoadOptions{ProjectRoot: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	s := c.Settings(nil)

	if s.Layout != DefaultLayout {
		t.Errorf("Layout = %q, want %q", s.Layout, DefaultLayout)
	}
	if s.FeaturesDir != DefaultFeaturesDir {
		t.Errorf("FeaturesDir = %q, want %q", s.FeaturesDir, DefaultFeaturesDir)
	}
	if s.SourceSet != DefaultSourceSet {
		t.Errorf("SourceSet = %q, want %q", s.SourceSet, DefaultSourceSet)
	}
	if !s.WithImpl {
		t.Error("WithImpl should default to true")
	}
	if s.CompileSdk != DefaultCompileSdk || s.MinSdk != DefaultMinSdk {
		t.Errorf("SDK = %d/%d, want %d/%d", s.CompileSdk, s.MinSdk, DefaultCompileSdk, DefaultMinSdk)
	}
	if s.SettingsMode != DefaultSettingsMode || s.SettingsDedupe {
		t.Errorf("settings = %q dedupe=%v", s.SettingsMode, s.SettingsDedupe)
	}
	if len(s.SourceRoots) == 0 || s.SourceRoots[0] != "src/main/kotlin" {
		t.Errorf("SourceRoots = %v", s.SourceRoots)
	}
	if c.UserFile != "" || c.ProjectFile != "" || c.EnvFile != "" {
		t.Errorf("unexpected files: %q %q %q", c.UserFile, c.ProjectFile, c.EnvFile)
	}
}

func TestLayering(t *testing.T) {
	home := isolate(t)
	root := t.TempDir()

	writeFile(t, filepath.Join(home, "config.yaml"), "layout: feature\nfeatures_dir: modules\nmodule_version: 2.0.0\n")
	writeFile(t, filepath.Join(root, ".modkit.yaml"), "layout: android\nsettings:\n  dedupe: true\n")
	writeFile(t, filepath.Join(root, ".modkit.env"), "MODKIT_SOURCE_SET=jvmMain\nMODKIT_LAYOUT=feature\nUNRELATED=1\n")
	t.Setenv("MODKIT_FEATURES_DIR", "libs")

	c, err := Load(LoadOptions{ProjectRoot: root})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	s := c.Settings(nil)

	tests := []struct {
		name, got, want string
	}{
		{"layout (env file over project file)", s.Layout, "feature"},
		{"features_dir (environment over user file)", s.FeaturesDir, "libs"},
		{"source_set (env file)", s.SourceSet, "jvmMain"},
		{"module_version (user file)", s.ModuleVersion, "2.0.0"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
	if !s.SettingsDedupe {
		t.Error("settings.dedupe from project file not applied")
	}
	if c.UserFile == "" || c.ProjectFile == "" || c.EnvFile == "" {
		t.Errorf("contributing files not recorded: %q %q %q", c.UserFile, c.ProjectFile, c.EnvFile)
	}
	if _, ok := os.LookupEnv("UNRELATED"); ok {
		t.Error("env file must not be loaded into the process environment")
	}
}

func TestFlagsOverride(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".modkit.yaml"), "layout: android\n")

	c, err := Load(LoadOptions{ProjectRoot: root})
	if err != nil {
		t.Fatal(err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("layout", "", "")
	if err := c.BindFlag(KeyLayout, fs.Lookup("layout")); err != nil {
		t.Fatal(err)
	}

	if got := c.String(KeyLayout); got != "android" {
		t.Errorf("unchanged flag: layout = %q, want android", got)
	}
	if err := fs.Set("layout", "feature"); err != nil {
		t.Fatal(err)
	}
	if got := c.String(KeyLayout); got != "feature" {
		t.Errorf("changed flag: layout = %q, want feature", got)
	}

	if err := c.BindFlag(KeySourceSet, fs.Lookup("missing")); err == nil {
		t.Error("binding an undefined flag should fail")
	}
}

func TestSDKPrecedence(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "gradle", "libs.versions.toml"),
		"[versions]\nandroid-compileSdk = \"35\"\nandroid-minSdk = \"26\"\n")
	cat, err := catalog.Load(root)
	if err != nil {
		t.Fatal(err)
	}

	c, err := Load(LoadOptions{ProjectRoot: root})
	if err != nil {
		t.Fatal(err)
	}
	if compileSdk, minSdk := c.SDK(cat); compileSdk != 35 || minSdk != 26 {
		t.Errorf("catalog SDK = %d/%d, want 35/26", compileSdk, minSdk)
	}

	writeFile(t, filepath.Join(root, ".modkit.yaml"), "sdk:\n  compile: 36\n")
	c, err = Load(LoadOptions{ProjectRoot: root})
	if err != nil {
		t.Fatal(err)
	}
	if compileSdk, minSdk := c.SDK(cat); compileSdk != 36 || minSdk != 26 {
		t.Errorf("configured SDK = %d/%d, want 36/26", compileSdk, minSdk)
	}

	t.Setenv("MODKIT_SDK_MIN", "28")
	if _, minSdk := c.SDK(cat); minSdk != 28 {
		t.Errorf("env minSdk = %d, want 28", minSdk)
	}
}

func TestListFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("MODKIT_RESOLVER_SOURCE_ROOTS", "shared/src/commonMain/kotlin, app/src/main/kotlin")

	c, err := Load(LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"shared/src/commonMain/kotlin", "app/src/main/kotlin"}
	if got := c.List(KeySourceRoots); !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
	if got := c.String(KeySourceRoots); got != "shared/src/commonMain/kotlin,app/src/main/kotlin" {
		t.Errorf("String() = %q", got)
	}
}

func TestLoadExplicitConfigFile(t *testing.T) {
	isolate(t)

	_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	if !issue.Is(err, issue.InvalidInput) {
		t.Errorf("missing --config error = %v, want InvalidInput", err)
	}

	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, "layout: android\n")
	c, err := Load(LoadOptions{ConfigFile: path})
	if err != nil {
		t.Fatal(err)
	}
	if got := c.String(KeyLayout); got != "android" {
		t.Errorf("layout = %q, want android", got)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.yaml"), "layout: [kmp\n")

	if _, err := Load(LoadOptions{}); !issue.Is(err, issue.InvalidInput) {
		t.Errorf("error = %v, want InvalidInput", err)
	}
}

func TestSet(t *testing.T) {
	home := isolate(t)

	if err := Set("", KeySDKCompile, "33"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := Set("", KeyWithImpl, "false"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	c, err := Load(LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Int(KeySDKCompile); got != 33 {
		t.Errorf("sdk.compile = %d, want 33", got)
	}
	if c.Bool(KeyWithImpl) {
		t.Error("with_impl should be false after Set")
	}

	if err := Set("", "no.such.key", "x"); !issue.Is(err, issue.InvalidInput) {
		t.Errorf("unknown key error = %v, want InvalidInput", err)
	}
	if err := Set("", KeySDKMin, "low"); !issue.Is(err, issue.InvalidInput) {
		t.Errorf("bad int error = %v, want InvalidInput", err)
	}
}

func TestSetExplicitPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "custom.yaml")

	if err := Set(path, KeyLayout, "feature"); err != nil {
		t.Fatal(err)
	}
	c, err := Load(LoadOptions{ConfigFile: path})
	if err != nil {
		t.Fatal(err)
	}
	if got := c.String(KeyLayout); got != "feature" {
		t.Errorf("layout = %q, want feature", got)
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	if !slices.IsSorted(keys) {
		t.Error("Keys() not sorted")
	}
	if !IsKey("SDK.Compile") || IsKey("sdk") {
		t.Error("IsKey mismatch")
	}
	if got := EnvVar(KeySettingsDedupe); got != "MODKIT_SETTINGS_DEDUPE" {
		t.Errorf("EnvVar() = %q", got)
	}
}
