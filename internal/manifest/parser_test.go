package manifest

import (
	"path/filepath"
	"strings"
	"testing"
)

const testdataDir = "testdata"

func testPath(name string) string {
	return filepath.Join(testdataDir, name)
}

func TestParseFile_Full(t *testing.T) {
	p, err := ParseFile(testPath("valid-full.yaml"))
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if p.Version != 1 {
		t.Errorf("Version = %d, want 1", p.Version)
	}
	if p.BasePackage != "com.acme" {
		t.Errorf("BasePackage = %q, want %q", p.BasePackage, "com.acme")
	}
	if p.ModuleVersion != "1.2.0" {
		t.Errorf("ModuleVersion = %q, want %q", p.ModuleVersion, "1.2.0")
	}
	if p.WithImpl == nil || !*p.WithImpl {
		t.Errorf("WithImpl = %v, want true", p.WithImpl)
	}
	if p.SDK == nil || p.SDK.Compile != 35 || p.SDK.Min != 24 {
		t.Errorf("SDK = %+v", p.SDK)
	}
	if p.Settings == nil || p.Settings.Mode != "include" || p.Settings.Dedupe == nil || !*p.Settings.Dedupe {
		t.Errorf("Settings = %+v", p.Settings)
	}
	if p.Resolver == nil || len(p.Resolver.SourceRoots) != 2 {
		t.Errorf("Resolver = %+v", p.Resolver)
	}
}

func TestParse_Empty(t *testing.T) {
	p, err := Parse([]byte("\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if p.Layout != "" || p.SDK != nil {
		t.Errorf("Parse(empty) = %+v, want zero value", p)
	}
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := ParseFile(testPath("invalid-unknown-key.yaml"))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "modules_dir") {
		t.Errorf("error %q does not name the unknown key", err)
	}
}

func TestParseFile_NotFound(t *testing.T) {
	if _, err := ParseFile(testPath("nonexistent.yaml")); err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
}

func TestMarshal(t *testing.T) {
	p := &Project{
		Version:     FormatVersion,
		BasePackage: "com.acme",
		SDK:         &SDK{Compile: 34, Min: 24},
	}
	data, err := Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{"version: 1\n", "base_package: com.acme\n", "sdk:\n  compile: 34\n  min: 24\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("Marshal output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "layout") {
		t.Errorf("unset fields should be omitted:\n%s", out)
	}
}
