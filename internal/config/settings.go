package config

import (
	"github.com/modkit-labs/modkit/internal/catalog"
)

// Settings is the typed view of a loaded configuration.
type Settings struct {
	Layout         string
	FeaturesDir    string
	SourceSet      string
	WithImpl       bool
	ModuleVersion  string
	BasePackage    string
	ProjectName    string
	CompileSdk     int
	MinSdk         int
	SettingsFile   string
	SettingsMode   string
	SettingsDedupe bool
	SourceRoots    []string
	Verbose        bool
}

// Settings resolves every key. The SDK pair comes from configuration when
// set, else from the version catalog (cat may be nil), else the defaults.
func (c *Config) Settings(cat *catalog.Catalog) Settings {
	compileSdk, minSdk := c.SDK(cat)
	return Settings{
		Layout:         c.String(KeyLayout),
		FeaturesDir:    c.String(KeyFeaturesDir),
		SourceSet:      c.String(KeySourceSet),
		WithImpl:       c.Bool(KeyWithImpl),
		ModuleVersion:  c.String(KeyModuleVersion),
		BasePackage:    c.String(KeyBasePackage),
		ProjectName:    c.String(KeyProjectName),
		CompileSdk:     compileSdk,
		MinSdk:         minSdk,
		SettingsFile:   c.String(KeySettingsFile),
		SettingsMode:   c.String(KeySettingsMode),
		SettingsDedupe: c.Bool(KeySettingsDedupe),
		SourceRoots:    c.List(KeySourceRoots),
		Verbose:        c.Bool(KeyVerbose),
	}
}

// SDK returns the compile and minimum SDK levels, each taken from the first
// of: configuration, version catalog, built-in default.
func (c *Config) SDK(cat *catalog.Catalog) (compileSdk, minSdk int) {
	compileSdk, minSdk = DefaultCompileSdk, DefaultMinSdk
	if catCompile, catMin, ok := cat.SDK(); ok {
		compileSdk, minSdk = catCompile, catMin
	}
	if c.IsSet(KeySDKCompile) {
		compileSdk = c.Int(KeySDKCompile)
	}
	if c.IsSet(KeySDKMin) {
		minSdk = c.Int(KeySDKMin)
	}
	return compileSdk, minSdk
}
