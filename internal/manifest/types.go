package manifest

// FormatVersion is the current .modkit.yaml format version.
const FormatVersion = 1

// Project is the content of a .modkit.yaml file. Every field is optional;
// unset fields fall through to user configuration and built-in defaults. The
// keys match the configuration keys so the file can be merged as a config layer.
type Project struct {
	Version       int       `yaml:"version,omitempty" json:"version,omitempty"`
	ProjectName   string    `yaml:"project_name,omitempty" json:"project_name,omitempty"`
	BasePackage   string    `yaml:"base_package,omitempty" json:"base_package,omitempty"`
	Layout        string    `yaml:"layout,omitempty" json:"layout,omitempty"`
	FeaturesDir   string    `yaml:"features_dir,omitempty" json:"features_dir,omitempty"`
	SourceSet     string    `yaml:"source_set,omitempty" json:"source_set,omitempty"`
	WithImpl      *bool     `yaml:"with_impl,omitempty" json:"with_impl,omitempty"`
	ModuleVersion string    `yaml:"module_version,omitempty" json:"module_version,omitempty"`
	SDK           *SDK      `yaml:"sdk,omitempty" json:"sdk,omitempty"`
	Settings      *Settings `yaml:"settings,omitempty" json:"settings,omitempty"`
	Resolver      *Resolver `yaml:"resolver,omitempty" json:"resolver,omitempty"`
}

// SDK pins the Android SDK levels written into build scripts.
type SDK struct {
	Compile int `yaml:"compile,omitempty" json:"compile,omitempty"`
	Min     int `yaml:"min,omitempty" json:"min,omitempty"`
}

// Settings controls how the Gradle settings file is updated.
type Settings struct {
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
	Mode   string `yaml:"mode,omitempty" json:"mode,omitempty"`
	Dedupe *bool  `yaml:"dedupe,omitempty" json:"dedupe,omitempty"`
}

// Resolver overrides where the base package is looked up.
type Resolver struct {
	SourceRoots []string `yaml:"source_roots,omitempty" json:"source_roots,omitempty"`
}
