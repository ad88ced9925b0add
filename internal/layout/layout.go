package layout

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Kind names one directory and naming convention.
type Kind string

const (
	// KMP is the canonical layout: features/<m>/<m>-api and <m>-impl with
	// sources under src/commonMain/kotlin and a multiplatform build script.
	KMP Kind = "kmp"
	// Feature uses plain api/ and impl/ leaves and <M>FeatureApi type names.
	Feature Kind = "feature"
	// Android uses <m>-api/<m>-impl leaves with src/main/kotlin and an
	// Android-only build script.
	Android Kind = "android"
)

// Default is the layout used when none is configured.
const Default = KMP

// Template identifiers, resolved by the scaffold package.
const (
	TemplateAPI          = "api.kt.tmpl"
	TemplateImpl         = "impl.kt.tmpl"
	TemplateBuildKMP     = "build-kmp.gradle.kts.tmpl"
	TemplateBuildAndroid = "build-android.gradle.kts.tmpl"
)

// BuildFileName is the Gradle build script written into each leaf module.
const BuildFileName = "build.gradle.kts"

// ImplFolders are created empty inside the impl package.
var ImplFolders = []string{"data", "di", "domain", "presentation"}

type definition struct {
	description   string
	apiLeaf       func(n Names) string
	implLeaf      func(n Names) string
	typeSuffix    string
	sourceSet     string
	fixedSet      bool
	buildTemplate string
}

var definitions = map[Kind]definition{
	KMP: {
		description:   "<m>-api / <m>-impl, src/<sourceSet>/kotlin, multiplatform build script",
		apiLeaf:       func(n Names) string { return n.Lower + "-api" },
		implLeaf:      func(n Names) string { return n.Lower + "-impl" },
		sourceSet:     "commonMain",
		buildTemplate: TemplateBuildKMP,
	},
	Feature: {
		description:   "api / impl, src/<sourceSet>/kotlin, <M>FeatureApi type names",
		apiLeaf:       func(Names) string { return "api" },
		implLeaf:      func(Names) string { return "impl" },
		typeSuffix:    "Feature",
		sourceSet:     "commonMain",
		buildTemplate: TemplateBuildKMP,
	},
	Android: {
		description:   "<m>-api / <m>-impl, src/main/kotlin, Android library build script",
		apiLeaf:       func(n Names) string { return n.Lower + "-api" },
		implLeaf:      func(n Names) string { return n.Lower + "-impl" },
		sourceSet:     "main",
		fixedSet:      true,
		buildTemplate: TemplateBuildAndroid,
	},
}

// Kinds returns all layouts in display order.
func Kinds() []Kind {
	return []Kind{KMP, Feature, Android}
}

// Describe returns a one-line summary of a layout.
func (k Kind) Describe() string {
	return definitions[k].description
}

// ParseKind validates a layout name. Empty means Default.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Default, nil
	}
	k := Kind(s)
	if _, ok := definitions[k]; !ok {
		names := make([]string, 0, len(definitions))
		for _, kk := range Kinds() {
			names = append(names, string(kk))
		}
		return "", fmt.Errorf("unknown layout %q (want one of: %s)", s, strings.Join(names, ", "))
	}
	return k, nil
}

// Options carries the configurable parts of a plan.
type Options struct {
	FeaturesDir   string // grouping directory relative to the project root, slash separated
	SourceSet     string // overrides the layout's default source set (ignored for Android)
	WithImpl      bool   // also generate the default implementation class
	CompileSdk    int
	MinSdk        int
	ModuleVersion string
}

// DefaultFeaturesDir is the grouping directory used when none is configured.
const DefaultFeaturesDir = "features"

// Values are the substitutions available to every template.
type Values struct {
	ModuleName    string
	Lower         string
	Capitalized   string
	BasePackage   string
	Package       string // package of the file being rendered
	APIPackage    string
	ImplPackage   string
	APIType       string
	ImplType      string
	APICoordinate string
	CompileSdk    int
	MinSdk        int
	ModuleVersion string
}

// File is one file entry of a plan.
type File struct {
	Path     string // relative to the project root, slash separated
	Template string
	Values   Values
}

// Plan lists every directory and file one scaffold run creates. Paths are
// relative to the project root and slash separated. A Plan is never mutated
// after Build returns it.
type Plan struct {
	Kind        Kind
	Names       Names
	BasePackage string
	FeaturesDir string
	ModuleDir   string
	APIDir      string
	ImplDir     string
	APIPackage  string
	ImplPackage string
	APIType     string
	ImplType    string
	Dirs        []string
	Files       []File
	Includes    []string // Gradle coordinates, api then impl
}

// Build computes the plan for a module. It touches no filesystem state.
func Build(kind Kind, moduleName, basePackage string, opts Options) (*Plan, error) {
	sp, ok := definitions[kind]
	if !ok {
		return nil, fmt.Errorf("unknown layout %q", kind)
	}

	names := NewNames(moduleName)
	if names.Lower == "" {
		return nil, fmt.Errorf("module name cannot be empty")
	}
	if basePackage == "" {
		return nil, fmt.Errorf("base package cannot be empty")
	}

	featuresDir := path.Clean(strings.ReplaceAll(opts.FeaturesDir, "\\", "/"))
	if !filepath.IsLocal(filepath.FromSlash(featuresDir)) {
		return nil, fmt.Errorf("features directory %q must stay inside the project", opts.FeaturesDir)
	}
	if opts.FeaturesDir == "" || featuresDir == "." {
		featuresDir = DefaultFeaturesDir
	}

	sourceSet := sp.sourceSet
	if opts.SourceSet != "" && !sp.fixedSet {
		sourceSet = opts.SourceSet
	}

	moduleDir := path.Join(featuresDir, names.Lower)
	apiLeaf, implLeaf := sp.apiLeaf(names), sp.implLeaf(names)
	apiDir := path.Join(moduleDir, apiLeaf)
	implDir := path.Join(moduleDir, implLeaf)

	pkgPath := strings.ReplaceAll(basePackage, ".", "/")
	srcRoot := path.Join("src", sourceSet, "kotlin", pkgPath)
	apiSeg, implSeg := names.Lower+"api", names.Lower+"impl"
	apiPkgDir := path.Join(apiDir, srcRoot, apiSeg)
	implPkgDir := path.Join(implDir, srcRoot, implSeg)

	p := &Plan{
		Kind:        kind,
		Names:       names,
		BasePackage: basePackage,
		FeaturesDir: featuresDir,
		ModuleDir:   moduleDir,
		APIDir:      apiDir,
		ImplDir:     implDir,
		APIPackage:  basePackage + "." + apiSeg,
		ImplPackage: basePackage + "." + implSeg,
		APIType:     names.Capitalized + sp.typeSuffix + "Api",
		ImplType:    names.Capitalized + sp.typeSuffix + "Impl",
	}

	p.Includes = []string{Coordinate(apiDir), Coordinate(implDir)}

	p.Dirs = []string{moduleDir, apiDir, apiPkgDir, implDir, implPkgDir}
	for _, f := range ImplFolders {
		p.Dirs = append(p.Dirs, path.Join(implPkgDir, f))
	}

	base := Values{
		ModuleName:    names.Original,
		Lower:         names.Lower,
		Capitalized:   names.Capitalized,
		BasePackage:   basePackage,
		APIPackage:    p.APIPackage,
		ImplPackage:   p.ImplPackage,
		APIType:       p.APIType,
		ImplType:      p.ImplType,
		APICoordinate: p.Includes[0],
		CompileSdk:    opts.CompileSdk,
		MinSdk:        opts.MinSdk,
		ModuleVersion: opts.ModuleVersion,
	}

	withPackage := func(pkg string) Values {
		v := base
		v.Package = pkg
		return v
	}

	p.Files = append(p.Files, File{
		Path:     path.Join(apiPkgDir, p.APIType+".kt"),
		Template: TemplateAPI,
		Values:   withPackage(p.APIPackage),
	})
	if opts.WithImpl {
		p.Files = append(p.Files, File{
			Path:     path.Join(implPkgDir, p.ImplType+".kt"),
			Template: TemplateImpl,
			Values:   withPackage(p.ImplPackage),
		})
	}
	p.Files = append(p.Files,
		File{
			Path:     path.Join(apiDir, BuildFileName),
			Template: sp.buildTemplate,
			Values:   withPackage(p.APIPackage),
		},
		File{
			Path:     path.Join(implDir, BuildFileName),
			Template: sp.buildTemplate,
			Values:   withPackage(p.ImplPackage),
		},
	)

	return p, nil
}

// Coordinate converts a slash-separated directory relative to the project
// root into a Gradle project path, e.g. "features/a/a-api" → ":features:a:a-api".
func Coordinate(dir string) string {
	return ":" + strings.ReplaceAll(strings.Trim(dir, "/"), "/", ":")
}

// SourceFiles returns the plan's Kotlin source files.
func (p *Plan) SourceFiles() []File {
	var out []File
	for _, f := range p.Files {
		if strings.HasSuffix(f.Path, ".kt") {
			out = append(out, f)
		}
	}
	return out
}
