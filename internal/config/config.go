package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/modkit-labs/modkit/internal/basepkg"
	"github.com/modkit-labs/modkit/internal/branding"
	"github.com/modkit-labs/modkit/internal/issue"
	"github.com/modkit-labs/modkit/internal/platform"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Configuration keys. Nested keys use dots; the matching environment variable
// is the upper-cased key with dots replaced by underscores, behind the
// MODKIT_ prefix (sdk.compile → MODKIT_SDK_COMPILE).
const (
	KeyLayout         = "layout"
	KeyFeaturesDir    = "features_dir"
	KeySourceSet      = "source_set"
	KeyWithImpl       = "with_impl"
	KeyModuleVersion  = "module_version"
	KeyBasePackage    = "base_package"
	KeyProjectName    = "project_name"
	KeySDKCompile     = "sdk.compile"
	KeySDKMin         = "sdk.min"
	KeySettingsFile   = "settings.file"
	KeySettingsMode   = "settings.mode"
	KeySettingsDedupe = "settings.dedupe"
	KeySourceRoots    = "resolver.source_roots"
	KeyVerbose        = "ui.verbose"
)

type keyKind int

const (
	kindString keyKind = iota
	kindBool
	kindInt
	kindList
)

var keyKinds = map[string]keyKind{
	KeyLayout:         kindString,
	KeyFeaturesDir:    kindString,
	KeySourceSet:      kindString,
	KeyWithImpl:       kindBool,
	KeyModuleVersion:  kindString,
	KeyBasePackage:    kindString,
	KeyProjectName:    kindString,
	KeySDKCompile:     kindInt,
	KeySDKMin:         kindInt,
	KeySettingsFile:   kindString,
	KeySettingsMode:   kindString,
	KeySettingsDedupe: kindBool,
	KeySourceRoots:    kindList,
	KeyVerbose:        kindBool,
}

// Built-in defaults.
const (
	DefaultLayout        = "kmp"
	DefaultFeaturesDir   = "features"
	DefaultSourceSet     = "commonMain"
	DefaultModuleVersion = "0.1.0"
	DefaultSettingsMode  = "include"
	DefaultCompileSdk    = 34
	DefaultMinSdk        = 24
)

// Keys returns every known configuration key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(keyKinds))
	for k := range keyKinds {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// IsKey reports whether key is a known configuration key.
func IsKey(key string) bool {
	_, ok := keyKinds[strings.ToLower(key)]
	return ok
}

// EnvVar returns the environment variable that overrides key.
func EnvVar(key string) string {
	return branding.EnvVar(strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
}

// Dir returns the user config directory: $MODKIT_HOME when set, else ~/.modkit.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the user config file (~/.modkit/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, platform.DirPerm); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// LoadOptions selects the files Load reads.
type LoadOptions struct {
	// ConfigFile replaces the user config file. It must exist when set.
	ConfigFile string
	// ProjectRoot is searched for the project file and the project env file.
	// Empty skips both.
	ProjectRoot string
}

// Config is a loaded, layered configuration. Lower layers are overridden by
// higher ones: defaults, user config file, project file, project env file,
// environment, bound flags.
type Config struct {
	v *viper.Viper

	// Files that contributed, empty when absent.
	UserFile    string
	ProjectFile string
	EnvFile     string
}

// Load builds the layered configuration.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	v.SetConfigType(fileType)
	setDefaults(v)

	c := &Config{v: v}

	userFile := opts.ConfigFile
	if userFile == "" {
		userFile = FilePath()
	} else if !platform.IsFile(userFile) {
		return nil, issue.New(issue.InvalidInput, "load configuration",
			fmt.Sprintf("config file not found: %s", userFile)).
			WithResource(userFile).
			WithSuggestion("Verify the --config path is correct")
	}
	if platform.IsFile(userFile) {
		if err := mergeFile(v, userFile); err != nil {
			return nil, err
		}
		c.UserFile = userFile
	}

	if opts.ProjectRoot != "" {
		projectFile := filepath.Join(opts.ProjectRoot, branding.ProjectFile())
		if platform.IsFile(projectFile) {
			if err := mergeFile(v, projectFile); err != nil {
				return nil, err
			}
			c.ProjectFile = projectFile
		}

		envFile := filepath.Join(opts.ProjectRoot, branding.EnvFile())
		if platform.IsFile(envFile) {
			if err := mergeEnvFile(v, envFile); err != nil {
				return nil, err
			}
			c.EnvFile = envFile
		}
	}

	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyLayout, DefaultLayout)
	v.SetDefault(KeyFeaturesDir, DefaultFeaturesDir)
	v.SetDefault(KeySourceSet, DefaultSourceSet)
	v.SetDefault(KeyWithImpl, true)
	v.SetDefault(KeyModuleVersion, DefaultModuleVersion)
	v.SetDefault(KeyBasePackage, "")
	v.SetDefault(KeyProjectName, "")
	v.SetDefault(KeySettingsFile, "")
	v.SetDefault(KeySettingsMode, DefaultSettingsMode)
	v.SetDefault(KeySettingsDedupe, false)
	v.SetDefault(KeySourceRoots, basepkg.DefaultSourceRoots)
	v.SetDefault(KeyVerbose, false)
	// sdk.* has no viper default: an unset pair lets the version catalog win.
}

func mergeFile(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return issue.Wrap(issue.InvalidInput, err, "load configuration", path)
	}
	defer f.Close()
	if err := v.MergeConfig(f); err != nil {
		return issue.Wrap(issue.InvalidInput, err, "load configuration", path).
			WithSuggestion("Check that the file contains valid YAML")
	}
	return nil
}

// mergeEnvFile merges the MODKIT_* entries of a dotenv file as a config layer
// below the process environment. Other entries are ignored.
func mergeEnvFile(v *viper.Viper, path string) error {
	entries, err := godotenv.Read(path)
	if err != nil {
		return issue.Wrap(issue.InvalidInput, err, "load env file", path)
	}

	layer := make(map[string]any)
	for _, key := range Keys() {
		val, ok := entries[EnvVar(key)]
		if !ok {
			continue
		}
		typed, err := parseValue(key, val)
		if err != nil {
			return issue.Wrap(issue.InvalidInput, err, "load env file", path)
		}
		setNested(layer, key, typed)
	}
	if len(layer) == 0 {
		return nil
	}
	return v.MergeConfigMap(layer)
}

func setNested(m map[string]any, key string, val any) {
	parts := strings.Split(key, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = val
}

// parseValue converts a textual value to the type of key.
func parseValue(key, raw string) (any, error) {
	kind, ok := keyKinds[strings.ToLower(key)]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key %q", key)
	}
	raw = strings.TrimSpace(raw)
	switch kind {
	case kindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a boolean", key, raw)
		}
		return b, nil
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not an integer", key, raw)
		}
		return n, nil
	case kindList:
		return splitList(raw), nil
	default:
		return raw, nil
	}
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// BindFlag makes an explicitly set flag override key.
func (c *Config) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("binding %s: flag not defined", key)
	}
	if err := c.v.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("binding flag --%s to %s: %w", flag.Name, key, err)
	}
	return nil
}

// IsSet reports whether any layer provides key. Keys with a built-in
// default are always set; sdk.* has none.
func (c *Config) IsSet(key string) bool {
	return c.v.IsSet(key)
}

// String returns a value rendered as text. Lists are comma separated.
func (c *Config) String(key string) string {
	if keyKinds[strings.ToLower(key)] == kindList {
		return strings.Join(c.List(key), ",")
	}
	return c.v.GetString(key)
}

// Bool returns a boolean value.
func (c *Config) Bool(key string) bool { return c.v.GetBool(key) }

// Int returns an integer value.
func (c *Config) Int(key string) int { return c.v.GetInt(key) }

// List returns a list value. A string (from the environment) is split on commas.
func (c *Config) List(key string) []string {
	switch val := c.v.Get(key).(type) {
	case string:
		return splitList(val)
	case nil:
		return nil
	default:
		return c.v.GetStringSlice(key)
	}
}

// Set writes one key to the user config file at path (FilePath() when empty),
// creating it if needed. The value is converted to the key's type.
func Set(path, key, value string) error {
	key = strings.ToLower(key)
	typed, err := parseValue(key, value)
	if err != nil {
		return issue.Wrap(issue.InvalidInput, err, "set configuration", key).
			WithSuggestion("Run 'modkit config list' to see the known keys")
	}

	if path == "" {
		if err := EnsureDir(); err != nil {
			return err
		}
		path = FilePath()
	} else if err := os.MkdirAll(filepath.Dir(path), platform.DirPerm); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	u := viper.New()
	u.SetConfigFile(path)
	u.SetConfigType(fileType)
	if err := u.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	u.Set(key, typed)

	if err := u.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
