package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// File is the catalog location relative to the project root.
const File = "gradle/libs.versions.toml"

// Version keys probed for the SDK pair, in order.
var (
	compileSdkKeys = []string{"android-compileSdk", "compileSdk", "android-compile-sdk"}
	minSdkKeys     = []string{"android-minSdk", "minSdk", "android-min-sdk"}
)

// Catalog is the subset of a version catalog modkit cares about.
type Catalog struct {
	Path     string
	Versions map[string]any `toml:"versions"`
}

// Load parses the catalog under root. A missing catalog yields (nil, nil).
func Load(root string) (*Catalog, error) {
	path := filepath.Join(root, filepath.FromSlash(File))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading version catalog: %w", err)
	}

	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing version catalog %s: %w", path, err)
	}
	c.Path = path
	return &c, nil
}

// Version returns a [versions] entry as an integer. Entries may be written as
// quoted strings ("34") or bare integers (34).
func (c *Catalog) Version(key string) (int, bool) {
	if c == nil {
		return 0, false
	}
	switch v := c.Versions[key].(type) {
	case int64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// SDK returns the compile and minimum SDK levels. ok is false unless both
// are present.
func (c *Catalog) SDK() (compileSdk, minSdk int, ok bool) {
	compileSdk, okCompile := c.first(compileSdkKeys)
	minSdk, okMin := c.first(minSdkKeys)
	if !okCompile || !okMin {
		return 0, 0, false
	}
	return compileSdk, minSdk, true
}

func (c *Catalog) first(keys []string) (int, bool) {
	for _, k := range keys {
		if v, ok := c.Version(k); ok {
			return v, true
		}
	}
	return 0, false
}
