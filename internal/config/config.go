// Package config loads a project's tbl.toml manifest, mirroring the
// teacher's surge.toml / internal/project pattern: walk up from a start
// directory to find the file, decode it with BurntSushi/toml, and
// validate the keys a TBL project actually needs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// Config is a decoded tbl.toml manifest.
type Config struct {
	Package  PackageConfig  `toml:"package"`
	Generate GenerateConfig `toml:"generate"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type GenerateConfig struct {
	DefaultSeed       *uint64 `toml:"default_seed"`
	MaxRecursionDepth int     `toml:"max_recursion_depth"`
	Color             string  `toml:"color"`
}

// Manifest pairs a decoded Config with the path/root it was loaded from.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

const manifestFileName = "tbl.toml"

// FindTBLToml walks up from startDir looking for tbl.toml, the way the
// teacher's FindSurgeToml walks up for surge.toml.
func FindTBLToml(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestFileName)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, true, nil
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, statErr)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and decodes tbl.toml starting from startDir. log may be nil;
// when non-nil it receives --verbose-style diagnostics about which path
// was resolved, never user-facing Bag diagnostics.
func Load(startDir string, log logrus.FieldLogger) (*Manifest, bool, error) {
	path, ok, err := FindTBLToml(startDir)
	if err != nil || !ok {
		if log != nil {
			log.WithField("start_dir", startDir).Debug("no tbl.toml found")
		}
		return nil, ok, err
	}
	cfg, err := decode(path)
	if err != nil {
		return nil, true, err
	}
	if log != nil {
		log.WithField("path", path).Debug("loaded tbl.toml")
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

func decode(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if cfg.Generate.MaxRecursionDepth < 0 {
		return Config{}, fmt.Errorf("%s: [generate].max_recursion_depth must not be negative", path)
	}
	return cfg, nil
}

// EffectiveMaxDepth clamps the manifest's configured recursion depth to
// the generator's hard ceiling (spec.md §4.6 fixes it at 64; a project
// may only lower it).
func (c Config) EffectiveMaxDepth(hardCeiling int) int {
	if c.Generate.MaxRecursionDepth <= 0 || c.Generate.MaxRecursionDepth > hardCeiling {
		return hardCeiling
	}
	return c.Generate.MaxRecursionDepth
}
