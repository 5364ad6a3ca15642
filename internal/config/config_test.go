package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"tbl/internal/config"
)

func TestLoadFindsManifestInParentDir(t *testing.T) {
	root := t.TempDir()
	manifest := "[package]\nname = \"demo\"\n\n[generate]\nmax_recursion_depth = 10\n"
	if err := os.WriteFile(filepath.Join(root, "tbl.toml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	m, ok, err := config.Load(sub, nil)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if !ok {
		t.Fatalf("expected manifest to be found")
	}
	if m.Config.Package.Name != "demo" {
		t.Fatalf("package name = %q", m.Config.Package.Name)
	}
	if m.Config.Generate.MaxRecursionDepth != 10 {
		t.Fatalf("max_recursion_depth = %d", m.Config.Generate.MaxRecursionDepth)
	}
}

func TestLoadMissingManifest(t *testing.T) {
	root := t.TempDir()
	_, ok, err := config.Load(root, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected no manifest found")
	}
}

func TestLoadMissingPackageName(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "tbl.toml"), []byte("[package]\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	_, _, err := config.Load(root, nil)
	if err == nil {
		t.Fatalf("expected an error for missing package.name")
	}
}

func TestEffectiveMaxDepthClamps(t *testing.T) {
	cfg := config.Config{Generate: config.GenerateConfig{MaxRecursionDepth: 1000}}
	if got := cfg.EffectiveMaxDepth(64); got != 64 {
		t.Fatalf("got %d, want 64", got)
	}
	cfg.Generate.MaxRecursionDepth = 5
	if got := cfg.EffectiveMaxDepth(64); got != 5 {
		t.Fatalf("got %d, want 5", got)
	}
}
