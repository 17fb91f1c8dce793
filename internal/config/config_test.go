package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Blog.PostsDir != "_posts" {
		t.Fatalf("posts dir = %q", cfg.Blog.PostsDir)
	}
	if cfg.Blog.CatalogFile != filepath.Join("_data", "books.yml") {
		t.Fatalf("catalog file = %q", cfg.Blog.CatalogFile)
	}
	if cfg.Blog.Author != "Heureka" || cfg.Blog.DefaultCategory != "General" {
		t.Fatalf("author/category defaults wrong: %+v", cfg.Blog)
	}
	if cfg.Compose.AlwaysScaffold {
		t.Fatalf("always_scaffold must default to off")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	setHome(t, t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Blog.Author != "Heureka" {
		t.Fatalf("author = %q", cfg.Blog.Author)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	setHome(t, t.TempDir())
	cfg := Defaults()
	cfg.Blog.Author = "Test Author"
	cfg.Compose.AlwaysScaffold = true
	cfg.Logging.Level = "debug"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Blog.Author != "Test Author" {
		t.Fatalf("author = %q", got.Blog.Author)
	}
	if !got.Compose.AlwaysScaffold {
		t.Fatalf("always_scaffold not persisted")
	}
	if got.Logging.Level != "debug" {
		t.Fatalf("log level = %q", got.Logging.Level)
	}
	// Defaults still fill fields the file left at zero.
	if got.Blog.PostsDir != "_posts" {
		t.Fatalf("posts dir = %q", got.Blog.PostsDir)
	}
}

func TestLoadIgnoresCorruptFile(t *testing.T) {
	setHome(t, t.TempDir())
	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("blog: [broken"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Blog.Author != "Heureka" {
		t.Fatalf("corrupt file must fall back to defaults, got %+v", cfg.Blog)
	}
}

func TestEnvOverrides(t *testing.T) {
	setHome(t, t.TempDir())
	t.Setenv(EnvAuthor, "Env Author")
	t.Setenv(EnvPostsDir, "posts")
	t.Setenv(EnvAlwaysScaffold, "yes")
	t.Setenv(EnvLogLevel, "DEBUG")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Blog.Author != "Env Author" || cfg.Blog.PostsDir != "posts" {
		t.Fatalf("env overrides not applied: %+v", cfg.Blog)
	}
	if !cfg.Compose.AlwaysScaffold {
		t.Fatalf("scaffold env override not applied")
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level not lowered: %q", cfg.Logging.Level)
	}
	if name, ok := EnvOverrideFor("blog.author"); !ok || name != EnvAuthor {
		t.Fatalf("EnvOverrideFor(blog.author) = %q %v", name, ok)
	}
	if _, ok := EnvOverrideFor("blog.catalog_file"); ok {
		t.Fatalf("catalog_file reported overridden without env set")
	}
}

func TestSitePathHelpers(t *testing.T) {
	cfg := Defaults()
	root := filepath.Join("some", "site")
	if got := cfg.PostsPath(root); got != filepath.Join(root, "_posts") {
		t.Fatalf("PostsPath = %q", got)
	}
	if got := cfg.CatalogPath(root); got != filepath.Join(root, "_data", "books.yml") {
		t.Fatalf("CatalogPath = %q", got)
	}
}

func setHome(t *testing.T, dir string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Setenv("AppData", dir)
		return
	}
	t.Setenv("HOME", dir)
}
