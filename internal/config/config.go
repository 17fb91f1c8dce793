/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in
// the user scope. Environment variables are treated as read-only overrides at
// runtime. The blog site root itself is a CLI argument, not config: the same
// user config applies to every site they manage.

type BlogConfig struct {
	PostsDir        string `yaml:"posts_dir"`        // relative to the site root
	CatalogFile     string `yaml:"catalog_file"`     // relative to the site root
	Author          string `yaml:"author"`           // front matter author constant
	DefaultCategory string `yaml:"default_category"` // tag fallback when none given
}

type ComposeConfig struct {
	// AlwaysScaffold forces the fixed body scaffold even when the form
	// carried content, for authors who draft in the generated file.
	AlwaysScaffold bool `yaml:"always_scaffold"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Blog          BlogConfig    `yaml:"blog"`
	Compose       ComposeConfig `yaml:"compose"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults. The relative paths mirror the
// Jekyll layout the generated site uses.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Blog: BlogConfig{
			PostsDir:        "_posts",
			CatalogFile:     filepath.Join("_data", "books.yml"),
			Author:          "Heureka",
			DefaultCategory: "General",
		},
		Compose: ComposeConfig{AlwaysScaffold: false},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvPostsDir        = "BMG_POSTS_DIR"
	EnvCatalogFile     = "BMG_CATALOG_FILE"
	EnvAuthor          = "BMG_AUTHOR"
	EnvDefaultCategory = "BMG_DEFAULT_CATEGORY"
	EnvAlwaysScaffold  = "BMG_ALWAYS_SCAFFOLD"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "BMG_LOG_LEVEL"
	EnvLogFormat = "BMG_LOG_FORMAT"
	EnvLogSource = "BMG_LOG_SOURCE"
	EnvLogFile   = "BMG_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "BlogManager")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "BlogManager")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "blogmanager")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if strings.TrimSpace(src.Blog.PostsDir) != "" {
		dst.Blog.PostsDir = src.Blog.PostsDir
	}
	if strings.TrimSpace(src.Blog.CatalogFile) != "" {
		dst.Blog.CatalogFile = src.Blog.CatalogFile
	}
	if strings.TrimSpace(src.Blog.Author) != "" {
		dst.Blog.Author = src.Blog.Author
	}
	if strings.TrimSpace(src.Blog.DefaultCategory) != "" {
		dst.Blog.DefaultCategory = src.Blog.DefaultCategory
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Compose.AlwaysScaffold = src.Compose.AlwaysScaffold
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvPostsDir)); v != "" {
		cfg.Blog.PostsDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCatalogFile)); v != "" {
		cfg.Blog.CatalogFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAuthor)); v != "" {
		cfg.Blog.Author = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDefaultCategory)); v != "" {
		cfg.Blog.DefaultCategory = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAlwaysScaffold)); v != "" {
		lv := strings.ToLower(v)
		cfg.Compose.AlwaysScaffold = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	switch key {
	case "blog.posts_dir":
		if os.Getenv(EnvPostsDir) != "" {
			return EnvPostsDir, true
		}
	case "blog.catalog_file":
		if os.Getenv(EnvCatalogFile) != "" {
			return EnvCatalogFile, true
		}
	case "blog.author":
		if os.Getenv(EnvAuthor) != "" {
			return EnvAuthor, true
		}
	case "blog.default_category":
		if os.Getenv(EnvDefaultCategory) != "" {
			return EnvDefaultCategory, true
		}
	case "compose.always_scaffold":
		if os.Getenv(EnvAlwaysScaffold) != "" {
			return EnvAlwaysScaffold, true
		}
	case "logging.level":
		if os.Getenv(EnvLogLevel) != "" {
			return EnvLogLevel, true
		}
	case "logging.format":
		if os.Getenv(EnvLogFormat) != "" {
			return EnvLogFormat, true
		}
	case "logging.source":
		if os.Getenv(EnvLogSource) != "" {
			return EnvLogSource, true
		}
	case "logging.file":
		if os.Getenv(EnvLogFile) != "" {
			return EnvLogFile, true
		}
	}
	return "", false
}

// CatalogPath resolves the catalog file inside a site root.
func (c AppConfig) CatalogPath(siteRoot string) string {
	return filepath.Join(siteRoot, c.Blog.CatalogFile)
}

// PostsPath resolves the posts directory inside a site root.
func (c AppConfig) PostsPath(siteRoot string) string {
	return filepath.Join(siteRoot, c.Blog.PostsDir)
}
