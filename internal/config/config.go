package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Filename is the config file every jotbook project carries at its root.
const Filename = "jotbook.yaml"

// Config represents the top-level jotbook.yaml configuration.
type Config struct {
	Author string       `yaml:"author"`
	Data   DataConfig   `yaml:"data"`
	Share  ShareConfig  `yaml:"share"`
	AI     AIConfig     `yaml:"ai"`
	Upload UploadConfig `yaml:"upload"`
	Git    GitConfig    `yaml:"git"`
}

// DataConfig locates the local repository and its satellite files.
type DataConfig struct {
	Dir string `yaml:"dir"`
	DB  string `yaml:"db"`
}

// ShareConfig locates the group store used by sync passes.
type ShareConfig struct {
	Dir  string `yaml:"dir"`
	File string `yaml:"file"`
}

// AIConfig points at an optional OpenAI-compatible extraction service.
// The API key is read from the named environment variable and never
// written to disk.
type AIConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	FallbackModel  string `yaml:"fallback_model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	APIKeyEnv      string `yaml:"api_key_env"`
}

// APIKey resolves the key from the configured environment variable.
func (a AIConfig) APIKey() string {
	if a.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(a.APIKeyEnv)
}

// UploadConfig points at an optional remote sink for shared records.
type UploadConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// GitConfig controls auto-committing the share directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// DBPath returns the record database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.Data.Dir, c.Data.DB)
}

// SharePath returns the group store file location.
func (c *Config) SharePath() string {
	return filepath.Join(c.Share.Dir, c.Share.File)
}

// PrefsPath returns the per-group bookkeeping file location.
func (c *Config) PrefsPath() string {
	return filepath.Join(c.Data.Dir, "prefs.yaml")
}

// KeywordsPath returns the category keyword catalog location.
func (c *Config) KeywordsPath() string {
	return filepath.Join(c.Data.Dir, "keywords.yaml")
}

// Load reads a jotbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(author string) *Config {
	return &Config{
		Author: author,
		Data: DataConfig{
			Dir: "data",
			DB:  "records.db",
		},
		Share: ShareConfig{
			Dir:  "share",
			File: "groups.json",
		},
		AI: AIConfig{
			Model:          "gpt-4o-mini",
			FallbackModel:  "gpt-4o",
			TimeoutSeconds: 30,
			APIKeyEnv:      "JOTBOOK_API_KEY",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Jotbook",
			AuthorEmail: "jotbook@localhost",
		},
	}
}
