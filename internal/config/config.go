// Package config provides configuration loading and structs for the pagewise server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	AI      AIConfig      `yaml:"ai"`
	Speech  SpeechConfig  `yaml:"speech"`
	Extract ExtractConfig `yaml:"extract"`
	Cache   CacheConfig   `yaml:"cache"`
	Search  SearchConfig  `yaml:"search"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host                  string `yaml:"host"`
	Port                  int    `yaml:"port"`
	MaxUploadMB           int    `yaml:"max_upload_mb"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

// AIConfig holds Vertex AI settings. An empty ProjectID runs the server without the model.
type AIConfig struct {
	ProjectID       string  `yaml:"project_id"`
	Region          string  `yaml:"region"`
	Model           string  `yaml:"model"`
	Temperature     float32 `yaml:"temperature"`
	MaxRetries      int     `yaml:"max_retries"`
	CredentialsFile string  `yaml:"credentials_file"`
}

// Enabled reports whether a Vertex AI project is configured.
func (a *AIConfig) Enabled() bool {
	return a.ProjectID != ""
}

// SpeechConfig holds text-to-speech and speech-to-text settings.
type SpeechConfig struct {
	Provider        string `yaml:"provider"`
	CredentialsFile string `yaml:"credentials_file"`
	VoiceArabic     string `yaml:"voice_arabic"`
	VoiceEnglish    string `yaml:"voice_english"`
	AudioEncoding   string `yaml:"audio_encoding"`
	CacheSize       int    `yaml:"cache_size"`
	TranscribeModel string `yaml:"transcribe_model"`
}

// ExtractConfig holds page extraction settings.
type ExtractConfig struct {
	RenderPages   *bool   `yaml:"render_pages"`
	RenderDPI     float64 `yaml:"render_dpi"`
	RenderWorkers int     `yaml:"render_workers"`
}

// RenderPagesOrDefault returns whether PDF pages are rendered to images; defaults to true when unset.
func (e *ExtractConfig) RenderPagesOrDefault() bool {
	if e.RenderPages != nil {
		return *e.RenderPages
	}
	return true
}

// CacheConfig holds the analysis cache location. An empty DatabasePath disables the cache.
type CacheConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// SearchConfig holds page search limits.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Cache.DatabasePath = expandPath(cfg.Cache.DatabasePath, configDir)
	cfg.AI.CredentialsFile = expandPath(cfg.AI.CredentialsFile, configDir)
	cfg.Speech.CredentialsFile = expandPath(cfg.Speech.CredentialsFile, configDir)

	return &cfg, nil
}

// Default returns a config with every default applied, for running without a config file.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyEnv fills empty Google Cloud settings from the environment.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if cfg.AI.ProjectID == "" {
		cfg.AI.ProjectID = getenv("GOOGLE_CLOUD_PROJECT")
	}
	if region := getenv("GOOGLE_CLOUD_REGION"); region != "" && cfg.AI.Region == defaultRegion {
		cfg.AI.Region = region
	}
	if creds := getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		if cfg.AI.CredentialsFile == "" {
			cfg.AI.CredentialsFile = creds
		}
		if cfg.Speech.CredentialsFile == "" {
			cfg.Speech.CredentialsFile = creds
		}
	}
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory. Empty paths stay empty.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
