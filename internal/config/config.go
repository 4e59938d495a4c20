// Package config provides configuration loading and validation for the
// server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds the service configuration. Values can come from a JSON file,
// environment variables, or CLI flags; later sources win field by field.
type Config struct {
	// Server
	Port int `json:"port,omitempty"`

	// Generation
	APIKey    string `json:"api_key,omitempty"`
	Model     string `json:"model,omitempty"`
	MaxTokens int32  `json:"max_tokens,omitempty"`
	Retries   int    `json:"retries,omitempty"`
	TimeoutMs int    `json:"timeout_ms,omitempty"`

	// Storage
	DatabaseURL string `json:"database_url,omitempty"`
	ProfilePath string `json:"profile_path,omitempty"`

	// Rendering
	Template string `json:"template,omitempty"`

	// Behavior
	Verbose bool `json:"verbose,omitempty"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Port:      8080,
		Model:     "gemini-2.5-flash",
		MaxTokens: 8192,
		Retries:   2,
		TimeoutMs: 90000,
		Template:  "modern",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads configuration from environment variables. Unset variables
// leave the zero value so the result can be merged over file values.
func FromEnv() Config {
	cfg := Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		Model:       os.Getenv("RESUME_MODEL"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ProfilePath: os.Getenv("RESUME_PROFILE_PATH"),
		Template:    os.Getenv("RESUME_TEMPLATE"),
	}
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		cfg.Port = port
	}
	if maxTokens, err := strconv.Atoi(os.Getenv("RESUME_MAX_TOKENS")); err == nil {
		cfg.MaxTokens = int32(maxTokens)
	}
	if retries, err := strconv.Atoi(os.Getenv("RESUME_RETRIES")); err == nil {
		cfg.Retries = retries
	}
	if timeoutMs, err := strconv.Atoi(os.Getenv("RESUME_TIMEOUT_MS")); err == nil {
		cfg.TimeoutMs = timeoutMs
	}
	if verbose, err := strconv.ParseBool(os.Getenv("RESUME_VERBOSE")); err == nil {
		cfg.Verbose = verbose
	}
	return cfg
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("config error: 'max_tokens' must be non-negative")
	}
	if c.Retries < 0 {
		return fmt.Errorf("config error: 'retries' must be non-negative")
	}
	if c.TimeoutMs < 0 {
		return fmt.Errorf("config error: 'timeout_ms' must be non-negative")
	}
	if c.ProfilePath != "" {
		if _, err := os.Stat(c.ProfilePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: profile file not found: %s", c.ProfilePath)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled
// from defaults. Bool fields are not merged; flags always win for those.
func (c Config) MergeWithDefaults(defaults Config) Config {
	result := c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.MaxTokens == 0 {
		result.MaxTokens = defaults.MaxTokens
	}
	if result.Retries == 0 {
		result.Retries = defaults.Retries
	}
	if result.TimeoutMs == 0 {
		result.TimeoutMs = defaults.TimeoutMs
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ProfilePath == "" {
		result.ProfilePath = defaults.ProfilePath
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}

	return result
}
