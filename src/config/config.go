package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Trigger selects when validation runs
type Trigger string

const (
	// TriggerOnSave validates when the document is opened or saved
	TriggerOnSave Trigger = "save"
	// TriggerOnType validates while the document is being edited
	TriggerOnType Trigger = "type"
)

// Config contains the language server configuration
type Config struct {
	Validation *ValidationConfig `yaml:"validation"`
}

// ValidationConfig controls the external checker pipeline
type ValidationConfig struct {
	// Enable turns the validation pipeline on or off
	Enable bool `yaml:"enable"`
	// Trigger is "save" or "type"
	Trigger Trigger `yaml:"trigger"`
	// Executable is the checker binary; empty means not configured
	Executable string `yaml:"executable,omitempty"`
	// Args are passed to the checker before the file path
	Args []string `yaml:"args,omitempty"`
	// DebounceMillis delays a triggered run so rapid edits coalesce
	DebounceMillis int `yaml:"debounce_millis,omitempty"`
}

// ExecutableIsUserDefined reports whether the checker path came from
// settings rather than the built-in default. The distinction changes the
// user-facing message when the checker cannot be started.
func (c *Config) ExecutableIsUserDefined() bool {
	return c.Validation != nil && c.Validation.Executable != ""
}

// ResolveExecutable returns the checker executable to run, falling back to
// the default checker name when settings leave it empty.
func (c *Config) ResolveExecutable() string {
	if c.Validation != nil && c.Validation.Executable != "" {
		return c.Validation.Executable
	}
	return DefaultCheckerName
}

// DebounceMillisOrDefault returns the configured debounce delay, or the
// default when unset.
func (c *Config) DebounceMillisOrDefault() int {
	if c.Validation != nil && c.Validation.DebounceMillis > 0 {
		return c.Validation.DebounceMillis
	}
	return DefaultDebounceMillis
}

// Defaults
const (
	DefaultCheckerName    = "livecode-server"
	DefaultDebounceMillis = 250
	configFileName        = "config.yaml"
	workspaceConfigDir    = ".livecode-ls"
)

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateDefaultConfig writes a default configuration file
func GenerateDefaultConfig(path string) error {
	return SaveConfig(GetDefaultConfig(), path)
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.Validation == nil {
		return fmt.Errorf("validation configuration is required")
	}

	switch config.Validation.Trigger {
	case TriggerOnSave, TriggerOnType, "":
	default:
		return fmt.Errorf("trigger must be %q or %q, got %q",
			TriggerOnSave, TriggerOnType, config.Validation.Trigger)
	}

	return nil
}

// GetDefaultConfigPath returns the user-level configuration file path
func GetDefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, workspaceConfigDir, configFileName)
}

// GetWorkspaceConfigPath returns the workspace-level configuration file path
func GetWorkspaceConfigPath(workspaceRoot string) string {
	return filepath.Join(workspaceRoot, workspaceConfigDir, configFileName)
}

// GetDefaultConfig returns the built-in default configuration
func GetDefaultConfig() *Config {
	return &Config{
		Validation: &ValidationConfig{
			Enable:         true,
			Trigger:        TriggerOnSave,
			DebounceMillis: DefaultDebounceMillis,
		},
	}
}

// LoadConfigWithFallback resolves configuration with the documented
// precedence: an explicit path, then the workspace file, then the user
// file, then built-in defaults. A config file that exists but fails to
// parse falls through to the next tier.
func LoadConfigWithFallback(explicitPath, workspaceRoot string) (*Config, string) {
	candidates := []string{}
	if explicitPath != "" {
		candidates = append(candidates, explicitPath)
	}
	if workspaceRoot != "" {
		candidates = append(candidates, GetWorkspaceConfigPath(workspaceRoot))
	}
	candidates = append(candidates, GetDefaultConfigPath())

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := LoadConfig(path)
		if err != nil {
			continue
		}
		applyDefaults(cfg)
		return cfg, path
	}

	return GetDefaultConfig(), ""
}

// applyDefaults fills unset optional fields
func applyDefaults(cfg *Config) {
	if cfg.Validation == nil {
		cfg.Validation = GetDefaultConfig().Validation
		return
	}
	if cfg.Validation.Trigger == "" {
		cfg.Validation.Trigger = TriggerOnSave
	}
	if cfg.Validation.DebounceMillis == 0 {
		cfg.Validation.DebounceMillis = DefaultDebounceMillis
	}
}
