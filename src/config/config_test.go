package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.Validation == nil {
		t.Fatal("Expected validation config to be included by default, but it was nil")
	}

	if !cfg.Validation.Enable {
		t.Error("Expected validation to be enabled by default")
	}

	if cfg.Validation.Trigger != TriggerOnSave {
		t.Errorf("Expected default trigger to be %q, got %q", TriggerOnSave, cfg.Validation.Trigger)
	}

	if cfg.Validation.DebounceMillis != DefaultDebounceMillis {
		t.Errorf("Expected default debounce of %d ms, got %d", DefaultDebounceMillis, cfg.Validation.DebounceMillis)
	}

	if cfg.ExecutableIsUserDefined() {
		t.Error("Default config must not count as user-defined executable")
	}

	if cfg.ResolveExecutable() != DefaultCheckerName {
		t.Errorf("Expected default executable %q, got %q", DefaultCheckerName, cfg.ResolveExecutable())
	}
}

func TestLoadConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	original := &Config{
		Validation: &ValidationConfig{
			Enable:         true,
			Trigger:        TriggerOnType,
			Executable:     "/usr/local/bin/lc-check",
			Args:           []string{"-l"},
			DebounceMillis: 100,
		},
	}

	if err := SaveConfig(original, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Validation.Trigger != TriggerOnType {
		t.Errorf("Expected trigger %q, got %q", TriggerOnType, loaded.Validation.Trigger)
	}
	if loaded.Validation.Executable != "/usr/local/bin/lc-check" {
		t.Errorf("Unexpected executable: %q", loaded.Validation.Executable)
	}
	if !loaded.ExecutableIsUserDefined() {
		t.Error("Executable from file must count as user-defined")
	}
}

func TestLoadConfig_InvalidTrigger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	data := []byte("validation:\n  enable: true\n  trigger: sometimes\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected invalid trigger to fail validation")
	}
}

func TestLoadConfig_MissingValidationSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected missing validation section to fail validation")
	}
}

func TestLoadConfigWithFallback_Precedence(t *testing.T) {
	workspace := t.TempDir()

	wsPath := GetWorkspaceConfigPath(workspace)
	wsConfig := &Config{
		Validation: &ValidationConfig{
			Enable:     true,
			Trigger:    TriggerOnType,
			Executable: "workspace-checker",
		},
	}
	if err := SaveConfig(wsConfig, wsPath); err != nil {
		t.Fatal(err)
	}

	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	explicitConfig := &Config{
		Validation: &ValidationConfig{
			Enable:     true,
			Executable: "explicit-checker",
		},
	}
	if err := SaveConfig(explicitConfig, explicit); err != nil {
		t.Fatal(err)
	}

	cfg, source := LoadConfigWithFallback(explicit, workspace)
	if cfg.Validation.Executable != "explicit-checker" {
		t.Errorf("Explicit path must win, got executable %q", cfg.Validation.Executable)
	}
	if source != explicit {
		t.Errorf("Expected source %q, got %q", explicit, source)
	}

	cfg, source = LoadConfigWithFallback("", workspace)
	if cfg.Validation.Executable != "workspace-checker" {
		t.Errorf("Workspace config must win over defaults, got %q", cfg.Validation.Executable)
	}
	if source != wsPath {
		t.Errorf("Expected source %q, got %q", wsPath, source)
	}
}

func TestLoadConfigWithFallback_DefaultsFillUnsetFields(t *testing.T) {
	workspace := t.TempDir()

	wsPath := GetWorkspaceConfigPath(workspace)
	if err := os.MkdirAll(filepath.Dir(wsPath), 0755); err != nil {
		t.Fatal(err)
	}
	data := []byte("validation:\n  enable: true\n")
	if err := os.WriteFile(wsPath, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _ := LoadConfigWithFallback("", workspace)
	if cfg.Validation.Trigger != TriggerOnSave {
		t.Errorf("Expected trigger default %q, got %q", TriggerOnSave, cfg.Validation.Trigger)
	}
	if cfg.Validation.DebounceMillis != DefaultDebounceMillis {
		t.Errorf("Expected debounce default, got %d", cfg.Validation.DebounceMillis)
	}
}

func TestWatcher_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("validation:\n  enable: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan struct{}, 1)
	w, err := NewWatcher(path, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("validation:\n  enable: false\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("Expected change notification after config write")
	}
}
