package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	loader := NewLoader()

	// Test loading with no config files (should use defaults)
	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	// Verify it's using defaults
	if cfg.UI.AutoInterval != time.Second {
		t.Errorf("Expected default auto interval 1s, got %v", cfg.UI.AutoInterval)
	}
	if cfg.Export.Format != "tsv" {
		t.Errorf("Expected default export format tsv, got %s", cfg.Export.Format)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	// Create a temporary config file
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.yaml")

	configContent := `version: "1.0"
ui:
  auto_analyze: true
  auto_interval: 500ms
  theme: "high-contrast"
export:
  format: "json"
  default_path: "out/fits.tsv"
output:
  verbose: true
data:
  max_line_length: 4096
`

	err := os.WriteFile(configPath, []byte(configContent), 0o600)
	if err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	loader := NewLoader()
	cfg, err := loader.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	// Verify the config was loaded correctly
	if !cfg.UI.AutoAnalyze {
		t.Errorf("Expected auto analyze to be true")
	}
	if cfg.UI.AutoInterval != 500*time.Millisecond {
		t.Errorf("Expected auto interval 500ms, got %v", cfg.UI.AutoInterval)
	}
	if cfg.UI.Theme != "high-contrast" {
		t.Errorf("Expected theme high-contrast, got %s", cfg.UI.Theme)
	}
	if cfg.Export.Format != "json" {
		t.Errorf("Expected export format json, got %s", cfg.Export.Format)
	}
	if cfg.Export.DefaultPath != "out/fits.tsv" {
		t.Errorf("Expected default path out/fits.tsv, got %s", cfg.Export.DefaultPath)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Data.MaxLineLength != 4096 {
		t.Errorf("Expected max line length 4096, got %d", cfg.Data.MaxLineLength)
	}
	if cfg.Export.PlotPath != "plot.png" {
		t.Errorf("Expected plot path to keep its default, got %s", cfg.Export.PlotPath)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	// Create a temporary config file with invalid YAML
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid-config.yaml")

	invalidConfigContent := `version: "1.0"
ui:
  theme: "minimal"
  # Invalid YAML - missing closing quote
export:
  format: "json
  default_path: results.txt
`

	err := os.WriteFile(configPath, []byte(invalidConfigContent), 0o600)
	if err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	loader := NewLoader()
	_, err = loader.LoadConfig(configPath)
	if err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	envVars := map[string]string{
		"LINEFIT_UI_AUTO_ANALYZE":      "true",
		"LINEFIT_UI_AUTO_INTERVAL":     "2s",
		"LINEFIT_UI_THEME":             "minimal",
		"LINEFIT_EXPORT_DEFAULT_PATH":  "/tmp/fits.tsv",
		"LINEFIT_OUTPUT_VERBOSE":       "true",
		"LINEFIT_DATA_MAX_LINE_LENGTH": "2048",
	}

	for key, value := range envVars {
		t.Setenv(key, value)
	}

	loader := NewLoader()
	cfg := DefaultConfig()

	err := loader.applyEnvOverrides(cfg)
	if err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if !cfg.UI.AutoAnalyze {
		t.Errorf("Expected auto analyze to be true")
	}
	if cfg.UI.AutoInterval != 2*time.Second {
		t.Errorf("Expected auto interval 2s, got %v", cfg.UI.AutoInterval)
	}
	if cfg.UI.Theme != "minimal" {
		t.Errorf("Expected theme minimal, got %s", cfg.UI.Theme)
	}
	if cfg.Export.DefaultPath != "/tmp/fits.tsv" {
		t.Errorf("Expected default path /tmp/fits.tsv, got %s", cfg.Export.DefaultPath)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Data.MaxLineLength != 2048 {
		t.Errorf("Expected max line length 2048, got %d", cfg.Data.MaxLineLength)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "LINEFIT_UI_PLOT_WIDTH", "not-a-number"},
		{"invalid bool", "LINEFIT_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "LINEFIT_UI_AUTO_INTERVAL", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			loader := NewLoader()
			cfg := DefaultConfig()

			err := loader.applyEnvOverrides(cfg)
			if err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	var duration time.Duration

	err := parseDuration("30s", &duration)
	if err != nil {
		t.Errorf("Failed to parse duration: %v", err)
	}
	if duration != 30*time.Second {
		t.Errorf("Expected 30s, got %v", duration)
	}

	err = parseDuration("invalid", &duration)
	if err == nil {
		t.Error("Expected error for invalid duration, but got none")
	}
}

func TestParseInt(t *testing.T) {
	var value int

	err := parseInt("42", &value)
	if err != nil {
		t.Errorf("Failed to parse int: %v", err)
	}
	if value != 42 {
		t.Errorf("Expected 42, got %d", value)
	}

	err = parseInt("not-a-number", &value)
	if err == nil {
		t.Error("Expected error for invalid int, but got none")
	}
}

func TestParseBool(t *testing.T) {
	var value bool

	err := parseBool("true", &value)
	if err != nil {
		t.Errorf("Failed to parse bool: %v", err)
	}
	if !value {
		t.Errorf("Expected true, got %v", value)
	}

	err = parseBool("false", &value)
	if err != nil {
		t.Errorf("Failed to parse bool: %v", err)
	}
	if value {
		t.Errorf("Expected false, got %v", value)
	}

	err = parseBool("not-a-bool", &value)
	if err == nil {
		t.Error("Expected error for invalid bool, but got none")
	}
}

func TestFindConfigFile(t *testing.T) {
	// Test when no config file exists
	_, found := FindConfigFile()
	if found {
		t.Error("Expected no config file to be found, but one was found")
	}

	// Create a temporary config file in current directory
	tempConfigPath := "./.linefit.yaml"
	err := os.WriteFile(tempConfigPath, []byte("version: 1.0"), 0o600)
	if err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	defer func() { _ = os.Remove(tempConfigPath) }()

	configPath, found := FindConfigFile()
	if !found {
		t.Error("Expected config file to be found, but none was found")
	}
	if configPath != tempConfigPath {
		t.Errorf("Expected config path %s, got %s", tempConfigPath, configPath)
	}
}

func TestFileExists(t *testing.T) {
	// Test with non-existent file
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist, but fileExists returned true")
	}

	// Create a temporary file
	tempFile := filepath.Join(t.TempDir(), "test-file")
	err := os.WriteFile(tempFile, []byte("test"), 0o600)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	if !fileExists(tempFile) {
		t.Error("Expected file to exist, but fileExists returned false")
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid yaml file",
			path:    "config.yaml",
			wantErr: false,
		},
		{
			name:    "valid yml file",
			path:    "config.yml",
			wantErr: false,
		},
		{
			name:    "path traversal attempt",
			path:    "../../../etc/passwd",
			wantErr: true,
			errMsg:  "path traversal not allowed",
		},
		{
			name:    "non-yaml file",
			path:    "config.txt",
			wantErr: true,
			errMsg:  "config file must have .yaml or .yml extension",
		},
		{
			name:    "system file access",
			path:    "/etc/passwd.yaml",
			wantErr: true,
			errMsg:  "access to system files not allowed",
		},
		{
			name:    "proc filesystem access",
			path:    "/proc/version.yaml",
			wantErr: true,
			errMsg:  "access to system files not allowed",
		},
		{
			name:    "relative path with valid extension",
			path:    "./configs/app.yaml",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
			}
		})
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad-theme.yaml")
	if err := os.WriteFile(configPath, []byte("ui:\n  theme: neon\n"), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	_, err := NewLoader().LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected validation error, got none")
	}
	if !strings.Contains(err.Error(), "invalid theme") {
		t.Errorf("Expected invalid theme error, got %v", err)
	}
}
