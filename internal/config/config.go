package config

import (
	"fmt"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version"`
	UI      UIConfig     `yaml:"ui" json:"ui"`
	Export  ExportConfig `yaml:"export" json:"export"`
	Data    DataConfig   `yaml:"data" json:"data"`
	Output  OutputConfig `yaml:"output" json:"output"`
}

// UIConfig configures the interactive viewer
type UIConfig struct {
	AutoAnalyze  bool          `yaml:"auto_analyze" json:"auto_analyze"`   // auto-analyze checkbox state at startup
	AutoInterval time.Duration `yaml:"auto_interval" json:"auto_interval"` // period of the auto-analyze tick
	Theme        string        `yaml:"theme" json:"theme"`                 // default|high-contrast|minimal
	PlotWidth    int           `yaml:"plot_width" json:"plot_width"`       // plot canvas columns
	PlotHeight   int           `yaml:"plot_height" json:"plot_height"`     // plot canvas rows
	Watch        bool          `yaml:"watch" json:"watch"`                 // reload the file when it changes
}

// ExportConfig configures result and plot export
type ExportConfig struct {
	DefaultPath string `yaml:"default_path" json:"default_path"` // pre-filled path of the save prompt
	PlotPath    string `yaml:"plot_path" json:"plot_path"`       // pre-filled path of the plot prompt
	Format      string `yaml:"format" json:"format"`             // tsv|json|text|markdown
	PlotWidth   int    `yaml:"plot_width" json:"plot_width"`     // PNG width in pixels
	PlotHeight  int    `yaml:"plot_height" json:"plot_height"`   // PNG height in pixels
}

// DataConfig configures dataset loading
type DataConfig struct {
	MaxLineLength int `yaml:"max_line_length" json:"max_line_length"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	ColorMode string `yaml:"color_mode" json:"color_mode"` // auto|always|never
	Verbose   bool   `yaml:"verbose" json:"verbose"`       // default verbosity
	LogFile   string `yaml:"log_file" json:"log_file"`     // log destination while the TUI is running
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		UI: UIConfig{
			AutoAnalyze:  false,
			AutoInterval: time.Second,
			Theme:        "default",
			PlotWidth:    60,
			PlotHeight:   16,
			Watch:        false,
		},
		Export: ExportConfig{
			DefaultPath: "results.txt",
			PlotPath:    "plot.png",
			Format:      "tsv",
			PlotWidth:   800,
			PlotHeight:  600,
		},
		Data: DataConfig{
			MaxLineLength: 1024 * 1024, // 1MB
		},
		Output: OutputConfig{
			ColorMode: "auto",
			Verbose:   false,
			LogFile:   "",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateUIConfig(); err != nil {
		return err
	}
	if err := c.validateExportConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if c.Data.MaxLineLength < 1 {
		return fmt.Errorf("max_line_length must be greater than 0")
	}
	return nil
}

// validateUIConfig validates viewer configuration
func (c *Config) validateUIConfig() error {
	if c.UI.AutoInterval < 10*time.Millisecond {
		return fmt.Errorf("auto_interval must be at least 10ms")
	}
	if c.UI.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.UI.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.UI.Theme)
		}
	}
	if c.UI.PlotWidth < 20 || c.UI.PlotHeight < 5 {
		return fmt.Errorf("plot size must be at least 20x5")
	}
	return nil
}

// validateExportConfig validates export configuration
func (c *Config) validateExportConfig() error {
	if c.Export.Format != "" {
		validFormats := map[string]bool{
			"tsv":      true,
			"json":     true,
			"text":     true,
			"markdown": true,
		}
		if !validFormats[c.Export.Format] {
			return fmt.Errorf("invalid export format: %s (must be one of: tsv, json, text, markdown)", c.Export.Format)
		}
	}
	if c.Export.PlotWidth < 1 || c.Export.PlotHeight < 1 {
		return fmt.Errorf("plot image size must be positive")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}
