package config

// SampleConfig returns a documented configuration file with every option
func SampleConfig() string {
	return `# linefit configuration
version: "1.0"

# Interactive viewer
ui:
  # Start with the auto-analyze checkbox ticked
  auto_analyze: false
  # Period of the auto-analyze timer
  auto_interval: 1s
  # Color theme: default, high-contrast, minimal
  theme: default
  # Size of the character plot
  plot_width: 60
  plot_height: 16
  # Reload the open file when it changes on disk
  watch: false

# Results and plot export
export:
  # Pre-filled path of the save prompt
  default_path: results.txt
  # Pre-filled path of the plot prompt
  plot_path: plot.png
  # Results format: tsv, json, text, markdown
  format: tsv
  # PNG size in pixels
  plot_width: 800
  plot_height: 600

# Input files
data:
  # Longest accepted line in bytes
  max_line_length: 1048576

# Output
output:
  # Color mode: auto, always, never
  color_mode: auto
  verbose: false
  # Log destination while the viewer is running (discarded when empty)
  log_file: ""
`
}

// MinimalSampleConfig returns a compact configuration file
func MinimalSampleConfig() string {
	return `version: "1.0"
ui:
  auto_analyze: false
  auto_interval: 1s
export:
  default_path: results.txt
  format: tsv
`
}
