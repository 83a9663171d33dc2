package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/linefit/internal/config"
	"github.com/yildizm/linefit/internal/dataset"
	"github.com/yildizm/linefit/internal/logger"
	"github.com/yildizm/linefit/internal/session"
	"github.com/yildizm/linefit/internal/ui"
)

var (
	viewAuto     bool
	viewWatch    bool
	viewInterval time.Duration
	viewTheme    string
)

func newViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Browse the rows of a file interactively",
		Long: `Open the interactive row viewer.

Move between rows with the arrow keys, press a to fit the current row and t to
toggle automatic fitting every interval. Results are saved with s, the current
plot with p, and another file is opened with o.

Examples:
  linefit view data.txt
  linefit view --auto --interval 500ms data.txt
  linefit view --watch --theme high-contrast data.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runView,
	}

	cmd.Flags().BoolVar(&viewAuto, "auto", false, "start with auto-analyze enabled")
	cmd.Flags().BoolVar(&viewWatch, "watch", false, "reload the file when it changes")
	cmd.Flags().DurationVar(&viewInterval, "interval", time.Second, "auto-analyze interval")
	cmd.Flags().StringVar(&viewTheme, "theme", "default", "color theme (default, high-contrast, minimal)")

	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	opts, err := viewOptions(cmd, cfg)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		if err := validateFilePath(args[0]); err != nil {
			return err
		}
		opts.InitialFile = args[0]
	}

	// The viewer owns the terminal, so log lines go to the configured file
	w, closeLog, err := openLogFile(cfg.Output.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	log := logger.NewWithWriter("linefit", isVerbose, w)
	sess := session.New(dataset.Options{MaxLineLength: cfg.Data.MaxLineLength}, log)
	return ui.Run(sess, opts, log)
}

// viewOptions merges the configuration with explicitly set flags
func viewOptions(cmd *cobra.Command, cfg *config.Config) (ui.Options, error) {
	opts := ui.Options{
		AutoAnalyze:  cfg.UI.AutoAnalyze,
		AutoInterval: cfg.UI.AutoInterval,
		Theme:        cfg.UI.Theme,
		Color:        useColor(cfg, os.Stdout),
		Watch:        cfg.UI.Watch,
		PlotWidth:    cfg.UI.PlotWidth,
		PlotHeight:   cfg.UI.PlotHeight,
		ExportPath:   cfg.Export.DefaultPath,
		ExportFormat: cfg.Export.Format,
		PlotPath:     cfg.Export.PlotPath,
		ImageWidth:   cfg.Export.PlotWidth,
		ImageHeight:  cfg.Export.PlotHeight,
	}

	if cmd.Flag("auto").Changed {
		opts.AutoAnalyze = viewAuto
	}
	if cmd.Flag("watch").Changed {
		opts.Watch = viewWatch
	}
	if cmd.Flag("interval").Changed {
		if viewInterval < 10*time.Millisecond {
			return opts, fmt.Errorf("interval must be at least 10ms, got %s", viewInterval)
		}
		opts.AutoInterval = viewInterval
	}
	if cmd.Flag("theme").Changed {
		if _, ok := ui.ThemeByName(viewTheme); !ok {
			return opts, fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", viewTheme)
		}
		opts.Theme = viewTheme
	}

	return opts, nil
}

// openLogFile opens path for appending, or discards logs when path is empty
func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}
	// #nosec G304 - path comes from the user's own configuration
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
	}, nil
}

func validateFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", cleanPath)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", cleanPath)
	}

	return nil
}
