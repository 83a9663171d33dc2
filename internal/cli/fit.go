package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yildizm/linefit/internal/dataset"
	"github.com/yildizm/linefit/internal/formatter"
	"github.com/yildizm/linefit/internal/logger"
	"github.com/yildizm/linefit/internal/regression"
	"github.com/yildizm/linefit/internal/results"
)

var (
	fitFormat     string
	fitOutputFile string
)

func newFitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit <file>",
		Short: "Fit every row of a file without the viewer",
		Long: `Fit every row of a file and print the results table.

Rows that cannot be parsed are reported as warnings and skipped. The default
format is the same tab-separated table the viewer saves.

Examples:
  linefit fit data.txt
  linefit fit --format json data.txt
  linefit fit -o results.txt data.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runFit,
	}

	cmd.Flags().StringVarP(&fitFormat, "format", "f", "tsv", "output format (tsv, json, text, markdown)")
	cmd.Flags().StringVarP(&fitOutputFile, "output", "o", "", "save output to file instead of stdout")

	return cmd
}

func runFit(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger("fit")

	if err := validateFilePath(args[0]); err != nil {
		return err
	}

	format := fitFormat
	if !cmd.Flag("format").Changed {
		format = cfg.Export.Format
	}
	f, err := formatter.New(format, useColor(cfg, os.Stdout) && fitOutputFile == "")
	if err != nil {
		return err
	}

	ds, err := dataset.Load(args[0], dataset.Options{MaxLineLength: cfg.Data.MaxLineLength})
	if err != nil {
		return err
	}

	report := fitDataset(ds, log)

	if fitOutputFile != "" {
		if err := formatter.WriteFile(fitOutputFile, f, report); err != nil {
			return fmt.Errorf("failed to write output to file: %w", err)
		}
		log.InfoWithFields("results saved", []logger.Field{logger.Path(fitOutputFile), logger.Rows(len(report.Results))})
		return nil
	}

	return writeReport(cmd.OutOrStdout(), f, report)
}

// fitDataset fits every row of ds. Blank lines are ignored and rows that
// fail to parse or fit are recorded as skipped.
func fitDataset(ds *dataset.Dataset, log *logger.Logger) *formatter.Report {
	report := &formatter.Report{Source: ds.Path}
	table := results.NewTable()

	for i := 0; i < ds.Len(); i++ {
		row, err := ds.Row(i)
		if errors.Is(err, dataset.ErrEmptyRow) {
			continue
		}
		if err == nil {
			var fit *regression.Result
			fit, err = regression.FitRow(row)
			if err == nil {
				table.Add(results.Result{
					Row:       i + 1,
					Label:     row.Label,
					Slope:     fit.Slope,
					Intercept: fit.Intercept,
					RValue:    fit.RValue,
				})
				continue
			}
		}

		log.Warn("skipping %v", err)
		report.Skipped = append(report.Skipped, formatter.Skipped{Row: i + 1, Reason: err.Error()})
	}

	report.Results = table.All()
	log.DebugWithFields("dataset fitted", []logger.Field{
		logger.Path(ds.Path),
		logger.Rows(len(report.Results)),
		logger.F("skipped", len(report.Skipped)),
	})
	return report
}

func writeReport(w io.Writer, f formatter.Formatter, report *formatter.Report) error {
	data, err := f.Format(report)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
