package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muni-rrhh/dashboard/internal/application/service"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
	"github.com/muni-rrhh/dashboard/internal/domain/reconciliation"
	"github.com/muni-rrhh/dashboard/internal/infrastructure/spreadsheet"
	"github.com/muni-rrhh/dashboard/pkg/utils"
)

type runOptions struct {
	sheet     string
	records   string
	exportDir string
	timezone  string
	verbose   bool
	opts      reconciliation.Options
}

// runReport is printed by "reconcile run"
type runReport struct {
	SourceFile string                `json:"sourceFile"`
	Rows       int                   `json:"rows"`
	Records    int                   `json:"records"`
	Buckets    map[string]int        `json:"buckets"`
	Summary    entity.ControlSummary `json:"summary"`
	Exports    []string              `json:"exports,omitempty"`
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reconcile",
		Short:         "Reconcile tracked expedientes against the location spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newNormalizeCmd())
	return root
}

func newRunCmd() *cobra.Command {
	o := &runOptions{opts: reconciliation.DefaultOptions()}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify the loaded cases and print the control summary as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd, o)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.sheet, "sheet", "", "location spreadsheet (.xlsx or .xls)")
	flags.StringVar(&o.records, "records", "", "JSON array of loaded expedientes")
	flags.StringVar(&o.exportDir, "export-dir", "", "write the three bucket workbooks to this directory")
	flags.IntVar(&o.opts.CaseNumberColumn, "case-column", o.opts.CaseNumberColumn, "0-based case number column")
	flags.IntVar(&o.opts.DepartmentColumn, "department-column", o.opts.DepartmentColumn, "0-based department column")
	flags.StringVar(&o.opts.ArchiveDepartment, "archive-department", o.opts.ArchiveDepartment, "department that marks a case as closed")
	flags.StringVar(&o.opts.DGGADepartment, "dgga-department", o.opts.DGGADepartment, "department counted as not yet loaded")
	flags.StringVar(&o.timezone, "timezone", service.DefaultTimezone, "IANA zone for the review timestamp and export names")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "log progress to stderr")
	_ = cmd.MarkFlagRequired("sheet")
	_ = cmd.MarkFlagRequired("records")

	return cmd
}

func runReconcile(cmd *cobra.Command, o *runOptions) error {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	location, err := time.LoadLocation(o.timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", o.timezone, err)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{Level: level, OutputPath: "stderr", Format: "console"})
	if err != nil {
		return err
	}
	defer logger.Sync()

	records, err := loadRecords(o.records)
	if err != nil {
		return err
	}

	f, err := os.Open(o.sheet)
	if err != nil {
		return fmt.Errorf("open sheet: %w", err)
	}
	defer f.Close()

	rows, err := spreadsheet.NewReader(logger).ReadFirstSheet(f, filepath.Base(o.sheet))
	if err != nil {
		return err
	}
	logger.Debug("Sheet read", zap.String("file", o.sheet), zap.Int("rows", len(rows)))

	buckets, summary := reconciliation.Reconcile(rows, records, o.opts)
	reviewedAt := time.Now().In(location)
	summary.LastReviewedTimestamp = reviewedAt.Format(service.DefaultTimestampLayout)

	report := runReport{
		SourceFile: filepath.Base(o.sheet),
		Rows:       len(rows),
		Records:    len(records),
		Buckets: map[string]int{
			string(reconciliation.BucketNoMovement): len(buckets.NoMovement),
			string(reconciliation.BucketMissing):    len(buckets.Missing),
			string(reconciliation.BucketClosed):     len(buckets.Closed),
		},
		Summary: summary,
	}

	if o.exportDir != "" {
		report.Exports, err = exportBuckets(o.exportDir, buckets, spreadsheet.NewWriter(logger), reviewedAt)
		if err != nil {
			return err
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func loadRecords(path string) ([]entity.CaseRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	var records []entity.CaseRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse records %s: %w", path, err)
	}
	return records, nil
}

func exportBuckets(dir string, buckets reconciliation.Buckets, writer *spreadsheet.Writer, at time.Time) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	var paths []string
	for _, b := range []reconciliation.Bucket{reconciliation.BucketNoMovement, reconciliation.BucketMissing, reconciliation.BucketClosed} {
		path := filepath.Join(dir, b.Filename(at))
		if err := writeBucket(path, b, buckets, writer); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeBucket(path string, b reconciliation.Bucket, buckets reconciliation.Buckets, writer *spreadsheet.Writer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	headers, rows := reconciliation.EntryTable(b, buckets.Entries(b))
	if err := writer.Write(f, b.SheetTitle(), headers, rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <case-number>...",
		Short: "Print the comparison key of each case number",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, raw := range args {
				fmt.Fprintf(out, "%s\t%s\n", raw, reconciliation.NormalizeCaseNumber(raw))
			}
			return nil
		},
	}
}
