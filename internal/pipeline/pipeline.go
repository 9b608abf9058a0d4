package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"cbctcli/internal/config"
	"cbctcli/internal/exporter"
	"cbctcli/internal/files"
	"cbctcli/internal/header"
	"cbctcli/internal/infrastructure"
	"cbctcli/internal/normalize"
)

// derivedToken marks stacks and copies generated by the PACS after
// acquisition; those never count toward primary dose statistics.
const derivedToken = "DERIVED"

// Summary counts what happened to the scanned files during one run
type Summary struct {
	FilesScanned     int
	Parsed           int
	DerivedSkipped   int
	MissingAttribute int
	Duplicates       int
	Examinations     int
}

// parseFunc parses one candidate file into a record
type parseFunc func(path string) (*header.Record, error)

// tableWriter is satisfied by both exporter writers
type tableWriter interface {
	Write(filePath string, options exporter.WriteOptions) error
}

// Runner executes one extraction run: discover, filter, normalize,
// deduplicate, export. Runs are sequential and stateless across
// invocations.
type Runner struct {
	cfg     config.ExtractConfig
	logger  *slog.Logger
	parse   parseFunc
	counter *files.Counter
}

// NewRunner creates a runner for the given extraction configuration
func NewRunner(cfg config.ExtractConfig, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		logger:  infrastructure.WithComponent(logger, "pipeline"),
		parse:   header.ParseFile,
		counter: files.NewCounter(),
	}
}

// Run scans the input directory and writes the examination table. Per-file
// problems are contained (logged and skipped); only an unreadable input
// directory or a failed export abort the run.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	r.logger.InfoContext(ctx, "Starting extraction",
		slog.String("input_dir", r.cfg.InputDir),
		slog.String("output_file", r.cfg.OutputFile),
		slog.String("format", r.cfg.Format),
		slog.Int("field_count", len(r.cfg.Fields)))

	exams, summary, err := r.collect(ctx)
	if err != nil {
		return summary, err
	}
	summary.Examinations = exams.Len()

	if err := r.export(exams); err != nil {
		return summary, err
	}

	r.logger.InfoContext(ctx, "Extraction complete",
		slog.Int("files_scanned", summary.FilesScanned),
		slog.Int("parsed", summary.Parsed),
		slog.Int("derived_skipped", summary.DerivedSkipped),
		slog.Int("missing_attribute", summary.MissingAttribute),
		slog.Int("duplicates", summary.Duplicates),
		slog.Int("examinations", summary.Examinations))

	return summary, nil
}

// collect walks the input tree and builds the deduplicated examination set
func (r *Runner) collect(ctx context.Context) (*ExamSet, Summary, error) {
	exams := NewExamSet()
	var summary Summary

	err := files.WalkFiles(r.cfg.InputDir, func(path string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		summary.FilesScanned++

		rec, err := r.parse(path)
		if err != nil {
			// Not a DICOM file, or unreadable; either way not ours to report
			r.logger.Debug("Skipping unparseable file",
				slog.String("path", path),
				slog.String("reason", err.Error()))
			return nil
		}
		summary.Parsed++

		r.accept(rec, exams, &summary)
		return nil
	})
	if err != nil {
		return nil, summary, fmt.Errorf("failed to scan %s: %w", r.cfg.InputDir, err)
	}

	return exams, summary, nil
}

// accept applies the filter, normalization and dedup policy to one record
func (r *Runner) accept(rec *header.Record, exams *ExamSet, summary *Summary) {
	if rec.ImageTypeContains(derivedToken) {
		summary.DerivedSkipped++
		r.logger.Debug("Skipping derived image", slog.String("path", rec.Path()))
		return
	}

	uid, ok := rec.SeriesInstanceUID()
	if !ok {
		summary.MissingAttribute++
		r.logger.Warn("Record has no series instance UID, skipping",
			slog.String("path", rec.Path()))
		return
	}
	if exams.Contains(uid) {
		summary.Duplicates++
		return
	}

	if _, ok := rec.Manufacturer(); !ok {
		summary.MissingAttribute++
		r.logger.Warn("Record has no manufacturer attribute, skipping",
			slog.String("path", rec.Path()),
			slog.String("series_uid", uid))
		return
	}

	normalize.Apply(rec, normalize.Context{
		Dir:     filepath.Dir(rec.Path()),
		Counter: r.counter,
		Logger:  r.logger,
	})

	exams.Add(uid, rec)
}

// export writes the examination table in the configured format
func (r *Runner) export(exams *ExamSet) error {
	options := exporter.WriteOptions{
		Fields:    r.cfg.Fields,
		Records:   exams.Records(),
		BOMPrefix: true,
	}

	var writer tableWriter
	switch r.cfg.Format {
	case "xlsx":
		writer = exporter.NewExcelWriter()
	default:
		writer = exporter.NewCSVWriter()
	}

	if err := writer.Write(r.cfg.OutputFile, options); err != nil {
		return fmt.Errorf("failed to export examinations: %w", err)
	}
	return nil
}
