package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cbctcli/internal/config"
	"cbctcli/internal/infrastructure"
	"cbctcli/internal/pipeline"
)

func main() {
	dir := flag.String("dir", "", "root directory containing DICOM files")
	out := flag.String("out", "", "output file path (.csv or .xlsx)")
	format := flag.String("format", "", "output format: csv | xlsx (defaults to the output extension)")
	fields := flag.String("fields", "", "comma-separated DICOM keywords to export, in column order")
	configFile := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Flags take precedence over file and environment
	if *dir != "" {
		cfg.Extract.InputDir = *dir
	}
	if *out != "" {
		cfg.Extract.OutputFile = *out
	}
	if *format != "" {
		cfg.Extract.Format = *format
	}
	if *fields != "" {
		cfg.Extract.Fields = parseFields(*fields)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		flag.Usage()
		os.Exit(2)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.ContextWithTraceID(context.Background())

	runner := pipeline.NewRunner(cfg.Extract, logger)
	summary, err := runner.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Extraction failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Scanned %d files, wrote %d examinations to %s\n",
		summary.FilesScanned, summary.Examinations, cfg.Extract.OutputFile)
}

// parseFields splits a comma-separated field list, dropping empty entries
func parseFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
