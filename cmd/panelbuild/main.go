// Command panelbuild runs the one-shot panel construction pipeline: it
// reads per-wave raw survey extracts, builds the harmonized longitudinal
// analysis panel with mother-child linkage and prenatal exposure, and
// writes the panel plus a data-quality ledger as CSV.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"panelcli/internal/config"
	"panelcli/internal/infrastructure"
	"panelcli/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional; env and defaults apply)")
	inDir := flag.String("in", "", "input directory with raw extracts (overrides config)")
	outDir := flag.String("out", "", "output directory for the panel and quality ledger (overrides config)")
	window := flag.Float64("window", 0, "gestation window in months for prenatal attribution (overrides config; 6 and 12 are the sensitivity variants)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	if *inDir != "" {
		cfg.Paths.InputDir = *inDir
	}
	if *outDir != "" {
		cfg.Paths.OutputDir = *outDir
	}
	if *window != 0 {
		cfg.Prenatal.WindowMonths = *window
	}
	// Flag overrides bypass Load's validation pass; re-check before running.
	if err := cfg.Validate(); err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	logger := infrastructure.NewLogger(cfg.Logging)

	runner := pipeline.NewRunner(cfg, logger)
	if err := runner.Run(context.Background()); err != nil {
		logger.Error("panel build failed", "error", err)
		os.Exit(1)
	}
}
