// Package pipeline orchestrates the one-shot panel build: discovery,
// per-wave table building, role resolution, wave assembly, panel stitching,
// mother-child linkage, prenatal resolution, and export.
//
// Waves share no mutable state during building and run concurrently; every
// later stage is a sequential pure transform in fixed dependency order.
// Data problems never abort the run: they degrade to missing values on the
// affected records and land in the quality ledger. Only configuration and
// I/O failures return errors.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"panelcli/internal/assemble"
	"panelcli/internal/config"
	"panelcli/internal/exporter"
	"panelcli/internal/ingest"
	"panelcli/internal/panel"
	"panelcli/internal/quality"
	"panelcli/internal/roles"
	"panelcli/internal/wavebuilder"
	"panelcli/pkg/contracts/domain"
)

// Output file names under the configured output directory.
const (
	PanelFile         = "analysis_panel.csv"
	QualityLedgerFile = "quality_ledger.csv"
)

// Runner executes the full pipeline.
type Runner struct {
	cfg     *config.Config
	logger  *slog.Logger
	quality *quality.Collector
}

// NewRunner creates a runner for a validated configuration.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "pipeline")),
		quality: quality.NewCollector(logger),
	}
}

// Run executes the pipeline end to end and writes the panel and quality
// ledger to the output directory.
func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()
	fieldworkEnd, err := r.cfg.FieldworkEnd()
	if err != nil {
		return err
	}

	waves := r.cfg.WaveList()
	r.logger.InfoContext(ctx, "starting panel build",
		"run_id", r.quality.RunID(),
		"input_dir", r.cfg.Paths.InputDir,
		"waves", len(waves),
	)

	discovery := ingest.NewDiscovery(r.cfg.Paths.InputDir)

	assemblies := make(map[domain.Wave]map[domain.MemberKey]domain.MemberRecord, len(waves))
	rolesByWave := make(map[domain.Wave]map[domain.MemberKey]domain.RoleAssignment, len(waves))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, wave := range waves {
		g.Go(func() error {
			records, assignments, err := r.buildWave(gctx, discovery, wave)
			if err != nil {
				return fmt.Errorf("%s: %w", wave, err)
			}
			mu.Lock()
			assemblies[wave] = records
			rolesByWave[wave] = assignments
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("build waves: %w", err)
	}

	stitcher := panel.NewStitcher(r.quality, r.logger)
	rows := stitcher.Stitch(assemblies, rolesByWave)

	rows, err = panel.LinkMothers(rows, rolesByWave, r.quality, r.logger)
	if err != nil {
		return fmt.Errorf("link mothers: %w", err)
	}

	rows, err = panel.ResolvePrenatal(rows, rolesByWave, panel.PrenatalOptions{
		WindowMonths:    r.cfg.Prenatal.WindowMonths,
		SevereThreshold: r.cfg.Prenatal.SevereThreshold,
		MinBirthYear:    r.cfg.Prenatal.MinBirthYear,
		FieldworkEnd:    fieldworkEnd,
	}, r.quality, r.logger)
	if err != nil {
		return fmt.Errorf("resolve prenatal exposure: %w", err)
	}

	writer := exporter.NewCSVWriter(r.cfg.Paths.OutputDir)
	if err := writer.WritePanel(PanelFile, rows); err != nil {
		return err
	}
	if err := writer.WriteQualityLedger(QualityLedgerFile, r.quality.RunID(), r.quality.Warnings()); err != nil {
		return err
	}

	report := r.quality.Summarize()
	report.Log(r.logger)

	inSample := 0
	for _, row := range rows {
		if row.AnalysisSample {
			inSample++
		}
	}
	r.logger.InfoContext(ctx, "panel build completed",
		"duration", time.Since(start),
		"panel_rows", len(rows),
		"analysis_sample", inSample,
		"warnings", report.Total,
	)
	return nil
}

// buildWave loads and builds one wave's domain tables, assembles its member
// records, and resolves household roles.
func (r *Runner) buildWave(ctx context.Context, discovery *ingest.Discovery, wave domain.Wave) (map[domain.MemberKey]domain.MemberRecord, map[domain.MemberKey]domain.RoleAssignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	load := func(table string) (*ingest.RawTable, error) {
		t, err := discovery.Load(wave, table)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", table, err)
		}
		return t, nil
	}

	tables := assemble.Tables{}
	builder := wavebuilder.New(wave, r.quality, r.logger)

	demo, err := load(ingest.TableDemographics)
	if err != nil {
		return nil, nil, err
	}
	tables.Demographics = builder.Demographics(demo)

	dep, err := load(ingest.TableDepression)
	if err != nil {
		return nil, nil, err
	}
	tables.Depression = builder.Depression(dep, r.cfg.Thresholds.K10Binary, r.cfg.Thresholds.MinK10Items)

	cog, err := load(ingest.TableCognitive)
	if err != nil {
		return nil, nil, err
	}
	tables.Cognitive = builder.Cognitive(cog, wavebuilder.DefaultAnswerKeys())

	anth, err := load(ingest.TableAnthropometry)
	if err != nil {
		return nil, nil, err
	}
	tables.Anthropometry = builder.Anthropometry(anth)

	tu, err := load(ingest.TableTimeUse)
	if err != nil {
		return nil, nil, err
	}
	tables.TimeUse = builder.TimeUse(tu)

	exp, err := load(ingest.TableExpenditure)
	if err != nil {
		return nil, nil, err
	}
	tables.Expenditure = builder.Expenditure(exp)

	health, err := load(ingest.TableHealth)
	if err != nil {
		return nil, nil, err
	}
	tables.Health = builder.Health(health)

	records := assemble.New(wave, r.quality, r.logger).Assemble(tables)
	assignments := roles.Resolve(wave, tables.Demographics, r.logger)
	return records, assignments, nil
}
