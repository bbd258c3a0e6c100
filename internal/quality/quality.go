// Package quality collects structured data-quality warnings across the
// pipeline and summarizes them into an end-of-run report.
//
// Data problems in the raw extracts are never errors: each one is absorbed
// into a missing value at the point it is found and recorded here with
// enough context (table, key, field, reason) to audit the run afterwards.
package quality

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Reason categorizes a warning per the pipeline's error taxonomy.
type Reason string

const (
	// ReasonNormalizationMiss marks a raw value matching no known encoding.
	ReasonNormalizationMiss Reason = "normalization_miss"
	// ReasonJoinMiss marks an expected domain table or row absent for a key.
	ReasonJoinMiss Reason = "join_miss"
	// ReasonImplausibleValue marks a value outside its sanity bound.
	ReasonImplausibleValue Reason = "implausible_value"
	// ReasonSchemaDrift marks a wave's table lacking an expected column.
	ReasonSchemaDrift Reason = "schema_drift"
	// ReasonDuplicateKey marks a discarded duplicate (household, member) row.
	ReasonDuplicateKey Reason = "duplicate_key"
	// ReasonLinkageMismatch marks a cross-wave identity check failure
	// (e.g. age not progressing with the wave gap).
	ReasonLinkageMismatch Reason = "linkage_mismatch"
)

// Warning is one recorded data-quality issue.
type Warning struct {
	Table  string `json:"table"`
	Key    string `json:"key"`
	Field  string `json:"field"`
	Reason Reason `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// Collector accumulates warnings for the end-of-run report. The mutex
// exists only for the per-wave build stage, where waves are constructed
// concurrently; every other stage is a single sequential writer.
type Collector struct {
	runID   string
	started time.Time
	logger  *slog.Logger

	mu       sync.Mutex
	warnings []Warning
}

// NewCollector creates a collector stamped with a fresh run ID.
func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		runID:   uuid.NewString(),
		started: time.Now(),
		logger:  logger,
	}
}

// RunID returns the unique identifier of this pipeline run.
func (c *Collector) RunID() string {
	return c.runID
}

// Add records a warning and emits it at warn level.
func (c *Collector) Add(w Warning) {
	c.mu.Lock()
	c.warnings = append(c.warnings, w)
	c.mu.Unlock()
	c.logger.Warn("data quality issue",
		slog.String("table", w.Table),
		slog.String("key", w.Key),
		slog.String("field", w.Field),
		slog.String("reason", string(w.Reason)),
		slog.String("detail", w.Detail),
	)
}

// Addf records a warning with a formatted detail message.
func (c *Collector) Addf(table, key, field string, reason Reason, format string, args ...any) {
	c.Add(Warning{
		Table:  table,
		Key:    key,
		Field:  field,
		Reason: reason,
		Detail: fmt.Sprintf(format, args...),
	})
}

// Warnings returns the recorded warnings in insertion order.
func (c *Collector) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.warnings
}

// Report is the end-of-run summary of collected warnings.
type Report struct {
	RunID      string         `json:"run_id"`
	Started    time.Time      `json:"started"`
	Total      int            `json:"total"`
	ByReason   map[Reason]int `json:"by_reason"`
	ByTable    map[string]int `json:"by_table"`
	TopTables  []string       `json:"top_tables"`
	WorstTable string         `json:"worst_table,omitempty"`
}

// Summarize builds the report from the collected warnings.
func (c *Collector) Summarize() Report {
	warnings := c.Warnings()
	r := Report{
		RunID:    c.runID,
		Started:  c.started,
		Total:    len(warnings),
		ByReason: make(map[Reason]int),
		ByTable:  make(map[string]int),
	}
	for _, w := range warnings {
		r.ByReason[w.Reason]++
		r.ByTable[w.Table]++
	}

	tables := make([]string, 0, len(r.ByTable))
	for t := range r.ByTable {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool {
		if r.ByTable[tables[i]] != r.ByTable[tables[j]] {
			return r.ByTable[tables[i]] > r.ByTable[tables[j]]
		}
		return tables[i] < tables[j]
	})
	r.TopTables = tables
	if len(tables) > 0 {
		r.WorstTable = tables[0]
	}
	return r
}

// Log emits the report summary.
func (r Report) Log(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("data quality report",
		slog.String("run_id", r.RunID),
		slog.Int("total_warnings", r.Total),
		slog.String("worst_table", r.WorstTable),
		slog.Any("by_reason", r.ByReason),
	)
}
