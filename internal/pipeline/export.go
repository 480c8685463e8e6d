package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"go-trip-pipeline/internal/dataset"
	"go-trip-pipeline/internal/model"
	"go-trip-pipeline/pkg/logging"
	"go-trip-pipeline/pkg/utils"
)

// ExportResult describes one written artifact.
type ExportResult struct {
	Type        string    `json:"type"` // "column", "counts", "series"
	Path        string    `json:"path"`
	RecordCount int       `json:"record_count"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	ExportedAt  time.Time `json:"exported_at"`
}

// ExportManager writes the plain outbound sequences of a job — histogram
// columns, (station, count) pairs and per-series (day, count) pairs — as
// CSV or JSON files under the job's output directory. It renders nothing.
type ExportManager struct {
	JobID   string
	Spec    *model.Export
	Outputs *utils.OutputManager
}

// NewExportManager returns an export manager for the job; a nil spec means
// exporting is disabled and every Export* call returns nil.
func NewExportManager(jobID string, spec *model.Export) *ExportManager {
	em := &ExportManager{JobID: jobID, Spec: spec}
	if spec != nil {
		dir := spec.Dir
		if dir == "" {
			dir = "output"
		}
		em.Outputs = utils.NewOutputManager(dir)
	}
	return em
}

func (em *ExportManager) format() string {
	if em.Spec != nil && em.Spec.Format == "json" {
		return "json"
	}
	return "csv"
}

// ExportColumn writes a flat column of values, one value per record.
func (em *ExportManager) ExportColumn(ctx context.Context, name, column string, values []any) *ExportResult {
	if em.Spec == nil {
		return nil
	}
	path, err := em.Outputs.ArtifactPath(em.JobID, name+"."+em.format())
	if err != nil {
		return em.failure(ctx, "column", err)
	}

	if em.format() == "json" {
		return em.finish(ctx, "column", path, len(values), writeJSON(path, values))
	}
	rows := [][]string{{column}}
	for _, v := range values {
		rows = append(rows, []string{fmt.Sprint(v)})
	}
	return em.finish(ctx, "column", path, len(values), writeCSV(path, rows))
}

// ExportStationCounts writes the ranked (station, count) pairs.
func (em *ExportManager) ExportStationCounts(ctx context.Context, counts []dataset.GroupCount) *ExportResult {
	if em.Spec == nil {
		return nil
	}
	path, err := em.Outputs.ArtifactPath(em.JobID, "station_counts."+em.format())
	if err != nil {
		return em.failure(ctx, "counts", err)
	}

	if em.format() == "json" {
		return em.finish(ctx, "counts", path, len(counts), writeJSON(path, counts))
	}
	rows := [][]string{{"station", "count"}}
	for _, gc := range counts {
		rows = append(rows, []string{gc.Key, strconv.Itoa(gc.Count)})
	}
	return em.finish(ctx, "counts", path, len(counts), writeCSV(path, rows))
}

// ExportDailySeries writes every series as (station, day, count) records,
// stations in the given order, days ascending within each station.
func (em *ExportManager) ExportDailySeries(ctx context.Context, order []string, series map[string]dataset.TimeBucketSeries) *ExportResult {
	if em.Spec == nil {
		return nil
	}
	path, err := em.Outputs.ArtifactPath(em.JobID, "daily_series."+em.format())
	if err != nil {
		return em.failure(ctx, "series", err)
	}

	records := 0
	if em.format() == "json" {
		ordered := make([]dataset.TimeBucketSeries, 0, len(order))
		for _, entity := range order {
			if s, ok := series[entity]; ok {
				ordered = append(ordered, s)
				records += len(s.Buckets)
			}
		}
		return em.finish(ctx, "series", path, records, writeJSON(path, ordered))
	}

	rows := [][]string{{"station", "day", "count"}}
	for _, entity := range order {
		s, ok := series[entity]
		if !ok {
			continue
		}
		for _, b := range s.Buckets {
			rows = append(rows, []string{s.Entity, b.Date.Format("2006-01-02"), strconv.Itoa(b.Count)})
			records++
		}
	}
	return em.finish(ctx, "series", path, records, writeCSV(path, rows))
}

func (em *ExportManager) finish(ctx context.Context, kind, path string, records int, err error) *ExportResult {
	if err != nil {
		return em.failure(ctx, kind, err)
	}
	logging.FromContext(ctx).Infow("artifact exported", "kind", kind, "path", path, "records", records)
	return &ExportResult{
		Type:        kind,
		Path:        path,
		RecordCount: records,
		Success:     true,
		ExportedAt:  time.Now().UTC(),
	}
}

func (em *ExportManager) failure(ctx context.Context, kind string, err error) *ExportResult {
	logging.FromContext(ctx).Errorw("export failed", "kind", kind, "error", err)
	return &ExportResult{
		Type:       kind,
		Success:    false,
		Error:      err.Error(),
		ExportedAt: time.Now().UTC(),
	}
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return w.Error()
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
