package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"go-trip-pipeline/internal/dataset"
	"go-trip-pipeline/internal/model"
	"go-trip-pipeline/internal/store"
	"go-trip-pipeline/pkg/logging"
	"go-trip-pipeline/pkg/utils"
)

// Run executes one analysis job end to end: ingest the trip dataset, derive
// the configured histogram columns, rank departure stations, resample the
// top stations into daily series, and export/persist every result.
func Run(ctx context.Context, jobID string, job model.AnalysisJobSpec) (err error) {
	log := logging.FromContext(ctx).With("job", jobID)
	ctx = logging.WithLogger(ctx, log)
	start := time.Now()
	log.Infow("starting analysis job")

	store.UpdateJobStatus(jobID, "running")
	defer func() {
		if err != nil {
			store.UpdateJobStatus(jobID, "failed")
			store.SaveJobError(jobID, "pipeline", err)
			log.Errorw("analysis job failed", "error", err)
		}
	}()

	if err := ValidateSpec(job); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, utils.ParseDuration(job.Concurrency.JobTimeout))
	defer cancel()

	exporter := NewExportManager(jobID, job.Export)

	// --- INGESTION STAGE ---
	stageStart := time.Now()
	store.UpdateJobStatus(jobID, "ingesting")
	store.SaveJobLog(jobID, "ingestion", "info", "starting ingestion", map[string]any{
		"source": job.Source.URL,
		"type":   job.Source.Type,
	})

	ds, err := Ingest(ctx, job.Source, job.Concurrency.ChannelBufferSize)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	store.SaveJobLog(jobID, "ingestion", "info", "ingestion completed", map[string]any{
		"rows":        ds.Len(),
		"duration_ms": time.Since(stageStart).Milliseconds(),
	})

	// --- HISTOGRAM STAGE ---
	if len(job.Histograms) > 0 {
		store.UpdateJobStatus(jobID, "deriving")
		for _, h := range job.Histograms {
			values, err := deriveColumn(ds, h)
			if err != nil {
				return fmt.Errorf("histogram %q: %w", h.Name, err)
			}
			store.SaveJobLog(jobID, "histogram", "info", "derived column", map[string]any{
				"name":   h.Name,
				"values": len(values),
			})
			if res := exporter.ExportColumn(ctx, h.Name, h.Column, values); res != nil {
				logExport(jobID, *res)
			}
		}
	}

	// --- RANKING STAGE ---
	var topStations []string
	if job.Ranking != nil {
		store.UpdateJobStatus(jobID, "ranking")
		counts, err := dataset.GroupAndRank(ds, job.Ranking.KeyColumn)
		if err != nil {
			return fmt.Errorf("ranking failed: %w", err)
		}
		if err := store.SaveStationCounts(jobID, counts); err != nil {
			return fmt.Errorf("saving station counts: %w", err)
		}

		top := counts
		if job.Ranking.TopK > 0 && len(top) > job.Ranking.TopK {
			top = top[:job.Ranking.TopK]
		}
		topStations = lo.Map(top, func(gc dataset.GroupCount, _ int) string { return gc.Key })
		store.SaveJobLog(jobID, "ranking", "info", "ranking completed", map[string]any{
			"groups": len(counts),
			"top":    topStations,
		})
		if res := exporter.ExportStationCounts(ctx, counts); res != nil {
			logExport(jobID, *res)
		}
	}

	// --- RESAMPLE STAGE ---
	if job.Resample != nil {
		store.UpdateJobStatus(jobID, "resampling")
		entities := topStations
		if job.Resample.TopK > 0 && len(entities) > job.Resample.TopK {
			entities = entities[:job.Resample.TopK]
		}

		series, failed, err := dataset.ResampleDaily(ds, job.Resample.TimeColumn, job.Resample.EntityColumn, entities)
		if err != nil {
			return fmt.Errorf("resampling failed: %w", err)
		}
		// Entities with malformed timestamps fail alone; the job carries on
		// with the rest and reports them together.
		for _, entity := range entities {
			if entErr, ok := failed[entity]; ok {
				store.SaveJobError(jobID, "resample", fmt.Errorf("entity %q: %w", entity, entErr))
				log.Warnw("entity skipped during resampling", "entity", entity, "error", entErr)
			}
		}
		if err := store.SaveDailySeries(jobID, series); err != nil {
			return fmt.Errorf("saving daily series: %w", err)
		}
		store.SaveJobLog(jobID, "resample", "info", "resampling completed", map[string]any{
			"series": len(series),
			"failed": len(failed),
		})
		if res := exporter.ExportDailySeries(ctx, entities, series); res != nil {
			logExport(jobID, *res)
		}
	}

	store.UpdateJobStatus(jobID, "completed")
	log.Infow("analysis job completed", "duration", time.Since(start))
	return nil
}

// ValidateSpec rejects mis-specified jobs before any work starts.
func ValidateSpec(job model.AnalysisJobSpec) error {
	if job.Source.URL == "" {
		return fmt.Errorf("source URL is required")
	}
	if len(job.Source.Schema) == 0 {
		return fmt.Errorf("source schema is required")
	}
	for _, h := range job.Histograms {
		if h.Name == "" || h.Column == "" {
			return fmt.Errorf("histogram specs need a name and a column")
		}
	}
	if job.Resample != nil && job.Ranking == nil {
		return fmt.Errorf("resample requires a ranking to pick its entities")
	}
	return nil
}

// deriveColumn applies a histogram spec's optional filter and sample and
// extracts the flat column of values.
func deriveColumn(ds *dataset.Dataset, h model.HistogramSpec) ([]any, error) {
	cur := ds
	var err error
	if h.Filter != nil {
		cur, err = dataset.Filter(cur, h.Filter.Column, dataset.Op(h.Filter.Op), h.Filter.Value)
		if err != nil {
			return nil, err
		}
	}
	if h.Sample != nil {
		cur, err = dataset.Sample(cur, dataset.SampleSpec{
			Fraction:        h.Sample.Fraction,
			Seed:            h.Sample.Seed,
			WithReplacement: h.Sample.WithReplacement,
		})
		if err != nil {
			return nil, err
		}
	}
	return cur.Column(h.Column)
}

func logExport(jobID string, res ExportResult) {
	if res.Success {
		store.SaveJobLog(jobID, "export", "info", "artifact written", map[string]any{
			"path":    res.Path,
			"records": res.RecordCount,
		})
	} else {
		store.SaveJobError(jobID, "export", fmt.Errorf("%s", res.Error))
	}
}
