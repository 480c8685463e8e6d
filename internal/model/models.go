package model

import "go-trip-pipeline/internal/dataset"

// FieldSpec declares one column of a source's schema.
type FieldSpec struct {
	Name string `json:"name"`
	Type string `json:"type"` // int, float, string, time
}

// DatasetType maps the declared type name to a dataset column type.
func (f FieldSpec) DatasetType() (dataset.Type, bool) {
	switch f.Type {
	case "int":
		return dataset.Int, true
	case "float":
		return dataset.Float, true
	case "string":
		return dataset.String, true
	case "time":
		return dataset.Time, true
	}
	return 0, false
}

// Source describes where the trip data comes from and its fixed schema.
type Source struct {
	Type   string      `json:"type"` // ndjson, csv
	URL    string      `json:"url"`  // file path or http(s) URL
	Schema []FieldSpec `json:"schema"`
}

// FilterSpec is a numeric range predicate on one column.
type FilterSpec struct {
	Column string  `json:"column"`
	Op     string  `json:"op"` // <, <=, >, >=, ==
	Value  float64 `json:"value"`
}

// SampleSpec mirrors dataset.SampleSpec at the job-spec level.
type SampleSpec struct {
	Fraction        float64 `json:"fraction"`
	Seed            int64   `json:"seed"`
	WithReplacement bool    `json:"withReplacement"`
}

// HistogramSpec derives one named flat column for distribution comparison:
// optionally filter, optionally sample, then emit a single column of values.
type HistogramSpec struct {
	Name   string      `json:"name"`
	Column string      `json:"column"`
	Filter *FilterSpec `json:"filter,omitempty"`
	Sample *SampleSpec `json:"sample,omitempty"`
}

// RankingSpec groups rows by a key column and keeps the top-K groups by count.
type RankingSpec struct {
	KeyColumn string `json:"keyColumn"`
	TopK      int    `json:"topK"` // 0 means all groups
}

// ResampleSpec buckets per-entity events into daily counts for the top-K
// ranked entities.
type ResampleSpec struct {
	TimeColumn   string `json:"timeColumn"`
	EntityColumn string `json:"entityColumn"`
	TopK         int    `json:"topK"`
}

// Export defines where derived outputs are written.
type Export struct {
	Dir    string `json:"dir"`    // output directory, job subdir is created inside
	Format string `json:"format"` // csv or json
}

// Concurrency defines buffering and job-level timeout options.
type Concurrency struct {
	ChannelBufferSize int    `json:"channelBufferSize"`
	JobTimeout        string `json:"jobTimeout"` // e.g. "5m"
}

// AnalysisJobSpec is the full configuration of one trip-analysis job:
// ingest a dataset, derive histogram columns, rank departure stations and
// resample the busiest ones into daily series.
type AnalysisJobSpec struct {
	Source      Source          `json:"source"`
	Histograms  []HistogramSpec `json:"histograms,omitempty"`
	Ranking     *RankingSpec    `json:"ranking,omitempty"`
	Resample    *ResampleSpec   `json:"resample,omitempty"`
	Export      *Export         `json:"export,omitempty"`
	Concurrency Concurrency     `json:"concurrency"`
}
