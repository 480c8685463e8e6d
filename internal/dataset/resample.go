package dataset

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// DateCount is one daily bucket of a series.
type DateCount struct {
	Date  time.Time `json:"date"` // midnight UTC
	Count int       `json:"count"`
}

// TimeBucketSeries is the dense daily event count for one entity: one bucket
// per calendar day from the entity's earliest to its latest event, with
// explicit zeros for days without events.
type TimeBucketSeries struct {
	Entity  string      `json:"entity"`
	Buckets []DateCount `json:"buckets"`
}

// Total returns the sum of all bucket counts.
func (s TimeBucketSeries) Total() int {
	n := 0
	for _, b := range s.Buckets {
		n += b.Count
	}
	return n
}

// ResampleDaily buckets each entity's events into calendar days.
//
// For every entity in topEntities it selects the rows whose entityColumn
// equals the entity, truncates timeColumn to the calendar day, counts rows
// per day and zero-fills every day between the entity's minimum and maximum
// date so the series is dense. Entities with no rows produce no series.
//
// A timestamp that cannot be parsed aborts only that entity: the entity is
// dropped from the series map and recorded in the returned error map, and
// the remaining entities are still processed. A missing column is fatal to
// the whole call.
func ResampleDaily(d *Dataset, timeColumn, entityColumn string, topEntities []string) (map[string]TimeBucketSeries, map[string]error, error) {
	tf, ok := d.schema.Field(timeColumn)
	if !ok {
		return nil, nil, &SchemaError{Column: timeColumn, Reason: "column not in schema"}
	}
	if tf.Type != Time && tf.Type != String {
		return nil, nil, &SchemaError{Column: timeColumn, Reason: "resample requires a time or string column, have " + tf.Type.String()}
	}
	if !d.schema.Has(entityColumn) {
		return nil, nil, &SchemaError{Column: entityColumn, Reason: "column not in schema"}
	}

	// One pass to split rows by entity; per-entity work stays independent.
	wanted := make(map[string]bool, len(topEntities))
	for _, e := range topEntities {
		wanted[e] = true
	}
	byEntity := make(map[string][]Row, len(topEntities))
	for _, r := range d.rows {
		key := keyString(r[entityColumn])
		if wanted[key] {
			byEntity[key] = append(byEntity[key], r)
		}
	}

	series := make(map[string]TimeBucketSeries, len(topEntities))
	failed := make(map[string]error)
	for _, entity := range topEntities {
		rows := byEntity[entity]
		if len(rows) == 0 {
			continue
		}
		s, err := bucketDaily(entity, rows, timeColumn)
		if err != nil {
			failed[entity] = err
			continue
		}
		series[entity] = s
	}
	return series, failed, nil
}

func bucketDaily(entity string, rows []Row, timeColumn string) (TimeBucketSeries, error) {
	counts := make(map[time.Time]int, len(rows))
	var min, max time.Time
	for _, r := range rows {
		t, err := toTime(r[timeColumn], timeColumn)
		if err != nil {
			return TimeBucketSeries{}, err
		}
		dd := day(t)
		if counts[dd] == 0 {
			if min.IsZero() || dd.Before(min) {
				min = dd
			}
			if max.IsZero() || dd.After(max) {
				max = dd
			}
		}
		counts[dd]++
	}

	buckets := make([]DateCount, 0, int(max.Sub(min).Hours()/24)+1)
	for dd := min; !dd.After(max); dd = dd.AddDate(0, 0, 1) {
		buckets = append(buckets, DateCount{Date: dd, Count: counts[dd]})
	}
	return TimeBucketSeries{Entity: entity, Buckets: buckets}, nil
}

func toTime(v any, column string) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		parsed, err := dateparse.ParseAny(t)
		if err != nil {
			return time.Time{}, &ParseError{Column: column, Value: t, Err: err}
		}
		return parsed, nil
	default:
		return time.Time{}, &ParseError{Column: column, Value: fmt.Sprint(v), Err: fmt.Errorf("unsupported type %T", v)}
	}
}
