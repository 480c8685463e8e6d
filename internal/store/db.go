package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"go-trip-pipeline/internal/dataset"
	"go-trip-pipeline/internal/model"
)

var db *sql.DB

// InitDB opens the sqlite database and creates the schema if needed.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	tables := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			spec TEXT,
			status TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS job_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT,
			stage TEXT,
			error_message TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS job_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT,
			stage TEXT,
			level TEXT,
			message TEXT,
			fields TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS station_counts (
			job_id TEXT,
			rank INTEGER,
			station TEXT,
			count INTEGER,
			PRIMARY KEY (job_id, rank)
		);`,
		`CREATE TABLE IF NOT EXISTS daily_counts (
			job_id TEXT,
			station TEXT,
			day DATE,
			count INTEGER,
			PRIMARY KEY (job_id, station, day)
		);`,
	}
	for _, t := range tables {
		if _, err := db.Exec(t); err != nil {
			return err
		}
	}
	return nil
}

// SaveJob stores a new analysis job.
func SaveJob(jobID string, spec model.AnalysisJobSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO jobs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		jobID, specJSON, "pending", now, now)
	return err
}

// UpdateJobStatus updates a job's status.
func UpdateJobStatus(jobID string, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?`, status, now, jobID)
	return err
}

// SaveJobError records an error for a job, tagged with the stage it came from.
func SaveJobError(jobID, stage string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO job_errors (job_id, stage, error_message, created_at) VALUES (?, ?, ?, ?)`,
		jobID, stage, err.Error(), now)
	return e
}

// SaveJobLog records one structured log line for a job stage.
func SaveJobLog(jobID, stage, level, message string, fields map[string]any) error {
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		fieldsJSON = []byte("{}")
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO job_logs (job_id, stage, level, message, fields, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		jobID, stage, level, message, fieldsJSON, now)
	return e
}

// ListJobs returns all jobs with basic info, newest first.
func ListJobs() ([]map[string]any, error) {
	rows, err := db.Query(`SELECT id, status, created_at, updated_at FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []map[string]any
	for rows.Next() {
		var id, status string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, map[string]any{
			"id":        id,
			"status":    status,
			"createdAt": createdAt,
			"updatedAt": updatedAt,
		})
	}
	return jobs, rows.Err()
}

// GetJob fetches full job spec and status.
func GetJob(jobID string) (map[string]any, error) {
	var specJSON string
	var status string
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT spec, status, created_at, updated_at FROM jobs WHERE id = ?`, jobID).
		Scan(&specJSON, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var spec model.AnalysisJobSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}

	return map[string]any{
		"id":        jobID,
		"spec":      spec,
		"status":    status,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}, nil
}

// ListJobErrors returns all recorded errors for a job.
func ListJobErrors(jobID string) ([]map[string]any, error) {
	rows, err := db.Query(`SELECT stage, error_message, created_at FROM job_errors WHERE job_id = ? ORDER BY created_at`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []map[string]any
	for rows.Next() {
		var stage, message string
		var createdAt time.Time
		if err := rows.Scan(&stage, &message, &createdAt); err != nil {
			return nil, err
		}
		errs = append(errs, map[string]any{
			"stage":     stage,
			"error":     message,
			"createdAt": createdAt,
		})
	}
	return errs, rows.Err()
}

// ListJobLogs returns the stage logs recorded for a job.
func ListJobLogs(jobID string) ([]map[string]any, error) {
	rows, err := db.Query(`SELECT stage, level, message, fields, created_at FROM job_logs WHERE job_id = ? ORDER BY created_at`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []map[string]any
	for rows.Next() {
		var stage, level, message, fieldsJSON string
		var createdAt time.Time
		if err := rows.Scan(&stage, &level, &message, &fieldsJSON, &createdAt); err != nil {
			return nil, err
		}
		fields := map[string]any{}
		_ = json.Unmarshal([]byte(fieldsJSON), &fields)
		logs = append(logs, map[string]any{
			"stage":     stage,
			"level":     level,
			"message":   message,
			"fields":    fields,
			"createdAt": createdAt,
		})
	}
	return logs, rows.Err()
}

// SaveStationCounts persists the ranked station counts of a job.
func SaveStationCounts(jobID string, counts []dataset.GroupCount) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	for rank, gc := range counts {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO station_counts (job_id, rank, station, count) VALUES (?, ?, ?, ?)`,
			jobID, rank+1, gc.Key, gc.Count); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// SaveDailySeries persists the per-station daily bucket counts of a job.
func SaveDailySeries(jobID string, series map[string]dataset.TimeBucketSeries) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	for _, s := range series {
		for _, b := range s.Buckets {
			if _, err := tx.Exec(`INSERT OR REPLACE INTO daily_counts (job_id, station, day, count) VALUES (?, ?, ?, ?)`,
				jobID, s.Entity, b.Date.Format("2006-01-02"), b.Count); err != nil {
				tx.Rollback()
				return err
			}
		}
	}
	return tx.Commit()
}

// GetStationCounts returns the persisted ranking for a job, rank order.
func GetStationCounts(jobID string) ([]dataset.GroupCount, error) {
	rows, err := db.Query(`SELECT station, count FROM station_counts WHERE job_id = ? ORDER BY rank`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []dataset.GroupCount
	for rows.Next() {
		var gc dataset.GroupCount
		if err := rows.Scan(&gc.Key, &gc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, gc)
	}
	return counts, rows.Err()
}

// GetDailySeries returns the persisted daily series for a job, keyed by station.
func GetDailySeries(jobID string) (map[string]dataset.TimeBucketSeries, error) {
	rows, err := db.Query(`SELECT station, day, count FROM daily_counts WHERE job_id = ? ORDER BY station, day`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series := make(map[string]dataset.TimeBucketSeries)
	for rows.Next() {
		var station, dayStr string
		var count int
		if err := rows.Scan(&station, &dayStr, &count); err != nil {
			return nil, err
		}
		d, err := time.Parse("2006-01-02", dayStr)
		if err != nil {
			return nil, err
		}
		s := series[station]
		s.Entity = station
		s.Buckets = append(s.Buckets, dataset.DateCount{Date: d, Count: count})
		series[station] = s
	}
	return series, rows.Err()
}
