package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-trip-pipeline/internal/model"
	"go-trip-pipeline/internal/pipeline"
	"go-trip-pipeline/internal/store"
	"go-trip-pipeline/pkg/logging"
	"go-trip-pipeline/pkg/utils"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// jobIDFromPath extracts the job ID from /api/v1/jobs/{id}[/suffix].
func jobIDFromPath(path, suffix string) string {
	rest := strings.TrimPrefix(path, "/api/v1/jobs/")
	rest = strings.TrimSuffix(rest, suffix)
	return strings.Trim(rest, "/")
}

// CreateJob creates and starts a new trip-analysis job
// @Summary Create a new analysis job
// @Description Create and asynchronously run a trip-analysis job from the provided spec
// @Tags jobs
// @Accept json
// @Produce json
// @Param job body model.AnalysisJobSpec true "Analysis job spec"
// @Success 200 {object} map[string]interface{} "Job created"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /jobs [post]
func CreateJob(w http.ResponseWriter, r *http.Request) {
	var job model.AnalysisJobSpec
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := pipeline.ValidateSpec(job); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	jobID := uuid.New().String()
	if err := store.SaveJob(jobID, job); err != nil {
		http.Error(w, "Failed to save job", http.StatusInternalServerError)
		return
	}

	log := logging.FromContext(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), utils.ParseDuration(job.Concurrency.JobTimeout))
	ctx = logging.WithLogger(ctx, log)

	go func() {
		defer cancel()
		if err := pipeline.Run(ctx, jobID, job); err != nil {
			store.SaveJobError(jobID, "pipeline", err)
		}
	}()

	writeJSON(w, http.StatusOK, map[string]any{
		"jobID":     jobID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	})
}

// ListJobs retrieves all analysis jobs
// @Summary List jobs
// @Description Get all analysis jobs with their current status
// @Tags jobs
// @Produce json
// @Success 200 {array} map[string]interface{} "List of jobs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /jobs [get]
func ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := store.ListJobs()
	if err != nil {
		http.Error(w, "Failed to fetch jobs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// GetJob retrieves one analysis job
// @Summary Get job
// @Description Retrieve spec and status of one analysis job
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{} "Job details"
// @Failure 404 {object} map[string]interface{} "Job not found"
// @Router /jobs/{id} [get]
func GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := jobIDFromPath(r.URL.Path, "")
	job, err := store.GetJob(jobID)
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// GetJobErrors retrieves the errors recorded for a job
// @Summary Get job errors
// @Description List the errors recorded while running a job, including per-entity resample failures
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {array} map[string]interface{} "Job errors"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /jobs/{id}/errors [get]
func GetJobErrors(w http.ResponseWriter, r *http.Request) {
	jobID := jobIDFromPath(r.URL.Path, "/errors")
	errs, err := store.ListJobErrors(jobID)
	if err != nil {
		http.Error(w, "Failed to fetch job errors", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, errs)
}

// GetJobLogs retrieves the stage logs recorded for a job
// @Summary Get job logs
// @Description List the per-stage log lines recorded while running a job
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {array} map[string]interface{} "Job logs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /jobs/{id}/logs [get]
func GetJobLogs(w http.ResponseWriter, r *http.Request) {
	jobID := jobIDFromPath(r.URL.Path, "/logs")
	logs, err := store.ListJobLogs(jobID)
	if err != nil {
		http.Error(w, "Failed to fetch job logs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// GetJobResults retrieves the persisted results of a job
// @Summary Get job results
// @Description Return the ranked station counts and daily series produced by a job
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{} "Job results"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /jobs/{id}/results [get]
func GetJobResults(w http.ResponseWriter, r *http.Request) {
	jobID := jobIDFromPath(r.URL.Path, "/results")

	counts, err := store.GetStationCounts(jobID)
	if err != nil {
		http.Error(w, "Failed to fetch station counts", http.StatusInternalServerError)
		return
	}
	series, err := store.GetDailySeries(jobID)
	if err != nil {
		http.Error(w, "Failed to fetch daily series", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stationCounts": counts,
		"dailySeries":   series,
	})
}
