package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputManager organizes the per-job output directories where derived
// artifacts (histogram columns, station counts, daily series) are written.
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager rooted at baseOutputDir.
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{BaseOutputDir: baseOutputDir}
}

// JobDir creates (if needed) and returns the output directory for a job.
func (om *OutputManager) JobDir(jobID string) (string, error) {
	dir := filepath.Join(om.BaseOutputDir, jobID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create job output directory: %w", err)
	}
	return dir, nil
}

// ArtifactPath returns the full path for one artifact of a job, creating the
// job directory on the way. The file name is flattened to its base to keep
// everything inside the job directory.
func (om *OutputManager) ArtifactPath(jobID, fileName string) (string, error) {
	dir, err := om.JobDir(jobID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(fileName)), nil
}
