package model

// JobStatus is a status label reported by the processing backend.
type JobStatus string

const (
	JobStatusPending           JobStatus = "pending"
	JobStatusProcessing        JobStatus = "processing"
	JobStatusAnalyzing         JobStatus = "analyzing"
	JobStatusDownloadingAssets JobStatus = "downloading_assets"
	JobStatusAssembling        JobStatus = "assembling"
	JobStatusCompleted         JobStatus = "completed"
	JobStatusFailed            JobStatus = "failed"
)

// IsTerminal reports whether no further status transition can occur.
// Any label outside the terminal set counts as still working, so new
// intermediate statuses introduced by the backend keep a poller waiting
// instead of failing it.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job is one snapshot of a processing job as reported by the backend.
// The backend owns the job; this client only reads snapshots via polling.
type Job struct {
	JobID       string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	PublicURL   string    `json:"public_url,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	ErrorDetail string    `json:"error_detail,omitempty"`
}

// StatusUpdate is delivered to the caller on every non-terminal poll tick.
type StatusUpdate struct {
	JobID  string    `json:"jobId"`
	Status JobStatus `json:"status"`
}
