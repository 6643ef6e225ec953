package models

import "time"

type Verdict string

const (
	VerdictKept         Verdict = "kept"
	VerdictDeleted      Verdict = "deleted"
	VerdictWouldDelete  Verdict = "would_delete"
	VerdictUnreadable   Verdict = "unreadable"
	VerdictDeleteFailed Verdict = "delete_failed"
)

// FileOutcome records what happened to one file during a run.
type FileOutcome struct {
	Path     string        `json:"path"`
	Readable bool          `json:"readable"`
	Metadata VideoMetadata `json:"metadata"`
	Verdict  Verdict       `json:"verdict"`
	Error    string        `json:"error,omitempty"`
}

// RunResult is produced once a run is finished and is not mutated afterwards.
type RunResult struct {
	RunID        string        `json:"run_id"`
	FolderPath   string        `json:"folder_path"`
	TotalFiles   int           `json:"total_files"`
	DeletedCount int           `json:"deleted_count"`
	NoVideos     bool          `json:"no_videos"`
	DryRun       bool          `json:"dry_run"`
	Policy       CleanupPolicy `json:"policy"`
	Outcomes     []FileOutcome `json:"outcomes"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration_ns"`
}

// Filter returns the outcomes carrying verdict v, in run order.
func (r *RunResult) Filter(v Verdict) []FileOutcome {
	var out []FileOutcome
	for _, o := range r.Outcomes {
		if o.Verdict == v {
			out = append(out, o)
		}
	}
	return out
}

// Count returns the number of outcomes carrying verdict v.
func (r *RunResult) Count(v Verdict) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Verdict == v {
			n++
		}
	}
	return n
}
