package reporting

import (
	"encoding/json"
	"time"

	"github.com/jdpx/vidsweep/internal/models"
)

// JSONReport is a script-friendly output format
type JSONReport struct {
	RunID       string          `json:"run_id"`
	GeneratedAt string          `json:"generated_at"`
	Duration    float64         `json:"duration_seconds"`
	Folder      string          `json:"folder"`
	DryRun      bool            `json:"dry_run"`
	NoVideos    bool            `json:"no_videos"`
	Policy      JSONPolicy      `json:"policy"`
	Summary     JSONSummary     `json:"summary"`
	Files       []JSONFileEntry `json:"files"`
}

type JSONPolicy struct {
	MinDurationSeconds float64 `json:"min_duration_seconds"`
	AspectRatio        string  `json:"aspect_ratio"`
	Tolerance          float64 `json:"tolerance"`
}

// JSONSummary provides high-level counts
type JSONSummary struct {
	TotalFiles      int `json:"total_files"`
	DeletedCount    int `json:"deleted_count"`
	KeptCount       int `json:"kept_count"`
	UnreadableCount int `json:"unreadable_count"`
	FailedCount     int `json:"failed_count"`
}

// JSONFileEntry represents a single file for script processing
type JSONFileEntry struct {
	Path     string  `json:"path"`
	Verdict  string  `json:"verdict"`
	Duration float64 `json:"duration_seconds,omitempty"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Error    string  `json:"error,omitempty"`
}

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (jf *JSONFormatter) Extension() string { return "json" }

func (jf *JSONFormatter) Format(result *models.RunResult) ([]byte, error) {
	report := JSONReport{
		RunID:       result.RunID,
		GeneratedAt: result.StartedAt.Format(time.RFC3339),
		Duration:    result.Duration.Seconds(),
		Folder:      result.FolderPath,
		DryRun:      result.DryRun,
		NoVideos:    result.NoVideos,
		Policy: JSONPolicy{
			MinDurationSeconds: result.Policy.MinDurationSeconds,
			AspectRatio:        result.Policy.AspectRatio.String(),
			Tolerance:          result.Policy.EffectiveTolerance(),
		},
		Summary: JSONSummary{
			TotalFiles:      result.TotalFiles,
			DeletedCount:    result.DeletedCount,
			KeptCount:       result.Count(models.VerdictKept),
			UnreadableCount: result.Count(models.VerdictUnreadable),
			FailedCount:     result.Count(models.VerdictDeleteFailed),
		},
		Files: make([]JSONFileEntry, 0, len(result.Outcomes)),
	}

	for _, o := range result.Outcomes {
		report.Files = append(report.Files, JSONFileEntry{
			Path:     o.Path,
			Verdict:  string(o.Verdict),
			Duration: o.Metadata.Duration,
			Width:    o.Metadata.Width,
			Height:   o.Metadata.Height,
			Error:    o.Error,
		})
	}

	return json.MarshalIndent(report, "", "  ")
}
