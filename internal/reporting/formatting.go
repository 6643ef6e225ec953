package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jdpx/vidsweep/internal/config"
	"github.com/jdpx/vidsweep/internal/models"
)

// Formatter renders a run into a report file body.
type Formatter interface {
	Format(result *models.RunResult) ([]byte, error)
	Extension() string
}

// NewFormatter returns the formatter for a config output format, or nil for "none".
func NewFormatter(format string) Formatter {
	switch format {
	case config.ReportJSON:
		return NewJSONFormatter()
	case config.ReportNone:
		return nil
	default:
		return NewMarkdownFormatter()
	}
}

// WriteReport renders result and writes it to a timestamped file in reportDir.
func WriteReport(f Formatter, result *models.RunResult, reportDir string) (string, error) {
	data, err := f.Format(result)
	if err != nil {
		return "", fmt.Errorf("failed to format report: %w", err)
	}

	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	timestamp := result.StartedAt.Format("2006-01-02-15-04-05")
	filename := filepath.Join(reportDir, fmt.Sprintf("cleanup-report-%s-%s.%s", timestamp, shortID(result.RunID), f.Extension()))

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return filename, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatSeconds(s float64) string {
	d := time.Duration(s * float64(time.Second)).Round(10 * time.Millisecond)
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", s)
	}
	return d.String()
}

func formatMinDuration(p models.CleanupPolicy) string {
	if !p.DurationConstrained() {
		return "ignored"
	}
	return fmt.Sprintf("shorter than %s", formatSeconds(p.MinDurationSeconds))
}

func formatResolution(m models.VideoMetadata) string {
	if m.Width <= 0 || m.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}
