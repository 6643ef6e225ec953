package reporting

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jdpx/vidsweep/internal/models"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Extension() string { return "md" }

func (mf *MarkdownFormatter) Format(result *models.RunResult) ([]byte, error) {
	var buf bytes.Buffer

	title := "# Video Cleanup Report"
	if result.DryRun {
		title += " (dry run)"
	}
	buf.WriteString(title + "\n\n")
	buf.WriteString(fmt.Sprintf("**Run**: `%s`\n\n", result.RunID))
	buf.WriteString(fmt.Sprintf("**Generated**: %s\n\n", result.StartedAt.Format("2006-01-02 15:04:05")))
	buf.WriteString(fmt.Sprintf("**Folder**: `%s`\n\n", escapeMarkdown(result.FolderPath)))
	buf.WriteString(fmt.Sprintf("**Duration**: %.1f seconds\n\n", result.Duration.Seconds()))

	buf.WriteString("## Policy\n\n")
	buf.WriteString(fmt.Sprintf("- Duration: %s\n", formatMinDuration(result.Policy)))
	buf.WriteString(fmt.Sprintf("- Aspect ratio: %s (tolerance %.3f)\n\n", result.Policy.AspectRatio, result.Policy.EffectiveTolerance()))

	if result.NoVideos {
		buf.WriteString("No video files found in the selected folder.\n")
		return buf.Bytes(), nil
	}

	deletedLabel, deletedVerdict := "Sent to trash", models.VerdictDeleted
	if result.DryRun {
		deletedLabel, deletedVerdict = "Would send to trash", models.VerdictWouldDelete
	}

	buf.WriteString("## Summary\n\n")
	buf.WriteString("| Category | Count | Status |\n")
	buf.WriteString("|----------|-------|--------|\n")
	buf.WriteString(fmt.Sprintf("| Videos scanned | %d | 🎞️ |\n", result.TotalFiles))
	buf.WriteString(fmt.Sprintf("| %s | %d | 🗑️ |\n", deletedLabel, result.DeletedCount))
	buf.WriteString(fmt.Sprintf("| Kept | %d | ✅ |\n", result.Count(models.VerdictKept)))
	buf.WriteString(fmt.Sprintf("| Unreadable (kept) | %d | ⚠️ |\n", result.Count(models.VerdictUnreadable)))
	buf.WriteString(fmt.Sprintf("| Trash failed (kept) | %d | ❌ |\n", result.Count(models.VerdictDeleteFailed)))
	buf.WriteString("\n")

	if deleted := result.Filter(deletedVerdict); len(deleted) > 0 {
		buf.WriteString("## " + deletedLabel + "\n\n")
		writeMetadataTable(&buf, deleted)
	}

	if failed := result.Filter(models.VerdictDeleteFailed); len(failed) > 0 {
		buf.WriteString("## Trash Failures\n\n")
		buf.WriteString("| File | Error |\n")
		buf.WriteString("|------|-------|\n")
		for _, o := range failed {
			buf.WriteString(fmt.Sprintf("| `%s` | %s |\n", escapeMarkdown(filepath.Base(o.Path)), escapeMarkdown(o.Error)))
		}
		buf.WriteString("\n")
	}

	if unreadable := result.Filter(models.VerdictUnreadable); len(unreadable) > 0 {
		buf.WriteString("## Unreadable Files\n\n")
		buf.WriteString("Metadata could not be read; these files were left in place:\n\n")
		for _, o := range unreadable {
			buf.WriteString(fmt.Sprintf("- `%s`\n", escapeMarkdown(filepath.Base(o.Path))))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

func writeMetadataTable(buf *bytes.Buffer, outcomes []models.FileOutcome) {
	buf.WriteString("| File | Length | Resolution |\n")
	buf.WriteString("|------|--------|------------|\n")
	for _, o := range outcomes {
		buf.WriteString(fmt.Sprintf("| `%s` | %s | %s |\n",
			escapeMarkdown(filepath.Base(o.Path)),
			formatSeconds(o.Metadata.Duration),
			formatResolution(o.Metadata)))
	}
	buf.WriteString("\n")
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "`", "\\`")
	return s
}
