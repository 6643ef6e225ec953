package reporting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jdpx/vidsweep/internal/models"
)

const (
	colorOK      = 0x3498db
	colorWarning = 0xffff00
	colorFailure = 0xe74c3c
)

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type embed struct {
	Title  string       `json:"title"`
	Color  int          `json:"color"`
	Fields []embedField `json:"fields"`
	Footer embedFooter  `json:"footer"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

// DiscordNotifier posts run summaries to a Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

func NewDiscordNotifier(webhookURL string) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Send posts a run summary to the webhook. It is a no-op without a URL.
func (dn *DiscordNotifier) Send(ctx context.Context, result *models.RunResult, reportPath string) error {
	if dn.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(summaryPayload(result, reportPath))
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dn.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := dn.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	default:
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
}

func summaryPayload(result *models.RunResult, reportPath string) webhookPayload {
	failed := result.Count(models.VerdictDeleteFailed)
	unreadable := result.Count(models.VerdictUnreadable)

	color := colorOK
	switch {
	case failed > 0:
		color = colorFailure
	case unreadable > 0:
		color = colorWarning
	}

	summary := "No video files found in the selected folder."
	if !result.NoVideos {
		verb := "sent to trash"
		if result.DryRun {
			verb = "would be sent to trash"
		}
		summary = fmt.Sprintf("🎞️ %d video(s) scanned\n🗑️ %d %s\n⚠️ %d unreadable (kept)\n❌ %d trash failure(s)",
			result.TotalFiles, result.DeletedCount, verb, unreadable, failed)
	}

	fields := []embedField{
		{Name: "Folder", Value: result.FolderPath},
		{Name: "Summary", Value: summary},
	}
	if reportPath != "" {
		fields = append(fields, embedField{Name: "Report Location", Value: reportPath})
	}

	return webhookPayload{Embeds: []embed{{
		Title:  "Video Cleanup Complete",
		Color:  color,
		Fields: fields,
		Footer: embedFooter{Text: fmt.Sprintf("Run %s · %.1fs", shortID(result.RunID), result.Duration.Seconds())},
	}}}
}
