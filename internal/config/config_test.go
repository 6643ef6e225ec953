package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jdpx/vidsweep/internal/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Probe.FFprobePath != "ffprobe" || cfg.Probe.Workers != 1 {
		t.Errorf("probe defaults = %+v", cfg.Probe)
	}
	if cfg.Outputs.Format != ReportMarkdown || cfg.Server.Listen != defaultListen || cfg.Server.Mode != "release" {
		t.Errorf("defaults = %+v / %+v", cfg.Outputs, cfg.Server)
	}

	p, err := cfg.DefaultPolicy()
	if err != nil {
		t.Fatal(err)
	}
	if p.MinDurationSeconds != 10 || p.AspectRatio != models.Aspect16x9 || p.Tolerance != 0.01 {
		t.Errorf("default policy = %+v", p)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[probe]
ffprobe_path = "/opt/ffmpeg/bin/ffprobe"
workers = 4
rate_per_second = 20
timeout_seconds = 30

[policy]
min_duration_seconds = 0
aspect_ratio = "9:16"
tolerance = 0.02

[trash]
dir = "/srv/trash"

[outputs]
report_dir = "/tmp/vidsweep-reports"
format = "json"

[notifications]
discord_webhook = "https://discord.com/api/webhooks/1/token"

[schedule]
cron = "0 3 * * *"

[[schedule.jobs]]
name = "phone"
folder = "/data/phone"
min_duration_seconds = 3
aspect_ratio = "9:16"

[[schedule.jobs]]
name = "wipe-scratch"
folder = "/data/scratch"
cron = "*/30 * * * *"
allow_all = true

[server]
listen = ":9000"
mode = "debug"

[log]
verbose = true
file = "/var/log/vidsweep.log"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Probe.Workers != 4 || cfg.Probe.RatePerSecond != 20 || cfg.Probe.TimeoutSeconds != 30 {
		t.Errorf("probe = %+v", cfg.Probe)
	}
	p, err := cfg.DefaultPolicy()
	if err != nil {
		t.Fatal(err)
	}
	if p.MinDurationSeconds != 0 || p.AspectRatio != models.Aspect9x16 || p.Tolerance != 0.02 {
		t.Errorf("policy = %+v", p)
	}
	if dir, _ := cfg.GetTrashDir(); dir != "/srv/trash" {
		t.Errorf("trash dir = %q", dir)
	}
	if len(cfg.Schedule.Jobs) != 2 || cfg.Schedule.Jobs[1].Cron != "*/30 * * * *" {
		t.Errorf("jobs = %+v", cfg.Schedule.Jobs)
	}
	if !cfg.Log.Verbose || cfg.Server.Listen != ":9000" {
		t.Errorf("log/server = %+v / %+v", cfg.Log, cfg.Server)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad toml", `[probe`, "parse"},
		{"negative workers", "[probe]\nworkers = -2", "workers"},
		{"negative rate", "[probe]\nrate_per_second = -1", "rate_per_second"},
		{"unknown aspect", "[policy]\naspect_ratio = \"3:2\"", "aspect_ratio"},
		{"negative duration", "[policy]\nmin_duration_seconds = -4", "min_duration"},
		{"negative tolerance", "[policy]\ntolerance = -0.5", "tolerance"},
		{"report format", "[outputs]\nformat = \"pdf\"", "outputs.format"},
		{"webhook scheme", "[notifications]\ndiscord_webhook = \"ftp://x\"", "discord_webhook"},
		{"cron", "[schedule]\ncron = \"every day\"", "schedule.cron"},
		{"job without folder", "[schedule]\ncron = \"@daily\"\n[[schedule.jobs]]\nname = \"x\"", "folder"},
		{"job without cron", "[[schedule.jobs]]\nfolder = \"/x\"\nmin_duration_seconds = 5", "no cron"},
		{"job delete-all", "[schedule]\ncron = \"@daily\"\n[[schedule.jobs]]\nfolder = \"/x\"", "allow_all"},
		{"server mode", "[server]\nmode = \"prod\"", "server.mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
			var verr *models.ValidationError
			if isValidation := errors.As(err, &verr); isValidation == (tt.name == "bad toml") {
				t.Errorf("errors.As ValidationError = %v for %v", isValidation, err)
			}
		})
	}
}

func TestJobPolicyDefaultsToAll(t *testing.T) {
	p, err := JobConfig{Folder: "/x", MinDurationSeconds: 4}.Policy()
	if err != nil {
		t.Fatal(err)
	}
	if p.AspectRatio != models.AspectAll || p.MinDurationSeconds != 4 {
		t.Errorf("policy = %+v", p)
	}
}

func TestGetReportPath_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg := Default()
	cfg.Outputs.ReportDir = "~/reports"
	if got := cfg.GetReportPath(); got != filepath.Join(home, "reports") {
		t.Errorf("GetReportPath = %q", got)
	}
}
