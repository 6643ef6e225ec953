package config

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/robfig/cron/v3"

	"github.com/jdpx/vidsweep/internal/models"
	"github.com/jdpx/vidsweep/internal/utils"
)

type Config struct {
	Probe         ProbeConfig        `toml:"probe"`
	Policy        PolicyConfig       `toml:"policy"`
	Trash         TrashConfig        `toml:"trash"`
	Outputs       OutputConfig       `toml:"outputs"`
	Notifications NotificationConfig `toml:"notifications"`
	Schedule      ScheduleConfig     `toml:"schedule"`
	Server        ServerConfig       `toml:"server"`
	Log           LogConfig          `toml:"log"`
}

type ProbeConfig struct {
	FFprobePath    string  `toml:"ffprobe_path"`
	Workers        int     `toml:"workers"`
	RatePerSecond  float64 `toml:"rate_per_second"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

type PolicyConfig struct {
	MinDurationSeconds *float64 `toml:"min_duration_seconds"`
	AspectRatio        string   `toml:"aspect_ratio"`
	Tolerance          float64  `toml:"tolerance"`
}

type TrashConfig struct {
	Dir string `toml:"dir"`
}

type OutputConfig struct {
	ReportDir string `toml:"report_dir"`
	Format    string `toml:"format"`
}

type NotificationConfig struct {
	DiscordWebhook string `toml:"discord_webhook"`
}

type ScheduleConfig struct {
	Cron string      `toml:"cron"`
	Jobs []JobConfig `toml:"jobs"`
}

type JobConfig struct {
	Name               string  `toml:"name"`
	Folder             string  `toml:"folder"`
	MinDurationSeconds float64 `toml:"min_duration_seconds"`
	AspectRatio        string  `toml:"aspect_ratio"`
	Cron               string  `toml:"cron"`
	DryRun             bool    `toml:"dry_run"`
	AllowAll           bool    `toml:"allow_all"`
}

type ServerConfig struct {
	Listen string `toml:"listen"`
	Mode   string `toml:"mode"`
}

type LogConfig struct {
	Verbose bool   `toml:"verbose"`
	File    string `toml:"file"`
}

const (
	ReportMarkdown = "markdown"
	ReportJSON     = "json"
	ReportNone     = "none"
)

func (c *Config) Validate() error {
	if c.Probe.Workers < 1 {
		return invalid("probe.workers", "must be at least 1")
	}
	if c.Probe.RatePerSecond < 0 || math.IsNaN(c.Probe.RatePerSecond) {
		return invalid("probe.rate_per_second", "must not be negative")
	}
	if c.Probe.TimeoutSeconds < 0 {
		return invalid("probe.timeout_seconds", "must not be negative")
	}

	if _, err := c.DefaultPolicy(); err != nil {
		return err
	}

	switch c.Outputs.Format {
	case ReportMarkdown, ReportJSON, ReportNone:
	default:
		return invalid("outputs.format", "must be one of markdown, json, none")
	}

	if c.Notifications.DiscordWebhook != "" {
		if err := validateURL(c.Notifications.DiscordWebhook, "notifications.discord_webhook"); err != nil {
			return err
		}
	}

	if c.Schedule.Cron != "" {
		if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
			return invalid("schedule.cron", err.Error())
		}
	}
	for i, job := range c.Schedule.Jobs {
		if err := c.validateJob(i, job); err != nil {
			return err
		}
	}

	switch c.Server.Mode {
	case "debug", "release":
	default:
		return invalid("server.mode", "must be debug or release")
	}

	return nil
}

func (c *Config) validateJob(i int, job JobConfig) error {
	field := fmt.Sprintf("schedule.jobs[%d]", i)
	if job.Folder == "" {
		return invalid(field+".folder", "is required")
	}
	expr := job.Cron
	if expr == "" {
		expr = c.Schedule.Cron
	}
	if expr == "" {
		return invalid(field, "has no cron expression and schedule.cron is empty")
	}
	if _, err := cron.ParseStandard(expr); err != nil {
		return invalid(field+".cron", err.Error())
	}
	p, err := job.Policy()
	if err != nil {
		return invalid(field, err.Error())
	}
	if p.DeletesEverything() && !job.AllowAll {
		return invalid(field, "would trash every video; set allow_all = true to permit it")
	}
	return nil
}

// DefaultPolicy builds the policy used when the caller does not override it.
func (c *Config) DefaultPolicy() (models.CleanupPolicy, error) {
	minDuration := 0.0
	if c.Policy.MinDurationSeconds != nil {
		minDuration = *c.Policy.MinDurationSeconds
	}
	aspect, err := models.ParseAspectRatio(c.Policy.AspectRatio)
	if err != nil {
		return models.CleanupPolicy{}, invalid("policy.aspect_ratio", validationMessage(err))
	}
	p, err := models.NewCleanupPolicy(minDuration, aspect)
	if err != nil {
		return models.CleanupPolicy{}, invalid("policy.min_duration_seconds", validationMessage(err))
	}
	if c.Policy.Tolerance < 0 {
		return models.CleanupPolicy{}, invalid("policy.tolerance", "must not be negative")
	}
	return p.WithTolerance(c.Policy.Tolerance), nil
}

// Policy builds the cleanup policy of a scheduled job.
func (j JobConfig) Policy() (models.CleanupPolicy, error) {
	key := j.AspectRatio
	if key == "" {
		key = models.AspectAll.String()
	}
	aspect, err := models.ParseAspectRatio(key)
	if err != nil {
		return models.CleanupPolicy{}, err
	}
	return models.NewCleanupPolicy(j.MinDurationSeconds, aspect)
}

func invalid(field, message string) error {
	return &models.ValidationError{Field: field, Message: message}
}

// validationMessage drops the inner field name so the config key replaces it.
func validationMessage(err error) string {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}

func validateURL(u, field string) error {
	if err := utils.ValidateURL(u); err != nil {
		return invalid(field, err.Error())
	}
	return nil
}

func DefaultReportDir() string {
	switch runtime.GOOS {
	case "darwin":
		return "$HOME/Library/Application Support/vidsweep/reports"
	case "linux":
		return "$HOME/.local/state/vidsweep/reports"
	default:
		return "./reports"
	}
}
