package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/jdpx/vidsweep/internal/models"
	"github.com/jdpx/vidsweep/internal/trash"
	"github.com/jdpx/vidsweep/internal/utils"
)

const (
	defaultMinDuration = 10.0
	defaultAspectRatio = "16:9"
	defaultListen      = "127.0.0.1:8088"
)

// Load reads the TOML file at path. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Probe.FFprobePath == "" {
		c.Probe.FFprobePath = "ffprobe"
	}

	if c.Probe.Workers == 0 {
		c.Probe.Workers = 1
	}

	if c.Policy.MinDurationSeconds == nil {
		d := defaultMinDuration
		c.Policy.MinDurationSeconds = &d
	}

	if c.Policy.AspectRatio == "" {
		c.Policy.AspectRatio = defaultAspectRatio
	}

	if c.Policy.Tolerance == 0 {
		c.Policy.Tolerance = models.DefaultAspectTolerance
	}

	if c.Outputs.ReportDir == "" {
		c.Outputs.ReportDir = DefaultReportDir()
	}

	if c.Outputs.Format == "" {
		c.Outputs.Format = ReportMarkdown
	}

	if c.Server.Listen == "" {
		c.Server.Listen = defaultListen
	}

	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}

	c.Trash.Dir = utils.ExpandPath(c.Trash.Dir)
	c.Log.File = utils.ExpandPath(c.Log.File)
	for i := range c.Schedule.Jobs {
		c.Schedule.Jobs[i].Folder = utils.ExpandPath(c.Schedule.Jobs[i].Folder)
	}
}

// GetReportPath returns the report directory with ~ and $HOME expanded.
func (c *Config) GetReportPath() string {
	reportDir := c.Outputs.ReportDir
	if reportDir == "" {
		reportDir = DefaultReportDir()
	}
	return utils.ExpandPath(reportDir)
}

// GetTrashDir returns the configured trash directory, or the home trash.
func (c *Config) GetTrashDir() (string, error) {
	if c.Trash.Dir != "" {
		return c.Trash.Dir, nil
	}
	return trash.DefaultDir()
}
