package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jdpx/vidsweep/internal/analysis"
	"github.com/jdpx/vidsweep/internal/collectors"
	"github.com/jdpx/vidsweep/internal/config"
	"github.com/jdpx/vidsweep/internal/logging"
	"github.com/jdpx/vidsweep/internal/models"
	"github.com/jdpx/vidsweep/internal/probe"
	"github.com/jdpx/vidsweep/internal/reporting"
	"github.com/jdpx/vidsweep/internal/trash"
)

var (
	cfgFile string
	verbose bool

	cfg       *config.Config
	logCloser io.Closer
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if logCloser != nil {
		_ = logCloser.Close()
	}
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "vidsweep",
	Short:         "vidsweep - trash short or oddly shaped videos",
	Long:          "Scans a folder for video files, probes them with ffprobe, and sends those matching a duration and aspect-ratio policy to the trash.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		closer, err := logging.Init(verbose || cfg.Log.Verbose, cfg.Log.File)
		if err != nil {
			return err
		}
		logCloser = closer
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (TOML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(ratiosCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(serveCmd)
}

func newProber() (*probe.FFProbe, error) {
	p := probe.New(
		probe.WithBinary(cfg.Probe.FFprobePath),
		probe.WithTimeout(time.Duration(cfg.Probe.TimeoutSeconds)*time.Second),
		probe.WithRateLimit(cfg.Probe.RatePerSecond),
	)
	if err := p.Available(); err != nil {
		return nil, err
	}
	return p, nil
}

func newEngine(workers int) (*analysis.Engine, error) {
	p, err := newProber()
	if err != nil {
		return nil, err
	}
	return analysis.NewEngine(collectors.NewFilesystemCollector(), p, analysis.WithWorkers(workers)), nil
}

func openTrash() (*trash.Bin, error) {
	dir, err := cfg.GetTrashDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve trash directory: %w", err)
	}
	return trash.NewBin(dir), nil
}

const publishTimeout = 30 * time.Second

// publish writes the run report and sends the notification. Failures are
// warnings; the run itself already happened. The notification gets its own
// deadline so an interrupted run is still announced.
func publish(parent context.Context, result *models.RunResult) string {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), publishTimeout)
	defer cancel()

	var reportPath string
	if f := reporting.NewFormatter(cfg.Outputs.Format); f != nil {
		path, err := reporting.WriteReport(f, result, cfg.GetReportPath())
		if err != nil {
			log.Warn().Err(err).Msg("failed to write report")
		} else {
			reportPath = path
			log.Info().Str("path", path).Msg("report written")
		}
	}

	notifier := reporting.NewDiscordNotifier(cfg.Notifications.DiscordWebhook)
	if err := notifier.Send(ctx, result, reportPath); err != nil {
		log.Warn().Err(err).Msg("failed to send notification")
	}
	return reportPath
}
