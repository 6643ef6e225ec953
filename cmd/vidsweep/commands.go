package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jdpx/vidsweep/internal/analysis"
	"github.com/jdpx/vidsweep/internal/collectors"
	"github.com/jdpx/vidsweep/internal/models"
	"github.com/jdpx/vidsweep/internal/scheduler"
	"github.com/jdpx/vidsweep/internal/server"
	"github.com/jdpx/vidsweep/internal/utils"
)

var (
	runMinDuration string
	runAspect      string
	runTolerance   float64
	runWorkers     int
	runDryRun      bool
	runYes         bool
)

var runCmd = &cobra.Command{
	Use:   "run <folder>",
	Short: "Scan a folder and trash videos matching the policy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, err := utils.ValidateFolder(args[0])
		if err != nil {
			return err
		}

		policy, err := cfg.DefaultPolicy()
		if err != nil {
			return err
		}
		minText := strconv.FormatFloat(policy.MinDurationSeconds, 'f', -1, 64)
		if cmd.Flags().Changed("min-duration") {
			minText = runMinDuration
		}
		aspectKey := policy.AspectRatio.String()
		if cmd.Flags().Changed("aspect") {
			aspectKey = runAspect
		}
		tolerance := policy.Tolerance
		if cmd.Flags().Changed("tolerance") {
			if runTolerance <= 0 {
				return &models.ValidationError{Field: "tolerance", Message: "must be positive"}
			}
			tolerance = runTolerance
		}
		policy, err = utils.ParsePolicy(minText, aspectKey)
		if err != nil {
			return err
		}
		policy = policy.WithTolerance(tolerance)

		if policy.DeletesEverything() {
			fmt.Fprintln(os.Stderr, "Warning: a minimum duration of 0 with aspect ratio All sends every readable video in the folder to trash.")
			if !runYes {
				return &models.ValidationError{Field: "policy", Message: "refusing to trash every video without --yes"}
			}
		}

		workers := cfg.Probe.Workers
		if cmd.Flags().Changed("workers") {
			workers = runWorkers
		}
		engine, err := newEngine(workers)
		if err != nil {
			return err
		}

		req := analysis.Request{
			Folder: folder,
			Policy: policy,
			DryRun: runDryRun,
			Progress: analysis.ProgressFunc(func(percent float64) {
				fmt.Fprintf(os.Stderr, "Progress: %5.1f%%\n", percent)
			}),
		}
		if !runDryRun {
			bin, err := openTrash()
			if err != nil {
				return err
			}
			req.Trash = bin
		}

		result, err := engine.Run(cmd.Context(), req)
		if result != nil {
			publish(cmd.Context(), result)
		}
		if err != nil {
			return err
		}

		if result.NoVideos {
			fmt.Println("No video files found in the selected folder.")
			return nil
		}
		if result.DryRun {
			fmt.Printf("Dry run complete. Would send %d file(s) to trash.\nFolder: %s\n", result.DeletedCount, result.FolderPath)
			return nil
		}
		fmt.Printf("Scan complete. Sent %d file(s) to trash.\nFolder: %s\n", result.DeletedCount, result.FolderPath)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list <folder>",
	Short: "List the video files a run would consider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, err := utils.ValidateFolder(args[0])
		if err != nil {
			return err
		}
		files, err := collectors.NewFilesystemCollector().ListVideoFiles(folder)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println("No video files found in the selected folder.")
			return nil
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe <file>...",
	Short: "Print duration and dimensions of video files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newProber()
		if err != nil {
			return err
		}
		for _, path := range args {
			meta, ok := p.Probe(cmd.Context(), path).Metadata()
			if !ok {
				fmt.Printf("%s: unreadable\n", path)
				continue
			}
			fmt.Printf("%s: duration=%.3fs width=%d height=%d\n", path, meta.Duration, meta.Width, meta.Height)
		}
		return cmd.Context().Err()
	},
}

var ratiosCmd = &cobra.Command{
	Use:   "ratios",
	Short: "List the accepted aspect-ratio keys",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, key := range models.AspectRatioKeys() {
			fmt.Println(key)
		}
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the configured cleanup jobs on their cron schedule",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := scheduler.JobsFromConfig(cfg)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			return &models.ValidationError{Field: "schedule.jobs", Message: "no jobs configured"}
		}

		engine, err := newEngine(cfg.Probe.Workers)
		if err != nil {
			return err
		}
		bin, err := openTrash()
		if err != nil {
			return err
		}

		s, err := scheduler.New(engine, bin, jobs, func(_ scheduler.Job, result *models.RunResult) {
			publish(cmd.Context(), result)
		})
		if err != nil {
			return err
		}
		s.Start()
		<-cmd.Context().Done()
		s.Stop()
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP front-end",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Server.Mode == "release" {
			gin.SetMode(gin.ReleaseMode)
		}

		defaults, err := cfg.DefaultPolicy()
		if err != nil {
			return err
		}
		engine, err := newEngine(cfg.Probe.Workers)
		if err != nil {
			return err
		}
		bin, err := openTrash()
		if err != nil {
			return err
		}

		srv := server.New(server.Options{
			Runner:   engine,
			Trash:    bin,
			Defaults: defaults,
			OnResult: func(result *models.RunResult) {
				publish(cmd.Context(), result)
			},
		})
		log.Info().Str("trash", bin.Dir()).Msg("trash bin ready")
		return srv.ListenAndServe(cmd.Context(), cfg.Server.Listen)
	},
}

func init() {
	runCmd.Flags().StringVar(&runMinDuration, "min-duration", "", "minimum duration in seconds; 0 ignores duration (default from config)")
	runCmd.Flags().StringVar(&runAspect, "aspect", "", "aspect ratio: All, 16:9, 4:3, 1:1, 21:9, 9:16 (default from config)")
	runCmd.Flags().Float64Var(&runTolerance, "tolerance", 0, "aspect-ratio tolerance (default from config)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 1, "files probed concurrently")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "report what would be trashed without moving anything")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "confirm trashing every video when min-duration is 0 and aspect is All")
}
