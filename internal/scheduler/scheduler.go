// Package scheduler runs cleanup jobs on cron expressions.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jdpx/vidsweep/internal/analysis"
	"github.com/jdpx/vidsweep/internal/config"
	"github.com/jdpx/vidsweep/internal/logging"
	"github.com/jdpx/vidsweep/internal/models"
	"github.com/jdpx/vidsweep/internal/trash"
	"github.com/jdpx/vidsweep/internal/utils"
)

// Runner executes one cleanup run. *analysis.Engine implements it.
type Runner interface {
	Run(ctx context.Context, req analysis.Request) (*models.RunResult, error)
}

type Job struct {
	Name   string
	Folder string
	Cron   string
	Policy models.CleanupPolicy
	DryRun bool
}

// ResultHandler is called after every finished run.
type ResultHandler func(job Job, result *models.RunResult)

type Scheduler struct {
	cron     *cron.Cron
	runner   Runner
	trasher  trash.Trasher
	onResult ResultHandler
	entries  map[string]cron.EntryID
	log      zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New validates every job's cron expression and registers it. A job whose
// previous run is still active skips its next tick.
func New(runner Runner, trasher trash.Trasher, jobs []Job, onResult ResultHandler) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		runner:   runner,
		trasher:  trasher,
		onResult: onResult,
		entries:  make(map[string]cron.EntryID),
		log:      logging.WithComponent("scheduler"),
		ctx:      ctx,
		cancel:   cancel,
	}

	for i, job := range jobs {
		if job.Name == "" {
			job.Name = fmt.Sprintf("job-%d", i+1)
		}
		if _, dup := s.entries[job.Name]; dup {
			cancel()
			return nil, fmt.Errorf("duplicate job name %q", job.Name)
		}
		if _, err := cron.ParseStandard(job.Cron); err != nil {
			cancel()
			return nil, fmt.Errorf("invalid cron expression for job %q: %w", job.Name, err)
		}

		j := job
		id, err := s.cron.AddFunc(j.Cron, func() { s.runJob(j) })
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to schedule job %q: %w", j.Name, err)
		}
		s.entries[j.Name] = id
	}

	return s, nil
}

// JobsFromConfig converts the configured jobs, filling in the shared cron expression.
func JobsFromConfig(cfg *config.Config) ([]Job, error) {
	jobs := make([]Job, 0, len(cfg.Schedule.Jobs))
	for i, jc := range cfg.Schedule.Jobs {
		p, err := jc.Policy()
		if err != nil {
			return nil, fmt.Errorf("schedule.jobs[%d]: %w", i, err)
		}
		expr := jc.Cron
		if expr == "" {
			expr = cfg.Schedule.Cron
		}
		jobs = append(jobs, Job{
			Name:   jc.Name,
			Folder: jc.Folder,
			Cron:   expr,
			Policy: p.WithTolerance(cfg.Policy.Tolerance),
			DryRun: jc.DryRun,
		})
	}
	return jobs, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.entries)).Msg("scheduler started")
}

// Stop cancels active runs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// Entries returns the registered job names and their cron entries.
func (s *Scheduler) Entries() map[string]cron.Entry {
	out := make(map[string]cron.Entry, len(s.entries))
	for name, id := range s.entries {
		out[name] = s.cron.Entry(id)
	}
	return out
}

func (s *Scheduler) runJob(job Job) {
	log := s.log.With().Str("job", job.Name).Logger()

	folder, err := utils.ValidateFolder(job.Folder)
	if err != nil {
		log.Error().Err(err).Msg("skipping scheduled run")
		return
	}

	result, err := s.runner.Run(s.ctx, analysis.Request{
		Folder: folder,
		Policy: job.Policy,
		Trash:  s.trasher,
		DryRun: job.DryRun,
	})
	if err != nil {
		log.Error().Err(err).Msg("scheduled run failed")
		if result == nil {
			return
		}
	}

	log.Info().
		Str("run_id", result.RunID).
		Int("total", result.TotalFiles).
		Int("deleted", result.DeletedCount).
		Msg("scheduled run finished")

	if s.onResult != nil {
		s.onResult(job, result)
	}
}
