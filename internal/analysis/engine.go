package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jdpx/vidsweep/internal/collectors"
	"github.com/jdpx/vidsweep/internal/logging"
	"github.com/jdpx/vidsweep/internal/models"
	"github.com/jdpx/vidsweep/internal/probe"
	"github.com/jdpx/vidsweep/internal/trash"
)

// ProgressSink receives completion percentages in [0, 100]. Values arrive in
// strictly increasing order and the last one is exactly 100.
type ProgressSink interface {
	Progress(percent float64)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(percent float64)

func (f ProgressFunc) Progress(percent float64) { f(percent) }

// Request describes one cleanup run.
type Request struct {
	Folder   string
	Policy   models.CleanupPolicy
	Progress ProgressSink
	// Trash receives every file the policy selects. Ignored for dry runs.
	Trash  trash.Trasher
	DryRun bool
}

var ErrNoTrasher = errors.New("no trash capability configured")

// Engine drives Scanner -> Probe -> ShouldDelete -> Trash over a folder.
type Engine struct {
	collector collectors.Collector
	prober    probe.Prober
	workers   int
	log       zerolog.Logger
	now       func() time.Time
}

type EngineOption func(*Engine)

// WithWorkers sets how many files are evaluated concurrently. Values below 2
// keep processing sequential in listing order.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) { e.workers = n }
}

func NewEngine(collector collectors.Collector, prober probe.Prober, opts ...EngineOption) *Engine {
	e := &Engine{
		collector: collector,
		prober:    prober,
		workers:   1,
		log:       logging.WithComponent("engine"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run evaluates every eligible file of req.Folder once. Per-file problems
// (unreadable metadata, failed trash moves) are recorded in the result and
// never abort the run. An error is returned only when the folder cannot be
// listed or ctx is cancelled; in the latter case the partial result is
// returned alongside ctx.Err().
func (e *Engine) Run(ctx context.Context, req Request) (*models.RunResult, error) {
	trasher := req.Trash
	if req.DryRun {
		trasher = &trash.Recorder{}
	}
	if trasher == nil {
		return nil, ErrNoTrasher
	}

	start := e.now()
	result := &models.RunResult{
		RunID:      uuid.NewString(),
		FolderPath: req.Folder,
		DryRun:     req.DryRun,
		Policy:     req.Policy,
		StartedAt:  start,
	}
	log := e.log.With().Str("run_id", result.RunID).Logger()

	files, err := e.collector.ListVideoFiles(req.Folder)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	result.TotalFiles = len(files)
	if len(files) == 0 {
		result.NoVideos = true
		result.Duration = e.now().Sub(start)
		log.Info().Str("folder", req.Folder).Msg("no video files found")
		return result, nil
	}

	log.Info().
		Str("folder", req.Folder).
		Int("files", len(files)).
		Float64("min_duration", req.Policy.MinDurationSeconds).
		Stringer("aspect_ratio", req.Policy.AspectRatio).
		Bool("dry_run", req.DryRun).
		Msg("starting cleanup")

	r := &runner{
		engine:  e,
		policy:  req.Policy,
		trasher: trasher,
		dryRun:  req.DryRun,
		sink:    req.Progress,
		total:   len(files),
		log:     log,
	}

	var outcomes []models.FileOutcome
	if e.workers > 1 {
		outcomes = r.parallel(ctx, files, e.workers)
	} else {
		outcomes = r.sequential(ctx, files)
	}

	result.Outcomes = outcomes
	result.DeletedCount = result.Count(models.VerdictDeleted) + result.Count(models.VerdictWouldDelete)
	result.Duration = e.now().Sub(start)

	if err := ctx.Err(); err != nil {
		log.Warn().Int("evaluated", len(outcomes)).Msg("cleanup interrupted")
		return result, err
	}

	log.Info().
		Int("total", result.TotalFiles).
		Int("deleted", result.DeletedCount).
		Int("unreadable", result.Count(models.VerdictUnreadable)).
		Int("failed", result.Count(models.VerdictDeleteFailed)).
		Dur("took", result.Duration).
		Msg("cleanup complete")
	return result, nil
}

type runner struct {
	engine  *Engine
	policy  models.CleanupPolicy
	trasher trash.Trasher
	dryRun  bool
	sink    ProgressSink
	total   int
	log     zerolog.Logger

	mu   sync.Mutex
	done int
}

func (r *runner) sequential(ctx context.Context, files []string) []models.FileOutcome {
	outcomes := make([]models.FileOutcome, 0, len(files))
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		o, ok := r.evaluate(ctx, path)
		if !ok {
			break
		}
		outcomes = append(outcomes, o)
		r.advance()
	}
	return outcomes
}

// parallel evaluates files on a bounded pool. Each path is handed to exactly
// one worker. Outcomes keep listing order; unevaluated files are dropped.
func (r *runner) parallel(ctx context.Context, files []string, workers int) []models.FileOutcome {
	if workers > len(files) {
		workers = len(files)
	}

	slots := make([]*models.FileOutcome, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				o, ok := r.evaluate(ctx, files[i])
				if !ok {
					continue
				}
				slots[i] = &o
				r.advance()
			}
		}()
	}

feed:
	for i := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	outcomes := make([]models.FileOutcome, 0, len(files))
	for _, o := range slots {
		if o != nil {
			outcomes = append(outcomes, *o)
		}
	}
	return outcomes
}

// advance counts one finished file and reports progress.
func (r *runner) advance() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done++
	if r.sink != nil {
		r.sink.Progress(float64(r.done) / float64(r.total) * 100)
	}
}

// evaluate probes, judges and, when selected, trashes one file. ok is false
// when ctx was cancelled before a verdict could be trusted.
func (r *runner) evaluate(ctx context.Context, path string) (models.FileOutcome, bool) {
	res := r.engine.prober.Probe(ctx, path)
	if ctx.Err() != nil {
		return models.FileOutcome{}, false
	}

	meta, readable := res.Metadata()
	o := models.FileOutcome{Path: path, Readable: readable, Metadata: meta}

	if !readable {
		o.Verdict = models.VerdictUnreadable
		r.log.Debug().Str("path", path).Msg("preserving unreadable file")
		return o, true
	}

	if !ShouldDelete(res, r.policy) {
		o.Verdict = models.VerdictKept
		return o, true
	}

	target, err := trash.Normalize(path)
	if err == nil {
		err = r.trasher.MoveToTrash(target)
	}
	if err != nil {
		o.Verdict = models.VerdictDeleteFailed
		o.Error = err.Error()
		r.log.Warn().Err(err).Str("path", path).Msg("failed to move file to trash, skipping")
		return o, true
	}

	if r.dryRun {
		o.Verdict = models.VerdictWouldDelete
		r.log.Info().Str("path", target).Float64("duration", meta.Duration).Msg("would trash")
	} else {
		o.Verdict = models.VerdictDeleted
		r.log.Info().Str("path", target).Float64("duration", meta.Duration).Msg("moved to trash")
	}
	return o, true
}
