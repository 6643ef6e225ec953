package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jdpx/vidsweep/internal/logging"
	"github.com/jdpx/vidsweep/internal/models"
)

// Prober extracts video metadata from a file. It never fails: anything that
// goes wrong is reported as an absent result.
type Prober interface {
	Probe(ctx context.Context, path string) models.MetadataResult
}

// FFProbe runs one ffprobe process per call.
type FFProbe struct {
	binary  string
	timeout time.Duration
	limiter *rate.Limiter
	log     zerolog.Logger
}

type Option func(*FFProbe)

// WithBinary sets the ffprobe executable (name on PATH or absolute path).
func WithBinary(path string) Option {
	return func(p *FFProbe) {
		if path != "" {
			p.binary = path
		}
	}
}

// WithTimeout bounds each ffprobe invocation. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *FFProbe) { p.timeout = d }
}

// WithRateLimit caps how many ffprobe processes start per second.
// Zero or negative disables the limit.
func WithRateLimit(perSecond float64) Option {
	return func(p *FFProbe) {
		if perSecond <= 0 {
			p.limiter = nil
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func New(opts ...Option) *FFProbe {
	p := &FFProbe{
		binary: "ffprobe",
		log:    logging.WithComponent("probe"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Available checks that the ffprobe binary can be found.
func (p *FFProbe) Available() error {
	if _, err := exec.LookPath(p.binary); err != nil {
		return fmt.Errorf("ffprobe not found (%s): %w", p.binary, err)
	}
	return nil
}

func (p *FFProbe) Probe(ctx context.Context, path string) models.MetadataResult {
	meta, err := p.run(ctx, path)
	if err != nil {
		p.log.Debug().Err(err).Str("path", path).Msg("metadata unreadable")
		return models.Absent()
	}
	return models.Present(meta)
}

func (p *FFProbe) run(ctx context.Context, path string) (models.VideoMetadata, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return models.VideoMetadata{}, fmt.Errorf("waiting for probe slot: %w", err)
		}
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		path,
	)
	// Bound the wait for inherited pipes once the process has been killed.
	cmd.WaitDelay = time.Second
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return models.VideoMetadata{}, fmt.Errorf("ffprobe %q exited with status %d", path, exitErr.ExitCode())
		}
		return models.VideoMetadata{}, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}
