// Package worker runs jobs on a fixed interval until stopped.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Job is one unit of periodic work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Config holds configuration for Periodic.
type Config struct {
	Interval     time.Duration
	RunOnStartup bool
	Logger       *zerolog.Logger
}

// Periodic runs a Job every Interval. Runs never overlap: a run that
// outlasts the interval delays the next one.
type Periodic struct {
	job          Job
	interval     time.Duration
	runOnStartup bool
	logger       zerolog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewPeriodic creates a runner for job.
func NewPeriodic(job Job, cfg Config) *Periodic {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Periodic{
		job:          job,
		interval:     cfg.Interval,
		runOnStartup: cfg.RunOnStartup,
		logger:       logger.With().Str("job", job.Name()).Logger(),
	}
}

// Start launches the loop in the background. It is a no-op when the
// runner is already started.
func (p *Periodic) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.running = true

	p.wg.Add(1)
	go p.loop(ctx)

	p.logger.Info().Dur("interval", p.interval).Bool("run_on_startup", p.runOnStartup).Msg("worker started")
}

// Stop cancels the loop and waits up to timeout for the current run.
// It reports whether the loop finished in time.
func (p *Periodic) Stop(timeout time.Duration) bool {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return true
	}
	p.cancel()
	p.running = false
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info().Msg("worker stopped")
		return true
	case <-time.After(timeout):
		p.logger.Warn().Dur("timeout", timeout).Msg("timed out waiting for worker to stop")
		return false
	}
}

func (p *Periodic) loop(ctx context.Context) {
	defer p.wg.Done()

	if p.runOnStartup {
		p.runOnce(ctx)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *Periodic) runOnce(ctx context.Context) {
	if err := p.job.Run(ctx); err != nil && ctx.Err() == nil {
		p.logger.Error().Err(err).Msg("worker run failed")
	}
}
