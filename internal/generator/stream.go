package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/maypok86/trafficgen/internal/arrival"
	"github.com/maypok86/trafficgen/internal/client"
	"github.com/maypok86/trafficgen/internal/event"
	"github.com/maypok86/trafficgen/internal/sampler"
	"github.com/maypok86/trafficgen/internal/stats"
)

const cancelCheckInterval = 1 << 16

// Sink receives one event per iteration.
type Sink interface {
	Write(e event.Access) error
}

// Config is the set of collaborators driven by a Stream.
type Config struct {
	Iterations int
	Pool       *client.Pool
	Sampler    *sampler.Domain
	Clock      *arrival.Clock
	Counter    *stats.Counter
	// ProgressEvery logs progress every n events; 0 disables it.
	ProgressEvery int
	Logger        *zap.Logger
}

func (c Config) validate() error {
	if c.Iterations < 0 {
		return errors.New("negative iterations")
	}
	if c.Pool == nil {
		return errors.New("client pool is nil")
	}
	if c.Sampler == nil {
		return errors.New("domain sampler is nil")
	}
	if c.Clock == nil {
		return errors.New("arrival clock is nil")
	}
	if c.Counter == nil {
		return errors.New("stats counter is nil")
	}
	return nil
}

// Stream emits a fixed number of synthetic access events.
type Stream struct {
	cfg    Config
	logger *zap.Logger
}

func New(c Config) (*Stream, error) {
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("create event stream: %w", err)
	}

	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Stream{
		cfg:    c,
		logger: logger,
	}, nil
}

// Result describes a completed run.
type Result struct {
	Events    uint64
	StartTime time.Time
	EndTime   time.Time
}

// Run performs the configured number of iterations. Each iteration draws from r
// in a fixed order: client, then domain, then arrival delay. The first sink or
// sampling error aborts the run.
func (s *Stream) Run(ctx context.Context, r *rand.Rand, sink Sink) (Result, error) {
	res := Result{
		StartTime: s.cfg.Clock.Now(),
		EndTime:   s.cfg.Clock.Now(),
	}

	for i := 0; i < s.cfg.Iterations; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return res, fmt.Errorf("generate events: %w", err)
			}
		}

		clientIP := s.cfg.Pool.PickRandom(r)
		domain, known, err := s.cfg.Sampler.Sample(r)
		if err != nil {
			return res, fmt.Errorf("generate event %d: %w", i, err)
		}
		if !known {
			s.cfg.Counter.RecordUnknown()
		}
		ts, err := s.cfg.Clock.Advance(r)
		if err != nil {
			return res, fmt.Errorf("generate event %d: %w", i, err)
		}

		if err := sink.Write(event.NewAccess(ts, clientIP, domain)); err != nil {
			return res, fmt.Errorf("generate event %d: %w", i, err)
		}
		s.cfg.Counter.RecordEvent(ts)
		res.Events++
		res.EndTime = ts

		if s.cfg.ProgressEvery > 0 && res.Events%uint64(s.cfg.ProgressEvery) == 0 {
			s.logger.Debug("generation progress",
				zap.Uint64("events", res.Events),
				zap.Int("iterations", s.cfg.Iterations),
				zap.String("event_time", ts.Format(event.TimeLayout)))
		}
	}

	return res, nil
}
