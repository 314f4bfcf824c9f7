package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/maypok86/trafficgen/internal/arrival"
	"github.com/maypok86/trafficgen/internal/client"
	"github.com/maypok86/trafficgen/internal/config"
	"github.com/maypok86/trafficgen/internal/fake"
	"github.com/maypok86/trafficgen/internal/generator"
	"github.com/maypok86/trafficgen/internal/ranking"
	"github.com/maypok86/trafficgen/internal/report"
	"github.com/maypok86/trafficgen/internal/sampler"
	"github.com/maypok86/trafficgen/internal/sink"
	"github.com/maypok86/trafficgen/internal/stats"
	"github.com/maypok86/trafficgen/internal/trace"
)

const (
	UserActivityFile = "user_activity.json"
	RankingJSONFile  = "top10milliondomains.json"
)

// App produces the access log, its companion artifacts and the run reports.
type App struct {
	cfg     config.Config
	logger  *zap.Logger
	console io.Writer
	loc     *time.Location
}

// New returns an App. A nil console disables the console table.
func New(cfg config.Config, logger *zap.Logger, console io.Writer) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		cfg:     cfg,
		logger:  logger,
		console: console,
		loc:     time.Local,
	}
}

// WithLocation sets the zone used for hour-of-day and weekend classification.
func (a *App) WithLocation(loc *time.Location) *App {
	a.loc = loc
	return a
}

func (a *App) path(name string) string {
	return filepath.Join(a.cfg.OutputDirectory, name)
}

// Run executes the whole pipeline and returns the finalized run statistics.
func (a *App) Run(ctx context.Context) (stats.Run, error) {
	began := time.Now()

	if err := a.cfg.Validate(); err != nil {
		return stats.Run{}, err
	}
	start, err := a.cfg.Start(a.loc)
	if err != nil {
		return stats.Run{}, err
	}

	if err := os.MkdirAll(a.cfg.OutputDirectory, 0o755); err != nil {
		return stats.Run{}, fmt.Errorf("create output directory: %w", err)
	}

	set, err := ranking.Load(a.cfg.RankingPath)
	if err != nil {
		return stats.Run{}, fmt.Errorf("%w: %w", config.ErrConfiguration, err)
	}
	a.logger.Info("ranking loaded",
		zap.String("path", a.cfg.RankingPath),
		zap.Int("domains", set.Size()))

	_, err = ensure(ctx, a.logger, artifact{
		name: "ranking json",
		path: a.path(RankingJSONFile),
		build: func(ctx context.Context, tmp string) error {
			return writeRankingJSON(ctx, tmp, set)
		},
	})
	if err != nil {
		return stats.Run{}, err
	}

	counter := stats.NewCounter()
	res := generator.Result{StartTime: start, EndTime: start}
	_, err = ensure(ctx, a.logger, artifact{
		name: "user activity",
		path: a.path(UserActivityFile),
		build: func(ctx context.Context, tmp string) error {
			res, err = a.generate(ctx, set, counter, start, tmp)
			return err
		},
	})
	if err != nil {
		return stats.Run{}, err
	}

	if err := a.compress(ctx); err != nil {
		return stats.Run{}, err
	}

	run := stats.Run{
		Stats:               counter.Snapshot(),
		StartTime:           res.StartTime,
		EndTime:             res.EndTime,
		PercentUnknownSites: a.cfg.PercentUnknownSites,
		Sizes:               a.sizes(),
		CompressedSuffix:    trace.Extension(a.cfg.Codec),
	}

	reporter := report.NewReporter(run, report.Options{
		OutputDirectory: a.cfg.OutputDirectory,
		Console:         a.console,
		Chart:           a.cfg.Chart,
		Metrics:         a.cfg.Metrics,
	})
	if err := reporter.Report(); err != nil {
		return stats.Run{}, fmt.Errorf("create report: %w", err)
	}

	a.logger.Info("run complete",
		zap.Uint64("events", run.Stats.Events),
		zap.Uint64("picks", run.Stats.Picks),
		zap.Uint64("unknown_picks", run.Stats.UnknownPicks),
		zap.Duration("elapsed", time.Since(began)))
	return run, nil
}

func (a *App) generate(ctx context.Context, set *ranking.Set, counter *stats.Counter, start time.Time, path string) (generator.Result, error) {
	r := generator.NewRand(a.cfg.Seed)
	faker := fake.New(r)

	pool, err := client.NewPool(a.cfg.TotalCustomers, faker.IPv4)
	if err != nil {
		return generator.Result{}, fmt.Errorf("%w: %w", config.ErrConfiguration, err)
	}

	domains, err := sampler.New(sampler.Config{
		Set:      set,
		PUnknown: a.cfg.PercentUnknownSites,
		Unknown:  faker.UnknownDomain,
		Observer: counter,
	})
	if err != nil {
		return generator.Result{}, fmt.Errorf("%w: %w", config.ErrConfiguration, err)
	}

	clock, err := arrival.NewClock(start, a.cfg.BaselineMeanMs)
	if err != nil {
		return generator.Result{}, fmt.Errorf("%w: %w", config.ErrConfiguration, err)
	}

	stream, err := generator.New(generator.Config{
		Iterations:    a.cfg.Iterations,
		Pool:          pool,
		Sampler:       domains,
		Clock:         clock,
		Counter:       counter,
		ProgressEvery: a.cfg.ProgressEvery,
		Logger:        a.logger,
	})
	if err != nil {
		return generator.Result{}, err
	}

	out, err := sink.Create(path)
	if err != nil {
		return generator.Result{}, err
	}

	a.logger.Info("generating user activity",
		zap.Int("iterations", a.cfg.Iterations),
		zap.Int("customers", pool.Size()),
		zap.Float64("percent_unknown_sites", a.cfg.PercentUnknownSites),
		zap.Float64("baseline_mean_ms", a.cfg.BaselineMeanMs),
		zap.Time("start_time", start))

	res, err := stream.Run(ctx, r, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return res, err
}

func writeRankingJSON(ctx context.Context, path string, set *ranking.Set) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ranking.WriteJSONLines(ctx, f, set); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// compress builds the compressed copies of the user activity and ranking json
// concurrently. Generation itself is already complete at this point.
func (a *App) compress(ctx context.Context) error {
	if a.cfg.Codec == trace.NoneCodec {
		return nil
	}

	ext := trace.Extension(a.cfg.Codec)
	eg, ctx := errgroup.WithContext(ctx)
	for _, name := range []string{UserActivityFile, RankingJSONFile} {
		name := name
		src := a.path(name)
		eg.Go(func() error {
			_, err := ensure(ctx, a.logger, artifact{
				name: name + ext,
				path: src + ext,
				build: func(ctx context.Context, tmp string) error {
					return trace.Compress(ctx, src, tmp, a.cfg.Codec)
				},
			})
			return err
		})
	}

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("compress artifacts: %w", err)
	}
	return nil
}

func (a *App) sizes() stats.Sizes {
	s := stats.Sizes{
		UserActivity:           size(a.path(UserActivityFile)),
		UserActivityCompressed: -1,
		CSV:                    size(a.cfg.RankingPath),
		JSON:                   size(a.path(RankingJSONFile)),
		JSONCompressed:         -1,
	}
	if a.cfg.Codec != trace.NoneCodec {
		ext := trace.Extension(a.cfg.Codec)
		s.UserActivityCompressed = size(a.path(UserActivityFile + ext))
		s.JSONCompressed = size(a.path(RankingJSONFile + ext))
	}
	return s
}
