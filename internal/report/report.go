package report

import (
	"io"

	"github.com/maypok86/trafficgen/internal/stats"
)

type reporter interface {
	Report() error
}

// Options select the reports produced for a run.
type Options struct {
	OutputDirectory string
	Console         io.Writer
	Chart           bool
	Metrics         bool
}

type Reporter struct {
	reporters []reporter
}

func NewReporter(run stats.Run, o Options) *Reporter {
	reporters := []reporter{
		NewText(run, o.OutputDirectory),
	}
	if o.Console != nil {
		reporters = append(reporters, NewTable(run.Stats, o.Console))
	}
	if o.Chart {
		reporters = append(reporters, NewChart(run.Stats.Hourly, o.OutputDirectory))
	}
	if o.Metrics {
		reporters = append(reporters, NewTextfile(run, o.OutputDirectory))
	}

	return &Reporter{
		reporters: reporters,
	}
}

func (r *Reporter) Report() error {
	if r == nil {
		return nil
	}

	for _, rep := range r.reporters {
		if err := rep.Report(); err != nil {
			return err
		}
	}
	return nil
}
