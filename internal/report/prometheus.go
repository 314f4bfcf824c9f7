package report

import (
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/maypok86/trafficgen/internal/stats"
)

// MetricsFile is the Prometheus textfile inside the output directory.
const MetricsFile = "trafficgen.prom"

// RunProvider provides the statistics of a run.
type RunProvider interface {
	Run() stats.Run
}

type staticRun stats.Run

func (s staticRun) Run() stats.Run {
	return stats.Run(s)
}

// Collector exposes run statistics to Prometheus.
type Collector struct {
	provider         RunProvider
	picksDesc        *prometheus.Desc
	bucketDesc       *prometheus.Desc
	unknownPicksDesc *prometheus.Desc
	eventsDesc       *prometheus.Desc
	unknownRatioDesc *prometheus.Desc
	spanDesc         *prometheus.Desc
	artifactDesc     *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a new collector for the given run provider.
// Metric names are prefixed with the given namespace, i.e "{namespace}_{metric}".
func NewCollector(namespace string, provider RunProvider) *Collector {
	return &Collector{
		provider: provider,
		picksDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "picks_total"),
			"Number of domains picked from the ranking.",
			nil, nil,
		),
		bucketDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "bucket_picks_total"),
			"Number of ranking picks that fall into a cumulative rank bucket.",
			[]string{"bucket"}, nil,
		),
		unknownPicksDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "unknown_picks_total"),
			"Number of synthesized domains outside the ranking.",
			nil, nil,
		),
		eventsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "events_total"),
			"Number of emitted events.",
			nil, nil,
		),
		unknownRatioDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "unknown_sites_ratio"),
			"Configured probability of an unknown domain.",
			nil, nil,
		),
		spanDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "event_time_span_seconds"),
			"Event time between the first and the last event.",
			nil, nil,
		),
		artifactDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "artifact_size_bytes"),
			"Size of a produced artifact.",
			[]string{"artifact"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.picksDesc
	descs <- c.bucketDesc
	descs <- c.unknownPicksDesc
	descs <- c.eventsDesc
	descs <- c.unknownRatioDesc
	descs <- c.spanDesc
	descs <- c.artifactDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(metrics chan<- prometheus.Metric) {
	run := c.provider.Run()
	s := run.Stats

	metrics <- prometheus.MustNewConstMetric(
		c.picksDesc, prometheus.CounterValue, float64(s.Picks),
	)
	for _, b := range s.Buckets() {
		metrics <- prometheus.MustNewConstMetric(
			c.bucketDesc, prometheus.CounterValue, float64(b.Count), b.Name,
		)
	}
	metrics <- prometheus.MustNewConstMetric(
		c.unknownPicksDesc, prometheus.CounterValue, float64(s.UnknownPicks),
	)
	metrics <- prometheus.MustNewConstMetric(
		c.eventsDesc, prometheus.CounterValue, float64(s.Events),
	)
	metrics <- prometheus.MustNewConstMetric(
		c.unknownRatioDesc, prometheus.GaugeValue, run.PercentUnknownSites,
	)
	metrics <- prometheus.MustNewConstMetric(
		c.spanDesc, prometheus.GaugeValue, run.EndTime.Sub(run.StartTime).Seconds(),
	)

	for _, a := range run.Artifacts() {
		metrics <- prometheus.MustNewConstMetric(
			c.artifactDesc, prometheus.GaugeValue, float64(a.Size), a.Name,
		)
	}
}

// Textfile writes run statistics in the Prometheus text format, suitable for
// the node_exporter textfile collector.
type Textfile struct {
	run stats.Run
	dir string
}

func NewTextfile(run stats.Run, dir string) *Textfile {
	return &Textfile{
		run: run,
		dir: dir,
	}
}

func (t *Textfile) Report() error {
	registry := prometheus.NewRegistry()
	if err := registry.Register(NewCollector("trafficgen", staticRun(t.run))); err != nil {
		return fmt.Errorf("register collector: %w", err)
	}

	if err := prometheus.WriteToTextfile(filepath.Join(t.dir, MetricsFile), registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
