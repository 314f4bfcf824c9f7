package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/maypok86/trafficgen/internal/stats"
)

// ChartFile is the name of the hourly density chart inside the output directory.
const ChartFile = "hourly.html"

// Chart renders events per hour of day for weekdays and weekends.
type Chart struct {
	hourly stats.Hourly
	dir    string
}

func NewChart(hourly stats.Hourly, dir string) *Chart {
	return &Chart{
		hourly: hourly,
		dir:    dir,
	}
}

func (c *Chart) Report() error {
	if c == nil {
		return nil
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{
			Name: "hour",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "events",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Events per hour of day",
			Right: "40%",
		}),
		charts.WithLegendOpts(opts.Legend{
			Orient: "vertical",
			Right:  "0%",
			Top:    "10%",
		}),
		charts.WithAnimation(false),
	)

	hours := make([]string, 0, 24)
	for h := 0; h < 24; h++ {
		hours = append(hours, strconv.Itoa(h))
	}

	bar = bar.SetXAxis(hours).
		AddSeries("weekday", barData(c.hourly.Weekday)).
		AddSeries("weekend", barData(c.hourly.Weekend))

	f, err := os.Create(filepath.Join(c.dir, ChartFile))
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}

	if err := bar.Render(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("render chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}

func barData(counts [24]uint64) []opts.BarData {
	data := make([]opts.BarData, 0, len(counts))
	for _, c := range counts {
		data = append(data, opts.BarData{
			Value: c,
		})
	}
	return data
}
