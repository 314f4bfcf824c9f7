package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/maypok86/trafficgen/internal/stats"
)

// Table prints the rank buckets as a console table.
type Table struct {
	stats stats.Stats
	w     io.Writer
}

func NewTable(s stats.Stats, w io.Writer) *Table {
	return &Table{
		stats: s,
		w:     w,
	}
}

func (t *Table) Report() error {
	if t == nil {
		return nil
	}

	w := tablewriter.NewWriter(t.w)
	w.SetHeader([]string{"Bucket", "Picks", "Share"})
	w.SetBorders(tablewriter.Border{
		Left:   true,
		Top:    false,
		Right:  true,
		Bottom: false,
	})
	w.SetCenterSeparator("|")
	w.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, b := range t.stats.Buckets() {
		w.Append([]string{
			b.Name,
			strconv.FormatUint(b.Count, 10),
			fmt.Sprintf("%0.1f%%", t.stats.Ratio(b.Count)),
		})
	}
	w.SetFooter([]string{"picks", strconv.FormatUint(t.stats.Picks, 10), ""})
	w.Render()
	return nil
}
