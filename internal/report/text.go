package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/maypok86/trafficgen/internal/stats"
)

// StatsFile is the name of the text report inside the output directory.
const StatsFile = "stats"

// Text writes the stats report, replacing any previous one.
type Text struct {
	run stats.Run
	dir string
}

func NewText(run stats.Run, dir string) *Text {
	return &Text{
		run: run,
		dir: dir,
	}
}

func (t *Text) Report() error {
	path := filepath.Join(t.dir, StatsFile)
	if err := os.WriteFile(path, []byte(t.run.String()), 0o644); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	return nil
}
