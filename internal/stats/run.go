package stats

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is used for event timestamps and the report's time range.
const TimeLayout = "2006-01-02T15:04:05.000"

// Sizes holds the byte sizes of the produced artifacts. A negative size
// means the artifact was not produced.
type Sizes struct {
	UserActivity           int64
	UserActivityCompressed int64
	CSV                    int64
	JSON                   int64
	JSONCompressed         int64
}

// Run is the finalized metadata of a generation run.
type Run struct {
	Stats               Stats
	StartTime           time.Time
	EndTime             time.Time
	PercentUnknownSites float64
	Sizes               Sizes
	// CompressedSuffix names the compressed artifacts, e.g. ".zst".
	CompressedSuffix string
}

// String renders the human-readable stats report.
func (r Run) String() string {
	s := r.Stats

	var sb strings.Builder
	for _, b := range s.Buckets() {
		fmt.Fprintf(&sb, "%-17s: %12.0f %3.1f%% \n", b.Name, float64(b.Count), s.Ratio(b.Count))
	}
	fmt.Fprintf(&sb, "%-17s: %s - %s \n", "Time range", r.StartTime.Format(TimeLayout), r.EndTime.Format(TimeLayout))
	fmt.Fprintf(&sb, "%-17s: %3.1f%% \n", "Unknown Sites", r.PercentUnknownSites*100.0)
	for _, a := range r.Artifacts() {
		fmt.Fprintf(&sb, "%-17s: %15s \n", a.Name, FormatBytes(a.Size))
	}
	return sb.String()
}

// Artifact is a named output file and its size in bytes.
type Artifact struct {
	Name string
	Size int64
}

// Artifacts lists the produced artifacts in report order, skipping those
// with a negative size.
func (r Run) Artifacts() []Artifact {
	all := []Artifact{
		{Name: "user_activity", Size: r.Sizes.UserActivity},
		{Name: "user_activity" + r.CompressedSuffix, Size: r.Sizes.UserActivityCompressed},
		{Name: "csv", Size: r.Sizes.CSV},
		{Name: "json", Size: r.Sizes.JSON},
		{Name: "json" + r.CompressedSuffix, Size: r.Sizes.JSONCompressed},
	}

	produced := all[:0]
	for _, a := range all {
		if a.Size >= 0 {
			produced = append(produced, a)
		}
	}
	return produced
}
