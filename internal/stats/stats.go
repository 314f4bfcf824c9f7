package stats

import "time"

// Stats is a snapshot of a Counter.
type Stats struct {
	Picks        uint64
	Top10        uint64
	Top100       uint64
	Top1000      uint64
	Quartile     uint64
	Half         uint64
	UnknownPicks uint64
	Events       uint64
	Hourly       Hourly
}

// Ratio returns count as a percentage of Picks, or 0 when there are no picks.
func (s Stats) Ratio(count uint64) float64 {
	if s.Picks == 0 {
		return 0
	}
	return float64(count) / float64(s.Picks) * 100.0
}

// Bucket is a named cumulative counter.
type Bucket struct {
	Name  string
	Count uint64
}

// Buckets returns the rank buckets from the narrowest to the widest.
func (s Stats) Buckets() []Bucket {
	return []Bucket{
		{Name: "top10", Count: s.Top10},
		{Name: "top100", Count: s.Top100},
		{Name: "top1000", Count: s.Top1000},
		{Name: "quartile", Count: s.Quartile},
		{Name: "half", Count: s.Half},
	}
}

// Hourly counts events per hour of day, split by weekday and weekend.
type Hourly struct {
	Weekday [24]uint64
	Weekend [24]uint64
}

func (h *Hourly) Record(t time.Time) {
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		h.Weekend[t.Hour()]++
		return
	}
	h.Weekday[t.Hour()]++
}
