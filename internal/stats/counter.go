package stats

import "time"

// Counter accumulates rank-bucket statistics for the picks of a generation run.
// It is owned by a single goroutine.
type Counter struct {
	picks        uint64
	top10        uint64
	top100       uint64
	top1000      uint64
	quartile     uint64
	half         uint64
	unknownPicks uint64
	events       uint64
	hourly       Hourly
}

// NewCounter constructs a Counter instance with all counts initialized to zero.
func NewCounter() *Counter {
	return &Counter{}
}

// RecordPick classifies index of a ranking of the given size into the
// cumulative buckets. An index below 10 counts toward every bucket it is below.
func (c *Counter) RecordPick(index, size int) {
	c.picks++
	if index < 10 {
		c.top10++
	}
	if index < 100 {
		c.top100++
	}
	if index < 1000 {
		c.top1000++
	}
	if index < size/4 {
		c.quartile++
	}
	if index < size/2 {
		c.half++
	}
}

// RecordUnknown records a pick of a synthesized domain. It does not affect
// Picks, so bucket percentages are relative to ranked picks only.
func (c *Counter) RecordUnknown() {
	c.unknownPicks++
}

// RecordEvent records one emitted event at t.
func (c *Counter) RecordEvent(t time.Time) {
	c.events++
	c.hourly.Record(t)
}

// Snapshot returns a copy of the current counts.
func (c *Counter) Snapshot() Stats {
	return Stats{
		Picks:        c.picks,
		Top10:        c.top10,
		Top100:       c.top100,
		Top1000:      c.top1000,
		Quartile:     c.quartile,
		Half:         c.half,
		UnknownPicks: c.unknownPicks,
		Events:       c.events,
		Hourly:       c.hourly,
	}
}
