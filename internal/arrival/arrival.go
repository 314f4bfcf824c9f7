// Package arrival produces event timestamps with hour-of-day and weekend
// dependent inter-arrival gaps.
package arrival

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidMean is returned for a baseline mean that is not strictly positive.
	ErrInvalidMean = errors.New("arrival: baseline mean must be > 0")
	// ErrDelayOverflow is returned when a delay does not fit in a time.Duration.
	ErrDelayOverflow = errors.New("arrival: delay out of range")
)

// MaxDelayMs is the largest delay representable as a time.Duration.
const MaxDelayMs = math.MaxInt64 / int64(time.Millisecond)

// Float64Source is the part of *rand.Rand the clock draws from.
type Float64Source interface {
	Float64() float64
}

// Clock is a cursor over event time. It only moves forward.
type Clock struct {
	current  time.Time
	baseline float64
}

func NewClock(start time.Time, baselineMeanMs float64) (*Clock, error) {
	if !(baselineMeanMs > 0) || math.IsInf(baselineMeanMs, 1) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidMean, baselineMeanMs)
	}

	return &Clock{
		current:  start.Round(0).Truncate(time.Millisecond),
		baseline: baselineMeanMs,
	}, nil
}

// Now returns the current cursor position.
func (c *Clock) Now() time.Time {
	return c.current
}

// Advance moves the cursor by one inter-arrival delay and returns the new time.
// On error the cursor stays where it was.
func (c *Clock) Advance(src Float64Source) (time.Time, error) {
	next, err := Next(c.current, c.baseline, src)
	if err != nil {
		return c.current, err
	}
	c.current = next
	return c.current, nil
}

// Next returns current plus one delay drawn for the hour and weekday of current.
func Next(current time.Time, baselineMeanMs float64, src Float64Source) (time.Time, error) {
	rate := Rate(current, baselineMeanMs)
	ms, err := Delay(src.Float64(), rate)
	if err != nil {
		return current, fmt.Errorf("advance from %s: %w", current.Format(time.RFC3339), err)
	}
	return current.Add(time.Duration(ms) * time.Millisecond), nil
}

// Rate scales the baseline by the factor for the hour and weekday of t.
//
// NOTE: the result is used as a rate, so a larger "mean" shortens the gap.
// The naming is kept for compatibility with existing corpora.
func Rate(t time.Time, baselineMeanMs float64) float64 {
	return baselineMeanMs * Factor(t.Hour(), IsWeekend(t))
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Factor is the multiplier applied to the baseline for a given hour.
func Factor(hour int, weekend bool) float64 {
	if weekend {
		switch {
		case hour >= 17, hour <= 8:
			// quiet night
			return 0.15
		default:
			return 0.25
		}
	}

	switch hour {
	case 19, 20, 21, 22, 23, 0, 1, 2, 3, 4, 5, 6, 7:
		return 0.15
	case 12:
		// lunch
		return 0.8
	case 11, 13:
		return 0.95
	case 8, 18:
		return 0.35
	default:
		return 1.2
	}
}

// Delay returns floor(ln(1-d) / -rate) in milliseconds for a uniform draw d in [0, 1).
// A delay that is negative, not finite or above MaxDelayMs is an error.
func Delay(d, rate float64) (int64, error) {
	ms := math.Log(1.0-d) / -rate
	if !(ms >= 0) || ms > float64(MaxDelayMs) {
		return 0, fmt.Errorf("%w: %v ms for draw %v at rate %v", ErrDelayOverflow, ms, d, rate)
	}
	return int64(ms), nil
}
