package ranking

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned by Set.At for an index outside [0, Size).
	ErrIndexOutOfRange = errors.New("ranking: index out of range")
	// ErrEmptySet is returned when a ranking source yields no records.
	ErrEmptySet = errors.New("ranking: empty set")
)

// Record is a single ranked domain.
type Record struct {
	Rank   int64
	Domain string
	Score  float64
}

// Set is an immutable sequence of records ordered by ascending rank,
// so index 0 is the most popular domain.
type Set struct {
	records []Record
}

// NewSet copies records into a Set. Callers guarantee ascending rank order.
func NewSet(records []Record) *Set {
	r := make([]Record, len(records))
	copy(r, records)
	return &Set{
		records: r,
	}
}

// Size returns the number of records.
func (s *Set) Size() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// At returns the record at index i.
func (s *Set) At(i int) (Record, error) {
	if i < 0 || i >= s.Size() {
		return Record{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, s.Size())
	}
	return s.records[i], nil
}

// Each calls fn for every record in rank order and stops on the first error.
func (s *Set) Each(fn func(r Record) error) error {
	for _, r := range s.records {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}
