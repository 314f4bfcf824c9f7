package generator

import (
	"math/rand"
	"time"

	"github.com/zeebo/xxh3"
)

// Seed derives the source seed from a user-supplied string. An empty string
// yields a time-based, non-reproducible seed.
func Seed(s string) int64 {
	if s == "" {
		return time.Now().UnixNano()
	}
	//nolint:gosec // wrap-around is fine for a seed
	return int64(xxh3.HashString(s))
}

// NewRand returns the random source shared by every stage of a run.
// It is not safe for concurrent use.
func NewRand(seed string) *rand.Rand {
	return rand.New(rand.NewSource(Seed(seed)))
}
