package client

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/pingcap/go-ycsb/pkg/generator"
)

// ErrEmptyPool is returned when a pool is built with no identifiers.
var ErrEmptyPool = errors.New("client: empty pool")

// Pool is a fixed set of client identifiers sampled uniformly.
type Pool struct {
	ids     []string
	uniform *generator.Uniform
}

// NewPool builds a pool of size identifiers produced by next.
func NewPool(size int, next func() string) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrEmptyPool, size)
	}

	ids := make([]string, 0, size)
	for i := 0; i < size; i++ {
		ids = append(ids, next())
	}
	return FromIDs(ids)
}

// FromIDs wraps an existing set of identifiers.
func FromIDs(ids []string) (*Pool, error) {
	if len(ids) == 0 {
		return nil, ErrEmptyPool
	}

	return &Pool{
		ids:     ids,
		uniform: generator.NewUniform(0, int64(len(ids)-1)),
	}, nil
}

// Size returns the number of identifiers.
func (p *Pool) Size() int {
	return len(p.ids)
}

// PickRandom returns an identifier chosen uniformly with r.
func (p *Pool) PickRandom(r *rand.Rand) string {
	return p.ids[p.uniform.Next(r)]
}
