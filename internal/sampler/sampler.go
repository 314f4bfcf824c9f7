package sampler

import (
	"errors"
	"fmt"
	"math"

	"github.com/maypok86/trafficgen/internal/ranking"
)

// ErrInvalidArgument is returned for an empty ranking or a probability outside [0, 1].
var ErrInvalidArgument = errors.New("sampler: invalid argument")

// Float64Source is the part of *rand.Rand the sampler draws from.
type Float64Source interface {
	Float64() float64
}

// PickObserver is notified of every index drawn from the ranking.
// Unknown-domain draws are not reported.
type PickObserver interface {
	RecordPick(index, size int)
}

// Config is the set of parameters required to create a domain sampler.
type Config struct {
	Set      *ranking.Set
	PUnknown float64
	// Unknown synthesizes a domain outside the ranking.
	Unknown  func() string
	Observer PickObserver
}

// Domain draws domains biased toward the top of a ranking.
type Domain struct {
	set      *ranking.Set
	size     int
	pUnknown float64
	unknown  func() string
	observer PickObserver
}

func New(c Config) (*Domain, error) {
	if c.Set.Size() == 0 {
		return nil, fmt.Errorf("%w: empty ranking", ErrInvalidArgument)
	}
	if math.IsNaN(c.PUnknown) || c.PUnknown < 0 || c.PUnknown > 1 {
		return nil, fmt.Errorf("%w: unknown probability %v not in [0, 1]", ErrInvalidArgument, c.PUnknown)
	}
	if c.PUnknown > 0 && c.Unknown == nil {
		return nil, fmt.Errorf("%w: unknown domain generator is nil", ErrInvalidArgument)
	}

	return &Domain{
		set:      c.Set,
		size:     c.Set.Size(),
		pUnknown: c.PUnknown,
		unknown:  c.Unknown,
		observer: c.Observer,
	}, nil
}

// Sample returns one domain. With probability pUnknown it is a synthesized
// domain; otherwise it is a ranked domain picked by Index.
func (d *Domain) Sample(src Float64Source) (domain string, known bool, err error) {
	if src.Float64() < d.pUnknown {
		return d.unknown(), false, nil
	}

	index := Index(src.Float64(), d.size)
	if d.observer != nil {
		d.observer.RecordPick(index, d.size)
	}

	r, err := d.set.At(index)
	if err != nil {
		return "", true, fmt.Errorf("sample domain: %w", err)
	}
	return r.Domain, true, nil
}

// Index maps a uniform draw r in [0, 1) to an index in [0, n) with the cubic
// skew floor(n - (1 - r^3) * n). Most draws land near 0; r close to 1 reaches
// the tail. A result of n is clamped to n-1.
func Index(r float64, n int) int {
	size := float64(n)
	index := int(math.Floor(size - ((1.0 - (r * r * r)) * size)))
	if index >= n {
		return n - 1
	}
	if index < 0 {
		return 0
	}
	return index
}
