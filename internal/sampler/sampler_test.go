package sampler

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maypok86/trafficgen/internal/ranking"
)

type scripted struct {
	values []float64
	i      int
}

func (s *scripted) Float64() float64 {
	v := s.values[s.i]
	s.i++
	return v
}

type observer struct {
	indexes []int
}

func (o *observer) RecordPick(index, size int) {
	o.indexes = append(o.indexes, index)
}

func newSet(n int) *ranking.Set {
	records := make([]ranking.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, ranking.Record{
			Rank:   int64(i + 1),
			Domain: "d" + strconv.Itoa(i) + ".com",
			Score:  float64(n - i),
		})
	}
	return ranking.NewSet(records)
}

func TestIndex_Bounds(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(1))
	for _, n := range []int{1, 2, 3, 10, 1000, 12345} {
		for i := 0; i < 10_000; i++ {
			idx := Index(r.Float64(), n)
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, n)
		}
		require.Equal(t, 0, Index(0, n))
		require.Equal(t, n-1, Index(1, n))
	}
}

func TestIndex_Literal(t *testing.T) {
	t.Parallel()

	// floor(3 - (1 - r^3) * 3)
	require.Equal(t, 0, Index(0.0, 3))
	require.Equal(t, 0, Index(0.5, 3))
	require.Equal(t, 2, Index(0.99, 3))
	require.Equal(t, 2, Index(1.0, 3))
}

func TestIndex_RankBiased(t *testing.T) {
	t.Parallel()

	const (
		n     = 10_000
		draws = 200_000
	)
	r := rand.New(rand.NewSource(3))
	below := 0
	for i := 0; i < draws; i++ {
		if Index(r.Float64(), n) < 100 {
			below++
		}
	}

	// P(index < 100) = 0.01^(1/3) ~ 0.215, uniform would be 0.01.
	ratio := float64(below) / draws
	require.Greater(t, ratio, 0.15)
	require.InDelta(t, 0.215, ratio, 0.01)
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Set: ranking.NewSet(nil)})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = New(Config{Set: newSet(3), PUnknown: 1.5, Unknown: func() string { return "" }})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = New(Config{Set: newSet(3), PUnknown: -0.1, Unknown: func() string { return "" }})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = New(Config{Set: newSet(3), PUnknown: 0.5})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDomain_Sample(t *testing.T) {
	t.Parallel()

	obs := &observer{}
	d, err := New(Config{
		Set:      newSet(3),
		PUnknown: 0,
		Observer: obs,
	})
	require.NoError(t, err)

	// each sample draws the unknown gate first, then the rank draw
	src := &scripted{values: []float64{0.9, 0.0, 0.9, 0.5, 0.9, 0.99}}
	var got []string
	for i := 0; i < 3; i++ {
		domain, known, err := d.Sample(src)
		require.NoError(t, err)
		require.True(t, known)
		got = append(got, domain)
	}

	require.Equal(t, []string{"d0.com", "d0.com", "d2.com"}, got)
	require.Equal(t, []int{0, 0, 2}, obs.indexes)
}

func TestDomain_SampleUnknown(t *testing.T) {
	t.Parallel()

	obs := &observer{}
	d, err := New(Config{
		Set:      newSet(10),
		PUnknown: 0.25,
		Unknown:  func() string { return "unseen.example.de" },
		Observer: obs,
	})
	require.NoError(t, err)

	src := &scripted{values: []float64{0.1, 0.3, 0.0}}

	domain, known, err := d.Sample(src)
	require.NoError(t, err)
	require.False(t, known)
	require.Equal(t, "unseen.example.de", domain)
	require.Empty(t, obs.indexes)

	domain, known, err = d.Sample(src)
	require.NoError(t, err)
	require.True(t, known)
	require.Equal(t, "d0.com", domain)
	require.Equal(t, []int{0}, obs.indexes)
}

func TestDomain_UnknownFraction(t *testing.T) {
	t.Parallel()

	d, err := New(Config{
		Set:      newSet(100),
		PUnknown: 0.1,
		Unknown:  func() string { return "x.y.zz" },
	})
	require.NoError(t, err)

	r := rand.New(rand.NewSource(11))
	unknown := 0
	const draws = 100_000
	for i := 0; i < draws; i++ {
		_, known, err := d.Sample(r)
		require.NoError(t, err)
		if !known {
			unknown++
		}
	}
	require.InDelta(t, 0.1, float64(unknown)/draws, 0.01)
}
