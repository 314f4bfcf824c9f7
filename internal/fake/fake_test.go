package fake

import (
	"math/rand"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerator_IPv4(t *testing.T) {
	t.Parallel()

	g := New(rand.New(rand.NewSource(1)))
	for i := 0; i < 100; i++ {
		ip := net.ParseIP(g.IPv4())
		require.NotNil(t, ip)
		require.NotNil(t, ip.To4())
	}
}

func TestGenerator_UnknownDomain(t *testing.T) {
	t.Parallel()

	g := New(rand.New(rand.NewSource(1)))
	for i := 0; i < 100; i++ {
		d := g.UnknownDomain()
		parts := strings.Split(d, ".")
		require.GreaterOrEqual(t, len(parts), 3, d)

		suffix := parts[len(parts)-1]
		require.Len(t, suffix, 2, d)
		require.Equal(t, strings.ToLower(suffix), suffix)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	t.Parallel()

	a := New(rand.New(rand.NewSource(42)))
	b := New(rand.New(rand.NewSource(42)))
	for i := 0; i < 20; i++ {
		require.Equal(t, a.IPv4(), b.IPv4())
		require.Equal(t, a.UnknownDomain(), b.UnknownDomain())
	}
}
