// Package fake synthesizes plausible client identifiers and domain names
// for traffic that has no counterpart in the ranking.
package fake

import (
	"math/rand"
	"strings"

	"github.com/biter777/countries"
	"github.com/brianvoe/gofakeit/v6"
)

// Generator draws fake values from a shared random source.
type Generator struct {
	faker    *gofakeit.Faker
	r        *rand.Rand
	suffixes []string
}

// New returns a Generator that consumes r. Every draw advances r, so a seeded
// r yields a reproducible sequence.
func New(r *rand.Rand) *Generator {
	all := countries.All()
	suffixes := make([]string, 0, len(all))
	for _, c := range all {
		if alpha2 := c.Alpha2(); alpha2 != "" {
			suffixes = append(suffixes, strings.ToLower(alpha2))
		}
	}

	return &Generator{
		faker:    gofakeit.NewCustom(r),
		r:        r,
		suffixes: suffixes,
	}
}

// IPv4 returns a random IPv4 address in dotted form.
func (g *Generator) IPv4() string {
	return g.faker.IPv4Address()
}

// CountrySuffix returns a random lower-case ISO 3166 alpha-2 code.
func (g *Generator) CountrySuffix() string {
	return g.suffixes[g.r.Intn(len(g.suffixes))]
}

// UnknownDomain returns a domain name followed by a country suffix,
// e.g. "smithjohnson.net.de".
func (g *Generator) UnknownDomain() string {
	return g.faker.DomainName() + "." + g.CountrySuffix()
}
