package gen

import (
	"fmt"
	"strings"
	"unicode"

	"worksim/internal/dist"
	"worksim/internal/domain"
	"worksim/internal/research"
)

var tldWeights = []struct {
	tld    string
	weight float64
}{
	{"com", 0.70},
	{"io", 0.15},
	{"so", 0.05},
	{"app", 0.05},
	{"co", 0.05},
}

// Organization creates the root entity. Its created_at is the epoch: every
// other timestamp in the run lands in [epoch, now]. nameOverride, when
// non-empty, replaces the sampled company name.
func (g *Generator) Organization(nameOverride string) (domain.Organization, error) {
	company, err := g.pickCompany()
	if err != nil {
		return domain.Organization{}, err
	}
	name := company.Name
	if nameOverride != "" {
		name = nameOverride
	}
	return domain.Organization{
		ID:        g.NewID(),
		Name:      name,
		Domain:    g.emailDomain(name),
		CreatedAt: g.Epoch(),
	}, nil
}

func (g *Generator) pickCompany() (research.Company, error) {
	var candidates []research.Company
	for _, c := range g.Data.Companies {
		if c.TeamSize >= 3000 && c.TeamSize <= 15000 {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		for _, c := range g.Data.Companies {
			if c.TeamSize > 1000 {
				candidates = append(candidates, c)
			}
		}
	}
	if len(candidates) == 0 {
		return research.Company{}, fmt.Errorf("no company profiles in the target size range")
	}
	return candidates[g.Rand.IntN(len(candidates))], nil
}

// emailDomain derives "northwind.com" style domains from a company name.
func (g *Generator) emailDomain(name string) string {
	s := strings.ToLower(name)
	for _, suffix := range []string{" inc.", " inc", " corp.", " corp", " corporation", " llc", " ltd", " limited"} {
		s = strings.TrimSuffix(s, suffix)
	}
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	words := strings.Fields(b.String())
	stem := "workspace"
	if len(words) > 0 {
		stem = words[0]
	}
	weights := make([]float64, len(tldWeights))
	for i, tw := range tldWeights {
		weights[i] = tw.weight
	}
	tld := tldWeights[dist.WeightedIndex(g.Rand, weights)].tld
	return stem + "." + tld
}
