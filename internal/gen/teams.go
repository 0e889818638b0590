package gen

import (
	"fmt"

	"worksim/internal/dist"
	"worksim/internal/domain"
)

var teamSpecializations = map[string][]string{
	"Engineering":      {"Platform", "Frontend", "Backend", "Mobile", "Infrastructure", "Data", "QA", "Security"},
	"Sales":            {"Enterprise", "Mid-Market", "SMB", "Partnerships", "Sales Ops"},
	"Customer Success": {"Onboarding", "Support", "Renewals", "Technical Success"},
	"Product":          {"Core Product", "Growth", "Design", "Research"},
	"Marketing":        {"Brand", "Demand Gen", "Content", "Events"},
	"Operations":       {"Finance", "People", "IT", "Legal"},
}

// Teams sizes the team list from the teams-per-100-employees benchmark and
// front-loads creation dates the way early org structure forms.
func (g *Generator) Teams(org domain.Organization, users []domain.User) []domain.Team {
	per100 := g.Data.Benchmarks.TeamStructure.TeamsPer100
	count := int(float64(len(users)) / 100 * dist.Uniform(g.Rand, per100.Lo(), per100.Hi()))
	if count < 10 {
		count = 10
	}

	deptWeights := make([]float64, len(departmentWeights))
	for i, d := range departmentWeights {
		deptWeights[i] = d.weight
	}

	teams := make([]domain.Team, 0, count)
	usedNames := make(map[string]int)
	for i := 0; i < count; i++ {
		dept := departmentWeights[dist.WeightedIndex(g.Rand, deptWeights)].name
		spec := g.pick(teamSpecializations[dept])
		name := dept + " - " + spec
		if n := usedNames[name]; n > 0 {
			name = fmt.Sprintf("%s %d", name, n+1)
		}
		usedNames[dept+" - "+spec]++

		createdOffset := dist.Beta(g.Rand, 1.5, 4) * float64(g.WindowDays)
		created := dist.AtBusinessHour(g.Rand, dist.AddDays(org.CreatedAt, createdOffset), 8, 17)

		teams = append(teams, domain.Team{
			ID:          g.NewID(),
			OrgID:       org.ID,
			Name:        name,
			Description: fmt.Sprintf("%s team focused on %s", dept, spec),
			TeamType:    dept,
			Privacy:     g.teamPrivacy(),
			CreatedAt:   g.clampToRun(created, org.CreatedAt),
		})
	}
	return teams
}

func (g *Generator) teamPrivacy() string {
	switch dist.WeightedIndex(g.Rand, []float64{0.85, 0.12, 0.03}) {
	case 1:
		return "private"
	case 2:
		return "secret"
	default:
		return "public"
	}
}
