package gen

import (
	"fmt"
	"strings"
	"time"

	"worksim/internal/dist"
	"worksim/internal/domain"
)

var departmentWeights = []struct {
	name   string
	weight float64
}{
	{"Engineering", 0.35},
	{"Sales", 0.22},
	{"Customer Success", 0.18},
	{"Product", 0.10},
	{"Marketing", 0.09},
	{"Operations", 0.06},
}

// Users creates the population. Hire dates ramp up early in the window
// (beta-skewed), land in business hours, and never precede the epoch.
func (g *Generator) Users(org domain.Organization, count int) []domain.User {
	epoch := org.CreatedAt
	users := make([]domain.User, 0, count)
	seenEmails := make(map[string]bool, count)
	deptWeights := make([]float64, len(departmentWeights))
	for i, d := range departmentWeights {
		deptWeights[i] = d.weight
	}

	for i := 0; i < count; i++ {
		first := g.pick(g.Data.FirstNames)
		last := g.pick(g.Data.LastNames)
		dept := departmentWeights[dist.WeightedIndex(g.Rand, deptWeights)].name

		hireOffset := dist.Beta(g.Rand, 2, 5) * float64(g.WindowDays)
		created := dist.AtBusinessHour(g.Rand, dist.AddDays(epoch, hireOffset), 8, 17)
		created = g.clampToRun(created, epoch)

		u := domain.User{
			ID:               g.NewID(),
			OrgID:            org.ID,
			Email:            g.uniqueEmail(first, last, org.Domain, seenEmails),
			Name:             first + " " + last,
			Role:             g.userRole(),
			Department:       dept,
			JobTitle:         g.jobTitle(dept),
			IsActive:         dist.Bernoulli(g.Rand, 0.95),
			WorkloadCapacity: dist.Clamp(dist.Gauss(g.Rand, 1.0, 0.2), 0.5, 2.0),
			CreatedAt:        created,
		}
		u.PhotoURL = fmt.Sprintf("https://avatars.%s/u/%s.png", org.Domain, u.ID)
		lastSeen := g.lastActive(created)
		u.LastActiveAt = &lastSeen
		users = append(users, u)
	}
	return users
}

func (g *Generator) userRole() string {
	switch dist.WeightedIndex(g.Rand, []float64{0.95, 0.04, 0.01}) {
	case 1:
		return "admin"
	case 2:
		return "limited"
	default:
		return "member"
	}
}

func (g *Generator) jobTitle(dept string) string {
	if titles, ok := g.Data.JobTitles[dept]; ok && len(titles) > 0 {
		return g.pick(titles)
	}
	for _, titles := range g.Data.JobTitles {
		if len(titles) > 0 {
			return titles[0]
		}
	}
	return "Specialist"
}

// lastActive places 90% of users within the past week, the rest between 30
// and 90 days back, never before their hire date.
func (g *Generator) lastActive(created time.Time) time.Time {
	var daysAgo float64
	if dist.Bernoulli(g.Rand, 0.9) {
		daysAgo = dist.Uniform(g.Rand, 0, 7)
	} else {
		daysAgo = dist.Uniform(g.Rand, 30, 90)
	}
	return dist.ClampTime(dist.AddDays(g.Now, -daysAgo), created, g.Now)
}

func (g *Generator) uniqueEmail(first, last, domainName string, seen map[string]bool) string {
	base := strings.ToLower(first) + "." + strings.ToLower(last)
	email := base + "@" + domainName
	for n := 2; seen[email]; n++ {
		email = fmt.Sprintf("%s%d@%s", base, n, domainName)
	}
	seen[email] = true
	return email
}
