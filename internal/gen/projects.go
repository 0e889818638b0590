package gen

import (
	"fmt"
	"math"
	"time"

	"worksim/internal/dist"
	"worksim/internal/domain"
)

var projectColors = []string{"blue", "green", "red", "orange", "purple", "teal", "pink", "yellow"}

// Projects creates three to five projects per team. Status weights shift
// with project age: young projects skew active, old ones skew finished.
// completed_at exists only for completed and archived projects and always
// lands in [start_date, now].
func (g *Generator) Projects(org domain.Organization, teams []domain.Team, users []domain.User, memberships []domain.TeamMembership) []domain.Project {
	userByID := make(map[string]domain.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}
	membersByTeam := make(map[string][]string)
	for _, m := range memberships {
		membersByTeam[m.TeamID] = append(membersByTeam[m.TeamID], m.UserID)
	}

	templateWeights := make([]float64, len(g.Data.Templates))
	for i, t := range g.Data.Templates {
		templateWeights[i] = t.Weight
	}

	var out []domain.Project
	for _, team := range teams {
		n := dist.IntBetween(g.Rand, 3, 5)
		for i := 0; i < n; i++ {
			tpl := g.Data.Templates[dist.WeightedIndex(g.Rand, templateWeights)]

			durationDays := float64(dist.IntBetween(g.Rand, tpl.MinDays, tpl.MaxDays))
			if tpl.Type == "sprint" {
				durationDays = float64(g.Time.SprintLengthDays(g.Rand))
			}

			lo := org.CreatedAt
			if team.CreatedAt.After(lo) {
				lo = team.CreatedAt
			}
			start := g.between(lo, g.Now)
			due := dist.AddDays(start, durationDays+g.Time.DeadlineSlackDays(g.Rand))
			if g.Done.ScopeChanged(g.Rand) {
				// Scope growth pushes the deadline out.
				due = dist.AddDays(due, durationDays*dist.Uniform(g.Rand, 0.1, 0.4))
			}

			created := dist.AddDays(start, -g.Time.StartOffsetDays(g.Rand, 14))
			created = dist.AtBusinessHour(g.Rand, created, 8, 17)
			created = dist.ClampTime(created, lo, start)

			p := domain.Project{
				ID:          g.NewID(),
				OrgID:       org.ID,
				TeamID:      team.ID,
				Name:        fmt.Sprintf("%s (%s)", g.pick(tpl.Names), team.Name),
				Description: fmt.Sprintf("%s project for %s", tpl.Type, team.Name),
				OwnerID:     g.projectOwner(team, membersByTeam, users),
				ProjectType: tpl.Type,
				Privacy:     g.projectPrivacy(),
				Status:      g.projectStatus(start),
				Color:       g.pick(projectColors),
				StartDate:   start,
				DueDate:     due,
				CreatedAt:   created,
			}
			if p.Status == "completed" || p.Status == "archived" {
				completed := g.projectCompletedAt(start, due, durationDays)
				p.CompletedAt = &completed
			}
			out = append(out, p)
		}
	}
	return out
}

func (g *Generator) projectOwner(team domain.Team, membersByTeam map[string][]string, users []domain.User) string {
	if members := membersByTeam[team.ID]; len(members) > 0 {
		return members[g.Rand.IntN(len(members))]
	}
	return users[g.Rand.IntN(len(users))].ID
}

func (g *Generator) projectPrivacy() string {
	switch dist.WeightedIndex(g.Rand, []float64{0.30, 0.60, 0.10}) {
	case 0:
		return "public"
	case 2:
		return "private"
	default:
		return "team"
	}
}

// projectStatus uses a three-tier age-conditioned categorical: weights for
// active, completed, archived, on_hold.
func (g *Generator) projectStatus(start time.Time) string {
	ageDays := g.Now.Sub(start).Hours() / 24
	var weights []float64
	switch {
	case ageDays < 30:
		weights = []float64{0.75, 0.10, 0.10, 0.05}
	case ageDays < 90:
		weights = []float64{0.50, 0.30, 0.15, 0.05}
	default:
		weights = []float64{0.20, 0.50, 0.25, 0.05}
	}
	return []string{"active", "completed", "archived", "on_hold"}[dist.WeightedIndex(g.Rand, weights)]
}

// projectCompletedAt lands on time (between mid-run and the due date) at the
// benchmark on-time rate, otherwise overruns by up to half the duration.
// Either way the result is forced into [start, now].
func (g *Generator) projectCompletedAt(start, due time.Time, durationDays float64) time.Time {
	var completed time.Time
	if g.Done.ProjectOnTime(g.Rand) {
		completed = dist.AddDays(start, dist.Uniform(g.Rand, 0.5*durationDays, durationDays))
	} else {
		overrun := dist.Uniform(g.Rand, 1, math.Max(1, 0.5*durationDays))
		completed = dist.AddDays(due, overrun)
	}
	if completed.After(g.Now) || completed.Before(start) {
		completed = g.between(start, g.Now)
	}
	return completed
}
