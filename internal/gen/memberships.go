package gen

import (
	"math"
	"sort"

	"worksim/internal/dist"
	"worksim/internal/domain"
)

const maxTeamsPerUser = 4

// Memberships fills each team by preferring users from the matching
// department with the fewest existing assignments, capped at four teams per
// user. The first member of each team becomes its admin. joined_at starts at
// the later of the user's hire date and the team's creation and never passes
// the generation instant.
func (g *Generator) Memberships(teams []domain.Team, users []domain.User) []domain.TeamMembership {
	sizeRange := g.Data.Benchmarks.TeamStructure.AvgTeamSize
	assignments := make(map[string]int, len(users))
	var out []domain.TeamMembership

	for _, team := range teams {
		size := int(math.Round(dist.Triangular(g.Rand, sizeRange.Lo(), sizeRange.Hi(), sizeRange.Avg())))
		if size < 1 {
			size = 1
		}
		candidates := g.rankCandidates(team, users, assignments)
		if len(candidates) > size {
			candidates = candidates[:size]
		}
		for i, u := range candidates {
			role := "member"
			if i == 0 {
				role = "admin"
			}
			lo := u.CreatedAt
			if team.CreatedAt.After(lo) {
				lo = team.CreatedAt
			}
			maxOffset := math.Min(30, g.Now.Sub(lo).Hours()/24)
			if maxOffset < 0 {
				maxOffset = 0
			}
			joined := dist.AtBusinessHour(g.Rand, dist.AddDays(lo, dist.Uniform(g.Rand, 0, maxOffset)), 8, 17)
			out = append(out, domain.TeamMembership{
				ID:       g.NewID(),
				TeamID:   team.ID,
				UserID:   u.ID,
				Role:     role,
				JoinedAt: g.clampToRun(joined, lo),
			})
			assignments[u.ID]++
		}
	}
	return out
}

// rankCandidates orders eligible users: matching department first, then
// fewest current assignments. Users already at the cap are excluded.
func (g *Generator) rankCandidates(team domain.Team, users []domain.User, assignments map[string]int) []domain.User {
	var eligible []domain.User
	for _, u := range users {
		if assignments[u.ID] >= maxTeamsPerUser {
			continue
		}
		eligible = append(eligible, u)
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		mi := eligible[i].Department == team.TeamType
		mj := eligible[j].Department == team.TeamType
		if mi != mj {
			return mi
		}
		return assignments[eligible[i].ID] < assignments[eligible[j].ID]
	})
	return eligible
}
