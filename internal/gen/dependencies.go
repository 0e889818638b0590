package gen

import (
	"sort"
	"time"

	"worksim/internal/dist"
	"worksim/internal/domain"
)

// Dependencies links roughly one task in ten to one or more blockers from
// the same project. Blockers are drawn strictly from tasks created earlier
// (the sorted prefix before the dependent), so a task can never depend on a
// later task and the dependency graph is acyclic by construction. Duplicate
// (dependent, blocker) pairs are dropped via a seen-set.
func (g *Generator) Dependencies(tasks []domain.Task) []domain.TaskDependency {
	byProject := make(map[string][]domain.Task)
	for _, t := range tasks {
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
	}
	projectIDs := make([]string, 0, len(byProject))
	for id := range byProject {
		projectIDs = append(projectIDs, id)
	}
	sort.Strings(projectIDs)

	seen := make(map[[2]string]bool)
	var out []domain.TaskDependency
	for _, pid := range projectIDs {
		ordered := byProject[pid]
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		})
		for i, t := range ordered {
			if i == 0 || !dist.Bernoulli(g.Rand, 0.10) {
				continue
			}
			count := g.dependencyCount(i)
			for n := 0; n < count; n++ {
				blocker := ordered[g.Rand.IntN(i)]
				key := [2]string{t.ID, blocker.ID}
				if seen[key] || blocker.ID == t.ID {
					continue
				}
				seen[key] = true
				created := t.CreatedAt.Add(time.Duration(dist.Uniform(g.Rand, 1, 24) * float64(time.Hour)))
				out = append(out, domain.TaskDependency{
					ID:          g.NewID(),
					DependentID: t.ID,
					BlockerID:   blocker.ID,
					CreatedAt:   g.clampToRun(created, t.CreatedAt),
				})
			}
		}
	}
	return out
}

// dependencyCount is 1, 2, or 3 (weighted 70/20/10), never exceeding the
// number of earlier tasks.
func (g *Generator) dependencyCount(prefixLen int) int {
	count := dist.WeightedIndex(g.Rand, []float64{0.70, 0.20, 0.10}) + 1
	if count > prefixLen {
		count = prefixLen
	}
	return count
}
