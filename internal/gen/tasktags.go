package gen

import (
	"strings"

	"worksim/internal/dist"
	"worksim/internal/domain"
)

var taskTagDayOffsets = []float64{0, 1, 2, 3, 7}
var taskTagDayWeights = []float64{0.60, 0.20, 0.10, 0.07, 0.03}

// TaskTags labels roughly 60% of tasks with one to five tags, favoring tags
// relevant to the task's priority and name. The (task, tag) pair is unique
// across the run and tag times trail the task's creation.
func (g *Generator) TaskTags(tasks []domain.Task, tags []domain.Tag) []domain.TaskTag {
	if len(tags) == 0 {
		return nil
	}
	var out []domain.TaskTag
	seen := make(map[[2]string]bool)
	for _, t := range tasks {
		prob := 0.60
		switch t.Priority {
		case "high", "urgent":
			prob = 0.70
		case "low":
			prob = 0.50
		}
		if !dist.Bernoulli(g.Rand, prob) {
			continue
		}
		n := dist.WeightedIndex(g.Rand, []float64{0.50, 0.30, 0.15, 0.04, 0.01}) + 1
		candidates := g.relevantTags(t, tags)
		for i := 0; i < n && len(candidates) > 0; i++ {
			tag := candidates[g.Rand.IntN(len(candidates))]
			key := [2]string{t.ID, tag.ID}
			if seen[key] {
				continue
			}
			seen[key] = true
			dayOffset := taskTagDayOffsets[dist.WeightedIndex(g.Rand, taskTagDayWeights)]
			created := dist.AddDays(t.CreatedAt, dayOffset).Add(hoursBetween(g.Rand, 0, 12))
			out = append(out, domain.TaskTag{
				ID:        g.NewID(),
				TaskID:    t.ID,
				TagID:     tag.ID,
				CreatedAt: g.clampToRun(created, t.CreatedAt),
			})
		}
	}
	return out
}

// relevantTags matches tags to the task by priority keywords and name
// keywords; when nothing matches it falls back to ten random library tags.
func (g *Generator) relevantTags(t domain.Task, tags []domain.Tag) []domain.Tag {
	var priorityHints []string
	switch t.Priority {
	case "high", "urgent":
		priorityHints = []string{"urgent", "critical", "p0", "p1", "high-priority"}
	case "low":
		priorityHints = []string{"low-priority", "p3", "p4", "chore"}
	}
	nameWords := strings.Fields(strings.ToLower(t.Name))

	var relevant []domain.Tag
	for _, tag := range tags {
		matched := false
		for _, hint := range priorityHints {
			if tag.Name == hint {
				matched = true
				break
			}
		}
		if !matched {
			for _, w := range nameWords {
				if len(w) >= 3 && strings.Contains(tag.Name, w) {
					matched = true
					break
				}
			}
		}
		if matched {
			relevant = append(relevant, tag)
		}
	}
	if len(relevant) > 0 {
		return relevant
	}
	fallback := make([]domain.Tag, 0, 10)
	for _, i := range g.Rand.Perm(len(tags)) {
		fallback = append(fallback, tags[i])
		if len(fallback) == 10 {
			break
		}
	}
	return fallback
}
