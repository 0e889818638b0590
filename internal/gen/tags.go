package gen

import (
	"strings"

	"worksim/internal/dist"
	"worksim/internal/domain"
)

var workflowTags = []string{
	"urgent", "blocked", "needs-review", "in-progress", "ready-for-qa",
	"on-hold", "waiting", "duplicate", "wont-fix", "help-wanted",
}

var priorityTags = []string{
	"p0", "p1", "p2", "p3", "p4", "critical", "high-priority", "low-priority",
}

var typeTags = []string{
	"bug", "enhancement", "feature", "documentation", "refactor",
	"technical-debt", "chore", "question", "discussion",
}

var businessTags = []string{
	"customer-request", "internal", "external", "paid-feature", "beta",
	"experiment", "quick-win", "stretch-goal",
}

var departmentTags = []string{
	"engineering", "frontend", "backend", "mobile", "infrastructure",
	"design", "product", "marketing", "sales", "customer-success",
	"data", "security", "qa", "ops", "finance",
}

var techTags = []string{
	"api", "database", "performance", "testing", "ci-cd", "monitoring",
	"migration", "auth", "search", "analytics", "caching", "logging",
	"deploy", "config", "ui", "accessibility", "i18n", "sdk",
	"webhooks", "integrations",
}

// Tags builds the organization-wide tag library once, near the epoch. Names
// are deduplicated preserving first occurrence so they stay unique per org.
func (g *Generator) Tags(org domain.Organization) []domain.Tag {
	var names []string
	seen := make(map[string]bool)
	for _, group := range [][]string{workflowTags, priorityTags, typeTags, businessTags, departmentTags, techTags} {
		for _, name := range group {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	out := make([]domain.Tag, 0, len(names))
	for _, name := range names {
		created := dist.AddDays(org.CreatedAt, dist.Uniform(g.Rand, 0, 30))
		out = append(out, domain.Tag{
			ID:        g.NewID(),
			OrgID:     org.ID,
			Name:      name,
			Color:     tagColor(name),
			CreatedAt: g.clampToRun(created, org.CreatedAt),
		})
	}
	return out
}

// tagColor maps a tag to a semantic color by keyword.
func tagColor(name string) string {
	switch {
	case strings.Contains(name, "urgent"), strings.Contains(name, "critical"),
		strings.Contains(name, "p0"), strings.Contains(name, "bug"),
		strings.Contains(name, "blocked"):
		return "red"
	case strings.Contains(name, "high"), strings.Contains(name, "p1"),
		strings.Contains(name, "review"):
		return "orange"
	case strings.Contains(name, "feature"), strings.Contains(name, "enhancement"),
		strings.Contains(name, "quick-win"):
		return "green"
	case strings.Contains(name, "documentation"), strings.Contains(name, "question"),
		strings.Contains(name, "discussion"):
		return "blue"
	case strings.Contains(name, "experiment"), strings.Contains(name, "beta"):
		return "purple"
	case strings.Contains(name, "low"), strings.Contains(name, "p4"),
		strings.Contains(name, "chore"):
		return "gray"
	default:
		return "teal"
	}
}
