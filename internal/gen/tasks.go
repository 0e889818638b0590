package gen

import (
	"math"
	"strings"
	"time"

	"worksim/internal/dist"
	"worksim/internal/domain"
)

var taskVerbs = []string{
	"Update", "Fix", "Implement", "Review", "Refactor", "Design", "Test",
	"Document", "Investigate", "Migrate", "Optimize", "Ship", "Draft",
	"Audit", "Clean up",
}

var taskObjects = []string{
	"billing dashboard", "onboarding flow", "search indexing", "login page",
	"API rate limits", "export pipeline", "notification settings",
	"mobile navigation", "permissions model", "reporting charts",
	"email templates", "webhook retries", "database migrations",
	"landing page copy", "customer survey", "release notes",
	"pricing page", "sales deck", "integration tests", "error tracking",
	"campaign assets", "renewal playbook", "design system tokens",
	"support macros", "quarterly forecast",
}

// Tasks generates the task population sized from the workload benchmarks
// (users x weekly creation rate x 26 weeks), spread evenly across open
// projects. created_at is sampled in [max(project.created_at,
// assignee.created_at), now] and clamped, completion follows the
// priority-and-age-conditioned rate table, and completed_at is guaranteed
// inside [created_at, now] whenever completed is true.
func (g *Generator) Tasks(projects []domain.Project, sections []domain.Section, memberships []domain.TeamMembership, users []domain.User) []domain.Task {
	userByID := make(map[string]domain.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}
	membersByTeam := make(map[string][]string)
	for _, m := range memberships {
		membersByTeam[m.TeamID] = append(membersByTeam[m.TeamID], m.UserID)
	}
	sectionsByProject := make(map[string][]domain.Section)
	for _, s := range sections {
		sectionsByProject[s.ProjectID] = append(sectionsByProject[s.ProjectID], s)
	}
	overloaded := g.overloadedUsers(users)

	open := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if p.Status == "active" || p.Status == "on_hold" {
			open = append(open, p)
		}
	}
	if len(open) == 0 {
		open = projects
	}
	if len(open) == 0 {
		return nil
	}

	weeklyPerUser := g.Data.Benchmarks.Workload.TasksCreatedPerWeek.Avg()
	total := int(float64(len(users)) * weeklyPerUser * 26)
	perProject := total / len(open)
	if perProject < 1 {
		perProject = 1
	}

	var out []domain.Task
	for _, p := range open {
		pool := membersByTeam[p.TeamID]
		if len(pool) == 0 {
			pool = make([]string, len(users))
			for i, u := range users {
				pool[i] = u.ID
			}
		}
		for i := 0; i < perProject; i++ {
			out = append(out, g.task(p, sectionsByProject[p.ID], pool, userByID, overloaded))
		}
	}
	return out
}

func (g *Generator) task(p domain.Project, sections []domain.Section, pool []string, userByID map[string]domain.User, overloaded map[string]bool) domain.Task {
	assigneeID := pool[g.Rand.IntN(len(pool))]
	if g.Work.ShouldReassign(g.Rand, overloaded[assigneeID]) && len(pool) > 1 {
		assigneeID = pool[g.Rand.IntN(len(pool))]
	}
	createdBy := pool[g.Rand.IntN(len(pool))]
	priority := g.taskPriority()

	lo := p.CreatedAt
	if u, ok := userByID[assigneeID]; ok && u.CreatedAt.After(lo) {
		lo = u.CreatedAt
	}
	created := dist.AtBusinessHour(g.Rand, dist.TimeBetween(g.Rand, lo, g.Now), 8, 20)
	created = dist.ClampTime(created, lo, g.Now)

	t := domain.Task{
		ID:         g.NewID(),
		ProjectID:  p.ID,
		SectionID:  "",
		Name:       g.pick(taskVerbs) + " " + g.pick(taskObjects),
		AssigneeID: assigneeID,
		CreatedBy:  createdBy,
		Priority:   priority,
		CreatedAt:  created,
		ModifiedAt: created,
	}

	durRange := g.Data.Benchmarks.TimeMetrics.AvgTaskDurationDaysRange
	durationDays := dist.Triangular(g.Rand, durRange.Lo(), durRange.Hi(), g.Data.Benchmarks.TimeMetrics.AvgTaskDurationDays)

	if dist.Bernoulli(g.Rand, dueDateProb(priority)) {
		due := dist.AddDays(created, g.Due.PressuredLeadTimeDays(g.Rand))
		t.DueDate = &due
	}

	if dist.Bernoulli(g.Rand, g.completionRate(priority, created)) {
		completed := g.taskCompletedAt(created, t.DueDate, durationDays)
		t.Completed = true
		t.CompletedAt = &completed
		t.ModifiedAt = completed
		if g.Done.Reopened(g.Rand) {
			// Reopened work loses its completion but keeps the churn in
			// modified_at.
			t.Completed = false
			t.CompletedAt = nil
		}
	}

	t.SectionID = g.sectionFor(t, sections)
	return t
}

func (g *Generator) taskPriority() string {
	switch dist.WeightedIndex(g.Rand, []float64{0.20, 0.60, 0.20}) {
	case 0:
		return "high"
	case 2:
		return "low"
	default:
		return "medium"
	}
}

func dueDateProb(priority string) float64 {
	switch priority {
	case "high", "urgent":
		return 0.95
	case "low":
		return 0.60
	default:
		return 0.80
	}
}

// completionRate is the benchmark by-priority rate with age modifiers:
// fresh tasks complete half as often, stale ones more often, capped at 0.95.
func (g *Generator) completionRate(priority string, created time.Time) float64 {
	rate := g.Done.BaseRate(priority)
	ageDays := g.Now.Sub(created).Hours() / 24
	switch {
	case ageDays < 7:
		rate *= 0.5
	case ageDays > 60:
		rate *= 1.3
	}
	return math.Min(rate, 0.95)
}

// taskCompletedAt picks the completion instant: with a due date, 82% land
// on time inside [created, due] and the rest overrun it by 1-14 days;
// without one the task closes within its sampled duration. Anything the
// sampling pushes past now is redrawn inside [created, now], and the final
// clamp makes created <= completed_at <= now unconditional.
func (g *Generator) taskCompletedAt(created time.Time, due *time.Time, durationDays float64) time.Time {
	var completed time.Time
	if due != nil && due.After(created) {
		if dist.Bernoulli(g.Rand, 0.82) {
			completed = dist.TimeBetween(g.Rand, created, *due)
		} else {
			completed = dist.AddDays(*due, dist.Uniform(g.Rand, 1, 14))
		}
	} else {
		completed = dist.AddDays(created, dist.Uniform(g.Rand, 1, math.Max(1, durationDays)))
	}
	if completed.After(g.Now) {
		completed = dist.TimeBetween(g.Rand, created, g.Now)
	}
	return dist.ClampTime(completed, created, g.Now)
}

// sectionFor routes a task to a board column matching its state, falling
// back to positional defaults (last for done, middle for in-flight, first
// otherwise).
func (g *Generator) sectionFor(t domain.Task, sections []domain.Section) string {
	if len(sections) == 0 {
		return ""
	}
	find := func(keywords ...string) string {
		for _, s := range sections {
			lower := strings.ToLower(s.Name)
			for _, kw := range keywords {
				if strings.Contains(lower, kw) {
					return s.ID
				}
			}
		}
		return ""
	}
	switch {
	case t.Completed:
		if id := find("done", "closed", "fixed"); id != "" {
			return id
		}
		return sections[len(sections)-1].ID
	case dist.Bernoulli(g.Rand, 0.40):
		if id := find("progress"); id != "" {
			return id
		}
		return sections[len(sections)/2].ID
	default:
		if id := find("to do", "todo", "backlog", "new"); id != "" {
			return id
		}
		return sections[0].ID
	}
}

// overloadedUsers samples each user's weekly creation load against their
// completion capacity and flags those above the fuzzy overload threshold.
func (g *Generator) overloadedUsers(users []domain.User) map[string]bool {
	out := make(map[string]bool, len(users))
	for _, u := range users {
		created := float64(g.Work.TasksCreatedPerWeek(g.Rand)) * u.WorkloadCapacity
		ratio := g.Work.OverloadRatio(created, g.Work.Capacity(g.Rand))
		out[u.ID] = g.Work.IsOverloaded(g.Rand, ratio)
	}
	return out
}
