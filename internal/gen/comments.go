package gen

import (
	"fmt"
	"math"
	"strings"
	"time"

	"worksim/internal/dist"
	"worksim/internal/domain"
)

var commentTemplates = []string{
	"Started looking into this.",
	"Picking this up now.",
	"Blocked on %s, will revisit tomorrow.",
	"Waiting on %s before I can continue.",
	"Made good progress today, should wrap up soon.",
	"This turned out bigger than expected, splitting it up.",
	"Pushed a first draft, feedback welcome.",
	"Can someone take a look at the latest changes?",
	"Updated per the review comments.",
	"Tested locally, works as expected.",
	"Deployed to staging for verification.",
	"Found an edge case, fixing before closing.",
	"Scope changed after the sync, adjusting the plan.",
	"Moving the deadline out a couple of days.",
	"Synced with the team, we are aligned on the approach.",
	"Adding more context in the description.",
	"Linked the related tasks for reference.",
	"This duplicates earlier work, consolidating.",
	"Customer confirmed the fix resolves their issue.",
	"Marking ready for QA.",
	"QA passed, closing this out.",
	"Reopening, the issue came back in production.",
	"Left some questions inline.",
	"Great work on this one!",
	"Thanks for the quick turnaround.",
	"Let's discuss this in the next standup.",
	"I will pair with you on this tomorrow.",
	"Done. Follow-ups tracked separately.",
}

var blockingItems = []string{
	"the API review", "the design handoff", "staging access", "the data migration",
	"legal sign-off", "the vendor response", "the infra upgrade",
}

// Comments fans out over tasks with a priority-weighted Bernoulli draw and
// spreads each thread proportionally across the task's open interval, with
// jitter. Every timestamp is post-clamped into [task.created_at, end].
func (g *Generator) Comments(tasks []domain.Task, users []domain.User) []domain.Comment {
	usersByDept := make(map[string][]domain.User)
	userByID := make(map[string]domain.User, len(users))
	for _, u := range users {
		usersByDept[u.Department] = append(usersByDept[u.Department], u)
		userByID[u.ID] = u
	}

	var out []domain.Comment
	for _, t := range tasks {
		if !dist.Bernoulli(g.Rand, commentProb(t)) {
			continue
		}
		n := g.commentCount(t.Priority)
		authors := g.commentAuthors(t, userByID, usersByDept)
		end := g.Now
		if t.CompletedAt != nil {
			end = *t.CompletedAt
		}
		span := end.Sub(t.CreatedAt)
		for i := 0; i < n; i++ {
			frac := 0.5
			if n > 1 {
				frac = float64(i) / float64(n-1)
			}
			frac = dist.Clamp(frac+dist.Uniform(g.Rand, -0.1, 0.1), 0, 1)
			at := t.CreatedAt.Add(time.Duration(frac * float64(span)))
			out = append(out, domain.Comment{
				ID:        g.NewID(),
				TaskID:    t.ID,
				UserID:    authors[g.Rand.IntN(len(authors))],
				Text:      g.commentText(),
				CreatedAt: dist.ClampTime(at, t.CreatedAt, dist.ClampTime(end, t.CreatedAt, g.Now)),
			})
		}
	}
	return out
}

func commentProb(t domain.Task) float64 {
	p := 0.40
	switch t.Priority {
	case "high", "urgent":
		p = 0.60
	case "low":
		p = 0.25
	}
	if t.Completed {
		p *= 1.2
	}
	return math.Min(p, 0.80)
}

// commentCount skews longer threads toward higher priorities.
func (g *Generator) commentCount(priority string) int {
	switch priority {
	case "high", "urgent":
		return dist.WeightedIndex(g.Rand, []float64{0.25, 0.20, 0.15, 0.12, 0.10, 0.07, 0.05, 0.03, 0.02, 0.01}) + 1
	case "low":
		return dist.WeightedIndex(g.Rand, []float64{0.60, 0.30, 0.10}) + 1
	default:
		return dist.WeightedIndex(g.Rand, []float64{0.40, 0.30, 0.15, 0.10, 0.05}) + 1
	}
}

// commentAuthors is the assignee, the creator, and up to three colleagues
// from the assignee's department.
func (g *Generator) commentAuthors(t domain.Task, userByID map[string]domain.User, usersByDept map[string][]domain.User) []string {
	authors := []string{t.AssigneeID}
	if t.CreatedBy != t.AssigneeID {
		authors = append(authors, t.CreatedBy)
	}
	if assignee, ok := userByID[t.AssigneeID]; ok {
		peers := usersByDept[assignee.Department]
		for n := 0; n < 3 && len(peers) > 0; n++ {
			authors = append(authors, peers[g.Rand.IntN(len(peers))].ID)
		}
	}
	return authors
}

func (g *Generator) commentText() string {
	tpl := g.pick(commentTemplates)
	if strings.Contains(tpl, "%s") {
		return fmt.Sprintf(tpl, g.pick(blockingItems))
	}
	return tpl
}
