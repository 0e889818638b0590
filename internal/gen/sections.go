package gen

import (
	"worksim/internal/dist"
	"worksim/internal/domain"
)

var defaultSections = []string{"To Do", "In Progress", "Done"}

// Sections lays out each project's board from its type template with
// contiguous positions 0..n-1, created shortly after the project itself.
func (g *Generator) Sections(projects []domain.Project) []domain.Section {
	var out []domain.Section
	for _, p := range projects {
		names := defaultSections
		if tpl := g.Data.Template(p.ProjectType); tpl != nil {
			names = tpl.Sections
		}
		for pos, name := range names {
			created := dist.AddDays(p.CreatedAt, dist.Uniform(g.Rand, 0, 2))
			out = append(out, domain.Section{
				ID:        g.NewID(),
				ProjectID: p.ID,
				Name:      name,
				Position:  pos,
				CreatedAt: g.clampToRun(created, p.CreatedAt),
			})
		}
	}
	return out
}
