package gen

import (
	"fmt"
	"math/rand/v2"

	"worksim/internal/dist"
	"worksim/internal/domain"
)

type fieldSpec struct {
	name      string
	fieldType string
	options   []string
}

var commonFields = []fieldSpec{
	{"Status", "enum", []string{"Not Started", "In Progress", "Blocked", "Complete"}},
	{"Priority", "enum", []string{"Low", "Medium", "High", "Critical"}},
	{"Effort", "enum", []string{"Small", "Medium", "Large"}},
}

var fieldsByTeamType = map[string][]fieldSpec{
	"Engineering": {
		{"Story Points", "number", nil},
		{"Sprint", "text", nil},
		{"Environment", "enum", []string{"Dev", "Staging", "Production"}},
		{"Component", "enum", []string{"API", "UI", "Database", "Infrastructure"}},
		{"Bug Severity", "enum", []string{"S0", "S1", "S2", "S3"}},
	},
	"Marketing": {
		{"Channel", "enum", []string{"Email", "Social", "Paid", "Organic"}},
		{"Budget", "number", nil},
		{"Launch Date", "date", nil},
		{"Approved", "checkbox", nil},
	},
	"Sales": {
		{"Deal Value", "number", nil},
		{"Close Date", "date", nil},
		{"Stage", "enum", []string{"Prospecting", "Negotiation", "Closed Won", "Closed Lost"}},
		{"Region", "enum", []string{"NA", "EMEA", "APAC"}},
	},
	"Product": {
		{"Release", "text", nil},
		{"Impact", "enum", []string{"Low", "Medium", "High"}},
		{"Confidence", "number", nil},
		{"User Facing", "checkbox", nil},
	},
	"Customer Success": {
		{"Account Tier", "enum", []string{"Free", "Growth", "Enterprise"}},
		{"Renewal Date", "date", nil},
		{"Escalated", "checkbox", nil},
	},
	"Operations": {
		{"Cost Center", "text", nil},
		{"Review Date", "date", nil},
		{"Compliant", "checkbox", nil},
	},
}

var storyPoints = []float64{1, 2, 3, 5, 8, 13}

// CustomFields defines two to five fields per project (common set plus the
// owning team's discipline set), materializes enum options with contiguous
// positions, and fills values on roughly 70% of tasks using 60-100% of each
// project's fields. Exactly one value slot is set per record, matching the
// field type.
func (g *Generator) CustomFields(projects []domain.Project, teams []domain.Team, tasks []domain.Task) ([]domain.CustomFieldDefinition, []domain.CustomFieldEnumOption, []domain.CustomFieldValue) {
	teamTypeByID := make(map[string]string, len(teams))
	for _, t := range teams {
		teamTypeByID[t.ID] = t.TeamType
	}
	tasksByProject := make(map[string][]domain.Task)
	for _, t := range tasks {
		tasksByProject[t.ProjectID] = append(tasksByProject[t.ProjectID], t)
	}

	var defs []domain.CustomFieldDefinition
	var options []domain.CustomFieldEnumOption
	var values []domain.CustomFieldValue

	for _, p := range projects {
		catalog := append([]fieldSpec{}, commonFields...)
		catalog = append(catalog, fieldsByTeamType[teamTypeByID[p.TeamID]]...)
		count := dist.IntBetween(g.Rand, 2, min(5, len(catalog)))
		picked := sampleSpecs(g.Rand, catalog, count)

		projectDefs := make([]domain.CustomFieldDefinition, 0, len(picked))
		optionsByField := make(map[string][]domain.CustomFieldEnumOption)
		for pos, spec := range picked {
			created := dist.AddDays(p.CreatedAt, dist.Uniform(g.Rand, 0, 2))
			def := domain.CustomFieldDefinition{
				ID:        g.NewID(),
				ProjectID: p.ID,
				Name:      spec.name,
				FieldType: spec.fieldType,
				Position:  pos,
				CreatedAt: g.clampToRun(created, p.CreatedAt),
			}
			projectDefs = append(projectDefs, def)
			defs = append(defs, def)
			for optPos, value := range spec.options {
				opt := domain.CustomFieldEnumOption{
					ID:       g.NewID(),
					FieldID:  def.ID,
					Value:    value,
					Color:    tagColor(value),
					Position: optPos,
				}
				optionsByField[def.ID] = append(optionsByField[def.ID], opt)
				options = append(options, opt)
			}
		}

		for _, t := range tasksByProject[p.ID] {
			if !dist.Bernoulli(g.Rand, 0.70) {
				continue
			}
			share := dist.Uniform(g.Rand, 0.6, 1.0)
			for _, def := range projectDefs {
				if !dist.Bernoulli(g.Rand, share) {
					continue
				}
				values = append(values, g.fieldValue(t, def, optionsByField[def.ID]))
			}
		}
	}
	return defs, options, values
}

func (g *Generator) fieldValue(t domain.Task, def domain.CustomFieldDefinition, options []domain.CustomFieldEnumOption) domain.CustomFieldValue {
	v := domain.CustomFieldValue{
		ID:        g.NewID(),
		TaskID:    t.ID,
		FieldID:   def.ID,
		CreatedAt: g.clampToRun(t.CreatedAt.Add(hoursBetween(g.Rand, 1, 48)), t.CreatedAt),
	}
	switch def.FieldType {
	case "number":
		var n float64
		switch def.Name {
		case "Story Points":
			n = storyPoints[g.Rand.IntN(len(storyPoints))]
		case "Confidence":
			n = float64(dist.IntBetween(g.Rand, 10, 100))
		default:
			n = float64(dist.IntBetween(g.Rand, 1000, 100000))
		}
		v.ValueNumber = &n
	case "text":
		var s string
		switch def.Name {
		case "Sprint":
			s = fmt.Sprintf("Sprint %d", dist.IntBetween(g.Rand, 1, 26))
		case "Release":
			s = fmt.Sprintf("v%d.%d.%d", dist.IntBetween(g.Rand, 1, 4), g.Rand.IntN(10), g.Rand.IntN(10))
		default:
			s = fmt.Sprintf("CC-%04d", g.Rand.IntN(10000))
		}
		v.ValueText = &s
	case "date":
		d := dist.AddDays(t.CreatedAt, dist.Uniform(g.Rand, 0, 90))
		v.ValueDate = &d
	case "checkbox":
		b := dist.Bernoulli(g.Rand, 0.5)
		v.ValueCheck = &b
	case "enum":
		if len(options) > 0 {
			id := options[g.Rand.IntN(len(options))].ID
			v.ValueOptionID = &id
		}
	}
	return v
}

// sampleSpecs draws count distinct specs preserving catalog order.
func sampleSpecs(r *rand.Rand, catalog []fieldSpec, count int) []fieldSpec {
	idx := r.Perm(len(catalog))[:count]
	chosen := make(map[int]bool, count)
	for _, i := range idx {
		chosen[i] = true
	}
	out := make([]fieldSpec, 0, count)
	for i, spec := range catalog {
		if chosen[i] {
			out = append(out, spec)
		}
	}
	return out
}
