package gen

import (
	"fmt"
	"strings"
	"time"

	"worksim/internal/dist"
	"worksim/internal/domain"
)

type attachmentType struct {
	kind     string
	exts     []string
	minBytes int64
	maxBytes int64
}

var attachmentTypes = map[string]attachmentType{
	"document":     {"document", []string{"pdf", "docx", "md"}, 50 << 10, 5 << 20},
	"image":        {"image", []string{"png", "jpg", "svg"}, 100 << 10, 10 << 20},
	"spreadsheet":  {"spreadsheet", []string{"xlsx", "csv"}, 20 << 10, 2 << 20},
	"presentation": {"presentation", []string{"pptx", "key"}, 500 << 10, 20 << 20},
	"code":         {"code", []string{"zip", "tar.gz", "patch"}, 10 << 10, 50 << 20},
}

// typeWeightsByContext orders weights as document, image, spreadsheet,
// presentation, code.
var typeWeightsByContext = map[string][]float64{
	"design":      {0.15, 0.65, 0.05, 0.10, 0.05},
	"engineering": {0.25, 0.20, 0.10, 0.05, 0.40},
	"marketing":   {0.30, 0.35, 0.10, 0.25, 0.00},
	"sales":       {0.35, 0.10, 0.25, 0.30, 0.00},
	"product":     {0.40, 0.25, 0.15, 0.20, 0.00},
	"default":     {0.40, 0.30, 0.15, 0.10, 0.05},
}

var attachmentNames = map[string][]string{
	"document":     {"spec", "notes", "proposal", "runbook", "summary"},
	"image":        {"mockup", "screenshot", "diagram", "banner"},
	"spreadsheet":  {"metrics", "budget", "tracker", "export"},
	"presentation": {"deck", "kickoff", "review", "pitch"},
	"code":         {"snapshot", "diff", "bundle", "logs"},
}

var attachmentDayOffsets = []float64{0, 1, 2, 3, 7, 14}
var attachmentDayWeights = []float64{0.50, 0.20, 0.15, 0.08, 0.05, 0.02}

// Attachments fans out over tasks; the file mix follows keywords in the
// task name and upload times trail the task's creation, clamped to it.
func (g *Generator) Attachments(tasks []domain.Task) []domain.Attachment {
	var out []domain.Attachment
	for _, t := range tasks {
		prob := 0.40
		switch t.Priority {
		case "high", "urgent":
			prob = 0.50
		case "low":
			prob = 0.30
		}
		if !dist.Bernoulli(g.Rand, prob) {
			continue
		}
		n := dist.WeightedIndex(g.Rand, []float64{0.60, 0.25, 0.10, 0.04, 0.01}) + 1
		for i := 0; i < n; i++ {
			out = append(out, g.attachment(t))
		}
	}
	return out
}

func (g *Generator) attachment(t domain.Task) domain.Attachment {
	at := g.attachmentKind(t.Name)
	uploader := t.AssigneeID
	if !dist.Bernoulli(g.Rand, 0.70) {
		uploader = t.CreatedBy
	}
	dayOffset := attachmentDayOffsets[dist.WeightedIndex(g.Rand, attachmentDayWeights)]
	created := dist.AddDays(t.CreatedAt, dayOffset).Add(time.Duration(dist.Uniform(g.Rand, 0, 12) * float64(time.Hour)))
	return domain.Attachment{
		ID:         g.NewID(),
		TaskID:     t.ID,
		UploadedBy: uploader,
		Filename:   g.filename(at),
		FileType:   at.kind,
		SizeBytes:  int64(dist.Uniform(g.Rand, float64(at.minBytes), float64(at.maxBytes))),
		CreatedAt:  g.clampToRun(created, t.CreatedAt),
	}
}

func (g *Generator) attachmentKind(taskName string) attachmentType {
	context := "default"
	lower := strings.ToLower(taskName)
	switch {
	case strings.Contains(lower, "design") || strings.Contains(lower, "mockup") || strings.Contains(lower, "ui"):
		context = "design"
	case strings.Contains(lower, "fix") || strings.Contains(lower, "api") || strings.Contains(lower, "migrat") || strings.Contains(lower, "test"):
		context = "engineering"
	case strings.Contains(lower, "campaign") || strings.Contains(lower, "copy") || strings.Contains(lower, "email"):
		context = "marketing"
	case strings.Contains(lower, "sales") || strings.Contains(lower, "deck") || strings.Contains(lower, "forecast"):
		context = "sales"
	case strings.Contains(lower, "survey") || strings.Contains(lower, "notes") || strings.Contains(lower, "release"):
		context = "product"
	}
	kinds := []string{"document", "image", "spreadsheet", "presentation", "code"}
	kind := kinds[dist.WeightedIndex(g.Rand, typeWeightsByContext[context])]
	return attachmentTypes[kind]
}

func (g *Generator) filename(at attachmentType) string {
	stem := g.pick(attachmentNames[at.kind])
	switch {
	case dist.Bernoulli(g.Rand, 0.30):
		stem = fmt.Sprintf("%s_v%d", stem, dist.IntBetween(g.Rand, 1, 5))
	case dist.Bernoulli(g.Rand, 0.20):
		stem = fmt.Sprintf("%s_%s", stem, g.Now.AddDate(0, 0, -g.Rand.IntN(90)).Format("2006-01-02"))
	}
	return stem + "." + g.pick(at.exts)
}
