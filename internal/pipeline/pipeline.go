// Package pipeline runs the generation stages in causal order and loads
// the result into SQLite. Parents are always generated before anything
// that references them, so foreign keys stay valid by construction and
// the post-load integrity scan is a diagnostic, not a gate.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"worksim/internal/dist"
	"worksim/internal/domain"
	"worksim/internal/gen"
	"worksim/internal/repo"
)

type Pipeline struct {
	Log  *zap.Logger
	Gen  *gen.Generator
	Repo repo.Repo

	// OrgName overrides the sampled company name when non-empty.
	OrgName string
	// CompanySize is the user head count; 0 samples 5000..10000 the way
	// the company profiles are sized.
	CompanySize int
}

// Result summarizes one completed run.
type Result struct {
	Counts     map[string]int     `json:"counts"`
	Violations []repo.FKViolation `json:"violations,omitempty"`
	Elapsed    time.Duration      `json:"elapsed_ns"`
}

func (p *Pipeline) stage(name string, started time.Time, count int) {
	p.Log.Info("stage complete",
		zap.String("stage", name),
		zap.Int("count", count),
		zap.Duration("elapsed", time.Since(started)),
	)
}

// Run generates the full entity graph, persists it, and validates
// referential integrity. Any error aborts the remaining stages; nothing
// is committed past the failing table.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	g := p.Gen

	ds, err := p.generate()
	if err != nil {
		return nil, err
	}

	t := time.Now()
	if err := p.Repo.InsertDataset(ctx, ds); err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}
	p.Log.Info("dataset persisted", zap.Duration("elapsed", time.Since(t)))

	violations, err := p.Repo.ValidateForeignKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("integrity check: %w", err)
	}
	if len(violations) > 0 {
		p.Log.Warn("integrity violations found", zap.Int("count", len(violations)))
	}

	t = time.Now()
	if err := p.Repo.Optimize(ctx); err != nil {
		return nil, err
	}
	p.Log.Info("database optimized", zap.Duration("elapsed", time.Since(t)))

	counts, err := p.Repo.TableCounts(ctx)
	if err != nil {
		return nil, err
	}
	p.Log.Info("run complete",
		zap.Int("tasks", counts["tasks"]),
		zap.Int("users", counts["users"]),
		zap.Duration("elapsed", time.Since(started)),
		zap.Time("generated_at", g.Now),
	)
	return &Result{Counts: counts, Violations: violations, Elapsed: time.Since(started)}, nil
}

func (p *Pipeline) generate() (*domain.Dataset, error) {
	g := p.Gen

	t := time.Now()
	org, err := g.Organization(p.OrgName)
	if err != nil {
		return nil, fmt.Errorf("organization: %w", err)
	}
	p.stage("organization", t, 1)

	userCount := p.CompanySize
	if userCount == 0 {
		userCount = dist.IntBetween(g.Rand, 5000, 10000)
	}

	t = time.Now()
	users := g.Users(org, userCount)
	p.stage("users", t, len(users))

	t = time.Now()
	teams := g.Teams(org, users)
	p.stage("teams", t, len(teams))

	t = time.Now()
	memberships := g.Memberships(teams, users)
	p.stage("memberships", t, len(memberships))

	t = time.Now()
	projects := g.Projects(org, teams, users, memberships)
	p.stage("projects", t, len(projects))

	t = time.Now()
	sections := g.Sections(projects)
	p.stage("sections", t, len(sections))

	t = time.Now()
	tags := g.Tags(org)
	p.stage("tags", t, len(tags))

	t = time.Now()
	tasks := g.Tasks(projects, sections, memberships, users)
	p.stage("tasks", t, len(tasks))

	t = time.Now()
	deps := g.Dependencies(tasks)
	p.stage("dependencies", t, len(deps))

	t = time.Now()
	comments := g.Comments(tasks, users)
	p.stage("comments", t, len(comments))

	t = time.Now()
	attachments := g.Attachments(tasks)
	p.stage("attachments", t, len(attachments))

	t = time.Now()
	defs, options, values := g.CustomFields(projects, teams, tasks)
	p.stage("custom_fields", t, len(defs)+len(options)+len(values))

	t = time.Now()
	taskTags := g.TaskTags(tasks, tags)
	p.stage("task_tags", t, len(taskTags))

	return &domain.Dataset{
		Organization: org,
		Users:        users,
		Teams:        teams,
		Memberships:  memberships,
		Projects:     projects,
		Sections:     sections,
		Tags:         tags,
		Tasks:        tasks,
		Dependencies: deps,
		Comments:     comments,
		Attachments:  attachments,
		FieldDefs:    defs,
		FieldOptions: options,
		FieldValues:  values,
		TaskTags:     taskTags,
	}, nil
}
