package pipeline_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"worksim/internal/db"
	"worksim/internal/gen"
	"worksim/internal/migrate"
	"worksim/internal/pipeline"
	"worksim/internal/repo"
	"worksim/internal/research"
)

func newTestPipeline(t *testing.T, seed uint64) *pipeline.Pipeline {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	data, err := research.Load("")
	if err != nil {
		t.Fatalf("load research data: %v", err)
	}
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	return &pipeline.Pipeline{
		Log:         zap.NewNop(),
		Gen:         gen.New(seed, now, 180, data),
		Repo:        repo.Repo{DB: conn},
		CompanySize: 40,
	}
}

func TestRunPersistsFullGraph(t *testing.T) {
	p := newTestPipeline(t, 7)
	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Violations) != 0 {
		t.Fatalf("integrity violations: %+v", res.Violations)
	}
	for _, table := range []string{"organizations", "users", "teams", "team_memberships", "projects", "sections", "tags", "tasks"} {
		if res.Counts[table] == 0 {
			t.Fatalf("table %s is empty after a run", table)
		}
	}
	if res.Counts["users"] != 40 {
		t.Fatalf("users = %d, want the configured 40", res.Counts["users"])
	}
}

func TestRunsWithSameSeedMatch(t *testing.T) {
	a, err := newTestPipeline(t, 21).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	b, err := newTestPipeline(t, 21).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for table, n := range a.Counts {
		if b.Counts[table] != n {
			t.Fatalf("%s: %d vs %d with the same seed", table, n, b.Counts[table])
		}
	}
}

func TestOrgNameOverride(t *testing.T) {
	p := newTestPipeline(t, 7)
	p.OrgName = "Acme Corp"
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	org, err := p.Repo.GetOrganization(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if org.Name != "Acme Corp" {
		t.Fatalf("org name = %q, want override", org.Name)
	}
}
