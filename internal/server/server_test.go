package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"worksim/internal/db"
	"worksim/internal/domain"
	"worksim/internal/migrate"
	"worksim/internal/repo"
	"worksim/internal/server"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	r := repo.Repo{DB: conn}

	t0 := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	t1 := t0.AddDate(0, 0, 10)
	ds := &domain.Dataset{
		Organization: domain.Organization{ID: "org-1", Name: "Northwind", Domain: "northwind.com", CreatedAt: t0},
		Users: []domain.User{
			{ID: "u-1", OrgID: "org-1", Email: "ana.silva@northwind.com", Name: "Ana Silva", Role: "admin", Department: "Engineering", JobTitle: "Engineer", IsActive: true, WorkloadCapacity: 1.0, CreatedAt: t0},
		},
		Teams: []domain.Team{{ID: "team-1", OrgID: "org-1", Name: "Engineering - Platform", TeamType: "Engineering", Privacy: "public", CreatedAt: t0}},
		Projects: []domain.Project{
			{ID: "proj-1", OrgID: "org-1", TeamID: "team-1", Name: "Migration Sprint", OwnerID: "u-1", ProjectType: "sprint", Privacy: "team", Status: "active", StartDate: t1, DueDate: t1.AddDate(0, 0, 14), CreatedAt: t0},
		},
		Tasks: []domain.Task{
			{ID: "task-1", ProjectID: "proj-1", Name: "Fix login page", AssigneeID: "u-1", CreatedBy: "u-1", Priority: "high", CreatedAt: t1, ModifiedAt: t1},
		},
	}
	if err := r.InsertDataset(context.Background(), ds); err != nil {
		t.Fatalf("seed dataset: %v", err)
	}

	handler, err := server.New(server.Config{Repo: r, BasePath: "/api/v1"})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string, want int) []byte {
	t.Helper()
	res, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("GET %s: read body: %v", path, err)
	}
	if res.StatusCode != want {
		t.Fatalf("GET %s: status %d, want %d: %s", path, res.StatusCode, want, body)
	}
	return body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	body := get(t, ts, "/api/v1/health", http.StatusOK)
	var out map[string]string
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if out["status"] != "ok" {
		t.Fatalf("health = %v", out)
	}
}

func TestSummary(t *testing.T) {
	ts := newTestServer(t)
	body := get(t, ts, "/api/v1/summary", http.StatusOK)
	var counts map[string]int
	if err := json.Unmarshal(body, &counts); err != nil {
		t.Fatal(err)
	}
	if counts["tasks"] != 1 || counts["users"] != 1 {
		t.Fatalf("summary = %v", counts)
	}
}

func TestOrganizationAndProjects(t *testing.T) {
	ts := newTestServer(t)

	var org domain.Organization
	if err := json.Unmarshal(get(t, ts, "/api/v1/organization", http.StatusOK), &org); err != nil {
		t.Fatal(err)
	}
	if org.Name != "Northwind" {
		t.Fatalf("org = %+v", org)
	}

	var projects []domain.Project
	if err := json.Unmarshal(get(t, ts, "/api/v1/projects", http.StatusOK), &projects); err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 || projects[0].ID != "proj-1" {
		t.Fatalf("projects = %+v", projects)
	}

	var tasks []domain.Task
	if err := json.Unmarshal(get(t, ts, "/api/v1/projects/proj-1/tasks", http.StatusOK), &tasks); err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Name != "Fix login page" {
		t.Fatalf("tasks = %+v", tasks)
	}
}

func TestNotFoundEnvelope(t *testing.T) {
	ts := newTestServer(t)
	body := get(t, ts, "/api/v1/projects/nope", http.StatusNotFound)
	var out struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if out.Error.Code != "not_found" {
		t.Fatalf("error envelope = %s", body)
	}
}

func TestValidate(t *testing.T) {
	ts := newTestServer(t)
	var out struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(get(t, ts, "/api/v1/validate", http.StatusOK), &out); err != nil {
		t.Fatal(err)
	}
	if !out.OK {
		t.Fatal("expected a clean integrity scan")
	}
}
