package gen_test

import (
	"testing"
	"time"

	"worksim/internal/domain"
	"worksim/internal/gen"
	"worksim/internal/research"
)

var testNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func newTestGenerator(t *testing.T, seed uint64) *gen.Generator {
	t.Helper()
	data, err := research.Load("")
	if err != nil {
		t.Fatalf("load research data: %v", err)
	}
	return gen.New(seed, testNow, 180, data)
}

type graph struct {
	Org          domain.Organization
	Users        []domain.User
	Teams        []domain.Team
	Memberships  []domain.TeamMembership
	Projects     []domain.Project
	Sections     []domain.Section
	Tags         []domain.Tag
	Tasks        []domain.Task
	Dependencies []domain.TaskDependency
	Comments     []domain.Comment
	Attachments  []domain.Attachment
	FieldDefs    []domain.CustomFieldDefinition
	FieldOptions []domain.CustomFieldEnumOption
	FieldValues  []domain.CustomFieldValue
	TaskTags     []domain.TaskTag
}

func buildGraph(t *testing.T, g *gen.Generator, userCount int) graph {
	t.Helper()
	org, err := g.Organization("")
	if err != nil {
		t.Fatalf("organization: %v", err)
	}
	gr := graph{Org: org}
	gr.Users = g.Users(org, userCount)
	gr.Teams = g.Teams(org, gr.Users)
	gr.Memberships = g.Memberships(gr.Teams, gr.Users)
	gr.Projects = g.Projects(org, gr.Teams, gr.Users, gr.Memberships)
	gr.Sections = g.Sections(gr.Projects)
	gr.Tags = g.Tags(org)
	gr.Tasks = g.Tasks(gr.Projects, gr.Sections, gr.Memberships, gr.Users)
	gr.Dependencies = g.Dependencies(gr.Tasks)
	gr.Comments = g.Comments(gr.Tasks, gr.Users)
	gr.Attachments = g.Attachments(gr.Tasks)
	gr.FieldDefs, gr.FieldOptions, gr.FieldValues = g.CustomFields(gr.Projects, gr.Teams, gr.Tasks)
	gr.TaskTags = g.TaskTags(gr.Tasks, gr.Tags)
	return gr
}

func inRun(t *testing.T, what string, ts, lo time.Time) {
	t.Helper()
	if ts.Before(lo) {
		t.Fatalf("%s: %v precedes its causal parent %v", what, ts, lo)
	}
	if ts.After(testNow) {
		t.Fatalf("%s: %v is after the generation instant %v", what, ts, testNow)
	}
}

func TestOrganizationEpoch(t *testing.T) {
	g := newTestGenerator(t, 7)
	org, err := g.Organization("")
	if err != nil {
		t.Fatal(err)
	}
	want := g.Epoch()
	if !org.CreatedAt.Equal(want) {
		t.Fatalf("org created_at = %v, want epoch %v", org.CreatedAt, want)
	}
	if org.CreatedAt.Hour() != 8 {
		t.Fatalf("epoch should be business-hours aligned, got hour %d", org.CreatedAt.Hour())
	}
	if days := testNow.Sub(org.CreatedAt).Hours() / 24; days < 179 || days > 181 {
		t.Fatalf("epoch should sit ~180 days back, got %.1f", days)
	}
	if org.Domain == "" {
		t.Fatal("org domain empty")
	}

	named, err := g.Organization("Acme Corp")
	if err != nil {
		t.Fatal(err)
	}
	if named.Name != "Acme Corp" {
		t.Fatalf("name override ignored: %s", named.Name)
	}
}

func TestUsers(t *testing.T) {
	g := newTestGenerator(t, 7)
	org, _ := g.Organization("")
	users := g.Users(org, 200)
	if len(users) != 200 {
		t.Fatalf("want 200 users, got %d", len(users))
	}
	emails := make(map[string]bool)
	for _, u := range users {
		inRun(t, "user created_at", u.CreatedAt, org.CreatedAt)
		if emails[u.Email] {
			t.Fatalf("duplicate email %s", u.Email)
		}
		emails[u.Email] = true
		if u.WorkloadCapacity < 0.5 || u.WorkloadCapacity > 2.0 {
			t.Fatalf("workload capacity out of range: %f", u.WorkloadCapacity)
		}
		if u.LastActiveAt == nil {
			t.Fatal("last_active_at missing")
		}
		inRun(t, "last_active_at", *u.LastActiveAt, u.CreatedAt)
		if u.Role != "member" && u.Role != "admin" && u.Role != "limited" {
			t.Fatalf("unknown role %s", u.Role)
		}
	}
}

func TestMemberships(t *testing.T) {
	g := newTestGenerator(t, 7)
	org, _ := g.Organization("")
	users := g.Users(org, 150)
	teams := g.Teams(org, users)
	if len(teams) < 10 {
		t.Fatalf("want at least 10 teams, got %d", len(teams))
	}
	memberships := g.Memberships(teams, users)

	userByID := make(map[string]domain.User)
	for _, u := range users {
		userByID[u.ID] = u
	}
	teamByID := make(map[string]domain.Team)
	for _, tm := range teams {
		teamByID[tm.ID] = tm
	}

	perUser := make(map[string]int)
	pairs := make(map[[2]string]bool)
	firstRole := make(map[string]string)
	for _, m := range memberships {
		key := [2]string{m.TeamID, m.UserID}
		if pairs[key] {
			t.Fatalf("duplicate membership %v", key)
		}
		pairs[key] = true
		perUser[m.UserID]++

		lo := userByID[m.UserID].CreatedAt
		if teamCreated := teamByID[m.TeamID].CreatedAt; teamCreated.After(lo) {
			lo = teamCreated
		}
		inRun(t, "joined_at", m.JoinedAt, lo)
		if _, seen := firstRole[m.TeamID]; !seen {
			firstRole[m.TeamID] = m.Role
		}
	}
	for uid, n := range perUser {
		if n > 4 {
			t.Fatalf("user %s is on %d teams, cap is 4", uid, n)
		}
	}
	for teamID, role := range firstRole {
		if role != "admin" {
			t.Fatalf("first member of team %s should be admin, got %s", teamID, role)
		}
	}
}

func TestProjects(t *testing.T) {
	g := newTestGenerator(t, 7)
	gr := buildGraph(t, g, 120)
	if len(gr.Projects) < 3*len(gr.Teams) {
		t.Fatalf("want at least 3 projects per team, got %d for %d teams", len(gr.Projects), len(gr.Teams))
	}
	for _, p := range gr.Projects {
		inRun(t, "project created_at", p.CreatedAt, gr.Org.CreatedAt)
		if p.CreatedAt.After(p.StartDate) {
			t.Fatalf("project %s created %v after its start %v", p.ID, p.CreatedAt, p.StartDate)
		}
		if !p.DueDate.After(p.StartDate) {
			t.Fatalf("project %s due %v not after start %v", p.ID, p.DueDate, p.StartDate)
		}
		switch p.Status {
		case "completed", "archived":
			if p.CompletedAt == nil {
				t.Fatalf("%s project %s missing completed_at", p.Status, p.ID)
			}
			inRun(t, "project completed_at", *p.CompletedAt, p.StartDate)
		case "active", "on_hold":
			if p.CompletedAt != nil {
				t.Fatalf("%s project %s should not have completed_at", p.Status, p.ID)
			}
		default:
			t.Fatalf("unknown project status %s", p.Status)
		}
	}
}

func TestSectionPositionsContiguous(t *testing.T) {
	g := newTestGenerator(t, 7)
	gr := buildGraph(t, g, 120)
	byProject := make(map[string][]int)
	for _, s := range gr.Sections {
		byProject[s.ProjectID] = append(byProject[s.ProjectID], s.Position)
	}
	projectByID := make(map[string]domain.Project)
	for _, p := range gr.Projects {
		projectByID[p.ID] = p
	}
	for pid, positions := range byProject {
		seen := make(map[int]bool)
		for _, pos := range positions {
			if pos < 0 || pos >= len(positions) {
				t.Fatalf("project %s: position %d out of 0..%d", pid, pos, len(positions)-1)
			}
			if seen[pos] {
				t.Fatalf("project %s: duplicate position %d", pid, pos)
			}
			seen[pos] = true
		}
	}
	for _, s := range gr.Sections {
		inRun(t, "section created_at", s.CreatedAt, projectByID[s.ProjectID].CreatedAt)
	}
}

func TestTagsUniquePerOrg(t *testing.T) {
	g := newTestGenerator(t, 7)
	org, _ := g.Organization("")
	tags := g.Tags(org)
	if len(tags) == 0 {
		t.Fatal("no tags")
	}
	names := make(map[string]bool)
	for _, tag := range tags {
		if names[tag.Name] {
			t.Fatalf("duplicate tag name %s", tag.Name)
		}
		names[tag.Name] = true
		inRun(t, "tag created_at", tag.CreatedAt, org.CreatedAt)
		if tag.Color == "" {
			t.Fatalf("tag %s has no color", tag.Name)
		}
	}
}

func TestTaskCausality(t *testing.T) {
	g := newTestGenerator(t, 7)
	gr := buildGraph(t, g, 80)
	if len(gr.Tasks) == 0 {
		t.Fatal("no tasks")
	}
	userByID := make(map[string]domain.User)
	for _, u := range gr.Users {
		userByID[u.ID] = u
	}
	projectByID := make(map[string]domain.Project)
	for _, p := range gr.Projects {
		projectByID[p.ID] = p
	}
	sectionByID := make(map[string]domain.Section)
	for _, s := range gr.Sections {
		sectionByID[s.ID] = s
	}

	for _, task := range gr.Tasks {
		lo := projectByID[task.ProjectID].CreatedAt
		if u := userByID[task.AssigneeID]; u.CreatedAt.After(lo) {
			lo = u.CreatedAt
		}
		inRun(t, "task created_at", task.CreatedAt, lo)

		if task.Completed != (task.CompletedAt != nil) {
			t.Fatalf("task %s: completed=%v but completed_at=%v", task.ID, task.Completed, task.CompletedAt)
		}
		if task.CompletedAt != nil {
			inRun(t, "task completed_at", *task.CompletedAt, task.CreatedAt)
		}
		if task.ModifiedAt.Before(task.CreatedAt) {
			t.Fatalf("task %s modified before created", task.ID)
		}
		if task.DueDate != nil && !task.DueDate.After(task.CreatedAt) {
			t.Fatalf("task %s due %v not after created %v", task.ID, task.DueDate, task.CreatedAt)
		}
		if task.SectionID != "" {
			if sectionByID[task.SectionID].ProjectID != task.ProjectID {
				t.Fatalf("task %s routed to a section of another project", task.ID)
			}
		}
	}
}

func TestDependencies(t *testing.T) {
	g := newTestGenerator(t, 7)
	gr := buildGraph(t, g, 80)
	if len(gr.Dependencies) == 0 {
		t.Fatal("expected some dependencies")
	}
	taskByID := make(map[string]domain.Task)
	for _, task := range gr.Tasks {
		taskByID[task.ID] = task
	}
	pairs := make(map[[2]string]bool)
	blockers := make(map[string][]string)
	for _, d := range gr.Dependencies {
		if d.DependentID == d.BlockerID {
			t.Fatalf("self-dependency on %s", d.DependentID)
		}
		key := [2]string{d.DependentID, d.BlockerID}
		if pairs[key] {
			t.Fatalf("duplicate dependency %v", key)
		}
		pairs[key] = true

		dep, blk := taskByID[d.DependentID], taskByID[d.BlockerID]
		if dep.ProjectID != blk.ProjectID {
			t.Fatal("cross-project dependency")
		}
		if blk.CreatedAt.After(dep.CreatedAt) {
			t.Fatalf("blocker %v created after dependent %v", blk.CreatedAt, dep.CreatedAt)
		}
		inRun(t, "dependency created_at", d.CreatedAt, dep.CreatedAt)
		blockers[d.DependentID] = append(blockers[d.DependentID], d.BlockerID)
	}

	// The graph must be acyclic.
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int)
	var visit func(id string) bool
	visit = func(id string) bool {
		switch state[id] {
		case visiting:
			return false
		case done:
			return true
		}
		state[id] = visiting
		for _, b := range blockers[id] {
			if !visit(b) {
				return false
			}
		}
		state[id] = done
		return true
	}
	for id := range blockers {
		if !visit(id) {
			t.Fatalf("dependency cycle reachable from %s", id)
		}
	}
}

func TestCommentsAndAttachments(t *testing.T) {
	g := newTestGenerator(t, 7)
	gr := buildGraph(t, g, 80)
	taskByID := make(map[string]domain.Task)
	for _, task := range gr.Tasks {
		taskByID[task.ID] = task
	}
	if len(gr.Comments) == 0 || len(gr.Attachments) == 0 {
		t.Fatalf("expected comments and attachments, got %d / %d", len(gr.Comments), len(gr.Attachments))
	}
	for _, c := range gr.Comments {
		inRun(t, "comment created_at", c.CreatedAt, taskByID[c.TaskID].CreatedAt)
		if c.Text == "" {
			t.Fatal("empty comment text")
		}
	}
	for _, a := range gr.Attachments {
		inRun(t, "attachment created_at", a.CreatedAt, taskByID[a.TaskID].CreatedAt)
		if a.SizeBytes <= 0 {
			t.Fatalf("attachment %s has size %d", a.Filename, a.SizeBytes)
		}
		if a.Filename == "" || a.FileType == "" {
			t.Fatal("attachment missing filename or type")
		}
	}
}

func TestCustomFieldValues(t *testing.T) {
	g := newTestGenerator(t, 7)
	gr := buildGraph(t, g, 80)
	defByID := make(map[string]domain.CustomFieldDefinition)
	defsByProject := make(map[string]int)
	for _, def := range gr.FieldDefs {
		defByID[def.ID] = def
		defsByProject[def.ProjectID]++
	}
	for pid, n := range defsByProject {
		if n < 2 || n > 5 {
			t.Fatalf("project %s has %d field definitions, want 2..5", pid, n)
		}
	}
	optionField := make(map[string]string)
	for _, opt := range gr.FieldOptions {
		optionField[opt.ID] = opt.FieldID
		if def := defByID[opt.FieldID]; def.FieldType != "enum" {
			t.Fatalf("option on non-enum field %s (%s)", def.Name, def.FieldType)
		}
	}
	taskByID := make(map[string]domain.Task)
	for _, task := range gr.Tasks {
		taskByID[task.ID] = task
	}
	for _, v := range gr.FieldValues {
		slots := 0
		if v.ValueText != nil {
			slots++
		}
		if v.ValueNumber != nil {
			slots++
		}
		if v.ValueDate != nil {
			slots++
		}
		if v.ValueCheck != nil {
			slots++
		}
		if v.ValueOptionID != nil {
			slots++
		}
		if slots != 1 {
			t.Fatalf("field value %s sets %d slots, want exactly 1", v.ID, slots)
		}
		def := defByID[v.FieldID]
		if v.ValueOptionID != nil {
			if def.FieldType != "enum" {
				t.Fatalf("option value on %s field", def.FieldType)
			}
			if optionField[*v.ValueOptionID] != v.FieldID {
				t.Fatal("enum value references an option of another field")
			}
		}
		inRun(t, "field value created_at", v.CreatedAt, taskByID[v.TaskID].CreatedAt)
		if taskByID[v.TaskID].ProjectID != def.ProjectID {
			t.Fatal("field value crosses projects")
		}
	}
}

func TestTaskTagsUniquePairs(t *testing.T) {
	g := newTestGenerator(t, 7)
	gr := buildGraph(t, g, 80)
	if len(gr.TaskTags) == 0 {
		t.Fatal("expected task tags")
	}
	taskByID := make(map[string]domain.Task)
	for _, task := range gr.Tasks {
		taskByID[task.ID] = task
	}
	tagIDs := make(map[string]bool)
	for _, tag := range gr.Tags {
		tagIDs[tag.ID] = true
	}
	pairs := make(map[[2]string]bool)
	for _, tt := range gr.TaskTags {
		key := [2]string{tt.TaskID, tt.TagID}
		if pairs[key] {
			t.Fatalf("duplicate task-tag pair %v", key)
		}
		pairs[key] = true
		if !tagIDs[tt.TagID] {
			t.Fatalf("unknown tag id %s", tt.TagID)
		}
		inRun(t, "task tag created_at", tt.CreatedAt, taskByID[tt.TaskID].CreatedAt)
	}
}

func TestFixedSeedReproducesGraph(t *testing.T) {
	a := buildGraph(t, newTestGenerator(t, 42), 60)
	b := buildGraph(t, newTestGenerator(t, 42), 60)

	if a.Org.ID != b.Org.ID || a.Org.Name != b.Org.Name {
		t.Fatalf("orgs diverged: %v vs %v", a.Org, b.Org)
	}
	counts := func(gr graph) [10]int {
		return [10]int{
			len(gr.Users), len(gr.Teams), len(gr.Memberships), len(gr.Projects),
			len(gr.Sections), len(gr.Tasks), len(gr.Dependencies), len(gr.Comments),
			len(gr.FieldValues), len(gr.TaskTags),
		}
	}
	if counts(a) != counts(b) {
		t.Fatalf("counts diverged: %v vs %v", counts(a), counts(b))
	}
	for i := range a.Tasks {
		if a.Tasks[i].ID != b.Tasks[i].ID || !a.Tasks[i].CreatedAt.Equal(b.Tasks[i].CreatedAt) {
			t.Fatalf("task %d diverged", i)
		}
	}

	c := buildGraph(t, newTestGenerator(t, 43), 60)
	if a.Org.ID == c.Org.ID {
		t.Fatal("different seeds produced the same org id")
	}
}

// A task sampled for an assignee hired after the project started must never
// precede the hire date, whatever the raw draw was.
func TestTaskNeverPrecedesLateHire(t *testing.T) {
	g := newTestGenerator(t, 7)
	org, _ := g.Organization("")

	hired := testNow.AddDate(0, 0, -10)
	user := domain.User{ID: "u-late", OrgID: org.ID, CreatedAt: hired}
	team := domain.Team{ID: "t-1", OrgID: org.ID, TeamType: "Engineering", CreatedAt: org.CreatedAt}
	project := domain.Project{
		ID: "p-1", OrgID: org.ID, TeamID: team.ID, Status: "active",
		ProjectType: "ongoing",
		StartDate:   testNow.AddDate(0, 0, -20),
		DueDate:     testNow.AddDate(0, 0, 30),
		CreatedAt:   testNow.AddDate(0, 0, -20),
	}
	memberships := []domain.TeamMembership{{ID: "m-1", TeamID: team.ID, UserID: user.ID, Role: "admin", JoinedAt: hired}}
	sections := g.Sections([]domain.Project{project})

	tasks := g.Tasks([]domain.Project{project}, sections, memberships, []domain.User{user})
	if len(tasks) == 0 {
		t.Fatal("no tasks generated")
	}
	for _, task := range tasks {
		if task.AssigneeID != user.ID {
			continue
		}
		if task.CreatedAt.Before(hired) {
			t.Fatalf("task created %v before assignee hire %v", task.CreatedAt, hired)
		}
	}
}

// Three tasks created on days 0, 1, 2: the day-2 task may only block on the
// earlier two, the day-0 task never gains a blocker.
func TestDependencyPrefixOrdering(t *testing.T) {
	g := newTestGenerator(t, 7)
	day := func(n int) time.Time { return testNow.AddDate(0, 0, n-30) }
	tasks := []domain.Task{
		{ID: "t0", ProjectID: "p", CreatedAt: day(0), ModifiedAt: day(0)},
		{ID: "t1", ProjectID: "p", CreatedAt: day(1), ModifiedAt: day(1)},
		{ID: "t2", ProjectID: "p", CreatedAt: day(2), ModifiedAt: day(2)},
	}
	allowed := map[string]map[string]bool{
		"t1": {"t0": true},
		"t2": {"t0": true, "t1": true},
	}
	sawAny := false
	for i := 0; i < 500; i++ {
		for _, d := range g.Dependencies(tasks) {
			sawAny = true
			if !allowed[d.DependentID][d.BlockerID] {
				t.Fatalf("illegal dependency %s -> %s", d.DependentID, d.BlockerID)
			}
		}
	}
	if !sawAny {
		t.Fatal("500 rounds produced no dependencies")
	}
}
