package repo

import (
	"time"

	"worksim/internal/domain"
)

// Row format: timestamps are RFC3339 UTC strings, date-only columns are
// YYYY-MM-DD, booleans are 0/1. Domain records stay plain Go values; this
// file owns the projection to SQL rows.

const (
	timeFormat = time.RFC3339
	dateFormat = "2006-01-02"
)

func ts(t time.Time) string { return t.UTC().Format(timeFormat) }

func tsPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return ts(*t)
}

func day(t time.Time) string { return t.UTC().Format(dateFormat) }

func dayPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return day(*t)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func boolIntPtr(b *bool) any {
	if b == nil {
		return nil
	}
	return boolInt(*b)
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullableStringPtr(v *string) any {
	if v == nil || *v == "" {
		return nil
	}
	return *v
}

func nullableFloatPtr(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

var organizationCols = []string{"id", "name", "domain", "created_at"}

func organizationRow(o domain.Organization) []any {
	return []any{o.ID, o.Name, o.Domain, ts(o.CreatedAt)}
}

var userCols = []string{"id", "org_id", "email", "name", "role", "department", "job_title", "photo_url", "is_active", "workload_capacity", "created_at", "last_active_at"}

func userRow(u domain.User) []any {
	return []any{u.ID, u.OrgID, u.Email, u.Name, u.Role, u.Department, u.JobTitle, nullable(u.PhotoURL), boolInt(u.IsActive), u.WorkloadCapacity, ts(u.CreatedAt), tsPtr(u.LastActiveAt)}
}

var teamCols = []string{"id", "org_id", "name", "description", "team_type", "privacy", "created_at"}

func teamRow(t domain.Team) []any {
	return []any{t.ID, t.OrgID, t.Name, nullable(t.Description), t.TeamType, t.Privacy, ts(t.CreatedAt)}
}

var membershipCols = []string{"id", "team_id", "user_id", "role", "joined_at"}

func membershipRow(m domain.TeamMembership) []any {
	return []any{m.ID, m.TeamID, m.UserID, m.Role, ts(m.JoinedAt)}
}

var projectCols = []string{"id", "org_id", "team_id", "name", "description", "owner_id", "project_type", "privacy", "status", "color", "start_date", "due_date", "completed_at", "created_at"}

func projectRow(p domain.Project) []any {
	return []any{p.ID, p.OrgID, p.TeamID, p.Name, nullable(p.Description), p.OwnerID, p.ProjectType, p.Privacy, p.Status, nullable(p.Color), day(p.StartDate), day(p.DueDate), tsPtr(p.CompletedAt), ts(p.CreatedAt)}
}

var sectionCols = []string{"id", "project_id", "name", "position", "created_at"}

func sectionRow(s domain.Section) []any {
	return []any{s.ID, s.ProjectID, s.Name, s.Position, ts(s.CreatedAt)}
}

var tagCols = []string{"id", "org_id", "name", "color", "created_at"}

func tagRow(t domain.Tag) []any {
	return []any{t.ID, t.OrgID, t.Name, t.Color, ts(t.CreatedAt)}
}

var taskCols = []string{"id", "project_id", "section_id", "name", "description", "assignee_id", "created_by", "priority", "due_date", "completed", "completed_at", "created_at", "modified_at"}

func taskRow(t domain.Task) []any {
	return []any{t.ID, t.ProjectID, nullable(t.SectionID), t.Name, nullable(t.Description), t.AssigneeID, t.CreatedBy, t.Priority, dayPtr(t.DueDate), boolInt(t.Completed), tsPtr(t.CompletedAt), ts(t.CreatedAt), ts(t.ModifiedAt)}
}

var dependencyCols = []string{"id", "dependent_task_id", "dependency_task_id", "created_at"}

func dependencyRow(d domain.TaskDependency) []any {
	return []any{d.ID, d.DependentID, d.BlockerID, ts(d.CreatedAt)}
}

var commentCols = []string{"id", "task_id", "user_id", "text", "created_at"}

func commentRow(c domain.Comment) []any {
	return []any{c.ID, c.TaskID, c.UserID, c.Text, ts(c.CreatedAt)}
}

var attachmentCols = []string{"id", "task_id", "uploaded_by", "filename", "file_type", "file_size_bytes", "created_at"}

func attachmentRow(a domain.Attachment) []any {
	return []any{a.ID, a.TaskID, a.UploadedBy, a.Filename, a.FileType, a.SizeBytes, ts(a.CreatedAt)}
}

var fieldDefCols = []string{"id", "project_id", "name", "field_type", "position", "created_at"}

func fieldDefRow(d domain.CustomFieldDefinition) []any {
	return []any{d.ID, d.ProjectID, d.Name, d.FieldType, d.Position, ts(d.CreatedAt)}
}

var fieldOptionCols = []string{"id", "field_id", "value", "color", "position"}

func fieldOptionRow(o domain.CustomFieldEnumOption) []any {
	return []any{o.ID, o.FieldID, o.Value, nullable(o.Color), o.Position}
}

var fieldValueCols = []string{"id", "task_id", "field_id", "value_text", "value_number", "value_date", "value_checkbox", "value_enum_option_id", "created_at"}

func fieldValueRow(v domain.CustomFieldValue) []any {
	return []any{v.ID, v.TaskID, v.FieldID, nullableStringPtr(v.ValueText), nullableFloatPtr(v.ValueNumber), dayPtr(v.ValueDate), boolIntPtr(v.ValueCheck), nullableStringPtr(v.ValueOptionID), ts(v.CreatedAt)}
}

var taskTagCols = []string{"id", "task_id", "tag_id", "created_at"}

func taskTagRow(t domain.TaskTag) []any {
	return []any{t.ID, t.TaskID, t.TagID, ts(t.CreatedAt)}
}
