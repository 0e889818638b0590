package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"worksim/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

// Tables lists every dataset table in insert order.
var Tables = []string{
	"organizations",
	"users",
	"teams",
	"team_memberships",
	"projects",
	"sections",
	"tags",
	"tasks",
	"task_dependencies",
	"comments",
	"attachments",
	"custom_field_definitions",
	"custom_field_enum_options",
	"custom_field_values",
	"task_tags",
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeFormat, s)
}

func parseTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseDay(s string) (time.Time, error) {
	return time.Parse(dateFormat, s)
}

func parseDayPtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseDay(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TableCounts returns the row count of every dataset table.
func (r Repo) TableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(Tables))
	for _, t := range Tables {
		var n int
		if err := r.DB.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, t)).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", t, err)
		}
		counts[t] = n
	}
	return counts, nil
}

// FKViolation is one row reported by PRAGMA foreign_key_check.
type FKViolation struct {
	Table  string `json:"table"`
	RowID  int64  `json:"rowid"`
	Parent string `json:"parent"`
	FKID   int    `json:"fk_id"`
}

// ValidateForeignKeys runs SQLite's whole-database foreign key scan and
// returns any dangling references.
func (r Repo) ValidateForeignKeys(ctx context.Context) ([]FKViolation, error) {
	rows, err := r.DB.QueryContext(ctx, `PRAGMA foreign_key_check`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var violations []FKViolation
	for rows.Next() {
		var v FKViolation
		var rowid sql.NullInt64
		if err := rows.Scan(&v.Table, &rowid, &v.Parent, &v.FKID); err != nil {
			return nil, err
		}
		v.RowID = rowid.Int64
		violations = append(violations, v)
	}
	return violations, rows.Err()
}

// Optimize reclaims space and refreshes planner statistics after a bulk load.
func (r Repo) Optimize(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, `ANALYZE`); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	if _, err := r.DB.ExecContext(ctx, `VACUUM`); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}

func (r Repo) GetOrganization(ctx context.Context) (domain.Organization, error) {
	var o domain.Organization
	var created string
	err := r.DB.QueryRowContext(ctx, `SELECT id,name,domain,created_at FROM organizations LIMIT 1`).
		Scan(&o.ID, &o.Name, &o.Domain, &created)
	if err == sql.ErrNoRows {
		return o, ErrNotFound
	}
	if err != nil {
		return o, err
	}
	o.CreatedAt, err = parseTime(created)
	return o, err
}

func (r Repo) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,org_id,email,name,role,department,job_title,COALESCE(photo_url,''),is_active,workload_capacity,created_at,last_active_at
		FROM users ORDER BY created_at, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.User
	for rows.Next() {
		var u domain.User
		var created string
		var lastActive sql.NullString
		if err := rows.Scan(&u.ID, &u.OrgID, &u.Email, &u.Name, &u.Role, &u.Department, &u.JobTitle, &u.PhotoURL, &u.IsActive, &u.WorkloadCapacity, &created, &lastActive); err != nil {
			return nil, err
		}
		if u.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if u.LastActiveAt, err = parseTimePtr(lastActive); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func scanProject(scan func(dest ...any) error) (domain.Project, error) {
	var p domain.Project
	var desc, color, completed sql.NullString
	var start, due, created string
	err := scan(&p.ID, &p.OrgID, &p.TeamID, &p.Name, &desc, &p.OwnerID, &p.ProjectType, &p.Privacy, &p.Status, &color, &start, &due, &completed, &created)
	if err != nil {
		return p, err
	}
	p.Description = desc.String
	p.Color = color.String
	if p.StartDate, err = parseDay(start); err != nil {
		return p, err
	}
	if p.DueDate, err = parseDay(due); err != nil {
		return p, err
	}
	if p.CompletedAt, err = parseTimePtr(completed); err != nil {
		return p, err
	}
	p.CreatedAt, err = parseTime(created)
	return p, err
}

const projectSelect = `SELECT id,org_id,team_id,name,description,owner_id,project_type,privacy,status,color,start_date,due_date,completed_at,created_at FROM projects`

func (r Repo) GetProject(ctx context.Context, id string) (domain.Project, error) {
	row := r.DB.QueryRowContext(ctx, projectSelect+` WHERE id=?`, id)
	p, err := scanProject(row.Scan)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	return p, err
}

func (r Repo) ListProjects(ctx context.Context, limit, offset int) ([]domain.Project, error) {
	rows, err := r.DB.QueryContext(ctx, projectSelect+` ORDER BY created_at, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r Repo) ListTasksByProject(ctx context.Context, projectID string, limit, offset int) ([]domain.Task, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,project_id,COALESCE(section_id,''),name,COALESCE(description,''),assignee_id,created_by,priority,due_date,completed,completed_at,created_at,modified_at
		FROM tasks WHERE project_id=? ORDER BY created_at, id LIMIT ? OFFSET ?`, projectID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Task
	for rows.Next() {
		var t domain.Task
		var due, completedAt sql.NullString
		var created, modified string
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.SectionID, &t.Name, &t.Description, &t.AssigneeID, &t.CreatedBy, &t.Priority, &due, &t.Completed, &completedAt, &created, &modified); err != nil {
			return nil, err
		}
		if t.DueDate, err = parseDayPtr(due); err != nil {
			return nil, err
		}
		if t.CompletedAt, err = parseTimePtr(completedAt); err != nil {
			return nil, err
		}
		if t.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if t.ModifiedAt, err = parseTime(modified); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}
