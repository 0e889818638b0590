package repo

import (
	"context"
	"fmt"
	"strings"

	"worksim/internal/domain"
)

// SQLite caps bound parameters per statement; stay well under it so the
// limit holds across driver versions.
const maxBatchParams = 900

func rowsPerStatement(cols int) int {
	n := maxBatchParams / cols
	if n < 1 {
		return 1
	}
	return n
}

func insertBatch(ctx context.Context, r Repo, table string, cols []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	placeholder := "(" + strings.Repeat("?,", len(cols)-1) + "?)"
	per := rowsPerStatement(len(cols))
	for start := 0; start < len(rows); start += per {
		end := start + per
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]
		args := make([]any, 0, len(chunk)*len(cols))
		values := make([]string, 0, len(chunk))
		for _, row := range chunk {
			if len(row) != len(cols) {
				return fmt.Errorf("insert %s: row has %d values, want %d", table, len(row), len(cols))
			}
			values = append(values, placeholder)
			args = append(args, row...)
		}
		stmt := fmt.Sprintf("INSERT INTO %s(%s) VALUES %s", table, strings.Join(cols, ","), strings.Join(values, ","))
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func collect[T any](items []T, row func(T) []any) [][]any {
	rows := make([][]any, len(items))
	for i, it := range items {
		rows[i] = row(it)
	}
	return rows
}

// InsertDataset writes the full entity graph in dependency order, one
// transaction per table. Foreign keys are enforced, so order matters.
func (r Repo) InsertDataset(ctx context.Context, ds *domain.Dataset) error {
	steps := []struct {
		table string
		cols  []string
		rows  [][]any
	}{
		{"organizations", organizationCols, [][]any{organizationRow(ds.Organization)}},
		{"users", userCols, collect(ds.Users, userRow)},
		{"teams", teamCols, collect(ds.Teams, teamRow)},
		{"team_memberships", membershipCols, collect(ds.Memberships, membershipRow)},
		{"projects", projectCols, collect(ds.Projects, projectRow)},
		{"sections", sectionCols, collect(ds.Sections, sectionRow)},
		{"tags", tagCols, collect(ds.Tags, tagRow)},
		{"tasks", taskCols, collect(ds.Tasks, taskRow)},
		{"task_dependencies", dependencyCols, collect(ds.Dependencies, dependencyRow)},
		{"comments", commentCols, collect(ds.Comments, commentRow)},
		{"attachments", attachmentCols, collect(ds.Attachments, attachmentRow)},
		{"custom_field_definitions", fieldDefCols, collect(ds.FieldDefs, fieldDefRow)},
		{"custom_field_enum_options", fieldOptionCols, collect(ds.FieldOptions, fieldOptionRow)},
		{"custom_field_values", fieldValueCols, collect(ds.FieldValues, fieldValueRow)},
		{"task_tags", taskTagCols, collect(ds.TaskTags, taskTagRow)},
	}
	for _, s := range steps {
		if err := insertBatch(ctx, r, s.table, s.cols, s.rows); err != nil {
			return err
		}
	}
	return nil
}
