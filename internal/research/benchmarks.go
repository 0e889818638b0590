package research

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingKey marks a benchmark key that the file does not supply.
var ErrMissingKey = errors.New("missing benchmark key")

// Range is an inclusive [lo, hi] pair.
type Range [2]float64

func (rg Range) Lo() float64  { return rg[0] }
func (rg Range) Hi() float64  { return rg[1] }
func (rg Range) Avg() float64 { return (rg[0] + rg[1]) / 2 }

// Benchmarks is the calibration table every sampler reads. All fields are
// required; parsing fails naming the first absent key path.
type Benchmarks struct {
	TaskCompletion struct {
		OverallRate float64
		ByPriority  map[string]float64
		OverdueRate float64
	}
	ProjectSuccess struct {
		OnTimeCompletion float64
		ScopeChangeRate  float64
	}
	Workload struct {
		TasksCreatedPerWeek   Range
		TasksCompletedPerWeek Range
		AssigneeChangeRate    Range
	}
	TeamStructure struct {
		AvgTeamSize Range
		TeamsPer100 Range
	}
	TimeMetrics struct {
		AvgTaskDurationDays      float64
		AvgTaskDurationDaysRange Range
		SprintDuration           float64
		ProjectDurationMedian    float64
		ShortProjectDays         Range
		MediumProjectDays        Range
		LongProjectDays          Range
	}
	SprintLengthWeights map[string]float64
}

// ParseBenchmarks decodes the benchmarks YAML, failing fast on any missing
// required key.
func ParseBenchmarks(data []byte) (*Benchmarks, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid benchmarks yaml: %w", err)
	}
	b := &Benchmarks{}
	var err error
	if b.TaskCompletion.OverallRate, err = floatAt(raw, "task_completion.overall_rate"); err != nil {
		return nil, err
	}
	if b.TaskCompletion.ByPriority, err = floatMapAt(raw, "task_completion.by_priority"); err != nil {
		return nil, err
	}
	for _, p := range []string{"high", "medium", "low"} {
		if _, ok := b.TaskCompletion.ByPriority[p]; !ok {
			return nil, fmt.Errorf("%w: task_completion.by_priority.%s", ErrMissingKey, p)
		}
	}
	if b.TaskCompletion.OverdueRate, err = floatAt(raw, "task_completion.overdue_rate"); err != nil {
		return nil, err
	}
	if b.ProjectSuccess.OnTimeCompletion, err = floatAt(raw, "project_success.on_time_completion"); err != nil {
		return nil, err
	}
	if b.ProjectSuccess.ScopeChangeRate, err = floatAt(raw, "project_success.scope_change_rate"); err != nil {
		return nil, err
	}
	if b.Workload.TasksCreatedPerWeek, err = rangeAt(raw, "workload.tasks_created_per_employee_per_week_range"); err != nil {
		return nil, err
	}
	if b.Workload.TasksCompletedPerWeek, err = rangeAt(raw, "workload.tasks_completed_per_employee_per_week_range"); err != nil {
		return nil, err
	}
	if b.Workload.AssigneeChangeRate, err = rangeAt(raw, "workload.assignee_change_rate_range"); err != nil {
		return nil, err
	}
	if b.TeamStructure.AvgTeamSize, err = rangeAt(raw, "team_structure.avg_team_size_range"); err != nil {
		return nil, err
	}
	if b.TeamStructure.TeamsPer100, err = rangeAt(raw, "team_structure.teams_per_100_employees_range"); err != nil {
		return nil, err
	}
	if b.TimeMetrics.AvgTaskDurationDays, err = floatAt(raw, "time_metrics.avg_task_duration_days"); err != nil {
		return nil, err
	}
	if b.TimeMetrics.AvgTaskDurationDaysRange, err = rangeAt(raw, "time_metrics.avg_task_duration_days_range"); err != nil {
		return nil, err
	}
	if b.TimeMetrics.SprintDuration, err = floatAt(raw, "time_metrics.sprint_duration"); err != nil {
		return nil, err
	}
	if b.TimeMetrics.ProjectDurationMedian, err = floatAt(raw, "time_metrics.project_duration_median"); err != nil {
		return nil, err
	}
	if b.TimeMetrics.ShortProjectDays, err = rangeAt(raw, "time_metrics.project_duration_days_range.short_projects"); err != nil {
		return nil, err
	}
	if b.TimeMetrics.MediumProjectDays, err = rangeAt(raw, "time_metrics.project_duration_days_range.medium_projects"); err != nil {
		return nil, err
	}
	if b.TimeMetrics.LongProjectDays, err = rangeAt(raw, "time_metrics.project_duration_days_range.long_projects"); err != nil {
		return nil, err
	}
	if b.SprintLengthWeights, err = floatMapAt(raw, "sprint_dynamics.sprint_length_days_distribution"); err != nil {
		return nil, err
	}
	if len(b.SprintLengthWeights) == 0 {
		return nil, fmt.Errorf("%w: sprint_dynamics.sprint_length_days_distribution is empty", ErrMissingKey)
	}
	return b, nil
}

func lookup(raw map[string]any, path string) (any, error) {
	parts := strings.Split(path, ".")
	var cur any = raw
	for _, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingKey, path)
		}
		cur, ok = m[part]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingKey, path)
		}
	}
	return cur, nil
}

func floatAt(raw map[string]any, path string) (float64, error) {
	v, err := lookup(raw, path)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("benchmark %s: expected number, got %T", path, v)
	}
	return f, nil
}

func rangeAt(raw map[string]any, path string) (Range, error) {
	v, err := lookup(raw, path)
	if err != nil {
		return Range{}, err
	}
	list, ok := v.([]any)
	if !ok || len(list) != 2 {
		return Range{}, fmt.Errorf("benchmark %s: expected [lo, hi] pair", path)
	}
	var rg Range
	for i, item := range list {
		f, ok := toFloat(item)
		if !ok {
			return Range{}, fmt.Errorf("benchmark %s: expected number, got %T", path, item)
		}
		rg[i] = f
	}
	return rg, nil
}

func floatMapAt(raw map[string]any, path string) (map[string]float64, error) {
	v, err := lookup(raw, path)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("benchmark %s: expected mapping", path)
	}
	out := make(map[string]float64, len(m))
	for k, item := range m {
		f, ok := toFloat(item)
		if !ok {
			return nil, fmt.Errorf("benchmark %s.%s: expected number, got %T", path, k, item)
		}
		out[k] = f
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
