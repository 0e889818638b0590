package dist

import (
	"math"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"time"

	"worksim/internal/research"
)

// TimeSampler produces durations and date offsets from the time benchmarks.
type TimeSampler struct {
	Bench *research.Benchmarks
}

// SprintLengthDays picks a sprint length from the weighted "N_days"
// distribution.
func (s TimeSampler) SprintLengthDays(r *rand.Rand) int {
	keys := make([]string, 0, len(s.Bench.SprintLengthWeights))
	for k := range s.Bench.SprintLengthWeights {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	weights := make([]float64, len(keys))
	for i, k := range keys {
		weights[i] = s.Bench.SprintLengthWeights[k]
	}
	picked := keys[WeightedIndex(r, weights)]
	n, err := strconv.Atoi(strings.TrimSuffix(picked, "_days"))
	if err != nil || n <= 0 {
		return int(s.Bench.TimeMetrics.SprintDuration)
	}
	return n
}

// ProjectDurationDays samples a duration uniformly from the range for the
// project type's length class.
func (s TimeSampler) ProjectDurationDays(r *rand.Rand, projectType string) int {
	tm := s.Bench.TimeMetrics
	var rg research.Range
	switch projectType {
	case "sprint":
		rg = tm.ShortProjectDays
	case "bug_tracking", "campaign":
		rg = tm.MediumProjectDays
	default:
		rg = tm.LongProjectDays
	}
	return int(math.Round(Uniform(r, rg.Lo(), rg.Hi())))
}

// TaskDurationDays samples a right-skewed task duration over the benchmark
// range.
func (s TimeSampler) TaskDurationDays(r *rand.Rand) float64 {
	rg := s.Bench.TimeMetrics.AvgTaskDurationDaysRange
	return rg.Lo() + Beta(r, 2, 5)*(rg.Hi()-rg.Lo())
}

// StartOffsetDays samples an early-heavy offset within a window of days.
func (s TimeSampler) StartOffsetDays(r *rand.Rand, windowDays float64) float64 {
	return Beta(r, 2, 4) * windowDays
}

// DeadlineSlackDays samples extra slack before a deadline, mean two days.
func (s TimeSampler) DeadlineSlackDays(r *rand.Rand) float64 {
	return Exponential(r, 2)
}

// AddDays shifts t by a fractional number of days.
func AddDays(t time.Time, days float64) time.Time {
	return t.Add(time.Duration(days * 24 * float64(time.Hour)))
}

// WorkloadSampler models per-user task throughput and overload.
type WorkloadSampler struct {
	Bench *research.Benchmarks
}

// TasksCreatedPerWeek samples one user's weekly task creation count.
func (s WorkloadSampler) TasksCreatedPerWeek(r *rand.Rand) int {
	rg := s.Bench.Workload.TasksCreatedPerWeek
	return IntBetween(r, int(rg.Lo()), int(rg.Hi()))
}

// Capacity samples weekly completion capacity, triangular around mid-range.
func (s WorkloadSampler) Capacity(r *rand.Rand) float64 {
	rg := s.Bench.Workload.TasksCompletedPerWeek
	return Triangular(r, rg.Lo(), rg.Hi(), rg.Avg())
}

// OverloadRatio is created work over completion capacity. The divisor is
// floored at 1 so a zero-capacity user does not blow up the ratio.
func (s WorkloadSampler) OverloadRatio(created, capacity float64) float64 {
	return created / math.Max(1, capacity)
}

// IsOverloaded decides overload with a fuzzy threshold above 1.0.
func (s WorkloadSampler) IsOverloaded(r *rand.Rand, ratio float64) bool {
	return ratio > Uniform(r, 1.0, 1.5)
}

// ShouldReassign decides whether a task changes assignee; overloaded users
// shed work more often.
func (s WorkloadSampler) ShouldReassign(r *rand.Rand, overloaded bool) bool {
	rg := s.Bench.Workload.AssigneeChangeRate
	p := Uniform(r, rg.Lo(), rg.Hi())
	if overloaded {
		p *= 1.5
	}
	return Bernoulli(r, math.Min(p, 0.9))
}

// CompletionSampler models completion outcomes from the completion
// benchmarks.
type CompletionSampler struct {
	Bench *research.Benchmarks
}

// BaseRate returns the completion rate for a priority; urgent shares the
// high-priority rate, unknown priorities fall back to the overall rate.
func (s CompletionSampler) BaseRate(priority string) float64 {
	if priority == "urgent" {
		priority = "high"
	}
	if rate, ok := s.Bench.TaskCompletion.ByPriority[priority]; ok {
		return rate
	}
	return s.Bench.TaskCompletion.OverallRate
}

// Rate applies overdue and overload penalties to the base rate.
func (s CompletionSampler) Rate(priority string, overdue, overloaded bool) float64 {
	rate := s.BaseRate(priority)
	if overdue {
		rate *= 0.6
	}
	if overloaded {
		rate *= 0.7
	}
	return rate
}

// IsCompleted draws the completion outcome.
func (s CompletionSampler) IsCompleted(r *rand.Rand, priority string, overdue, overloaded bool) bool {
	return Bernoulli(r, s.Rate(priority, overdue, overloaded))
}

// ScopeChanged draws whether a project's scope shifted mid-flight.
func (s CompletionSampler) ScopeChanged(r *rand.Rand) bool {
	return Bernoulli(r, s.Bench.ProjectSuccess.ScopeChangeRate)
}

// Reopened draws whether a completed task got reopened; reopens track scope
// churn at a fraction of its rate.
func (s CompletionSampler) Reopened(r *rand.Rand) bool {
	return Bernoulli(r, s.Bench.ProjectSuccess.ScopeChangeRate*0.4)
}

// ProjectOnTime draws whether a finished project landed by its due date.
func (s CompletionSampler) ProjectOnTime(r *rand.Rand) bool {
	return Bernoulli(r, s.Bench.ProjectSuccess.OnTimeCompletion)
}

// DueDateSampler models lead times between creation and due date.
type DueDateSampler struct {
	Bench *research.Benchmarks
}

// LeadTimeDays samples a log-normal lead time scaled to the average task
// duration, never below one day.
func (s DueDateSampler) LeadTimeDays(r *rand.Rand) float64 {
	days := LogNormal(r, 1.2, 0.6) * s.Bench.TimeMetrics.AvgTaskDurationDays / 4
	return math.Max(1, days)
}

// PressuredLeadTimeDays shortens a fraction of lead times the way
// chronically overdue teams set aggressive deadlines.
func (s DueDateSampler) PressuredLeadTimeDays(r *rand.Rand) float64 {
	days := s.LeadTimeDays(r)
	if Bernoulli(r, s.Bench.TaskCompletion.OverdueRate) {
		return math.Max(1, days*Uniform(r, 0.4, 0.7))
	}
	return math.Max(1, days*Uniform(r, 0.9, 1.3))
}
