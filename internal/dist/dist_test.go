package dist_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worksim/internal/dist"
	"worksim/internal/research"
)

func TestNewRandDeterministic(t *testing.T) {
	a := dist.NewRand(7)
	b := dist.NewRand(7)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Uint64(), b.Uint64(), "draw %d diverged", i)
	}
	assert.NotEqual(t, dist.NewRand(7).Uint64(), dist.NewRand(8).Uint64(), "different seeds should produce different streams")
}

func TestUniformBounds(t *testing.T) {
	r := dist.NewRand(1)
	for i := 0; i < 1000; i++ {
		v := dist.Uniform(r, 2, 5)
		assert.GreaterOrEqual(t, v, 2.0)
		assert.Less(t, v, 5.0)
	}
}

func TestTriangularBounds(t *testing.T) {
	r := dist.NewRand(1)
	for i := 0; i < 1000; i++ {
		v := dist.Triangular(r, 6, 12, 9)
		assert.GreaterOrEqual(t, v, 6.0)
		assert.LessOrEqual(t, v, 12.0)
	}
	assert.Equal(t, 3.0, dist.Triangular(r, 3, 3, 3), "degenerate interval collapses to lo")
}

func TestBetaBounds(t *testing.T) {
	r := dist.NewRand(1)
	var sum float64
	const n = 2000
	for i := 0; i < n; i++ {
		v := dist.Beta(r, 2, 5)
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 1.0)
		sum += v
	}
	// Mean of Beta(2,5) is 2/7; allow generous sampling error.
	assert.InDelta(t, 2.0/7.0, sum/n, 0.03)
}

func TestWeightedIndex(t *testing.T) {
	r := dist.NewRand(1)
	assert.Equal(t, 0, dist.WeightedIndex(r, []float64{0, 0, 0}))
	for i := 0; i < 500; i++ {
		idx := dist.WeightedIndex(r, []float64{0, 1, 0, 2})
		assert.Contains(t, []int{1, 3}, idx, "zero-weight entries must never be picked")
	}
}

func TestIntBetweenInclusive(t *testing.T) {
	r := dist.NewRand(1)
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		v := dist.IntBetween(r, 3, 5)
		require.GreaterOrEqual(t, v, 3)
		require.LessOrEqual(t, v, 5)
		seen[v] = true
	}
	assert.Len(t, seen, 3, "both endpoints should be reachable")
	assert.Equal(t, 4, dist.IntBetween(r, 4, 4))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, dist.Clamp(0.5, 1, 2))
	assert.Equal(t, 2.0, dist.Clamp(3, 1, 2))
	assert.Equal(t, 1.5, dist.Clamp(1.5, 1, 2))
}

func TestClampTimeAndTimeBetween(t *testing.T) {
	r := dist.NewRand(1)
	lo := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	hi := lo.AddDate(0, 0, 30)
	assert.Equal(t, lo, dist.ClampTime(lo.Add(-time.Hour), lo, hi))
	assert.Equal(t, hi, dist.ClampTime(hi.Add(time.Hour), lo, hi))
	for i := 0; i < 1000; i++ {
		v := dist.TimeBetween(r, lo, hi)
		require.False(t, v.Before(lo))
		require.False(t, v.After(hi))
	}
	assert.Equal(t, lo, dist.TimeBetween(r, lo, lo), "degenerate interval")
	assert.Equal(t, lo, dist.TimeBetween(r, lo, lo.Add(-time.Hour)), "inverted interval")
}

func TestAtBusinessHour(t *testing.T) {
	r := dist.NewRand(1)
	base := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	for i := 0; i < 200; i++ {
		v := dist.AtBusinessHour(r, base, 8, 17)
		assert.GreaterOrEqual(t, v.Hour(), 8)
		assert.LessOrEqual(t, v.Hour(), 17)
		assert.Equal(t, base.Day(), v.Day())
	}
}

func loadBenchmarks(t *testing.T) *research.Benchmarks {
	t.Helper()
	data, err := research.Load("")
	require.NoError(t, err)
	return data.Benchmarks
}

func TestSprintLengthDays(t *testing.T) {
	b := loadBenchmarks(t)
	s := dist.TimeSampler{Bench: b}
	r := dist.NewRand(1)
	for i := 0; i < 200; i++ {
		n := s.SprintLengthDays(r)
		assert.Greater(t, n, 0)
		assert.LessOrEqual(t, n, 30)
	}
}

func TestProjectDurationDays(t *testing.T) {
	b := loadBenchmarks(t)
	s := dist.TimeSampler{Bench: b}
	r := dist.NewRand(1)
	for _, typ := range []string{"sprint", "bug_tracking", "roadmap"} {
		for i := 0; i < 100; i++ {
			d := s.ProjectDurationDays(r, typ)
			assert.Greater(t, d, 0, "type %s", typ)
		}
	}
}

func TestCompletionRates(t *testing.T) {
	b := loadBenchmarks(t)
	s := dist.CompletionSampler{Bench: b}
	assert.Equal(t, b.TaskCompletion.ByPriority["high"], s.BaseRate("high"))
	assert.Equal(t, b.TaskCompletion.ByPriority["high"], s.BaseRate("urgent"), "urgent shares the high rate")
	assert.Equal(t, b.TaskCompletion.OverallRate, s.BaseRate("unknown"))
	assert.InDelta(t, s.BaseRate("medium")*0.6, s.Rate("medium", true, false), 1e-9)
	assert.InDelta(t, s.BaseRate("medium")*0.6*0.7, s.Rate("medium", true, true), 1e-9)
}

func TestLeadTimesNeverBelowOneDay(t *testing.T) {
	b := loadBenchmarks(t)
	s := dist.DueDateSampler{Bench: b}
	r := dist.NewRand(1)
	for i := 0; i < 2000; i++ {
		assert.GreaterOrEqual(t, s.LeadTimeDays(r), 1.0)
		assert.GreaterOrEqual(t, s.PressuredLeadTimeDays(r), 1.0)
	}
}

func TestWorkloadSampler(t *testing.T) {
	b := loadBenchmarks(t)
	s := dist.WorkloadSampler{Bench: b}
	r := dist.NewRand(1)
	rg := b.Workload.TasksCompletedPerWeek
	for i := 0; i < 500; i++ {
		c := s.Capacity(r)
		assert.GreaterOrEqual(t, c, rg.Lo())
		assert.LessOrEqual(t, c, rg.Hi())
	}
	assert.Equal(t, 2.0, s.OverloadRatio(2, 0.5), "capacity divisor floors at 1")
	assert.False(t, s.IsOverloaded(r, 0.5))
}
