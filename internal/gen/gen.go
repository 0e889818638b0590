// Package gen produces the synthetic entity graph stage by stage. Every
// stage draws from one injected random source and clamps timestamps against
// its causal parents and the generation instant, so the graph is valid on
// every run and reproducible from a seed.
package gen

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"worksim/internal/dist"
	"worksim/internal/research"
)

// Generator carries the shared sampling state for a single run.
type Generator struct {
	Rand       *rand.Rand
	Now        time.Time
	WindowDays int
	Data       *research.Data

	Time dist.TimeSampler
	Work dist.WorkloadSampler
	Done dist.CompletionSampler
	Due  dist.DueDateSampler

	ids idReader
}

// New builds a Generator for a fixed generation instant and seed. Now is
// truncated to the second and treated as UTC throughout.
func New(seed uint64, now time.Time, windowDays int, data *research.Data) *Generator {
	if windowDays <= 0 {
		windowDays = 180
	}
	r := dist.NewRand(seed)
	return &Generator{
		Rand:       r,
		Now:        now.UTC().Truncate(time.Second),
		WindowDays: windowDays,
		Data:       data,
		Time:       dist.TimeSampler{Bench: data.Benchmarks},
		Work:       dist.WorkloadSampler{Bench: data.Benchmarks},
		Done:       dist.CompletionSampler{Bench: data.Benchmarks},
		Due:        dist.DueDateSampler{Bench: data.Benchmarks},
		ids:        idReader{r: r},
	}
}

// Epoch is the organization birth instant: window start at 08:00 UTC.
func (g *Generator) Epoch() time.Time {
	d := g.Now.AddDate(0, 0, -g.WindowDays)
	return time.Date(d.Year(), d.Month(), d.Day(), 8, 0, 0, 0, time.UTC)
}

// NewID mints a UUID from the run's random stream so identifiers are
// deterministic under a fixed seed.
func (g *Generator) NewID() string {
	id, err := uuid.NewRandomFromReader(g.ids)
	if err != nil {
		// The reader never fails.
		panic(err)
	}
	return id.String()
}

type idReader struct {
	r *rand.Rand
}

func (ir idReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(ir.r.UintN(256))
	}
	return len(p), nil
}

// between samples a uniform instant in [lo, hi] already clamped to [lo, Now].
func (g *Generator) between(lo, hi time.Time) time.Time {
	if hi.After(g.Now) {
		hi = g.Now
	}
	return dist.ClampTime(dist.TimeBetween(g.Rand, lo, hi), lo, g.Now)
}

// clampToRun forces t into [lo, Now].
func (g *Generator) clampToRun(t, lo time.Time) time.Time {
	return dist.ClampTime(t, lo, g.Now)
}

func (g *Generator) pick(list []string) string {
	return list[g.Rand.IntN(len(list))]
}

func hoursBetween(r *rand.Rand, lo, hi float64) time.Duration {
	return time.Duration(dist.Uniform(r, lo, hi) * float64(time.Hour))
}
