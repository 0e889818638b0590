// Package dist holds the seedable sampling primitives behind every
// generator. All functions draw from an explicit *rand.Rand so a run is
// reproducible from a single seed.
package dist

import (
	"math"
	"math/rand/v2"
	"time"
)

// NewRand returns a generator seeded deterministically.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Uniform samples from [lo, hi).
func Uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Gauss samples a normal with the given mean and standard deviation.
func Gauss(r *rand.Rand, mean, stddev float64) float64 {
	return mean + stddev*r.NormFloat64()
}

// Triangular samples from the triangular distribution on [lo, hi] with the
// given mode, via the inverse CDF.
func Triangular(r *rand.Rand, lo, hi, mode float64) float64 {
	if hi <= lo {
		return lo
	}
	u := r.Float64()
	c := (mode - lo) / (hi - lo)
	if u < c {
		return lo + math.Sqrt(u*(hi-lo)*(mode-lo))
	}
	return hi - math.Sqrt((1-u)*(hi-lo)*(hi-mode))
}

// Beta samples from Beta(a, b) as a ratio of gamma variates.
func Beta(r *rand.Rand, a, b float64) float64 {
	x := gamma(r, a)
	y := gamma(r, b)
	if x+y == 0 {
		return 0
	}
	return x / (x + y)
}

// gamma samples Gamma(shape, 1) with the Marsaglia-Tsang method.
func gamma(r *rand.Rand, shape float64) float64 {
	if shape < 1 {
		u := r.Float64()
		return gamma(r, shape+1) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		x := r.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := r.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

// LogNormal samples exp(N(mu, sigma)).
func LogNormal(r *rand.Rand, mu, sigma float64) float64 {
	return math.Exp(mu + sigma*r.NormFloat64())
}

// Exponential samples an exponential with the given mean.
func Exponential(r *rand.Rand, mean float64) float64 {
	return r.ExpFloat64() * mean
}

// Bernoulli returns true with probability p.
func Bernoulli(r *rand.Rand, p float64) bool {
	return r.Float64() < p
}

// WeightedIndex picks an index proportionally to weights. Non-positive
// weights are treated as zero; if all weights are zero the first index wins.
func WeightedIndex(r *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	target := r.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		target -= w
		if target < 0 {
			return i
		}
	}
	return len(weights) - 1
}

// IntBetween samples an integer in [lo, hi] inclusive.
func IntBetween(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// Clamp forces v into [lo, hi]. This is the one clamp used everywhere a
// sampled value must respect causal bounds.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampTime forces t into [lo, hi].
func ClampTime(t, lo, hi time.Time) time.Time {
	if t.Before(lo) {
		return lo
	}
	if t.After(hi) {
		return hi
	}
	return t
}

// TimeBetween samples a uniform instant in [lo, hi]. Degenerate or inverted
// intervals collapse to lo.
func TimeBetween(r *rand.Rand, lo, hi time.Time) time.Time {
	span := hi.Sub(lo)
	if span <= 0 {
		return lo
	}
	return lo.Add(time.Duration(r.Int64N(int64(span) + 1)))
}

// AtBusinessHour moves t to a random hour in [loHour, hiHour] on the same
// day, with random minutes and seconds.
func AtBusinessHour(r *rand.Rand, t time.Time, loHour, hiHour int) time.Time {
	h := IntBetween(r, loHour, hiHour)
	return time.Date(t.Year(), t.Month(), t.Day(), h, r.IntN(60), r.IntN(60), 0, time.UTC)
}
