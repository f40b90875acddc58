// Package sampling provides the random-variate primitives consumed by the
// order-book generator and the financial simulator. Randomness is a
// capability passed to consumers, never an ambient global, so deterministic
// sources can be substituted in tests.
package sampling

import (
	"math"
	"math/rand/v2"
	"sync"
)

// truncatedNormalRetries bounds the rejection loop before falling back to a
// clamped triangular draw.
const truncatedNormalRetries = 12

// Source draws random variates. Implementations must be safe for concurrent
// use: one source is shared by the engine loop and the schedulers, each
// drawing from its own goroutine.
type Source interface {
	// Uniform draws from U(min, max).
	Uniform(min, max float64) float64
	// Triangular draws from the asymmetric triangular distribution with the
	// given support and mode.
	Triangular(min, mode, max float64) float64
	// TruncatedNormal draws from N(mean, stdDev) restricted to [min, max]
	// via bounded rejection sampling.
	TruncatedNormal(mean, stdDev, min, max float64) float64
}

// Rand is the production Source backed by math/rand. The underlying
// generator is not concurrency-safe, so every draw runs under the mutex.
type Rand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRand builds a Source seeded from the process entropy pool.
func NewRand() *Rand {
	return &Rand{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

func (r *Rand) Uniform(min, max float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return min + r.rng.Float64()*(max-min)
}

func (r *Rand) Triangular(min, mode, max float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return triangular(r.rng.Float64(), min, mode, max)
}

func (r *Rand) TruncatedNormal(mean, stdDev, min, max float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < truncatedNormalRetries; i++ {
		candidate := mean + r.rng.NormFloat64()*stdDev
		if candidate >= min && candidate <= max {
			return candidate
		}
	}
	return clamp(triangular(r.rng.Float64(), min, mean, max), min, max)
}

// triangular maps a uniform quantile u into the triangular distribution by
// inverse transform.
func triangular(u, min, mode, max float64) float64 {
	if max <= min {
		return min
	}
	c := (mode - min) / (max - min)
	if u < c {
		return min + math.Sqrt(u*(max-min)*(mode-min))
	}
	return max - math.Sqrt((1-u)*(max-min)*(max-mode))
}

func clamp(v, min, max float64) float64 {
	return math.Min(max, math.Max(min, v))
}

// Fixed is a deterministic Source for tests: Uniform returns the midpoint,
// Triangular the mode and TruncatedNormal the clamped mean.
type Fixed struct{}

func (Fixed) Uniform(min, max float64) float64 {
	return min + (max-min)/2
}

func (Fixed) Triangular(_, mode, _ float64) float64 {
	return mode
}

func (Fixed) TruncatedNormal(mean, _, min, max float64) float64 {
	return clamp(mean, min, max)
}
