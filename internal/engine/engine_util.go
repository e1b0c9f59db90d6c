package engine

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source is the randomness a behaviour draws from. It is handed to the gonum
// distributions as their Src, so tests can pass a seeded PCG or a stub.
type Source = rand.Source

type globalSource struct{}

func (globalSource) Uint64() uint64 { return rand.Uint64() }

// Global is the process-wide generator. The top-level math/rand/v2 functions
// are safe for concurrent use.
var Global Source = globalSource{}

func newNormal(src Source, mean, stdDev float64) (distuv.Normal, error) {
	if !finite(mean) || !finite(stdDev) || stdDev < 0 {
		return distuv.Normal{}, fmt.Errorf("%w: normal(mean=%v, stddev=%v)", ErrInvalidDistribution, mean, stdDev)
	}
	return distuv.Normal{Mu: mean, Sigma: stdDev, Src: src}, nil
}

func newUniform(src Source, low, high float64) (distuv.Uniform, error) {
	if !finite(low) || !finite(high) || low >= high {
		return distuv.Uniform{}, fmt.Errorf("%w: uniform[%v, %v)", ErrInvalidDistribution, low, high)
	}
	return distuv.Uniform{Min: low, Max: high, Src: src}, nil
}

func coin(src Source) distuv.Bernoulli {
	return distuv.Bernoulli{P: 0.5, Src: src}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func pick[T any](src Source, from []T) T {
	return from[rand.New(src).IntN(len(from))]
}
