package forecast

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Jitter supplies the multiplicative noise applied to each forecast step.
type Jitter interface {
	Factor() float64
}

// NoJitter leaves every forecast step untouched.
type NoJitter struct{}

// Factor always returns 1.
func (NoJitter) Factor() float64 { return 1 }

// UniformJitter draws factors uniformly from [1-amplitude, 1+amplitude]
// using a seeded PCG source, so a given seed always replays the same
// sequence. It is not safe for concurrent use.
type UniformJitter struct {
	dist distuv.Uniform
	rng  *rand.Rand
}

// NewUniformJitter returns a jitter source with the given amplitude, e.g.
// 0.05 for ±5%.
func NewUniformJitter(amplitude float64, seed uint64) *UniformJitter {
	return &UniformJitter{
		dist: distuv.Uniform{Min: 1 - amplitude, Max: 1 + amplitude},
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Factor returns the next multiplier.
func (j *UniformJitter) Factor() float64 {
	return j.dist.Quantile(j.rng.Float64())
}
