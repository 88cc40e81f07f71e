package runner

import (
	"math/rand/v2"
	"time"
)

// Strategy supplies the timing and outcome of a simulated run. The default
// implementation uses fixed delays and a Bernoulli draw; tests substitute a
// deterministic strategy instead of relying on elapsed time or randomness.
type Strategy interface {
	// InitDelay models environment spin-up before the first step.
	InitDelay() time.Duration

	// StepDelay models the execution time of one step.
	StepDelay() time.Duration

	// Outcome draws the pass/fail result for one case. True means pass.
	Outcome() bool
}

// RandomStrategy is the production strategy: fixed delays, ~85% pass rate.
type RandomStrategy struct {
	Init     time.Duration
	Step     time.Duration
	PassRate float64
}

func NewRandomStrategy() *RandomStrategy {
	return &RandomStrategy{
		Init:     600 * time.Millisecond,
		Step:     400 * time.Millisecond,
		PassRate: 0.85,
	}
}

func (s *RandomStrategy) InitDelay() time.Duration { return s.Init }
func (s *RandomStrategy) StepDelay() time.Duration { return s.Step }
func (s *RandomStrategy) Outcome() bool            { return rand.Float64() < s.PassRate }
