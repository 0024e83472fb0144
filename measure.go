package qsim

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"time"
)

// RandomSource supplies uniform samples in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewRandomSource returns a PCG source; seed 0 seeds from the clock.
func NewRandomSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Counts maps sampled basis indices to how often they occurred.
type Counts map[int]int

/*
Measure samples a basis index from the distribution |a_i|² of state. The
state is left untouched: a caller that wants the post-measurement state
follows up with Collapse. Rounding that leaves the cumulative sum just
short of the draw falls back to the last index with non-zero probability.
*/
func Measure(state *StateVector, rng RandomSource) (int, error) {
	if state == nil {
		return 0, shapeErrorf("measure", "nil state")
	}

	return sampleIndex(state.Probabilities(), rng.Float64()), nil
}

func sampleIndex(probs []float64, r float64) int {
	cumulative := 0.0
	last := 0

	for i, p := range probs {
		if p <= 0 {
			continue
		}
		cumulative += p
		last = i
		if r < cumulative {
			return i
		}
	}

	return last
}

/*
Sample draws shots independent outcomes from the same state. Because
Measure does not collapse, this is the distribution a real device would
produce over shots repeated runs of the circuit.
*/
func Sample(state *StateVector, shots int, rng RandomSource) (Counts, error) {
	if state == nil {
		return nil, shapeErrorf("sample", "nil state")
	}
	if shots < 0 {
		return nil, shapeErrorf("sample", "negative shot count %d", shots)
	}

	probs := state.Probabilities()
	counts := make(Counts)

	for i := 0; i < shots; i++ {
		counts[sampleIndex(probs, rng.Float64())]++
	}

	return counts, nil
}

/*
Collapse projects state onto basis state k. The surviving amplitude keeps
its phase and is scaled to modulus one; every other amplitude becomes zero.
*/
func Collapse(state *StateVector, k int) error {
	if state == nil {
		return shapeErrorf("collapse", "nil state")
	}
	if k < 0 || k >= len(state.amps) {
		return shapeErrorf("collapse", "basis index %d out of range", k)
	}

	amp := state.amps[k]
	if amp == 0 {
		return shapeErrorf("collapse", "basis state %d has zero amplitude", k)
	}
	amp /= complex(cmplx.Abs(amp), 0)

	for i := range state.amps {
		state.amps[i] = 0
	}
	state.amps[k] = amp

	return nil
}

/*
MeasureQubit projectively measures qubit q. It samples the qubit's marginal
distribution, zeroes every amplitude inconsistent with the outcome and
renormalizes the rest. It returns 0 or 1.
*/
func MeasureQubit(state *StateVector, q int, rng RandomSource) (int, error) {
	if state == nil {
		return 0, shapeErrorf("measure", "nil state")
	}
	if q < 0 || q >= state.numQubits {
		return 0, shapeErrorf("measure", "qubit %d out of range for %d qubits", q, state.numQubits)
	}

	bit := 1 << q
	prob0, prob1 := 0.0, 0.0
	for i, amp := range state.amps {
		p := real(amp * cmplx.Conj(amp))
		if i&bit != 0 {
			prob1 += p
		} else {
			prob0 += p
		}
	}

	total := prob0 + prob1
	if total <= 0 {
		return 0, shapeErrorf("measure", "state has zero norm")
	}

	outcome, kept := 0, prob0
	if rng.Float64() < prob1/total {
		outcome, kept = 1, prob1
	}

	// A branch with no mass is never chosen, whatever the rounding.
	if kept <= 0 {
		outcome, kept = 1-outcome, total-kept
	}

	norm := complex(math.Sqrt(kept), 0)
	for i := range state.amps {
		if (i&bit != 0) == (outcome == 1) {
			state.amps[i] /= norm
		} else {
			state.amps[i] = 0
		}
	}

	return outcome, nil
}
