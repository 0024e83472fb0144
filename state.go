package qsim

import (
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"
	"strings"
)

// Default tolerances for ApproximatelyEquals.
const (
	DefaultRelativeTolerance = 1e-5
	DefaultAbsoluteTolerance = 1e-5
)

/*
StateVector holds the 2^N complex amplitudes of an N-qubit pure state,
ordered by basis index. Bit i of an index is the classical value of qubit i
in that term (bit 0 is the least significant), and every applier, the
reference path and String follow that convention.

The buffer is owned exclusively by the StateVector. It is only mutated in
place by the gate appliers and by the explicit measurement operations
Collapse and MeasureQubit, and it is never resized.
*/
type StateVector struct {
	numQubits int
	amps      []complex128
}

// NewStateVector returns the n-qubit basis state |0…0⟩.
func NewStateVector(n int) (*StateVector, error) {
	if n < 1 {
		return nil, shapeErrorf("state", "qubit count must be positive, got %d", n)
	}
	if n > 62 {
		return nil, shapeErrorf("state", "qubit count %d does not fit an index", n)
	}

	amps := make([]complex128, 1<<n)
	amps[0] = 1

	return &StateVector{numQubits: n, amps: amps}, nil
}

/*
NewStateVectorFrom copies amps into a new StateVector. The length must be a
power of two of at least 2. The amplitudes are not renormalized.
*/
func NewStateVectorFrom(amps []complex128) (*StateVector, error) {
	size := len(amps)
	if size < 2 || size&(size-1) != 0 {
		return nil, shapeErrorf("state", "length %d is not a power of two >= 2", size)
	}

	buf := make([]complex128, size)
	copy(buf, amps)

	return &StateVector{
		numQubits: bits.TrailingZeros(uint(size)),
		amps:      buf,
	}, nil
}

// NumQubits returns N.
func (s *StateVector) NumQubits() int {
	return s.numQubits
}

// Len returns 2^N.
func (s *StateVector) Len() int {
	return len(s.amps)
}

// Amplitude returns the amplitude of basis state i.
func (s *StateVector) Amplitude(i int) complex128 {
	return s.amps[i]
}

// Amplitudes returns a copy of the amplitude buffer.
func (s *StateVector) Amplitudes() []complex128 {
	out := make([]complex128, len(s.amps))
	copy(out, s.amps)

	return out
}

// Clone returns an independent copy of the state.
func (s *StateVector) Clone() *StateVector {
	return &StateVector{numQubits: s.numQubits, amps: s.Amplitudes()}
}

// Probabilities returns |a_i|² for every basis state.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.amps))
	for i, amp := range s.amps {
		probs[i] = real(amp * cmplx.Conj(amp))
	}

	return probs
}

// Norm returns the total probability, which stays 1 under unitary evolution.
func (s *StateVector) Norm() float64 {
	total := 0.0
	for _, amp := range s.amps {
		total += real(amp * cmplx.Conj(amp))
	}

	return total
}

// QubitProbability is the marginal distribution of a single qubit.
type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginal distribution of every qubit.
func (s *StateVector) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.numQubits)

	for i, amp := range s.amps {
		p := real(amp * cmplx.Conj(amp))
		for q := 0; q < s.numQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += p
			} else {
				probs[q].Prob0 += p
			}
		}
	}

	return probs
}

type tolerance struct {
	rel float64
	abs float64
}

// ToleranceOption overrides a default of ApproximatelyEquals.
type ToleranceOption func(*tolerance)

// WithRelativeTolerance sets the relative tolerance.
func WithRelativeTolerance(rel float64) ToleranceOption {
	return func(t *tolerance) {
		t.rel = rel
	}
}

// WithAbsoluteTolerance sets the absolute tolerance.
func WithAbsoluteTolerance(abs float64) ToleranceOption {
	return func(t *tolerance) {
		t.abs = abs
	}
}

/*
ApproximatelyEquals reports whether every amplitude of s matches the one in
other, with |a - b| <= abs + rel*|b|. States of different sizes are never
equal.
*/
func (s *StateVector) ApproximatelyEquals(other *StateVector, opts ...ToleranceOption) bool {
	if other == nil {
		return false
	}

	return s.EqualsAmplitudes(other.amps, opts...)
}

// EqualsAmplitudes is ApproximatelyEquals against a raw amplitude slice.
func (s *StateVector) EqualsAmplitudes(amps []complex128, opts ...ToleranceOption) bool {
	tol := tolerance{rel: DefaultRelativeTolerance, abs: DefaultAbsoluteTolerance}
	for _, opt := range opts {
		opt(&tol)
	}

	if len(amps) != len(s.amps) {
		return false
	}

	for i, want := range amps {
		if cmplx.IsNaN(s.amps[i]) || cmplx.IsNaN(want) {
			return false
		}
		if cmplx.Abs(s.amps[i]-want) > tol.abs+tol.rel*cmplx.Abs(want) {
			return false
		}
	}

	return true
}

// BasisString formats basis index i of an n-qubit system as |b_{n-1}…b_0⟩.
func BasisString(n, i int) string {
	return fmt.Sprintf("|%0*b⟩", n, i)
}

// String renders the non-zero terms of the state in bra-ket notation.
func (s *StateVector) String() string {
	var sb strings.Builder

	for i, amp := range s.amps {
		if cmplx.Abs(amp) < 1e-12 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" + ")
		}
		fmt.Fprintf(&sb, "(%.4g%+.4gi)%s", real(amp), imag(amp), BasisString(s.numQubits, i))
	}

	if sb.Len() == 0 {
		return "0"
	}

	return sb.String()
}

var invSqrt2 = 1 / math.Sqrt2

// Common single-qubit and Bell state amplitudes.
var (
	Up    = []complex128{1, 0}
	Down  = []complex128{0, 1}
	Plus  = []complex128{complex(invSqrt2, 0), complex(invSqrt2, 0)}
	Minus = []complex128{complex(invSqrt2, 0), complex(-invSqrt2, 0)}
	Right = []complex128{complex(invSqrt2, 0), complex(0, invSqrt2)}
	Left  = []complex128{complex(invSqrt2, 0), complex(0, -invSqrt2)}

	PhiPlus  = []complex128{complex(invSqrt2, 0), 0, 0, complex(invSqrt2, 0)}
	PhiMinus = []complex128{complex(invSqrt2, 0), 0, 0, complex(-invSqrt2, 0)}
	PsiPlus  = []complex128{0, complex(invSqrt2, 0), complex(invSqrt2, 0), 0}
	PsiMinus = []complex128{0, complex(invSqrt2, 0), complex(-invSqrt2, 0), 0}
)
