package qsim

/*
Applier applies small unitaries to a StateVector in place. Sequential is the
default implementation; Pool spreads the index range of a single gate over
its workers.
*/
type Applier interface {
	ApplyOneQubit(state *StateVector, u Gate, target int) error
	ApplyTwoQubit(state *StateVector, u Gate, q0, q1 int) error
}

// Sequential applies gates on the calling goroutine.
type Sequential struct{}

func (Sequential) ApplyOneQubit(state *StateVector, u Gate, target int) error {
	return ApplyOneQubit(state, u, target)
}

func (Sequential) ApplyTwoQubit(state *StateVector, u Gate, q0, q1 int) error {
	return ApplyTwoQubit(state, u, q0, q1)
}

/*
ApplyOneQubit applies the 2x2 unitary u to qubit target, in place.

Basis indices pair off on bit target with every other bit held fixed. The
2^N indices split into 2^(N-target-1) blocks of 2^(target+1); inside a block
the first 2^target indices pair with the ones 2^target further on. Each pair
is replaced by u times the pair. O(2^N) time, O(1) extra space.
*/
func ApplyOneQubit(state *StateVector, u Gate, target int) error {
	if err := checkOneQubit(state, u, target); err != nil {
		return err
	}

	var (
		n          = state.numQubits
		amps       = state.amps
		pairOffset = 1 << target
		blockSize  = pairOffset << 1
		numBlocks  = 1 << (n - target - 1)
		u00, u01   = u.data[0], u.data[1]
		u10, u11   = u.data[2], u.data[3]
	)

	for m := 0; m < numBlocks; m++ {
		for k := 0; k < pairOffset; k++ {
			j := m*blockSize + k
			jPrime := j + pairOffset

			a0, a1 := amps[j], amps[jPrime]
			amps[j] = u00*a0 + u01*a1
			amps[jPrime] = u10*a0 + u11*a1
		}
	}

	return nil
}

/*
ApplyTwoQubit applies the 4x4 unitary u to qubits q0 < q1, in place.

Indices are grouped into quadruples that differ only in bits q0 and q1. The
outer loop runs over the bits above q1, the middle loop over the bits
strictly between q0 and q1, the inner loop over the bits below q0. The
quadruple is fed to u in the order (00, 01, 10, 11), labelled (bit q0,
bit q1), so bit q0 is the high bit of the local index.
*/
func ApplyTwoQubit(state *StateVector, u Gate, q0, q1 int) error {
	if err := checkTwoQubit(state, u, q0, q1); err != nil {
		return err
	}

	var (
		n     = state.numQubits
		amps  = state.amps
		bit0  = 1 << q0
		bit1  = 1 << q1
		outer = 1 << (n - 1 - q1)
		mid   = 1 << (q1 - q0 - 1)
		inner = 1 << q0
	)

	for hi := 0; hi < outer; hi++ {
		for md := 0; md < mid; md++ {
			for lo := 0; lo < inner; lo++ {
				l := hi<<(q1+1) | md<<(q0+1) | lo
				applyQuad(amps, u.data, l, l|bit1, l|bit0, l|bit0|bit1)
			}
		}
	}

	return nil
}

// applyQuad replaces the four amplitudes at i00, i01, i10, i11 by u times them.
func applyQuad(amps, u []complex128, i00, i01, i10, i11 int) {
	a0, a1, a2, a3 := amps[i00], amps[i01], amps[i10], amps[i11]

	amps[i00] = u[0]*a0 + u[1]*a1 + u[2]*a2 + u[3]*a3
	amps[i01] = u[4]*a0 + u[5]*a1 + u[6]*a2 + u[7]*a3
	amps[i10] = u[8]*a0 + u[9]*a1 + u[10]*a2 + u[11]*a3
	amps[i11] = u[12]*a0 + u[13]*a1 + u[14]*a2 + u[15]*a3
}

func checkOneQubit(state *StateVector, u Gate, target int) error {
	if state == nil {
		return shapeErrorf("apply", "nil state")
	}
	if u.dim != 2 {
		return &UnsupportedArityError{Arity: u.Arity()}
	}
	if target < 0 || target >= state.numQubits {
		return shapeErrorf("apply", "qubit %d out of range for %d qubits", target, state.numQubits)
	}

	return nil
}

func checkTwoQubit(state *StateVector, u Gate, q0, q1 int) error {
	if state == nil {
		return shapeErrorf("apply", "nil state")
	}
	if u.dim != 4 {
		return &UnsupportedArityError{Arity: u.Arity()}
	}
	if q0 < 0 || q1 >= state.numQubits {
		return shapeErrorf("apply", "qubits (%d, %d) out of range for %d qubits", q0, q1, state.numQubits)
	}
	if q0 >= q1 {
		return shapeErrorf("apply", "two-qubit operands must satisfy q0 < q1, got (%d, %d)", q0, q1)
	}

	return nil
}
