package qsim

// MaxReferenceQubits bounds the full-unitary path, which needs 4^N entries.
const MaxReferenceQubits = 10

/*
ExpandGate lifts g, acting on qubits (in operand order), to the full 2^n
dimensional space. Entry (i, j) is zero unless i and j agree on every
non-target bit, in which case it is g at the local indices built from the
target bits, with qubits[0] as the most significant local bit.

This is the tensor-product construction and costs O(4^n). It exists to
cross-check the in-place appliers on small circuits.
*/
func ExpandGate(g Gate, qubits []int, n int) (Gate, error) {
	if len(qubits) != g.Arity() {
		return Gate{}, shapeErrorf("expand", "%d-qubit gate given %d qubit indices", g.Arity(), len(qubits))
	}
	if n > MaxReferenceQubits {
		return Gate{}, shapeErrorf("expand", "%d qubits exceeds the reference limit of %d", n, MaxReferenceQubits)
	}

	mask := 0
	for _, q := range qubits {
		if q < 0 || q >= n {
			return Gate{}, shapeErrorf("expand", "qubit %d out of range for %d qubits", q, n)
		}
		mask |= 1 << q
	}

	local := func(index int) int {
		li := 0
		for _, q := range qubits {
			li = li<<1 | (index>>q)&1
		}
		return li
	}

	dim := 1 << n
	data := make([]complex128, dim*dim)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			if i&^mask != j&^mask {
				continue
			}
			data[i*dim+j] = g.At(local(i), local(j))
		}
	}

	return Gate{dim: dim, data: data}, nil
}

func identity(dim int) Gate {
	data := make([]complex128, dim*dim)
	for i := 0; i < dim; i++ {
		data[i*dim+i] = 1
	}

	return Gate{dim: dim, data: data}
}

/*
Unitary builds the full circuit unitary by left-multiplying the expanded
matrix of every operation in application order. It is only available on
circuits built WithReference.
*/
func (c *Circuit) Unitary() (Gate, error) {
	if !c.reference {
		return Gate{}, ErrReferenceDisabled
	}
	if c.numQubits > MaxReferenceQubits {
		return Gate{}, shapeErrorf("unitary", "%d qubits exceeds the reference limit of %d", c.numQubits, MaxReferenceQubits)
	}

	u := identity(1 << c.numQubits)
	for _, op := range c.ops {
		expanded, err := ExpandGate(op.Gate, op.Qubits, c.numQubits)
		if err != nil {
			return Gate{}, err
		}
		u = expanded.Mul(u)
	}

	return u, nil
}

// ComputeReference evolves state by the full circuit unitary in one product.
func (c *Circuit) ComputeReference(state *StateVector) error {
	if !c.reference {
		return ErrReferenceDisabled
	}
	if state == nil || state.numQubits != c.numQubits {
		return shapeErrorf("compute", "state does not have %d qubits", c.numQubits)
	}

	u, err := c.Unitary()
	if err != nil {
		return err
	}

	out := make([]complex128, len(state.amps))
	for i := range out {
		var sum complex128
		for j, amp := range state.amps {
			sum += u.data[i*u.dim+j] * amp
		}
		out[i] = sum
	}
	copy(state.amps, out)

	return nil
}
