package qsim

import (
	"math"
	"math/bits"
	"math/cmplx"
)

/*
Gate is an immutable square complex matrix of dimension 2^k acting on k
qubits. It is stored row-major and never handed out by reference, so a Gate
value can be shared freely between circuits and goroutines.

For two-qubit gates the local basis is ordered |q0 q1⟩ with q0 as the most
significant bit of the local index: (|00⟩, |01⟩, |10⟩, |11⟩) where the first
label is the bit of the lower-numbered qubit. Under this ordering the usual
CNOT matrix has its control on q0.
*/
type Gate struct {
	dim  int
	data []complex128
}

/*
Operand is anything Circuit.Add can resolve into a concrete Gate: either a
Named registry entry or a Gate matrix. Resolution happens once, when the
operation is added, so Compute never dispatches on the operand kind.
*/
type Operand interface {
	resolve(registry *Registry) (Gate, error)
}

// Named refers to a gate in the registry by its canonical name.
type Named string

func (n Named) resolve(registry *Registry) (Gate, error) {
	return registry.Lookup(string(n))
}

func (g Gate) resolve(*Registry) (Gate, error) {
	if g.dim == 0 {
		return Gate{}, shapeErrorf("add", "empty gate matrix")
	}

	return g, nil
}

/*
NewGate builds a Gate from rows. The matrix must be square with a power of
two dimension of at least 2. Unitarity is not checked here; see
Gate.Deviation and WithUnitarityCheck.
*/
func NewGate(rows [][]complex128) (Gate, error) {
	dim := len(rows)
	if dim < 2 || dim&(dim-1) != 0 {
		return Gate{}, shapeErrorf("gate", "dimension %d is not a power of two >= 2", dim)
	}

	data := make([]complex128, dim*dim)
	for i, row := range rows {
		if len(row) != dim {
			return Gate{}, shapeErrorf("gate", "row %d has %d columns, want %d", i, len(row), dim)
		}
		copy(data[i*dim:], row)
	}

	return Gate{dim: dim, data: data}, nil
}

// MustGate is NewGate for fixed matrices known to be well formed.
func MustGate(rows [][]complex128) Gate {
	g, err := NewGate(rows)
	if err != nil {
		panic(err)
	}

	return g
}

// Dim returns the matrix dimension 2^k.
func (g Gate) Dim() int {
	return g.dim
}

// Arity returns the number of qubits the gate acts on.
func (g Gate) Arity() int {
	if g.dim == 0 {
		return 0
	}

	return bits.TrailingZeros(uint(g.dim))
}

// At returns the matrix entry at row i, column j.
func (g Gate) At(i, j int) complex128 {
	return g.data[i*g.dim+j]
}

// Rows returns a copy of the matrix as a slice of rows.
func (g Gate) Rows() [][]complex128 {
	rows := make([][]complex128, g.dim)
	for i := range rows {
		rows[i] = make([]complex128, g.dim)
		copy(rows[i], g.data[i*g.dim:(i+1)*g.dim])
	}

	return rows
}

// Mul returns the matrix product g·other.
func (g Gate) Mul(other Gate) Gate {
	if g.dim != other.dim {
		panic("qsim: Gate.Mul dimension mismatch")
	}

	n := g.dim
	out := make([]complex128, n*n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			a := g.data[i*n+k]
			if a == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				out[i*n+j] += a * other.data[k*n+j]
			}
		}
	}

	return Gate{dim: n, data: out}
}

// Dagger returns the conjugate transpose.
func (g Gate) Dagger() Gate {
	n := g.dim
	out := make([]complex128, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[j*n+i] = cmplx.Conj(g.data[i*n+j])
		}
	}

	return Gate{dim: n, data: out}
}

/*
Deviation returns the largest entry-wise distance between U†U and the
identity. A unitary gate has a deviation of zero up to rounding.
*/
func (g Gate) Deviation() float64 {
	product := g.Dagger().Mul(g)
	worst := 0.0

	for i := 0; i < g.dim; i++ {
		for j := 0; j < g.dim; j++ {
			want := complex(0, 0)
			if i == j {
				want = 1
			}
			worst = math.Max(worst, cmplx.Abs(product.data[i*g.dim+j]-want))
		}
	}

	return worst
}

/*
SwapConjugate returns SWAP·U·SWAP for a two-qubit gate, which exchanges the
roles of its two operands. It is how a gate defined for (q1, q0) is turned
into one the in-place applier can use with q0 < q1.
*/
func (g Gate) SwapConjugate() Gate {
	if g.dim != 4 {
		panic("qsim: SwapConjugate needs a two-qubit gate")
	}

	// SWAP only exchanges the local basis states |01⟩ and |10⟩.
	perm := [4]int{0, 2, 1, 3}
	out := make([]complex128, 16)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i*4+j] = g.data[perm[i]*4+perm[j]]
		}
	}

	return Gate{dim: 4, data: out}
}

// Equal reports whether two gates match entry-wise within tol.
func (g Gate) Equal(other Gate, tol float64) bool {
	if g.dim != other.dim {
		return false
	}

	for i := range g.data {
		if cmplx.Abs(g.data[i]-other.data[i]) > tol {
			return false
		}
	}

	return true
}

// Controlled lifts a one-qubit gate into a two-qubit gate controlled on q0.
func Controlled(u Gate) Gate {
	if u.dim != 2 {
		panic("qsim: Controlled needs a one-qubit gate")
	}

	return MustGate([][]complex128{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, u.At(0, 0), u.At(0, 1)},
		{0, 0, u.At(1, 0), u.At(1, 1)},
	})
}

// RX is a rotation of theta radians about the X axis.
func RX(theta float64) Gate {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))

	return MustGate([][]complex128{
		{c, s},
		{s, c},
	})
}

// RY is a rotation of theta radians about the Y axis.
func RY(theta float64) Gate {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)

	return MustGate([][]complex128{
		{c, -s},
		{s, c},
	})
}

// RZ is a rotation of theta radians about the Z axis.
func RZ(theta float64) Gate {
	phase := cmplx.Exp(complex(0, theta/2))

	return MustGate([][]complex128{
		{cmplx.Conj(phase), 0},
		{0, phase},
	})
}

// Phase applies e^{iθ} to |1⟩.
func Phase(theta float64) Gate {
	return MustGate([][]complex128{
		{1, 0},
		{0, cmplx.Exp(complex(0, theta))},
	})
}
