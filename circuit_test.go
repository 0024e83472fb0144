package qsim

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCircuitBellState(t *testing.T) {
	Convey("Given a 2-qubit circuit", t, func() {
		c, err := NewCircuit(2)
		So(err, ShouldBeNil)

		Convey("When adding H(0) and CNOT(0, 1)", func() {
			So(c.H(0), ShouldBeNil)
			So(c.CNOT(0, 1), ShouldBeNil)

			state, _ := NewStateVector(2)
			So(c.Compute(state), ShouldBeNil)

			Convey("Then |00⟩ evolves into the Bell state", func() {
				So(state.EqualsAmplitudes(PhiPlus), ShouldBeTrue)
			})
		})

		Convey("When adding H(1) and CNOT(1, 0)", func() {
			So(c.H(1), ShouldBeNil)
			So(c.CNOT(1, 0), ShouldBeNil)

			state, _ := NewStateVector(2)
			So(c.Compute(state), ShouldBeNil)

			Convey("Then the reversed control gives the same Bell state", func() {
				So(state.EqualsAmplitudes(PhiPlus), ShouldBeTrue)
			})
		})

		Convey("When adding named gates without qubit indices", func() {
			So(c.Add(Named("H")), ShouldBeNil)
			So(c.Add(Named("cnot")), ShouldBeNil)

			Convey("Then they default to the first qubits", func() {
				ops := c.Ops()
				So(ops[0].Qubits, ShouldResemble, []int{0})
				So(ops[1].Qubits, ShouldResemble, []int{0, 1})

				state, _ := NewStateVector(2)
				So(c.Compute(state), ShouldBeNil)
				So(state.EqualsAmplitudes(PhiPlus), ShouldBeTrue)
			})
		})
	})
}

func TestCircuitCNOTTruthTable(t *testing.T) {
	Convey("Given CNOT(2, 0) on three qubits", t, func() {
		for input := 0; input < 8; input++ {
			c, _ := NewCircuit(3)
			for q := 0; q < 3; q++ {
				if input&(1<<q) != 0 {
					So(c.X(q), ShouldBeNil)
				}
			}
			So(c.CNOT(2, 0), ShouldBeNil)

			state, _ := NewStateVector(3)
			So(c.Compute(state), ShouldBeNil)

			want := input
			if input&4 != 0 {
				want ^= 1
			}
			So(state.Amplitude(want), ShouldEqual, complex(1, 0))
		}
	})
}

func TestCircuitErrors(t *testing.T) {
	Convey("Given a 3-qubit circuit", t, func() {
		c, _ := NewCircuit(3)

		Convey("Adding an unknown gate name fails", func() {
			err := c.Add(Named("FOO"), 0)

			var notFound *GateNotFoundError
			So(errors.As(err, &notFound), ShouldBeTrue)
			So(notFound.Name, ShouldEqual, "FOO")
			So(c.Len(), ShouldEqual, 0)
		})

		Convey("Adding a 3-qubit gate succeeds but Compute rejects it", func() {
			h, _ := Lookup("H")
			wide, err := ExpandGate(h, []int{0}, 3)
			So(err, ShouldBeNil)
			So(wide.Dim(), ShouldEqual, 8)

			So(c.Add(wide), ShouldBeNil)

			state, _ := NewStateVector(3)
			err = c.Compute(state)

			var arityErr *UnsupportedArityError
			So(errors.As(err, &arityErr), ShouldBeTrue)
			So(arityErr.Arity, ShouldEqual, 3)
		})

		Convey("A rejected gate late in the circuit leaves the state untouched", func() {
			h, _ := Lookup("H")
			wide, _ := ExpandGate(h, []int{0}, 3)

			So(c.X(0), ShouldBeNil)
			So(c.H(1), ShouldBeNil)
			So(c.Add(wide), ShouldBeNil)

			state, _ := NewStateVector(3)
			before := state.Clone()

			var arityErr *UnsupportedArityError
			So(errors.As(c.Compute(state), &arityErr), ShouldBeTrue)
			So(state.ApproximatelyEquals(before, WithAbsoluteTolerance(0), WithRelativeTolerance(0)), ShouldBeTrue)
		})

		Convey("Mismatched qubit lists are shape errors", func() {
			var shapeErr *ShapeError

			So(errors.As(c.Add(Named("CNOT"), 0), &shapeErr), ShouldBeTrue)
			So(errors.As(c.Add(Named("H"), 0, 1), &shapeErr), ShouldBeTrue)
			So(errors.As(c.CNOT(1, 1), &shapeErr), ShouldBeTrue)
			So(errors.As(c.H(3), &shapeErr), ShouldBeTrue)
			So(errors.As(c.Add(Gate{}, 0), &shapeErr), ShouldBeTrue)
			So(errors.As(c.Add(nil), &shapeErr), ShouldBeTrue)
		})

		Convey("Computing on a state of the wrong size fails", func() {
			state, _ := NewStateVector(2)

			var shapeErr *ShapeError
			So(errors.As(c.Compute(state), &shapeErr), ShouldBeTrue)
		})
	})

	Convey("Given a circuit with the unitarity check", t, func() {
		c, _ := NewCircuit(1, WithUnitarityCheck(1e-9))

		Convey("A non-unitary matrix is rejected", func() {
			g, err := NewGate([][]complex128{{1, 1}, {0, 1}})
			So(err, ShouldBeNil)

			var nonUnitary *NonUnitaryGateError
			So(errors.As(c.Add(g, 0), &nonUnitary), ShouldBeTrue)
			So(nonUnitary.Deviation, ShouldBeGreaterThan, 0.5)
		})

		Convey("Unitary gates pass", func() {
			So(c.RX(0, math.Pi/3), ShouldBeNil)
			So(c.T(0), ShouldBeNil)
		})
	})

	Convey("Without the check, non-unitary matrices are accepted", t, func() {
		c, _ := NewCircuit(1)
		g, _ := NewGate([][]complex128{{2, 0}, {0, 2}})
		So(c.Add(g, 0), ShouldBeNil)
	})

	Convey("A circuit needs at least one qubit", t, func() {
		_, err := NewCircuit(0)
		So(err, ShouldNotBeNil)
	})
}

func TestCircuitLifecycle(t *testing.T) {
	Convey("Given a circuit with a few gates", t, func() {
		c, _ := NewCircuit(3)
		So(c.H(0), ShouldBeNil)
		So(c.H(1), ShouldBeNil)
		So(c.CNOT(0, 2), ShouldBeNil)
		So(c.SWAP(1, 2), ShouldBeNil)
		So(c.Z(0), ShouldBeNil)

		Convey("Then Depth packs independent gates into one layer", func() {
			So(c.Len(), ShouldEqual, 5)
			So(c.Depth(), ShouldEqual, 3)
		})

		Convey("Then Ops returns a copy", func() {
			ops := c.Ops()
			ops[0].Qubits[0] = 2
			So(c.Ops()[0].Qubits[0], ShouldEqual, 0)
		})

		Convey("When reset", func() {
			c.Reset()

			Convey("Then the gates are gone but the qubit count stays", func() {
				So(c.Len(), ShouldEqual, 0)
				So(c.Depth(), ShouldEqual, 0)
				So(c.NumQubits(), ShouldEqual, 3)

				state, _ := NewStateVector(3)
				So(c.Compute(state), ShouldBeNil)
				So(state.Amplitude(0), ShouldEqual, complex(1, 0))
			})
		})
	})
}

func TestCircuitRotations(t *testing.T) {
	Convey("Given RY(π/2) on qubit 0", t, func() {
		c, _ := NewCircuit(1)
		So(c.RY(0, math.Pi/2), ShouldBeNil)

		state, _ := NewStateVector(1)
		So(c.Compute(state), ShouldBeNil)

		Convey("Then |0⟩ becomes |+⟩", func() {
			So(state.EqualsAmplitudes(Plus), ShouldBeTrue)
		})
	})

	Convey("Given H, S on |0⟩", t, func() {
		c, _ := NewCircuit(1)
		So(c.H(0), ShouldBeNil)
		So(c.S(0), ShouldBeNil)

		state, _ := NewStateVector(1)
		So(c.Compute(state), ShouldBeNil)

		Convey("Then the state is |+i⟩", func() {
			So(state.EqualsAmplitudes(Right), ShouldBeTrue)
		})
	})

	Convey("Given T applied twice equals S", t, func() {
		a, _ := NewCircuit(1)
		So(a.H(0), ShouldBeNil)
		So(a.T(0), ShouldBeNil)
		So(a.T(0), ShouldBeNil)

		b, _ := NewCircuit(1)
		So(b.H(0), ShouldBeNil)
		So(b.Phase(0, math.Pi/2), ShouldBeNil)

		sa, _ := NewStateVector(1)
		sb, _ := NewStateVector(1)
		So(a.Compute(sa), ShouldBeNil)
		So(b.Compute(sb), ShouldBeNil)

		So(sa.ApproximatelyEquals(sb), ShouldBeTrue)
	})
}
