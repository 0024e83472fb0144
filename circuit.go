package qsim

import (
	"fmt"
	"time"
)

// Op is one circuit entry: a gate and the qubits it acts on, in operand order.
type Op struct {
	Gate   Gate
	Qubits []int
}

/*
Circuit is an ordered list of operations over a fixed number of qubits.
Insertion order is application order. The qubit count never changes; Reset
only empties the list.
*/
type Circuit struct {
	numQubits int
	ops       []Op

	registry       *Registry
	applier        Applier
	metrics        *Metrics
	checkUnitarity bool
	unitarityTol   float64
	reference      bool
}

// CircuitOption configures a Circuit.
type CircuitOption func(*Circuit)

// WithApplier sets the gate applier used by Compute.
func WithApplier(applier Applier) CircuitOption {
	return func(c *Circuit) {
		c.applier = applier
	}
}

// WithMetrics records every applied gate in m.
func WithMetrics(m *Metrics) CircuitOption {
	return func(c *Circuit) {
		c.metrics = m
	}
}

// WithRegistry resolves Named operands against registry instead of the default one.
func WithRegistry(registry *Registry) CircuitOption {
	return func(c *Circuit) {
		c.registry = registry
	}
}

// WithUnitarityCheck makes Add reject gates whose U†U is further than tol from I.
func WithUnitarityCheck(tol float64) CircuitOption {
	return func(c *Circuit) {
		c.checkUnitarity = true
		c.unitarityTol = tol
	}
}

// WithReference enables Unitary and ComputeReference.
func WithReference() CircuitOption {
	return func(c *Circuit) {
		c.reference = true
	}
}

func NewCircuit(n int, opts ...CircuitOption) (*Circuit, error) {
	if n < 1 {
		return nil, shapeErrorf("circuit", "qubit count must be positive, got %d", n)
	}

	c := &Circuit{
		numQubits: n,
		registry:  DefaultRegistry(),
		applier:   Sequential{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

/*
Add appends operand to the circuit. A Named operand is looked up in the
registry and fails with a GateNotFoundError when unknown. Without qubits the
gate targets qubits 0..k-1 for a k-qubit gate. The qubit list must match the
gate's arity, be in range and not repeat a qubit.

Gates of more than two qubits are accepted here and rejected by Compute.
*/
func (c *Circuit) Add(operand Operand, qubits ...int) error {
	if operand == nil {
		return shapeErrorf("add", "nil operand")
	}

	gate, err := operand.resolve(c.registry)
	if err != nil {
		return err
	}

	arity := gate.Arity()
	if len(qubits) == 0 {
		qubits = make([]int, arity)
		for i := range qubits {
			qubits[i] = i
		}
	}

	if err := c.checkQubits(arity, qubits); err != nil {
		return err
	}

	if c.checkUnitarity {
		if deviation := gate.Deviation(); deviation > c.unitarityTol {
			return &NonUnitaryGateError{Deviation: deviation}
		}
	}

	c.ops = append(c.ops, Op{Gate: gate, Qubits: append([]int(nil), qubits...)})

	return nil
}

func (c *Circuit) checkQubits(arity int, qubits []int) error {
	if len(qubits) != arity {
		return shapeErrorf("add", "%d-qubit gate given %d qubit indices", arity, len(qubits))
	}

	seen := make(map[int]struct{}, len(qubits))
	for _, q := range qubits {
		if q < 0 || q >= c.numQubits {
			return shapeErrorf("add", "qubit %d out of range for %d qubits", q, c.numQubits)
		}
		if _, dup := seen[q]; dup {
			return shapeErrorf("add", "qubit %d used twice in one gate", q)
		}
		seen[q] = struct{}{}
	}

	return nil
}

func (c *Circuit) I(q int) error { return c.Add(Named("I"), q) }
func (c *Circuit) X(q int) error { return c.Add(Named("X"), q) }
func (c *Circuit) Y(q int) error { return c.Add(Named("Y"), q) }
func (c *Circuit) Z(q int) error { return c.Add(Named("Z"), q) }
func (c *Circuit) H(q int) error { return c.Add(Named("H"), q) }
func (c *Circuit) S(q int) error { return c.Add(Named("S"), q) }
func (c *Circuit) T(q int) error { return c.Add(Named("T"), q) }

func (c *Circuit) RX(q int, theta float64) error    { return c.Add(RX(theta), q) }
func (c *Circuit) RY(q int, theta float64) error    { return c.Add(RY(theta), q) }
func (c *Circuit) RZ(q int, theta float64) error    { return c.Add(RZ(theta), q) }
func (c *Circuit) Phase(q int, theta float64) error { return c.Add(Phase(theta), q) }

/*
CNOT flips target when control is set. Either ordering of control and
target is accepted; when control > target Compute swap-conjugates the gate
so the applier still sees q0 < q1.
*/
func (c *Circuit) CNOT(control, target int) error {
	return c.Add(Named("CNOT"), control, target)
}

func (c *Circuit) CZ(a, b int) error   { return c.Add(Named("CZ"), a, b) }
func (c *Circuit) SWAP(a, b int) error { return c.Add(Named("SWAP"), a, b) }

/*
Compute evolves state in place by every operation, in insertion order. The
state must have the circuit's qubit count. Two-qubit operations listed with
their first qubit above the second are conjugated by SWAP before being
applied to the sorted pair. Gate arities are checked before the first
operation runs, so an unsupported gate leaves state untouched.
*/
func (c *Circuit) Compute(state *StateVector) error {
	if state == nil || state.numQubits != c.numQubits {
		return shapeErrorf("compute", "state does not have %d qubits", c.numQubits)
	}

	for i, op := range c.ops {
		if arity := op.Gate.Arity(); arity != 1 && arity != 2 {
			return fmt.Errorf("op %d: %w", i, &UnsupportedArityError{Arity: arity})
		}
	}

	for i, op := range c.ops {
		if err := c.apply(state, op); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
	}

	if c.metrics != nil {
		c.metrics.recordCircuit()
	}

	return nil
}

func (c *Circuit) apply(state *StateVector, op Op) error {
	startTime := time.Now()
	arity := op.Gate.Arity()

	switch arity {
	case 1:
		if err := c.applier.ApplyOneQubit(state, op.Gate, op.Qubits[0]); err != nil {
			return err
		}
	case 2:
		gate, q0, q1 := op.Gate, op.Qubits[0], op.Qubits[1]
		if q0 > q1 {
			gate, q0, q1 = gate.SwapConjugate(), q1, q0
		}
		if err := c.applier.ApplyTwoQubit(state, gate, q0, q1); err != nil {
			return err
		}
	default:
		return &UnsupportedArityError{Arity: arity}
	}

	if c.metrics != nil {
		c.metrics.recordGate(arity, state.Len(), startTime)
	}

	return nil
}

// Reset removes every operation. The qubit count is unchanged.
func (c *Circuit) Reset() {
	c.ops = nil
}

func (c *Circuit) NumQubits() int {
	return c.numQubits
}

func (c *Circuit) Len() int {
	return len(c.ops)
}

// Ops returns a copy of the operation list.
func (c *Circuit) Ops() []Op {
	ops := make([]Op, len(c.ops))
	for i, op := range c.ops {
		ops[i] = Op{Gate: op.Gate, Qubits: append([]int(nil), op.Qubits...)}
	}

	return ops
}

// Depth returns the number of layers when every gate is scheduled as early as its qubits allow.
func (c *Circuit) Depth() int {
	layer := make([]int, c.numQubits)
	depth := 0

	for _, op := range c.ops {
		next := 0
		for _, q := range op.Qubits {
			next = max(next, layer[q])
		}
		next++

		for _, q := range op.Qubits {
			layer[q] = next
		}
		depth = max(depth, next)
	}

	return depth
}
