package qsim

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolClosed is returned when work is handed to a pool after Close.
	ErrPoolClosed = errors.New("qsim: pool is closed")

	// ErrReferenceDisabled is returned by the full-unitary path when the
	// circuit was not built with WithReference.
	ErrReferenceDisabled = errors.New("qsim: reference unitary path is disabled")
)

/*
GateNotFoundError is returned when a gate is referenced by a name that the
registry does not know.
*/
type GateNotFoundError struct {
	Name string
}

func (e *GateNotFoundError) Error() string {
	return fmt.Sprintf("qsim: gate %q not found", e.Name)
}

/*
UnsupportedArityError is returned when a gate acts on a number of qubits
the in-place appliers cannot handle.
*/
type UnsupportedArityError struct {
	Arity int
}

func (e *UnsupportedArityError) Error() string {
	return fmt.Sprintf("qsim: unsupported gate arity %d (only 1 and 2 qubit gates)", e.Arity)
}

// ShapeError reports a mismatch between a gate, its qubit indices and the state.
type ShapeError struct {
	Op     string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("qsim: %s: %s", e.Op, e.Reason)
}

func shapeErrorf(op, format string, args ...any) error {
	return &ShapeError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// NonUnitaryGateError is returned by the optional unitarity check.
type NonUnitaryGateError struct {
	Deviation float64
}

func (e *NonUnitaryGateError) Error() string {
	return fmt.Sprintf("qsim: gate is not unitary (max |U†U - I| = %g)", e.Deviation)
}
