package qsim

import (
	"math"
	"sort"
	"strings"
	"sync"
)

/*
Registry maps canonical gate names to their fixed unitary matrices. The
default registry is built once, on first use, and is read-only afterwards,
so lookups need no locking.
*/
type Registry struct {
	gates map[string]Gate
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry of standard gates.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = newStandardRegistry()
	})

	return defaultRegistry
}

// Lookup resolves a gate by name, ignoring case.
func Lookup(name string) (Gate, error) {
	return DefaultRegistry().Lookup(name)
}

// Lookup resolves a gate by name, ignoring case.
func (r *Registry) Lookup(name string) (Gate, error) {
	if gate, ok := r.gates[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return gate, nil
	}

	return Gate{}, &GateNotFoundError{Name: name}
}

// Names lists the registered gate names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.gates))
	for name := range r.gates {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func newStandardRegistry() *Registry {
	h := complex(1/math.Sqrt2, 0)
	t := complex(math.Cos(math.Pi/4), math.Sin(math.Pi/4))

	x := MustGate([][]complex128{{0, 1}, {1, 0}})
	z := MustGate([][]complex128{{1, 0}, {0, -1}})

	return &Registry{gates: map[string]Gate{
		"I":    MustGate([][]complex128{{1, 0}, {0, 1}}),
		"X":    x,
		"Y":    MustGate([][]complex128{{0, -1i}, {1i, 0}}),
		"Z":    z,
		"H":    MustGate([][]complex128{{h, h}, {h, -h}}),
		"S":    MustGate([][]complex128{{1, 0}, {0, 1i}}),
		"SDG":  MustGate([][]complex128{{1, 0}, {0, -1i}}),
		"T":    MustGate([][]complex128{{1, 0}, {0, t}}),
		"TDG":  MustGate([][]complex128{{1, 0}, {0, complex(real(t), -imag(t))}}),
		"CNOT": Controlled(x),
		"CZ":   Controlled(z),
		"SWAP": MustGate([][]complex128{
			{1, 0, 0, 0},
			{0, 0, 1, 0},
			{0, 1, 0, 0},
			{0, 0, 0, 1},
		}),
	}}
}
