package qsim

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/theapemachine/errnie"
)

/*
Simulator ties a Config to the pieces that execute circuits: an optional
worker Pool, a shared Metrics and a seeded random source for measurement.

Typical use:

	sim := qsim.NewSimulator(ctx, qsim.NewConfig())
	defer sim.Close()

	c, _ := sim.NewCircuit(2)
	c.H(0)
	c.CNOT(0, 1)

	counts, err := sim.Sample(c, 1000)
*/
type Simulator struct {
	config  *Config
	pool    *Pool
	metrics *Metrics

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator builds a Simulator; a nil config uses NewConfig.
func NewSimulator(ctx context.Context, config *Config) *Simulator {
	if config == nil {
		config = NewConfig()
	}

	sim := &Simulator{
		config:  config,
		metrics: NewMetrics(),
		rng:     NewRandomSource(config.Seed),
	}

	if config.Workers > 1 {
		sim.pool = NewPool(ctx, config)
	}

	errnie.Info(
		"NewSimulator - workers %d, check unitarity %v, reference %v",
		config.Workers,
		config.CheckUnitarity,
		config.Reference,
	)

	return sim
}

// NewCircuit returns an n-qubit circuit wired to the simulator's pool, metrics and checks.
func (sim *Simulator) NewCircuit(n int) (*Circuit, error) {
	opts := []CircuitOption{WithMetrics(sim.metrics)}

	if sim.pool != nil {
		opts = append(opts, WithApplier(sim.pool))
	}
	if sim.config.CheckUnitarity {
		opts = append(opts, WithUnitarityCheck(sim.config.UnitarityTolerance))
	}
	if sim.config.Reference {
		opts = append(opts, WithReference())
	}

	return NewCircuit(n, opts...)
}

// Run evolves a fresh |0…0⟩ through c and returns the final state.
func (sim *Simulator) Run(c *Circuit) (*StateVector, error) {
	state, err := NewStateVector(c.NumQubits())
	if err != nil {
		return nil, err
	}

	if err := c.Compute(state); err != nil {
		errnie.Info("Run failed - %d qubits, %d ops: %v", c.NumQubits(), c.Len(), err)
		return nil, err
	}

	errnie.Info("Run - %d qubits, %d ops, depth %d", c.NumQubits(), c.Len(), c.Depth())

	return state, nil
}

// Measure samples one basis index from state without collapsing it.
func (sim *Simulator) Measure(state *StateVector) (int, error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	outcome, err := Measure(state, sim.rng)
	if err != nil {
		return 0, err
	}
	sim.metrics.recordMeasurements(1)

	return outcome, nil
}

// Sample runs c once and draws shots outcomes from the resulting state.
func (sim *Simulator) Sample(c *Circuit, shots int) (Counts, error) {
	state, err := sim.Run(c)
	if err != nil {
		return nil, err
	}

	sim.mu.Lock()
	defer sim.mu.Unlock()

	counts, err := Sample(state, shots, sim.rng)
	if err != nil {
		return nil, err
	}
	sim.metrics.recordMeasurements(shots)

	return counts, nil
}

// Equal compares two states with the configured tolerances.
func (sim *Simulator) Equal(a, b *StateVector) bool {
	return a.ApproximatelyEquals(b, sim.config.toleranceOptions()...)
}

func (sim *Simulator) Metrics() *Metrics {
	return sim.metrics
}

// Close releases the worker pool, if any.
func (sim *Simulator) Close() {
	sim.pool.Close()
}
