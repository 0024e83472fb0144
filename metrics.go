package qsim

import (
	"sort"
	"sync"
	"time"
)

/*
Metrics collects execution statistics for gate applications and
measurements. It is safe for concurrent use; a single Metrics is typically
shared by every circuit a Simulator builds. Read it through ExportMetrics.
*/
type Metrics struct {
	mu sync.RWMutex

	gatesApplied     int64
	oneQubitGates    int64
	twoQubitGates    int64
	amplitudeUpdates int64
	measurements     int64
	circuits         int64
	totalGateTime    time.Duration

	// ring buffer of the last windowSize gate latencies
	latencies  []time.Duration
	next       int
	windowSize int
}

func NewMetrics() *Metrics {
	return &Metrics{
		latencies:  make([]time.Duration, 0, 1000), // last 1000 gates
		windowSize: 1000,
	}
}

// recordGate is called once per applied gate with the state size it touched.
func (m *Metrics) recordGate(arity, stateLen int, startTime time.Time) {
	duration := time.Since(startTime)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.gatesApplied++
	switch arity {
	case 1:
		m.oneQubitGates++
	case 2:
		m.twoQubitGates++
	}
	m.amplitudeUpdates += int64(stateLen)
	m.totalGateTime += duration

	if len(m.latencies) < m.windowSize {
		m.latencies = append(m.latencies, duration)
		return
	}
	m.latencies[m.next] = duration
	m.next = (m.next + 1) % m.windowSize
}

func (m *Metrics) recordCircuit() {
	m.mu.Lock()
	m.circuits++
	m.mu.Unlock()
}

func (m *Metrics) recordMeasurements(n int) {
	m.mu.Lock()
	m.measurements += int64(n)
	m.mu.Unlock()
}

// latencyPercentiles sorts a copy of the window. Callers hold mu.
func (m *Metrics) latencyPercentiles() (avg, p95, p99 time.Duration) {
	if m.gatesApplied == 0 || len(m.latencies) == 0 {
		return 0, 0, 0
	}

	avg = m.totalGateTime / time.Duration(m.gatesApplied)

	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	p95Index := min(int(float64(len(sorted))*0.95), len(sorted)-1)
	p99Index := min(int(float64(len(sorted))*0.99), len(sorted)-1)

	return avg, sorted[p95Index], sorted[p99Index]
}

// ExportMetrics returns a consistent snapshot of every counter.
func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	avg, p95, p99 := m.latencyPercentiles()

	return map[string]interface{}{
		"gates_applied":     m.gatesApplied,
		"one_qubit_gates":   m.oneQubitGates,
		"two_qubit_gates":   m.twoQubitGates,
		"amplitude_updates": m.amplitudeUpdates,
		"measurements":      m.measurements,
		"circuits":          m.circuits,
		"avg_latency_us":    avg.Microseconds(),
		"p95_latency_us":    p95.Microseconds(),
		"p99_latency_us":    p99.Microseconds(),
	}
}
