package qsim

import (
	"context"
	"sync"

	"github.com/theapemachine/errnie"
	"golang.org/x/sync/errgroup"
)

/*
Pool is a parallel Applier. Inside one gate application every pair (or
quadruple) of amplitudes is touched by exactly one chunk, so the chunks can
run on different workers without synchronization. Each Apply call waits for
all of its chunks before returning, which keeps successive gates strictly
ordered.

States smaller than Config.ParallelThreshold qubits are handled on the
calling goroutine, where the chunking overhead would dominate.
*/
type Pool struct {
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
	once   sync.Once
	closed bool
	jobs   chan Job
	group  *errgroup.Group

	workers []*Worker
	config  *Config
}

// NewPool starts config.Workers workers. Cancelling ctx closes the pool.
func NewPool(ctx context.Context, config *Config) *Pool {
	if config == nil {
		config = NewConfig()
	}

	ctx, cancel := context.WithCancel(ctx)
	count := max(config.Workers, 1)

	p := &Pool{
		ctx:     ctx,
		cancel:  cancel,
		jobs:    make(chan Job, count*max(config.ChunksPerWorker, 1)),
		group:   &errgroup.Group{},
		workers: make([]*Worker, 0, count),
		config:  config,
	}

	for i := 0; i < count; i++ {
		p.startWorker(i)
	}

	go func() {
		<-p.ctx.Done()
		p.Close()
	}()

	errnie.Info("NewPool - workers %d, parallel threshold %d qubits", count, config.ParallelThreshold)

	return p
}

func (p *Pool) startWorker(id int) {
	worker := &Worker{ID: id, pool: p}
	p.workers = append(p.workers, worker)
	p.group.Go(worker.run)
}

// ApplyOneQubit implements Applier.
func (p *Pool) ApplyOneQubit(state *StateVector, u Gate, target int) error {
	if err := checkOneQubit(state, u, target); err != nil {
		return err
	}

	if !p.parallel(state) {
		if p.isClosed() {
			return ErrPoolClosed
		}
		return ApplyOneQubit(state, u, target)
	}

	amps, data := state.amps, u.data
	return p.dispatch(state.Len()>>1, func(lo, hi int) {
		oneQubitRange(amps, data, target, lo, hi)
	})
}

// ApplyTwoQubit implements Applier.
func (p *Pool) ApplyTwoQubit(state *StateVector, u Gate, q0, q1 int) error {
	if err := checkTwoQubit(state, u, q0, q1); err != nil {
		return err
	}

	if !p.parallel(state) {
		if p.isClosed() {
			return ErrPoolClosed
		}
		return ApplyTwoQubit(state, u, q0, q1)
	}

	amps, data := state.amps, u.data
	return p.dispatch(state.Len()>>2, func(lo, hi int) {
		twoQubitRange(amps, data, q0, q1, lo, hi)
	})
}

// Workers returns the pool's workers.
func (p *Pool) Workers() []*Worker {
	return p.workers
}

func (p *Pool) parallel(state *StateVector) bool {
	return len(p.workers) > 1 && state.numQubits >= p.config.ParallelThreshold
}

func (p *Pool) isClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.closed
}

/*
dispatch cuts [0, total) into chunks, hands them to the workers and blocks
until every chunk is done. The read lock keeps Close from closing the job
channel underneath a running gate.
*/
func (p *Pool) dispatch(total int, fn func(lo, hi int)) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	chunks := len(p.workers) * max(p.config.ChunksPerWorker, 1)
	size := max((total+chunks-1)/chunks, 1)

	var wg sync.WaitGroup
	for lo := 0; lo < total; lo += size {
		wg.Add(1)
		p.jobs <- Job{Lo: lo, Hi: min(lo+size, total), Fn: fn, done: &wg}
	}
	wg.Wait()

	return nil
}

// Close stops the workers once in-flight gates have finished. It is safe to call more than once.
func (p *Pool) Close() {
	if p == nil {
		return
	}

	p.once.Do(func() {
		p.cancel()

		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()

		_ = p.group.Wait()
		errnie.Info("Pool closed - %d workers stopped", len(p.workers))
	})
}
