package qsim

import "sync/atomic"

// Worker processes gate chunks until the pool's job channel is closed.
type Worker struct {
	ID        int
	pool      *Pool
	processed atomic.Int64
}

func (w *Worker) run() error {
	for job := range w.pool.jobs {
		w.processed.Add(1)
		job.run()
	}

	return nil
}

// Processed returns the number of chunks this worker has picked up.
func (w *Worker) Processed() int64 {
	return w.processed.Load()
}
