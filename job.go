package qsim

import "sync"

// Job is one chunk of a single gate application: the index range [Lo, Hi).
type Job struct {
	Lo   int
	Hi   int
	Fn   func(lo, hi int)
	done *sync.WaitGroup
}

func (job Job) run() {
	defer job.done.Done()
	job.Fn(job.Lo, job.Hi)
}

/*
oneQubitRange applies u to the pairs numbered [lo, hi). Pair p lives in
block p>>target at offset p&(pairOffset-1), which is the same j the block
loop in ApplyOneQubit visits.
*/
func oneQubitRange(amps []complex128, u []complex128, target, lo, hi int) {
	var (
		pairOffset = 1 << target
		mask       = pairOffset - 1
	)

	for p := lo; p < hi; p++ {
		j := (p>>target)<<(target+1) | p&mask
		jPrime := j + pairOffset

		a0, a1 := amps[j], amps[jPrime]
		amps[j] = u[0]*a0 + u[1]*a1
		amps[jPrime] = u[2]*a0 + u[3]*a1
	}
}

// twoQubitRange applies u to the quadruples numbered [lo, hi).
func twoQubitRange(amps []complex128, u []complex128, q0, q1, lo, hi int) {
	var (
		bit0    = 1 << q0
		bit1    = 1 << q1
		lowMask = bit0 - 1
		midMask = 1<<(q1-q0-1) - 1
	)

	for r := lo; r < hi; r++ {
		l := (r>>(q1-1))<<(q1+1) | ((r>>q0)&midMask)<<(q0+1) | r&lowMask
		applyQuad(amps, u, l, l|bit1, l|bit0, l|bit0|bit1)
	}
}
