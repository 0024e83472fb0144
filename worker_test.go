package qsim

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

const timeoutMsg = "Test timed out waiting for the worker"

func TestWorker(t *testing.T) {
	Convey("Given a worker on a bare pool", t, func() {
		pool := &Pool{jobs: make(chan Job, 4)}
		worker := &Worker{ID: 0, pool: pool}

		done := make(chan struct{})
		go func() {
			_ = worker.run()
			close(done)
		}()

		Convey("It should run every job it receives", func() {
			var (
				wg     sync.WaitGroup
				mu     sync.Mutex
				ranges [][2]int
			)

			for lo := 0; lo < 12; lo += 4 {
				wg.Add(1)
				pool.jobs <- Job{Lo: lo, Hi: lo + 4, done: &wg, Fn: func(lo, hi int) {
					mu.Lock()
					ranges = append(ranges, [2]int{lo, hi})
					mu.Unlock()
				}}
			}
			wg.Wait()

			So(ranges, ShouldResemble, [][2]int{{0, 4}, {4, 8}, {8, 12}})
			So(worker.Processed(), ShouldEqual, 3)

			close(pool.jobs)
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal(timeoutMsg)
			}
		})

		Convey("It should stop when the job channel closes", func() {
			close(pool.jobs)

			select {
			case <-done:
				So(worker.Processed(), ShouldEqual, 0)
			case <-time.After(2 * time.Second):
				t.Fatal(timeoutMsg)
			}
		})
	})
}

func TestChunkKernels(t *testing.T) {
	Convey("Given a generic 7-qubit state", t, func() {
		r := rand.New(rand.NewPCG(13, 37))
		state := randomState(r, 7)

		Convey("Chunked one-qubit ranges match the block loop", func() {
			for target := 0; target < 7; target++ {
				u := randomOneQubit(r)

				want := state.Clone()
				So(ApplyOneQubit(want, u, target), ShouldBeNil)

				got := state.Clone()
				total := got.Len() / 2
				for lo := 0; lo < total; lo += 5 {
					oneQubitRange(got.amps, u.data, target, lo, min(lo+5, total))
				}

				So(got.ApproximatelyEquals(want), ShouldBeTrue)
			}
		})

		Convey("Chunked two-qubit ranges match the nested loops", func() {
			for q0 := 0; q0 < 7; q0++ {
				for q1 := q0 + 1; q1 < 7; q1++ {
					u := randomTwoQubit(r)

					want := state.Clone()
					So(ApplyTwoQubit(want, u, q0, q1), ShouldBeNil)

					got := state.Clone()
					total := got.Len() / 4
					for lo := 0; lo < total; lo += 3 {
						twoQubitRange(got.amps, u.data, q0, q1, lo, min(lo+3, total))
					}

					So(got.ApproximatelyEquals(want), ShouldBeTrue)
				}
			}
		})
	})
}
