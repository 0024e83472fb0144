package qsim

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given fresh metrics", t, func() {
		m := NewMetrics()

		Convey("The export is all zeros", func() {
			exported := m.ExportMetrics()
			So(exported["gates_applied"], ShouldEqual, int64(0))
			So(exported["avg_latency_us"], ShouldEqual, int64(0))
			So(exported["p99_latency_us"], ShouldEqual, int64(0))
		})

		Convey("When more gates are recorded than the window holds", func() {
			for i := 0; i < 2500; i++ {
				m.recordGate(1+i%2, 8, time.Now())
			}

			Convey("Then the counters keep every gate and the window stays bounded", func() {
				exported := m.ExportMetrics()
				So(exported["gates_applied"], ShouldEqual, int64(2500))
				So(exported["one_qubit_gates"], ShouldEqual, int64(1250))
				So(exported["two_qubit_gates"], ShouldEqual, int64(1250))
				So(exported["amplitude_updates"], ShouldEqual, int64(20000))
				So(len(m.latencies), ShouldEqual, m.windowSize)
			})
		})

		Convey("When recording and exporting concurrently", func() {
			var wg sync.WaitGroup

			for w := 0; w < 4; w++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					for i := 0; i < 200; i++ {
						m.recordGate(1, 4, time.Now())
						m.recordMeasurements(1)
					}
				}()
				go func() {
					defer wg.Done()
					for i := 0; i < 50; i++ {
						_ = m.ExportMetrics()
					}
				}()
			}
			wg.Wait()

			Convey("Then no update is lost", func() {
				exported := m.ExportMetrics()
				So(exported["gates_applied"], ShouldEqual, int64(800))
				So(exported["measurements"], ShouldEqual, int64(800))
			})
		})
	})
}
