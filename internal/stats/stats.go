// Package stats computes the final aggregate statistics once a run has
// terminated: CPU utilization, overall and per-half throughput, and
// average turnaround/wait.
package stats

import (
	"fmt"
	"io"

	"github.com/biandopa/cpusim/internal/sched"
)

// Summary holds the final aggregate statistics for a completed run.
type Summary struct {
	CPUUtilizationPct   float64
	ThroughputOverall   float64
	ThroughputFirstHalf float64
	ThroughputLastHalf  float64
	AvgTurnaroundS      float64
	AvgWaitS            float64
}

// Compute derives Summary from a terminated scheduler state. Callers must
// only call this after state.AllTerminated() is true.
func Compute(state *sched.State) Summary {
	state.Lock()
	defer state.Unlock()

	processes := state.Processes()
	n := len(processes)
	totalRuntimeMs := state.EndWallclock - state.StartWallclock

	var cpuMsSum, turnaroundMsSum, waitMsSum uint64
	for _, p := range processes {
		cpuMsSum += p.CPUMs
		turnaroundMsSum += p.TurnaroundMs
		waitMsSum += p.WaitMs
	}

	var s Summary
	if totalRuntimeMs > 0 {
		s.CPUUtilizationPct = float64(cpuMsSum) / float64(totalRuntimeMs) * 100
	}
	if totalRuntimeMs > 0 {
		s.ThroughputOverall = float64(n) / msToSeconds(totalRuntimeMs)
	}

	firstHalfN := n / 2
	lastHalfN := n - firstHalfN
	if state.HalfDoneWallclock > state.StartWallclock {
		s.ThroughputFirstHalf = float64(firstHalfN) / msToSeconds(state.HalfDoneWallclock-state.StartWallclock)
	}
	if state.EndWallclock > state.HalfDoneWallclock {
		s.ThroughputLastHalf = float64(lastHalfN) / msToSeconds(state.EndWallclock-state.HalfDoneWallclock)
	}

	if n > 0 {
		s.AvgTurnaroundS = msToSeconds(turnaroundMsSum) / float64(n)
		s.AvgWaitS = msToSeconds(waitMsSum) / float64(n)
	}

	return s
}

// Fprint writes Summary as a plain-text final-statistics block, in the
// same style used for end-of-run metrics logging.
func Fprint(w io.Writer, s Summary) {
	fmt.Fprintf(w, "CPU utilization:      %.1f%%\n", s.CPUUtilizationPct)
	fmt.Fprintf(w, "Throughput (overall):  %.3f proc/s\n", s.ThroughputOverall)
	fmt.Fprintf(w, "Throughput (1st half): %.3f proc/s\n", s.ThroughputFirstHalf)
	fmt.Fprintf(w, "Throughput (2nd half): %.3f proc/s\n", s.ThroughputLastHalf)
	fmt.Fprintf(w, "Average turnaround:    %.3f s\n", s.AvgTurnaroundS)
	fmt.Fprintf(w, "Average wait:          %.3f s\n", s.AvgWaitS)
}

func msToSeconds(ms uint64) float64 {
	return float64(ms) / 1000.0
}
