// Package policy implements the ready-queue ordering disciplines: FCFS
// and RR never reorder (FIFO insertion order), SJF and PP impose a total
// order that the coordinator re-applies after every wake/arrival/requeue
// sweep.
package policy

import (
	"sort"

	"github.com/biandopa/cpusim/internal/model"
)

// Algorithm identifies one of the four supported scheduling disciplines.
type Algorithm string

const (
	FCFS Algorithm = "FCFS"
	SJF  Algorithm = "SJF"
	RR   Algorithm = "RR"
	PP   Algorithm = "PP"
)

// Valid reports whether a is one of the four supported algorithms.
func (a Algorithm) Valid() bool {
	switch a {
	case FCFS, SJF, RR, PP:
		return true
	default:
		return false
	}
}

// Preemptive reports whether this algorithm can preempt a running process
// before its burst completes (time-slice expiry for RR, priority arrival
// for PP).
func (a Algorithm) Preemptive() bool {
	return a == RR || a == PP
}

// Sorts reports whether the coordinator must re-sort the ready queue after
// each sweep for this algorithm.
func (a Algorithm) Sorts() bool {
	return a == SJF || a == PP
}

// SortReadyQueue reorders queue in place according to algorithm. FCFS and
// RR are no-ops: their order is whatever FIFO insertion already produced.
// Sorting is stable, so ties fall back to existing (arrival) order.
func SortReadyQueue(algorithm Algorithm, queue []*model.Process) {
	switch algorithm {
	case SJF:
		sort.SliceStable(queue, func(i, j int) bool {
			return queue[i].RemainingCPUBudget < queue[j].RemainingCPUBudget
		})
	case PP:
		sort.SliceStable(queue, func(i, j int) bool {
			return queue[i].Priority < queue[j].Priority
		})
	}
}

// PreemptsRunning reports whether, under PP, the candidate waiting at the
// head of the ready queue should preempt the process currently running.
// Strict less-than: equal-priority peers never preempt each other, to
// avoid thrashing.
func PreemptsRunning(candidate, running *model.Process) bool {
	return candidate.Priority < running.Priority
}
