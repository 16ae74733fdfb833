// Package model holds the Process record: the in-memory workload unit the
// dispatcher moves between states, plus the accounting rules built around
// a single observe/transition/advance/reduce vocabulary, in place of
// bespoke per-policy timestamp fields.
package model

import (
	"fmt"

	"github.com/biandopa/cpusim/internal/simerr"
)

// State is one of the five points in the process lifecycle.
type State int

const (
	NotStarted State = iota
	Ready
	Running
	IO
	Terminated
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case IO:
		return "i/o"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Details is the immutable workload descriptor a process is built from,
// corresponding to spec's ProcessDetails.
type Details struct {
	PID           uint16
	Priority      uint8 // 0-4, lower is higher priority
	ArrivalOffset uint64
	Bursts        []uint64 // odd length >= 1; even indices CPU, odd indices I/O
}

// Episode records one contiguous Running slice, for the Gantt-style history
// supplemental feature. It is derived bookkeeping only; nothing in the
// dispatcher reads it back.
type Episode struct {
	Core      int
	StartMs   uint64
	EndMs     uint64
}

// Process is the mutable workload unit the dispatcher schedules. Every
// mutable field below is written only while the caller holds the
// scheduler's single mutex; the worker running a process also reads its
// burst timing (BurstPhaseStart, RemainingInBurst) without the lock.
type Process struct {
	PID           uint16
	Priority      uint8
	ArrivalOffset uint64
	Bursts        []uint64

	State            State
	CurrentBurst     int
	RemainingInBurst uint64 // ms still owed on the current burst, committed across preemption
	Core             int
	Launched         bool
	LaunchWallclock  uint64
	BurstPhaseStart  uint64
	EnqueueTime      uint64

	TurnaroundMs       uint64
	WaitMs             uint64
	CPUMs              uint64
	RemainingCPUBudget uint64

	// accounting snapshots taken at the moment the current episode began;
	// Observe recomputes CPUMs/RemainingCPUBudget/WaitMs live from these
	// without disturbing RemainingInBurst, which only AdvanceBurst,
	// ReduceCurrentBurst and the transition to Terminated change.
	cpuMsAtEpisodeStart    uint64
	budgetAtEpisodeStart   uint64
	waitMsAtEpisodeStart   uint64
	terminatedAt           uint64
	episodes               []Episode
}

// New builds a Process from its descriptor. If ArrivalOffset is 0 the
// process enters Ready immediately and its turnaround clock starts at now;
// otherwise it starts NotStarted and LaunchWallclock is set on first Ready
// transition.
func New(d Details, now uint64) *Process {
	var budget uint64
	for i, b := range d.Bursts {
		if i%2 == 0 {
			budget += b
		}
	}

	p := &Process{
		PID:                d.PID,
		Priority:           d.Priority,
		ArrivalOffset:      d.ArrivalOffset,
		Bursts:             append([]uint64(nil), d.Bursts...),
		CurrentBurst:       0,
		RemainingInBurst:   d.Bursts[0],
		Core:               -1,
		RemainingCPUBudget: budget,
	}

	if d.ArrivalOffset == 0 {
		p.State = Ready
		p.Launched = true
		p.LaunchWallclock = now
		p.EnqueueTime = now
	} else {
		p.State = NotStarted
	}

	return p
}

// Observe recomputes the live derived aggregates (turnaround, wait, cpu
// time, remaining CPU budget) for the process's current state, without
// disturbing RemainingInBurst. Safe to call repeatedly and idempotently
// with a non-decreasing now.
func (p *Process) Observe(now uint64) {
	if p.State != Terminated {
		p.TurnaroundMs = saturatingSub(now, p.LaunchWallclock)
	}

	switch p.State {
	case Running:
		elapsed := saturatingSub(now, p.BurstPhaseStart)
		p.CPUMs = p.cpuMsAtEpisodeStart + elapsed
		p.RemainingCPUBudget = saturatingSub(p.budgetAtEpisodeStart, elapsed)
	case Ready:
		elapsed := saturatingSub(now, p.EnqueueTime)
		p.WaitMs = p.waitMsAtEpisodeStart + elapsed
	case IO:
		// remaining-in-burst is not live-updated for I/O: it is not
		// preemptible, so the coordinator compares elapsed-since-start
		// against the committed value directly.
	case Terminated:
		p.RemainingCPUBudget = 0
	}
}

// BurstElapsed returns how long the process has been in its current
// Running or IO slice, for use in yield-condition checks.
func (p *Process) BurstElapsed(now uint64) uint64 {
	return saturatingSub(now, p.BurstPhaseStart)
}

// IsCPUBurst reports whether CurrentBurst refers to a CPU burst (even
// index) as opposed to an I/O burst (odd index).
func (p *Process) IsCPUBurst() bool {
	return p.CurrentBurst%2 == 0
}

// HasNextBurst reports whether another burst follows the current one.
func (p *Process) HasNextBurst() bool {
	return p.CurrentBurst+1 < len(p.Bursts)
}

// Transition validates and performs a state change, finalizing the
// accounting for the state being left and initializing bookkeeping for the
// state being entered. An invalid transition is a programming defect and
// aborts the simulator (simerr.Invariant), not a recoverable error.
func (p *Process) Transition(to State, now uint64) {
	if !validTransition(p.State, to) {
		simerr.Invariant("process %d: illegal transition %s -> %s", p.PID, p.State, to)
	}

	p.Observe(now)

	switch p.State {
	case Running:
		p.endEpisode(now)
	}

	switch to {
	case Ready:
		p.Core = -1
		p.EnqueueTime = now
		p.waitMsAtEpisodeStart = p.WaitMs
		if !p.Launched {
			p.Launched = true
			p.LaunchWallclock = now
		}
	case Running:
		p.BurstPhaseStart = now
		p.cpuMsAtEpisodeStart = p.CPUMs
		p.budgetAtEpisodeStart = p.RemainingCPUBudget
		if !p.Launched {
			p.Launched = true
			p.LaunchWallclock = now
		}
	case IO:
		p.Core = -1
		p.BurstPhaseStart = now
	case Terminated:
		p.Core = -1
		p.RemainingCPUBudget = 0
		p.RemainingInBurst = 0
		p.terminatedAt = now
		p.TurnaroundMs = saturatingSub(now, p.LaunchWallclock)
	}

	p.State = to
}

func (p *Process) endEpisode(now uint64) {
	start := p.BurstPhaseStart
	if now < start {
		now = start
	}
	p.episodes = append(p.episodes, Episode{Core: p.Core, StartMs: start, EndMs: now})
}

// AdvanceBurst moves to the next burst (CPU->IO or IO->CPU boundary),
// resetting RemainingInBurst to the new burst's full duration. It is
// called exactly once per burst completion, regardless of how many times
// that burst was preempted along the way.
func (p *Process) AdvanceBurst() {
	p.CurrentBurst++
	if p.CurrentBurst < len(p.Bursts) {
		p.RemainingInBurst = p.Bursts[p.CurrentBurst]
	} else {
		p.RemainingInBurst = 0
	}
}

// ReduceCurrentBurst subtracts elapsed run time from the current CPU
// burst's remainder, so it can be resumed later (RR time-slice expiry, PP
// preemption). The remainder never goes negative.
func (p *Process) ReduceCurrentBurst(deltaMs uint64) {
	p.RemainingInBurst = saturatingSub(p.RemainingInBurst, deltaMs)
}

// Episodes returns a copy of the process's Running-episode history.
func (p *Process) Episodes() []Episode {
	return append([]Episode(nil), p.episodes...)
}

func validTransition(from, to State) bool {
	switch from {
	case NotStarted:
		return to == Ready
	case Ready:
		return to == Running
	case Running:
		return to == Ready || to == IO || to == Terminated
	case IO:
		return to == Ready
	default:
		return false
	}
}

func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

// String renders a process for debug logging.
func (p *Process) String() string {
	return fmt.Sprintf("proc[pid=%d state=%s burst=%d core=%d]", p.PID, p.State, p.CurrentBurst, p.Core)
}
