// Package sched holds the single shared coordination record the
// coordinator and every worker operate on: the ready queue, the
// terminated list, the run configuration, and the termination flag, all
// guarded by one mutex.
package sched

import (
	"sync"

	"github.com/biandopa/cpusim/internal/model"
	"github.com/biandopa/cpusim/internal/policy"
)

// State is the scheduler's single coordination record. All access to
// readyQueue, terminated, and allTerminated happens while mu is held.
type State struct {
	mu sync.Mutex

	Algorithm       policy.Algorithm
	ContextSwitchMs uint64
	TimeSliceMs     uint64
	Cores           uint8

	processes    []*model.Process
	readyQueue   []*model.Process
	terminated   []*model.Process
	allTerminated bool

	HalfDoneWallclock uint64
	EndWallclock      uint64
	StartWallclock    uint64
	halfTarget        int
}

// New builds a scheduler state owning processes for the run's lifetime.
func New(algorithm policy.Algorithm, contextSwitchMs, timeSliceMs uint64, cores uint8, processes []*model.Process, startWallclock uint64) *State {
	return &State{
		Algorithm:       algorithm,
		ContextSwitchMs: contextSwitchMs,
		TimeSliceMs:     timeSliceMs,
		Cores:           cores,
		processes:       processes,
		readyQueue:      make([]*model.Process, 0, len(processes)),
		terminated:      make([]*model.Process, 0, len(processes)),
		StartWallclock:  startWallclock,
		halfTarget:      (len(processes) + 1) / 2,
	}
}

// Lock and Unlock expose the scheduler's single mutex to callers (the
// coordinator's sweep, the reporter's snapshot) that need to perform
// several reads/writes atomically. The helper methods below do not lock;
// callers, workers included, hold the lock around them.
func (s *State) Lock()   { s.mu.Lock() }
func (s *State) Unlock() { s.mu.Unlock() }

// Processes returns the canonical, owned slice of every process in the
// run. Callers must hold the lock (or only read immutable fields) if the
// run is still in progress.
func (s *State) Processes() []*model.Process { return s.processes }

// PushReady appends p to the back of the ready queue. Must be called with
// the lock held.
func (s *State) PushReady(p *model.Process) {
	s.readyQueue = append(s.readyQueue, p)
}

// PopReadyFront removes and returns the process at the head of the ready
// queue, or nil if it is empty. Must be called with the lock held.
func (s *State) PopReadyFront() *model.Process {
	if len(s.readyQueue) == 0 {
		return nil
	}
	p := s.readyQueue[0]
	s.readyQueue = s.readyQueue[1:]
	return p
}

// ReadyLen returns the current ready-queue length. Must be called with the
// lock held.
func (s *State) ReadyLen() int { return len(s.readyQueue) }

// ReadyHead returns the process at the head of the ready queue without
// removing it, or nil if empty. Must be called with the lock held.
func (s *State) ReadyHead() *model.Process {
	if len(s.readyQueue) == 0 {
		return nil
	}
	return s.readyQueue[0]
}

// Sort reorders the ready queue per s.Algorithm. O(n log n); only the
// coordinator calls this, never a worker. Must be called with the lock
// held.
func (s *State) Sort() {
	policy.SortReadyQueue(s.Algorithm, s.readyQueue)
}

// AppendTerminated records p as terminated, preserving completion order.
// Must be called with the lock held.
func (s *State) AppendTerminated(p *model.Process) {
	s.terminated = append(s.terminated, p)
}

// TerminatedLen returns the number of terminated processes so far. Must be
// called with the lock held.
func (s *State) TerminatedLen() int { return len(s.terminated) }

// HalfTarget is ceil(len(processes)/2), the threshold for recording
// HalfDoneWallclock.
func (s *State) HalfTarget() int { return s.halfTarget }

// AllTerminated reports whether every process has reached Terminated.
// Must be called with the lock held, or treated as a racy hint by workers
// polling for shutdown.
func (s *State) AllTerminated() bool { return s.allTerminated }

// SetAllTerminated marks the run complete. Must be called with the lock
// held.
func (s *State) SetAllTerminated() { s.allTerminated = true }
