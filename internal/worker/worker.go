// Package worker implements the per-core run loop: acquire a process,
// run it, detect the burst-completion / time-slice / preemption yield
// conditions in priority order, emulate a context-switch delay, and
// repeat until the run terminates. One loop, parameterized on
// policy.Algorithm, covers every scheduling discipline.
package worker

import (
	"log/slog"
	"time"

	"github.com/biandopa/cpusim/internal/clock"
	ilog "github.com/biandopa/cpusim/internal/log"
	"github.com/biandopa/cpusim/internal/model"
	"github.com/biandopa/cpusim/internal/policy"
	"github.com/biandopa/cpusim/internal/sched"
)

const idleBackoff = time.Millisecond

// Core runs one per-core dispatch loop. ID identifies the core in
// Process.Core and in logs.
type Core struct {
	ID    int
	state *sched.State
	clock *clock.Clock
	log   *slog.Logger

	current    *model.Process
	sliceStart uint64
}

// New builds a Core worker bound to the shared scheduler state and clock.
func New(id int, state *sched.State, clk *clock.Clock, log *slog.Logger) *Core {
	return &Core{ID: id, state: state, clock: clk, log: log}
}

// Run executes the per-core loop until the scheduler state reports
// AllTerminated. It is meant to be launched as `go core.Run()`.
func (c *Core) Run() {
	for {
		c.state.Lock()
		done := c.state.AllTerminated()
		c.state.Unlock()
		if done {
			return
		}

		if c.current == nil {
			if !c.dispatch() {
				time.Sleep(idleBackoff)
			}
			continue
		}

		c.step()
	}
}

// dispatch tries to pop the next ready process onto this core. Returns
// false if the ready queue was empty.
func (c *Core) dispatch() bool {
	now := c.clock.Now()

	c.state.Lock()
	p := c.state.PopReadyFront()
	if p == nil {
		c.state.Unlock()
		return false
	}
	p.Transition(model.Running, now)
	p.Core = c.ID
	c.state.Unlock()

	c.current = p
	c.sliceStart = now

	c.log.Debug("dispatched process", ilog.IntAttr("pid", int(p.PID)), ilog.IntAttr("core", c.ID))
	return true
}

// step evaluates the yield conditions for the currently running process,
// in the priority order burst-completion, time-slice expiry, preemption.
func (c *Core) step() {
	now := c.clock.Now()
	p := c.current

	c.state.Lock()
	p.Observe(now)
	c.state.Unlock()

	if p.BurstElapsed(now) >= p.RemainingInBurst {
		c.finishBurst(p, now)
		return
	}

	if c.state.Algorithm == policy.RR && now-c.sliceStart >= c.state.TimeSliceMs {
		c.preemptForTimeSlice(p, now)
		return
	}

	if c.state.Algorithm == policy.PP {
		if c.checkPriorityPreemption(p, now) {
			return
		}
	}
}

// finishBurst handles yield condition (a): the current CPU burst is done.
// If another burst follows, the process moves to I/O; otherwise it
// terminates. Either way a context-switch delay follows before the core
// looks for new work.
func (c *Core) finishBurst(p *model.Process, now uint64) {
	c.state.Lock()
	if p.HasNextBurst() {
		p.Transition(model.IO, now)
		p.AdvanceBurst()
		c.log.Info("process yields to i/o", ilog.IntAttr("pid", int(p.PID)), ilog.IntAttr("core", c.ID))
	} else {
		p.Transition(model.Terminated, now)
		c.state.AppendTerminated(p)
		c.log.Info("process terminated", ilog.IntAttr("pid", int(p.PID)), ilog.IntAttr("core", c.ID))
	}
	c.state.Unlock()

	c.release()
}

// preemptForTimeSlice handles yield condition (b): RR's time slice
// expired before the burst completed.
func (c *Core) preemptForTimeSlice(p *model.Process, now uint64) {
	c.state.Lock()
	p.ReduceCurrentBurst(p.BurstElapsed(now))
	p.Transition(model.Ready, now)
	c.state.PushReady(p)
	c.state.Unlock()

	c.log.Debug("time slice expired", ilog.IntAttr("pid", int(p.PID)), ilog.IntAttr("core", c.ID))
	c.release()
}

// checkPriorityPreemption handles yield condition (c): under PP, a
// strictly-higher-priority process waiting at the ready-queue head
// preempts the one running here. Returns true if a preemption happened.
func (c *Core) checkPriorityPreemption(p *model.Process, now uint64) bool {
	c.state.Lock()
	head := c.state.ReadyHead()
	if head == nil || !policy.PreemptsRunning(head, p) {
		c.state.Unlock()
		return false
	}

	p.ReduceCurrentBurst(p.BurstElapsed(now))
	p.Transition(model.Ready, now)
	c.state.PushReady(p)
	c.state.Unlock()

	c.log.Debug("preempted by higher priority arrival", ilog.IntAttr("pid", int(p.PID)), ilog.IntAttr("core", c.ID))
	c.release()
	return true
}

// release frees the core's slot, spin-waiting the configured context-
// switch delay. No process or lock is held during the wait, so the slot
// is immediately visible to the coordinator and other cores.
func (c *Core) release() {
	c.current = nil
	c.contextSwitch()
}

func (c *Core) contextSwitch() {
	if c.state.ContextSwitchMs == 0 {
		return
	}
	deadline := c.clock.Now() + c.state.ContextSwitchMs
	for c.clock.Now() < deadline {
		c.state.Lock()
		done := c.state.AllTerminated()
		c.state.Unlock()
		if done {
			return
		}
	}
}
