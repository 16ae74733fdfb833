// Package coordinator implements the single main-thread loop: once per
// frame it gates NotStarted arrivals and IO completions into Ready,
// re-sorts the ready queue for policy-ordered algorithms, tracks
// half-way/termination timestamps, and hands a snapshot to the reporter.
package coordinator

import (
	"log/slog"
	"sync"
	"time"

	"github.com/biandopa/cpusim/internal/clock"
	ilog "github.com/biandopa/cpusim/internal/log"
	"github.com/biandopa/cpusim/internal/model"
	"github.com/biandopa/cpusim/internal/policy"
	"github.com/biandopa/cpusim/internal/reporter"
	"github.com/biandopa/cpusim/internal/sched"
	"github.com/biandopa/cpusim/internal/worker"
)

// SweepInterval is how often the coordinator performs one sweep, matching
// a single render frame.
const SweepInterval = 16 * time.Millisecond

// Coordinator owns the run's wall-clock life cycle: launching workers,
// sweeping process state once per frame, and emitting snapshots until
// every process is Terminated.
type Coordinator struct {
	state    *sched.State
	clock    *clock.Clock
	log      *slog.Logger
	reporter reporter.Reporter
	cores    []*worker.Core
}

// New builds a Coordinator over an already-populated scheduler state.
// Workers are created but not started; call Run to launch them.
func New(state *sched.State, clk *clock.Clock, log *slog.Logger, rep reporter.Reporter) *Coordinator {
	cores := make([]*worker.Core, state.Cores)
	for i := range cores {
		cores[i] = worker.New(i, state, clk, log)
	}
	return &Coordinator{state: state, clock: clk, log: log, reporter: rep, cores: cores}
}

// Run launches every core worker, sweeps process state every SweepInterval
// until the run terminates, joins the workers, and returns.
func (co *Coordinator) Run() {
	// Order whatever the caller pre-loaded into the ready queue before any
	// worker can pop from it.
	co.state.Lock()
	if co.state.Algorithm.Sorts() {
		co.state.Sort()
	}
	co.state.Unlock()

	var wg sync.WaitGroup
	for _, c := range co.cores {
		wg.Add(1)
		go func(c *worker.Core) {
			defer wg.Done()
			c.Run()
		}(c)
	}

	for {
		done := co.sweep()

		if co.reporter != nil {
			co.reporter.Snapshot(co.state)
		}

		if done {
			break
		}
		time.Sleep(SweepInterval)
	}

	wg.Wait()
}

// sweep performs one coordinator pass: gate arrivals and I/O completions
// into Ready, re-sort for policy-ordered algorithms, update timestamps,
// and detect global termination. Returns true once every process has
// terminated.
func (co *Coordinator) sweep() bool {
	now := co.clock.Now()

	co.state.Lock()
	defer co.state.Unlock()

	for _, p := range co.state.Processes() {
		switch p.State {
		case model.NotStarted:
			if now-co.state.StartWallclock >= p.ArrivalOffset {
				p.Transition(model.Ready, now)
				co.state.PushReady(p)
				co.log.Debug("process arrived", ilog.IntAttr("pid", int(p.PID)))
			}
		case model.IO:
			if p.BurstElapsed(now) >= p.RemainingInBurst {
				p.AdvanceBurst()
				p.Transition(model.Ready, now)
				co.state.PushReady(p)
				co.log.Debug("i/o completed", ilog.IntAttr("pid", int(p.PID)))
			}
		}
		p.Observe(now)
	}

	if policy.Algorithm(co.state.Algorithm).Sorts() {
		co.state.Sort()
	}

	if co.state.HalfDoneWallclock == 0 && co.state.TerminatedLen() >= co.state.HalfTarget() {
		co.state.HalfDoneWallclock = now
	}

	if co.state.TerminatedLen() == len(co.state.Processes()) {
		co.state.SetAllTerminated()
		if co.state.EndWallclock == 0 {
			co.state.EndWallclock = now
		}
		return true
	}

	return false
}
