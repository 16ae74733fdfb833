package coordinator_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/biandopa/cpusim/internal/clock"
	"github.com/biandopa/cpusim/internal/coordinator"
	"github.com/biandopa/cpusim/internal/model"
	"github.com/biandopa/cpusim/internal/policy"
	"github.com/biandopa/cpusim/internal/sched"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(new(discardWriter), nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func runToCompletion(t *testing.T, state *sched.State, clk *clock.Clock) {
	t.Helper()
	co := coordinator.New(state, clk, discardLogger(), nil)

	done := make(chan struct{})
	go func() {
		co.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("simulation did not terminate in time")
	}
}

// S1 — FCFS, 1 core, 1 process, bursts=[300], arrival=0, context_switch=0.
func TestS1FCFSSingleProcess(t *testing.T) {
	clk := clock.New()
	p := model.New(model.Details{PID: 1, Bursts: []uint64{300}}, clk.Now())
	state := sched.New(policy.FCFS, 0, 0, 1, []*model.Process{p}, clk.Now())
	state.Lock()
	state.PushReady(p)
	state.Unlock()

	runToCompletion(t, state, clk)

	require.Equal(t, model.Terminated, p.State)
	require.InDelta(t, 300.0, float64(p.CPUMs), 60)
	require.InDelta(t, 0.0, float64(p.WaitMs), 30)
}

// S2 — FCFS, 1 core, 2 processes, both arrival=0, bursts_A=[300], bursts_B=[150].
// Insertion order A then B: A runs first, B waits for A.
func TestS2FCFSTwoProcesses(t *testing.T) {
	clk := clock.New()
	now := clk.Now()
	a := model.New(model.Details{PID: 1, Bursts: []uint64{300}}, now)
	b := model.New(model.Details{PID: 2, Bursts: []uint64{150}}, now)
	state := sched.New(policy.FCFS, 0, 0, 1, []*model.Process{a, b}, now)
	state.Lock()
	state.PushReady(a)
	state.PushReady(b)
	state.Unlock()

	runToCompletion(t, state, clk)

	require.InDelta(t, 0.0, float64(a.WaitMs), 30)
	require.InDelta(t, 300.0, float64(b.WaitMs), 60)
	// B's turnaround must include its ready-wait behind A, not just its
	// own burst: turnaround_ms >= wait_ms must hold for every process.
	require.InDelta(t, 450.0, float64(b.TurnaroundMs), 90)
	require.GreaterOrEqual(t, b.TurnaroundMs, b.WaitMs)
}

// S3 — SJF, 1 core, same workload as S2: B (shorter) runs first.
func TestS3SJFShortestFirst(t *testing.T) {
	clk := clock.New()
	now := clk.Now()
	a := model.New(model.Details{PID: 1, Bursts: []uint64{300}}, now)
	b := model.New(model.Details{PID: 2, Bursts: []uint64{150}}, now)
	state := sched.New(policy.SJF, 0, 0, 1, []*model.Process{a, b}, now)
	state.Lock()
	state.PushReady(a)
	state.PushReady(b)
	state.Unlock()

	runToCompletion(t, state, clk)

	require.InDelta(t, 0.0, float64(b.WaitMs), 30)
	require.InDelta(t, 150.0, float64(a.WaitMs), 60)
	// A's turnaround must include its ready-wait behind B, not just its
	// own burst: turnaround_ms >= wait_ms must hold for every process.
	require.InDelta(t, 450.0, float64(a.TurnaroundMs), 90)
	require.GreaterOrEqual(t, a.TurnaroundMs, a.WaitMs)
}

// S5 — PP, 2 cores: a free core absorbs the higher-priority arrival, so
// no preemption is needed even though P2 outranks P1.
func TestS5PPTwoCoresNoPreemptionNeeded(t *testing.T) {
	clk := clock.New()
	now := clk.Now()
	p1 := model.New(model.Details{PID: 1, Priority: 2, Bursts: []uint64{600}}, now)
	p2 := model.New(model.Details{PID: 2, Priority: 0, ArrivalOffset: 150, Bursts: []uint64{150}}, now)
	state := sched.New(policy.PP, 0, 0, 2, []*model.Process{p1, p2}, now)
	state.Lock()
	state.PushReady(p1)
	state.Unlock()

	runToCompletion(t, state, clk)

	require.Equal(t, model.Terminated, p1.State)
	require.Equal(t, model.Terminated, p2.State)
	require.InDelta(t, 0.0, float64(p2.WaitMs), 40)
	// With a free core for P2, P1 does not need to be preempted, but
	// nothing here forbids it from being preempted anyway (worker.Core's
	// priority-preemption check races the idle core's worker popping P2
	// from the ready queue): assert the outcome that must hold regardless of how
	// many episodes it took — P1 still completes its full burst.
	require.GreaterOrEqual(t, len(p1.Episodes()), 1)
	require.InDelta(t, 600.0, float64(p1.CPUMs), 80)
}

// RR with a time slice at least as long as every burst degenerates to
// FCFS: the slice never expires.
func TestRRWithLargeTimeSliceBehavesLikeFCFS(t *testing.T) {
	clk := clock.New()
	now := clk.Now()
	p := model.New(model.Details{PID: 1, Bursts: []uint64{100}}, now)
	state := sched.New(policy.RR, 0, 1000, 1, []*model.Process{p}, now)
	state.Lock()
	state.PushReady(p)
	state.Unlock()

	runToCompletion(t, state, clk)

	require.Equal(t, model.Terminated, p.State)
	require.Len(t, p.Episodes(), 1)
}

// S6 — PP, 1 core: lower-priority P1 arrives first and is preempted when
// higher-priority P2 arrives mid-burst.
func TestS6PPPreemption(t *testing.T) {
	clk := clock.New()
	now := clk.Now()
	p1 := model.New(model.Details{PID: 1, Priority: 2, Bursts: []uint64{600}}, now)
	p2 := model.New(model.Details{PID: 2, Priority: 0, ArrivalOffset: 150, Bursts: []uint64{150}}, now)
	state := sched.New(policy.PP, 0, 0, 1, []*model.Process{p1, p2}, now)
	state.Lock()
	state.PushReady(p1)
	state.Unlock()

	runToCompletion(t, state, clk)

	require.Equal(t, model.Terminated, p1.State)
	require.Equal(t, model.Terminated, p2.State)
	require.InDelta(t, 600.0, float64(p1.CPUMs), 80)
	require.InDelta(t, 0.0, float64(p2.WaitMs), 80)
}
