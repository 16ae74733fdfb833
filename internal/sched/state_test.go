package sched_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/biandopa/cpusim/internal/model"
	"github.com/biandopa/cpusim/internal/policy"
	"github.com/biandopa/cpusim/internal/sched"
)

func TestPushPopReadyIsFIFO(t *testing.T) {
	a := model.New(model.Details{PID: 1, Bursts: []uint64{10}}, 0)
	b := model.New(model.Details{PID: 2, Bursts: []uint64{10}}, 0)
	state := sched.New(policy.FCFS, 0, 0, 1, []*model.Process{a, b}, 0)

	state.Lock()
	state.PushReady(a)
	state.PushReady(b)
	first := state.PopReadyFront()
	second := state.PopReadyFront()
	third := state.PopReadyFront()
	state.Unlock()

	require.Equal(t, a, first)
	require.Equal(t, b, second)
	require.Nil(t, third)
}

func TestHalfTargetRoundsUp(t *testing.T) {
	procs := make([]*model.Process, 3)
	for i := range procs {
		procs[i] = model.New(model.Details{PID: uint16(i + 1), Bursts: []uint64{10}}, 0)
	}
	state := sched.New(policy.FCFS, 0, 0, 1, procs, 0)
	require.Equal(t, 2, state.HalfTarget())
}

func TestAppendTerminatedPreservesOrder(t *testing.T) {
	a := model.New(model.Details{PID: 1, Bursts: []uint64{10}}, 0)
	b := model.New(model.Details{PID: 2, Bursts: []uint64{10}}, 0)
	state := sched.New(policy.FCFS, 0, 0, 1, []*model.Process{a, b}, 0)

	state.Lock()
	state.AppendTerminated(b)
	state.AppendTerminated(a)
	state.Unlock()

	require.Equal(t, 2, state.TerminatedLen())
}
