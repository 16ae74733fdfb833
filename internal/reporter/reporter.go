// Package reporter implements the snapshot protocol: a read-only view of
// every process whose state is not NotStarted, taken under the
// scheduler's mutex, rendered as seconds with one decimal place. The
// dispatcher only ever talks to the Reporter interface — it never
// imports a concrete renderer.
package reporter

import (
	"math"
	"strconv"

	"github.com/biandopa/cpusim/internal/model"
	"github.com/biandopa/cpusim/internal/sched"
)

// Reporter is the external collaborator the coordinator hands a snapshot
// to once per frame. Its only contract obligation is to acquire the
// scheduler mutex while reading. BuildSnapshot does that for every
// implementation, so a Reporter need only format Rows.
type Reporter interface {
	Snapshot(state *sched.State)
}

// Row is one process's reported line, in the units and precision an
// external renderer expects: seconds, one decimal place.
type Row struct {
	PID         uint16  `json:"pid"`
	Priority    uint8   `json:"priority"`
	State       string  `json:"state"`
	Core        string  `json:"core"`
	TurnaroundS float64 `json:"turnaround_s"`
	WaitS       float64 `json:"wait_s"`
	CPUS        float64 `json:"cpu_s"`
	RemainingS  float64 `json:"remaining_s"`
}

// BuildSnapshot acquires state's mutex, observes every process at the
// current moment, and returns one Row per process whose state is not
// NotStarted.
func BuildSnapshot(state *sched.State, nowMs uint64) []Row {
	state.Lock()
	defer state.Unlock()

	rows := make([]Row, 0, len(state.Processes()))
	for _, p := range state.Processes() {
		if p.State == model.NotStarted {
			continue
		}
		p.Observe(nowMs)
		rows = append(rows, rowFor(p))
	}
	return rows
}

func rowFor(p *model.Process) Row {
	core := "--"
	if p.State == model.Running {
		core = strconv.Itoa(p.Core)
	}
	return Row{
		PID:         p.PID,
		Priority:    p.Priority,
		State:       p.State.String(),
		Core:        core,
		TurnaroundS: msToSeconds(p.TurnaroundMs),
		WaitS:       msToSeconds(p.WaitMs),
		CPUS:        msToSeconds(p.CPUMs),
		RemainingS:  msToSeconds(p.RemainingCPUBudget),
	}
}

func msToSeconds(ms uint64) float64 {
	return math.Round(float64(ms)/100.0) / 10.0
}

