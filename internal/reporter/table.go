package reporter

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/biandopa/cpusim/internal/clock"
	"github.com/biandopa/cpusim/internal/sched"
)

// TableReporter clears the terminal and prints a process table every
// frame, the convention the retrieved CSCE4600-family scheduler
// visualizers converge on.
type TableReporter struct {
	Out        io.Writer
	Clock      *clock.Clock
	ClearScreen bool
}

// NewTableReporter builds a TableReporter writing to stdout.
func NewTableReporter(clk *clock.Clock) *TableReporter {
	return &TableReporter{Out: os.Stdout, Clock: clk, ClearScreen: true}
}

// Snapshot implements Reporter by rendering the current process table.
func (t *TableReporter) Snapshot(state *sched.State) {
	rows := BuildSnapshot(state, t.Clock.Now())

	if t.ClearScreen {
		clearTerminal(t.Out)
	}

	table := tablewriter.NewWriter(t.Out)
	table.SetHeader([]string{"PID", "Priority", "State", "Core", "Turnaround(s)", "Wait(s)", "CPU(s)", "Remaining(s)"})
	for _, r := range rows {
		table.Append([]string{
			strconv.Itoa(int(r.PID)),
			strconv.Itoa(int(r.Priority)),
			r.State,
			r.Core,
			formatSeconds(r.TurnaroundS),
			formatSeconds(r.WaitS),
			formatSeconds(r.CPUS),
			formatSeconds(r.RemainingS),
		})
	}
	table.Render()
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.1f", s)
}

func clearTerminal(w io.Writer) {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", "cls")
	} else {
		cmd = exec.Command("clear")
	}
	cmd.Stdout = w
	_ = cmd.Run()
}
