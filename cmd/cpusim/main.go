// Command cpusim runs the multi-core CPU scheduling simulator described by
// a JSON configuration file: it loads the workload, dispatches it across
// the configured number of cores under the chosen policy, renders live
// snapshots, and prints final aggregate statistics once every process has
// terminated.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/biandopa/cpusim/internal/clock"
	"github.com/biandopa/cpusim/internal/config"
	"github.com/biandopa/cpusim/internal/coordinator"
	ilog "github.com/biandopa/cpusim/internal/log"
	"github.com/biandopa/cpusim/internal/model"
	"github.com/biandopa/cpusim/internal/policy"
	"github.com/biandopa/cpusim/internal/reporter"
	"github.com/biandopa/cpusim/internal/sched"
	"github.com/biandopa/cpusim/internal/simerr"
	"github.com/biandopa/cpusim/internal/stats"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("cpusim", flag.ContinueOnError)
	webhookURL := fs.String("webhook", "", "optional URL to POST live snapshots to")
	noTable := fs.Bool("no-table", false, "disable the live terminal table")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, simerr.ErrConfigMissing)
		fmt.Fprintln(os.Stderr, "usage: cpusim [-webhook URL] [-no-table] <config.json>")
		return 1
	}

	cfg, err := config.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log := ilog.BuildLogger(cfg.LogLevel)
	log.Info("loaded configuration", ilog.StringAttr("run_id", cfg.RunID), ilog.AnyAttr("config", cfg.String()))

	return simulate(cfg, log, *webhookURL, *noTable)
}

func simulate(cfg *config.SchedulerConfig, log *slog.Logger, webhookURL string, noTable bool) (code int) {
	defer func() {
		if r := recover(); r != nil {
			var inv simerr.InvariantViolation
			if errors.As(toError(r), &inv) {
				fmt.Fprintln(os.Stderr, inv.Error())
				code = 1
				return
			}
			panic(r)
		}
	}()

	clk := clock.New()
	now := clk.Now()

	details := cfg.ToDetails()
	processes := make([]*model.Process, 0, len(details))
	for _, d := range details {
		processes = append(processes, model.New(d, now))
	}

	state := sched.New(policy.Algorithm(cfg.Algorithm), cfg.ContextSwitch, cfg.TimeSlice, cfg.Cores, processes, now)
	state.Lock()
	for _, p := range processes {
		if p.State == model.Ready {
			state.PushReady(p)
		}
	}
	state.Unlock()

	rep := buildReporter(clk, log, webhookURL, noTable)
	co := coordinator.New(state, clk, log, rep)
	co.Run()

	summary := stats.Compute(state)
	stats.Fprint(os.Stdout, summary)
	return 0
}

func buildReporter(clk *clock.Clock, log *slog.Logger, webhookURL string, noTable bool) reporter.Reporter {
	var reporters multiReporter
	if !noTable {
		reporters = append(reporters, reporter.NewTableReporter(clk))
	}
	if webhookURL != "" {
		reporters = append(reporters, reporter.NewWebhookReporter(webhookURL, clk, log))
	}
	if len(reporters) == 0 {
		return nil
	}
	return reporters
}

// multiReporter fans a snapshot out to every configured Reporter, so the
// table and webhook reporters can both be active without either knowing
// about the other.
type multiReporter []reporter.Reporter

func (m multiReporter) Snapshot(state *sched.State) {
	for _, r := range m {
		r.Snapshot(state)
	}
}

func toError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
