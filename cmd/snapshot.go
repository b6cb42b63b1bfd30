package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/etnz/portodash"
	"github.com/etnz/portodash/renderer"
)

// snapshotCmd holds the flags for the 'snapshot' subcommand.
type snapshotCmd struct {
	statusFile string
	status     bool
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "record today's valuation in the snapshot history" }
func (*snapshotCmd) Usage() string {
	return `podo snapshot [-status-file <path>] [-status]

  Resolves current prices, values every holding, and records the result in
  the snapshot history. At most one snapshot is kept per UTC day: running it
  again the same day replaces that day's rows.

  Designed to run unattended from cron; with -status-file each run also
  writes a JSON record of the job's health. -status only reads and displays
  that record.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.statusFile, "status-file", "", "Also write the job status as JSON to this file.")
	f.BoolVar(&c.status, "status", false, "Only display the status of the last scheduled run.")
}

func (c *snapshotCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.status {
		return c.showStatus()
	}

	var sched portodash.SchedulerStatus
	sched.SetRunning(true)
	c.writeStatus(&sched)

	status := c.run(ctx, &sched)

	sched.SetRunning(false)
	sched.SetRuns(time.Now(), time.Time{})
	c.writeStatus(&sched)
	return status
}

func (c *snapshotCmd) run(ctx context.Context, sched *portodash.SchedulerStatus) subcommands.ExitStatus {
	p, err := OpenPortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load portfolio: %v\n", err)
		sched.SetError(err.Error())
		return subcommands.ExitFailure
	}

	res := newResolver().Resolve(ctx, p.Tickers())

	history := portodash.NewHistory(*historyFile)
	rows, err := history.Append(p.Holdings, res.Quotes, res.FetchedAt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not write snapshot: %v\n", err)
		sched.SetError(err.Error())
		return subcommands.ExitFailure
	}

	sched.SetError("")
	fmt.Printf("Recorded %d holdings in %s (prices %s).\n", len(rows), *historyFile, sourceNote(res))
	return subcommands.ExitSuccess
}

func (c *snapshotCmd) writeStatus(sched *portodash.SchedulerStatus) {
	if c.statusFile == "" {
		return
	}
	if err := sched.WriteFile(c.statusFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

func (c *snapshotCmd) showStatus() subcommands.ExitStatus {
	if c.statusFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -status needs -status-file to know where to read from.")
		return subcommands.ExitUsageError
	}
	status, err := portodash.ReadStatusFile(c.statusFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.StatusMarkdown(status))
	return subcommands.ExitSuccess
}

func sourceNote(res portodash.Resolution) string {
	switch res.Source {
	case portodash.SourceLive:
		return "all live"
	case portodash.SourceCache:
		return "all from cache"
	case portodash.SourceMixed:
		return "partly from cache"
	default:
		return "unavailable"
	}
}
