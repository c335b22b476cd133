package commands

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskwise/internal/core/task"
	"github.com/colonyops/taskwise/internal/engine"
	"github.com/colonyops/taskwise/internal/taskwise"
	"github.com/colonyops/taskwise/pkg/iojson"
)

type StatsCmd struct {
	flags *Flags
	app   *taskwise.App

	// flags
	jsonOutput bool
}

// NewStatsCmd creates a new stats command
func NewStatsCmd(flags *Flags, app *taskwise.App) *StatsCmd {
	return &StatsCmd{flags: flags, app: app}
}

// Register adds the stats command to the application
func (cmd *StatsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "stats",
		Usage:       "Show task statistics",
		UsageText:   "taskwise stats [--json]",
		Description: "Totals, completion rate, overdue count, and pending breakdowns by priority and category.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *StatsCmd) run(ctx context.Context, c *cli.Command) error {
	tasks, err := cmd.app.Tasks(ctx)
	if err != nil {
		return err
	}

	stats := engine.Statistics(tasks, time.Now())

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, stats)
	}

	out := c.Root().Writer
	fmt.Fprintf(out, "Total:      %d\n", stats.Total)
	fmt.Fprintf(out, "Completed:  %d (%.0f%%)\n", stats.Completed, stats.CompletionRate*100)
	fmt.Fprintf(out, "Pending:    %d\n", stats.Pending)
	fmt.Fprintf(out, "Overdue:    %d\n", stats.Overdue)

	if stats.Pending > 0 {
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PRIORITY\tPENDING")
		for _, p := range []task.Priority{task.PriorityHigh, task.PriorityMedium, task.PriorityLow} {
			if n := stats.ByPriority[p]; n > 0 {
				fmt.Fprintf(w, "%s\t%d\n", p, n)
			}
		}
		fmt.Fprintln(w, "CATEGORY\tPENDING")
		categories := make([]string, 0, len(stats.ByCategory))
		for category := range stats.ByCategory {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			fmt.Fprintf(w, "%s\t%d\n", category, stats.ByCategory[category])
		}
		_ = w.Flush()
	}

	return nil
}
