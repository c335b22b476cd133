package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskwise/internal/core/task"
	"github.com/colonyops/taskwise/internal/engine"
)

// printResult renders a command result as human-readable text. Returns a
// non-nil cli exit error for failed commands so the process exit code
// reflects the outcome.
func printResult(out io.Writer, result engine.CommandResult) error {
	if result.Success {
		switch {
		case result.Message != "":
			fmt.Fprintln(out, result.Message)
		case result.TaskName != "":
			fmt.Fprintf(out, "Done: %s\n", result.TaskName)
		default:
			fmt.Fprintln(out, "Done.")
		}
		if len(result.Tasks) > 0 {
			printTaskTable(out, result.Tasks)
		}
		return nil
	}

	if result.Message != "" {
		fmt.Fprintln(out, result.Message)
	}
	if result.MultipleMatches {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTASK\tPRIORITY\tDUE")
		for _, m := range result.Matches {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Text, m.Priority, orDash(m.DueDate))
		}
		_ = w.Flush()
	}

	return cli.Exit("", 1)
}

func printTaskTable(out io.Writer, tasks []task.Task) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTASK\tPRIORITY\tDUE\tCATEGORY\tSTATUS")
	for _, t := range tasks {
		status := "pending"
		if t.Completed {
			status = "done"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Text, t.Priority, orDash(t.DueDate), t.Category, status)
	}
	_ = w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
