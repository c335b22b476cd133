package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskwise/internal/core/nlp"
	"github.com/colonyops/taskwise/internal/core/task"
	"github.com/colonyops/taskwise/internal/engine"
	"github.com/colonyops/taskwise/internal/taskwise"
	"github.com/colonyops/taskwise/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *taskwise.App

	// flags
	status     string
	category   string
	priority   string
	due        string
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *taskwise.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List tasks",
		UsageText: "taskwise ls [--status all] [--due today] [--json]",
		Description: `Displays a table of tasks. Defaults to pending tasks; combine the
filters to narrow the view.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "status",
				Usage:       "pending, completed, or all",
				Value:       "pending",
				Destination: &cmd.status,
			},
			&cli.StringFlag{
				Name:        "category",
				Usage:       "only tasks in this category",
				Destination: &cmd.category,
			},
			&cli.StringFlag{
				Name:        "priority",
				Usage:       "only tasks with this priority",
				Destination: &cmd.priority,
			},
			&cli.StringFlag{
				Name:        "due",
				Usage:       "today, tomorrow, week, or overdue",
				Destination: &cmd.due,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	tasks, err := cmd.app.Tasks(ctx)
	if err != nil {
		return err
	}

	tasks, err = cmd.filter(tasks, time.Now())
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, t := range tasks {
			if err := iojson.WriteLine(out, t); err != nil {
				return fmt.Errorf("encode task: %w", err)
			}
		}
		return nil
	}

	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found")
		return nil
	}

	printTaskTable(out, tasks)
	return nil
}

func (cmd *LsCmd) filter(tasks []task.Task, now time.Time) ([]task.Task, error) {
	switch cmd.status {
	case "all":
	case "completed":
		tasks = engine.CompletedTasks(tasks)
	case "pending", "":
		tasks = engine.Pending(tasks)
	default:
		return nil, fmt.Errorf("unknown status %q (want pending, completed, or all)", cmd.status)
	}

	// The remaining flags narrow whatever --status selected, so they filter
	// the slice directly rather than through the pending-only engine views.
	if cmd.category != "" {
		category := strings.ToLower(cmd.category)
		tasks = keepTasks(tasks, func(t task.Task) bool {
			return strings.ToLower(t.Category) == category
		})
	}

	if cmd.priority != "" {
		priority, ok := nlp.ParsePriorityWord(cmd.priority)
		if !ok {
			return nil, fmt.Errorf("unknown priority %q", cmd.priority)
		}
		tasks = keepTasks(tasks, func(t task.Task) bool { return t.Priority == priority })
	}

	today := now.Format(nlp.DateLayout)
	switch strings.ToLower(cmd.due) {
	case "":
	case "today":
		tasks = keepTasks(tasks, func(t task.Task) bool { return t.DueDate == today })
	case "tomorrow":
		tomorrow := now.AddDate(0, 0, 1).Format(nlp.DateLayout)
		tasks = keepTasks(tasks, func(t task.Task) bool { return t.DueDate == tomorrow })
	case "week":
		end := now.AddDate(0, 0, 7).Format(nlp.DateLayout)
		tasks = keepTasks(tasks, func(t task.Task) bool {
			return t.DueDate != "" && t.DueDate >= today && t.DueDate <= end
		})
	case "overdue":
		tasks = keepTasks(tasks, func(t task.Task) bool {
			return t.DueDate != "" && t.DueDate < today
		})
	default:
		return nil, fmt.Errorf("unknown due filter %q (want today, tomorrow, week, or overdue)", cmd.due)
	}

	return tasks, nil
}

func keepTasks(tasks []task.Task, pred func(task.Task) bool) []task.Task {
	var out []task.Task
	for _, t := range tasks {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}
