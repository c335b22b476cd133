package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskwise/internal/core/nlp"
	"github.com/colonyops/taskwise/internal/core/task"
	"github.com/colonyops/taskwise/internal/engine"
	"github.com/colonyops/taskwise/internal/taskwise"
	"github.com/colonyops/taskwise/pkg/iojson"
)

type AddCmd struct {
	flags *Flags
	app   *taskwise.App

	// flags
	priority   string
	due        string
	category   string
	jsonOutput bool
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *taskwise.App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Add a single task",
		UsageText: `taskwise add "pay rent" --due "next friday" --priority high`,
		Description: `Creates one task directly. The description is taken verbatim; use the
flags to set priority, due date (natural phrases work), and category.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "priority (low, medium, high, or a synonym like urgent)",
				Destination: &cmd.priority,
			},
			&cli.StringFlag{
				Name:        "due",
				Aliases:     []string{"d"},
				Usage:       "due date (tomorrow, next friday, 2025-03-01, ...)",
				Destination: &cmd.due,
			},
			&cli.StringFlag{
				Name:        "category",
				Usage:       "category label",
				Destination: &cmd.category,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the structured result as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("usage: taskwise add \"<task text>\"")
	}

	payload := task.Payload{
		Text:     text,
		DueDate:  cmd.due,
		Category: cmd.category,
	}
	if cmd.priority != "" {
		priority, ok := nlp.ParsePriorityWord(cmd.priority)
		if !ok {
			return fmt.Errorf("unknown priority %q", cmd.priority)
		}
		payload.Priority = priority
	}

	result, err := cmd.app.Mutate(ctx, func(tasks []task.Task) ([]task.Task, engine.CommandResult) {
		return cmd.app.Engine.Create(tasks, payload)
	})
	if err != nil {
		return err
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, result)
	}
	return printResult(c.Root().Writer, result)
}
