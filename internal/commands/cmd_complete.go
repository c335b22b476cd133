package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskwise/internal/core/task"
	"github.com/colonyops/taskwise/internal/engine"
	"github.com/colonyops/taskwise/internal/taskwise"
	"github.com/colonyops/taskwise/pkg/iojson"
)

type CompleteCmd struct {
	flags *Flags
	app   *taskwise.App

	// flags
	jsonOutput bool
}

// NewCompleteCmd creates a new complete command
func NewCompleteCmd(flags *Flags, app *taskwise.App) *CompleteCmd {
	return &CompleteCmd{flags: flags, app: app}
}

// Register adds the complete command to the application
func (cmd *CompleteCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "complete",
		Usage:     "Mark a task as completed",
		UsageText: `taskwise complete "groceries"`,
		Description: `Resolves the reference fuzzily against pending tasks. A completed
recurring task spawns its next instance. When several tasks could match,
the candidates are listed with their IDs; re-run with 'id:<ID>'.`,
		Flags: []cli.Flag{
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

func (cmd *CompleteCmd) run(ctx context.Context, c *cli.Command) error {
	reference := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if reference == "" {
		return fmt.Errorf("usage: taskwise complete \"<task reference>\"")
	}

	result, err := cmd.app.Mutate(ctx, func(tasks []task.Task) ([]task.Task, engine.CommandResult) {
		return cmd.app.Engine.Complete(tasks, reference)
	})
	if err != nil {
		return err
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, result)
	}
	return printResult(c.Root().Writer, result)
}
