// Package taskwise wires the engine, the store, and the enrichment client
// into the application object the CLI commands share. Commands stay thin:
// load the list, run the engine, persist what comes back.
package taskwise

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/taskwise/internal/core/config"
	"github.com/colonyops/taskwise/internal/core/logging"
	"github.com/colonyops/taskwise/internal/core/task"
	"github.com/colonyops/taskwise/internal/engine"
	"github.com/colonyops/taskwise/pkg/randid"
)

// App holds the wired application services.
type App struct {
	Config *config.Config
	Store  task.Store
	Engine *engine.Engine

	log zerolog.Logger
}

// NewApp creates the application object.
func NewApp(cfg *config.Config, store task.Store, eng *engine.Engine) *App {
	return &App{
		Config: cfg,
		Store:  store,
		Engine: eng,
		log:    logging.Component("app"),
	}
}

// Tasks loads the full task list.
func (a *App) Tasks(ctx context.Context) ([]task.Task, error) {
	tasks, err := a.Store.List(ctx, task.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return tasks, nil
}

// Run routes one natural-language message through the engine and persists
// the updated list when the command succeeded.
func (a *App) Run(ctx context.Context, message string) (engine.CommandResult, error) {
	ctx = logging.WithCommandID(ctx, randid.Generate(8))
	ctx = logging.WithOperation(ctx, "do")

	return a.Mutate(ctx, func(tasks []task.Task) ([]task.Task, engine.CommandResult) {
		return a.Engine.ProcessCommand(ctx, tasks, message)
	})
}

// Mutate loads the list, applies fn, and persists the result when fn
// reports success. Failed commands leave the stored list untouched.
func (a *App) Mutate(ctx context.Context, fn func([]task.Task) ([]task.Task, engine.CommandResult)) (engine.CommandResult, error) {
	tasks, err := a.Tasks(ctx)
	if err != nil {
		return engine.CommandResult{}, err
	}

	updated, result := fn(tasks)
	if !result.Success {
		a.log.Debug().Ctx(ctx).Str("reason", string(result.Reason)).Msg("command did not apply")
		return result, nil
	}

	if err := a.Store.Replace(ctx, updated); err != nil {
		return engine.CommandResult{}, fmt.Errorf("persist tasks: %w", err)
	}
	return result, nil
}
