package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts command_id and operation from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if commandID := GetCommandID(ctx); commandID != "" {
		e.Str("command_id", commandID)
	}

	if operation := GetOperation(ctx); operation != "" {
		e.Str("operation", operation)
	}
}
