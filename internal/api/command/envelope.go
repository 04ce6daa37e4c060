package command

import (
	"context"
	"errors"

	"github.com/GriffinCanCode/AppShelf/internal/domain/catalog"
	"github.com/GriffinCanCode/AppShelf/internal/domain/metadata"
)

// Error codes carried in replies
const (
	CodeNotFound       = "not_found"
	CodeInvalidArgs    = "invalid_args"
	CodeUnknownCommand = "unknown_command"
	CodeInternal       = "internal"
)

// Reply is the wire form of a command outcome.
type Reply struct {
	ID      string `json:"id,omitempty"`
	Command Kind   `json:"command"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Data    Result `json:"data,omitempty"`
}

// Handle decodes and dispatches an envelope, folding any error into the reply.
func (d *Dispatcher) Handle(ctx context.Context, env Envelope) Reply {
	reply := Reply{ID: env.ID, Command: env.Command}

	req, err := Decode(env)
	if err == nil {
		reply.Data, err = d.Dispatch(ctx, req)
	}
	if err != nil {
		reply.Data = nil
		reply.Error = err.Error()
		reply.Code = CodeOf(err)
		return reply
	}

	reply.OK = true
	return reply
}

// CodeOf classifies an error for clients.
func CodeOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, catalog.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidArgs), errors.Is(err, metadata.ErrInvalidName):
		return CodeInvalidArgs
	case errors.Is(err, ErrUnknownCommand):
		return CodeUnknownCommand
	default:
		return CodeInternal
	}
}
