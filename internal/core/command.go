package core

import "context"

// CmdRouter dispatches slash commands shared by every chat transport.
type CmdRouter interface {
	Execute(ctx context.Context, sessionID, input string) (string, bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Usage() string
	Execute(ctx context.Context, sessionID string, args []string) (string, error)
}
