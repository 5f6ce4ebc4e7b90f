package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sandevgo/dailyfacts/internal/service/session"
)

// SwipeCommand removes one displayed fact, either for good (/skip) or in exchange for
// another fact of the same topic (/swap).
type SwipeCommand struct {
	session   Session
	replace   bool
	formatter *ResponseFormatter
}

func NewSkipCommand(s Session) *SwipeCommand {
	return &SwipeCommand{session: s, formatter: NewResponseFormatter()}
}

func NewSwapCommand(s Session) *SwipeCommand {
	return &SwipeCommand{session: s, replace: true, formatter: NewResponseFormatter()}
}

func (c *SwipeCommand) Name() string {
	if c.replace {
		return "swap"
	}
	return "skip"
}

func (c *SwipeCommand) Description() string {
	if c.replace {
		return "Swap fact N for another one of the same topic"
	}
	return "Dismiss fact N for the rest of the day"
}

func (c *SwipeCommand) Usage() string {
	return fmt.Sprintf("/%s [N] [ID]", c.Name())
}

func (c *SwipeCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return "", usageErrorf("fact number must be a positive integer, got %q", args[0])
		}
		n = v
	}

	var opts []session.SwipeOption
	if len(args) > 1 {
		opts = append(opts, session.ExpectID(args[1]))
	}

	swipe := c.session.Discard
	if c.replace {
		swipe = c.session.Replace
	}

	v, err := swipe(ctx, n-1, opts...)
	if errors.Is(err, session.ErrIndexOutOfRange) {
		return "", usageErrorf("there is no fact %d, %d displayed", n, len(c.session.View().Facts))
	}
	if err != nil {
		return "", err
	}
	return c.formatter.View(v), nil
}
