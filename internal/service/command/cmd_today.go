package command

import (
	"context"
)

type TodayCommand struct {
	session   Session
	formatter *ResponseFormatter
}

func NewTodayCommand(s Session) *TodayCommand {
	return &TodayCommand{session: s, formatter: NewResponseFormatter()}
}

func (c *TodayCommand) Name() string {
	return "today"
}

func (c *TodayCommand) Description() string {
	return "Show today's facts"
}

func (c *TodayCommand) Usage() string {
	return "/today"
}

func (c *TodayCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	return c.formatter.View(c.session.Resume(ctx)), nil
}

type NextCommand struct {
	session   Session
	formatter *ResponseFormatter
}

func NewNextCommand(s Session) *NextCommand {
	return &NextCommand{session: s, formatter: NewResponseFormatter()}
}

func (c *NextCommand) Name() string {
	return "next"
}

func (c *NextCommand) Description() string {
	return "Replace every fact with one you have not seen today"
}

func (c *NextCommand) Usage() string {
	return "/next"
}

func (c *NextCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	return c.formatter.View(c.session.Refresh(ctx)), nil
}
