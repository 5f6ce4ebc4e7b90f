package command

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/sandevgo/dailyfacts/internal/service/reminder"
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

type ReminderCommand struct {
	session   Session
	settings  core.SettingsStore
	reminders Reminders
	formatter *ResponseFormatter
}

func NewReminderCommand(s Session, settings core.SettingsStore, reminders Reminders) *ReminderCommand {
	return &ReminderCommand{session: s, settings: settings, reminders: reminders, formatter: NewResponseFormatter()}
}

func (c *ReminderCommand) Name() string {
	return "reminder"
}

func (c *ReminderCommand) Description() string {
	return "Show or configure the daily reminder"
}

func (c *ReminderCommand) Usage() string {
	return "/reminder [on | off | HH:MM | days mon,tue,...]"
}

func (c *ReminderCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.show(ctx), nil
	}

	var mutate func(*core.SessionState)
	switch arg := strings.ToLower(args[0]); {
	case arg == "on":
		mutate = func(st *core.SessionState) { st.NotificationsEnabled = true }
	case arg == "off":
		mutate = func(st *core.SessionState) { st.NotificationsEnabled = false }
	case arg == "days":
		days, err := parseWeekdays(args[1:])
		if err != nil {
			return "", err
		}
		mutate = func(st *core.SessionState) { st.NotificationWeekdays = days }
	default:
		if _, _, err := reminder.ParseClock(arg); err != nil {
			return "", usageErrorf("expected on, off, days or a time like 09:00, got %q", args[0])
		}
		mutate = func(st *core.SessionState) {
			st.NotificationTime = arg
			st.NotificationsEnabled = true
		}
	}

	if _, err := c.session.ApplySettings(ctx, mutate); err != nil {
		return "", err
	}
	return c.formatter.Combine(c.formatter.Success("Reminder updated"), c.show(ctx)), nil
}

func (c *ReminderCommand) show(ctx context.Context) string {
	st := c.settings.Get(ctx)

	status := "off"
	if st.NotificationsEnabled {
		status = "on"
	}
	sections := []string{
		c.formatter.Info("Reminder"),
		c.formatter.Label("Status", status),
		c.formatter.Label("Time", st.NotificationTime),
		c.formatter.Label("Days", weekdayList(st.NotificationWeekdays)),
	}
	if r, ok := c.reminders.Next(); ok {
		sections = append(sections, c.formatter.Label("Next", r.At.Format("Mon 2 Jan 15:04")))
	}
	sections = append(sections, c.formatter.Usage(c.Usage()))
	return c.formatter.Combine(sections...)
}

func parseWeekdays(args []string) ([]time.Weekday, error) {
	days := []time.Weekday{}
	for _, arg := range args {
		for _, name := range strings.Split(arg, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			if name == "all" {
				return slices.Clone(core.AllWeekdays), nil
			}
			d, ok := weekdayNames[name[:min(3, len(name))]]
			if !ok {
				return nil, usageErrorf("unknown weekday %q", name)
			}
			if !slices.Contains(days, d) {
				days = append(days, d)
			}
		}
	}
	if len(days) == 0 {
		return nil, usageErrorf("name at least one weekday")
	}
	return days, nil
}

func weekdayList(days []time.Weekday) string {
	if len(days) == 0 {
		return "none"
	}
	if len(days) == 7 {
		return "every day"
	}
	names := make([]string, 0, len(days))
	for _, d := range core.AllWeekdays {
		if slices.Contains(days, d) {
			names = append(names, d.String()[:3])
		}
	}
	return strings.Join(names, ", ")
}

type RemindCommand struct {
	session   Session
	reminders Reminders
	formatter *ResponseFormatter
}

func NewRemindCommand(s Session, reminders Reminders) *RemindCommand {
	return &RemindCommand{session: s, reminders: reminders, formatter: NewResponseFormatter()}
}

func (c *RemindCommand) Name() string {
	return "remind"
}

func (c *RemindCommand) Description() string {
	return "Send a test reminder with the lead fact now"
}

func (c *RemindCommand) Usage() string {
	return "/remind"
}

func (c *RemindCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	lead := c.session.View().Lead()
	if lead == nil {
		lead = c.session.Resume(ctx).Lead()
	}
	if err := c.reminders.SendNow(ctx, lead); err != nil {
		return "", fmt.Errorf("failed to send reminder: %w", err)
	}
	return c.formatter.Success("Reminder sent"), nil
}
