package command

import (
	"github.com/sandevgo/dailyfacts/internal/core"
)

// NewRouter wires every chat command to the session engine.
func NewRouter(
	s Session,
	settings core.SettingsStore,
	reminders Reminders,
) *Router {
	var router *Router
	commands := []core.Command{
		NewTodayCommand(s),
		NewNextCommand(s),
		NewSkipCommand(s),
		NewSwapCommand(s),
		NewTopicsCommand(s, settings),
		NewModeCommand(s, settings),
		NewLangCommand(s, settings),
		NewClearCommand(s),
		NewReminderCommand(s, settings, reminders),
		NewRemindCommand(s, reminders),
		NewStatusCommand(s, settings, reminders),
		NewHelpCommand(func() []core.Command { return router.ListCommands() }),
	}
	router = New(commands)
	return router
}
