package events

import "github.com/atomicstack/tmux-reminder-popup/internal/logging"

type ActionTracer struct{}

var Action = ActionTracer{}

func (ActionTracer) Submit(action, reminderID string) {
	logging.Trace("action.submit", map[string]interface{}{"action": action, "reminder": reminderID})
}

func (ActionTracer) Busy(action string) {
	logging.Trace("action.busy", map[string]interface{}{"action": action})
}

func (ActionTracer) Error(action string, err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"action": action, "error": err.Error()})
}

func (ActionTracer) Success(action string) {
	logging.Trace("action.success", map[string]interface{}{"action": action})
}
