package events

import "github.com/atomicstack/tmux-reminder-popup/internal/logging"

type PopupTracer struct{}

type CloseReason string

const (
	CloseMissing CloseReason = "missing"
	CloseAction  CloseReason = "action"
	CloseUser    CloseReason = "user"
)

var Popup = PopupTracer{}

func (PopupTracer) Open(windowID string) {
	logging.Trace("popup.open", map[string]interface{}{"window": windowID})
}

func (PopupTracer) Missing(key string) {
	logging.Trace("popup.missing", map[string]interface{}{"key": key})
}

func (PopupTracer) Rendered(key, reminderID string, snooze bool) {
	logging.Trace("popup.rendered", map[string]interface{}{
		"key":      key,
		"reminder": reminderID,
		"snooze":   snooze,
	})
}

func (PopupTracer) LoadError(err error) {
	if err == nil {
		return
	}
	logging.Trace("popup.load.error", map[string]interface{}{"error": err.Error()})
}

func (PopupTracer) FocusError(windowID string, err error) {
	if err == nil {
		return
	}
	logging.Trace("popup.focus.error", map[string]interface{}{"window": windowID, "error": err.Error()})
}

func (PopupTracer) Close(reason CloseReason) {
	logging.Trace("popup.close", map[string]interface{}{"reason": string(reason)})
}
