package events

import "github.com/atomicstack/tmux-reminder-popup/internal/logging"

type StoreTracer struct{}

type AlertTracer struct{}

var (
	Store = StoreTracer{}
	Alert = AlertTracer{}
)

func (StoreTracer) Get(backend, key string, found bool) {
	logging.Trace("store.get", map[string]interface{}{"backend": backend, "key": key, "found": found})
}

func (StoreTracer) Delete(backend, key string) {
	logging.Trace("store.delete", map[string]interface{}{"backend": backend, "key": key})
}

func (StoreTracer) CleanupError(err error) {
	if err == nil {
		return
	}
	logging.Trace("store.cleanup.error", map[string]interface{}{"error": err.Error()})
}

func (AlertTracer) Error(kind string, err error) {
	if err == nil {
		return
	}
	logging.Trace("alert.error", map[string]interface{}{"kind": kind, "error": err.Error()})
}
