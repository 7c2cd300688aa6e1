package tmux

import (
	"context"
	"testing"

	testutil "github.com/atomicstack/tmux-reminder-popup/internal/testutil"
)

func TestHostIntegration(t *testing.T) {
	socket, session := testutil.StartTmuxServer(t)
	first := testutil.Display(t, socket, session, "#{window_id}")
	second := testutil.NewWindow(t, socket, session)

	h := &Host{SocketPath: socket, Pane: first}
	id, err := h.CurrentWindowID(context.Background())
	if err != nil {
		t.Skipf("skipping: control-mode client unavailable (%v)", err)
	}
	if id != first {
		t.Fatalf("expected %s, got %s", first, id)
	}

	if err := h.Focus(context.Background(), second); err != nil {
		t.Fatalf("focus failed: %v", err)
	}
	if active := testutil.Display(t, socket, session, "#{window_id}"); active != second {
		t.Fatalf("expected %s to be active, got %s", second, active)
	}
}
