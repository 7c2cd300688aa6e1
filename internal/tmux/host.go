package tmux

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

const windowIDFormat = "#{window_id}"

// ErrNoWindow is returned when neither an explicit id nor a tmux pane is
// available to identify the popup's window.
var ErrNoWindow = errors.New("unable to determine tmux window")

// Host resolves and focuses the tmux window that owns the reminder popup.
// When WindowID is set it is used verbatim; the daemon passes it on the
// popup command line so the store key matches the one it wrote.
type Host struct {
	SocketPath string
	WindowID   string
	// Pane is the tmux pane the popup was launched from, normally $TMUX_PANE.
	Pane string
}

// NewHost builds a host for socketPath. An empty windowID defers to tmux.
func NewHost(socketPath, windowID string) *Host {
	return &Host{
		SocketPath: socketPath,
		WindowID:   strings.TrimSpace(windowID),
		Pane:       strings.TrimSpace(os.Getenv("TMUX_PANE")),
	}
}

// CurrentWindowID returns the configured id or asks tmux for the window of
// the launching pane.
func (h *Host) CurrentWindowID(ctx context.Context) (string, error) {
	if h.WindowID != "" {
		return h.WindowID, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if h.Pane == "" {
		return "", ErrNoWindow
	}
	client, err := newTmux(h.SocketPath)
	if err != nil {
		return "", fmt.Errorf("connect tmux: %w", err)
	}
	defer client.Close()
	id, err := client.DisplayMessage(h.Pane, windowIDFormat)
	if err != nil {
		return "", fmt.Errorf("display-message %s: %w", h.Pane, err)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrNoWindow
	}
	return id, nil
}

// Focus selects the tmux window matching windowID.
func (h *Host) Focus(ctx context.Context, windowID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	client, err := newTmux(h.SocketPath)
	if err != nil {
		return fmt.Errorf("connect tmux: %w", err)
	}
	defer client.Close()
	window, err := findWindow(client, windowID)
	if err != nil {
		return err
	}
	if window == nil {
		return fmt.Errorf("window %s not found", windowID)
	}
	return client.SelectWindow(window.Id)
}

func findWindow(client tmuxClient, target string) (*gotmux.Window, error) {
	windows, err := client.ListAllWindows()
	if err != nil {
		return nil, err
	}
	for _, w := range windows {
		if w == nil {
			continue
		}
		if w.Id == target {
			return w, nil
		}
		if session := firstSession(w); session != "" && fmt.Sprintf("%s:%d", session, w.Index) == target {
			return w, nil
		}
	}
	return nil, nil
}

func firstSession(w *gotmux.Window) string {
	if len(w.ActiveSessionsList) > 0 {
		return w.ActiveSessionsList[0]
	}
	if len(w.LinkedSessionsList) > 0 {
		return w.LinkedSessionsList[0]
	}
	return ""
}

// ResolveSocketPath picks the tmux socket from the flag, the environment, or
// the default per-user location.
func ResolveSocketPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if envSocket := os.Getenv("TMUX_REMINDER_POPUP_SOCKET"); envSocket != "" {
		return envSocket, nil
	}
	if tmuxEnv := os.Getenv("TMUX"); tmuxEnv != "" {
		parts := strings.Split(tmuxEnv, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil
		}
	}
	baseDir := os.Getenv("TMUX_TMPDIR")
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, fmt.Sprintf("tmux-%s", u.Uid), "default"), nil
}
