package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/atomicstack/tmux-reminder-popup/internal/app"
	"github.com/atomicstack/tmux-reminder-popup/internal/config"
	"github.com/atomicstack/tmux-reminder-popup/internal/logging"
	"github.com/atomicstack/tmux-reminder-popup/internal/logging/events"
	"github.com/atomicstack/tmux-reminder-popup/internal/reminder"
	"golang.org/x/term"
)

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	if logging.TraceEnabled() {
		events.App.Start(startupTracePayload(runtimeCfg, os.Getenv("TMUX_PANE"), int(os.Stdout.Fd())))
	}

	err := app.Run(runtimeCfg.App)
	events.App.Exit(err)
	if err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startupTracePayload records which reminder the popup is about to show,
// where it will read and send it, and how much room it has to draw.
func startupTracePayload(cfg config.Config, pane string, fd int) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	if u, ok := flags["redisUrl"].(string); ok {
		flags["redisUrl"] = redactURL(u)
	}
	payload := map[string]interface{}{
		"argv":     cfg.Args,
		"flags":    flags,
		"window":   resolveWindowTarget(cfg.App.WindowID, pane),
		"backends": describeBackends(cfg.App),
		"popup":    measurePopup(fd, cfg.App),
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	return payload
}

type windowTarget struct {
	Source   string `json:"source"`
	ID       string `json:"id,omitempty"`
	Pane     string `json:"pane,omitempty"`
	StoreKey string `json:"storeKey,omitempty"`
}

// resolveWindowTarget reports whether the window id came from --window-id or
// will be asked of tmux for $TMUX_PANE. The store key is only known up front
// for an explicit id.
func resolveWindowTarget(windowID, pane string) windowTarget {
	switch {
	case windowID != "":
		return windowTarget{Source: "flag", ID: windowID, Pane: pane, StoreKey: reminder.Key(windowID)}
	case pane != "":
		return windowTarget{Source: "pane", Pane: pane}
	default:
		return windowTarget{Source: "none"}
	}
}

type backendSummary struct {
	Store       string `json:"store"`
	StoreAddr   string `json:"storeAddr"`
	Channel     string `json:"channel"`
	ChannelAddr string `json:"channelAddr"`
}

func describeBackends(cfg app.Config) backendSummary {
	summary := backendSummary{Store: cfg.Store, Channel: cfg.Channel}
	switch cfg.Store {
	case app.StoreRedis:
		summary.StoreAddr = redactURL(cfg.RedisURL)
	default:
		summary.StoreAddr = cfg.DBPath
	}
	switch cfg.Channel {
	case app.ChannelRedis:
		summary.ChannelAddr = redactURL(cfg.RedisURL) + " " + cfg.Queue
	default:
		summary.ChannelAddr = redactURL(cfg.Endpoint)
	}
	return summary
}

// redactURL hides credentials so redis passwords never reach the trace log.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}

type popupSize struct {
	Terminal bool   `json:"terminal"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Pinned   bool   `json:"pinned"`
	Error    string `json:"error,omitempty"`
}

// measurePopup reports the drawing area on fd. Pinned is set when --width or
// --height override what the terminal reports.
func measurePopup(fd int, cfg app.Config) popupSize {
	size := popupSize{Pinned: cfg.Width > 0 || cfg.Height > 0}
	if fd < 0 || !term.IsTerminal(fd) {
		return size
	}
	size.Terminal = true
	width, height, err := term.GetSize(fd)
	if err != nil {
		size.Error = err.Error()
		return size
	}
	size.Width, size.Height = width, height
	if cfg.Width > 0 {
		size.Width = cfg.Width
	}
	if cfg.Height > 0 {
		size.Height = cfg.Height
	}
	return size
}
