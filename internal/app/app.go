package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/atomicstack/tmux-reminder-popup/internal/alert"
	"github.com/atomicstack/tmux-reminder-popup/internal/channel"
	"github.com/atomicstack/tmux-reminder-popup/internal/logging"
	"github.com/atomicstack/tmux-reminder-popup/internal/logging/events"
	"github.com/atomicstack/tmux-reminder-popup/internal/popup"
	"github.com/atomicstack/tmux-reminder-popup/internal/store"
	"github.com/atomicstack/tmux-reminder-popup/internal/tmux"
	"github.com/atomicstack/tmux-reminder-popup/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"

	ChannelHTTP  = "http"
	ChannelRedis = "redis"
)

// Config describes user-provided application options.
type Config struct {
	WindowID   string
	SocketPath string

	Store    string `validate:"oneof=sqlite redis"`
	DBPath   string `validate:"required_if=Store sqlite"`
	RedisURL string `validate:"required_if=Store redis,required_if=Channel redis"`

	Channel  string `validate:"oneof=http redis"`
	Endpoint string `validate:"required_if=Channel http"`
	Queue    string `validate:"required_if=Channel redis"`

	Width  int `validate:"gte=0"`
	Height int `validate:"gte=0"`

	Sound  bool
	Volume float64 `validate:"gte=0,lte=1"`
	Notify bool

	// TimeLayout is a Go time layout for the reminder time; empty uses
	// reminder.DefaultTimeLayout.
	TimeLayout string
}

type recordStore interface {
	popup.RecordStore
	io.Closer
}

// runProgram is swapped in tests to avoid starting a terminal program.
var runProgram = func(model tea.Model) error {
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// Run bootstraps the controller, executes the Bubble Tea program and removes
// the stored record once the program has exited. Failures while setting up
// the store, channel or tmux host are logged and handed to the popup, which
// shows them instead of exiting.
func Run(cfg Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pcfg := popup.Config{
		Alerter:    buildAlerter(cfg),
		TimeLayout: cfg.TimeLayout,
	}

	if socketPath, err := tmux.ResolveSocketPath(cfg.SocketPath); err != nil {
		pcfg.Host = setupFailed(fmt.Errorf("resolve socket path: %w", err))
	} else {
		pcfg.Host = tmux.NewHost(socketPath, cfg.WindowID)
	}

	if st, err := openStore(ctx, cfg); err != nil {
		pcfg.Store = setupFailed(err)
	} else {
		defer st.Close()
		pcfg.Store = st
	}

	if ch, closeChannel, err := openChannel(cfg); err != nil {
		pcfg.Channel = setupFailed(err)
	} else {
		defer closeChannel()
		pcfg.Channel = ch
	}

	return run(ctx, cancel, cfg, pcfg)
}

func setupFailed(err error) unavailable {
	logging.Error(err)
	return unavailable{err: err}
}

func run(ctx context.Context, cancel context.CancelFunc, cfg Config, pcfg popup.Config) error {
	controller := popup.New(pcfg)
	model := ui.NewModel(ctx, controller, cfg.Width, cfg.Height)
	err := runProgram(model)

	// abort any submit still waiting on the daemon before teardown
	cancel()
	controller.Close(context.Background())
	events.Popup.Close(model.CloseReason())

	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func openStore(ctx context.Context, cfg Config) (recordStore, error) {
	switch cfg.Store {
	case StoreRedis:
		st, err := store.OpenRedis(ctx, cfg.RedisURL, 0)
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		return st, nil
	case StoreSQLite, "":
		st, err := store.OpenSQLite(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func openChannel(cfg Config) (popup.ActionChannel, func(), error) {
	switch cfg.Channel {
	case ChannelRedis:
		ch, err := channel.DialRedis(cfg.RedisURL, cfg.Queue)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis channel: %w", err)
		}
		return ch, func() { ch.Close() }, nil
	case ChannelHTTP, "":
		return channel.NewHTTP(cfg.Endpoint, nil), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown channel %q", cfg.Channel)
	}
}

func buildAlerter(cfg Config) popup.Alerter {
	var alerters alert.All
	if cfg.Sound {
		alerters = append(alerters, alert.NewChime(cfg.Volume))
	}
	if cfg.Notify {
		alerters = append(alerters, alert.Desktop{TimeLayout: cfg.TimeLayout})
	}
	if len(alerters) == 0 {
		return nil
	}
	return alerters
}
