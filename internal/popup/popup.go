// Package popup holds the reminder popup controller: it loads the record for
// the hosting window, turns it into a View, forwards dismiss/snooze actions to
// the background daemon, and removes the record when the popup goes away.
//
// The controller owns no goroutines. Open, Submit, and Close block on the
// injected collaborators and are safe to call from Bubble Tea commands; a
// mutex guards the state machine so a second Submit cannot start while one is
// outstanding.
package popup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/tmux-reminder-popup/internal/logging"
	"github.com/atomicstack/tmux-reminder-popup/internal/logging/events"
	"github.com/atomicstack/tmux-reminder-popup/internal/reminder"
)

var (
	// ErrNoRecord means the store has nothing for this window; the popup closes.
	ErrNoRecord = errors.New("no reminder data found")
	// ErrBusy rejects a submit while another is in flight.
	ErrBusy = errors.New("an action is already in progress")
	// ErrClosed rejects work after the popup closed or failed to load.
	ErrClosed = errors.New("popup is closed")
	// ErrSnoozeUnavailable rejects snooze once the cap hid the button.
	ErrSnoozeUnavailable = errors.New("snooze limit reached")
)

// RecordStore reads and removes reminder records.
type RecordStore interface {
	Get(ctx context.Context, key string) (reminder.Record, bool, error)
	Delete(ctx context.Context, key string) error
}

// ActionChannel delivers action messages to the background daemon.
type ActionChannel interface {
	Send(ctx context.Context, msg reminder.Message) (*reminder.Ack, error)
}

// WindowHost resolves and focuses the window hosting the popup.
type WindowHost interface {
	CurrentWindowID(ctx context.Context) (string, error)
	Focus(ctx context.Context, windowID string) error
}

// Alerter draws attention to a freshly opened reminder. Failures are ignored.
type Alerter interface {
	Alert(ctx context.Context, rec reminder.Record) error
}

// State tracks the popup lifecycle.
type State int

const (
	StateLoading State = iota
	StateIdle
	StateSubmitting
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// View is everything the UI needs to paint the popup.
type View struct {
	Title           string
	Description     string
	ShowDescription bool
	TimeText        string
	ContactName     string
	ShowContact     bool
	ShowSnooze      bool
	// Inert is set when loading failed: only the title is meaningful and no
	// action can be submitted.
	Inert bool
}

// ActionError reports a failure acknowledged by the daemon or raised by the
// channel while delivering an action.
type ActionError struct {
	Action reminder.Action
	Msg    string
	Err    error
}

func (e *ActionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Config bundles the collaborators a Controller needs. Alerter is optional.
// TimeLayout defaults to reminder.DefaultTimeLayout.
type Config struct {
	Store      RecordStore
	Channel    ActionChannel
	Host       WindowHost
	Alerter    Alerter
	Location   *time.Location
	TimeLayout string
}

// Controller drives a single popup instance.
type Controller struct {
	store    RecordStore
	channel  ActionChannel
	host     WindowHost
	alerter  Alerter
	location *time.Location
	layout   string

	mu     sync.Mutex
	state  State
	record reminder.Record
	view   View

	closeOnce sync.Once
}

// New builds a controller in the loading state.
func New(cfg Config) *Controller {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Controller{
		store:    cfg.Store,
		channel:  cfg.Channel,
		host:     cfg.Host,
		alerter:  cfg.Alerter,
		location: loc,
		layout:   cfg.TimeLayout,
		state:    StateLoading,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Record returns the loaded reminder.
func (c *Controller) Record() reminder.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record
}

// Open resolves the window, loads its reminder and builds the view. A missing
// record returns ErrNoRecord and moves the controller to closed. Any other
// failure returns an inert view carrying the load error title.
func (c *Controller) Open(ctx context.Context) (View, error) {
	windowID, err := c.host.CurrentWindowID(ctx)
	if err != nil {
		return c.fail(fmt.Errorf("resolve window: %w", err))
	}
	events.Popup.Open(windowID)

	key := reminder.Key(windowID)
	rec, found, err := c.store.Get(ctx, key)
	if err != nil {
		return c.fail(fmt.Errorf("load %s: %w", key, err))
	}
	if !found {
		logging.Errorf("%v for %s", ErrNoRecord, key)
		events.Popup.Missing(key)
		c.setState(StateClosed)
		return View{}, ErrNoRecord
	}

	view := Render(rec, c.location, c.layout)
	c.mu.Lock()
	c.record = rec
	c.view = view
	c.state = StateIdle
	c.mu.Unlock()
	events.Popup.Rendered(key, rec.ID, view.ShowSnooze)

	if err := c.host.Focus(ctx, windowID); err != nil {
		events.Popup.FocusError(windowID, err)
	}
	if c.alerter != nil {
		if err := c.alerter.Alert(ctx, rec); err != nil {
			events.Alert.Error("open", err)
		}
	}
	return view, nil
}

func (c *Controller) fail(err error) (View, error) {
	logging.Error(fmt.Errorf("%s: %w", reminder.LoadErrorTitle, err))
	events.Popup.LoadError(err)
	c.setState(StateFailed)
	return View{Title: reminder.LoadErrorTitle, Inert: true}, err
}

// Submit sends action to the daemon and waits for its acknowledgment. On
// success the controller is closed; on failure it returns to idle so the
// user can retry.
func (c *Controller) Submit(ctx context.Context, action reminder.Action) error {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		events.Action.Busy(string(action))
		return ErrBusy
	case StateIdle:
	default:
		c.mu.Unlock()
		return ErrClosed
	}
	if !action.Valid() {
		c.mu.Unlock()
		return fmt.Errorf("unknown action %q", action)
	}
	if action == reminder.ActionSnooze && !c.view.ShowSnooze {
		c.mu.Unlock()
		return ErrSnoozeUnavailable
	}
	c.state = StateSubmitting
	rec := c.record
	c.mu.Unlock()

	events.Action.Submit(string(action), rec.ID)
	err := c.send(ctx, action, rec)

	c.mu.Lock()
	if err != nil {
		c.state = StateIdle
	} else {
		c.state = StateClosed
	}
	c.mu.Unlock()

	if err != nil {
		logging.Error(err)
		events.Action.Error(string(action), err)
		return err
	}
	events.Action.Success(string(action))
	return nil
}

func (c *Controller) send(ctx context.Context, action reminder.Action, rec reminder.Record) error {
	ack, err := c.channel.Send(ctx, reminder.NewMessage(action, rec))
	if err != nil {
		return &ActionError{Action: action, Msg: action.ErrorText(), Err: err}
	}
	if ack.Failed() {
		msg := ack.Error
		if msg == "" {
			msg = action.ErrorText()
		}
		return &ActionError{Action: action, Msg: msg}
	}
	return nil
}

// Close removes the stored record for the hosting window. It runs at most
// once and never reports failure.
func (c *Controller) Close(ctx context.Context) {
	c.closeOnce.Do(func() {
		c.setState(StateClosed)
		windowID, err := c.host.CurrentWindowID(ctx)
		if err != nil {
			events.Store.CleanupError(err)
			return
		}
		if err := c.store.Delete(ctx, reminder.Key(windowID)); err != nil {
			events.Store.CleanupError(err)
		}
	})
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Render maps a record onto the popup's display slots, formatting the time
// with layout (empty means reminder.DefaultTimeLayout).
func Render(rec reminder.Record, loc *time.Location, layout string) View {
	view := View{
		Title:      rec.Title,
		TimeText:   rec.FormatTime(loc, layout),
		ShowSnooze: rec.CanSnooze(),
	}
	if rec.HasDescription() {
		view.Description = rec.Description
		view.ShowDescription = true
	}
	if rec.HasContact() {
		view.ContactName = rec.ContactName
		view.ShowContact = true
	}
	return view
}
