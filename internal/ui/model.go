package ui

import (
	"context"
	"errors"
	"reflect"

	"github.com/atomicstack/tmux-reminder-popup/internal/logging/events"
	"github.com/atomicstack/tmux-reminder-popup/internal/popup"
	"github.com/atomicstack/tmux-reminder-popup/internal/reminder"
	"github.com/atomicstack/tmux-reminder-popup/internal/theme"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	loadingReminderText = "Loading reminder..."
	processingText      = "Processing..."
)

var styles = theme.Default()

// Controller is the part of popup.Controller the model drives.
type Controller interface {
	Open(ctx context.Context) (popup.View, error)
	Submit(ctx context.Context, action reminder.Action) error
}

type phase int

const (
	phaseLoading phase = iota
	phaseReady
	phaseSubmitting
	phaseInert
)

type button struct {
	action   reminder.Action
	label    string
	disabled bool
}

type msgHandler func(tea.Msg) tea.Cmd

// Model implements the Bubble Tea model for the reminder popup.
type Model struct {
	ctx  context.Context
	ctrl Controller
	keys keyMap
	help help.Model

	phase   phase
	view    popup.View
	buttons []button
	focus   int

	spinner        spinner.Model
	loadingText    string
	loadingVisible bool
	errMsg         string

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool

	closed      bool
	closeReason events.CloseReason

	handlers map[reflect.Type]msgHandler
}

// NewModel prepares a model that opens ctrl once the program starts.
func NewModel(ctx context.Context, ctrl Controller, width, height int) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	if styles.Loading != nil {
		s.Style = *styles.Loading
	}
	m := &Model{
		ctx:            ctx,
		ctrl:           ctrl,
		keys:           defaultKeyMap(),
		help:           help.New(),
		phase:          phaseLoading,
		spinner:        s,
		loadingText:    loadingReminderText,
		loadingVisible: true,
	}
	if width > 0 {
		m.width = width
		m.fixedWidth = true
	}
	if height > 0 {
		m.height = height
		m.fixedHeight = true
	}
	m.help.Width = m.contentWidth()
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.openCmd(), m.spinner.Tick)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(spinner.TickMsg{}):   m.handleSpinnerTickMsg,
		reflect.TypeOf(openedMsg{}):         m.handleOpenedMsg,
		reflect.TypeOf(actionResultMsg{}):   m.handleActionResultMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

type openedMsg struct {
	view popup.View
	err  error
}

type actionResultMsg struct {
	action reminder.Action
	err    error
}

func (m *Model) openCmd() tea.Cmd {
	return func() tea.Msg {
		view, err := m.ctrl.Open(m.ctx)
		return openedMsg{view: view, err: err}
	}
}

func (m *Model) submitCmd(action reminder.Action) tea.Cmd {
	return func() tea.Msg {
		return actionResultMsg{action: action, err: m.ctrl.Submit(m.ctx, action)}
	}
}

func (m *Model) handleOpenedMsg(msg tea.Msg) tea.Cmd {
	opened, ok := msg.(openedMsg)
	if !ok {
		return nil
	}
	m.loadingVisible = false
	m.loadingText = ""
	if errors.Is(opened.err, popup.ErrNoRecord) {
		return m.close(events.CloseMissing)
	}
	m.view = opened.view
	if opened.err != nil || opened.view.Inert {
		m.phase = phaseInert
		m.buttons = nil
		return nil
	}
	m.phase = phaseReady
	m.buttons = m.buttons[:0]
	if opened.view.ShowSnooze {
		m.buttons = append(m.buttons, button{action: reminder.ActionSnooze, label: "Snooze"})
	}
	m.buttons = append(m.buttons, button{action: reminder.ActionDismiss, label: "Dismiss"})
	m.focus = 0
	return nil
}

func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(actionResultMsg)
	if !ok {
		return nil
	}
	if errors.Is(result.err, popup.ErrBusy) {
		return nil
	}
	if result.err == nil {
		return m.close(events.CloseAction)
	}
	text := result.action.ErrorText()
	m.loadingText = text
	m.loadingVisible = false
	m.errMsg = text
	m.setButtonDisabled(result.action, false)
	m.phase = phaseReady
	return nil
}

func (m *Model) handleSpinnerTickMsg(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || !m.loadingVisible {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(tick)
	return cmd
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = size.Width
	}
	m.help.Width = m.contentWidth()
	if !m.fixedHeight {
		m.height = size.Height
	}
	return nil
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if key.Matches(keyMsg, m.keys.Close) {
		return m.close(events.CloseUser)
	}
	if m.phase != phaseReady {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Next):
		m.moveFocus(1)
	case key.Matches(keyMsg, m.keys.Prev):
		m.moveFocus(-1)
	case key.Matches(keyMsg, m.keys.Press):
		if m.focus >= 0 && m.focus < len(m.buttons) {
			return m.press(m.buttons[m.focus].action)
		}
	case key.Matches(keyMsg, m.keys.Snooze):
		return m.press(reminder.ActionSnooze)
	case key.Matches(keyMsg, m.keys.Dismiss):
		return m.press(reminder.ActionDismiss)
	}
	return nil
}

// press starts action unless its button is missing, disabled, or another
// action is in flight.
func (m *Model) press(action reminder.Action) tea.Cmd {
	if m.phase != phaseReady {
		return nil
	}
	idx := m.buttonIndex(action)
	if idx < 0 || m.buttons[idx].disabled {
		return nil
	}
	m.focus = idx
	m.phase = phaseSubmitting
	m.buttons[idx].disabled = true
	m.loadingText = processingText
	m.loadingVisible = true
	m.errMsg = ""
	return tea.Batch(m.submitCmd(action), m.spinner.Tick)
}

func (m *Model) close(reason events.CloseReason) tea.Cmd {
	if !m.closed {
		m.closed = true
		m.closeReason = reason
	}
	return tea.Quit
}

func (m *Model) moveFocus(delta int) {
	if len(m.buttons) == 0 {
		return
	}
	m.focus = (m.focus + delta + len(m.buttons)) % len(m.buttons)
}

func (m *Model) buttonIndex(action reminder.Action) int {
	for i, b := range m.buttons {
		if b.action == action {
			return i
		}
	}
	return -1
}

func (m *Model) setButtonDisabled(action reminder.Action, disabled bool) {
	if idx := m.buttonIndex(action); idx >= 0 {
		m.buttons[idx].disabled = disabled
	}
}

// Closed reports whether the model asked the program to quit.
func (m *Model) Closed() bool {
	return m.closed
}

// CloseReason reports why the popup closed: missing, action, or user.
func (m *Model) CloseReason() events.CloseReason {
	return m.closeReason
}

// LoadingText returns the loading indicator text.
func (m *Model) LoadingText() string {
	return m.loadingText
}

// LoadingVisible reports whether the loading indicator is shown.
func (m *Model) LoadingVisible() bool {
	return m.loadingVisible
}

// HasButton reports whether the button for action is rendered.
func (m *Model) HasButton(action reminder.Action) bool {
	return m.buttonIndex(action) >= 0
}

// ButtonEnabled reports whether the button for action accepts presses.
func (m *Model) ButtonEnabled(action reminder.Action) bool {
	idx := m.buttonIndex(action)
	return idx >= 0 && !m.buttons[idx].disabled
}
