package app

import (
	"context"

	"github.com/atomicstack/tmux-reminder-popup/internal/reminder"
)

// unavailable stands in for a store, channel or window host that could not be
// set up. Every call returns the setup error, so Controller.Open reports it in
// the inert popup and Submit reports it as an action failure.
type unavailable struct {
	err error
}

func (u unavailable) Get(context.Context, string) (reminder.Record, bool, error) {
	return reminder.Record{}, false, u.err
}

func (u unavailable) Delete(context.Context, string) error {
	return u.err
}

func (u unavailable) Send(context.Context, reminder.Message) (*reminder.Ack, error) {
	return nil, u.err
}

func (u unavailable) CurrentWindowID(context.Context) (string, error) {
	return "", u.err
}

func (u unavailable) Focus(context.Context, string) error {
	return u.err
}
