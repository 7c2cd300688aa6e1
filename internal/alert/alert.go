// Package alert draws attention to a reminder popup when it opens. Every
// alerter is best-effort: callers log failures and carry on.
package alert

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/atomicstack/tmux-reminder-popup/internal/reminder"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/gen2brain/beeep"
)

//go:embed chime.wav
var chimeWAV []byte

// DefaultVolume matches the quiet notification level of the popup chime.
const DefaultVolume = 0.3

// Alerter is implemented by every attention source.
type Alerter interface {
	Alert(ctx context.Context, rec reminder.Record) error
}

// Chime plays the embedded notification sound through the default output.
type Chime struct {
	Volume float64

	initOnce sync.Once
	initErr  error
}

// NewChime returns a chime at volume (0 mutes, 1 is full scale).
func NewChime(volume float64) *Chime {
	return &Chime{Volume: volume}
}

func decodeChime() (beep.StreamSeekCloser, beep.Format, error) {
	return wav.Decode(io.NopCloser(bytes.NewReader(chimeWAV)))
}

// Alert starts playback and returns without waiting for it to finish.
func (c *Chime) Alert(ctx context.Context, rec reminder.Record) error {
	if c.Volume <= 0 {
		return nil
	}
	streamer, format, err := decodeChime()
	if err != nil {
		return fmt.Errorf("decode chime: %w", err)
	}
	c.initOnce.Do(func() {
		c.initErr = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
	})
	if c.initErr != nil {
		streamer.Close()
		return fmt.Errorf("init speaker: %w", c.initErr)
	}
	volume := &effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   math.Log2(math.Min(c.Volume, 1)),
	}
	speaker.Play(beep.Seq(volume, beep.Callback(func() {
		streamer.Close()
	})))
	return nil
}

// Desktop raises a system notification alongside the popup.
type Desktop struct {
	Location   *time.Location
	TimeLayout string
}

func (d Desktop) Alert(ctx context.Context, rec reminder.Record) error {
	body := rec.FormatTime(d.Location, d.TimeLayout)
	if rec.HasDescription() {
		body = rec.Description
	}
	if err := beeep.Notify(rec.Title, body, ""); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}

// All fans out to every alerter and joins their failures.
type All []Alerter

func (a All) Alert(ctx context.Context, rec reminder.Record) error {
	var errs []error
	for _, alerter := range a {
		if alerter == nil {
			continue
		}
		if err := alerter.Alert(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
