package reminder

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// KeyPrefix is prepended to the window id to form the store key.
	KeyPrefix = "reminder_"
	// MaxSnoozes is the snooze count at which the snooze button disappears.
	MaxSnoozes = 3
	// NoContact is the placeholder the daemon stores when a reminder has no contact.
	NoContact = "Unknown Contact"

	InvalidTimeText = "Invalid reminder time"
	MissingTimeText = "Reminder time"
	LoadErrorTitle  = "Error loading reminder"

	// DefaultTimeLayout renders reminder times the way an en-US locale does.
	// Callers wanting another locale pass their own layout to FormatTime.
	DefaultTimeLayout = "1/2/2006, 3:04:05 PM"

	dateLayout = "2006-01-02"
)

var timeLayouts = []string{"15:04", "15:04:05"}

// Record is a pending reminder as stored by the background daemon.
type Record struct {
	ID           string `json:"id,omitempty"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Date         string `json:"date,omitempty"`
	Time         string `json:"time,omitempty"`
	ContactName  string `json:"contactName,omitempty"`
	SnoozedCount SnoozeCount `json:"snoozedCount,omitempty"`

	raw []byte
}

// SnoozeCount is the number of times a reminder has been snoozed. The daemon
// is loose about its type, so numbers, numeric strings and booleans are all
// accepted.
type SnoozeCount int

// UnmarshalJSON coerces the stored value to a whole count. Values that are not
// numbers at all count as exhausted so the snooze button stays hidden.
func (c *SnoozeCount) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = coerceSnoozeCount(v)
	return nil
}

func coerceSnoozeCount(v interface{}) SnoozeCount {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0
	case bool:
		if t {
			f = 1
		}
	case float64:
		f = t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return MaxSnoozes
		}
		f = parsed
	default:
		return MaxSnoozes
	}
	switch {
	case math.IsNaN(f):
		return MaxSnoozes
	case f <= 0:
		return 0
	case f > math.MaxInt32:
		return math.MaxInt32
	}
	return SnoozeCount(math.Floor(f))
}

// Key returns the store key for the popup hosted in windowID.
func Key(windowID string) string {
	return KeyPrefix + windowID
}

// Decode parses a stored record. The stored bytes are retained so that
// fields unknown to this package survive the round trip to the daemon.
func Decode(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode reminder: %w", err)
	}
	if rec.SnoozedCount < 0 {
		rec.SnoozedCount = 0
	}
	rec.raw = append([]byte(nil), data...)
	return rec, nil
}

// Encode returns the JSON form of the record.
func Encode(rec Record) ([]byte, error) {
	return json.Marshal(rec)
}

// MarshalJSON emits the stored bytes when the record came from Decode.
func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	type plain Record
	return json.Marshal(plain(r))
}

// HasDescription reports whether the description slot should be shown.
func (r Record) HasDescription() bool {
	return r.Description != ""
}

// HasContact reports whether the contact section should be shown.
func (r Record) HasContact() bool {
	return r.ContactName != "" && r.ContactName != NoContact
}

// CanSnooze reports whether the snooze cap still allows another snooze.
func (r Record) CanSnooze() bool {
	return r.SnoozedCount < MaxSnoozes
}

// TimeText renders the date and time fields in loc using DefaultTimeLayout.
func (r Record) TimeText(loc *time.Location) string {
	return r.FormatTime(loc, DefaultTimeLayout)
}

// FormatTime renders the date and time fields in loc with layout. An empty
// layout falls back to DefaultTimeLayout.
func (r Record) FormatTime(loc *time.Location, layout string) string {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	if r.Date == "" || r.Time == "" {
		return MissingTimeText
	}
	when, err := ParseDateTime(r.Date, r.Time, loc)
	if err != nil {
		return InvalidTimeText
	}
	return when.Format(layout)
}

// ParseDateTime combines a YYYY-MM-DD date and an HH:MM[:SS] time in loc.
func ParseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	var lastErr error
	for _, layout := range timeLayouts {
		when, err := time.ParseInLocation(dateLayout+"T"+layout, date+"T"+clock, loc)
		if err == nil {
			return when, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parse reminder time %q %q: %w", date, clock, lastErr)
}
