package reminder

import (
	"strings"
	"testing"
	"time"
)

func TestKeyUsesWindowID(t *testing.T) {
	if got := Key("@7"); got != "reminder_@7" {
		t.Fatalf("expected reminder_@7, got %q", got)
	}
}

func TestTimeTextFormatsValidDateTime(t *testing.T) {
	loc := time.FixedZone("test", 2*60*60)
	rec := Record{Date: "2024-03-05", Time: "14:30"}
	got := rec.TimeText(loc)
	want := time.Date(2024, 3, 5, 14, 30, 0, 0, loc).Format(DefaultTimeLayout)
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got != "3/5/2024, 2:30:00 PM" {
		t.Fatalf("unexpected locale rendering %q", got)
	}
}

func TestTimeTextAcceptsSeconds(t *testing.T) {
	rec := Record{Date: "2024-03-05", Time: "09:01:02"}
	if got := rec.TimeText(time.UTC); got != "3/5/2024, 9:01:02 AM" {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestTimeTextInvalidDateTime(t *testing.T) {
	rec := Record{Date: "2024-13-40", Time: "99:99"}
	if got := rec.TimeText(time.UTC); got != InvalidTimeText {
		t.Fatalf("expected %q, got %q", InvalidTimeText, got)
	}
}

func TestTimeTextMissingField(t *testing.T) {
	cases := []Record{
		{Date: "2024-03-05"},
		{Time: "10:00"},
		{},
	}
	for _, rec := range cases {
		if got := rec.TimeText(time.UTC); got != MissingTimeText {
			t.Fatalf("expected %q for %#v, got %q", MissingTimeText, rec, got)
		}
	}
}

func TestCanSnoozeHonoursCap(t *testing.T) {
	if !(Record{SnoozedCount: 2}).CanSnooze() {
		t.Fatalf("expected snooze to be allowed at count 2")
	}
	if (Record{SnoozedCount: 3}).CanSnooze() {
		t.Fatalf("expected snooze to be hidden at count 3")
	}
	if (Record{SnoozedCount: 9}).CanSnooze() {
		t.Fatalf("expected snooze to be hidden above the cap")
	}
}

func TestHasContactIgnoresSentinel(t *testing.T) {
	if (Record{ContactName: NoContact}).HasContact() {
		t.Fatalf("expected sentinel contact to be hidden")
	}
	if (Record{}).HasContact() {
		t.Fatalf("expected empty contact to be hidden")
	}
	if !(Record{ContactName: "Alice"}).HasContact() {
		t.Fatalf("expected Alice to be shown")
	}
}

func TestDecodeDefaultsSnoozeCount(t *testing.T) {
	rec, err := Decode([]byte(`{"title":"Call mum"}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if rec.SnoozedCount != 0 {
		t.Fatalf("expected zero snooze count, got %d", rec.SnoozedCount)
	}
	if rec.Title != "Call mum" {
		t.Fatalf("unexpected title %q", rec.Title)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte(`{not json`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestMessageCarriesFullRecord(t *testing.T) {
	rec, err := Decode([]byte(`{"id":"r1","title":"Standup","listId":"work","snoozedCount":1}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	data, err := EncodeMessage(NewMessage(ActionSnooze, rec))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	body := string(data)
	for _, want := range []string{`"type":"REMINDER_ACTION"`, `"action":"snooze"`, `"listId":"work"`, `"id":"r1"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in %s", want, body)
		}
	}
	back, err := DecodeMessage(data)
	if err != nil {
		t.Fatalf("decode message failed: %v", err)
	}
	if back.Payload.Action != ActionSnooze || back.Payload.Reminder.Title != "Standup" {
		t.Fatalf("unexpected message %#v", back)
	}
}

func TestEncodeWithoutRawUsesFields(t *testing.T) {
	data, err := Encode(Record{Title: "Water plants", SnoozedCount: 2})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !strings.Contains(string(data), `"snoozedCount":2`) {
		t.Fatalf("expected snoozedCount in %s", data)
	}
}

func TestDecodeAck(t *testing.T) {
	ack, err := DecodeAck([]byte("  \n"))
	if err != nil || ack != nil {
		t.Fatalf("expected nil ack for empty body, got %#v (%v)", ack, err)
	}
	if ack.Failed() {
		t.Fatalf("nil ack must count as success")
	}
	ack, err = DecodeAck([]byte(`{"success":false,"error":"boom"}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !ack.Failed() || ack.Error != "boom" {
		t.Fatalf("expected failed ack with boom, got %#v", ack)
	}
	ack, err = DecodeAck([]byte(`{"success":true}`))
	if err != nil || ack.Failed() {
		t.Fatalf("expected successful ack, got %#v (%v)", ack, err)
	}
	ack, err = DecodeAck([]byte(`{}`))
	if err != nil || ack.Failed() {
		t.Fatalf("expected ack without success flag to count as success, got %#v (%v)", ack, err)
	}
}

func TestActionErrorText(t *testing.T) {
	if got := ActionDismiss.ErrorText(); got != "Error dismissing reminder" {
		t.Fatalf("unexpected dismiss text %q", got)
	}
	if got := ActionSnooze.ErrorText(); got != "Error snoozing reminder" {
		t.Fatalf("unexpected snooze text %q", got)
	}
}

func TestDecodeCoercesSnoozeCount(t *testing.T) {
	cases := map[string]SnoozeCount{
		`{"snoozedCount":"2"}`:    2,
		`{"snoozedCount":2.0}`:    2,
		`{"snoozedCount":2.5}`:    2,
		`{"snoozedCount":" 3 "}`:  3,
		`{"snoozedCount":""}`:     0,
		`{"snoozedCount":null}`:   0,
		`{"snoozedCount":true}`:   1,
		`{"snoozedCount":-4}`:     0,
		`{"snoozedCount":"many"}`: MaxSnoozes,
	}
	for input, want := range cases {
		rec, err := Decode([]byte(input))
		if err != nil {
			t.Fatalf("decode %s failed: %v", input, err)
		}
		if rec.SnoozedCount != want {
			t.Fatalf("decode %s: expected %d, got %d", input, want, rec.SnoozedCount)
		}
	}
	rec, _ := Decode([]byte(`{"snoozedCount":"many"}`))
	if rec.CanSnooze() {
		t.Fatalf("expected a non-numeric count to hide snooze")
	}
}

func TestDecodeAckTreatsNonObjectAsSuccess(t *testing.T) {
	for _, body := range []string{`"ok"`, `true`, `ok`, `[]`} {
		ack, err := DecodeAck([]byte(body))
		if err != nil || ack.Failed() {
			t.Fatalf("expected %s to count as success, got %#v (%v)", body, ack, err)
		}
	}
}

func TestDecodeAckOnlyBooleanFalseFails(t *testing.T) {
	ack, err := DecodeAck([]byte(`{"success":"false"}`))
	if err != nil || ack.Failed() {
		t.Fatalf("expected string success to count as success, got %#v (%v)", ack, err)
	}
	ack, err = DecodeAck([]byte(`{"success":false,"error":{"code":7}}`))
	if err != nil || !ack.Failed() {
		t.Fatalf("expected failure ack, got %#v (%v)", ack, err)
	}
	if ack.Error == "" {
		t.Fatalf("expected non-string error to be kept as text")
	}
}

func TestHasDescriptionShowsWhitespace(t *testing.T) {
	if !(Record{Description: "   "}).HasDescription() {
		t.Fatalf("expected a whitespace description to be shown")
	}
	if (Record{}).HasDescription() {
		t.Fatalf("expected an empty description to be hidden")
	}
}

func TestFormatTimeUsesLayout(t *testing.T) {
	rec := Record{Date: "2024-03-05", Time: "14:30"}
	if got := rec.FormatTime(time.UTC, "02.01.2006 15:04"); got != "05.03.2024 14:30" {
		t.Fatalf("unexpected rendering %q", got)
	}
	if got := rec.FormatTime(time.UTC, ""); got != rec.TimeText(time.UTC) {
		t.Fatalf("expected empty layout to fall back to the default, got %q", got)
	}
}
