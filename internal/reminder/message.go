package reminder

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// MessageType tags every action message sent to the daemon.
const MessageType = "REMINDER_ACTION"

// Action names what the user asked the daemon to do.
type Action string

const (
	ActionDismiss Action = "dismiss"
	ActionSnooze  Action = "snooze"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	return a == ActionDismiss || a == ActionSnooze
}

// Gerund returns the -ing form used in status and error text.
func (a Action) Gerund() string {
	switch a {
	case ActionDismiss:
		return "dismissing"
	case ActionSnooze:
		return "snoozing"
	default:
		return string(a) + "ing"
	}
}

// ErrorText is shown in place of the loading indicator when an action fails.
func (a Action) ErrorText() string {
	return fmt.Sprintf("Error %s reminder", a.Gerund())
}

// Payload carries the action and the full reminder for context.
type Payload struct {
	Action   Action `json:"action"`
	Reminder Record `json:"reminder"`
}

// Message is the envelope delivered to the background daemon.
type Message struct {
	Type    string  `json:"type"`
	Payload Payload `json:"payload"`
}

// NewMessage builds the action message for rec.
func NewMessage(action Action, rec Record) Message {
	return Message{
		Type:    MessageType,
		Payload: Payload{Action: action, Reminder: rec},
	}
}

// Ack is the daemon's reply. A nil Ack or one without Success set to false
// counts as success.
type Ack struct {
	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Failed reports whether the daemon explicitly signalled failure.
func (a *Ack) Failed() bool {
	return a != nil && a.Success != nil && !*a.Success
}

// DecodeAck parses a reply body. Only an object whose success field is the
// boolean false is a failure; empty or non-object bodies yield a nil Ack.
func DecodeAck(data []byte) (*Ack, error) {
	body := bytes.TrimSpace(data)
	if len(body) == 0 || body[0] != '{' {
		return nil, nil
	}
	var reply struct {
		Success interface{} `json:"success"`
		Error   interface{} `json:"error"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("decode ack: %w", err)
	}
	ack := &Ack{}
	if ok, isBool := reply.Success.(bool); isBool {
		ack.Success = &ok
	}
	switch e := reply.Error.(type) {
	case nil:
	case string:
		ack.Error = e
	default:
		ack.Error = fmt.Sprint(e)
	}
	return ack, nil
}

// EncodeMessage renders msg as JSON.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a message produced by EncodeMessage.
func DecodeMessage(data []byte) (Message, error) {
	var env struct {
		Type    string `json:"type"`
		Payload struct {
			Action   Action              `json:"action"`
			Reminder jsoniter.RawMessage `json:"reminder"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	msg := Message{Type: env.Type, Payload: Payload{Action: env.Payload.Action}}
	if len(env.Payload.Reminder) > 0 {
		rec, err := Decode(env.Payload.Reminder)
		if err != nil {
			return Message{}, err
		}
		msg.Payload.Reminder = rec
	}
	return msg, nil
}
