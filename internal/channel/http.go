// Package channel delivers reminder action messages to the background daemon
// and returns its acknowledgment.
package channel

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/atomicstack/tmux-reminder-popup/internal/reminder"
	"github.com/google/uuid"
)

const maxAckBytes = 1 << 20

// HTTP posts each message as JSON to the daemon's endpoint.
type HTTP struct {
	endpoint string
	client   *http.Client
}

// NewHTTP returns a channel posting to endpoint. A nil client uses a client
// without a timeout; the daemon decides how long an action takes.
func NewHTTP(endpoint string, client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTP{endpoint: endpoint, client: client}
}

func (h *HTTP) Send(ctx context.Context, msg reminder.Message) (*reminder.Ack, error) {
	body, err := reminder.EncodeMessage(msg)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", msg.Payload.Action, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAckBytes))
	if err != nil {
		return nil, fmt.Errorf("read ack: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("daemon returned %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}
	return reminder.DecodeAck(data)
}
