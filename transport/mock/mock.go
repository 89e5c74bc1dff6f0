// Package mock provides a Transport that records messages instead of delivering them.
package mock

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/cyp0633/libitip/itip"
)

// SentMessage is a message captured by the Transport.
type SentMessage struct {
	Message    *itip.Message
	Recipients []string
	// HeaderText is the serialized header block, without the blank separator line
	HeaderText string
	Body       string
	Raw        []byte
}

// Transport records every sent message.
type Transport struct {
	mu   sync.Mutex
	sent []SentMessage
	// Err, when set, is returned by Send and nothing is recorded
	Err error
}

// New creates an empty recording transport
func New() *Transport {
	return &Transport{}
}

// Send implements itip.Transport
func (t *Transport) Send(ctx context.Context, msg *itip.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.Err != nil {
		return t.Err
	}

	raw, err := msg.Bytes()
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	header, body := raw, []byte(nil)
	if idx := bytes.Index(raw, []byte("\r\n\r\n")); idx >= 0 {
		header, body = raw[:idx], raw[idx+4:]
	}

	t.sent = append(t.sent, SentMessage{
		Message:    msg,
		Recipients: msg.Recipients(),
		HeaderText: string(header),
		Body:       string(body),
		Raw:        raw,
	})
	return nil
}

// Sent returns a copy of the recorded messages
func (t *Transport) Sent() []SentMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]SentMessage(nil), t.sent...)
}

// Reset drops all recorded messages
func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = nil
}
