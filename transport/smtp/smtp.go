// Package smtp delivers iTIP replies through an SMTP submission server.
package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/cyp0633/libitip/itip"
)

// Config holds the submission server settings
type Config struct {
	// Addr is host:port of the server
	Addr     string
	Username string
	Password string
	// ImplicitTLS connects with TLS from the start (port 465) instead of STARTTLS
	ImplicitTLS bool
	// Insecure submits without any TLS. Only meant for local relays.
	Insecure bool
	// TLSConfig is used for both STARTTLS and implicit TLS; nil means system defaults
	TLSConfig *tls.Config
	Logger    *slog.Logger
}

// Transport implements itip.Transport over SMTP. Each Send opens its own connection.
type Transport struct {
	config Config
	logger *slog.Logger
	send   func(from string, to []string, r io.Reader) error
}

// New creates an SMTP transport
func New(config Config) (*Transport, error) {
	if config.Addr == "" {
		return nil, fmt.Errorf("smtp address is required")
	}
	if config.ImplicitTLS && config.Insecure {
		return nil, fmt.Errorf("implicit TLS and insecure mode are mutually exclusive")
	}

	t := &Transport{
		config: config,
		logger: config.Logger,
	}
	if t.logger == nil {
		t.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	t.send = t.deliver
	return t, nil
}

func (t *Transport) dial() (*smtp.Client, error) {
	switch {
	case t.config.ImplicitTLS:
		return smtp.DialTLS(t.config.Addr, t.config.TLSConfig)
	case t.config.Insecure:
		return smtp.Dial(t.config.Addr)
	default:
		return smtp.DialStartTLS(t.config.Addr, t.config.TLSConfig)
	}
}

// deliver runs one SMTP session: connect, authenticate, submit, quit.
func (t *Transport) deliver(from string, to []string, r io.Reader) error {
	c, err := t.dial()
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer c.Close()

	if a := t.auth(); a != nil {
		if err := c.Auth(a); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}
	if err := c.SendMail(from, to, r); err != nil {
		return err
	}
	return c.Quit()
}

func (t *Transport) auth() sasl.Client {
	if t.config.Username == "" {
		return nil
	}
	return sasl.NewPlainClient("", t.config.Username, t.config.Password)
}

// Send implements itip.Transport
func (t *Transport) Send(ctx context.Context, msg *itip.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.From == nil {
		return fmt.Errorf("message has no sender")
	}
	rcpts := msg.Recipients()
	if len(rcpts) == 0 {
		return fmt.Errorf("message has no recipients")
	}

	raw, err := msg.Bytes()
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	t.logger.Debug("submitting message",
		"addr", t.config.Addr,
		"from", msg.From.Address,
		"rcpt", rcpts)

	if err := t.send(msg.From.Address, rcpts, bytes.NewReader(raw)); err != nil {
		t.logger.Error("smtp submission failed",
			"addr", t.config.Addr,
			"error", err)
		return fmt.Errorf("smtp submission to %s failed: %w", t.config.Addr, err)
	}
	return nil
}
