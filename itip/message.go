package itip

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"golang.org/x/text/encoding/htmlindex"
)

// Transport delivers composed messages.
type Transport interface {
	Send(ctx context.Context, msg *Message) error
}

// Part is one body part of a Message.
type Part struct {
	ContentType string
	Params      map[string]string
	// Filename turns the part into an attachment when set
	Filename string
	Body     []byte
}

// Message is an outbound iTIP reply mail.
type Message struct {
	Subject string
	From    *mail.Address
	To      []*mail.Address
	Date    time.Time
	// Extra holds additional headers such as Message-ID
	Extra map[string]string
	Parts []Part
}

// Recipients returns the bare To addresses.
func (m *Message) Recipients() []string {
	out := make([]string, 0, len(m.To))
	for _, a := range m.To {
		out = append(out, a.Address)
	}
	return out
}

// Header builds the top-level mail header.
func (m *Message) Header() mail.Header {
	var h mail.Header
	h.Set("MIME-Version", "1.0")
	if !m.Date.IsZero() {
		h.SetDate(m.Date)
	}
	if m.From != nil {
		h.Set("From", formatAddressList([]*mail.Address{m.From}))
	}
	if len(m.To) > 0 {
		h.Set("To", formatAddressList(m.To))
	}
	h.SetSubject(m.Subject)

	keys := make([]string, 0, len(m.Extra))
	for k := range m.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Set(k, m.Extra[k])
	}
	return h
}

// Encode writes the message in RFC 5322 format.
func (m *Message) Encode(w io.Writer) error {
	if len(m.Parts) == 0 {
		return fmt.Errorf("message has no body parts")
	}

	h := m.Header()
	if len(m.Parts) == 1 {
		setPartHeader(&h.Header, m.Parts[0])
		mw, err := message.CreateWriter(w, h.Header)
		if err != nil {
			return fmt.Errorf("failed to create message writer: %w", err)
		}
		if _, err := mw.Write(m.Parts[0].Body); err != nil {
			return fmt.Errorf("failed to write message body: %w", err)
		}
		return mw.Close()
	}

	h.SetContentType("multipart/mixed", nil)
	mw, err := message.CreateWriter(w, h.Header)
	if err != nil {
		return fmt.Errorf("failed to create message writer: %w", err)
	}
	for i, part := range m.Parts {
		var ph message.Header
		setPartHeader(&ph, part)
		pw, err := mw.CreatePart(ph)
		if err != nil {
			return fmt.Errorf("failed to create part %d: %w", i, err)
		}
		if _, err := pw.Write(part.Body); err != nil {
			return fmt.Errorf("failed to write part %d: %w", i, err)
		}
		if err := pw.Close(); err != nil {
			return fmt.Errorf("failed to close part %d: %w", i, err)
		}
	}
	return mw.Close()
}

// Bytes returns the encoded message.
func (m *Message) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatAddressList renders addresses without a display name bare, as
// "user@example.org" rather than "<user@example.org>".
func formatAddressList(addrs []*mail.Address) string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a.Name == "" {
			out = append(out, a.Address)
			continue
		}
		out = append(out, a.String())
	}
	return strings.Join(out, ", ")
}

func setPartHeader(h *message.Header, p Part) {
	params := make(map[string]string, len(p.Params))
	for k, v := range p.Params {
		params[k] = v
	}
	h.SetContentType(p.ContentType, params)
	h.Set("Content-Transfer-Encoding", "quoted-printable")
	if p.Filename != "" {
		h.SetContentDisposition("attachment", map[string]string{"filename": p.Filename})
	}
}

// encodeText converts UTF-8 text into the named charset.
func encodeText(s, charset string) ([]byte, error) {
	if charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8") {
		return []byte(s), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, configError("unsupported charset %q", charset)
	}
	b, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("failed to encode text as %s: %w", charset, err)
	}
	return b, nil
}
