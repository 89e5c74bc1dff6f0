package itip

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const defaultCharset = "UTF-8"

// Options carries per-send message configuration.
type Options interface {
	// Charset of the text parts
	Charset() string
	// Headers returns extra message headers. It is called once per message and
	// must not cache its result.
	Headers() map[string]string
}

// BasicOptions only selects a charset.
type BasicOptions struct {
	CharsetName string
}

// Charset returns the configured charset, UTF-8 by default.
func (o BasicOptions) Charset() string {
	if o.CharsetName == "" {
		return defaultCharset
	}
	return o.CharsetName
}

// Headers returns no extra headers.
func (o BasicOptions) Headers() map[string]string {
	return map[string]string{}
}

// MessageIDOptions mints a fresh Message-ID for every message.
type MessageIDOptions struct {
	CharsetName string
	Hostname    string
	UserAgent   string
}

// NewMessageIDOptions creates options minting Message-IDs below hostname.
func NewMessageIDOptions(charset, hostname string) (*MessageIDOptions, error) {
	if strings.TrimSpace(hostname) == "" {
		return nil, configError("hostname is required for message identifiers")
	}
	return &MessageIDOptions{CharsetName: charset, Hostname: hostname}, nil
}

// Charset returns the configured charset, UTF-8 by default.
func (o *MessageIDOptions) Charset() string {
	if o.CharsetName == "" {
		return defaultCharset
	}
	return o.CharsetName
}

// Headers mints a new Message-ID and adds User-Agent when set.
func (o *MessageIDOptions) Headers() map[string]string {
	host := o.Hostname
	if host == "" {
		host = "localhost"
	}
	h := map[string]string{
		"Message-ID": fmt.Sprintf("<%s@%s>", uuid.NewString(), host),
	}
	if o.UserAgent != "" {
		h["User-Agent"] = o.UserAgent
	}
	return h
}
