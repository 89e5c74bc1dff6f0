package itip

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-message/mail"
)

const (
	DefaultProductID = "-//Caldora//Go iTIP//EN"

	calendarFilename = "event-reply.ics"
)

// copyRule describes one property copied from the invitation to the reply.
type copyRule struct {
	name string
	// skipIf names a property whose presence suppresses this rule
	skipIf string
}

// replyCopyRules lists, in order, the only properties propagated to a reply.
var replyCopyRules = []copyRule{
	{name: ical.PropUID},
	{name: ical.PropSummary},
	{name: ical.PropDescription},
	{name: ical.PropLocation},
	{name: ical.PropOrganizer},
	{name: ical.PropDateTimeStart},
	{name: ical.PropDateTimeEnd},
	{name: ical.PropDuration, skipIf: ical.PropDateTimeEnd},
	{name: ical.PropSequence},
}

// Engine builds iTIP replies for one invitation and one responding attendee.
type Engine struct {
	event      *Event
	resource   Resource
	logger     *slog.Logger
	translator Translator
	now        func() time.Time
	productID  string
}

// Option represents a configuration option for the Engine
type Option func(*Engine)

// WithLogger sets the logger for the engine
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTranslator sets the translator for subjects and bodies
func WithTranslator(tr Translator) Option {
	return func(e *Engine) {
		if tr != nil {
			e.translator = tr
		}
	}
}

// WithClock sets the time source used for DTSTAMP and Date
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithProductID sets the PRODID of reply calendars
func WithProductID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.productID = id
		}
	}
}

// New binds an Engine to a copy of the invitation and the responding resource.
func New(ev *Event, resource Resource, opts ...Option) (*Engine, error) {
	if ev == nil {
		return nil, configError("invitation is required")
	}
	if resource == nil {
		return nil, configError("resource is required")
	}
	if bareAddress(resource.Mail()) == "" {
		return nil, configError("resource mail address is required")
	}

	e := &Engine{
		event:      ev.clone(),
		resource:   resource,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		translator: TranslatorFunc(func(key string) string { return key }),
		now:        time.Now,
		productID:  DefaultProductID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Event returns a copy of the bound invitation.
func (e *Engine) Event() *Event { return e.event.clone() }

// ReplyEvent derives the reply VEVENT carrying the response status.
func (e *Engine) ReplyEvent(resp *Response) (*ical.Component, error) {
	if resp == nil {
		return nil, configError("response is required")
	}
	uid, err := e.event.UID()
	if err != nil {
		return nil, err
	}
	if _, err := e.event.Organizer(); err != nil {
		return nil, err
	}

	reply := ical.NewComponent(ical.CompEvent)
	reply.Props.SetText(ical.PropMethod, MethodReply)

	for _, rule := range replyCopyRules {
		if rule.skipIf != "" && e.event.has(rule.skipIf) {
			continue
		}
		if prop := e.event.Attribute(rule.name); prop != nil {
			reply.Props.Set(prop)
		}
	}

	attendee := ical.NewProp(ical.PropAttendee)
	attendee.Value = calAddress(e.resource.Mail())
	if cn := e.resource.CommonName(); cn != "" {
		attendee.Params.Set(ical.ParamCommonName, cn)
	}
	attendee.Params.Set(ical.ParamParticipationStatus, resp.Status())
	reply.Props.Set(attendee)

	reply.Props.SetDateTime(ical.PropDateTimeStamp, e.now().UTC())
	if comment := e.resource.Comment(); comment != "" {
		reply.Props.SetText(ical.PropComment, comment)
	}

	e.logger.Debug("built reply event",
		"uid", uid,
		"partstat", resp.Status(),
		"attendee", attendee.Value)

	return reply, nil
}

// CalendarReply is a reply VCALENDAR together with the charset it is sent in.
type CalendarReply struct {
	*ical.Calendar
	Charset string
}

// Encode serializes the calendar in its charset.
func (r *CalendarReply) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(r.Calendar); err != nil {
		return nil, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return encodeText(buf.String(), r.Charset)
}

// CalendarReply wraps the reply VEVENT into a METHOD=REPLY calendar.
func (e *Engine) CalendarReply(resp *Response, opts Options) (*CalendarReply, error) {
	vevent, err := e.ReplyEvent(resp)
	if err != nil {
		return nil, err
	}
	// METHOD is a calendar property on the wire
	delete(vevent.Props, ical.PropMethod)

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, e.productID)
	cal.Props.SetText(ical.PropMethod, MethodReply)
	cal.Children = append(cal.Children, vevent)

	charset := defaultCharset
	if opts != nil {
		charset = opts.Charset()
	}
	return &CalendarReply{Calendar: cal, Charset: charset}, nil
}

// Subject renders the reply subject, e.g. "Accepted [info]: Test Invitation".
func (e *Engine) Subject(resp *Response) (string, error) {
	if resp == nil {
		return "", configError("response is required")
	}
	return resp.bind(e.event, e.resource).Subject(e.translator)
}

// Body renders the human-readable reply text.
func (e *Engine) Body(resp *Response, isUpdate bool) (string, error) {
	if resp == nil {
		return "", configError("response is required")
	}
	bound := resp.bind(e.event, e.resource)
	tr := e.translator

	var b strings.Builder
	b.WriteString(bound.Message(tr, isUpdate))
	b.WriteString("\n\n")

	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", translate(tr, label), value)
		}
	}
	uid, _ := e.event.UID()
	line("Event ID", uid)
	line("Title", e.event.Summary())
	line("Start", formatTime(e.event, ical.PropDateTimeStart))
	line("End", formatTime(e.event, ical.PropDateTimeEnd))
	if !e.event.has(ical.PropDateTimeEnd) {
		if d, ok := e.event.Duration().Get(); ok {
			line("Duration", d.String())
		}
	}
	line("Location", e.event.Location())
	return b.String(), nil
}

func formatTime(ev *Event, name string) string {
	prop := ev.comp.Props.Get(name)
	if prop == nil {
		return ""
	}
	t, err := prop.DateTime(time.UTC)
	if err != nil {
		return prop.Value
	}
	if prop.ValueType() == ical.ValueDate {
		return t.Format("Mon, 02 Jan 2006")
	}
	return t.Format("Mon, 02 Jan 2006 15:04 MST")
}

// SendSinglepart sends the calendar reply as the only body part.
func (e *Engine) SendSinglepart(ctx context.Context, resp *Response, opts Options, transport Transport) (*Message, error) {
	if opts == nil {
		opts = BasicOptions{}
	}
	part, err := e.calendarPart(resp, opts, "")
	if err != nil {
		return nil, err
	}
	msg, err := e.newMessage(resp, opts)
	if err != nil {
		return nil, err
	}
	msg.Parts = []Part{part}
	if err := e.send(ctx, msg, transport); err != nil {
		return nil, err
	}
	return msg, nil
}

// SendMultipart sends a text explanation followed by the calendar reply.
func (e *Engine) SendMultipart(ctx context.Context, resp *Response, opts Options, transport Transport) (*Message, error) {
	if opts == nil {
		opts = BasicOptions{}
	}
	part, err := e.calendarPart(resp, opts, calendarFilename)
	if err != nil {
		return nil, err
	}
	text, err := e.Body(resp, e.event.IsUpdate())
	if err != nil {
		return nil, err
	}
	body, err := encodeText(text, opts.Charset())
	if err != nil {
		return nil, err
	}
	msg, err := e.newMessage(resp, opts)
	if err != nil {
		return nil, err
	}
	msg.Parts = []Part{
		{
			ContentType: "text/plain",
			Params:      map[string]string{"charset": opts.Charset()},
			Body:        body,
		},
		part,
	}
	if err := e.send(ctx, msg, transport); err != nil {
		return nil, err
	}
	return msg, nil
}

func (e *Engine) calendarPart(resp *Response, opts Options, filename string) (Part, error) {
	reply, err := e.CalendarReply(resp, opts)
	if err != nil {
		return Part{}, err
	}
	data, err := reply.Encode()
	if err != nil {
		return Part{}, err
	}
	return Part{
		ContentType: ical.MIMEType,
		Params: map[string]string{
			"method":  MethodReply,
			"charset": reply.Charset,
		},
		Filename: filename,
		Body:     data,
	}, nil
}

func (e *Engine) newMessage(resp *Response, opts Options) (*Message, error) {
	subject, err := e.Subject(resp)
	if err != nil {
		return nil, err
	}
	organizer, err := e.event.Organizer()
	if err != nil {
		return nil, err
	}

	to := &mail.Address{Address: bareAddress(organizer)}
	if prop := e.event.Attribute(ical.PropOrganizer); prop != nil {
		to.Name = prop.Params.Get(ical.ParamCommonName)
	}

	return &Message{
		Subject: subject,
		From:    &mail.Address{Name: e.resource.CommonName(), Address: bareAddress(e.resource.Mail())},
		To:      []*mail.Address{to},
		Date:    e.now(),
		Extra:   opts.Headers(),
	}, nil
}

func (e *Engine) send(ctx context.Context, msg *Message, transport Transport) error {
	if transport == nil {
		return configError("transport is required")
	}

	e.logger.Info("sending itip reply",
		"subject", msg.Subject,
		"to", strings.Join(msg.Recipients(), ","),
		"parts", len(msg.Parts))

	if err := transport.Send(ctx, msg); err != nil {
		e.logger.Error("failed to send itip reply",
			"subject", msg.Subject,
			"error", err)
		return &Error{Kind: KindTransport, Message: "failed to send reply", Err: err}
	}
	return nil
}
