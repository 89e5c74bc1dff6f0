package itip

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/samber/mo"
)

const (
	MethodRequest = "REQUEST"
	MethodReply   = "REPLY"
)

// Event is a snapshot of one inbound VEVENT.
//
// The component handed to NewEvent is copied, so later changes by the caller
// are not visible through the Event and the reply never alters the original.
type Event struct {
	comp *ical.Component
	// method inherited from the enclosing VCALENDAR, if any
	method string
}

// NewEvent wraps a copy of the given component.
func NewEvent(comp *ical.Component) *Event {
	if comp == nil {
		return &Event{comp: ical.NewComponent(ical.CompEvent)}
	}
	return &Event{comp: cloneComponent(comp)}
}

// EventFromCalendar takes the single VEVENT of cal. The calendar's METHOD is
// used when the event itself carries none.
func EventFromCalendar(cal *ical.Calendar) (*Event, error) {
	if cal == nil {
		return nil, fmt.Errorf("no calendar given")
	}

	events := cal.Events()
	if len(events) == 0 {
		return nil, fmt.Errorf("no events found in calendar")
	}
	if len(events) > 1 {
		return nil, fmt.Errorf("multiple events found in calendar")
	}

	ev := NewEvent(events[0].Component)
	if prop := cal.Props.Get(ical.PropMethod); prop != nil {
		ev.method = strings.ToUpper(strings.TrimSpace(prop.Value))
	}
	return ev, nil
}

// ParseEvent decodes an iCalendar payload holding one invitation.
func ParseEvent(r io.Reader) (*Event, error) {
	cal, err := ical.NewDecoder(r).Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode calendar: %w", err)
	}
	return EventFromCalendar(cal)
}

// Method returns the METHOD of the invitation, REQUEST if unset.
func (e *Event) Method() string {
	if prop := e.comp.Props.Get(ical.PropMethod); prop != nil && prop.Value != "" {
		return prop.Value
	}
	if e.method != "" {
		return e.method
	}
	return MethodRequest
}

// Attribute returns a copy of the named property, or nil if absent.
func (e *Event) Attribute(name string) *ical.Prop {
	prop := e.comp.Props.Get(name)
	if prop == nil {
		return nil
	}
	cp := cloneProp(*prop)
	return &cp
}

// SetAttribute replaces the named property on the event's own snapshot.
// Engines keep their own copy, so edits after New do not reach them. An Event
// is not safe for concurrent use while it is being modified.
func (e *Event) SetAttribute(name, value string, params ical.Params) {
	prop := ical.NewProp(name)
	prop.Value = value
	for k, v := range params {
		prop.Params[k] = append([]string(nil), v...)
	}
	e.comp.Props.Set(prop)
}

// clone returns an independent copy, including the inherited method.
func (e *Event) clone() *Event {
	return &Event{comp: cloneComponent(e.comp), method: e.method}
}

// Component returns a copy of the underlying VEVENT.
func (e *Event) Component() *ical.Component {
	return cloneComponent(e.comp)
}

func (e *Event) has(name string) bool {
	return e.comp.Props.Get(name) != nil
}

// UID returns the event UID or ErrMissingRequiredField.
func (e *Event) UID() (string, error) {
	return e.required(ical.PropUID)
}

// Organizer returns the raw ORGANIZER value or ErrMissingRequiredField.
func (e *Event) Organizer() (string, error) {
	return e.required(ical.PropOrganizer)
}

func (e *Event) required(name string) (string, error) {
	prop := e.comp.Props.Get(name)
	if prop == nil || prop.Value == "" {
		return "", &Error{Kind: KindMissingRequiredField, Message: fmt.Sprintf("invitation has no %s", name)}
	}
	return prop.Value, nil
}

// Summary returns the SUMMARY text, empty if absent.
func (e *Event) Summary() string { return e.text(ical.PropSummary).OrEmpty() }

// Description returns the DESCRIPTION text, empty if absent.
func (e *Event) Description() string { return e.text(ical.PropDescription).OrEmpty() }

// Location returns the LOCATION text, empty if absent.
func (e *Event) Location() string { return e.text(ical.PropLocation).OrEmpty() }

func (e *Event) text(name string) mo.Option[string] {
	prop := e.comp.Props.Get(name)
	if prop == nil {
		return mo.None[string]()
	}
	s, err := prop.Text()
	if err != nil {
		// keep the raw value for non-TEXT typed properties
		return mo.Some(prop.Value)
	}
	return mo.Some(s)
}

// Start returns DTSTART if present and parseable.
func (e *Event) Start() mo.Option[time.Time] {
	return e.dateTime(ical.PropDateTimeStart)
}

// End returns DTEND if present and parseable.
func (e *Event) End() mo.Option[time.Time] {
	return e.dateTime(ical.PropDateTimeEnd)
}

func (e *Event) dateTime(name string) mo.Option[time.Time] {
	prop := e.comp.Props.Get(name)
	if prop == nil {
		return mo.None[time.Time]()
	}
	t, err := prop.DateTime(time.UTC)
	if err != nil {
		return mo.None[time.Time]()
	}
	return mo.Some(t)
}

// Duration returns DURATION if present and parseable.
func (e *Event) Duration() mo.Option[time.Duration] {
	prop := e.comp.Props.Get(ical.PropDuration)
	if prop == nil {
		return mo.None[time.Duration]()
	}
	d, err := prop.Duration()
	if err != nil {
		return mo.None[time.Duration]()
	}
	return mo.Some(d)
}

// Sequence returns SEQUENCE if present and a valid integer.
func (e *Event) Sequence() mo.Option[int] {
	prop := e.comp.Props.Get(ical.PropSequence)
	if prop == nil {
		return mo.None[int]()
	}
	n, err := strconv.Atoi(strings.TrimSpace(prop.Value))
	if err != nil {
		return mo.None[int]()
	}
	return mo.Some(n)
}

// IsUpdate reports whether the invitation updates a previously issued one.
func (e *Event) IsUpdate() bool {
	return e.Sequence().OrElse(0) > 0
}

func cloneComponent(c *ical.Component) *ical.Component {
	out := &ical.Component{
		Name:  c.Name,
		Props: make(ical.Props, len(c.Props)),
	}
	for name, props := range c.Props {
		cp := make([]ical.Prop, len(props))
		for i, p := range props {
			cp[i] = cloneProp(p)
		}
		out.Props[name] = cp
	}
	for _, child := range c.Children {
		out.Children = append(out.Children, cloneComponent(child))
	}
	return out
}

func cloneProp(p ical.Prop) ical.Prop {
	out := ical.Prop{
		Name:   p.Name,
		Value:  p.Value,
		Params: make(ical.Params, len(p.Params)),
	}
	for k, v := range p.Params {
		out.Params[k] = append([]string(nil), v...)
	}
	return out
}
