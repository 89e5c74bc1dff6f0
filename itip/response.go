package itip

import (
	"fmt"
	"strings"
)

// Translator looks up the localized form of a message key.
type Translator interface {
	Translate(key string) string
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc func(key string) string

// Translate calls f(key).
func (f TranslatorFunc) Translate(key string) string { return f(key) }

func translate(tr Translator, key string) string {
	if tr == nil {
		return key
	}
	return tr.Translate(key)
}

// Outcome is the participation outcome of a response.
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeDeclined
	OutcomeTentative
)

type outcomePolicy struct {
	subject       string
	message       string
	updateMessage string
}

var outcomePolicies = map[Outcome]outcomePolicy{
	OutcomeAccepted: {
		subject:       "Accepted",
		message:       "has accepted the invitation to the following event",
		updateMessage: "has accepted the update to the following event",
	},
	OutcomeDeclined: {
		subject:       "Declined",
		message:       "has declined the invitation to the following event",
		updateMessage: "has declined the update to the following event",
	},
	OutcomeTentative: {
		subject:       "Tentative",
		message:       "has tentatively accepted the invitation to the following event",
		updateMessage: "has tentatively accepted the update to the following event",
	},
}

// String returns the outcome name.
func (o Outcome) String() string {
	if p, ok := outcomePolicies[o]; ok {
		return p.subject
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Response is the answer an attendee gives to an invitation.
type Response struct {
	outcome  Outcome
	resource Resource
	comment  string
	request  *Event
}

// ResponseOption configures a Response.
type ResponseOption func(*Response)

// WithComment appends a bracketed note to the response subject.
func WithComment(comment string) ResponseOption {
	return func(r *Response) {
		r.comment = comment
	}
}

// WithRequest binds the invitation the response answers.
func WithRequest(ev *Event) ResponseOption {
	return func(r *Response) {
		r.request = ev
	}
}

// NewResponse creates a response with the given outcome for resource.
func NewResponse(outcome Outcome, resource Resource, opts ...ResponseOption) *Response {
	r := &Response{outcome: outcome, resource: resource}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Accept creates an ACCEPTED response.
func Accept(resource Resource, opts ...ResponseOption) *Response {
	return NewResponse(OutcomeAccepted, resource, opts...)
}

// Decline creates a DECLINED response.
func Decline(resource Resource, opts ...ResponseOption) *Response {
	return NewResponse(OutcomeDeclined, resource, opts...)
}

// Tentative creates a TENTATIVE response.
func Tentative(resource Resource, opts ...ResponseOption) *Response {
	return NewResponse(OutcomeTentative, resource, opts...)
}

// Outcome returns the participation outcome.
func (r *Response) Outcome() Outcome { return r.outcome }

// Resource returns the responding attendee, nil until bound.
func (r *Response) Resource() Resource { return r.resource }

// Comment returns the subject annotation.
func (r *Response) Comment() string { return r.comment }

// Status returns the PARTSTAT token.
func (r *Response) Status() string {
	return strings.ToUpper(r.outcome.String())
}

// ShortSubject returns the localized one-word label of the outcome.
func (r *Response) ShortSubject(tr Translator) string {
	return translate(tr, outcomePolicies[r.outcome].subject)
}

// ShortMessage returns the localized sentence describing the outcome.
func (r *Response) ShortMessage(tr Translator, isUpdate bool) string {
	p := outcomePolicies[r.outcome]
	if isUpdate {
		return translate(tr, p.updateMessage)
	}
	return translate(tr, p.message)
}

// Request returns the bound invitation or ErrNoAssociatedRequest.
func (r *Response) Request() (*Event, error) {
	if r.request == nil {
		return nil, &Error{Kind: KindNoAssociatedRequest, Message: "response has no associated request"}
	}
	return r.request, nil
}

// Subject renders "<ShortSubject>[ [comment]]: <SUMMARY>".
func (r *Response) Subject(tr Translator) (string, error) {
	req, err := r.Request()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(r.ShortSubject(tr))
	if r.comment != "" {
		fmt.Fprintf(&b, " [%s]", r.comment)
	}
	b.WriteString(": ")
	b.WriteString(req.Summary())
	return b.String(), nil
}

// Message renders the opening line of the human-readable reply.
func (r *Response) Message(tr Translator, isUpdate bool) string {
	name := ""
	if r.resource != nil {
		name = r.resource.CommonName()
		if name == "" {
			name = bareAddress(r.resource.Mail())
		}
	}
	if name == "" {
		return r.ShortMessage(tr, isUpdate) + ":"
	}
	return name + " " + r.ShortMessage(tr, isUpdate) + ":"
}

// bind returns a copy with missing request and resource filled in.
func (r *Response) bind(ev *Event, res Resource) *Response {
	cp := *r
	if cp.request == nil {
		cp.request = ev
	}
	if cp.resource == nil {
		cp.resource = res
	}
	return &cp
}
