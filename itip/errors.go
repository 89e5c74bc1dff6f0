package itip

import "fmt"

// ErrorKind represents the category of an iTIP error
type ErrorKind string

const (
	KindConfiguration        ErrorKind = "configuration"
	KindMissingRequiredField ErrorKind = "missing_required_field"
	KindNoAssociatedRequest  ErrorKind = "no_associated_request"
	KindTransport            ErrorKind = "transport"
)

// Error represents an iTIP processing error
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

var (
	// ErrConfiguration is returned when a Resource, Options or Engine is set up with invalid values
	ErrConfiguration = &Error{Kind: KindConfiguration}
	// ErrMissingRequiredField is returned when the invitation lacks UID or ORGANIZER
	ErrMissingRequiredField = &Error{Kind: KindMissingRequiredField}
	// ErrNoAssociatedRequest is returned when a Response has no request event bound
	ErrNoAssociatedRequest = &Error{Kind: KindNoAssociatedRequest}
	// ErrTransport is returned when the transport failed to deliver a message
	ErrTransport = &Error{Kind: KindTransport}
)

func configError(format string, args ...any) error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}
