package itip

import "strings"

// Resource identifies the attendee that answers an invitation.
type Resource interface {
	// Mail returns the attendee mail address, with or without a mailto: prefix
	Mail() string
	// CommonName returns the display name, may be empty
	CommonName() string
	// Comment returns an optional note attached to the reply
	Comment() string
}

// IdentityProvider resolves the configured sender identity for a key.
// Unconfigured keys yield empty strings.
type IdentityProvider interface {
	FromAddress(key string) string
	FullName(key string) string
}

// LiteralResource is a Resource with fixed values.
type LiteralResource struct {
	mail       string
	commonName string
	comment    string
}

// NewLiteralResource creates a Resource from explicit values.
func NewLiteralResource(mail, commonName, comment string) (*LiteralResource, error) {
	if bareAddress(mail) == "" {
		return nil, configError("resource mail address is required")
	}
	return &LiteralResource{mail: mail, commonName: commonName, comment: comment}, nil
}

// Mail returns the address as given.
func (r *LiteralResource) Mail() string { return r.mail }

// CommonName returns the display name, possibly empty.
func (r *LiteralResource) CommonName() string { return r.commonName }

// Comment returns the attendee comment, possibly empty.
func (r *LiteralResource) Comment() string { return r.comment }

// IdentityResource resolves mail and name through an IdentityProvider.
//
// Blank answers from the provider fall back to the configured mail address and
// label; the provider is asked on every call.
type IdentityResource struct {
	provider     IdentityProvider
	fallbackMail string
	label        string
}

// NewIdentityResource creates a Resource backed by provider. label is both the
// identity key and the fallback display name.
func NewIdentityResource(provider IdentityProvider, fallbackMail, label string) (*IdentityResource, error) {
	if provider == nil {
		return nil, configError("identity provider is required")
	}
	if bareAddress(fallbackMail) == "" {
		return nil, configError("fallback mail address is required")
	}
	return &IdentityResource{provider: provider, fallbackMail: fallbackMail, label: label}, nil
}

// Mail returns the identity's address, or the fallback when none is configured.
func (r *IdentityResource) Mail() string {
	if mail := r.provider.FromAddress(r.label); strings.TrimSpace(mail) != "" {
		return mail
	}
	return r.fallbackMail
}

// CommonName returns the identity's full name, or the label when none is configured.
func (r *IdentityResource) CommonName() string {
	if name := r.provider.FullName(r.label); strings.TrimSpace(name) != "" {
		return name
	}
	return r.label
}

// Comment is always empty for identities.
func (r *IdentityResource) Comment() string { return "" }

// bareAddress strips a mailto: scheme and surrounding blanks.
func bareAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if len(addr) >= len("mailto:") && strings.EqualFold(addr[:len("mailto:")], "mailto:") {
		addr = addr[len("mailto:"):]
	}
	return strings.TrimSpace(addr)
}

func calAddress(addr string) string {
	return "mailto:" + bareAddress(addr)
}
