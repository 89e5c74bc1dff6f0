/*
Package itip answers iCalendar invitations following the iTIP protocol (RFC 5546).

Given an invitation (a VEVENT sent with METHOD=REQUEST) and the attendee who
answers it, an Engine derives the METHOD=REPLY calendar object and composes the
reply mail.

# Basic Usage

	ev, err := itip.ParseEvent(icsReader)
	if err != nil {
		log.Fatal(err)
	}
	res, err := itip.NewLiteralResource("test@example.org", "Mister Test", "")
	if err != nil {
		log.Fatal(err)
	}
	engine, err := itip.New(ev, res)
	if err != nil {
		log.Fatal(err)
	}
	msg, err := engine.SendMultipart(ctx, itip.Accept(res), itip.BasicOptions{}, transport)

# Reply Contents

The reply copies UID, SUMMARY, DESCRIPTION, LOCATION, ORGANIZER, DTSTART,
DTEND or DURATION and SEQUENCE from the invitation. Any other property is
dropped. The ATTENDEE carries the resource address with CN and PARTSTAT
parameters.

# Resources

LiteralResource returns fixed values. IdentityResource asks an
IdentityProvider for the sender address and name and falls back to configured
values when the provider answers with empty strings. See identity/memory for
an in-memory provider.

# Errors

Failures are *Error values. Use errors.Is with ErrConfiguration,
ErrMissingRequiredField, ErrNoAssociatedRequest or ErrTransport to tell them
apart.
*/
package itip
