package itip

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage(parts ...Part) *Message {
	return &Message{
		Subject: "Accepted: Test Invitation",
		From:    &mail.Address{Name: "Mister Test", Address: "test@example.org"},
		To:      []*mail.Address{{Address: "orga@example.org"}},
		Date:    time.Date(2008, 9, 26, 8, 0, 0, 0, time.UTC),
		Extra:   map[string]string{"X-Test": "yes"},
		Parts:   parts,
	}
}

func TestMessage_EncodeSinglepart(t *testing.T) {
	msg := testMessage(Part{
		ContentType: "text/calendar",
		Params:      map[string]string{"method": "REPLY", "charset": "UTF-8"},
		Body:        []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"),
	})

	raw, err := msg.Bytes()
	require.NoError(t, err)

	e, err := message.Read(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Nil(t, e.MultipartReader())

	mediaType, params, err := e.Header.ContentType()
	require.NoError(t, err)
	assert.Equal(t, "text/calendar", mediaType)
	assert.Equal(t, "REPLY", params["method"])
	assert.Equal(t, "yes", e.Header.Get("X-Test"))

	body, err := io.ReadAll(e.Body)
	require.NoError(t, err)
	assert.Equal(t, "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", string(body))

	h := mail.Header{Header: e.Header}
	subject, err := h.Subject()
	require.NoError(t, err)
	assert.Equal(t, "Accepted: Test Invitation", subject)
}

func TestMessage_EncodeMultipart(t *testing.T) {
	msg := testMessage(
		Part{ContentType: "text/plain", Params: map[string]string{"charset": "UTF-8"}, Body: []byte("hello")},
		Part{ContentType: "text/calendar", Filename: "event-reply.ics", Body: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")},
	)

	raw, err := msg.Bytes()
	require.NoError(t, err)

	e, err := message.Read(bytes.NewReader(raw))
	require.NoError(t, err)
	mr := e.MultipartReader()
	require.NotNil(t, mr)

	var types []string
	var dispositions []string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		mediaType, _, err := p.Header.ContentType()
		require.NoError(t, err)
		types = append(types, mediaType)
		disp, _, _ := p.Header.ContentDisposition()
		dispositions = append(dispositions, disp)
	}

	assert.Equal(t, []string{"text/plain", "text/calendar"}, types)
	assert.Equal(t, []string{"", "attachment"}, dispositions)
}

func TestMessage_EncodeEmpty(t *testing.T) {
	_, err := testMessage().Bytes()
	assert.Error(t, err)
}

func TestEncodeText(t *testing.T) {
	b, err := encodeText("Zürich", "UTF-8")
	require.NoError(t, err)
	assert.Equal(t, []byte("Zürich"), b)

	b, err = encodeText("Zürich", "ISO-8859-1")
	require.NoError(t, err)
	assert.Equal(t, []byte{'Z', 0xfc, 'r', 'i', 'c', 'h'}, b)

	_, err = encodeText("x", "no-such-charset")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestFormatAddressList(t *testing.T) {
	assert.Equal(t, "orga@example.org", formatAddressList([]*mail.Address{{Address: "orga@example.org"}}))
	assert.Equal(t, `"Mister Test" <test@example.org>, orga@example.org`, formatAddressList([]*mail.Address{
		{Name: "Mister Test", Address: "test@example.org"},
		{Address: "orga@example.org"},
	}))
}
