package itip

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicOptions(t *testing.T) {
	assert.Equal(t, "UTF-8", BasicOptions{}.Charset())
	assert.Equal(t, "ISO-8859-1", BasicOptions{CharsetName: "ISO-8859-1"}.Charset())
	assert.Empty(t, BasicOptions{}.Headers())
}

func TestMessageIDOptions(t *testing.T) {
	opts, err := NewMessageIDOptions("", "mail.example.org")
	require.NoError(t, err)
	opts.UserAgent = "libitip"

	first := opts.Headers()
	second := opts.Headers()

	assert.True(t, strings.HasPrefix(first["Message-ID"], "<"))
	assert.True(t, strings.HasSuffix(first["Message-ID"], "@mail.example.org>"))
	assert.NotEqual(t, first["Message-ID"], second["Message-ID"])
	assert.Equal(t, "libitip", first["User-Agent"])
	assert.Equal(t, "UTF-8", opts.Charset())
}

func TestMessageIDOptions_Configuration(t *testing.T) {
	_, err := NewMessageIDOptions("UTF-8", " ")
	assert.ErrorIs(t, err, ErrConfiguration)

	// literal without hostname still produces a usable identifier
	opts := &MessageIDOptions{}
	assert.True(t, strings.HasSuffix(opts.Headers()["Message-ID"], "@localhost>"))
}
