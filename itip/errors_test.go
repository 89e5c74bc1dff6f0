package itip

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	cause := errors.New("connection refused")
	err := &Error{Kind: KindTransport, Message: "failed to send reply", Err: cause}

	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, "transport: failed to send reply: connection refused", err.Error())
	assert.Equal(t, "configuration", ErrConfiguration.Error())
}
