package i18n

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/cyp0633/libitip/itip"
)

var _ itip.Translator = (*Translator)(nil)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		tag  language.Tag
		key  string
		want string
	}{
		{name: "german subject", tag: language.German, key: "Accepted", want: "Zugesagt"},
		{name: "french subject", tag: language.French, key: "Declined", want: "Refusé"},
		{name: "english is the key", tag: language.English, key: "Tentative", want: "Tentative"},
		{name: "unknown key", tag: language.German, key: "Nonexistent", want: "Nonexistent"},
		{name: "german message", tag: language.German, key: "has declined the update to the following event", want: "hat die Aktualisierung folgenden Termins abgelehnt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.tag).Translate(tt.key))
		})
	}
}

func TestLookup(t *testing.T) {
	assert.Equal(t, language.German, Lookup("de-CH,de;q=0.9,en;q=0.5").Language())
	assert.Equal(t, language.French, Lookup("fr").Language())
	assert.Equal(t, language.English, Lookup("xx-invalid-").Language())
	assert.Equal(t, language.English, Lookup().Language())
}

func TestCatalogsCoverSameKeys(t *testing.T) {
	var reference map[string]string
	for _, entries := range translations {
		if reference == nil {
			reference = entries
			continue
		}
		assert.Len(t, entries, len(reference))
		for key := range reference {
			assert.Contains(t, entries, key)
		}
	}
}

func TestNewBuilder(t *testing.T) {
	b, err := newBuilder(translations)
	require.NoError(t, err)
	assert.NotNil(t, b)

	assert.Panics(t, func() { mustBuilder(nil, errors.New("bad catalog")) })
	assert.NotPanics(t, func() { mustBuilder(b, nil) })
}
