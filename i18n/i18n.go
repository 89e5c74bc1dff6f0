// Package i18n provides translators for iTIP reply texts backed by
// golang.org/x/text message catalogs.
package i18n

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// translations maps a language to the localized form of every message key.
// English is the key itself.
var translations = map[language.Tag]map[string]string{
	language.German: {
		"Accepted":  "Zugesagt",
		"Declined":  "Abgelehnt",
		"Tentative": "Vorläufig",
		"has accepted the invitation to the following event":             "hat die Einladung zu folgendem Termin angenommen",
		"has accepted the update to the following event":                 "hat die Aktualisierung folgenden Termins angenommen",
		"has declined the invitation to the following event":             "hat die Einladung zu folgendem Termin abgelehnt",
		"has declined the update to the following event":                 "hat die Aktualisierung folgenden Termins abgelehnt",
		"has tentatively accepted the invitation to the following event": "hat die Einladung zu folgendem Termin vorläufig angenommen",
		"has tentatively accepted the update to the following event":     "hat die Aktualisierung folgenden Termins vorläufig angenommen",
		"Event ID": "Termin-ID",
		"Title":    "Titel",
		"Start":    "Beginn",
		"End":      "Ende",
		"Duration": "Dauer",
		"Location": "Ort",
	},
	language.French: {
		"Accepted":  "Accepté",
		"Declined":  "Refusé",
		"Tentative": "Provisoire",
		"has accepted the invitation to the following event":             "a accepté l'invitation à l'événement suivant",
		"has accepted the update to the following event":                 "a accepté la mise à jour de l'événement suivant",
		"has declined the invitation to the following event":             "a refusé l'invitation à l'événement suivant",
		"has declined the update to the following event":                 "a refusé la mise à jour de l'événement suivant",
		"has tentatively accepted the invitation to the following event": "a provisoirement accepté l'invitation à l'événement suivant",
		"has tentatively accepted the update to the following event":     "a provisoirement accepté la mise à jour de l'événement suivant",
		"Event ID": "ID de l'événement",
		"Title":    "Titre",
		"Start":    "Début",
		"End":      "Fin",
		"Duration": "Durée",
		"Location": "Lieu",
	},
}

var (
	builder       = mustBuilder(newBuilder(translations))
	supportedTags = supported()
	matcher       = language.NewMatcher(supportedTags)
)

func newBuilder(catalogs map[language.Tag]map[string]string) (*catalog.Builder, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range catalogs {
		for key, msg := range entries {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("i18n: %s %q: %w", tag, key, err)
			}
		}
	}
	return b, nil
}

func mustBuilder(b *catalog.Builder, err error) *catalog.Builder {
	if err != nil {
		panic(err)
	}
	return b
}

// supported lists English first so that it is the matcher's default.
func supported() []language.Tag {
	var tags []language.Tag
	for tag := range translations {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].String() < tags[j].String() })
	return append([]language.Tag{language.English}, tags...)
}

// Translator looks up message keys in one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a translator for tag. Keys without a translation are returned unchanged.
func New(tag language.Tag) *Translator {
	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}
}

// Lookup picks the best supported language for a list of preferences such as
// an Accept-Language value or "de-CH". Unknown input falls back to English.
func Lookup(preferences ...string) *Translator {
	var tags []language.Tag
	for _, p := range preferences {
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	_, idx, _ := matcher.Match(tags...)
	return New(supportedTags[idx])
}

// Language returns the language of the translator.
func (t *Translator) Language() language.Tag {
	return t.tag
}

// Translate implements itip.Translator
func (t *Translator) Translate(key string) string {
	return t.printer.Sprintf(key)
}
