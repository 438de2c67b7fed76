// Package i18n provides Spanish and English label catalogs for report and
// table output. Spanish is the house language of the delivery team and the
// fallback for unmatched preferences.
package i18n

import (
	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.Spanish, // fallback
	language.English,
}

var matcher = language.NewMatcher(supported)

// Translator resolves label keys against one language catalog.
type Translator struct {
	tag     language.Tag
	catalog map[string]string
}

// New matches the preferred language strings (e.g. "en", "es-MX",
// "en-US,es;q=0.8") against the supported catalogs. Unparseable or unknown
// preferences fall back to Spanish.
func New(prefs ...string) *Translator {
	tags := make([]language.Tag, 0, len(prefs))
	for _, p := range prefs {
		if parsed, _, err := language.ParseAcceptLanguage(p); err == nil {
			tags = append(tags, parsed...)
		}
	}

	tag, _, _ := matcher.Match(tags...)
	base, _ := tag.Base()

	if base.String() == "en" {
		return &Translator{tag: language.English, catalog: english}
	}
	return &Translator{tag: language.Spanish, catalog: spanish}
}

// Tag returns the resolved language.
func (t *Translator) Tag() language.Tag {
	return t.tag
}

// T returns the label for key, or the key itself when no translation
// exists. Missing labels are a catalog bug, not a runtime error.
func (t *Translator) T(key string) string {
	if label, ok := t.catalog[key]; ok {
		return label
	}
	if label, ok := spanish[key]; ok {
		return label
	}
	return key
}
