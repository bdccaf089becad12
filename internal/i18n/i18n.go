// Package i18n provides the localized strings used in calendar events and bot replies.
package i18n

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var locales embed.FS

// Supported language codes, the first one is the default
const (
	Spanish = "es"
	English = "en"
)

var (
	supported = []string{Spanish, English}
	matcher   = language.NewMatcher([]language.Tag{language.Spanish, language.English})

	loadOnce sync.Once
	catalogs map[string]map[string]string
	loadErr  error
)

// Localizer looks up strings for a single language
type Localizer struct {
	lang    string
	entries map[string]string
}

// New returns a Localizer for the best supported match of lang.
// lang may be a tag ("en-US") or an Accept-Language style list.
func New(lang string) (*Localizer, error) {
	loadOnce.Do(loadCatalogs)
	if loadErr != nil {
		return nil, loadErr
	}
	code := Match(lang)
	return &Localizer{lang: code, entries: catalogs[code]}, nil
}

// MustNew is like New but panics if the embedded catalogs are broken
func MustNew(lang string) *Localizer {
	l, err := New(lang)
	if err != nil {
		panic(err)
	}
	return l
}

// Match returns the supported language code closest to lang
func Match(lang string) string {
	tags, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(tags) == 0 {
		return supported[0]
	}
	_, idx, _ := matcher.Match(tags...)
	return supported[idx]
}

// Lang returns the language code of the localizer
func (l *Localizer) Lang() string {
	return l.lang
}

// T returns the translation for key with {name} placeholders replaced from
// the key/value pairs in args. Unknown keys are returned unchanged.
func (l *Localizer) T(key string, args ...any) string {
	text, ok := l.entries[key]
	if !ok {
		text = key
	}
	if len(args) < 2 {
		return text
	}

	pairs := make([]string, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		pairs = append(pairs, "{"+fmt.Sprint(args[i])+"}", fmt.Sprint(args[i+1]))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

func loadCatalogs() {
	catalogs = make(map[string]map[string]string, len(supported))
	for _, code := range supported {
		data, err := locales.ReadFile("locales/" + code + ".yaml")
		if err != nil {
			loadErr = fmt.Errorf("read %s catalog: %w", code, err)
			return
		}
		entries := make(map[string]string)
		if err := yaml.Unmarshal(data, &entries); err != nil {
			loadErr = fmt.Errorf("parse %s catalog: %w", code, err)
			return
		}
		catalogs[code] = entries
	}
}
