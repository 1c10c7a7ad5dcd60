package i18n

import (
	"embed"
	"log/slog"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed *.toml
var catalogs embed.FS

// Localizer resolves message keys to localized text. Unknown keys and
// unknown languages fall through to the key itself so a missing translation
// never blanks a response.
type Localizer struct {
	bundle *i18n.Bundle
	byLang map[string]*i18n.Localizer
}

func NewLocalizer(languages ...string) Localizer {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	l := Localizer{
		bundle: bundle,
		byLang: make(map[string]*i18n.Localizer),
	}
	for _, lang := range languages {
		file := lang + ".toml"
		if _, err := bundle.LoadMessageFileFS(catalogs, file); err != nil {
			slog.Error("failed to load message catalog",
				slog.String("lang", lang), slog.String("file", file), slog.String("error", err.Error()))
			continue
		}
		l.byLang[lang] = i18n.NewLocalizer(bundle, lang)
	}
	return l
}

func (l Localizer) Get(lang, id string) string {
	return l.GetWithData(lang, id, nil)
}

func (l Localizer) GetWithData(lang, id string, data map[string]interface{}) string {
	loc := l.byLang[lang]
	if loc == nil {
		return id
	}

	str, err := loc.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID:    id,
			Other: id,
		},
		TemplateData: data,
	})
	if err != nil {
		slog.Debug("message key not localized", slog.String("id", id), slog.String("lang", lang), slog.String("error", err.Error()))
		return id
	}
	return str
}
