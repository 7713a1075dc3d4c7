// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package i18n loads the embedded message catalogs and resolves
// translations against the locale carried in the request context.
package i18n

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed translations/*.toml
var translationFS embed.FS

const defaultLocale = "en"

// supported lists the catalog languages. The first entry doubles as the
// fallback for unmatched Accept-Language values.
var supported = []language.Tag{language.English, language.German}

var bundle *i18n.Bundle

type localeContextKey struct{}
type localizerContextKey struct{}

// Init loads every embedded message catalog into the bundle. It must run
// before any translation lookup.
func Init() error {
	b := i18n.NewBundle(supported[0])
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(translationFS, "translations/active.*.toml")
	if err != nil {
		return err
	}
	for _, file := range files {
		if _, err := b.LoadMessageFileFS(translationFS, file); err != nil {
			return fmt.Errorf("load message catalog %s: %w", file, err)
		}
	}

	bundle = b
	return nil
}

// WithLocale stores the locale and a matching localizer in the context.
func WithLocale(ctx context.Context, lang language.Tag) context.Context {
	locale := lang.String()
	ctx = context.WithValue(ctx, localeContextKey{}, locale)
	return context.WithValue(ctx, localizerContextKey{}, i18n.NewLocalizer(bundle, locale))
}

// GetLocale returns the locale stored in the context, or the default.
func GetLocale(ctx context.Context) string {
	if locale, ok := ctx.Value(localeContextKey{}).(string); ok {
		return locale
	}
	return defaultLocale
}

// T translates a message by ID.
func T(ctx context.Context, messageID string) string {
	return localize(ctx, &i18n.LocalizeConfig{MessageID: messageID})
}

// TData translates a message with template data.
func TData(ctx context.Context, messageID string, data map[string]any) string {
	return localize(ctx, &i18n.LocalizeConfig{MessageID: messageID, TemplateData: data})
}

// TPlural translates a message whose form depends on a count. The count is
// also available to the message template as {{.Count}}.
func TPlural(ctx context.Context, messageID string, count int) string {
	return localize(ctx, &i18n.LocalizeConfig{
		MessageID:    messageID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
}

// MatchLanguage picks the best supported language for an Accept-Language
// header value.
func MatchLanguage(acceptLanguage string) language.Tag {
	matcher := language.NewMatcher(supported)
	tag, _ := language.MatchStrings(matcher, acceptLanguage)
	return tag
}

// localize resolves a lookup against the context's localizer. Unknown
// message IDs fall back to the ID itself so a missing translation shows up
// on the page instead of erroring the request.
func localize(ctx context.Context, cfg *i18n.LocalizeConfig) string {
	msg, err := getLocalizer(ctx).Localize(cfg)
	if err != nil {
		return cfg.MessageID
	}
	return msg
}

func getLocalizer(ctx context.Context) *i18n.Localizer {
	if localizer, ok := ctx.Value(localizerContextKey{}).(*i18n.Localizer); ok {
		return localizer
	}
	return i18n.NewLocalizer(bundle, defaultLocale)
}
