// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package locale

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

// Bundle holds the translations for voter-facing messages.
type Bundle struct {
	*i18n.Bundle
	logger *slog.Logger
}

// NewBundle returns an English bundle and loads every active.*.json file
// found in dir. An empty dir yields the built-in English messages only.
func NewBundle(dir string, logger *slog.Logger) (*Bundle, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bundle{
		Bundle: i18n.NewBundle(language.English),
		logger: logger.With("module", "locale"),
	}
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	if dir == "" {
		return b, nil
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open locales directory")
	}
	for _, file := range files {
		name := file.Name()
		if file.IsDir() || !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			continue
		}
		// English comes from the message defaults
		if name == "active.en.json" {
			continue
		}
		if _, err := b.LoadMessageFile(filepath.Join(dir, name)); err != nil {
			return nil, errors.Wrapf(err, "failed to load message file %s", name)
		}
	}
	return b, nil
}

// Localizer returns a localizer for an Accept-Language header value.
func (b *Bundle) Localizer(acceptLanguage string) *i18n.Localizer {
	return i18n.NewLocalizer(b.Bundle, acceptLanguage)
}

// Localize renders m. A missing translation falls back to the English default.
func (b *Bundle) Localize(l *i18n.Localizer, m *i18n.Message) string {
	return b.LocalizeWithConfig(l, &i18n.LocalizeConfig{DefaultMessage: m})
}

// LocalizeWithConfig renders lc, logging instead of failing.
func (b *Bundle) LocalizeWithConfig(l *i18n.Localizer, lc *i18n.LocalizeConfig) string {
	if l == nil {
		l = b.Localizer("")
	}
	s, err := l.Localize(lc)
	var notFound *i18n.MessageNotFoundErr
	if err != nil && !errors.As(err, &notFound) {
		b.logger.Warn("failed to localize message", "event", "locale.localize", "error", err)
	}
	return s
}

// Count renders a pluralized message with {{.Count}} set to n.
func (b *Bundle) Count(l *i18n.Localizer, m *i18n.Message, n int64, data map[string]interface{}) string {
	if data == nil {
		data = map[string]interface{}{}
	}
	if _, ok := data["Count"]; !ok {
		data["Count"] = n
	}
	return b.LocalizeWithConfig(l, &i18n.LocalizeConfig{
		DefaultMessage: m,
		PluralCount:    n,
		TemplateData:   data,
	})
}
