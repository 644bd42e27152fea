// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/danielhkuo/pollbooth/locale"
	"github.com/danielhkuo/pollbooth/models"
)

const barWidth = 20

// defaultBundle serves English when no bundle is configured.
var defaultBundle, _ = locale.NewBundle("", nil)

// RenderResults draws results as plain text, one bar per option:
//
//	Yes  ███████████████░░░░░ 75% (3 votes)
//	No   █████░░░░░░░░░░░░░░░ 25% (1 vote)
//	Total votes 4
func RenderResults(b *locale.Bundle, l *i18n.Localizer, r models.Results) string {
	if b == nil {
		b = defaultBundle
	}
	if r.TotalVotes == 0 || len(r.Options) == 0 {
		return b.Localize(l, locale.NoResults)
	}

	width := 0
	for _, o := range r.Options {
		if n := len([]rune(o.Option)); n > width {
			width = n
		}
	}

	var sb strings.Builder
	for _, o := range r.Options {
		filled := int(math.Round(o.Percentage / 100 * barWidth))
		if filled > barWidth {
			filled = barWidth
		}
		votes := b.Count(l, locale.VotesCount, o.Votes, map[string]interface{}{
			"Votes": humanize.Comma(o.Votes),
		})
		fmt.Fprintf(&sb, "%-*s %s%s %s%% (%s)\n",
			width, o.Option,
			strings.Repeat("█", filled), strings.Repeat("░", barWidth-filled),
			humanize.FtoaWithDigits(o.Percentage, 2),
			votes,
		)
	}
	sb.WriteString(b.LocalizeWithConfig(l, &i18n.LocalizeConfig{
		DefaultMessage: locale.TotalVotes,
		TemplateData:   map[string]interface{}{"Total": humanize.Comma(r.TotalVotes)},
	}))
	return sb.String()
}
