package render

import (
	"fmt"
	"strings"

	"github.com/spiffcs/statcard/internal/aggregate"
	"github.com/spiffcs/statcard/internal/constants"
	"github.com/spiffcs/statcard/internal/model"
)

const (
	languagesWidth = 800
	languageRowH   = 52
	languageBarW   = 720
	languageTop    = 80
)

// Languages renders the top languages as animated horizontal bars.
func Languages(stats *model.GitHubStats) string {
	t := DefaultTheme
	langs := aggregate.TopLanguages(stats.Languages, constants.TopLanguageCount, constants.OtherLanguageThreshold)
	height := languageTop + len(langs)*languageRowH + 30

	styles := []string{
		fmt.Sprintf(`    .header { %s fill: %s; }`, font(600, 22), t.Text),
		fmt.Sprintf(`    .lang-name { %s fill: %s; }`, font(600, 14), t.Text),
		fmt.Sprintf(`    .lang-lines { %s fill: %s; }`, font(400, 13), t.TextSecondary),
		fmt.Sprintf(`    .lang-percent { %s fill: %s; }`, font(600, 14), t.TextSecondary),
		`    .fade-in { animation: fadeIn 0.8s ease-in-out forwards; }`,
	}

	var rows strings.Builder
	for i, lang := range langs {
		barWidth := lang.Percentage / 100 * languageBarW
		delay := formatDecimal(0.2 + float64(i)*0.1)
		styles = append(styles,
			fmt.Sprintf(`    @keyframes slide-right-%d { from { width: 0; } to { width: %.2fpx; } }`, i, barWidth),
			fmt.Sprintf(`    .bar-%d { animation: slide-right-%d 1s cubic-bezier(0.2, 0, 0.2, 1) %ss forwards; }`, i, i, delay),
			fmt.Sprintf(`    .fade-%d { animation: fadeIn 0.5s ease-out %ss forwards; opacity: 0; }`, i, delay),
		)

		name := EscapeXML(lang.Name)
		loc := FormatLinesOfCode(lang.Size)
		y := languageTop + i*languageRowH
		fmt.Fprintf(&rows, `  <g transform="translate(40, %d)">
    <text x="0" y="0" class="lang-name fade-%d">%s</text>
    <text x="%d" y="0" class="lang-lines fade-%d">%s lines</text>
    <text x="%d" y="0" class="lang-percent fade-%d" text-anchor="end">%.1f%%</text>
    <rect x="0" y="12" width="%d" height="12" rx="6" fill="%s" opacity="0.2"/>
    <rect x="0" y="12" width="0" height="12" rx="6" fill="%s" class="bar-%d">
      <title>%s: %s lines</title>
    </rect>
  </g>
`, y, i, name, len(lang.Name)*9+10, i, loc, languageBarW, i, lang.Percentage,
			languageBarW, t.Border, lang.Color, i, name, loc)
	}

	content := fmt.Sprintf("  <g class=\"fade-in\">\n    %s\n  </g>\n\n%s", header("💻 Top Languages"), rows.String())
	return wrap(t, languagesWidth, height, strings.Join(styles, "\n"), content)
}
