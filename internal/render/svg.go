// Package render generates the SVG stat cards.
//
// Every generator is a pure function of the statistics: the same input
// always yields byte-identical output.
package render

import (
	_ "embed"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spiffcs/statcard/internal/constants"
	"github.com/spiffcs/statcard/internal/model"
)

//go:embed animations.css
var animations string

// Theme is the card color palette.
type Theme struct {
	Bg            string
	Border        string
	Text          string
	TextSecondary string
	Accent        string
	Success       string
	Warning       string
	Danger        string
	// Levels holds the heatmap colors for contribution levels 0-4.
	Levels [5]string
}

// DefaultTheme matches GitHub's dark mode.
var DefaultTheme = Theme{
	Bg:            "#0d1117",
	Border:        "#30363d",
	Text:          "#c9d1d9",
	TextSecondary: "#8b949e",
	Accent:        "#58a6ff",
	Success:       "#3fb950",
	Warning:       "#d29922",
	Danger:        "#f85149",
	Levels:        [5]string{"#161b22", "#0e4429", "#006d32", "#26a641", "#39d353"},
}

// LevelColor returns the heatmap color for a contribution level.
func (t Theme) LevelColor(level int) string {
	if level < 0 {
		level = 0
	}
	if level >= len(t.Levels) {
		level = len(t.Levels) - 1
	}
	return t.Levels[level]
}

// GenerationError reports that cards were requested without statistics.
type GenerationError struct {
	Msg string
}

func (e *GenerationError) Error() string {
	return e.Msg
}

// Cards holds the rendered SVG documents.
type Cards struct {
	Overview     string
	Languages    string
	Productivity string
}

// Files maps each card to its file name in the output directory.
func (c Cards) Files() map[string]string {
	return map[string]string{
		constants.OverviewSVG:     c.Overview,
		constants.LanguagesSVG:    c.Languages,
		constants.ProductivitySVG: c.Productivity,
	}
}

// RenderAll renders the three cards.
func RenderAll(stats *model.GitHubStats) (Cards, error) {
	if stats == nil {
		return Cards{}, &GenerationError{Msg: "Stats must be fetched before generating SVGs"}
	}
	return Cards{
		Overview:     Overview(stats),
		Languages:    Languages(stats),
		Productivity: Productivity(stats),
	}, nil
}

// wrap emits the svg root with shared animations and the card background.
func wrap(t Theme, width, height int, styles, content string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg width="%d" height="%d" viewBox="0 0 %d %d" fill="none" xmlns="http://www.w3.org/2000/svg">`, width, height, width, height)
	b.WriteString("\n  <style>\n")
	b.WriteString(styles)
	b.WriteString("\n")
	b.WriteString(animations)
	b.WriteString("  </style>\n\n")
	fmt.Fprintf(&b, `  <rect x="0.5" y="0.5" width="%d" height="%d" rx="4.5" fill="%s" stroke="%s"/>`, width-1, height-1, t.Bg, t.Border)
	b.WriteString("\n\n")
	b.WriteString(content)
	b.WriteString("\n</svg>")
	return b.String()
}

func header(text string) string {
	return fmt.Sprintf(`<text x="25" y="35" class="header">%s</text>`, EscapeXML(text))
}

func subheader(text string) string {
	return fmt.Sprintf(`<text x="25" y="54" class="subheader">%s</text>`, EscapeXML(text))
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML escapes the five XML special characters.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// FormatNumber formats n with thousands separators.
func FormatNumber(n int) string {
	return humanize.Comma(int64(n))
}

// FormatLinesOfCode estimates lines of code from a byte count.
func FormatLinesOfCode(bytes int64) string {
	lines := math.Round(float64(bytes) / constants.BytesPerLine)
	switch {
	case lines >= 1_000_000:
		return fmt.Sprintf("%.1fM", lines/1_000_000)
	case lines >= 1000:
		return fmt.Sprintf("%.0fk", lines/1000)
	default:
		return humanize.Comma(int64(lines))
	}
}

// formatDecimal prints f in its shortest form ("2", "1.5").
func formatDecimal(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// fontStack is shared by every text class.
const fontStack = `'Segoe UI', Ubuntu, Sans-Serif`

func font(weight, size int) string {
	return fmt.Sprintf("font: %d %dpx %s;", weight, size, fontStack)
}
