// Package document renders the profile README and the static HTML page that
// embed the generated stat cards.
package document

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"path"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/spiffcs/statcard/internal/model"
)

// Markers delimiting the generated stats section inside a README.
const (
	StatsStart = "<!-- STATS:START -->"
	StatsEnd   = "<!-- STATS:END -->"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

var (
	readmeTmpl = template.Must(
		template.New("readme.md.tmpl").
			Funcs(template.FuncMap{"lower": strings.ToLower}).
			ParseFS(templateFiles, "templates/readme.md.tmpl", "templates/stats.md.tmpl"),
	)
	indexTmpl = htmltemplate.Must(
		htmltemplate.New("index.html.tmpl").ParseFS(templateFiles, "templates/index.html.tmpl"),
	)
)

// SocialLink is one entry of the "Connect with Me" section.
type SocialLink struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Icon   string `yaml:"icon"`
	Height int    `yaml:"height,omitempty"`
	Width  int    `yaml:"width,omitempty"`
}

// Tool is a badge in the languages and tools section.
type Tool struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Icon string `yaml:"icon"`
}

// Profile is the hand-written part of the generated documents.
type Profile struct {
	Name        string       `yaml:"name"`
	Tagline     string       `yaml:"tagline"`
	SocialLinks []SocialLink `yaml:"social_links"`
	Tools       []Tool       `yaml:"tools"`
	// CardsDir is where the documents expect the SVG cards, relative to them.
	CardsDir string `yaml:"-"`
}

type view struct {
	Profile
	Favicon string
	Updated string
	Year    int
}

// Card returns the path of a generated card as referenced by the documents.
func (v view) Card(name string) string {
	if v.CardsDir == "" {
		return name
	}
	return path.Join(v.CardsDir, name)
}

func newView(p Profile) view {
	for i := range p.SocialLinks {
		if p.SocialLinks[i].Height == 0 {
			p.SocialLinks[i].Height = 30
		}
	}
	return view{Profile: p}
}

// Readme renders the full profile README.
func Readme(p Profile) (string, error) {
	var buf bytes.Buffer
	if err := readmeTmpl.Execute(&buf, newView(p)); err != nil {
		return "", fmt.Errorf("failed to render README: %w", err)
	}
	return buf.String(), nil
}

// StatsSection renders only the marker-delimited stats block.
func StatsSection(p Profile) (string, error) {
	var buf bytes.Buffer
	if err := readmeTmpl.ExecuteTemplate(&buf, "stats", newView(p)); err != nil {
		return "", fmt.Errorf("failed to render stats section: %w", err)
	}
	return buf.String(), nil
}

var statsHeading = regexp.MustCompile(`(?i)<h3[^>]*>.*GitHub Stats.*</h3>`)

// InjectStats replaces the stats section of an existing README. Without
// markers the section goes below a "GitHub Stats" heading, or is appended.
func InjectStats(existing string, p Profile) (string, error) {
	section, err := StatsSection(p)
	if err != nil {
		return "", err
	}

	start := strings.Index(existing, StatsStart)
	end := strings.Index(existing, StatsEnd)
	if start >= 0 && end > start {
		return existing[:start] + section + existing[end+len(StatsEnd):], nil
	}

	if loc := statsHeading.FindStringIndex(existing); loc != nil {
		headerEnd := loc[1]
		sectionEnd := len(existing)
		if next := strings.Index(existing[headerEnd:], "<h3"); next >= 0 {
			sectionEnd = headerEnd + next
		}
		return existing[:headerEnd] + "\n\n" + section + "\n\n" + existing[sectionEnd:], nil
	}

	return strings.TrimRight(existing, "\n") + "\n\n" + section + "\n", nil
}

// HTML renders the static profile page. now is stamped as the update time.
func HTML(stats *model.GitHubStats, p Profile, now time.Time) (string, error) {
	if stats == nil {
		return "", fmt.Errorf("failed to render HTML: no stats")
	}
	v := newView(p)
	now = now.UTC()
	v.Favicon = fmt.Sprintf("https://avatars.githubusercontent.com/u/%d?v=4", stats.UserID)
	v.Updated = now.Format("January 2, 2006 at 3:04 PM")
	v.Year = now.Year()

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}
	return buf.String(), nil
}
