package model

// DefaultLanguageColor is used for languages absent from every color table.
const DefaultLanguageColor = "#858585"

// OtherLanguageColor fills the bucket that folds the long tail of languages.
const OtherLanguageColor = "#64748b"

// FallbackLanguageColors covers the common languages when the remote
// color table cannot be fetched.
var FallbackLanguageColors = map[string]string{
	"TypeScript": "#3178c6",
	"JavaScript": "#f1e05a",
	"Python":     "#3572A5",
	"Go":         "#00ADD8",
	"Java":       "#b07219",
	"C#":         "#178600",
	"C":          "#555555",
	"C++":        "#f34b7d",
	"Rust":       "#dea584",
	"Ruby":       "#701516",
	"PHP":        "#4F5D95",
	"HTML":       "#e34c26",
	"CSS":        "#563d7c",
	"Shell":      "#89e051",
	"Dart":       "#00B4AB",
	"Solidity":   "#AA6746",
}

// LanguageColor resolves a language color from colors, then the fallback
// table, then DefaultLanguageColor.
func LanguageColor(colors map[string]string, name string) string {
	if c, ok := colors[name]; ok && c != "" {
		return c
	}
	if c, ok := FallbackLanguageColors[name]; ok {
		return c
	}
	return DefaultLanguageColor
}
