package tui

import "github.com/charmbracelet/lipgloss"

// Colors follow the GitHub contribution palette used by the cards.
const (
	colorGreen  = lipgloss.Color("#39d353")
	colorRed    = lipgloss.Color("#f85149")
	colorAmber  = lipgloss.Color("#d29922")
	colorBlue   = lipgloss.Color("#58a6ff")
	colorText   = lipgloss.Color("#c9d1d9")
	colorMuted  = lipgloss.Color("#8b949e")
	colorSubtle = lipgloss.Color("#484f58")
)

var (
	textStyle    = lipgloss.NewStyle().Foreground(colorText)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	subtleStyle  = lipgloss.NewStyle().Foreground(colorSubtle)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	warnStyle    = lipgloss.NewStyle().Foreground(colorAmber)
	spinnerStyle = lipgloss.NewStyle().Foreground(colorBlue)
	headerStyle  = lipgloss.NewStyle().Foreground(colorText).Bold(true).MarginBottom(1)
	userStyle    = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	footerStyle  = lipgloss.NewStyle().Foreground(colorSubtle).MarginTop(1)
)

var statusIcons = map[TaskStatus]string{
	StatusPending:  subtleStyle.Render("·"),
	StatusComplete: lipgloss.NewStyle().Foreground(colorGreen).Render("✓"),
	StatusError:    errorStyle.Render("✗"),
	StatusSkipped:  mutedStyle.Render("–"),
}

// StatusIcon returns the glyph for status. Running tasks show the current
// spinner frame.
func StatusIcon(status TaskStatus, spinnerFrame string) string {
	if status == StatusRunning {
		return spinnerStyle.Render(spinnerFrame)
	}
	if icon, ok := statusIcons[status]; ok {
		return icon
	}
	return statusIcons[StatusPending]
}
