// Package styles renders human-readable CLI output with the configured palette.
package styles

import (
	"fmt"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/shipnotes/shipnotes/internal/config"
	"github.com/shipnotes/shipnotes/internal/models"
)

// Styles stay zero-valued (plain text) until Init is called, which keeps test
// output free of escape sequences.
var (
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	NameStyle     lipgloss.Style // Status names
	ReservedStyle lipgloss.Style
	CategoryStyle lipgloss.Style
	SuccessStyle  lipgloss.Style
	ErrorStyle    lipgloss.Style

	markdownStyle = "notty"
)

// Init initializes all CLI styles with the given palette
func Init(colors config.Palette) {
	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Accent))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Subtle))

	NameStyle = lipgloss.NewStyle().
		Bold(true)

	ReservedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Reserved)).
		Italic(true)

	CategoryStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Category))

	SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Success))

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Error))

	markdownStyle = "dark"
	if colors.Preset == "monochrome" {
		markdownStyle = "notty"
	}
	rendererCache.Clear()
}

// ═══════════════════════════════════════════════════════════════════
// HELPER FUNCTIONS
// ═══════════════════════════════════════════════════════════════════

// Success renders a confirmation line
func Success(format string, args ...any) string {
	return SuccessStyle.Render("✓") + " " + fmt.Sprintf(format, args...)
}

// RenderStatus renders "N. Name (ID: x) [reserved]"
func RenderStatus(s *models.Status) string {
	line := fmt.Sprintf("%s %s %s",
		SubtitleStyle.Render(fmt.Sprintf("%d.", s.Position)),
		NameStyle.Render(s.Name),
		SubtitleStyle.Render(fmt.Sprintf("(ID: %d)", s.ID)))
	if s.Reserved {
		line += " " + ReservedStyle.Render("[reserved]")
	}
	return line
}

// RenderColumn renders a status line with its event count and category
func RenderColumn(c *models.Column) string {
	line := RenderStatus(c.Status)
	noun := "events"
	if c.Count == 1 {
		noun = "event"
	}
	line += " " + SubtitleStyle.Render(fmt.Sprintf("· %d %s", c.Count, noun))
	if c.Category != nil {
		line += " " + CategoryStyle.Render("→ "+*c.Category)
	}
	return line
}

// RenderEvent renders "#id Title (status)"
func RenderEvent(e *models.Event, statusName string) string {
	line := fmt.Sprintf("%s %s", SubtitleStyle.Render(fmt.Sprintf("#%d", e.ID)), NameStyle.Render(e.Title))
	if statusName != "" {
		line += " " + SubtitleStyle.Render("("+statusName+")")
	}
	return line
}

var rendererCache sync.Map // map[int]*glamour.TermRenderer

func getRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(markdownStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	rendererCache.Store(width, renderer)
	return renderer, nil
}

// Markdown renders a category description. Rendering failures fall back to the
// raw text.
func Markdown(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	renderer, err := getRenderer(width)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(out)
}
