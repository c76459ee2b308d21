package card

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/okvist/hatodo/internal/config"
	"github.com/okvist/hatodo/internal/model"
)

// Fixed severity colors for priority bands and due-date states. The
// configurable colors cover the card surfaces, not the severity accents.
const (
	colorError   = lipgloss.Color("1")
	colorWarning = lipgloss.Color("3")
	colorSuccess = lipgloss.Color("2")
	colorSubtle  = lipgloss.Color("243")
)

// Styles holds pre-computed lipgloss styles derived from the card config
type Styles struct {
	Card       lipgloss.Style
	Title      lipgloss.Style
	Count      lipgloss.Style
	Error      lipgloss.Style
	Loading    lipgloss.Style
	EmptyList  lipgloss.Style

	ItemActive    lipgloss.Style
	ItemCompleted lipgloss.Style
	ItemCursor    lipgloss.Style
	ItemMeta      lipgloss.Style
	Icon          lipgloss.Style
	Quantity      lipgloss.Style

	PriorityLabel lipgloss.Style
	DueOverdue    lipgloss.Style
	DueToday      lipgloss.Style
	DueDate       lipgloss.Style
	Progress      lipgloss.Style

	Subtask     lipgloss.Style
	SubtaskDone lipgloss.Style

	FormTitle lipgloss.Style
	FormArea  lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
	HelpSep  lipgloss.Style

	ConfirmPrompt lipgloss.Style
}

// NewStyles builds the style set from the configured colors.
func NewStyles(cfg config.Config) Styles {
	text := lipgloss.Color(colorOr(cfg.TextColor, config.DefaultTextColor))
	completedText := lipgloss.Color(colorOr(cfg.CompletedTextColor, config.DefaultCompletedTextColor))
	cardColor := lipgloss.Color(colorOr(cfg.CardColor, config.DefaultCardColor))
	completedColor := lipgloss.Color(colorOr(cfg.CompletedColor, config.DefaultCompletedColor))
	iconBG := lipgloss.Color(colorOr(cfg.IconBackground, config.DefaultIconBackground))

	// No background by default; the terminal's own shows through.
	card := lipgloss.NewStyle().Padding(0, 1)
	if cfg.CardBackground != "" && cfg.CardBackground != "none" {
		card = card.Background(lipgloss.Color(cfg.CardBackground))
	}

	return Styles{
		Card:      card,
		Title:     lipgloss.NewStyle().Bold(true).Foreground(text),
		Count:     lipgloss.NewStyle().Foreground(colorSubtle),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(colorError).Padding(0, 1),
		Loading:   lipgloss.NewStyle().Foreground(colorSubtle),
		EmptyList: lipgloss.NewStyle().Foreground(colorSubtle).Padding(1, 2),

		ItemActive:    lipgloss.NewStyle().Foreground(text),
		ItemCompleted: lipgloss.NewStyle().Foreground(completedText).Strikethrough(true),
		ItemCursor:    lipgloss.NewStyle().Background(cardColor).Bold(true),
		ItemMeta:      lipgloss.NewStyle().Foreground(colorSubtle),
		Icon:          lipgloss.NewStyle().Background(iconBG).Padding(0, 1),
		Quantity:      lipgloss.NewStyle().Foreground(colorSubtle),

		PriorityLabel: lipgloss.NewStyle().Bold(true).Padding(0, 1),
		DueOverdue:    lipgloss.NewStyle().Foreground(colorError),
		DueToday:      lipgloss.NewStyle().Foreground(colorWarning),
		DueDate:       lipgloss.NewStyle().Foreground(colorSubtle),
		Progress:      lipgloss.NewStyle().Foreground(colorSubtle),

		Subtask:     lipgloss.NewStyle().Foreground(text),
		SubtaskDone: lipgloss.NewStyle().Foreground(completedText).Strikethrough(true),

		FormTitle: lipgloss.NewStyle().Bold(true).Foreground(text).MarginBottom(1),
		FormArea:  lipgloss.NewStyle().Background(cardColor).Padding(1, 2),

		HelpKey:  lipgloss.NewStyle().Foreground(text).Bold(true),
		HelpDesc: lipgloss.NewStyle().Foreground(colorSubtle),
		HelpSep:  lipgloss.NewStyle().Foreground(colorSubtle),

		ConfirmPrompt: lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(completedColor).Padding(0, 1),
	}
}

func colorOr(v, def string) string {
	if v == "" || v == "none" {
		return def
	}
	return v
}

// priorityStyle maps the abstract severity token of a priority band onto a
// concrete style. Urgent and High share the error color on purpose.
func (s Styles) priorityStyle(c model.PriorityColor) lipgloss.Style {
	switch c {
	case model.ColorWarning:
		return s.PriorityLabel.Background(colorWarning)
	case model.ColorSuccess:
		return s.PriorityLabel.Background(colorSuccess)
	default:
		return s.PriorityLabel.Background(colorError)
	}
}

// iconGlyphs maps the host icon ids this card commonly stores onto
// terminal glyphs. Unknown ids fall back to a plain bullet.
var iconGlyphs = map[string]string{
	"mdi:checkbox-blank-outline": "▢",
	"mdi:checkbox-marked":        "✓",
	"mdi:hammer":                 "⚒",
	"mdi:cart":                   "🛒",
	"mdi:broom":                  "⌫",
}

func iconGlyph(icon string) string {
	if g, ok := iconGlyphs[icon]; ok {
		return g
	}
	return "•"
}
