package picker

import "github.com/charmbracelet/lipgloss"

// Theme defines all colors used by the picker.
type Theme struct {
	Primary        lipgloss.Color // title, cursor
	Secondary      lipgloss.Color // highlighted row text
	Error          lipgloss.Color // error status
	Warning        lipgloss.Color // refreshing indicator
	Success        lipgloss.Color // selected sessions, editor tag
	Text           lipgloss.Color // primary text
	TextMuted      lipgloss.Color // headers, hints, deselected sessions
	BackgroundElem lipgloss.Color // highlighted row background
	Border         lipgloss.Color // section rules
}

// DarkTheme returns the default dark theme.
func DarkTheme() Theme {
	return Theme{
		Primary:        lipgloss.Color("#fab283"),
		Secondary:      lipgloss.Color("#5c9cf5"),
		Error:          lipgloss.Color("#e06c75"),
		Warning:        lipgloss.Color("#f5a742"),
		Success:        lipgloss.Color("#7fd88f"),
		Text:           lipgloss.Color("#eeeeee"),
		TextMuted:      lipgloss.Color("#808080"),
		BackgroundElem: lipgloss.Color("#1e1e1e"),
		Border:         lipgloss.Color("#484848"),
	}
}

// LightTheme returns a theme for bright terminal backgrounds.
func LightTheme() Theme {
	return Theme{
		Primary:        lipgloss.Color("#b35c00"),
		Secondary:      lipgloss.Color("#0550ae"),
		Error:          lipgloss.Color("#cf222e"),
		Warning:        lipgloss.Color("#bf8700"),
		Success:        lipgloss.Color("#116329"),
		Text:           lipgloss.Color("#1f2328"),
		TextMuted:      lipgloss.Color("#656d76"),
		BackgroundElem: lipgloss.Color("#f6f8fa"),
		Border:         lipgloss.Color("#d0d7de"),
	}
}

// ThemeByName returns a theme by name. Defaults to dark.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	default:
		return DarkTheme()
	}
}

// styles holds the lipgloss styles derived from a Theme.
type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	rule   lipgloss.Style
	cursor lipgloss.Style
	on     lipgloss.Style
	off    lipgloss.Style
	editor lipgloss.Style
	err    lipgloss.Style
	busy   lipgloss.Style
	text   lipgloss.Style
	dim    lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		header: lipgloss.NewStyle().Bold(true).Foreground(t.TextMuted),
		rule:   lipgloss.NewStyle().Foreground(t.Border),
		cursor: lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).Background(t.BackgroundElem),
		on:     lipgloss.NewStyle().Foreground(t.Success),
		off:    lipgloss.NewStyle().Foreground(t.TextMuted),
		editor: lipgloss.NewStyle().Foreground(t.Success),
		err:    lipgloss.NewStyle().Foreground(t.Error),
		busy:   lipgloss.NewStyle().Foreground(t.Warning),
		text:   lipgloss.NewStyle().Foreground(t.Text),
		dim:    lipgloss.NewStyle().Foreground(t.TextMuted),
	}
}
