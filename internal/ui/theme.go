package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/podrun/internal/console"
	"github.com/five82/podrun/internal/runpod"
)

// Theme defines colors and styles for the watch view and console output.
type Theme struct {
	Name string

	// Base colors
	Background string

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Status colors keyed by RunPod status
	StatusColors map[runpod.Status]string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		InfoText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)),

		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),

		statusColors: t.StatusColors,
		background:   t.Background,
		muted:        t.Muted,
	}
}

// Palette returns the level colors used by console.Printer.
func (t Theme) Palette() console.Palette {
	return console.Palette{
		Info:    t.Info,
		Success: t.Success,
		Warning: t.Warning,
		Danger:  t.Danger,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style
	Logo        lipgloss.Style

	statusColors map[runpod.Status]string
	background   string
	muted        string
}

// StatusStyle returns a badge style for the given status.
func (s Styles) StatusStyle(status runpod.Status) lipgloss.Style {
	color := s.statusColors[status]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// LevelStyle returns the tag style for a reported line.
func (s Styles) LevelStyle(level console.Level) lipgloss.Style {
	switch level {
	case console.LevelSuccess:
		return s.SuccessText
	case console.LevelWarn:
		return s.WarningText
	case console.LevelError:
		return s.DangerText
	default:
		return s.InfoText
	}
}

// Theme definitions

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Kanagawa": kanagawaTheme(),
	"Slate":    slateTheme(),
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return nightfoxTheme()
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func nightfoxTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name: "Nightfox",

		Background: "#131a24", // bg0

		Text:    "#cdcecf", // fg1
		Muted:   "#738091", // comment
		Faint:   "#71839b", // fg3
		Accent:  "#719cd6", // blue
		Success: "#81b29a", // green
		Warning: "#dbc074", // yellow
		Danger:  "#c94f6d", // red
		Info:    "#63cdcf", // cyan

		StatusColors: map[runpod.Status]string{
			runpod.StatusInQueue:    "#738091", // comment
			runpod.StatusInProgress: "#719cd6", // blue
			runpod.StatusCompleted:  "#81b29a", // green
			runpod.StatusFailed:     "#c94f6d", // red
			runpod.StatusCancelled:  "#f4a261", // orange
			runpod.StatusTimedOut:   "#dbc074", // yellow
		},
	}
}

func kanagawaTheme() Theme {
	// Kanagawa palette: https://github.com/rebelot/kanagawa.nvim
	return Theme{
		Name: "Kanagawa",

		Background: "#16161D", // sumiInk0

		Text:    "#DCD7BA", // fujiWhite
		Muted:   "#C8C093", // oldWhite
		Faint:   "#727169", // fujiGray
		Accent:  "#7E9CD8", // crystalBlue
		Success: "#98BB6C", // springGreen
		Warning: "#E6C384", // carpYellow
		Danger:  "#E46876", // waveRed
		Info:    "#7FB4CA", // springBlue

		StatusColors: map[runpod.Status]string{
			runpod.StatusInQueue:    "#727169", // fujiGray
			runpod.StatusInProgress: "#7E9CD8", // crystalBlue
			runpod.StatusCompleted:  "#98BB6C", // springGreen
			runpod.StatusFailed:     "#E46876", // waveRed
			runpod.StatusCancelled:  "#957FB8", // oniViolet
			runpod.StatusTimedOut:   "#E6C384", // carpYellow
		},
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name: "Slate",

		Background: "#020617", // slate-950

		Text:    "#f1f5f9", // slate-100
		Muted:   "#94a3b8", // slate-400
		Faint:   "#64748b", // slate-500
		Accent:  "#38bdf8", // sky-400
		Success: "#22c55e", // green-500
		Warning: "#f59e0b", // amber-500
		Danger:  "#ef4444", // red-500
		Info:    "#06b6d4", // cyan-500

		StatusColors: map[runpod.Status]string{
			runpod.StatusInQueue:    "#64748b", // slate-500
			runpod.StatusInProgress: "#0ea5e9", // sky-500
			runpod.StatusCompleted:  "#16a34a", // green-600
			runpod.StatusFailed:     "#dc2626", // red-600
			runpod.StatusCancelled:  "#f59e0b", // amber-500
			runpod.StatusTimedOut:   "#f59e0b", // amber-500
		},
	}
}
