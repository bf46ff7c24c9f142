// Package console reports progress lines for a podrun invocation.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level classifies a reported line.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarn
	LevelError
)

// String returns the tag printed in front of a line.
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "OK"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Reporter receives human-readable progress lines.
type Reporter interface {
	Infof(format string, args ...any)
	Successf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Palette holds the colors used for level tags.
type Palette struct {
	Info    string
	Success string
	Warning string
	Danger  string
}

// DefaultPalette matches the Nightfox UI theme.
var DefaultPalette = Palette{
	Info:    "#63cdcf",
	Success: "#81b29a",
	Warning: "#dbc074",
	Danger:  "#c94f6d",
}

// Printer writes one styled line per event.
type Printer struct {
	mu     sync.Mutex
	out    io.Writer
	styles map[Level]lipgloss.Style
}

var _ Reporter = (*Printer)(nil)

// NewPrinter builds a Printer writing to out. Colors are dropped automatically
// when out is not a terminal.
func NewPrinter(out io.Writer, palette Palette) *Printer {
	renderer := lipgloss.NewRenderer(out)
	tag := func(color string) lipgloss.Style {
		return renderer.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	}
	return &Printer{
		out: out,
		styles: map[Level]lipgloss.Style{
			LevelInfo:    tag(palette.Info),
			LevelSuccess: tag(palette.Success),
			LevelWarn:    tag(palette.Warning),
			LevelError:   tag(palette.Danger),
		},
	}
}

func (p *Printer) Infof(format string, args ...any)    { p.print(LevelInfo, format, args...) }
func (p *Printer) Successf(format string, args ...any) { p.print(LevelSuccess, format, args...) }
func (p *Printer) Warnf(format string, args ...any)    { p.print(LevelWarn, format, args...) }
func (p *Printer) Errorf(format string, args ...any)   { p.print(LevelError, format, args...) }

func (p *Printer) print(level Level, format string, args ...any) {
	p.Line(level, fmt.Sprintf(format, args...))
}

// Line writes an already formatted message.
func (p *Printer) Line(level Level, message string) {
	tag := padTag(level)
	name := level.String()
	styled := p.styles[level].Render(name) + tag[len(name):] + " " + indentBody(tag, message)

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.out, styled)
}

// FormatLine renders a plain, unstyled line. Multi-line messages are indented
// under the tag.
func FormatLine(level Level, message string) string {
	tag := padTag(level)
	return tag + " " + indentBody(tag, message)
}

func padTag(level Level) string {
	return fmt.Sprintf("%-5s", level.String())
}

func indentBody(tag, message string) string {
	message = strings.TrimRight(message, "\n")
	indent := strings.Repeat(" ", len(tag)+1)
	return strings.ReplaceAll(message, "\n", "\n"+indent)
}

// Discard drops every line.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Infof(string, ...any)    {}
func (discard) Successf(string, ...any) {}
func (discard) Warnf(string, ...any)    {}
func (discard) Errorf(string, ...any)   {}
