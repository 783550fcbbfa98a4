package output

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Style renders console text, coloring only when the writer is a terminal
type Style struct {
	color bool
}

// NewStyle returns a Style for w. Colors are disabled for non-terminals and when NO_COLOR is set.
func NewStyle(w io.Writer) *Style {
	return &Style{color: IsTerminal(w) && os.Getenv("NO_COLOR") == ""}
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Decorate prefixes warnings and errors the way the console shows them
func (s *Style) Decorate(level slog.Level, msg string) string {
	switch {
	case level >= slog.LevelError:
		return s.render("❌ "+msg, BranchColors["error"])
	case level >= slog.LevelWarn:
		return s.render("⚠️  "+msg, BranchColors["warn"])
	default:
		return msg
	}
}

// Branch renders a branch name for listings; the current branch is marked with an asterisk
func (s *Style) Branch(name string, current, remoteOnly bool) string {
	switch {
	case current:
		return s.render("* "+name, BranchColors["current"])
	case remoteOnly:
		return "  " + s.render(name, BranchColors["remote"])
	default:
		return "  " + name
	}
}

// Highlight renders text in the preview color
func (s *Style) Highlight(text string) string {
	return s.render(text, BranchColors["preview"])
}

func (s *Style) render(text string, color lipgloss.Color) string {
	if !s.color {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
