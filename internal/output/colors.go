package output

import "github.com/charmbracelet/lipgloss"

// BranchColors defines the palette used for branch names
var BranchColors = map[string]lipgloss.Color{
	"current": lipgloss.Color("#4dca7d"),
	"preview": lipgloss.Color("#9f83e4"),
	"remote":  lipgloss.Color("#4cCBF1"),
	"warn":    lipgloss.Color("3"),
	"error":   lipgloss.Color("1"),
}
