// Package theme holds the launcher color themes with a load-once cache.
package theme

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme 定义启动器的色彩和样式
// Theme defines launcher colors and styles
type Theme struct {
	Name string

	Primary lipgloss.Color
	Danger  lipgloss.Color
	Success lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	TextDim lipgloss.Color
	Border  lipgloss.Color

	// 预构建样式 / Pre-built styles
	TitleStyle     lipgloss.Style
	SelectedStyle  lipgloss.Style
	ItemStyle      lipgloss.Style
	SubtitleStyle  lipgloss.Style
	AccessoryStyle lipgloss.Style
	SectionStyle   lipgloss.Style
	ErrorStyle     lipgloss.Style
	DangerStyle    lipgloss.Style
	StatusStyle    lipgloss.Style
	InputStyle     lipgloss.Style
}

// Dark 暗色主题（默认）
// Dark is the default dark theme
func Dark() Theme {
	t := Theme{
		Name:    "dark",
		Primary: lipgloss.Color("#7C3AED"),
		Danger:  lipgloss.Color("#EF4444"),
		Success: lipgloss.Color("#10B981"),
		Muted:   lipgloss.Color("#6B7280"),
		Text:    lipgloss.Color("#E5E7EB"),
		TextDim: lipgloss.Color("#9CA3AF"),
		Border:  lipgloss.Color("#374151"),
	}
	return t.build()
}

// Light 亮色主题
// Light is the light theme
func Light() Theme {
	t := Theme{
		Name:    "light",
		Primary: lipgloss.Color("#6D28D9"),
		Danger:  lipgloss.Color("#DC2626"),
		Success: lipgloss.Color("#059669"),
		Muted:   lipgloss.Color("#9CA3AF"),
		Text:    lipgloss.Color("#111827"),
		TextDim: lipgloss.Color("#4B5563"),
		Border:  lipgloss.Color("#D1D5DB"),
	}
	return t.build()
}

func (t Theme) build() Theme {
	t.TitleStyle = lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	t.SelectedStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Primary).
		Bold(true)

	t.ItemStyle = lipgloss.NewStyle().
		Foreground(t.Text)

	t.SubtitleStyle = lipgloss.NewStyle().
		Foreground(t.TextDim)

	t.AccessoryStyle = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.SectionStyle = lipgloss.NewStyle().
		Foreground(t.Muted).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(t.Danger)

	t.DangerStyle = lipgloss.NewStyle().
		Foreground(t.Danger).
		Bold(true)

	t.StatusStyle = lipgloss.NewStyle().
		Foreground(t.TextDim)

	t.InputStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border)

	return t
}

var (
	cacheMu sync.Mutex
	cache   = map[string]Theme{}
)

// Load returns the named theme, caching the built styles. Unknown names fall
// back to dark.
func Load(name string) Theme {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if t, ok := cache[name]; ok {
		return t
	}
	var t Theme
	switch name {
	case "light":
		t = Light()
	default:
		t = Dark()
	}
	cache[name] = t
	return t
}
