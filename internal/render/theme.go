package render

import (
	"fmt"
	"sort"

	"github.com/1broseidon/deskshell/internal/content"
	"github.com/1broseidon/deskshell/internal/draw"
)

// Theme is the full set of colors a frame is painted with.
type Theme struct {
	Background     draw.Color
	Icon           draw.Color
	IconSelected   draw.Color
	Label          draw.Color
	Window         draw.Color
	Border         draw.Color
	TitleBar       draw.Color
	TitleBarActive draw.Color
	TitleText      draw.Color
	Close          draw.Color
	Maximize       draw.Color
	Minimize       draw.Color
	Tab            draw.Color
	TabActive      draw.Color
	Taskbar        draw.Color
	Button         draw.Color
	ButtonActive   draw.Color
	ButtonText     draw.Color
	Menu           draw.Color
	MenuText       draw.Color
	MenuHover      draw.Color
	Content        draw.Color
	ContentText    draw.Color
	Muted          draw.Color
	Accent         draw.Color
	Selection      draw.Color
	Panel          draw.Color
}

func (t *Theme) fields() map[string]*draw.Color {
	return map[string]*draw.Color{
		"background":      &t.Background,
		"icon":            &t.Icon,
		"icon_selected":   &t.IconSelected,
		"label":           &t.Label,
		"window":          &t.Window,
		"border":          &t.Border,
		"titlebar":        &t.TitleBar,
		"titlebar_active": &t.TitleBarActive,
		"title_text":      &t.TitleText,
		"close":           &t.Close,
		"maximize":        &t.Maximize,
		"minimize":        &t.Minimize,
		"tab":             &t.Tab,
		"tab_active":      &t.TabActive,
		"taskbar":         &t.Taskbar,
		"button":          &t.Button,
		"button_active":   &t.ButtonActive,
		"button_text":     &t.ButtonText,
		"menu":            &t.Menu,
		"menu_text":       &t.MenuText,
		"menu_hover":      &t.MenuHover,
		"content":         &t.Content,
		"content_text":    &t.ContentText,
		"muted":           &t.Muted,
		"accent":          &t.Accent,
		"selection":       &t.Selection,
		"panel":           &t.Panel,
	}
}

// ColorKeys lists the names ParseTheme accepts, sorted.
func ColorKeys() []string {
	var t Theme
	keys := make([]string, 0, 27)
	for k := range t.fields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultTheme is the blue desktop.
func DefaultTheme() Theme {
	return Theme{
		Background:     draw.RGB(45, 52, 54),
		Icon:           draw.RGB(9, 132, 227),
		IconSelected:   draw.RGB(45, 152, 247),
		Label:          draw.RGB(255, 255, 255),
		Window:         draw.RGB(223, 230, 233),
		Border:         draw.RGB(99, 110, 114),
		TitleBar:       draw.RGB(9, 132, 227),
		TitleBarActive: draw.RGB(45, 152, 247),
		TitleText:      draw.RGB(255, 255, 255),
		Close:          draw.RGB(255, 71, 87),
		Maximize:       draw.RGB(253, 203, 110),
		Minimize:       draw.RGB(0, 184, 148),
		Tab:            draw.RGB(9, 132, 227),
		TabActive:      draw.RGB(45, 152, 247),
		Taskbar:        draw.RGB(30, 39, 46),
		Button:         draw.RGB(72, 84, 96),
		ButtonActive:   draw.RGB(9, 132, 227),
		ButtonText:     draw.RGB(255, 255, 255),
		Menu:           draw.RGB(45, 52, 54),
		MenuText:       draw.RGB(255, 255, 255),
		MenuHover:      draw.RGB(9, 132, 227),
		Content:        draw.RGB(30, 39, 46),
		ContentText:    draw.RGB(223, 230, 233),
		Muted:          draw.RGB(150, 160, 165),
		Accent:         draw.RGB(0, 255, 0),
		Selection:      draw.RGB(9, 80, 140),
		Panel:          draw.RGB(55, 66, 72),
	}
}

// ParseTheme overlays colors, keyed by ColorKeys names in "#rrggbb" form, on
// the default theme.
func ParseTheme(colors map[string]string) (Theme, error) {
	t := DefaultTheme()
	fields := t.fields()
	for key, value := range colors {
		dst, ok := fields[key]
		if !ok {
			return Theme{}, fmt.Errorf("unknown theme color %q", key)
		}
		c, err := draw.ParseColor(value)
		if err != nil {
			return Theme{}, fmt.Errorf("theme color %s: %w", key, err)
		}
		*dst = c
	}
	return t, nil
}

// ParseThemes converts every named color map.
func ParseThemes(themes map[string]map[string]string) (map[string]Theme, error) {
	out := make(map[string]Theme, len(themes))
	for name, colors := range themes {
		t, err := ParseTheme(colors)
		if err != nil {
			return nil, fmt.Errorf("theme %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

// Palette is the subset of t that window contents draw with.
func (t Theme) Palette() content.Palette {
	return content.Palette{
		Background: t.Content,
		Text:       t.ContentText,
		Muted:      t.Muted,
		Accent:     t.Accent,
		Selection:  t.Selection,
		Panel:      t.Panel,
	}
}
