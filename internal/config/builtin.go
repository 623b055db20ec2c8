package config

// DefaultTheme names the theme used when none is configured.
const DefaultTheme = "blue"

// ThemeColorKeys are the color names a theme may set, sorted.
var ThemeColorKeys = []string{
	"accent",
	"background",
	"border",
	"button",
	"button_active",
	"button_text",
	"close",
	"content",
	"content_text",
	"icon",
	"icon_selected",
	"label",
	"maximize",
	"menu",
	"menu_hover",
	"menu_text",
	"minimize",
	"muted",
	"panel",
	"selection",
	"tab",
	"tab_active",
	"taskbar",
	"title_text",
	"titlebar",
	"titlebar_active",
	"window",
}

// LauncherKinds are the window kinds a launcher can be configured for.
var LauncherKinds = []string{"terminal", "file_manager", "browser", "settings", "default"}

var blueTheme = map[string]string{
	"accent":          "#00ff00",
	"background":      "#2d3436",
	"border":          "#636e72",
	"button":          "#485460",
	"button_active":   "#0984e3",
	"button_text":     "#ffffff",
	"close":           "#ff4757",
	"content":         "#1e272e",
	"content_text":    "#dfe6e9",
	"icon":            "#0984e3",
	"icon_selected":   "#2d98f7",
	"label":           "#ffffff",
	"maximize":        "#fdcb6e",
	"menu":            "#2d3436",
	"menu_hover":      "#0984e3",
	"menu_text":       "#ffffff",
	"minimize":        "#00b894",
	"muted":           "#96a0a5",
	"panel":           "#374248",
	"selection":       "#09508c",
	"tab":             "#0984e3",
	"tab_active":      "#2d98f7",
	"taskbar":         "#1e272e",
	"title_text":      "#ffffff",
	"titlebar":        "#0984e3",
	"titlebar_active": "#2d98f7",
	"window":          "#dfe6e9",
}

// BuiltinThemes returns the builtin desktop themes. Users can override
// single colors of a builtin theme or define new themes in their config.
func BuiltinThemes() map[string]map[string]string {
	return map[string]map[string]string{
		"blue": withColors(nil),
		"dark": withColors(map[string]string{
			"background":      "#121212",
			"taskbar":         "#0a0a0a",
			"titlebar":        "#333333",
			"titlebar_active": "#4a4a4a",
			"tab":             "#333333",
			"tab_active":      "#4a4a4a",
			"window":          "#1e1e1e",
			"icon":            "#3a3a3a",
			"icon_selected":   "#5a5a5a",
			"menu":            "#1e1e1e",
			"menu_hover":      "#3a3a3a",
			"button_active":   "#4a4a4a",
			"content":         "#0f0f0f",
		}),
		"light": withColors(map[string]string{
			"background":      "#dfe6e9",
			"taskbar":         "#b2bec3",
			"button":          "#dfe6e9",
			"button_active":   "#74b9ff",
			"button_text":     "#2d3436",
			"label":           "#2d3436",
			"menu":            "#f5f6fa",
			"menu_text":       "#2d3436",
			"menu_hover":      "#74b9ff",
			"window":          "#ffffff",
			"content":         "#ffffff",
			"content_text":    "#2d3436",
			"accent":          "#0984e3",
			"panel":           "#dfe6e9",
			"selection":       "#a4d2ff",
			"muted":           "#636e72",
			"titlebar":        "#74b9ff",
			"titlebar_active": "#0984e3",
		}),
		"green": withColors(map[string]string{
			"background":      "#00563f",
			"titlebar":        "#00806a",
			"titlebar_active": "#00b894",
			"tab":             "#00806a",
			"tab_active":      "#00b894",
			"icon":            "#00806a",
			"icon_selected":   "#00b894",
			"menu_hover":      "#00806a",
			"button_active":   "#00806a",
		}),
		"purple": withColors(map[string]string{
			"background":      "#3c1361",
			"titlebar":        "#6c5ce7",
			"titlebar_active": "#a29bfe",
			"tab":             "#6c5ce7",
			"tab_active":      "#a29bfe",
			"icon":            "#6c5ce7",
			"icon_selected":   "#a29bfe",
			"menu_hover":      "#6c5ce7",
			"button_active":   "#6c5ce7",
		}),
	}
}

func withColors(overrides map[string]string) map[string]string {
	out := make(map[string]string, len(blueTheme))
	for k, v := range blueTheme {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// BuiltinLaunchers returns the default title and geometry per window kind.
func BuiltinLaunchers() map[string]Launcher {
	return map[string]Launcher{
		"terminal":     {Title: "Terminal", X: 100, Y: 100, Width: 600, Height: 400},
		"file_manager": {Title: "File Manager", X: 150, Y: 150, Width: 700, Height: 500},
		"browser":      {Title: "Web Browser", X: 200, Y: 100, Width: 800, Height: 600},
		"settings":     {Title: "Settings", X: 250, Y: 150, Width: 700, Height: 500},
		"default":      {Title: "Window", X: 120, Y: 120, Width: 500, Height: 350},
	}
}
