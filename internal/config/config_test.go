package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_ValidAndHasBuiltinThemes(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	for _, name := range []string{"blue", "dark", "light", "green", "purple"} {
		colors, ok := cfg.Themes[name]
		if !ok {
			t.Fatalf("expected builtin theme %q", name)
		}
		if len(colors) != len(ThemeColorKeys) {
			t.Fatalf("theme %q has %d colors, want %d", name, len(colors), len(ThemeColorKeys))
		}
	}
	if got := cfg.ThemeNames(); strings.Join(got, ",") != "blue,dark,green,light,purple" {
		t.Fatalf("unexpected theme order %v", got)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Theme != DefaultTheme {
		t.Fatalf("expected theme %q, got %q", DefaultTheme, res.Config.Theme)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Screen.Width != 1024 || res.Config.Screen.Height != 768 {
		t.Fatalf("unexpected screen %+v", res.Config.Screen)
	}
}

func TestLoadFromPath_OverridesAndExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"frontend: terminal",
		"screen:",
		"  width: 1280",
		"window:",
		"  min_width: 250",
		"themes:",
		"  dark:",
		"    background: \"#000000\"",
		"launchers:",
		"  terminal:",
		"    width: 640",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Frontend != FrontendTerminal {
		t.Fatalf("expected terminal frontend, got %q", cfg.Frontend)
	}
	if cfg.Screen.Width != 1280 || cfg.Screen.Height != 768 {
		t.Fatalf("unexpected screen %+v", cfg.Screen)
	}
	if cfg.Window.MinWidth != 250 || cfg.Window.MinHeight != 150 {
		t.Fatalf("unexpected window limits %+v", cfg.Window)
	}
	if cfg.Themes["dark"]["background"] != "#000000" {
		t.Fatalf("expected dark background override, got %q", cfg.Themes["dark"]["background"])
	}
	if cfg.Themes["dark"]["taskbar"] != "#0a0a0a" {
		t.Fatalf("expected untouched builtin color, got %q", cfg.Themes["dark"]["taskbar"])
	}
	term := cfg.Launchers["terminal"]
	if term.Width != 640 || term.Height != 400 || term.Title != "Terminal" {
		t.Fatalf("unexpected terminal launcher %+v", term)
	}

	val, src, err := Explain(res, "screen.width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 1280 || src.Kind != SourceFile || src.Line != 3 {
		t.Fatalf("unexpected explain %v %+v", val, src)
	}

	val, src, err = Explain(res, "themes.dark.taskbar")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != "#0a0a0a" || src.Kind != SourceBuiltin || src.Name != "dark" {
		t.Fatalf("unexpected explain %v %+v", val, src)
	}

	_, src, err = Explain(res, "tick_rate")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %+v", src)
	}

	if _, _, err := Explain(res, "window.nope"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestLoadFromPath_NewThemeStartsFromDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "theme: night\nthemes:\n  night:\n    background: \"#101020\"\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	night := res.Config.Themes["night"]
	if night["background"] != "#101020" {
		t.Fatalf("unexpected background %q", night["background"])
	}
	if night["close"] != BuiltinThemes()[DefaultTheme]["close"] {
		t.Fatalf("expected new theme to inherit default colors, got %q", night["close"])
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceContext(t *testing.T) {
	tests := []struct {
		name string
		data string
		path string
	}{
		{"frontend", "frontend: wayland\n", "frontend"},
		{"unknown theme", "theme: nope\n", "theme"},
		{"bad color", "themes:\n  blue:\n    close: red\n", "themes.blue.close"},
		{"unknown color", "themes:\n  blue:\n    sparkle: \"#ffffff\"\n", "themes.blue.sparkle"},
		{"negative gap", "arrange:\n  gap: -1\n", "arrange.gap"},
		{"tick rate", "tick_rate: 0\n", "tick_rate"},
		{"min height", "window:\n  min_height: 40\n", "window.min_height"},
		{"unknown launcher", "launchers:\n  calculator:\n    width: 10\n", "launchers.calculator"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeFile(t, path, tt.data)

			_, err := LoadFromPath(path)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, verr.Path)
			}
			if tt.name == "frontend" && (verr.Source.Kind != SourceFile || verr.Source.Line != 1) {
				t.Fatalf("expected file source on line 1, got %+v", verr.Source)
			}
		})
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.d", "10-base.yaml"), "arrange:\n  gap: 5\n")
	writeFile(t, filepath.Join(dir, "config.d", "20-override.yaml"), "arrange:\n  gap: 6\n  cascade_step: 40\n")
	writeFile(t, filepath.Join(dir, "config.d", "notes.txt"), "ignored\n")
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "include: config.d\narrange:\n  gap: 7\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Arrange.Gap != 7 {
		t.Fatalf("expected main file to win, got gap %d", res.Config.Arrange.Gap)
	}
	if res.Config.Arrange.CascadeStep != 40 {
		t.Fatalf("expected cascade_step from include, got %d", res.Config.Arrange.CascadeStep)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files, got %v", res.Files)
	}
	if !strings.HasSuffix(res.Files[0], "10-base.yaml") || !strings.HasSuffix(res.Files[2], "config.yaml") {
		t.Fatalf("unexpected load order %v", res.Files)
	}

	_, src, err := Explain(res, "arrange.cascade_step")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.HasSuffix(src.File, "20-override.yaml") {
		t.Fatalf("expected include source, got %+v", src)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "missing.yaml") || !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("expected include context, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "include: b.yaml\n")
	writeFile(t, filepath.Join(dir, "b.yaml"), "include: a.yaml\n")

	_, err := LoadFromPath(filepath.Join(dir, "a.yaml"))
	if err == nil || !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestSaveTo_RoundTripKeepsOnlyChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deskshell", "config.yaml")
	cfg := DefaultConfig()
	cfg.Theme = "dark"
	cfg.Themes["dark"]["background"] = "#000000"
	l := cfg.Launchers["browser"]
	l.Width = 900
	cfg.Launchers["browser"] = l

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)
	if strings.Contains(text, "purple") || strings.Contains(text, "file_manager") {
		t.Fatalf("expected unchanged builtins to be omitted:\n%s", text)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if res.Config.Theme != "dark" || res.Config.Themes["dark"]["background"] != "#000000" {
		t.Fatalf("theme not saved: %q %v", res.Config.Theme, res.Config.Themes["dark"])
	}
	if res.Config.Launchers["browser"].Width != 900 {
		t.Fatalf("launcher not saved: %+v", res.Config.Launchers["browser"])
	}
}

func TestSaveTo_RejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickRate = 0
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.SaveTo(path); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected nothing written, stat err %v", err)
	}
}

func TestPaths_AllExplainable(t *testing.T) {
	res := &LoadResult{Config: DefaultConfig(), Sources: map[string]Source{}}
	for _, p := range Paths(res.Config) {
		if _, _, err := Explain(res, p); err != nil {
			t.Fatalf("explain %s: %v", p, err)
		}
	}
}
