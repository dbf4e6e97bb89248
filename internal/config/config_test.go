package config

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dshills/calcmvc/internal/config/loader"
	"github.com/dshills/calcmvc/internal/renderer/core"
)

// memFS is an in-memory file system for testing.
type memFS struct {
	files map[string][]byte
}

func newMemFS(files map[string]string) *memFS {
	m := &memFS{files: make(map[string][]byte)}
	for path, content := range files {
		m.files[path] = []byte(content)
	}
	return m
}

func (m *memFS) Open(string) (fs.File, error) { return nil, fs.ErrNotExist }

func (m *memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *memFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return fileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type fileInfo struct{ name string }

func (f fileInfo) Name() string       { return f.name }
func (f fileInfo) Size() int64        { return 0 }
func (f fileInfo) Mode() fs.FileMode  { return 0o644 }
func (f fileInfo) ModTime() time.Time { return time.Time{} }
func (f fileInfo) IsDir() bool        { return false }
func (f fileInfo) Sys() any           { return nil }

// staticEnv is an environment source with fixed values.
type staticEnv map[string]any

func (e staticEnv) Load() (map[string]any, error) { return loader.Clone(e), nil }

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Input.Keyboard != KeyboardRestricted {
		t.Errorf("keyboard = %q, want restricted", cfg.Input.Keyboard)
	}
	if !cfg.Theme.Watch {
		t.Error("theme watch should default to true")
	}
}

func TestDefaultThemeMatchesView(t *testing.T) {
	theme, err := Default().Theme.ViewTheme()
	if err != nil {
		t.Fatalf("ViewTheme() error = %v", err)
	}
	if !theme.Digit.Background.Equals(core.ColorFromRGB(0x4a, 0x4a, 0x4a)) {
		t.Errorf("digit background = %v", theme.Digit.Background)
	}
	if !theme.Operator.Foreground.Equals(core.ColorBlack) {
		t.Errorf("operator foreground = %v", theme.Operator.Foreground)
	}
	if theme.PressedLighten != 0.35 {
		t.Errorf("PressedLighten = %v", theme.PressedLighten)
	}
}

func TestLoadFormats(t *testing.T) {
	files := map[string]string{
		"/c.toml": `
[input]
keyboard = "raw"

[logging]
level = "debug"

[theme]
digit = "#112233"
pressedLighten = 0
`,
		"/c.yaml": `
input:
  keyboard: raw
logging:
  level: debug
theme:
  digit: "#112233"
  pressedLighten: 0
`,
		"/c.json": `{
  "input": {"keyboard": "raw"},
  "logging": {"level": "debug"},
  "theme": {"digit": "#112233", "pressedLighten": 0}
}`,
	}
	fsys := newMemFS(files)

	for path := range files {
		t.Run(path, func(t *testing.T) {
			cfg, err := Load(path, WithFS(fsys), WithEnv(nil))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Source != path {
				t.Errorf("Source = %q, want %q", cfg.Source, path)
			}
			if cfg.Input.Keyboard != KeyboardRaw {
				t.Errorf("keyboard = %q", cfg.Input.Keyboard)
			}
			if cfg.Logging.Level != "debug" {
				t.Errorf("level = %q", cfg.Logging.Level)
			}
			if cfg.Theme.Digit != "#112233" {
				t.Errorf("digit = %q", cfg.Theme.Digit)
			}
			if cfg.Theme.PressedLighten != 0 {
				t.Errorf("pressedLighten = %v", cfg.Theme.PressedLighten)
			}
			// Untouched settings keep their defaults.
			if cfg.Theme.Action != Default().Theme.Action {
				t.Errorf("action = %q", cfg.Theme.Action)
			}
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("/nowhere.toml", WithFS(newMemFS(nil)), WithEnv(nil))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
	if cfg.Input.Keyboard != KeyboardRestricted {
		t.Errorf("keyboard = %q", cfg.Input.Keyboard)
	}

	cfg, err = Load("", WithEnv(nil))
	if err != nil || cfg.Logging.Level != "info" {
		t.Errorf("Load(\"\") = %+v, %v", cfg, err)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	fsys := newMemFS(map[string]string{
		"/c.toml": "[input]\nkeyboard = \"raw\"\n[logging]\nlevel = \"warn\"\n",
	})
	env := staticEnv{
		"input":   map[string]any{"keyboard": "restricted"},
		"logging": map[string]any{"file": "/tmp/calc.log"},
	}

	cfg, err := Load("/c.toml", WithFS(fsys), WithEnv(env))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Input.Keyboard != KeyboardRestricted {
		t.Errorf("keyboard = %q, want env override", cfg.Input.Keyboard)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q, want file value", cfg.Logging.Level)
	}
	if cfg.Logging.File != "/tmp/calc.log" {
		t.Errorf("file = %q", cfg.Logging.File)
	}
}

func TestLoadRealEnvironment(t *testing.T) {
	t.Setenv("CALCMVC_KEYBOARD", "raw")
	t.Setenv("CALCMVC_THEME_PRESSED_LIGHTEN", "0.5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Input.Keyboard != KeyboardRaw {
		t.Errorf("keyboard = %q", cfg.Input.Keyboard)
	}
	if cfg.Theme.PressedLighten != 0.5 {
		t.Errorf("pressedLighten = %v", cfg.Theme.PressedLighten)
	}
}

func TestLoadErrors(t *testing.T) {
	fsys := newMemFS(map[string]string{
		"/bad.toml":    "[input\n",
		"/type.toml":   "[input]\nkeyboard = 3\n",
		"/enum.toml":   "[input]\nkeyboard = \"vim\"\n",
		"/color.toml":  "[theme]\ndigit = \"blue-ish\"\n",
		"/range.toml":  "[theme]\npressedLighten = 2.5\n",
		"/level.yaml":  "logging:\n  level: loud\n",
		"/bool.json":   `{"theme": {"watch": "sometimes"}}`,
		"/config.conf": "x",
	})

	tests := []struct {
		path string
		want error
		code ValidationErrorCode
	}{
		{"/type.toml", ErrTypeMismatch, ErrCodeTypeMismatch},
		{"/enum.toml", ErrValidationFailed, ErrCodeInvalidEnum},
		{"/color.toml", ErrValidationFailed, ErrCodeInvalidColor},
		{"/range.toml", ErrValidationFailed, ErrCodeOutOfRange},
		{"/level.yaml", ErrValidationFailed, ErrCodeInvalidEnum},
		{"/bool.json", ErrTypeMismatch, ErrCodeTypeMismatch},
	}
	for _, tt := range tests {
		_, err := Load(tt.path, WithFS(fsys), WithEnv(nil))
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: error = %v, want %v", tt.path, err, tt.want)
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected *ValidationError, got %T", tt.path, err)
			continue
		}
		if ve.Code != tt.code {
			t.Errorf("%s: code = %v, want %v", tt.path, ve.Code, tt.code)
		}
	}

	_, err := Load("/bad.toml", WithFS(fsys), WithEnv(nil))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Errorf("bad.toml: expected *ParseError, got %v", err)
	}

	_, err = Load("/config.conf", WithFS(fsys), WithEnv(nil))
	if !errors.Is(err, loader.ErrUnsupportedFormat) {
		t.Errorf("config.conf: error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestUnknownSettings(t *testing.T) {
	fsys := newMemFS(map[string]string{
		"/c.toml": "extra = 1\n[theme]\nsparkle = true\n",
	})
	cfg, err := Load("/c.toml", WithFS(fsys), WithEnv(nil))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if strings.Join(cfg.Unknown, ",") != "extra,theme.sparkle" {
		t.Errorf("Unknown = %v", cfg.Unknown)
	}
}

func TestToMapRoundTrip(t *testing.T) {
	want := Default()
	want.Input.Keyboard = KeyboardRaw
	want.Theme.Hint = "#010203"

	got, err := FromMap(want.ToMap())
	if err != nil {
		t.Fatalf("FromMap() error = %v", err)
	}
	if got.Input != want.Input || got.Logging != want.Logging || got.Theme != want.Theme {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
	if len(got.Unknown) != 0 {
		t.Errorf("Unknown = %v", got.Unknown)
	}
}

func TestJSON(t *testing.T) {
	cfg := Default()
	cfg.Logging.File = "/var/log/calc.log"

	out, err := cfg.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if !gjson.ValidBytes(out) {
		t.Fatalf("invalid JSON: %s", out)
	}

	checks := map[string]string{
		"input.keyboard":       "restricted",
		"logging.file":         "/var/log/calc.log",
		"theme.operator":       "#f59e0b",
		"theme.pressedLighten": "0.35",
		"theme.watch":          "true",
	}
	for path, want := range checks {
		if got := gjson.GetBytes(out, path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
	if !strings.Contains(string(out), "\n  ") {
		t.Errorf("expected indented output:\n%s", out)
	}
}

func TestViewThemeInvalidColor(t *testing.T) {
	tc := Default().Theme
	tc.Action = "#zzz"
	if _, err := tc.ViewTheme(); err == nil {
		t.Error("expected error for invalid color")
	}
}

func TestDefaultPath(t *testing.T) {
	p := DefaultPath()
	if p != "" && !strings.HasSuffix(p, "config.toml") {
		t.Errorf("DefaultPath() = %q", p)
	}
}
