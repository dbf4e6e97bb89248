package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/calcmvc/internal/config/loader"
	"github.com/dshills/calcmvc/internal/renderer/core"
	"github.com/dshills/calcmvc/internal/view"
)

// Keyboard policy names.
const (
	KeyboardRestricted = "restricted"
	KeyboardRaw        = "raw"
)

// Config is the effective calculator configuration.
type Config struct {
	Input   InputConfig
	Logging LoggingConfig
	Theme   ThemeConfig

	// Source is the file the config was read from, if any.
	Source string
	// Unknown lists setting paths that were present but not recognized.
	Unknown []string
}

// InputConfig controls keyboard handling.
type InputConfig struct {
	Keyboard string
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	Level string
	File  string
}

// ThemeConfig holds colors as hex strings.
type ThemeConfig struct {
	Display        string
	DisplayText    string
	Digit          string
	DigitText      string
	Operator       string
	OperatorText   string
	Action         string
	ActionText     string
	Hint           string
	PressedLighten float64
	// Watch reloads the theme when the config file changes.
	Watch bool
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Input: InputConfig{Keyboard: KeyboardRestricted},
		Logging: LoggingConfig{
			Level: "info",
		},
		Theme: ThemeConfig{
			Display:        "#303030",
			DisplayText:    "#ffffff",
			Digit:          "#4a4a4a",
			DigitText:      "#ffffff",
			Operator:       "#f59e0b",
			OperatorText:   "#000000",
			Action:         "#2563eb",
			ActionText:     "#ffffff",
			Hint:           "#808080",
			PressedLighten: 0.35,
			Watch:          true,
		},
	}
}

// setting binds a dotted path to a Config field.
type setting struct {
	path string
	get  func(*Config) any
	set  func(*Config, any) error
}

func stringSetting(path string, field func(*Config) *string) setting {
	return setting{
		path: path,
		get:  func(c *Config) any { return *field(c) },
		set: func(c *Config, v any) error {
			s, ok := v.(string)
			if !ok {
				return typeError(path, "string", v)
			}
			*field(c) = s
			return nil
		},
	}
}

func floatSetting(path string, field func(*Config) *float64) setting {
	return setting{
		path: path,
		get:  func(c *Config) any { return *field(c) },
		set: func(c *Config, v any) error {
			switch n := v.(type) {
			case float64:
				*field(c) = n
			case int64:
				*field(c) = float64(n)
			case int:
				*field(c) = float64(n)
			default:
				return typeError(path, "number", v)
			}
			return nil
		},
	}
}

func boolSetting(path string, field func(*Config) *bool) setting {
	return setting{
		path: path,
		get:  func(c *Config) any { return *field(c) },
		set: func(c *Config, v any) error {
			b, ok := v.(bool)
			if !ok {
				return typeError(path, "bool", v)
			}
			*field(c) = b
			return nil
		},
	}
}

// settings lists every recognized setting in output order.
var settings = []setting{
	stringSetting("input.keyboard", func(c *Config) *string { return &c.Input.Keyboard }),
	stringSetting("logging.level", func(c *Config) *string { return &c.Logging.Level }),
	stringSetting("logging.file", func(c *Config) *string { return &c.Logging.File }),
	stringSetting("theme.display", func(c *Config) *string { return &c.Theme.Display }),
	stringSetting("theme.displayText", func(c *Config) *string { return &c.Theme.DisplayText }),
	stringSetting("theme.digit", func(c *Config) *string { return &c.Theme.Digit }),
	stringSetting("theme.digitText", func(c *Config) *string { return &c.Theme.DigitText }),
	stringSetting("theme.operator", func(c *Config) *string { return &c.Theme.Operator }),
	stringSetting("theme.operatorText", func(c *Config) *string { return &c.Theme.OperatorText }),
	stringSetting("theme.action", func(c *Config) *string { return &c.Theme.Action }),
	stringSetting("theme.actionText", func(c *Config) *string { return &c.Theme.ActionText }),
	stringSetting("theme.hint", func(c *Config) *string { return &c.Theme.Hint }),
	floatSetting("theme.pressedLighten", func(c *Config) *float64 { return &c.Theme.PressedLighten }),
	boolSetting("theme.watch", func(c *Config) *bool { return &c.Theme.Watch }),
}

// ToMap returns the configuration as a nested map.
func (c *Config) ToMap() map[string]any {
	out := make(map[string]any)
	for _, s := range settings {
		section, key, _ := strings.Cut(s.path, ".")
		m, ok := out[section].(map[string]any)
		if !ok {
			m = make(map[string]any)
			out[section] = m
		}
		m[key] = s.get(c)
	}
	return out
}

// FromMap builds a Config from defaults overlaid with data.
func FromMap(data map[string]any) (*Config, error) {
	cfg := Default()
	known := make(map[string]bool, len(settings))

	for _, s := range settings {
		known[s.path] = true
		v, ok := loader.GetByPath(data, s.path)
		if !ok {
			continue
		}
		if err := s.set(cfg, v); err != nil {
			return nil, err
		}
	}

	cfg.Unknown = unknownPaths(data, "", known)
	return cfg, nil
}

func unknownPaths(data map[string]any, prefix string, known map[string]bool) []string {
	var out []string
	for k, v := range data {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok && prefix == "" {
			out = append(out, unknownPaths(nested, path, known)...)
			continue
		}
		if !known[path] {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// Validate checks enums, ranges and colors.
func (c *Config) Validate() error {
	var errs []error

	switch c.Input.Keyboard {
	case KeyboardRestricted, KeyboardRaw:
	default:
		errs = append(errs, &ValidationError{
			Path:    "input.keyboard",
			Message: "must be restricted or raw",
			Value:   c.Input.Keyboard,
			Code:    ErrCodeInvalidEnum,
		})
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{
			Path:    "logging.level",
			Message: "must be debug, info, warn or error",
			Value:   c.Logging.Level,
			Code:    ErrCodeInvalidEnum,
		})
	}

	if p := c.Theme.PressedLighten; p < 0 || p > 1 {
		errs = append(errs, &ValidationError{
			Path:    "theme.pressedLighten",
			Message: "must be between 0 and 1",
			Value:   p,
			Code:    ErrCodeOutOfRange,
		})
	}

	for _, s := range settings {
		if !isColorSetting(s.path) {
			continue
		}
		hex := s.get(c).(string)
		if _, err := core.ColorFromHex(hex); err != nil {
			errs = append(errs, &ValidationError{
				Path:    s.path,
				Message: "invalid color",
				Value:   hex,
				Code:    ErrCodeInvalidColor,
			})
		}
	}

	return errors.Join(errs...)
}

func isColorSetting(path string) bool {
	return strings.HasPrefix(path, "theme.") &&
		path != "theme.pressedLighten" &&
		path != "theme.watch"
}

// ViewTheme converts the hex colors into a view theme.
func (t ThemeConfig) ViewTheme() (view.Theme, error) {
	var firstErr error
	color := func(hex string) core.Color {
		c, err := core.ColorFromHex(hex)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return c
	}
	pair := func(bg, fg string) core.Style {
		return core.DefaultStyle().WithBackground(color(bg)).WithForeground(color(fg))
	}

	theme := view.Theme{
		Title:          core.DefaultStyle().Bold(),
		Display:        pair(t.Display, t.DisplayText).Bold(),
		Digit:          pair(t.Digit, t.DigitText),
		Operator:       pair(t.Operator, t.OperatorText),
		Action:         pair(t.Action, t.ActionText),
		Hint:           core.DefaultStyle().WithForeground(color(t.Hint)),
		PressedLighten: t.PressedLighten,
	}
	if firstErr != nil {
		return view.Theme{}, firstErr
	}
	return theme, nil
}

// JSON renders the configuration as indented JSON.
func (c *Config) JSON() ([]byte, error) {
	out := []byte("{}")
	for _, s := range settings {
		var err error
		out, err = sjson.SetBytes(out, s.path, s.get(c))
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", s.path, err)
		}
	}
	return pretty.Pretty(out), nil
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	fs  loader.FileSystem
	env loader.Loader
}

// WithFS reads config files from fs.
func WithFS(fs loader.FileSystem) LoadOption {
	return func(o *loadOptions) {
		o.fs = fs
	}
}

// WithEnv replaces the environment source. A nil loader disables overrides.
func WithEnv(l loader.Loader) LoadOption {
	return func(o *loadOptions) {
		o.env = l
	}
}

// Load reads path (if non-empty and present), applies environment overrides
// and validates the result. A missing file yields the defaults.
func Load(path string, opts ...LoadOption) (*Config, error) {
	o := loadOptions{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(loader.EnvPrefix),
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := Default().ToMap()
	source := ""

	if path != "" {
		l, err := loader.ForPath(o.fs, path)
		if err != nil {
			return nil, err
		}
		fileMap, err := l.Load()
		if err != nil {
			return nil, err
		}
		if fileMap != nil {
			source = path
			merged = loader.DeepMerge(merged, fileMap)
		}
	}

	if o.env != nil {
		envMap, err := o.env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, envMap)
	}

	cfg, err := FromMap(merged)
	if err != nil {
		return nil, err
	}
	cfg.Source = source

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns the per-user config file path, or "" when the user
// config directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "calcmvc", "config.toml")
}
