// Package config loads calculator settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← CALCMVC_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← TOML, YAML or JSON
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: file parsing (TOML, YAML, JSON) and environment variables
//   - watcher: file watching for theme hot reload
//
// # Settings
//
//	[input]
//	keyboard = "restricted"   # or "raw"
//
//	[logging]
//	level = "info"
//	file = ""                 # empty discards log output
//
//	[theme]
//	display = "#303030"
//	displayText = "#ffffff"
//	digit = "#4a4a4a"
//	digitText = "#ffffff"
//	operator = "#f59e0b"
//	operatorText = "#000000"
//	action = "#2563eb"
//	actionText = "#ffffff"
//	hint = "#808080"
//	pressedLighten = 0.35
//	watch = true
//
// # Basic Usage
//
//	cfg, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    return err
//	}
//	theme, err := cfg.Theme.ViewTheme()
package config
