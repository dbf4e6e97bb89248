// Package app wires the calculator together: configuration, logging, the
// display surface, and the model, view and controller. It owns the
// application lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/dshills/calcmvc/internal/config"
	"github.com/dshills/calcmvc/internal/config/watcher"
	"github.com/dshills/calcmvc/internal/controller"
	"github.com/dshills/calcmvc/internal/model"
	"github.com/dshills/calcmvc/internal/renderer/backend"
	"github.com/dshills/calcmvc/internal/view"
)

// Options configures the application. Empty override fields leave the
// configured value alone.
type Options struct {
	// ConfigPath is the configuration file. Empty uses defaults and
	// environment overrides only.
	ConfigPath string

	// LogFile overrides logging.file.
	LogFile string

	// LogLevel overrides logging.level.
	LogLevel string

	// Keyboard overrides input.keyboard.
	Keyboard string

	// Backend is the display surface. Nil creates a tcell terminal.
	Backend backend.Backend

	// LogOutput replaces the log file when set.
	LogOutput io.Writer

	// LoadOptions are passed to config.Load.
	LoadOptions []config.LoadOption
}

// Application is the central coordinator for the calculator components.
type Application struct {
	opts Options

	config    *config.Config
	logger    *Logger
	logCloser io.Closer
	session   string
	metrics   *Metrics

	backend    backend.Backend
	model      *model.Model
	view       *view.View
	controller *controller.Controller
	watcher    *watcher.Watcher

	running atomic.Bool
}

// New creates an Application and initializes every component. Nothing is
// drawn until Run.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		metrics: NewMetrics(),
	}

	if err := app.bootstrap(); err != nil {
		app.closeLog()
		return nil, err
	}

	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	cfg, err := LoadConfig(app.opts)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.config = cfg

	// 2. Logging
	if err := app.initLogger(); err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	for _, path := range cfg.Unknown {
		app.logger.Warn("unknown config setting %s", path)
	}

	// 3. Display surface
	if app.opts.Backend != nil {
		app.backend = app.opts.Backend
	} else {
		term, err := backend.NewTerminal()
		if err != nil {
			return &InitError{Component: "backend", Err: err}
		}
		app.backend = term
	}

	// 4. Model, view, controller
	theme, err := cfg.Theme.ViewTheme()
	if err != nil {
		return &InitError{Component: "theme", Err: err}
	}
	policy, err := controller.ParseKeyboardPolicy(cfg.Input.Keyboard)
	if err != nil {
		return &InitError{Component: "controller", Err: err}
	}

	app.model = model.New()
	app.view = view.New(app.backend, view.WithTheme(theme))
	app.controller = controller.New(app.model, app.view,
		controller.WithKeyboardPolicy(policy),
		controller.WithLogger(app.logger.WithComponent("controller")),
		controller.WithMetrics(app.metrics),
	)

	return nil
}

// LoadConfig loads the configuration named by opts and applies the
// command line overrides on top of it.
func LoadConfig(opts Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.LoadOptions...)
	if err != nil {
		return nil, err
	}
	if opts.LogFile != "" {
		cfg.Logging.File = opts.LogFile
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.Keyboard != "" {
		cfg.Input.Keyboard = opts.Keyboard
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (app *Application) initLogger() error {
	out := app.opts.LogOutput
	if out == nil {
		f, err := OpenLogFile(app.config.Logging.File)
		if err != nil {
			return err
		}
		out = f
		app.logCloser = f
	}

	logger, session := NewSessionLogger(LoggerConfig{
		Level:  ParseLogLevel(app.config.Logging.Level),
		Output: out,
		Prefix: "calcmvc",
	})
	app.logger = logger
	app.session = session
	return nil
}

// Run starts the theme watcher and runs the event loop until the user quits
// or ctx is cancelled. It shuts the application down before returning.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.logger.Info("starting {keyboard=%s, config=%q}", app.controller.KeyboardPolicy(), app.config.Source)

	if app.config.Theme.Watch && app.opts.ConfigPath != "" {
		if err := app.startWatcher(); err != nil {
			// Hot reload is optional
			app.logger.Warn("%v", NewComponentError("watcher", "start", err))
		}
	}

	runErr := app.controller.Run(ctx)
	if runErr != nil {
		runErr = NewComponentError("view", "run", runErr)
	}

	return errors.Join(runErr, app.Shutdown())
}

// Shutdown stops the watcher, logs the session summary and closes the log
// file. Safe to call more than once.
func (app *Application) Shutdown() error {
	var errs []error

	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			errs = append(errs, NewComponentError("watcher", "close", err))
		}
		app.watcher = nil
	}

	if app.logger != nil {
		app.logger.Info("stopped {%s}", app.metrics.Snapshot())
	}
	if err := app.closeLog(); err != nil {
		errs = append(errs, NewComponentError("logging", "close", err))
	}

	return errors.Join(errs...)
}

func (app *Application) closeLog() error {
	if app.logCloser == nil {
		return nil
	}
	err := app.logCloser.Close()
	app.logCloser = nil
	if app.logger != nil {
		app.logger.SetOutput(io.Discard)
	}
	return err
}

func (app *Application) startWatcher() error {
	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		app.logger.Warn("%v", NewComponentError("watcher", "", err))
	}))
	if err != nil {
		return err
	}
	if err := w.Watch(app.opts.ConfigPath); err != nil {
		_ = w.Close()
		return err
	}
	w.OnChange(app.reloadTheme)
	app.watcher = w
	return nil
}

// reloadTheme runs on the watcher goroutine. The new theme is handed to the
// event loop; an invalid file keeps the current theme.
func (app *Application) reloadTheme(ev watcher.Event) {
	log := app.logger.WithComponent("watcher")

	cfg, err := config.Load(app.opts.ConfigPath, app.opts.LoadOptions...)
	if err != nil {
		log.Warn("config reload failed {op=%s}: %v", ev.Op, err)
		return
	}
	theme, err := cfg.Theme.ViewTheme()
	if err != nil {
		log.Warn("theme reload failed: %v", err)
		return
	}

	app.view.Post(func() {
		app.view.ApplyTheme(theme)
	})
	app.metrics.RecordThemeReload()
	log.Info("theme reloaded {op=%s}", ev.Op)
}

// Config returns the effective configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Model returns the calculator model.
func (app *Application) Model() *model.Model {
	return app.model
}

// View returns the calculator view.
func (app *Application) View() *view.View {
	return app.view
}

// Controller returns the controller.
func (app *Application) Controller() *controller.Controller {
	return app.controller
}

// Metrics returns the interaction counters.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Session returns the id attached to every log line of this run.
func (app *Application) Session() string {
	return app.session
}

// IsRunning reports whether Run is in progress.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// String describes the application for logs.
func (app *Application) String() string {
	return fmt.Sprintf("calcmvc(session=%s, %s)", app.session, app.controller)
}
