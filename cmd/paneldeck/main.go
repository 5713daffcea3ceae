package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"paneldeck/internal/config"
	"paneldeck/internal/dashboard"
	"paneldeck/internal/events"
	"paneldeck/internal/telemetry"
	"paneldeck/internal/ui"
)

type Globals struct {
	Config   string `type:"path" help:"Config file (default ~/.config/paneldeck/config.yaml)."`
	Manifest string `type:"path" help:"Workspace manifest; overrides the configured one."`
	LogFile  string `name:"log-file" type:"path" help:"Write the debug log to this file."`
	Verbose  int    `short:"v" type:"counter" help:"Log verbosity (repeat for more)."`
}

type cli struct {
	Globals

	Run      runCmd      `cmd:"" default:"1" help:"Open the dashboard."`
	Validate validateCmd `cmd:"" help:"Check a manifest and exit."`
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("paneldeck"),
		kong.Description("Terminal dashboard of tabbed panels."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&c.Globals)
	ctx.FatalIfErrorf(err)
}

type runCmd struct{}

func (r *runCmd) Run(g *Globals) error {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return err
	}
	if g.Manifest != "" {
		cfg.Manifest = g.Manifest
	}
	if g.LogFile != "" {
		cfg.Log.File = g.LogFile
	}
	if g.Verbose > 0 {
		cfg.Log.Verbosity = g.Verbose
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus(events.WithLogger(logger.WithName("events")))
	tp, err := telemetry.NewProvider(ctx)
	if err != nil {
		logger.Error(err, "tracing disabled")
	} else if tp != nil {
		bus.Subscribe(events.NewTraceListener(tp))
		defer func() {
			if err := telemetry.Shutdown(context.Background(), tp); err != nil {
				logger.Error(err, "trace shutdown")
			}
		}()
	}

	for {
		reload, err := session(ctx, cfg, bus, logger)
		if err != nil {
			return err
		}
		if !reload {
			return nil
		}
		logger.Info("reloading")
	}
}

// session runs the dashboard once. It reports whether the user asked for a
// reload. The manifest and saved settings are read again every time.
func session(ctx context.Context, cfg config.Config, bus *events.Bus, logger logr.Logger) (bool, error) {
	m, err := config.LoadManifest(cfg.Manifest)
	if err != nil {
		return false, err
	}
	store, err := m.Store()
	if err != nil {
		return false, err
	}
	initial, err := m.InitialSettings()
	if err != nil {
		return false, err
	}
	file := config.SettingsFile{Path: cfg.Settings.Path}
	settings, err := file.Load(initial)
	if err != nil {
		logger.Error(err, "saved settings ignored", "path", file.Path)
	}

	notices := make([]ui.Notice, len(m.Notifications))
	for i, n := range m.Notifications {
		notices[i] = ui.Notice{Title: n.Title, Body: n.Body}
	}

	title := m.Name
	if title == "" {
		title = "paneldeck"
	}
	model, err := ui.New(ui.Options{
		Title:    title,
		Store:    store,
		Settings: settings,
		Notices:  notices,
		Account:  ui.Account{Name: m.Account.Name, Email: m.Account.Email},
		Sink:     file,
		Session: dashboard.SessionFunc(func(context.Context) error {
			logger.Info("signed out", "account", m.Account.Email)
			return nil
		}),
		Bus:           bus,
		Logger:        logger,
		TimerInterval: cfg.Timer.Interval,
		Mouse:         cfg.UI.Mouse,
		Context:       ctx,
	})
	if err != nil {
		return false, err
	}
	defer model.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if _, err := tea.NewProgram(model.Model(), opts...).Run(); err != nil {
		return false, fmt.Errorf("paneldeck: %w", err)
	}
	return model.ReloadRequested(), nil
}

// newLogger logs to cfg.File through the standard logger, or nowhere: the
// terminal belongs to the dashboard.
func newLogger(cfg config.LogConfig) (logr.Logger, func(), error) {
	if cfg.File == "" {
		return logr.Discard(), func() {}, nil
	}
	f, err := tea.LogToFile(cfg.File, "paneldeck")
	if err != nil {
		return logr.Discard(), nil, fmt.Errorf("paneldeck: open log: %w", err)
	}
	stdr.SetVerbosity(cfg.Verbosity)
	return stdr.New(log.Default()), func() { f.Close() }, nil
}

type validateCmd struct {
	Path string `arg:"" optional:"" type:"path" help:"Manifest to check (default: the configured one)."`
}

func (v *validateCmd) Run(g *Globals) error {
	path := v.Path
	if path == "" {
		path = g.Manifest
	}
	if path == "" {
		cfg, err := config.Load(g.Config)
		if err != nil {
			return err
		}
		path = cfg.Manifest
	}
	m, err := config.LoadManifest(path)
	if err != nil {
		return err
	}
	if _, err := m.Store(); err != nil {
		return err
	}
	if _, err := m.InitialSettings(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s: ok, %d tabs\n", m.Source, len(m.Tabs))
	return nil
}
