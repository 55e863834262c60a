package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pleimann/navpad/internal/action"
	"github.com/pleimann/navpad/internal/config"
	"github.com/pleimann/navpad/internal/feedback"
	"github.com/pleimann/navpad/internal/gesture"
	"github.com/pleimann/navpad/internal/hid"
	"github.com/pleimann/navpad/internal/navbar"
	"github.com/pleimann/navpad/internal/pty"
	"github.com/pleimann/navpad/internal/touch"
)

var errTUIExited = errors.New("TUI exited")

// App owns the input sources and the navigation bar. Device IDs, the touch
// panel, the TUI command and the key delay are fixed at startup; the rest
// of the config is applied again on every reload.
type App struct {
	config     *config.Config
	log        *logrus.Logger
	watcher    *config.Watcher
	loop       *gesture.Loop
	hidDevice  *hid.Device
	touch      *touch.Source
	ptyManager *pty.Manager
	keyWriter  *pty.Writer
	mapper     *action.Mapper
	executor   *action.Executor
	bar        *navbar.Bar
	pad        *feedback.Pad
	power      *feedback.PowerHint

	// pollInterval is read by readHID outside the loop
	pollInterval atomic.Int64
}

func newApp(configPath string, cfg *config.Config, log *logrus.Logger) (*App, error) {
	app := &App{
		config: cfg,
		log:    log,
		loop:   gesture.NewLoop(256),
	}
	app.pollInterval.Store(int64(cfg.Device.PollInterval()))

	// The pad doubles as the feedback sink. An unset interface keeps the
	// feedback layer in log-only mode.
	var reports feedback.ReportWriter
	if cfg.Device.VendorID != 0 {
		dev, err := hid.NewDevice(cfg.Device.VendorID, cfg.Device.ProductID, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open HID device: %w", err)
		}
		app.hidDevice = dev
		reports = dev

		if info, _ := hid.FindDevice(cfg.Device.VendorID, cfg.Device.ProductID); info != nil {
			log.WithField("device", info.String()).Info("pad connected")
		}
	}

	if cfg.Touch.Path != "" {
		app.touch = touch.NewSource(cfg.Touch.Path, log)
	}

	var keys action.KeyWriter
	if cfg.TUI.Command != "" {
		mgr, err := pty.NewManager(cfg.TUI.Command, cfg.TUI.Args, cfg.TUI.WorkingDir, log)
		if err != nil {
			app.closeDevice()
			return nil, fmt.Errorf("failed to create PTY manager: %w", err)
		}
		app.ptyManager = mgr
		app.keyWriter = pty.NewWriter(mgr, time.Duration(cfg.TUI.KeyDelayMs)*time.Millisecond, log)
		keys = app.keyWriter
	}

	app.mapper = action.NewMapper(cfg)
	app.executor = action.NewExecutor(keys, app.mapper, &action.ShellRunner{Dir: cfg.TUI.WorkingDir, Log: log}, log)

	app.pad = feedback.NewPad(reports, feedback.DurationsFromConfig(cfg.Feedback), log)
	app.power = feedback.NewPowerHint(cfg.Feedback.PowerBoostPath, log)

	svc := gesture.Services{
		Launcher:  app.executor,
		Feedback:  app.pad,
		Announcer: feedback.NewAnnouncer(log),
		Power:     app.power,
	}
	app.bar = navbar.New(cfg, app.loop, svc, app.onGesture, log)

	watcher, err := config.NewWatcher(configPath, log)
	if err != nil {
		app.closeDevice()
		return nil, fmt.Errorf("failed to watch config: %w", err)
	}
	app.watcher = watcher

	return app, nil
}

// reload applies a new config. It runs on the loop goroutine.
func (a *App) reload(cfg *config.Config) {
	a.mapper.Reload(cfg)
	a.bar.Reload(cfg)
	a.pad.SetDurations(feedback.DurationsFromConfig(cfg.Feedback))
	a.power.SetPath(cfg.Feedback.PowerBoostPath)
	a.pollInterval.Store(int64(cfg.Device.PollInterval()))

	if cfg.Device.VendorID != a.config.Device.VendorID || cfg.Device.ProductID != a.config.Device.ProductID ||
		cfg.TUI.Command != a.config.TUI.Command || cfg.Touch.Path != a.config.Touch.Path {
		a.log.Warn("restart to apply the new device and TUI settings")
	}
}

func (a *App) onGesture(g gesture.Gesture) {
	a.log.WithFields(logrus.Fields{
		"gesture": g.Key(),
		"action":  g.Action,
	}).Debug("gesture detected")
}

// Run starts every input source and blocks until ctx is canceled, a
// termination signal arrives or a source fails
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.ptyManager != nil {
		if err := a.ptyManager.Start(ctx); err != nil {
			a.closeDevice()
			return fmt.Errorf("failed to start PTY: %w", err)
		}
	}

	a.log.WithField("slots", len(a.bar.Buttons())).Info("navigation bar running")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.loop.Run(ctx) })

	if a.keyWriter != nil {
		g.Go(func() error { return a.keyWriter.Run(ctx) })
	}

	if a.hidDevice != nil {
		g.Go(func() error { return a.readHID(ctx) })
	}

	if a.touch != nil {
		tracker := touch.NewTracker(a.config.Touch.Rects, func(button string, ev gesture.PointerEvent) {
			a.loop.Post(func() {
				if err := a.bar.HandleNamed(button, ev); err != nil {
					a.log.WithError(err).Debug("dropping touch event")
				}
			})
		})
		g.Go(func() error { return a.touch.Run(ctx, tracker) })
	}

	a.watcher.OnReload(func(cfg *config.Config) {
		a.loop.Post(func() { a.reload(cfg) })
	})
	g.Go(func() error { return a.watcher.Run(ctx) })

	g.Go(func() error {
		notifySnapshot(ctx, func() { a.loop.Post(a.bar.LogSnapshot) })
		return nil
	})

	if a.ptyManager != nil {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return nil
			case <-a.ptyManager.Done():
				return errTUIExited
			}
		})
	}

	err := g.Wait()
	a.shutdown()

	if errors.Is(err, context.Canceled) || errors.Is(err, errTUIExited) {
		return nil
	}
	return err
}

// readHID reads pad reports and hands them to the loop. A lost pad drops
// every gesture in flight and is waited for until it comes back.
func (a *App) readHID(ctx context.Context) error {
	for {
		err := a.hidDevice.ReadEvents(ctx, func(ev hid.Event) {
			slot, pe := ev.Slot, ev.PointerEvent()
			a.loop.Post(func() {
				if err := a.bar.Handle(slot, pe); err != nil {
					a.log.WithError(err).Debug("dropping pointer event")
				}
			})
		})
		if ctx.Err() != nil {
			return ctx.Err()
		}

		a.log.WithError(err).Warn("lost HID device, waiting for it to come back")
		a.loop.Post(a.bar.Reset)

		if err := a.hidDevice.WaitForDevice(ctx, time.Duration(a.pollInterval.Load())); err != nil {
			return err
		}
	}
}

func (a *App) shutdown() {
	a.log.Info("shutting down")
	// The loop has stopped, so the bar is safe to touch from here
	a.bar.Reset()
	if a.ptyManager != nil {
		a.ptyManager.Stop()
	}
	a.closeDevice()
}

func (a *App) closeDevice() {
	if a.hidDevice != nil {
		a.hidDevice.Close()
	}
}
