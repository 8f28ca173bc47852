package main

import (
	"codeberg.org/miketth/inputswitch/pkg/appinfo"
	"codeberg.org/miketth/inputswitch/pkg/hyprland"
	"codeberg.org/miketth/inputswitch/pkg/inputswitch"
	"codeberg.org/miketth/inputswitch/pkg/notify"
	"codeberg.org/miketth/inputswitch/pkg/settings"
	"codeberg.org/miketth/inputswitch/pkg/setup"
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/coreos/go-systemd/v22/daemon"
	"go.uber.org/zap"
	"log"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"
)

func main() {
	err := run()
	if err != nil {
		log.Fatalf("error: %+v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.toml (default $XDG_CONFIG_HOME/inputswitch/config.toml)")
	evdevXmlPath := flag.String("evdev-xml-path", "", "path to evdev.xml")
	backend := flag.String("backend", "", "input method backend: xkb or fcitx5")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := settings.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if *evdevXmlPath != "" {
		cfg.EvdevXMLPath = *evdevXmlPath
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	cfg.Debug = cfg.Debug || *debug
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := setup.NewLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, storeCloser, err := setup.OpenStore(cfg, log)
	if err != nil {
		return err
	}
	defer storeCloser.Close()

	host, hostCloser, err := setup.OpenHost(cfg)
	if err != nil {
		return err
	}
	defer hostCloser.Close()

	hyprctl, err := hyprland.NewHyprctl()
	if err != nil {
		return fmt.Errorf("connect hyprctl: %w", err)
	}

	client, err := hyprland.Connect(hyprctl)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	apps := appinfo.NewCache(log.Named("appinfo"))
	preloadApps(store, apps, log)

	sink, runSink, closeSink, err := newSink(cfg, apps, log.Named("notify"))
	if err != nil {
		return err
	}
	defer closeSink()

	registry := inputswitch.NewRegistry(host, log.Named("registry"))
	if err := registry.Refresh(); err != nil {
		log.Warnw("could not list input sources", "error", err)
	}

	monitor := inputswitch.NewFocusMonitor(client, cfg.QueueSize, log.Named("monitor"))
	defer monitor.Close()

	coordinator := inputswitch.NewCoordinator(registry, store, sink, log.Named("coordinator"))

	log.Infow("started inputswitch", "backend", cfg.Backend, "store", cfg.Store)

	errChan := make(chan error, 4)
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		err := monitor.Run(ctx)
		if err != nil {
			errChan <- fmt.Errorf("monitor focus: %w", err)
		}
	}()

	go func() {
		defer wg.Done()
		err := coordinator.Run(ctx, monitor.Events())
		if err != nil {
			errChan <- fmt.Errorf("coordinate: %w", err)
		}
	}()

	go func() {
		defer wg.Done()
		err := runSink(ctx)
		if err != nil {
			errChan <- fmt.Errorf("notify: %w", err)
		}
	}()

	go func() {
		defer wg.Done()
		err := systemdNotifyLoop(ctx)
		if err != nil {
			errChan <- fmt.Errorf("systemd notify: %w", err)
		}
	}()

	err = <-errChan
	switch {
	case errors.Is(err, context.Canceled):
		log.Info("shutting down")
		stop()
		monitor.Close()
		wg.Wait()
		return nil
	case err != nil:
		return err
	}

	return nil
}

func newSink(cfg settings.Settings, apps *appinfo.Cache, log *zap.SugaredLogger) (inputswitch.NotificationSink, func(context.Context) error, func(), error) {
	waitForCancel := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}

	switch cfg.Notifier {
	case settings.NotifierNone:
		return notify.Discard{}, waitForCancel, func() {}, nil
	case settings.NotifierLog:
		d := notify.NewDispatcher(notify.NewLog(log), cfg.QueueSize, cfg.NotifyRate, cfg.NotifyBurst, log)
		return d, d.Run, func() {}, nil
	}

	desktop, err := notify.NewDesktop(cfg.NotifyExpire(), apps)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect notifications: %w", err)
	}
	d := notify.NewDispatcher(desktop, cfg.QueueSize, cfg.NotifyRate, cfg.NotifyBurst, log)
	return d, d.Run, func() { desktop.Close() }, nil
}

func preloadApps(store inputswitch.ConfigStore, apps *appinfo.Cache, log *zap.SugaredLogger) {
	mappings, err := store.ListApps()
	if err != nil {
		log.Warnw("could not list configured apps", "error", err)
		return
	}

	ids := make([]string, 0, len(mappings))
	for app := range mappings {
		ids = append(ids, app)
	}
	sort.Strings(ids)

	log.Infow("loaded app mappings", "count", len(ids))
	apps.Preload(ids)
}

func systemdNotifyLoop(ctx context.Context) error {
	// tell systemd that we're ready
	supported, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		return fmt.Errorf("notify systemd: %w", err)
	}
	if !supported {
		<-ctx.Done()
		return ctx.Err()
	}

	_, _ = daemon.SdNotify(false, "STATUS=Watching focus, switching input sources ⌨️")

	t, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		return fmt.Errorf("check watchdog: %w", err)
	}
	// if watchdog is not enabled, we don't need to notify it
	if t == 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	for {
		select {
		case <-ctx.Done():
			_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
			return ctx.Err()

		case <-time.After(t / 2):
			_, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			if err != nil {
				return fmt.Errorf("notify watchdog: %w", err)
			}
		}
	}
}
