// Package setup builds the components selected by the settings. It is
// shared by the daemon and inputswitchctl.
package setup

import (
	"codeberg.org/miketth/inputswitch/pkg/configstore/memory"
	"codeberg.org/miketth/inputswitch/pkg/configstore/sqlite"
	"codeberg.org/miketth/inputswitch/pkg/configstore/yamlfile"
	"codeberg.org/miketth/inputswitch/pkg/fcitx"
	"codeberg.org/miketth/inputswitch/pkg/hyprland"
	"codeberg.org/miketth/inputswitch/pkg/inputswitch"
	"codeberg.org/miketth/inputswitch/pkg/settings"
	"codeberg.org/miketth/inputswitch/pkg/xkblayouts"
	"fmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"io"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func NewLogger(debug bool) (*zap.SugaredLogger, error) {
	loggerConfig := zap.NewDevelopmentConfig()

	loggerConfig.OutputPaths = []string{"stdout"}
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger.Sugar(), nil
}

func OpenStore(s settings.Settings, log *zap.SugaredLogger) (inputswitch.ConfigStore, io.Closer, error) {
	if s.Store == settings.StoreMemory {
		return memory.NewConfigStore(), nopCloser{}, nil
	}

	path, err := s.ResolvedStorePath()
	if err != nil {
		return nil, nil, err
	}

	switch s.Store {
	case settings.StoreYAML:
		store, err := yamlfile.NewConfigStore(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open yaml store: %w", err)
		}
		return store, nopCloser{}, nil
	case settings.StoreSqlite:
		store, err := sqlite.NewConfigStore(path, log.Named("sqlite"))
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, store, nil
	}

	return nil, nil, fmt.Errorf("unknown store %q", s.Store)
}

// OpenHost connects to the input method backend named by s.Backend.
func OpenHost(s settings.Settings) (inputswitch.InputMethodHost, io.Closer, error) {
	switch s.Backend {
	case settings.BackendXkb:
		layouts, err := xkblayouts.ParseLayouts(s.EvdevXMLPath)
		if err != nil {
			return nil, nil, fmt.Errorf("parse layouts: %w", err)
		}

		hyprctl, err := hyprland.NewHyprctl()
		if err != nil {
			return nil, nil, fmt.Errorf("connect hyprctl: %w", err)
		}

		return hyprland.NewXkbHost(hyprctl, layouts, s.Keyboard), nopCloser{}, nil
	case settings.BackendFcitx:
		host, err := fcitx.Connect()
		if err != nil {
			return nil, nil, fmt.Errorf("connect fcitx: %w", err)
		}
		return host, host, nil
	}

	return nil, nil, fmt.Errorf("unknown backend %q", s.Backend)
}
