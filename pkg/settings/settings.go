// Package settings loads the daemon settings. Values come from the
// defaults, then the TOML config file, then INPUTSWITCH_* environment
// variables; command line flags are applied on top by the caller.
package settings

import (
	"errors"
	"fmt"
	"github.com/adrg/xdg"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"os"
	"path/filepath"
	"time"
)

const (
	appName   = "inputswitch"
	envPrefix = "INPUTSWITCH"
)

const (
	BackendXkb   = "xkb"
	BackendFcitx = "fcitx5"

	StoreSqlite = "sqlite"
	StoreYAML   = "yaml"
	StoreMemory = "memory"

	NotifierDesktop = "desktop"
	NotifierLog     = "log"
	NotifierNone    = "none"
)

type Settings struct {
	Debug bool `toml:"debug" envconfig:"DEBUG"`

	Backend      string `toml:"backend" envconfig:"BACKEND"`
	Keyboard     string `toml:"keyboard" envconfig:"KEYBOARD"`
	EvdevXMLPath string `toml:"evdev_xml_path" envconfig:"EVDEV_XML_PATH"`

	Store     string `toml:"store" envconfig:"STORE"`
	StorePath string `toml:"store_path" envconfig:"STORE_PATH"`

	Notifier       string  `toml:"notifier" envconfig:"NOTIFIER"`
	NotifyExpireMs int     `toml:"notify_expire_ms" envconfig:"NOTIFY_EXPIRE_MS"`
	NotifyRate     float64 `toml:"notify_rate" envconfig:"NOTIFY_RATE"`
	NotifyBurst    int     `toml:"notify_burst" envconfig:"NOTIFY_BURST"`

	QueueSize int `toml:"queue_size" envconfig:"QUEUE_SIZE"`
}

func Default() Settings {
	return Settings{
		Backend:        BackendXkb,
		EvdevXMLPath:   "/usr/share/X11/xkb/rules/evdev.xml",
		Store:          StoreSqlite,
		Notifier:       NotifierDesktop,
		NotifyExpireMs: 1000,
		NotifyRate:     4,
		NotifyBurst:    4,
		QueueSize:      32,
	}
}

// DefaultPath is $XDG_CONFIG_HOME/inputswitch/config.toml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// Load reads path, or the default location when path is empty. A missing
// file at the default location is not an error.
func Load(path string) (Settings, error) {
	s := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
	case err != nil:
		return Settings{}, fmt.Errorf("read settings: %w", err)
	default:
		if err := toml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if err := envconfig.Process(envPrefix, &s); err != nil {
		return Settings{}, fmt.Errorf("read environment: %w", err)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

func (s Settings) Validate() error {
	switch s.Backend {
	case BackendXkb, BackendFcitx:
	default:
		return fmt.Errorf("unknown backend %q", s.Backend)
	}

	switch s.Store {
	case StoreSqlite, StoreYAML, StoreMemory:
	default:
		return fmt.Errorf("unknown store %q", s.Store)
	}

	switch s.Notifier {
	case NotifierDesktop, NotifierLog, NotifierNone:
	default:
		return fmt.Errorf("unknown notifier %q", s.Notifier)
	}

	if s.QueueSize < 1 {
		return fmt.Errorf("queue_size must be positive, got %d", s.QueueSize)
	}

	return nil
}

func (s Settings) NotifyExpire() time.Duration {
	return time.Duration(s.NotifyExpireMs) * time.Millisecond
}

// ResolvedStorePath returns StorePath, or a file under $XDG_DATA_HOME
// named after the store type. The parent directory is created.
func (s Settings) ResolvedStorePath() (string, error) {
	if s.StorePath != "" {
		return s.StorePath, nil
	}

	name := "config.db"
	if s.Store == StoreYAML {
		name = "apps.yaml"
	}

	path, err := xdg.DataFile(filepath.Join(appName, name))
	if err != nil {
		return "", fmt.Errorf("get data file path: %w", err)
	}
	return path, nil
}
