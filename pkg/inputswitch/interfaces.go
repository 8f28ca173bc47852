package inputswitch

import (
	"errors"
	"time"
)

var (
	ErrSourceNotFound  = errors.New("input source not found")
	ErrNoCurrentSource = errors.New("no current input source")
)

type InputSource struct {
	ID   string
	Name string
	// Icon is an icon URI or icon name, empty if the host has none.
	Icon string
}

const CategoryKeyboard = "keyboard"

// HostSource is an input source as reported by the host, before the
// registry filters it.
type HostSource struct {
	InputSource
	Category      string
	SelectCapable bool

	// Handle is backend specific and handed back to InputMethodHost.Select.
	Handle any
}

type InputMethodHost interface {
	Sources() ([]HostSource, error)
	Current() (HostSource, error)
	Select(source HostSource) error
}

// Activation is a raw "application became active" notification. AppID is
// empty when the host could not resolve the application.
type Activation struct {
	AppID string
	Name  string
}

type FocusListener interface {
	Frontmost() (Activation, error)
	NextActivation() (Activation, error)
	Close() error
}

type FocusEvent struct {
	AppID string
	Name  string
	Time  time.Time
}

type ConfigStore interface {
	GetInputSource(app string) (string, bool, error)
	SetInputSource(app string, source string) error
	RemoveApp(app string) error
	ListApps() (map[string]string, error)
	NotificationsEnabled() (bool, error)
	SetNotificationsEnabled(enabled bool) error
}

type NotificationKind int

const (
	Switched NotificationKind = iota
	Restored
)

func (k NotificationKind) String() string {
	switch k {
	case Switched:
		return "switched"
	case Restored:
		return "restored"
	}
	return "unknown"
}

type Notification struct {
	Kind    NotificationKind
	AppID   string
	Source  InputSource
	Message string
}

// NotificationSink must not block the caller.
type NotificationSink interface {
	NotifySwitch(n Notification)
}
