package notify

import (
	"codeberg.org/miketth/inputswitch/pkg/inputswitch"
	"context"
	"fmt"
	"github.com/godbus/dbus/v5"
	"sync"
	"time"
)

const (
	notificationsService = "org.freedesktop.Notifications"
	notificationsPath    = "/org/freedesktop/Notifications"
	notifyMethod         = notificationsService + ".Notify"
	appName              = "inputswitch"
)

type IconResolver interface {
	Icon(app string) string
}

type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Desktop shows notifications through the freedesktop notification
// service. Each notification replaces the previous one so switches don't
// pile up on screen.
type Desktop struct {
	conn   *dbus.Conn
	obj    caller
	icons  IconResolver
	expire time.Duration

	lock   sync.Mutex
	lastID uint32
}

func NewDesktop(expire time.Duration, icons IconResolver) (*Desktop, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}

	return &Desktop{
		conn:   conn,
		obj:    conn.Object(notificationsService, notificationsPath),
		icons:  icons,
		expire: expire,
	}, nil
}

func (d *Desktop) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}

func (d *Desktop) Show(ctx context.Context, n inputswitch.Notification) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	hints := map[string]dbus.Variant{
		"transient": dbus.MakeVariant(true),
		"urgency":   dbus.MakeVariant(byte(0)),
	}

	call := d.obj.CallWithContext(ctx, notifyMethod, 0,
		appName,
		d.lastID,
		d.icon(n),
		n.Message,
		"",
		[]string{},
		hints,
		int32(d.expire/time.Millisecond),
	)
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("notify reply: %w", err)
	}
	d.lastID = id

	return nil
}

func (d *Desktop) icon(n inputswitch.Notification) string {
	if n.Source.Icon != "" {
		return n.Source.Icon
	}
	if d.icons != nil {
		if icon := d.icons.Icon(n.AppID); icon != "" {
			return icon
		}
	}
	return "input-keyboard"
}
