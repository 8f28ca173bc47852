// Package fcitx talks to a running fcitx5 through its D-Bus controller
// interface and exposes its input methods as input sources.
package fcitx

import (
	"codeberg.org/miketth/inputswitch/pkg/inputswitch"
	"fmt"
	"github.com/godbus/dbus/v5"
	"strings"
)

const (
	serviceName         = "org.fcitx.Fcitx5"
	controllerPath      = "/controller"
	controllerInterface = "org.fcitx.Fcitx.Controller1"
)

type caller interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

type Host struct {
	conn *dbus.Conn
	obj  caller
}

// inputMethod mirrors the (ssssssb) entries of AvailableInputMethods.
type inputMethod struct {
	UniqueName   string
	Name         string
	NativeName   string
	Icon         string
	Label        string
	LanguageCode string
	Configurable bool
}

// groupEntry mirrors the (ss) entries of InputMethodGroupInfo.
type groupEntry struct {
	Name   string
	Layout string
}

func Connect() (*Host, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}

	return &Host{
		conn: conn,
		obj:  conn.Object(serviceName, controllerPath),
	}, nil
}

func (h *Host) Close() error {
	if h.conn == nil {
		return nil
	}
	return h.conn.Close()
}

func (h *Host) call(method string, args []interface{}, ret ...interface{}) error {
	call := h.obj.Call(controllerInterface+"."+method, 0, args...)
	if call.Err != nil {
		return fmt.Errorf("fcitx %s: %w", method, call.Err)
	}
	if len(ret) == 0 {
		return nil
	}
	if err := call.Store(ret...); err != nil {
		return fmt.Errorf("fcitx %s reply: %w", method, err)
	}
	return nil
}

func (h *Host) Sources() ([]inputswitch.HostSource, error) {
	var available []inputMethod
	if err := h.call("AvailableInputMethods", nil, &available); err != nil {
		return nil, err
	}

	var group string
	if err := h.call("CurrentInputMethodGroup", nil, &group); err != nil {
		return nil, err
	}

	var (
		defaultLayout string
		entries       []groupEntry
	)
	if err := h.call("InputMethodGroupInfo", []interface{}{group}, &defaultLayout, &entries); err != nil {
		return nil, err
	}

	return buildSources(available, entries), nil
}

// buildSources marks the input methods of the active group as selectable;
// fcitx ignores switches to methods outside of it.
func buildSources(available []inputMethod, group []groupEntry) []inputswitch.HostSource {
	enabled := make(map[string]bool, len(group))
	for _, e := range group {
		enabled[e.Name] = true
	}

	out := make([]inputswitch.HostSource, 0, len(available))
	for _, im := range available {
		out = append(out, inputswitch.HostSource{
			InputSource: inputswitch.InputSource{
				ID:   im.UniqueName,
				Name: displayName(im),
				Icon: im.Icon,
			},
			Category:      inputswitch.CategoryKeyboard,
			SelectCapable: enabled[im.UniqueName],
			Handle:        im.UniqueName,
		})
	}
	return out
}

func displayName(im inputMethod) string {
	switch {
	case im.Name != "":
		return im.Name
	case im.NativeName != "":
		return im.NativeName
	}
	return strings.TrimPrefix(im.UniqueName, "keyboard-")
}

func (h *Host) Current() (inputswitch.HostSource, error) {
	var name string
	if err := h.call("CurrentInputMethod", nil, &name); err != nil {
		return inputswitch.HostSource{}, err
	}

	return inputswitch.HostSource{
		InputSource:   inputswitch.InputSource{ID: name, Name: name},
		Category:      inputswitch.CategoryKeyboard,
		SelectCapable: name != "",
		Handle:        name,
	}, nil
}

func (h *Host) Select(source inputswitch.HostSource) error {
	name, _ := source.Handle.(string)
	if name == "" {
		name = source.ID
	}
	return h.call("SetCurrentIM", []interface{}{name})
}
