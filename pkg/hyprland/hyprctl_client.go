package hyprland

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrDeviceNotFound  = errors.New("device not found")
)

type Hyprctl struct{}

func NewHyprctl() (*Hyprctl, error) {
	if _, err := getSocketPath(Hyperctl); err != nil {
		return nil, err
	}
	return &Hyprctl{}, nil
}

func (c *Hyprctl) SwitchXkbLayout(keyboard string, idx int) error {
	resp, err := c.request(fmt.Sprintf("switchxkblayout %s %d", keyboard, idx), "")
	if err != nil {
		return err
	}

	out := strings.TrimSpace(string(resp))
	switch {
	case out == "ok":
		return nil
	case strings.HasPrefix(out, "layout idx out of range"):
		return fmt.Errorf("switch %s to %d: %w", keyboard, idx, ErrIndexOutOfRange)
	case strings.Contains(out, "device not found"):
		return fmt.Errorf("switch %s: %w", keyboard, ErrDeviceNotFound)
	}

	return fmt.Errorf("hyprctl: %s", out)
}

func (c *Hyprctl) Devices() ([]Keyboard, error) {
	resp, err := c.request("devices", "j")
	if err != nil {
		return nil, err
	}

	var devs devices
	if err := json.Unmarshal(resp, &devs); err != nil {
		return nil, fmt.Errorf("unmarshal devices: %w", err)
	}

	out := make([]Keyboard, 0, len(devs.Keyboards))
	for _, k := range devs.Keyboards {
		out = append(out, k.ToKeyboard())
	}

	return out, nil
}

// ActiveWindow returns the class and title of the focused window. Both are
// empty when no window has focus.
func (c *Hyprctl) ActiveWindow() (class string, title string, err error) {
	resp, err := c.request("activewindow", "j")
	if err != nil {
		return "", "", err
	}

	var w window
	if err := json.Unmarshal(resp, &w); err != nil {
		return "", "", fmt.Errorf("unmarshal active window: %w", err)
	}

	return w.Class, w.Title, nil
}

// request sends one command; hyprland closes the connection after replying.
func (c *Hyprctl) request(request string, flags string) ([]byte, error) {
	conn, err := connect(Hyperctl)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if _, err := fmt.Fprintf(conn, "%s/%s", flags, request); err != nil {
		return nil, fmt.Errorf("write to hyprctl socket: %w", err)
	}

	resp, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("read response from hyprctl socket: %w", err)
	}

	return resp, nil
}
