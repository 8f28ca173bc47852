package hyprland

import (
	"bufio"
	"codeberg.org/miketth/inputswitch/pkg/inputswitch"
	"fmt"
	"net"
	"strings"
)

// EventClient listens on hyprland's event socket (socket2) and reports
// window focus changes. The window class is used as the application id.
type EventClient struct {
	conn    net.Conn
	reader  *bufio.Reader
	hyprctl *Hyprctl
}

func Connect(hyprctl *Hyprctl) (*EventClient, error) {
	conn, err := connect(Socket2)
	if err != nil {
		return nil, err
	}

	return &EventClient{conn: conn, reader: bufio.NewReader(conn), hyprctl: hyprctl}, nil
}

func (c *EventClient) Close() error {
	return c.conn.Close()
}

func (c *EventClient) ReadLine() (string, error) {
	str, err := c.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read from hypr socket: %w", err)
	}
	return strings.TrimSuffix(str, "\n"), nil
}

func (c *EventClient) NextActivation() (inputswitch.Activation, error) {
	for {
		line, err := c.ReadLine()
		if err != nil {
			return inputswitch.Activation{}, err
		}

		act, ok := parseActivation(line)
		if ok {
			return act, nil
		}
	}
}

func (c *EventClient) Frontmost() (inputswitch.Activation, error) {
	class, title, err := c.hyprctl.ActiveWindow()
	if err != nil {
		return inputswitch.Activation{}, fmt.Errorf("get active window: %w", err)
	}

	return inputswitch.Activation{AppID: class, Name: title}, nil
}

// parseActivation handles "activewindow>>CLASS,TITLE". Titles may contain
// commas, classes don't.
func parseActivation(line string) (inputswitch.Activation, bool) {
	evType, data, found := strings.Cut(line, ">>")
	if !found || evType != "activewindow" {
		return inputswitch.Activation{}, false
	}

	class, title, _ := strings.Cut(data, ",")
	return inputswitch.Activation{AppID: class, Name: title}, true
}
