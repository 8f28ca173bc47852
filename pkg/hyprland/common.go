package hyprland

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
)

var ErrNotRunning = errors.New("hyprland might not be running")

func connect(sock socketType) (net.Conn, error) {
	socketPath, err := getSocketPath(sock)
	if err != nil {
		return nil, fmt.Errorf("get socket path: %w", err)
	}

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	return conn, nil
}

type socketType int

const (
	Hyperctl socketType = iota
	Socket2
)

func getSocketPath(sock socketType) (string, error) {
	signature := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if signature == "" {
		return "", fmt.Errorf("HYPRLAND_INSTANCE_SIGNATURE is not set, %w", ErrNotRunning)
	}

	dir := instanceDir(signature)
	switch sock {
	case Hyperctl:
		return filepath.Join(dir, ".socket.sock"), nil
	case Socket2:
		return filepath.Join(dir, ".socket2.sock"), nil
	}

	return "", fmt.Errorf("unknown socket type: %d", sock)
}

// instanceDir prefers $XDG_RUNTIME_DIR/hypr, used since Hyprland 0.40, and
// falls back to the old /tmp/hypr location.
func instanceDir(signature string) string {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		dir := filepath.Join(runtimeDir, "hypr", signature)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	return filepath.Join("/tmp/hypr", signature)
}
