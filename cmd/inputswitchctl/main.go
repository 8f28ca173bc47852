// Command inputswitchctl edits the app to input source mappings used by the
// inputswitch daemon.
package main

import (
	"codeberg.org/miketth/inputswitch/pkg/appinfo"
	"codeberg.org/miketth/inputswitch/pkg/inputswitch"
	"codeberg.org/miketth/inputswitch/pkg/settings"
	"codeberg.org/miketth/inputswitch/pkg/setup"
	"codeberg.org/miketth/inputswitch/pkg/xkblayouts"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"text/tabwriter"
)

var errUsage = errors.New("usage: inputswitchctl [flags] sources|current|list|set APP [SOURCE]|remove APP|notifications [on|off]")

type sourceLister interface {
	List() ([]inputswitch.InputSource, error)
	Lookup(id string) (inputswitch.InputSource, bool)
	Current() (inputswitch.InputSource, error)
}

type nameResolver interface {
	Name(app string) string
}

type ctl struct {
	store inputswitch.ConfigStore
	names nameResolver
	out   io.Writer

	// sources connects to the input method backend on first use
	sources func() (sourceLister, error)

	// checkID rejects malformed source ids before the backend is asked,
	// nil when the backend has no id syntax
	checkID func(id string) error
}

func main() {
	err := run()
	if err != nil {
		log.Fatalf("error: %+v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.toml")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := settings.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	logger, err := setup.NewLogger(cfg.Debug || *debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	store, storeCloser, err := setup.OpenStore(cfg, logger)
	if err != nil {
		return err
	}
	defer storeCloser.Close()

	var hostCloser io.Closer
	defer func() {
		if hostCloser != nil {
			hostCloser.Close()
		}
	}()

	c := &ctl{
		store: store,
		names: appinfo.NewCache(logger.Named("appinfo")),
		out:   os.Stdout,
		sources: func() (sourceLister, error) {
			host, closer, err := setup.OpenHost(cfg)
			if err != nil {
				return nil, err
			}
			hostCloser = closer
			return inputswitch.NewRegistry(host, logger.Named("registry")), nil
		},
	}

	if cfg.Backend == settings.BackendXkb {
		c.checkID = func(id string) error {
			_, err := xkblayouts.ParseID(id)
			return err
		}
	}

	return c.execute(flag.Args())
}

func (c *ctl) execute(args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch cmd, rest := args[0], args[1:]; {
	case cmd == "sources" && len(rest) == 0:
		return c.listSources()
	case cmd == "current" && len(rest) == 0:
		return c.current()
	case cmd == "list" && len(rest) == 0:
		return c.listApps()
	case cmd == "set" && (len(rest) == 1 || len(rest) == 2):
		return c.set(rest)
	case cmd == "remove" && len(rest) == 1:
		return c.store.RemoveApp(rest[0])
	case cmd == "notifications" && len(rest) <= 1:
		return c.notifications(rest)
	}

	return errUsage
}

func (c *ctl) listSources() error {
	sources, err := c.sources()
	if err != nil {
		return err
	}

	list, err := sources.List()
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%s\n", s.ID, s.Name)
	}
	return w.Flush()
}

func (c *ctl) current() error {
	sources, err := c.sources()
	if err != nil {
		return err
	}

	cur, err := sources.Current()
	if err != nil {
		return fmt.Errorf("get current source: %w", err)
	}

	_, err = fmt.Fprintf(c.out, "%s\t%s\n", cur.ID, cur.Name)
	return err
}

func (c *ctl) listApps() error {
	apps, err := c.store.ListApps()
	if err != nil {
		return fmt.Errorf("list apps: %w", err)
	}

	ids := make([]string, 0, len(apps))
	for app := range apps {
		ids = append(ids, app)
	}
	sort.Strings(ids)

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, app := range ids {
		fmt.Fprintf(w, "%s\t%s\t%s\n", app, c.names.Name(app), apps[app])
	}
	return w.Flush()
}

func (c *ctl) set(args []string) error {
	app := args[0]

	if len(args) == 2 && c.checkID != nil {
		if err := c.checkID(args[1]); err != nil {
			return fmt.Errorf("set %s: %w", app, err)
		}
	}

	sources, err := c.sources()
	if err != nil {
		return err
	}

	var source inputswitch.InputSource
	if len(args) == 2 {
		var ok bool
		source, ok = sources.Lookup(args[1])
		if !ok {
			return fmt.Errorf("set %s: %w: %s", app, inputswitch.ErrSourceNotFound, args[1])
		}
	} else {
		source, err = sources.Current()
		if err != nil {
			return fmt.Errorf("get current source: %w", err)
		}
	}

	if err := c.store.SetInputSource(app, source.ID); err != nil {
		return fmt.Errorf("set %s: %w", app, err)
	}

	_, err = fmt.Fprintf(c.out, "%s -> %s\n", app, source.Name)
	return err
}

func (c *ctl) notifications(args []string) error {
	if len(args) == 0 {
		enabled, err := c.store.NotificationsEnabled()
		if err != nil {
			return fmt.Errorf("read notification setting: %w", err)
		}
		_, err = fmt.Fprintln(c.out, onOff(enabled))
		return err
	}

	switch args[0] {
	case "on":
		return c.store.SetNotificationsEnabled(true)
	case "off":
		return c.store.SetNotificationsEnabled(false)
	}

	return errUsage
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
