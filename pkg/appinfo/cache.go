// Package appinfo resolves application ids (window classes) to the name and
// icon of their desktop entry, for display only.
package appinfo

import (
	"errors"
	"fmt"
	"github.com/adrg/xdg"
	"github.com/rkoesters/xdg/desktop"
	"go.uber.org/zap"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type Entry struct {
	ID   string
	Name string
	Icon string
	Path string

	// NoDisplay entries only answer lookups no shown entry claims.
	NoDisplay bool
}

// Cache is a read-through cache over the desktop entries in the XDG data
// directories. The entry index is built on first use and rebuilt once when
// an app is not found; unknown apps are remembered until Clear.
type Cache struct {
	dirs []string
	log  *zap.SugaredLogger

	lock    sync.Mutex
	index   map[string]Entry
	unknown map[string]bool
}

func NewCache(log *zap.SugaredLogger) *Cache {
	dirs := []string{filepath.Join(xdg.DataHome, "applications")}
	for _, dir := range xdg.DataDirs {
		dirs = append(dirs, filepath.Join(dir, "applications"))
	}
	return NewCacheWithDirs(dirs, log)
}

// NewCacheWithDirs searches dirs in order; earlier directories win.
func NewCacheWithDirs(dirs []string, log *zap.SugaredLogger) *Cache {
	return &Cache{
		dirs:    dirs,
		log:     log,
		unknown: make(map[string]bool),
	}
}

func (c *Cache) Lookup(app string) (Entry, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.unknown[app] {
		return Entry{}, false
	}

	if c.index == nil {
		c.rebuild()
	}
	if e, ok := c.find(app); ok {
		return e, true
	}

	c.rebuild()
	if e, ok := c.find(app); ok {
		return e, true
	}

	c.unknown[app] = true
	return Entry{}, false
}

// Name falls back to the app id itself.
func (c *Cache) Name(app string) string {
	if e, ok := c.Lookup(app); ok && e.Name != "" {
		return e.Name
	}
	return app
}

func (c *Cache) Icon(app string) string {
	e, _ := c.Lookup(app)
	return e.Icon
}

// Preload resolves apps in the background.
func (c *Cache) Preload(apps []string) {
	go func() {
		for _, app := range apps {
			c.Lookup(app)
		}
	}()
}

func (c *Cache) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.index = nil
	c.unknown = make(map[string]bool)
}

func (c *Cache) find(app string) (Entry, bool) {
	if e, ok := c.index[app]; ok {
		return e, true
	}
	e, ok := c.index[strings.ToLower(app)]
	return e, ok
}

func (c *Cache) rebuild() {
	index := make(map[string]Entry)

	for _, dir := range c.dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == dir {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(path, ".desktop") {
				return nil
			}

			rel, _ := filepath.Rel(dir, path)
			id := strings.TrimSuffix(strings.ReplaceAll(rel, string(filepath.Separator), "-"), ".desktop")

			e, wmClass, err := parseDesktopEntry(path)
			if err != nil {
				c.log.Debugw("skipping desktop entry", "path", path, "error", err)
				return nil
			}
			e.ID = id

			for _, key := range []string{id, strings.ToLower(id), strings.ToLower(wmClass)} {
				if key == "" {
					continue
				}
				if prev, taken := index[key]; !taken || (prev.NoDisplay && !e.NoDisplay) {
					index[key] = e
				}
			}
			return nil
		})
		if err != nil {
			c.log.Debugw("could not scan desktop entries", "dir", dir, "error", err)
		}
	}

	c.index = index
	c.log.Debugw("indexed desktop entries", "keys", len(index))
}

var errHidden = errors.New("entry is hidden")

// parseDesktopEntry returns the entry with its name localized for the
// current locale, and its StartupWMClass.
func parseDesktopEntry(path string) (Entry, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return Entry{}, "", fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	de, err := desktop.New(file)
	if err != nil {
		return Entry{}, "", fmt.Errorf("parse: %w", err)
	}
	if de.Hidden {
		return Entry{}, "", errHidden
	}

	return Entry{
		Name:      de.Name,
		Icon:      de.Icon,
		Path:      path,
		NoDisplay: de.NoDisplay,
	}, de.StartupWMClass, nil
}
