// Package yamlfile stores the configuration in a hand-editable YAML file.
package yamlfile

import (
	"errors"
	"fmt"
	"github.com/goccy/go-yaml"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type document struct {
	Notifications *bool             `yaml:"notifications,omitempty"`
	Apps          map[string]string `yaml:"apps"`
}

// ConfigStore writes the whole file on every change and re-reads it when
// its modification time moves, so edits from other processes are picked up.
type ConfigStore struct {
	path    string
	lock    sync.Mutex
	doc     document
	modTime time.Time
}

func NewConfigStore(path string) (*ConfigStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	store := &ConfigStore{
		path: path,
		doc:  document{Apps: make(map[string]string)},
	}

	if err := store.reload(); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	return store, nil
}

func (s *ConfigStore) reload() error {
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	if info.ModTime().Equal(s.modTime) {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	if doc.Apps == nil {
		doc.Apps = make(map[string]string)
	}

	s.doc = doc
	s.modTime = info.ModTime()
	return nil
}

func (d document) clone() document {
	out := document{Apps: make(map[string]string, len(d.Apps))}
	if d.Notifications != nil {
		enabled := *d.Notifications
		out.Notifications = &enabled
	}
	for app, source := range d.Apps {
		out.Apps[app] = source
	}
	return out
}

func (s *ConfigStore) save(doc document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	s.modTime = info.ModTime()

	return nil
}

func (s *ConfigStore) update(fn func(doc *document)) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.reload(); err != nil {
		return err
	}

	// the in-memory document only changes once the file does
	doc := s.doc.clone()
	fn(&doc)
	if err := s.save(doc); err != nil {
		return err
	}

	s.doc = doc
	return nil
}

func (s *ConfigStore) GetInputSource(app string) (string, bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.reload(); err != nil {
		return "", false, err
	}

	source, ok := s.doc.Apps[app]
	return source, ok, nil
}

func (s *ConfigStore) SetInputSource(app string, source string) error {
	return s.update(func(doc *document) {
		doc.Apps[app] = source
	})
}

func (s *ConfigStore) RemoveApp(app string) error {
	return s.update(func(doc *document) {
		delete(doc.Apps, app)
	})
}

func (s *ConfigStore) ListApps() (map[string]string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.reload(); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(s.doc.Apps))
	for app, source := range s.doc.Apps {
		out[app] = source
	}
	return out, nil
}

func (s *ConfigStore) NotificationsEnabled() (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.reload(); err != nil {
		return false, err
	}

	if s.doc.Notifications == nil {
		return true, nil
	}
	return *s.doc.Notifications, nil
}

func (s *ConfigStore) SetNotificationsEnabled(enabled bool) error {
	return s.update(func(doc *document) {
		doc.Notifications = &enabled
	})
}
