package memory

import "sync"

type ConfigStore struct {
	lock          sync.RWMutex
	apps          map[string]string
	notifications bool
}

func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		apps:          make(map[string]string),
		notifications: true,
	}
}

func (s *ConfigStore) GetInputSource(app string) (string, bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	source, ok := s.apps[app]
	return source, ok, nil
}

func (s *ConfigStore) SetInputSource(app string, source string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.apps[app] = source
	return nil
}

func (s *ConfigStore) RemoveApp(app string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.apps, app)
	return nil
}

func (s *ConfigStore) ListApps() (map[string]string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	out := make(map[string]string, len(s.apps))
	for app, source := range s.apps {
		out[app] = source
	}
	return out, nil
}

func (s *ConfigStore) NotificationsEnabled() (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.notifications, nil
}

func (s *ConfigStore) SetNotificationsEnabled(enabled bool) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.notifications = enabled
	return nil
}
