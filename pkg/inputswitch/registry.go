package inputswitch

import (
	"fmt"
	"go.uber.org/zap"
	"sync"
)

// Selectable reports whether a host source may be offered and switched to.
// Non-keyboard and select-incapable sources fail or are ignored by hosts.
func Selectable(s HostSource) bool {
	return s.Category == CategoryKeyboard && s.SelectCapable
}

// Registry caches the host's selectable input sources. The cache is only
// rebuilt when a lookup misses.
type Registry struct {
	host InputMethodHost
	log  *zap.SugaredLogger

	lock    sync.Mutex
	sources []InputSource
	handles map[string]HostSource
}

func NewRegistry(host InputMethodHost, log *zap.SugaredLogger) *Registry {
	return &Registry{
		host:    host,
		log:     log,
		handles: make(map[string]HostSource),
	}
}

func (r *Registry) Refresh() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.refresh()
}

func (r *Registry) refresh() error {
	hostSources, err := r.host.Sources()
	if err != nil {
		return fmt.Errorf("list host input sources: %w", err)
	}

	sources := make([]InputSource, 0, len(hostSources))
	handles := make(map[string]HostSource, len(hostSources))
	for _, hs := range hostSources {
		if !Selectable(hs) {
			continue
		}
		if _, dup := handles[hs.ID]; dup {
			r.log.Debugw("duplicate input source id", "id", hs.ID)
			continue
		}
		handles[hs.ID] = hs
		sources = append(sources, hs.InputSource)
	}

	r.sources = sources
	r.handles = handles
	r.log.Debugw("refreshed input sources", "count", len(sources))
	return nil
}

func (r *Registry) List() ([]InputSource, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if len(r.sources) == 0 {
		if err := r.refresh(); err != nil {
			return nil, err
		}
	}

	out := make([]InputSource, len(r.sources))
	copy(out, r.sources)
	return out, nil
}

// Lookup resolves id against the cache, refreshing it once on a miss.
func (r *Registry) Lookup(id string) (InputSource, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	hs, ok := r.handle(id)
	return hs.InputSource, ok
}

func (r *Registry) handle(id string) (HostSource, bool) {
	if hs, ok := r.handles[id]; ok {
		return hs, true
	}

	if err := r.refresh(); err != nil {
		r.log.Warnw("refresh input sources", "error", err)
		return HostSource{}, false
	}

	hs, ok := r.handles[id]
	return hs, ok
}

// Current returns the host's active source. A source missing from the cache
// is built from the host's answer without refreshing.
func (r *Registry) Current() (InputSource, error) {
	hs, err := r.host.Current()
	if err != nil {
		return InputSource{}, fmt.Errorf("query current input source: %w", err)
	}
	if hs.ID == "" {
		return InputSource{}, ErrNoCurrentSource
	}

	r.lock.Lock()
	cached, ok := r.handles[hs.ID]
	r.lock.Unlock()
	if ok {
		return cached.InputSource, nil
	}

	return hs.InputSource, nil
}

func (r *Registry) Select(id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	hs, ok := r.handle(id)
	if !ok {
		return fmt.Errorf("select %q: %w", id, ErrSourceNotFound)
	}

	if err := r.host.Select(hs); err != nil {
		return fmt.Errorf("select %q: %w", id, err)
	}

	return nil
}
