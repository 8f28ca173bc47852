package inputswitch

import (
	"errors"
	"sync"
)

var errHostRejected = errors.New("host rejected selection")

type fakeHost struct {
	lock       sync.Mutex
	sources    []HostSource
	current    string
	rejects    map[string]bool
	listCalls    int
	currentCalls int
	selects      []string
	currentErr   error
}

func keyboard(id, name string) HostSource {
	return HostSource{
		InputSource:   InputSource{ID: id, Name: name},
		Category:      CategoryKeyboard,
		SelectCapable: true,
		Handle:        id,
	}
}

func newFakeHost(current string, sources ...HostSource) *fakeHost {
	return &fakeHost{
		sources: sources,
		current: current,
		rejects: make(map[string]bool),
	}
}

func (h *fakeHost) Sources() ([]HostSource, error) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.listCalls++
	out := make([]HostSource, len(h.sources))
	copy(out, h.sources)
	return out, nil
}

func (h *fakeHost) Current() (HostSource, error) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.currentCalls++
	if h.currentErr != nil {
		return HostSource{}, h.currentErr
	}
	for _, s := range h.sources {
		if s.ID == h.current {
			return s, nil
		}
	}
	return HostSource{InputSource: InputSource{ID: h.current, Name: "uncached " + h.current}}, nil
}

func (h *fakeHost) Select(source HostSource) error {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.selects = append(h.selects, source.ID)
	if h.rejects[source.ID] {
		return errHostRejected
	}
	h.current = source.ID
	return nil
}

func (h *fakeHost) add(s HostSource) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.sources = append(h.sources, s)
}

func (h *fakeHost) currentQueries() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.currentCalls
}

func (h *fakeHost) selected() []string {
	h.lock.Lock()
	defer h.lock.Unlock()
	out := make([]string, len(h.selects))
	copy(out, h.selects)
	return out
}

type recordingSink struct {
	lock          sync.Mutex
	notifications []Notification
}

func (s *recordingSink) NotifySwitch(n Notification) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.notifications = append(s.notifications, n)
}

func (s *recordingSink) messages() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	var out []string
	for _, n := range s.notifications {
		out = append(out, n.Message)
	}
	return out
}

type brokenStore struct {
	ConfigStore
}

func (brokenStore) GetInputSource(string) (string, bool, error) {
	return "", false, errors.New("database is locked")
}

func (brokenStore) NotificationsEnabled() (bool, error) {
	return false, errors.New("database is locked")
}

type fakeListener struct {
	frontmost    Activation
	frontmostErr error
	activations  chan Activation
	closed       chan struct{}
	closeCalls   int
	lock         sync.Mutex
}

var errListenerClosed = errors.New("listener closed")

func newFakeListener(frontmost Activation) *fakeListener {
	return &fakeListener{
		frontmost:   frontmost,
		activations: make(chan Activation),
		closed:      make(chan struct{}),
	}
}

func (l *fakeListener) Frontmost() (Activation, error) {
	return l.frontmost, l.frontmostErr
}

func (l *fakeListener) NextActivation() (Activation, error) {
	select {
	case act := <-l.activations:
		return act, nil
	case <-l.closed:
		return Activation{}, errListenerClosed
	}
}

func (l *fakeListener) Close() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.closeCalls++
	if l.closeCalls == 1 {
		close(l.closed)
	}
	return nil
}
