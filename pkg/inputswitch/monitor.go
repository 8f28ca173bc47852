package inputswitch

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"sync"
	"time"
)

type FocusedApp struct {
	AppID string
	Name  string
}

// FocusMonitor turns host activations into FocusEvents. Unresolvable
// activations are dropped; repeated activations of the same app are not.
type FocusMonitor struct {
	listener FocusListener
	log      *zap.SugaredLogger
	now      func() time.Time

	events chan FocusEvent

	lock        sync.RWMutex
	current     FocusedApp
	hasCurrent  bool
	subscribers map[int]chan FocusedApp
	nextSubID   int

	closeOnce sync.Once
	closeErr  error
}

func NewFocusMonitor(listener FocusListener, queueSize int, log *zap.SugaredLogger) *FocusMonitor {
	if queueSize < 1 {
		queueSize = 1
	}

	m := &FocusMonitor{
		listener:    listener,
		log:         log,
		now:         time.Now,
		events:      make(chan FocusEvent, queueSize),
		subscribers: make(map[int]chan FocusedApp),
	}

	initial, err := listener.Frontmost()
	switch {
	case err != nil:
		log.Warnw("could not get frontmost application", "error", err)
	case initial.AppID == "":
		log.Debug("frontmost application has no identifier")
	default:
		m.events <- m.publish(initial)
	}

	return m
}

func (m *FocusMonitor) Events() <-chan FocusEvent {
	return m.events
}

func (m *FocusMonitor) Current() (FocusedApp, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.current, m.hasCurrent
}

// Subscribe returns a channel that receives the focused app whenever it
// changes. Slow subscribers miss updates rather than stall the monitor.
func (m *FocusMonitor) Subscribe() (<-chan FocusedApp, func()) {
	m.lock.Lock()
	defer m.lock.Unlock()

	id := m.nextSubID
	m.nextSubID++
	ch := make(chan FocusedApp, 1)
	m.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.lock.Lock()
			defer m.lock.Unlock()
			delete(m.subscribers, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Run forwards activations until ctx is done or the listener fails. The
// events channel is closed when Run returns.
func (m *FocusMonitor) Run(ctx context.Context) error {
	defer close(m.events)

	activations := make(chan Activation)
	errCh := make(chan error, 1)
	go func() {
		for {
			act, err := m.listener.NextActivation()
			if err != nil {
				errCh <- err
				return
			}
			select {
			case activations <- act:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return fmt.Errorf("read activation: %w", err)
		case act := <-activations:
			if act.AppID == "" {
				m.log.Debugw("dropping activation without app id", "name", act.Name)
				continue
			}
			ev := m.publish(act)
			select {
			case m.events <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (m *FocusMonitor) publish(act Activation) FocusEvent {
	app := FocusedApp{AppID: act.AppID, Name: act.Name}
	ev := FocusEvent{AppID: act.AppID, Name: act.Name, Time: m.now()}

	m.lock.Lock()
	changed := !m.hasCurrent || m.current != app
	m.current = app
	m.hasCurrent = true
	if changed {
		for _, ch := range m.subscribers {
			select {
			case ch <- app:
			default:
			}
		}
	}
	m.lock.Unlock()

	return ev
}

// Close releases the host subscription. Safe to call more than once.
func (m *FocusMonitor) Close() error {
	m.closeOnce.Do(func() {
		m.closeErr = m.listener.Close()
	})
	return m.closeErr
}
