package notify

import (
	"codeberg.org/miketth/inputswitch/pkg/inputswitch"
	"context"
	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"sync"
	"testing"
	"time"
)

type recordingBackend struct {
	lock  sync.Mutex
	shown []string
}

func (b *recordingBackend) Show(_ context.Context, n inputswitch.Notification) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.shown = append(b.shown, n.Message)
	return nil
}

func (b *recordingBackend) messages() []string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]string(nil), b.shown...)
}

func notification(msg string) inputswitch.Notification {
	return inputswitch.Notification{Message: msg}
}

func TestDispatcherDelivers(t *testing.T) {
	backend := &recordingBackend{}
	d := NewDispatcher(backend, 4, 0, 1, zaptest.NewLogger(t).Sugar())

	d.NotifySwitch(notification("Switched to Pinyin"))
	d.NotifySwitch(notification("Restored to ABC"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	assert.Eventually(t, func() bool {
		return len(backend.messages()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"Switched to Pinyin", "Restored to ABC"}, backend.messages())
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	backend := &recordingBackend{}
	d := NewDispatcher(backend, 1, 0, 1, zaptest.NewLogger(t).Sugar())

	done := make(chan struct{})
	go func() {
		d.NotifySwitch(notification("one"))
		d.NotifySwitch(notification("two"))
		d.NotifySwitch(notification("three"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("NotifySwitch blocked")
	}

	assert.Len(t, d.queue, 1)
	assert.Equal(t, "one", (<-d.queue).Message)
}

func TestDispatcherRateLimits(t *testing.T) {
	backend := &recordingBackend{}
	d := NewDispatcher(backend, 10, 0.001, 2, zaptest.NewLogger(t).Sugar())

	for i := 0; i < 5; i++ {
		d.NotifySwitch(notification("burst"))
	}

	assert.Len(t, d.queue, 2)
}

func TestLogBackend(t *testing.T) {
	l := NewLog(zaptest.NewLogger(t).Sugar())
	assert.NoError(t, l.Show(context.Background(), inputswitch.Notification{
		Kind:    inputswitch.Restored,
		Message: "Restored to ABC",
	}))
}

type fakeNotifications struct {
	lock  sync.Mutex
	calls [][]interface{}
	next  uint32
}

func (f *fakeNotifications) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls = append(f.calls, args)
	f.next++
	return &dbus.Call{Method: method, Args: args, Body: []interface{}{f.next}}
}

type staticIcons map[string]string

func (s staticIcons) Icon(app string) string {
	return s[app]
}

func TestDesktopReplacesPreviousNotification(t *testing.T) {
	fake := &fakeNotifications{}
	d := &Desktop{obj: fake, expire: 1500 * time.Millisecond, icons: staticIcons{"firefox": "firefox"}}

	require.NoError(t, d.Show(context.Background(), inputswitch.Notification{
		AppID:   "firefox",
		Message: "Switched to Hungarian",
	}))
	require.NoError(t, d.Show(context.Background(), inputswitch.Notification{
		AppID:   "kitty",
		Source:  inputswitch.InputSource{ID: "pinyin", Icon: "fcitx-pinyin"},
		Message: "Switched to Pinyin",
	}))

	require.Len(t, fake.calls, 2)
	first, second := fake.calls[0], fake.calls[1]

	assert.Equal(t, appName, first[0])
	assert.Equal(t, uint32(0), first[1])
	assert.Equal(t, "firefox", first[2], "app icon is the fallback")
	assert.Equal(t, "Switched to Hungarian", first[3])
	assert.Equal(t, int32(1500), first[7])

	assert.Equal(t, uint32(1), second[1], "second notification replaces the first")
	assert.Equal(t, "fcitx-pinyin", second[2])
}
