package inputswitch

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"testing"
)

func TestRegistryListFiltersAndDeduplicates(t *testing.T) {
	palette := HostSource{
		InputSource:   InputSource{ID: "com.apple.CharacterPaletteIM", Name: "Emoji"},
		Category:      "palette",
		SelectCapable: true,
	}
	hidden := keyboard("com.apple.inputmethod.Kotoeri", "Kotoeri")
	hidden.SelectCapable = false
	dup := keyboard("us", "U.S. again")

	host := newFakeHost("us", keyboard("us", "U.S."), palette, hidden, dup, keyboard("hu", "Hungarian"))
	r := NewRegistry(host, zaptest.NewLogger(t).Sugar())

	sources, err := r.List()
	require.NoError(t, err)
	assert.Equal(t, []InputSource{
		{ID: "us", Name: "U.S."},
		{ID: "hu", Name: "Hungarian"},
	}, sources)

	_, err = r.List()
	require.NoError(t, err)
	assert.Equal(t, 1, host.listCalls, "list must be served from cache")
}

func TestRegistryLookupRefreshesOnMiss(t *testing.T) {
	host := newFakeHost("us", keyboard("us", "U.S."))
	r := NewRegistry(host, zaptest.NewLogger(t).Sugar())
	require.NoError(t, r.Refresh())

	host.add(keyboard("jp", "Hiragana"))

	src, ok := r.Lookup("jp")
	assert.True(t, ok)
	assert.Equal(t, "Hiragana", src.Name)
	assert.Equal(t, 2, host.listCalls)

	_, ok = r.Lookup("us")
	assert.True(t, ok)
	assert.Equal(t, 2, host.listCalls)
}

func TestRegistrySelect(t *testing.T) {
	host := newFakeHost("us", keyboard("us", "U.S."), keyboard("hu", "Hungarian"))
	r := NewRegistry(host, zaptest.NewLogger(t).Sugar())

	require.NoError(t, r.Select("hu"))
	assert.Equal(t, []string{"hu"}, host.selected())

	current, err := r.Current()
	require.NoError(t, err)
	assert.Equal(t, InputSource{ID: "hu", Name: "Hungarian"}, current)
}

func TestRegistrySelectNewSourceAfterRefresh(t *testing.T) {
	host := newFakeHost("us", keyboard("us", "U.S."))
	r := NewRegistry(host, zaptest.NewLogger(t).Sugar())
	_, err := r.List()
	require.NoError(t, err)

	host.add(keyboard("pinyin", "Pinyin"))

	require.NoError(t, r.Select("pinyin"))
	assert.Equal(t, []string{"pinyin"}, host.selected())
}

func TestRegistrySelectUnknownSource(t *testing.T) {
	host := newFakeHost("us", keyboard("us", "U.S."))
	r := NewRegistry(host, zaptest.NewLogger(t).Sugar())
	require.NoError(t, r.Refresh())

	err := r.Select("missing")
	assert.True(t, errors.Is(err, ErrSourceNotFound))
	assert.Empty(t, host.selected())
	assert.Equal(t, 2, host.listCalls, "exactly one forced refresh per select")
}

func TestRegistrySelectHostRejection(t *testing.T) {
	host := newFakeHost("us", keyboard("us", "U.S."), keyboard("hu", "Hungarian"))
	host.rejects["hu"] = true
	r := NewRegistry(host, zaptest.NewLogger(t).Sugar())

	err := r.Select("hu")
	assert.True(t, errors.Is(err, errHostRejected))
	assert.False(t, errors.Is(err, ErrSourceNotFound))
}

func TestRegistryCurrentNotCached(t *testing.T) {
	host := newFakeHost("ghost", keyboard("us", "U.S."))
	r := NewRegistry(host, zaptest.NewLogger(t).Sugar())
	require.NoError(t, r.Refresh())

	current, err := r.Current()
	require.NoError(t, err)
	assert.Equal(t, "ghost", current.ID)
	assert.Equal(t, "uncached ghost", current.Name)
	assert.Equal(t, 1, host.listCalls, "current must not refresh the cache")
}

func TestRegistryCurrentErrors(t *testing.T) {
	host := newFakeHost("")
	r := NewRegistry(host, zaptest.NewLogger(t).Sugar())

	_, err := r.Current()
	assert.True(t, errors.Is(err, ErrNoCurrentSource))

	host.currentErr = errors.New("no session")
	_, err = r.Current()
	assert.Error(t, err)
}
