package hyprland

import (
	"codeberg.org/miketth/inputswitch/pkg/inputswitch"
	"codeberg.org/miketth/inputswitch/pkg/xkblayouts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

type switchCall struct {
	keyboard string
	idx      int
}

type fakeController struct {
	keyboards []Keyboard
	switches  []switchCall
}

func (c *fakeController) Devices() ([]Keyboard, error) {
	return c.keyboards, nil
}

func (c *fakeController) SwitchXkbLayout(keyboard string, idx int) error {
	c.switches = append(c.switches, switchCall{keyboard, idx})
	return nil
}

func testLayouts() *xkblayouts.XkbConfigRegistry {
	return &xkblayouts.XkbConfigRegistry{
		LayoutList: xkblayouts.LayoutList{Layout: []xkblayouts.Layout{
			{
				ConfigItem: xkblayouts.ConfigItem{Name: "us", Description: "English (US)"},
				VariantList: xkblayouts.VariantList{Variant: []xkblayouts.Variant{
					{ConfigItem: xkblayouts.ConfigItem{Name: "intl", Description: "English (US, intl., with dead keys)"}},
				}},
			},
			{ConfigItem: xkblayouts.ConfigItem{Name: "hu", Description: "Hungarian"}},
			{ConfigItem: xkblayouts.ConfigItem{Name: "de", Description: "German"}},
		}},
	}
}

func testKeyboards() []Keyboard {
	return []Keyboard{
		{Name: "wtype-virtual-keyboard", Layouts: []string{"us"}, ActiveKeymap: "English (US)"},
		{Name: "at-kbd", Layouts: []string{"us", "hu"}, Variants: []string{"intl"}, ActiveKeymap: "Hungarian", Main: true},
		{Name: "usb-kbd", Layouts: []string{"de"}, ActiveKeymap: "German"},
	}
}

func TestXkbHostSources(t *testing.T) {
	ctl := &fakeController{keyboards: testKeyboards()}
	host := NewXkbHost(ctl, testLayouts(), "")

	sources, err := host.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 4)

	var selectable []inputswitch.InputSource
	for _, s := range sources {
		if inputswitch.Selectable(s) {
			selectable = append(selectable, s.InputSource)
		}
	}
	assert.Equal(t, []inputswitch.InputSource{
		{ID: "us(intl)", Name: "English (US, intl., with dead keys)"},
		{ID: "hu", Name: "Hungarian"},
	}, selectable)

	assert.Equal(t, "virtual", sources[0].Category)
	assert.False(t, sources[3].SelectCapable, "layouts of other keyboards can't be selected")
}

func TestXkbHostNamedKeyboard(t *testing.T) {
	ctl := &fakeController{keyboards: testKeyboards()}
	host := NewXkbHost(ctl, testLayouts(), "usb-kbd")

	current, err := host.Current()
	require.NoError(t, err)
	assert.Equal(t, "de", current.ID)
	assert.Equal(t, "German", current.Name)

	host = NewXkbHost(ctl, testLayouts(), "missing")
	_, err = host.Sources()
	assert.ErrorIs(t, err, ErrNoKeyboard)
}

func TestXkbHostCurrentAndSelect(t *testing.T) {
	ctl := &fakeController{keyboards: testKeyboards()}
	host := NewXkbHost(ctl, testLayouts(), "")

	current, err := host.Current()
	require.NoError(t, err)
	assert.Equal(t, "hu", current.ID)
	assert.True(t, inputswitch.Selectable(current))

	sources, err := host.Sources()
	require.NoError(t, err)
	require.NoError(t, host.Select(sources[1]))
	assert.Equal(t, []switchCall{{"at-kbd", 0}}, ctl.switches)

	assert.Error(t, host.Select(inputswitch.HostSource{InputSource: inputswitch.InputSource{ID: "us"}}))
}

func TestXkbHostAllKeyboards(t *testing.T) {
	ctl := &fakeController{keyboards: testKeyboards()}
	host := NewXkbHost(ctl, testLayouts(), AllKeyboards)

	sources, err := host.Sources()
	require.NoError(t, err)
	require.NoError(t, host.Select(sources[2]))
	assert.Equal(t, []switchCall{{AllKeyboards, 1}}, ctl.switches)
}

func TestXkbHostThroughRegistry(t *testing.T) {
	ctl := &fakeController{keyboards: testKeyboards()}
	registry := inputswitch.NewRegistry(NewXkbHost(ctl, testLayouts(), ""), nopLogger())

	require.NoError(t, registry.Select("us(intl)"))
	assert.ErrorIs(t, registry.Select("de"), inputswitch.ErrSourceNotFound)
	assert.Equal(t, []switchCall{{"at-kbd", 0}}, ctl.switches)
}
