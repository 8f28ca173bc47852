package hyprland

import (
	"codeberg.org/miketth/inputswitch/pkg/inputswitch"
	"codeberg.org/miketth/inputswitch/pkg/xkblayouts"
	"errors"
	"fmt"
)

// AllKeyboards makes XkbHost switch every keyboard at once. Sources are then
// taken from the main keyboard.
const AllKeyboards = "all"

var ErrNoKeyboard = errors.New("no keyboard found")

type keyboardController interface {
	Devices() ([]Keyboard, error)
	SwitchXkbLayout(keyboard string, idx int) error
}

// XkbHost exposes the XKB layouts configured in hyprland as input sources.
type XkbHost struct {
	ctl      keyboardController
	layouts  *xkblayouts.XkbConfigRegistry
	keyboard string
}

type xkbHandle struct {
	keyboard string
	idx      int
}

// NewXkbHost switches the named keyboard, AllKeyboards, or the main keyboard
// when keyboard is empty.
func NewXkbHost(ctl keyboardController, layouts *xkblayouts.XkbConfigRegistry, keyboard string) *XkbHost {
	return &XkbHost{ctl: ctl, layouts: layouts, keyboard: keyboard}
}

func (h *XkbHost) Sources() ([]inputswitch.HostSource, error) {
	keyboards, err := h.ctl.Devices()
	if err != nil {
		return nil, fmt.Errorf("get keyboards: %w", err)
	}

	target, err := h.targetKeyboard(keyboards)
	if err != nil {
		return nil, err
	}

	var out []inputswitch.HostSource
	for _, k := range keyboards {
		category := inputswitch.CategoryKeyboard
		if k.Virtual() {
			category = "virtual"
		}

		for idx := range k.Layouts {
			source := h.source(k, idx)
			source.Category = category
			source.SelectCapable = k.Name == target.Name
			out = append(out, source)
		}
	}

	return out, nil
}

func (h *XkbHost) Current() (inputswitch.HostSource, error) {
	keyboards, err := h.ctl.Devices()
	if err != nil {
		return inputswitch.HostSource{}, fmt.Errorf("get keyboards: %w", err)
	}

	k, err := h.targetKeyboard(keyboards)
	if err != nil {
		return inputswitch.HostSource{}, err
	}

	ref, ok := h.layouts.FindByDescription(k.ActiveKeymap)
	if !ok {
		return inputswitch.HostSource{}, fmt.Errorf("unknown keymap %q on %s", k.ActiveKeymap, k.Name)
	}

	for idx := range k.Layouts {
		if k.Layouts[idx] == ref.Layout && k.Variant(idx) == ref.Variant {
			source := h.source(k, idx)
			source.Category = inputswitch.CategoryKeyboard
			source.SelectCapable = true
			return source, nil
		}
	}

	// active but not configured on this keyboard, nothing to select
	return inputswitch.HostSource{
		InputSource: inputswitch.InputSource{ID: ref.ID(), Name: k.ActiveKeymap},
		Category:    inputswitch.CategoryKeyboard,
	}, nil
}

func (h *XkbHost) Select(source inputswitch.HostSource) error {
	handle, ok := source.Handle.(xkbHandle)
	if !ok {
		return fmt.Errorf("source %q has no xkb handle", source.ID)
	}

	keyboard := handle.keyboard
	if h.keyboard == AllKeyboards {
		keyboard = AllKeyboards
	}

	if err := h.ctl.SwitchXkbLayout(keyboard, handle.idx); err != nil {
		return fmt.Errorf("switch layout: %w", err)
	}

	return nil
}

func (h *XkbHost) source(k Keyboard, idx int) inputswitch.HostSource {
	ref := xkblayouts.LayoutRef{Layout: k.Layouts[idx], Variant: k.Variant(idx)}

	name := h.layouts.Description(ref)
	if name == "" {
		name = ref.ID()
	}

	return inputswitch.HostSource{
		InputSource: inputswitch.InputSource{ID: ref.ID(), Name: name},
		Handle:      xkbHandle{keyboard: k.Name, idx: idx},
	}
}

func (h *XkbHost) targetKeyboard(keyboards []Keyboard) (Keyboard, error) {
	if h.keyboard != "" && h.keyboard != AllKeyboards {
		for _, k := range keyboards {
			if k.Name == h.keyboard {
				return k, nil
			}
		}
		return Keyboard{}, fmt.Errorf("keyboard %q: %w", h.keyboard, ErrNoKeyboard)
	}

	var fallback *Keyboard
	for i, k := range keyboards {
		if k.Main {
			return k, nil
		}
		if fallback == nil && !k.Virtual() {
			fallback = &keyboards[i]
		}
	}

	if fallback == nil {
		return Keyboard{}, ErrNoKeyboard
	}
	return *fallback, nil
}
