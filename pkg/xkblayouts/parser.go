package xkblayouts

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

func ParseLayouts(path string) (*XkbConfigRegistry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

func Parse(r io.Reader) (*XkbConfigRegistry, error) {
	registry := &XkbConfigRegistry{}
	if err := xml.NewDecoder(r).Decode(registry); err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}

	return registry, nil
}

// Description returns the human readable name of a layout or variant, or
// "" if the registry does not know it.
func (r *XkbConfigRegistry) Description(ref LayoutRef) string {
	for _, l := range r.LayoutList.Layout {
		if l.ConfigItem.Name != ref.Layout {
			continue
		}

		if ref.Variant == "" {
			return l.ConfigItem.Description
		}

		for _, v := range l.VariantList.Variant {
			if v.ConfigItem.Name == ref.Variant {
				return v.ConfigItem.Description
			}
		}
	}

	return ""
}

// FindByDescription is the reverse of Description. Hyprland reports the
// active keymap by its description only.
func (r *XkbConfigRegistry) FindByDescription(description string) (LayoutRef, bool) {
	for _, l := range r.LayoutList.Layout {
		if l.ConfigItem.Description == description {
			return LayoutRef{Layout: l.ConfigItem.Name}, true
		}

		for _, v := range l.VariantList.Variant {
			if v.ConfigItem.Description == description {
				return LayoutRef{Layout: l.ConfigItem.Name, Variant: v.ConfigItem.Name}, true
			}
		}
	}

	return LayoutRef{}, false
}

// ID formats ref the way setxkbmap does: "us" or "us(intl)".
func (ref LayoutRef) ID() string {
	if ref.Variant == "" {
		return ref.Layout
	}
	return fmt.Sprintf("%s(%s)", ref.Layout, ref.Variant)
}

func ParseID(id string) (LayoutRef, error) {
	open := strings.IndexByte(id, '(')
	if open < 0 {
		if id == "" || strings.ContainsRune(id, ')') {
			return LayoutRef{}, fmt.Errorf("invalid layout id %q", id)
		}
		return LayoutRef{Layout: id}, nil
	}

	if open == 0 || !strings.HasSuffix(id, ")") || open == len(id)-2 {
		return LayoutRef{}, fmt.Errorf("invalid layout id %q", id)
	}

	return LayoutRef{Layout: id[:open], Variant: id[open+1 : len(id)-1]}, nil
}
