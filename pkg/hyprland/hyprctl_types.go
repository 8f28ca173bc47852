package hyprland

import "strings"

type keyboard struct {
	Name         string `json:"name"`
	Layout       string `json:"layout"`
	Variant      string `json:"variant"`
	Options      string `json:"options"`
	ActiveKeymap string `json:"active_keymap"`
	Main         bool   `json:"main"`
}

type devices struct {
	Keyboards []keyboard `json:"keyboards"`
}

type window struct {
	Address string `json:"address"`
	Class   string `json:"class"`
	Title   string `json:"title"`
}

type Keyboard struct {
	Name         string
	Layouts      []string
	Variants     []string
	ActiveKeymap string
	Main         bool
}

// Variant returns the variant configured for the layout at idx. Hyprland
// leaves trailing variants out when they are empty.
func (k Keyboard) Variant(idx int) string {
	if idx < 0 || idx >= len(k.Variants) {
		return ""
	}
	return k.Variants[idx]
}

// Virtual keyboards are created by tools like wtype or on-screen keyboards.
func (k Keyboard) Virtual() bool {
	return strings.Contains(k.Name, "virtual")
}

func (k keyboard) ToKeyboard() Keyboard {
	return Keyboard{
		Name:         k.Name,
		Layouts:      splitList(k.Layout),
		Variants:     splitList(k.Variant),
		ActiveKeymap: k.ActiveKeymap,
		Main:         k.Main,
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
