package xkblayouts

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const evdevFixture = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE xkbConfigRegistry SYSTEM "xkb.dtd">
<xkbConfigRegistry version="1.1">
  <layoutList>
    <layout>
      <configItem>
        <name>us</name>
        <shortDescription>en</shortDescription>
        <description>English (US)</description>
      </configItem>
      <variantList>
        <variant>
          <configItem>
            <name>intl</name>
            <description>English (US, intl., with dead keys)</description>
          </configItem>
        </variant>
      </variantList>
    </layout>
    <layout>
      <configItem>
        <name>hu</name>
        <shortDescription>hu</shortDescription>
        <description>Hungarian</description>
      </configItem>
    </layout>
  </layoutList>
</xkbConfigRegistry>
`

func TestDescriptionRoundTrip(t *testing.T) {
	registry, err := Parse(strings.NewReader(evdevFixture))
	require.NoError(t, err)

	tests := []struct {
		ref         LayoutRef
		description string
	}{
		{LayoutRef{Layout: "us"}, "English (US)"},
		{LayoutRef{Layout: "us", Variant: "intl"}, "English (US, intl., with dead keys)"},
		{LayoutRef{Layout: "hu"}, "Hungarian"},
	}

	for _, tt := range tests {
		t.Run(tt.ref.ID(), func(t *testing.T) {
			assert.Equal(t, tt.description, registry.Description(tt.ref))

			ref, ok := registry.FindByDescription(tt.description)
			assert.True(t, ok)
			assert.Equal(t, tt.ref, ref)
		})
	}

	assert.Empty(t, registry.Description(LayoutRef{Layout: "de"}))
	assert.Empty(t, registry.Description(LayoutRef{Layout: "us", Variant: "dvorak"}))
	_, ok := registry.FindByDescription("German")
	assert.False(t, ok)
}

func TestParseLayoutsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evdev.xml")
	require.NoError(t, os.WriteFile(path, []byte(evdevFixture), 0644))

	registry, err := ParseLayouts(path)
	require.NoError(t, err)
	assert.Len(t, registry.LayoutList.Layout, 2)
	assert.Equal(t, "English (US)", registry.LayoutList.Layout[0].ConfigItem.Description)

	_, err = ParseLayouts(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		id      string
		ref     LayoutRef
		wantErr bool
	}{
		{id: "us", ref: LayoutRef{Layout: "us"}},
		{id: "us(intl)", ref: LayoutRef{Layout: "us", Variant: "intl"}},
		{id: "", wantErr: true},
		{id: "(intl)", wantErr: true},
		{id: "us()", wantErr: true},
		{id: "us(intl", wantErr: true},
		{id: "us)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			ref, err := ParseID(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ref, ref)
			assert.Equal(t, tt.id, ref.ID())
		})
	}
}
