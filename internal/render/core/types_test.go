package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#336699", ColorFromRGB(0x33, 0x66, 0x99), false},
		{"336699", ColorFromRGB(0x33, 0x66, 0x99), false},
		{"#fff", ColorFromRGB(255, 255, 255), false},
		{" #000000 ", ColorFromRGB(0, 0, 0), false},
		{"#12345", Color{}, true},
		{"#gggggg", Color{}, true},
	}

	for _, tt := range tests {
		got, err := ColorFromHex(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}

	require.Panics(t, func() { MustColorFromHex("nope") })
}

func TestColor_Blend(t *testing.T) {
	black := ColorFromRGB(0, 0, 0)
	white := ColorFromRGB(255, 255, 255)

	require.Equal(t, black, black.Blend(white, 0))
	require.Equal(t, white, black.Blend(white, 1))

	mid := black.Blend(white, 0.5)
	require.Greater(t, mid.R, uint8(50))
	require.Less(t, mid.R, uint8(200))
	require.Equal(t, mid.R, mid.G)

	require.Equal(t, black, black.Blend(ColorDefault, 0.5))
}

func TestColor_Contrast(t *testing.T) {
	require.Equal(t, ColorFromRGB(0, 0, 0), ColorFromRGB(250, 250, 240).Contrast())
	require.Equal(t, ColorFromRGB(255, 255, 255), ColorFromRGB(20, 30, 60).Contrast())
	require.Equal(t, "#ff0000", ColorFromRGB(255, 0, 0).Hex())
	require.Equal(t, "default", ColorDefault.String())
	require.Equal(t, "", ColorDefault.Hex())
}

func TestStyle(t *testing.T) {
	s := DefaultStyle().WithForeground(ColorFromRGB(1, 2, 3)).Bold().Underline()
	require.True(t, s.Attributes.Has(AttrBold))
	require.True(t, s.Attributes.Has(AttrUnderline))
	require.False(t, s.Attributes.Has(AttrDim))
	require.True(t, s.Background.Default)
}

func TestRect(t *testing.T) {
	r := RectFromSize(2, 3, 10, 4)
	require.Equal(t, Rect{Left: 2, Top: 3, Right: 12, Bottom: 7}, r)
	require.Equal(t, 10, r.Width())
	require.Equal(t, 4, r.Height())
	require.False(t, r.Empty())
	require.True(t, Rect{Left: 5, Right: 2, Bottom: 1}.Empty())
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "PASS-1", Truncate("PASS-1", 10, "…"))
	require.Equal(t, "PASS…", Truncate("PASS-1234", 5, "…"))
	require.Equal(t, "P", Truncate("PASS", 1, "…"))
	require.Equal(t, "", Truncate("PASS", 0, "…"))

	// Wide clusters are never split.
	require.Equal(t, 4, StringWidth("衛星"))
	require.Equal(t, "衛…", Truncate("衛星通信", 4, "…"))

	clusters, widths := Graphemes("a🇯🇵b")
	require.Equal(t, []string{"a", "🇯🇵", "b"}, clusters)
	require.Equal(t, []int{1, 2, 1}, widths)
}
