package wheel

import (
	"image/color"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPalette = []color.RGBA{
	{R: 0xff, A: 0xff},
	{G: 0xff, A: 0xff},
	{B: 0xff, A: 0xff},
}

func TestSectorsPartitionCircle(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 10, 97, 250} {
		sectors := Sectors(n, testPalette)
		require.Len(t, sectors, n)

		per := 2 * math.Pi / float64(n)
		sum := 0.0
		for i, s := range sectors {
			assert.Equal(t, i, s.Index)
			assert.InDelta(t, per, s.End-s.Start, 1e-12)
			assert.InDelta(t, -math.Pi/2+(float64(i)+0.5)*per, s.Mid(), 1e-9)
			assert.Equal(t, testPalette[i%len(testPalette)], s.Color)
			if i > 0 {
				assert.Equal(t, sectors[i-1].End, s.Start, "gap before sector %d", i)
			}
			sum += s.End - s.Start
		}
		assert.InDelta(t, 2*math.Pi, sum, 1e-9)
		assert.Equal(t, -math.Pi/2, sectors[0].Start)
		assert.InDelta(t, 3*math.Pi/2, sectors[n-1].End, 1e-9)
	}
}

func TestSectorsEmptyIsSingleSector(t *testing.T) {
	sectors := Sectors(0, testPalette)
	require.Len(t, sectors, 1)
	assert.InDelta(t, 2*math.Pi, sectors[0].End-sectors[0].Start, 1e-12)

	sectors = Layout(nil, testPalette, 40)
	require.Len(t, sectors, 1)
	assert.Empty(t, sectors[0].Label)
}

func TestFontSize(t *testing.T) {
	// radius 96: 8.64 for small wheels
	assert.InDelta(t, 8.64, FontSize(96, 4), 1e-9)
	// ceiling
	assert.Equal(t, 14.0, FontSize(500, 10))
	// floor as the item count grows
	assert.Equal(t, 7.0, FontSize(96, 400))
	// shrinks past 40 items
	assert.Less(t, FontSize(200, 80), FontSize(200, 40))
}

func TestShortLabel(t *testing.T) {
	assert.Equal(t, 4, MaxLabelChars(10, 40))
	assert.Equal(t, "Ale…", ShortLabel("Alexandra", 10, 40))
	assert.Equal(t, "Bob", ShortLabel("Bob", 10, 40))
	assert.Equal(t, "Anna", ShortLabel("Anna", 10, 40))

	// few items keep long labels
	assert.Equal(t, 10, MaxLabelChars(4, 40))
	assert.Equal(t, "Alexandra", ShortLabel("Alexandra", 4, 40))

	// empty list counts as one sector
	assert.Equal(t, 40, MaxLabelChars(0, 40))

	// runes, not bytes
	assert.Equal(t, "Ñañ…", ShortLabel("Ñañañaña", 10, 40))
}

func TestShortLabelCrowdedUsesInitials(t *testing.T) {
	for _, label := range []string{
		"Alexandra Smith",
		"alexandra smith jones",
		"Supercalifragilistic",
		"Mary-Jane   Watson-Parker",
	} {
		got := ShortLabel(label, 250, 40)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), 3, label)
		fields := strings.Fields(label)
		assert.True(t, strings.HasPrefix(strings.ToUpper(fields[0]), strings.ToUpper(got[:1])), label)
	}
	assert.Equal(t, "AS", ShortLabel("alexandra smith", 250, 40))
	assert.Equal(t, "Sup", ShortLabel("Supercalifragilistic", 250, 40))
	// short labels stay intact even when crowded
	assert.Equal(t, "Bo", ShortLabel("Bo", 250, 40))
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "", Initials(""))
	assert.Equal(t, "", Initials("   "))
	assert.Equal(t, "Al", Initials("Al"))
	assert.Equal(t, "JD", Initials("john doe the third"))
	assert.Equal(t, "ÉO", Initials("élan orbit"))
}
