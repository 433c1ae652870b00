package texpalette

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexIsAlphaFirst(t *testing.T) {
	require.Equal(t, "#ff100000", New(0x10, 0, 0, 0xff).Hex())
	require.Equal(t, "#00010203", New(1, 2, 3, 0).Hex())
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#80102030")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x10), c.R)
	assert.Equal(t, uint8(0x20), c.G)
	assert.Equal(t, uint8(0x30), c.B)
	assert.Equal(t, uint8(0x80), c.A)
	assert.Equal(t, "#80102030", c.Hex())

	for _, bad := range []string{"", "80102030", "#102030", "#zz102030", "#80zz2030"} {
		_, err := ParseHex(bad)
		require.ErrorIs(t, err, ErrInvalidHex, bad)
	}
}

func TestDifferenceAndDistance(t *testing.T) {
	a := New(0, 0, 0, 0)
	b := New(3, 4, 0, 0)
	assert.Equal(t, 7, a.Difference(b))
	assert.Equal(t, 7, b.Difference(a))
	assert.InDelta(t, 5.0, a.Distance(b), 1e-9)

	black := New(0, 0, 0, 0)
	white := New(255, 255, 255, 255)
	assert.Equal(t, 1020, black.Difference(white))
	assert.InDelta(t, 510.0, black.Distance(white), 1e-9)
}

func TestMixRoundsHalfUp(t *testing.T) {
	m, err := Mix([]*Color{New(255, 0, 0, 255), New(0, 255, 0, 255)})
	require.NoError(t, err)
	assert.Equal(t, uint8(128), m.R)
	assert.Equal(t, uint8(128), m.G)
	assert.Equal(t, uint8(0), m.B)
	assert.Equal(t, uint8(255), m.A)
	assert.Empty(t, m.IDs())
	assert.Equal(t, []string{m.Hex()}, m.Links())

	m, err = Mix([]*Color{New(1, 0, 0, 0), New(1, 0, 0, 0), New(2, 0, 0, 0)})
	require.NoError(t, err)
	assert.Equal(t, uint8(1), m.R)
}

func TestMixEmpty(t *testing.T) {
	_, err := Mix(nil)
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestStringEncodings(t *testing.T) {
	assert.Equal(t, "rgba(1, 2, 3, 1)", New(1, 2, 3, 255).RGBAString())
	assert.Equal(t, "rgba(1, 2, 3, 0)", New(1, 2, 3, 0).RGBAString())
	assert.Equal(t, "rgba(1, 2, 3, 0.2)", New(1, 2, 3, 51).RGBAString())
	assert.Equal(t, "rgb(1, 2, 3)", New(1, 2, 3, 51).RGBString())
}

func TestImageColor(t *testing.T) {
	var c color.Color = New(255, 0, 0, 128)
	r, g, b, a := c.RGBA()
	er, eg, eb, ea := color.NRGBA{R: 255, A: 128}.RGBA()
	assert.Equal(t, []uint32{er, eg, eb, ea}, []uint32{r, g, b, a})

	cf := New(255, 0, 51, 10).Colorful()
	assert.InDelta(t, 1.0, cf.R, 1e-9)
	assert.InDelta(t, 0.2, cf.B, 1e-9)
}

func TestBookkeeping(t *testing.T) {
	c := New(1, 2, 3, 4)
	require.True(t, c.Valid())
	require.Equal(t, []string{"#04010203"}, c.Links())

	c.ID(3)
	c.ID(3)
	c.Link("#ff000000").Link("#ff000001")
	assert.Equal(t, []int{3, 3}, c.IDs())
	assert.Equal(t, []string{"#04010203", "#ff000000", "#ff000001"}, c.Links())

	require.Same(t, c, c.Invalidate())
	require.False(t, c.Valid())
}

func TestAbsorb(t *testing.T) {
	hub := New(0, 0, 0, 255)
	hub.ID(0)
	other := New(1, 0, 0, 255)
	other.ID(1)
	other.Link("#ff020000")

	hub.absorb(other)
	assert.False(t, other.Valid())
	assert.Equal(t, []int{0, 1}, hub.IDs())
	assert.Equal(t, []string{"#ff000000", "#ff010000", "#ff020000"}, hub.Links())
}

func TestIDsReturnsCopy(t *testing.T) {
	c := New(1, 2, 3, 4)
	c.ID(0)
	c.ID(1)
	c.ID(2)

	ids := append(c.IDs(), 99)
	c.ID(7)
	assert.Equal(t, []int{0, 1, 2, 99}, ids)
	assert.Equal(t, []int{0, 1, 2, 7}, c.IDs())
}
