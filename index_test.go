package texpalette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexPixelsResolvesMergedColors(t *testing.T) {
	c0 := New(0x00, 0, 0, 0xff)
	c1 := New(0x01, 0, 0, 0xff)
	c2 := New(0x7f, 0, 0, 0xff)
	pixels := []*Color{c0, c1, c2, New(0x00, 0, 0, 0xff), c2}

	palette := CleanupWithOptions(pixels, forced(3))
	require.Len(t, palette, 2)

	indices, err := IndexPixels(pixels, palette)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 0, 1}, indices)
	require.NoError(t, CheckIndices(indices, len(palette)))

	_, err = IndexPixels([]*Color{New(1, 2, 3, 4)}, palette)
	require.ErrorIs(t, err, ErrUnknownColor)
}

func TestLookup(t *testing.T) {
	a := New(1, 0, 0, 255)
	a.Link("#ff000000")
	b := New(9, 0, 0, 255)
	m := Lookup([]*Color{a, b})
	assert.Equal(t, map[string]int{"#ff010000": 0, "#ff000000": 0, "#ff090000": 1}, m)
}

func TestRemapAfterConsolidation(t *testing.T) {
	p0 := New(0, 0, 0, 255)
	p1 := New(1, 0, 0, 255)
	q0 := New(100, 0, 0, 255)
	q1 := New(101, 0, 0, 255)
	palette := CleanupWithOptions([]*Color{p0, p1, q0, q1}, forced(3))
	require.Len(t, palette, 2)

	// Indices recorded against the pre-merge slots 0..3.
	stale := []int{0, 1, 2, 3, Unset}
	require.ErrorIs(t, CheckIndices(stale, len(palette)), ErrIndexOutOfRange)

	fresh, err := Remap(stale, palette)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 1, Unset}, fresh)
	require.NoError(t, CheckIndices(fresh, len(palette)))

	_, err = Remap([]int{4}, palette)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestCheckIndices(t *testing.T) {
	require.NoError(t, CheckIndices(nil, 0))
	require.NoError(t, CheckIndices([]int{Unset, 0, 2}, 3))
	require.ErrorIs(t, CheckIndices([]int{3}, 3), ErrIndexOutOfRange)
	require.ErrorIs(t, CheckIndices([]int{-2}, 3), ErrIndexOutOfRange)
	require.ErrorIs(t, CheckIndices([]int{0}, 0), ErrIndexOutOfRange)
}

func TestRemapAfterRepeatedCleanup(t *testing.T) {
	p0 := New(0, 0, 0, 255)
	p1 := New(1, 0, 0, 255)
	q0 := New(100, 0, 0, 255)
	q1 := New(101, 0, 0, 255)
	first := CleanupWithOptions([]*Color{p0, p1, q0, q1}, forced(3))
	second := CleanupWithOptions(first, forced(3))
	require.Equal(t, []*Color{p1, q1}, second)
	require.Equal(t, []int{1, 0, 0}, p1.IDs())
	require.Equal(t, []int{3, 2, 1}, q1.IDs())

	// Slot 1 now belongs to both entries and must not resolve silently.
	_, err := Remap([]int{0, 1}, second)
	require.ErrorIs(t, err, ErrAmbiguousSlot)

	fresh, err := Remap([]int{0, 2, 3, Unset}, second)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1, Unset}, fresh)
}
