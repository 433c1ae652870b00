package texpalette

import (
	"errors"
	"fmt"
)

// Unset marks a pixel without a palette entry. It is drawn transparent.
const Unset = -1

var (
	ErrIndexOutOfRange = errors.New("texpalette: index out of range")
	ErrUnknownColor    = errors.New("texpalette: color not in palette")
	ErrAmbiguousSlot   = errors.New("texpalette: slot owned by several palette entries")
)

// Lookup maps every hex linked to a palette entry to that entry's position.
func Lookup(palette []*Color) map[string]int {
	m := make(map[string]int, len(palette))
	for i, c := range palette {
		for _, h := range c.Links() {
			if _, ok := m[h]; !ok {
				m[h] = i
			}
		}
	}
	return m
}

// IndexPixels resolves each pixel to the position of its representative.
func IndexPixels(pixels []*Color, palette []*Color) ([]int, error) {
	lookup := Lookup(palette)
	out := make([]int, len(pixels))
	for i, p := range pixels {
		idx, ok := lookup[p.Hex()]
		if !ok {
			return nil, fmt.Errorf("pixel %d %s: %w", i, p.Hex(), ErrUnknownColor)
		}
		out[i] = idx
	}
	return out, nil
}

// Remap translates indices numbered by pre-merge slot ids into positions in
// palette, using each entry's IDs. Re-consolidating a palette numbers its
// entries again, so a slot id may end up on more than one entry; such
// slots cannot be resolved and yield ErrAmbiguousSlot.
func Remap(indices []int, palette []*Color) ([]int, error) {
	slots := make(map[int]int)
	ambiguous := make(map[int]bool)
	for i, c := range palette {
		for _, id := range c.IDs() {
			if owner, ok := slots[id]; ok && owner != i {
				ambiguous[id] = true
				continue
			}
			slots[id] = i
		}
	}
	out := make([]int, len(indices))
	for i, idx := range indices {
		if idx == Unset {
			out[i] = Unset
			continue
		}
		if ambiguous[idx] {
			return nil, fmt.Errorf("remap pixel %d: slot %d: %w", i, idx, ErrAmbiguousSlot)
		}
		pos, ok := slots[idx]
		if !ok {
			return nil, fmt.Errorf("remap pixel %d: slot %d: %w", i, idx, ErrIndexOutOfRange)
		}
		out[i] = pos
	}
	return out, nil
}

// CheckIndices reports the first index that does not address a palette of size entries.
func CheckIndices(indices []int, size int) error {
	for i, idx := range indices {
		if idx < Unset || idx >= size {
			return fmt.Errorf("pixel %d: index %d of %d: %w", i, idx, size, ErrIndexOutOfRange)
		}
	}
	return nil
}
