package utils

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/setanarut/texpalette"
)

// DownsampleMethod picks which pixel of a 2x2 block stands for the block.
type DownsampleMethod int

const (
	// Block pixel closest to the block average.
	DownsampleNearest DownsampleMethod = iota
	// Block pixel farthest from the block average.
	DownsampleFarthest
	DownsampleTopLeft
	// Outer corner of the block, relative to the image centre.
	DownsampleEdgesOutside
	// Inner corner of the block, relative to the image centre.
	DownsampleEdgesInside
)

var downsampleNames = []string{"nearest", "farthest", "top-left", "edges-outside", "edges-inside"}

func (m DownsampleMethod) String() string {
	if int(m) < 0 || int(m) >= len(downsampleNames) {
		return fmt.Sprintf("DownsampleMethod(%d)", int(m))
	}
	return downsampleNames[m]
}

func ParseDownsampleMethod(s string) (DownsampleMethod, error) {
	i := slices.Index(downsampleNames, s)
	if i < 0 {
		return 0, fmt.Errorf("unknown downsample method %q", s)
	}
	return DownsampleMethod(i), nil
}

// Downsample halves a width×height texture into an index array over
// palette. Every output cell takes the palette slot of one pixel of its
// 2x2 source block, chosen by method.
func Downsample(pixels []*texpalette.Color, width, height int, palette []*texpalette.Color, method DownsampleMethod) ([]int, error) {
	if width < 0 || height < 0 || len(pixels) != width*height {
		return nil, fmt.Errorf("downsample: %d pixels for %dx%d", len(pixels), width, height)
	}
	lookup := texpalette.Lookup(palette)
	at := func(x, y int) *texpalette.Color { return pixels[y*width+x] }

	ow, oh := width/2, height/2
	out := make([]int, 0, ow*oh)
	block := make([]*texpalette.Color, 4)
	for y := range oh {
		for x := range ow {
			var picked *texpalette.Color
			switch method {
			case DownsampleNearest, DownsampleFarthest:
				block[0], block[1] = at(2*x, 2*y), at(2*x+1, 2*y)
				block[2], block[3] = at(2*x, 2*y+1), at(2*x+1, 2*y+1)
				sorted, err := byDistanceToMix(block)
				if err != nil {
					return nil, err
				}
				if method == DownsampleNearest {
					picked = sorted[0]
				} else {
					picked = sorted[len(sorted)-1]
				}
			case DownsampleTopLeft:
				picked = at(2*x, 2*y)
			case DownsampleEdgesOutside:
				sx, sy := 2*x, 2*y
				if 2*sx >= width {
					sx++
				}
				if 2*sy >= height {
					sy++
				}
				picked = at(sx, sy)
			case DownsampleEdgesInside:
				sx, sy := 2*x+1, 2*y+1
				if 2*sx >= width {
					sx--
				}
				if 2*sy >= height {
					sy--
				}
				picked = at(sx, sy)
			default:
				return nil, fmt.Errorf("downsample: %v", method)
			}

			idx, ok := lookup[picked.Hex()]
			if !ok {
				return nil, fmt.Errorf("downsample cell %d,%d %s: %w", x, y, picked.Hex(), texpalette.ErrUnknownColor)
			}
			out = append(out, idx)
		}
	}
	return out, nil
}

// byDistanceToMix returns block sorted by distance to its average, stable on ties.
func byDistanceToMix(block []*texpalette.Color) ([]*texpalette.Color, error) {
	avg, err := texpalette.Mix(block)
	if err != nil {
		return nil, err
	}
	sorted := slices.Clone(block)
	slices.SortStableFunc(sorted, func(a, b *texpalette.Color) int {
		return cmp.Compare(a.Distance(avg), b.Distance(avg))
	})
	return sorted, nil
}
