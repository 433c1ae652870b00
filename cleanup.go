package texpalette

import (
	"github.com/sirupsen/logrus"
)

// AutoTolerance makes the consolidator derive the tolerance from the palette.
const AutoTolerance = -1

// ToleranceStep applies Tolerance when the palette has more than Above distinct colors.
type ToleranceStep struct {
	Above     int
	Tolerance int
}

type Options struct {
	// Maximum Difference at which two distinct colors are merged.
	// AutoTolerance derives it from the palette (see ToleranceFor).
	// 0 disables merging.
	Tolerance int
	// Palettes whose largest pairwise Difference is at or below this value
	// are left untouched.
	MinVariety int
	// Tolerance used when no step matches.
	BaseTolerance int
	// Checked in order; the first step whose Above is exceeded wins.
	Steps []ToleranceStep
	// Optional. Receives one Debug entry per merge pass.
	Log logrus.FieldLogger
}

func DefaultOptions() Options {
	return Options{
		Tolerance:     AutoTolerance,
		MinVariety:    15,
		BaseTolerance: 3,
		Steps: []ToleranceStep{
			{Above: 768, Tolerance: 12},
			{Above: 512, Tolerance: 6},
			{Above: 256, Tolerance: 4},
		},
	}
}

// Consolidator reduces a color list to a palette of representatives.
type Consolidator struct {
	Input     []*Color
	Palette   []*Color
	Tolerance int
	// Number of merge passes the last Consolidate performed.
	Passes int
}

func NewConsolidator(colors []*Color) *Consolidator {
	return &Consolidator{Input: colors}
}

// Cleanup consolidates colors with DefaultOptions and returns the palette.
func Cleanup(colors []*Color) []*Color {
	return CleanupWithOptions(colors, DefaultOptions())
}

func CleanupWithOptions(colors []*Color, opt Options) []*Color {
	c := NewConsolidator(colors)
	c.Consolidate(opt)
	return c.Palette
}

// Dedupe keeps the first color of every distinct Hex, in input order.
func Dedupe(colors []*Color) []*Color {
	seen := make(map[string]struct{}, len(colors))
	out := make([]*Color, 0, len(colors))
	for _, c := range colors {
		h := c.Hex()
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, c)
	}
	return out
}

// MaxDifference is the largest pairwise Difference over colors.
func MaxDifference(colors []*Color) int {
	maxDiff := 0
	for i := range colors {
		for j := i + 1; j < len(colors); j++ {
			maxDiff = max(maxDiff, colors[i].Difference(colors[j]))
		}
	}
	return maxDiff
}

// ToleranceFor returns the merge tolerance for a deduplicated palette.
func ToleranceFor(palette []*Color, opt Options) int {
	if opt.Tolerance >= 0 {
		return opt.Tolerance
	}
	if MaxDifference(palette) <= opt.MinVariety {
		return 0
	}
	for _, s := range opt.Steps {
		if len(palette) > s.Above {
			return s.Tolerance
		}
	}
	return opt.BaseTolerance
}

func isNeighbor(a, b *Color, tolerance int) bool {
	d := a.Difference(b)
	return d > 0 && d <= tolerance
}

// Consolidate deduplicates the input by Hex, numbers every distinct color
// with its 0-based slot, then repeatedly lets the color with the most
// neighbors absorb all of them until no two colors are within tolerance.
func (c *Consolidator) Consolidate(opt Options) {
	palette := Dedupe(c.Input)
	for i, col := range palette {
		col.ID(i)
	}
	c.Passes = 0
	c.Tolerance = ToleranceFor(palette, opt)
	if opt.Log != nil {
		opt.Log.WithFields(logrus.Fields{
			"colors":    len(palette),
			"tolerance": c.Tolerance,
		}).Debug("consolidating palette")
	}
	if c.Tolerance <= 0 || len(palette) < 2 {
		c.Palette = palette
		return
	}

	// Channels never change, so the neighbor graph is computed once and
	// filtered by validity on every pass.
	adjacent := make([][]int, len(palette))
	for i := range palette {
		for j := range palette {
			if i != j && isNeighbor(palette[i], palette[j], c.Tolerance) {
				adjacent[i] = append(adjacent[i], j)
			}
		}
	}

	type candidate struct {
		hub       int
		neighbors []int
	}
	alive := make([]int, len(palette))
	for i := range alive {
		alive[i] = i
	}
	for {
		var candidates []candidate
		maxNeighbors := 0
		for _, i := range alive {
			var neighbors []int
			for _, j := range adjacent[i] {
				if palette[j].Valid() {
					neighbors = append(neighbors, j)
				}
			}
			if len(neighbors) == 0 {
				continue
			}
			candidates = append(candidates, candidate{hub: i, neighbors: neighbors})
			maxNeighbors = max(maxNeighbors, len(neighbors))
		}
		if len(candidates) == 0 {
			break
		}

		// Later entries win ties.
		for k := len(candidates) - 1; k >= 0; k-- {
			cand := candidates[k]
			if len(cand.neighbors) != maxNeighbors {
				continue
			}
			hub := palette[cand.hub]
			for _, j := range cand.neighbors {
				hub.absorb(palette[j])
			}
			c.Passes++
			if opt.Log != nil {
				opt.Log.WithFields(logrus.Fields{
					"pass":     c.Passes,
					"hub":      hub.Hex(),
					"absorbed": len(cand.neighbors),
					"size":     len(alive) - len(cand.neighbors),
				}).Debug("merge pass")
			}
			break
		}

		alive = rebuild(palette, alive)
	}

	c.Palette = make([]*Color, len(alive))
	for k, i := range alive {
		c.Palette[k] = palette[i]
	}
}

// rebuild keeps the valid, Hex-distinct entries of alive in order.
func rebuild(palette []*Color, alive []int) []int {
	seen := make(map[string]struct{}, len(alive))
	out := alive[:0]
	for _, i := range alive {
		col := palette[i]
		if !col.Valid() {
			continue
		}
		h := col.Hex()
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, i)
	}
	return out
}
