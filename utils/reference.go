package utils

import (
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/setanarut/texpalette"
)

// PaletteMethod selects how a reference palette is extracted.
type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

type weightedColor struct {
	Col    *texpalette.Color
	Weight float64
}

func fromColorful(c colorful.Color) *texpalette.Color {
	r, g, b := c.Clamped().RGB255()
	return texpalette.New(r, g, b, 255)
}

// ExtractPalette returns up to k opaque colors that summarize img. It is a
// lossy reference to compare against the consolidated palette, not a
// replacement for it.
func ExtractPalette(img image.Image, k int, method PaletteMethod) []*texpalette.Color {
	switch method {
	case PaletteMethodKMeans:
		p := ExtractKMeansPalette(img, k)
		if len(p) != 0 {
			return p
		}
		Log.Warn("kmeans returned empty palette, falling back to dominantcolor")
		return ExtractDominantPalette(img, k)
	default:
		return ExtractDominantPalette(img, k)
	}
}

func ExtractDominantPalette(img image.Image, k int) []*texpalette.Color {
	if k <= 0 {
		return nil
	}

	candidates := dominantcolor.FindWeight(img, max(24, k*8))
	if len(candidates) == 0 {
		candidates = append(candidates, dominantcolor.Color{
			RGBA:   color.RGBA{R: 128, G: 128, B: 128, A: 255},
			Weight: 1.0,
		})
	}

	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		weighted = append(weighted, weightedColor{
			Col:    texpalette.New(c.RGBA.R, c.RGBA.G, c.RGBA.B, 255),
			Weight: c.Weight,
		})
	}
	return selectDiverse(weighted, k)
}

func ExtractKMeansPalette(img image.Image, k int) []*texpalette.Color {
	if k <= 0 {
		return nil
	}

	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	// Subsample large images.
	maxSamples := 12000
	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(c.R) / 255.0,
				float64(c.G) / 255.0,
				float64(c.B) / 255.0,
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	workK := min(max(k*4, k+2), len(dataset))
	cc, err := kmeans.New().Partition(dataset, workK)
	if err != nil || len(cc) == 0 {
		if err != nil {
			Log.WithError(err).Warn("kmeans partition failed")
		}
		return nil
	}

	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}
		weighted = append(weighted, weightedColor{
			Col:    fromColorful(col),
			Weight: float64(len(c.Observations)),
		})
	}
	return selectDiverse(weighted, k)
}

// selectDiverse seeds with the heaviest color, then greedily adds the
// candidate farthest (in Lab) from everything selected, favoring heavy ones.
func selectDiverse(cands []weightedColor, k int) []*texpalette.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	type item struct {
		col *texpalette.Color
		lab [3]float64
		w   float64
	}
	items := make([]item, 0, len(cands))
	maxW := 0.0
	for _, c := range cands {
		l, a, b := c.Col.Colorful().Lab()
		w := c.Weight
		if w <= 0 {
			w = 1e-6
		}
		maxW = max(maxW, w)
		items = append(items, item{col: c.Col, lab: [3]float64{l, a, b}, w: w})
	}
	k = min(k, len(items))

	selected := make([]bool, len(items))
	order := make([]int, 0, k)

	seed := 0
	for i := range items {
		if items[i].w > items[seed].w {
			seed = i
		}
	}
	order = append(order, seed)
	selected[seed] = true

	for len(order) < k {
		best, bestScore := -1, -1.0
		for i := range items {
			if selected[i] {
				continue
			}
			minD2 := math.MaxFloat64
			for _, s := range order {
				d0 := items[i].lab[0] - items[s].lab[0]
				d1 := items[i].lab[1] - items[s].lab[1]
				d2 := items[i].lab[2] - items[s].lab[2]
				minD2 = min(minD2, d0*d0+d1*d1+d2*d2)
			}
			score := math.Sqrt(minD2) * (0.55 + 0.45*math.Sqrt(items[i].w/maxW))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		selected[best] = true
		order = append(order, best)
	}

	out := make([]*texpalette.Color, 0, len(order))
	for _, i := range order {
		out = append(out, items[i].col)
	}
	return out
}

// Nearest returns the palette entry closest to c by Distance, or nil.
func Nearest(palette []*texpalette.Color, c *texpalette.Color) *texpalette.Color {
	if len(palette) == 0 {
		return nil
	}
	return slices.MinFunc(palette, func(a, b *texpalette.Color) int {
		da, db := a.Distance(c), b.Distance(c)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})
}
