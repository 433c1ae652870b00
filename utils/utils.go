package utils

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"slices"

	"github.com/disintegration/gift"
	"github.com/setanarut/texpalette"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
)

// Log receives the package warnings. Callers may reconfigure it.
var Log = logrus.New()

// ExtractColors returns one Color per pixel in row-major order.
func ExtractColors(img image.Image) []*texpalette.Color {
	b := img.Bounds()
	out := make([]*texpalette.Color, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out = append(out, texpalette.New(c.R, c.G, c.B, c.A))
		}
	}
	return out
}

// Paint draws a per-pixel index array with the given palette. Unset pixels
// stay transparent. A scale above 1 enlarges every pixel to a scale×scale block.
func Paint(palette []*texpalette.Color, indices []int, width, scale int) (*image.NRGBA, error) {
	if width <= 0 || len(indices)%width != 0 {
		return nil, fmt.Errorf("paint: %d indices do not form rows of %d", len(indices), width)
	}
	if err := texpalette.CheckIndices(indices, len(palette)); err != nil {
		return nil, fmt.Errorf("paint: %w", err)
	}
	height := len(indices) / width
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, idx := range indices {
		if idx == texpalette.Unset {
			continue
		}
		img.SetNRGBA(i%width, i/width, palette[idx].NRGBA())
	}
	if scale <= 1 {
		return img, nil
	}
	g := gift.New(gift.Resize(width*scale, height*scale, gift.NearestNeighborResampling))
	scaled := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(scaled, img)
	return scaled, nil
}

// SortPaletteByBrightness orders colors from darkest to brightest.
func SortPaletteByBrightness(palette []*texpalette.Color) {
	slices.SortStableFunc(palette, func(a, b *texpalette.Color) int {
		ri, gi, bi := a.Colorful().LinearRgb()
		rj, gj, bj := b.Colorful().LinearRgb()
		yi := 0.2126*ri + 0.7152*gi + 0.0722*bi
		yj := 0.2126*rj + 0.7152*gj + 0.0722*bj
		if yi < yj {
			return -1
		}
		if yi > yj {
			return 1
		}
		return 0
	})
}

func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// SavePalette writes the palette as a strip of tileSize squares.
func SavePalette(palette []*texpalette.Color, tileSize int, filename string) error {
	if len(palette) == 0 {
		return errors.New("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}

	w := tileSize * len(palette)
	h := tileSize
	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	for i, c := range palette {
		x0 := i * tileSize
		x1 := x0 + tileSize
		for y := range h {
			for x := x0; x < x1; x++ {
				img.SetNRGBA(x, y, c.NRGBA())
			}
		}
	}

	return SaveImage(img, filename)
}
