package texpalette

import (
	"errors"
	"fmt"
	"image/color"
	"slices"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrEmptyInput = errors.New("texpalette: empty input")
	ErrInvalidHex = errors.New("texpalette: invalid hex color")
)

// Color is one non-premultiplied RGBA sample.
// Channel values never change after creation. The bookkeeping fields
// (identifiers, links, validity) are only mutated by the consolidation engine.
type Color struct {
	R, G, B, A uint8

	invalid     bool
	identifiers []int
	references  []string
}

func New(r, g, b, a uint8) *Color {
	return &Color{R: r, G: g, B: b, A: a}
}

// ParseHex parses the alpha-first "#aarrggbb" form returned by Hex.
func ParseHex(s string) (*Color, error) {
	if len(s) != 9 || s[0] != '#' {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	a, err := strconv.ParseUint(s[1:3], 16, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	rgb, err := colorful.Hex("#" + s[3:])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	r, g, b := rgb.RGB255()
	return New(r, g, b, uint8(a)), nil
}

// Mix returns the componentwise mean of colors, each channel rounded half up.
// The result carries no identifiers or links.
func Mix(colors []*Color) (*Color, error) {
	n := len(colors)
	if n == 0 {
		return nil, fmt.Errorf("mix: %w", ErrEmptyInput)
	}
	var r, g, b, a int
	for _, c := range colors {
		r += int(c.R)
		g += int(c.G)
		b += int(c.B)
		a += int(c.A)
	}
	half := n / 2
	return New(
		uint8((r+half)/n),
		uint8((g+half)/n),
		uint8((b+half)/n),
		uint8((a+half)/n),
	), nil
}

func absDiff(x, y uint8) int {
	if x > y {
		return int(x - y)
	}
	return int(y - x)
}

// Difference is the sum of absolute channel deltas, in [0, 1020].
func (c *Color) Difference(o *Color) int {
	return absDiff(c.R, o.R) + absDiff(c.G, o.G) + absDiff(c.B, o.B) + absDiff(c.A, o.A)
}

// Distance is the Euclidean distance over the four channels.
func (c *Color) Distance(o *Color) float64 {
	return floats.Distance(c.channels(), o.channels(), 2)
}

func (c *Color) channels() []float64 {
	return []float64{float64(c.R), float64(c.G), float64(c.B), float64(c.A)}
}

// Hex returns the identity key "#aarrggbb". Two colors are the same entry iff
// their Hex values are equal.
func (c *Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.A, c.R, c.G, c.B)
}

func (c *Color) RGBAString() string {
	alpha := strconv.FormatFloat(float64(c.A)/0xff, 'f', -1, 64)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, alpha)
}

func (c *Color) RGBString() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

func (c *Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// RGBA implements image/color.Color.
func (c *Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// Colorful drops alpha and returns the sRGB color in [0,1].
func (c *Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

func (c *Color) ID(id int) {
	c.identifiers = append(c.identifiers, id)
}

// IDs returns a copy of the identifiers in insertion order.
func (c *Color) IDs() []int {
	return slices.Clone(c.identifiers)
}

func (c *Color) Link(hex string) *Color {
	c.references = append(c.references, hex)
	return c
}

// Links lists every hex this entry represents, its own first.
func (c *Color) Links() []string {
	links := make([]string, 0, len(c.references)+1)
	links = append(links, c.Hex())
	return append(links, c.references...)
}

func (c *Color) Invalidate() *Color {
	c.invalid = true
	return c
}

func (c *Color) Valid() bool {
	return !c.invalid
}

// absorb drains other's identifiers and links into c and invalidates other.
func (c *Color) absorb(other *Color) {
	c.identifiers = append(c.identifiers, other.identifiers...)
	c.references = append(c.references, other.Links()...)
	other.Invalidate()
}
