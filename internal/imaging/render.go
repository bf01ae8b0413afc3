package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/symmetry-mcp/internal/symmetry"
)

// DefaultLineColor is the mirror line colour used when none is configured.
const DefaultLineColor = "#FFFFFF"

// ParseColor parses a "#RRGGBB" or "#RGB" hex colour.
func ParseColor(hex string) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// AxisRenderer draws a symmetry axis over a copy of an image. It implements
// symmetry.Renderer.
type AxisRenderer struct {
	Color color.Color
}

// NewAxisRenderer returns a renderer drawing in the given hex colour. An empty
// string selects DefaultLineColor.
func NewAxisRenderer(hex string) (*AxisRenderer, error) {
	if hex == "" {
		hex = DefaultLineColor
	}
	c, err := ParseColor(hex)
	if err != nil {
		return nil, err
	}
	return &AxisRenderer{Color: c}, nil
}

// DrawAxis returns a copy of img with the line x·cosθ + y·sinθ = r drawn two
// pixels wide. Coordinates are relative to the image origin. Lines closer to
// vertical are walked row by row, the others column by column; points that
// fall outside the image are skipped.
func (ar *AxisRenderer) DrawAxis(img image.Image, axis symmetry.SymmetryAxis) (image.Image, error) {
	out := imaging.Clone(img)
	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	cos, sin := math.Cos(axis.Theta), math.Sin(axis.Theta)

	c := ar.Color
	if c == nil {
		c = color.White
	}

	if math.Abs(cos) >= math.Abs(sin) {
		for y := 0; y < h; y++ {
			x := (axis.R - float64(y)*sin) / cos
			plotPixel(out, x, float64(y), 1, 0, c)
		}
	} else {
		for x := 0; x < w; x++ {
			y := (axis.R - float64(x)*cos) / sin
			plotPixel(out, float64(x), y, 0, 1, c)
		}
	}
	return out, nil
}

// snap absorbs rounding error before truncation, so a line through an exact
// pixel coordinate lands on it.
const snap = 1e-9

// plotPixel sets (x, y) and its neighbour (x+dx, y+dy), truncating toward zero.
func plotPixel(img *image.NRGBA, x, y float64, dx, dy int, c color.Color) {
	b := img.Bounds()
	if x <= -1 || y <= -1 || x >= float64(b.Dx()) || y >= float64(b.Dy()) {
		return
	}
	px, py := int(x+snap), int(y+snap)
	for _, p := range []image.Point{{px, py}, {px + dx, py + dy}} {
		if p.In(b) {
			img.Set(p.X, p.Y, c)
		}
	}
}
