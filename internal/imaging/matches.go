package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/symmetry-mcp/internal/symmetry"
)

// DefaultMatchCount is the number of matches drawn by RenderMatches when the
// caller does not choose one.
const DefaultMatchCount = 10

// RenderMatches places left and right side by side and joins the keypoints of
// the first top matches with straight segments. Matches are expected in
// ascending distance order, so the strongest are drawn. query holds the
// keypoints of left and train those of right.
func RenderMatches(left, right image.Image, query, train *symmetry.Features, matches []symmetry.Match, top int, c color.Color) (image.Image, error) {
	if top <= 0 {
		top = DefaultMatchCount
	}
	if top > len(matches) {
		top = len(matches)
	}

	lw, lh := left.Bounds().Dx(), left.Bounds().Dy()
	rw, rh := right.Bounds().Dx(), right.Bounds().Dy()
	height := lh
	if rh > height {
		height = rh
	}

	canvas := imaging.New(lw+rw, height, color.Black)
	canvas = imaging.Paste(canvas, left, image.Pt(0, 0))
	canvas = imaging.Paste(canvas, right, image.Pt(lw, 0))

	for i, m := range matches[:top] {
		if m.QueryIdx < 0 || m.QueryIdx >= query.Len() {
			return nil, fmt.Errorf("match %d: query index %d out of range [0,%d)", i, m.QueryIdx, query.Len())
		}
		if m.TrainIdx < 0 || m.TrainIdx >= train.Len() {
			return nil, fmt.Errorf("match %d: train index %d out of range [0,%d)", i, m.TrainIdx, train.Len())
		}
		a := query.Keypoints[m.QueryIdx]
		b := train.Keypoints[m.TrainIdx]
		x0, y0 := int(a.X), int(a.Y)
		x1, y1 := lw+int(b.X), int(b.Y)

		drawSegment(canvas, x0, y0, x1, y1, c)
		drawMarker(canvas, x0, y0, c)
		drawMarker(canvas, x1, y1, c)
	}
	return canvas, nil
}

// drawSegment rasterises the segment (x0,y0)-(x1,y1) with Bresenham's
// algorithm, skipping pixels outside the image.
func drawSegment(img *image.NRGBA, x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	b := img.Bounds()
	for {
		if image.Pt(x0, y0).In(b) {
			img.Set(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// drawMarker outlines a 5x5 square centred on (x, y).
func drawMarker(img *image.NRGBA, x, y int, c color.Color) {
	b := img.Bounds()
	for d := -2; d <= 2; d++ {
		for _, p := range []image.Point{{x + d, y - 2}, {x + d, y + 2}, {x - 2, y + d}, {x + 2, y + d}} {
			if p.In(b) {
				img.Set(p.X, p.Y, c)
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
