package features

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// luminance is a grayscale image as a row-major [y][x] grid of values in [0, 1].
type luminance [][]float64

// toLuminance blurs img with a Gaussian of the given radius and converts it to
// luminance values. A radius of zero skips the blur.
func toLuminance(img image.Image, radius float64) (luminance, int, int) {
	src := img
	if radius > 0 {
		src = blur.Gaussian(img, radius)
	}
	gray := effect.Grayscale(src)

	b := gray.Bounds()
	width, height := b.Dx(), b.Dy()
	lum := make(luminance, height)
	for y := 0; y < height; y++ {
		lum[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			lum[y][x] = float64(gray.RGBAAt(b.Min.X+x, b.Min.Y+y).R) / 255.0
		}
	}
	return lum, width, height
}

// at returns the value at (x, y) with coordinates clamped to the image.
func (l luminance) at(x, y int) float64 {
	y = clamp(y, 0, len(l)-1)
	x = clamp(x, 0, len(l[y])-1)
	return l[y][x]
}

// bilinear samples l at a fractional position, clamping at the borders.
func (l luminance) bilinear(x, y float64) float64 {
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	fx, fy := x-float64(x0), y-float64(y0)

	top := l.at(x0, y0)*(1-fx) + l.at(x0+1, y0)*fx
	bottom := l.at(x0, y0+1)*(1-fx) + l.at(x0+1, y0+1)*fx
	return top*(1-fy) + bottom*fy
}

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// gradients computes Sobel X and Y derivatives with replicated borders.
func (l luminance) gradients(width, height int) (gx, gy [][]float64) {
	gx = make([][]float64, height)
	gy = make([][]float64, height)
	for y := 0; y < height; y++ {
		gx[y] = make([]float64, width)
		gy[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var sx, sy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := l.at(x+kx, y+ky)
					sx += v * sobelX[ky+1][kx+1]
					sy += v * sobelY[ky+1][kx+1]
				}
			}
			gx[y][x] = sx
			gy[y][x] = sy
		}
	}
	return gx, gy
}

// gaussianWindow is a 5x5 Gaussian kernel (sigma ≈ 1.4), sum 273.
var gaussianWindow = [5][5]float64{
	{1, 4, 7, 4, 1},
	{4, 16, 26, 16, 4},
	{7, 26, 41, 26, 7},
	{4, 16, 26, 16, 4},
	{1, 4, 7, 4, 1},
}

// smooth convolves a grid with gaussianWindow, replicating border values.
func smooth(src [][]float64, width, height int) [][]float64 {
	out := make([][]float64, height)
	for y := 0; y < height; y++ {
		out[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var sum float64
			for ky := -2; ky <= 2; ky++ {
				py := clamp(y+ky, 0, height-1)
				for kx := -2; kx <= 2; kx++ {
					px := clamp(x+kx, 0, width-1)
					sum += src[py][px] * gaussianWindow[ky+2][kx+2]
				}
			}
			out[y][x] = sum / 273.0
		}
	}
	return out
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
