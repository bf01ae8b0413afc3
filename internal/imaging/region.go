package imaging

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// ParseRegion resolves a region specification against an image of the given
// size. The result is 0-based relative to the image origin.
//
// Accepted forms are the named regions "full", "top-left", "top-right",
// "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half",
// "right-half" and "center" (the middle 50%), or explicit pixel coordinates
// "x1,y1,x2,y2" with (x1,y1) inclusive and (x2,y2) exclusive.
func ParseRegion(width, height int, spec string) (image.Rectangle, error) {
	midX, midY := width/2, height/2

	switch strings.TrimSpace(spec) {
	case "", "full":
		return image.Rect(0, 0, width, height), nil
	case "top-left":
		return image.Rect(0, 0, midX, midY), nil
	case "top-right":
		return image.Rect(midX, 0, width, midY), nil
	case "bottom-left":
		return image.Rect(0, midY, midX, height), nil
	case "bottom-right":
		return image.Rect(midX, midY, width, height), nil
	case "top-half":
		return image.Rect(0, 0, width, midY), nil
	case "bottom-half":
		return image.Rect(0, midY, width, height), nil
	case "left-half":
		return image.Rect(0, 0, midX, height), nil
	case "right-half":
		return image.Rect(midX, 0, width, height), nil
	case "center":
		qW, qH := width/4, height/4
		return image.Rect(qW, qH, width-qW, height-qH), nil
	}

	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("unknown region: %s", spec)
	}
	var c [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid region coordinate %q: %w", p, err)
		}
		c[i] = v
	}
	x1, y1, x2, y2 := c[0], c[1], c[2], c[3]
	if x1 < 0 || y1 < 0 || x2 > width || y2 > height {
		return image.Rectangle{}, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			x1, y1, x2, y2, width, height)
	}
	if x1 >= x2 || y1 >= y2 {
		return image.Rectangle{}, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
	}
	return image.Rect(x1, y1, x2, y2), nil
}

// CropRegion returns the part of img covered by r, given relative to the
// image origin. The result has its origin at (0, 0).
func CropRegion(img image.Image, r image.Rectangle) (image.Image, error) {
	bounds := img.Bounds()
	if r.Empty() {
		return nil, fmt.Errorf("empty crop region %v", r)
	}
	abs := r.Add(bounds.Min)
	if !abs.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", abs, bounds)
	}
	return imaging.Crop(img, abs), nil
}
