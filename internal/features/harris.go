package features

import (
	"image"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/symmetry-mcp/internal/symmetry"
)

// Default HarrisDetector parameters.
const (
	DefaultMaxKeypoints = 500
	DefaultBlurRadius   = 1.0
	DefaultThreshold    = 0.01

	harrisK = 0.04

	// patchRadius is the half-size of the descriptor window.
	patchRadius = 8
	// descriptorGrid is the number of samples along each side of the window.
	descriptorGrid = 8
)

// DescriptorLength is the length of HarrisDetector descriptors.
const DescriptorLength = descriptorGrid * descriptorGrid

// HarrisDetector finds Harris corners and describes them with rotated,
// normalised intensity patches.
//
// The zero value is not usable; construct with NewHarrisDetector.
type HarrisDetector struct {
	// MaxKeypoints caps the number of keypoints, strongest first.
	MaxKeypoints int

	// BlurRadius is the Gaussian radius applied before corner detection.
	BlurRadius float64

	// Threshold is the minimum corner response relative to the strongest
	// response in the image, in (0, 1].
	Threshold float64
}

// NewHarrisDetector returns a detector with default parameters and the given
// keypoint cap. maxKeypoints <= 0 selects DefaultMaxKeypoints.
func NewHarrisDetector(maxKeypoints int) *HarrisDetector {
	if maxKeypoints <= 0 {
		maxKeypoints = DefaultMaxKeypoints
	}
	return &HarrisDetector{
		MaxKeypoints: maxKeypoints,
		BlurRadius:   DefaultBlurRadius,
		Threshold:    DefaultThreshold,
	}
}

type corner struct {
	x, y     int
	response float64
}

// Detect implements symmetry.FeatureDetector.
//
// Keypoints closer than the descriptor window to the border are discarded.
// An image without corners yields empty Features and no error.
func (d *HarrisDetector) Detect(img image.Image) (*symmetry.Features, error) {
	lum, width, height := toLuminance(img, d.BlurRadius)
	out := &symmetry.Features{}
	margin := patchRadius + 1
	if width <= 2*margin || height <= 2*margin {
		return out, nil
	}

	response := harrisResponse(lum, width, height)

	peak := 0.0
	for y := margin; y < height-margin; y++ {
		for x := margin; x < width-margin; x++ {
			if response[y][x] > peak {
				peak = response[y][x]
			}
		}
	}
	if peak <= 0 {
		return out, nil
	}
	threshold := peak * d.Threshold

	// Non-maximum suppression over 3x3 neighbourhoods.
	corners := make([]corner, 0)
	for y := margin; y < height-margin; y++ {
		for x := margin; x < width-margin; x++ {
			r := response[y][x]
			if r < threshold || !isLocalMax(response, x, y) {
				continue
			}
			corners = append(corners, corner{x: x, y: y, response: r})
		}
	}

	sort.Slice(corners, func(i, j int) bool {
		if corners[i].response != corners[j].response {
			return corners[i].response > corners[j].response
		}
		if corners[i].y != corners[j].y {
			return corners[i].y < corners[j].y
		}
		return corners[i].x < corners[j].x
	})
	if d.MaxKeypoints > 0 && len(corners) > d.MaxKeypoints {
		corners = corners[:d.MaxKeypoints]
	}

	for _, c := range corners {
		angle := orientation(lum, c.x, c.y)
		out.Keypoints = append(out.Keypoints, symmetry.Keypoint{
			X:        float64(c.x),
			Y:        float64(c.y),
			Angle:    angle * 180 / math.Pi,
			HasAngle: true,
			Response: c.response,
		})
		out.Descriptors = append(out.Descriptors, describe(lum, c.x, c.y, angle))
	}
	return out, nil
}

// harrisResponse returns det(M) - k·trace(M)² for the Gaussian-weighted
// structure tensor M at every pixel.
func harrisResponse(lum luminance, width, height int) [][]float64 {
	gx, gy := lum.gradients(width, height)

	xx := make([][]float64, height)
	yy := make([][]float64, height)
	xy := make([][]float64, height)
	for y := 0; y < height; y++ {
		xx[y] = make([]float64, width)
		yy[y] = make([]float64, width)
		xy[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			xx[y][x] = gx[y][x] * gx[y][x]
			yy[y][x] = gy[y][x] * gy[y][x]
			xy[y][x] = gx[y][x] * gy[y][x]
		}
	}
	xx = smooth(xx, width, height)
	yy = smooth(yy, width, height)
	xy = smooth(xy, width, height)

	response := make([][]float64, height)
	for y := 0; y < height; y++ {
		response[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			det := xx[y][x]*yy[y][x] - xy[y][x]*xy[y][x]
			trace := xx[y][x] + yy[y][x]
			response[y][x] = det - harrisK*trace*trace
		}
	}
	return response
}

// isLocalMax reports whether response[y][x] is not exceeded by any of its
// eight neighbours. Plateaus keep only their top-left pixel.
func isLocalMax(response [][]float64, x, y int) bool {
	r := response[y][x]
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := response[y+dy][x+dx]
			if n > r {
				return false
			}
			// Earlier neighbours in scan order win ties.
			if n == r && (dy < 0 || (dy == 0 && dx < 0)) {
				return false
			}
		}
	}
	return true
}

// orientation returns the intensity-centroid angle of the disc of radius
// patchRadius around (cx, cy), in radians within [0, 2π).
func orientation(lum luminance, cx, cy int) float64 {
	var m10, m01 float64
	for dy := -patchRadius; dy <= patchRadius; dy++ {
		for dx := -patchRadius; dx <= patchRadius; dx++ {
			if dx*dx+dy*dy > patchRadius*patchRadius {
				continue
			}
			v := lum.at(cx+dx, cy+dy)
			m10 += float64(dx) * v
			m01 += float64(dy) * v
		}
	}
	a := math.Atan2(m01, m10)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// describe samples a descriptorGrid×descriptorGrid patch around (cx, cy) in a
// frame rotated by angle, then normalises it to zero mean and unit L2 norm.
// A flat patch yields the zero vector.
func describe(lum luminance, cx, cy int, angle float64) []float64 {
	cos, sin := math.Cos(angle), math.Sin(angle)
	step := 2 * float64(patchRadius) / float64(descriptorGrid)
	start := -float64(patchRadius) + step/2

	desc := make([]float64, 0, DescriptorLength)
	for j := 0; j < descriptorGrid; j++ {
		v := start + float64(j)*step
		for i := 0; i < descriptorGrid; i++ {
			u := start + float64(i)*step
			x := float64(cx) + u*cos - v*sin
			y := float64(cy) + u*sin + v*cos
			desc = append(desc, lum.bilinear(x, y))
		}
	}

	floats.AddConst(-floats.Sum(desc)/float64(len(desc)), desc)
	if norm := floats.Norm(desc, 2); norm > 1e-12 {
		floats.Scale(1/norm, desc)
	} else {
		for i := range desc {
			desc[i] = 0
		}
	}
	return desc
}
