package symmetry

import (
	"fmt"
	"image"
	"math"
)

// Point is a 2D coordinate in image pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Keypoint is a distinctive image location reported by a FeatureDetector.
type Keypoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Angle is the keypoint orientation in degrees, as reported by the
	// detector. Only meaningful when HasAngle is set.
	Angle    float64 `json:"angle"`
	HasAngle bool    `json:"has_angle"`

	// Response is the detector strength. Larger is stronger.
	Response float64 `json:"response"`
}

// Pt returns the keypoint location.
func (k Keypoint) Pt() Point {
	return Point{X: k.X, Y: k.Y}
}

// Features is the output of a FeatureDetector: one descriptor per keypoint,
// all descriptors of equal length.
type Features struct {
	Keypoints   []Keypoint
	Descriptors [][]float64
}

// Len returns the number of keypoints.
func (f *Features) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Keypoints)
}

// Match links a query descriptor (original image) to a train descriptor
// (reflected image).
type Match struct {
	QueryIdx int     `json:"query_idx"`
	TrainIdx int     `json:"train_idx"`
	Distance float64 `json:"distance"`
}

// MatchedPair is a candidate pair of symmetric points, both expressed in the
// original image frame.
type MatchedPair struct {
	Origin   Point `json:"origin"`
	Mirrored Point `json:"mirrored"`

	// MirroredOrientation is the mirrored keypoint's orientation reinterpreted
	// in original-image terms, in radians within [0, 2π). Voting does not read it.
	MirroredOrientation float64 `json:"mirrored_orientation"`

	// Distance is the descriptor distance reported by the matcher. Lower is better.
	Distance float64 `json:"distance"`
}

// PolarVote is one candidate line in Hesse normal form, Theta in [0, π).
type PolarVote struct {
	R     float64 `json:"r"`
	Theta float64 `json:"theta"`
}

// SymmetryAxis is the detected mirror line: x·cos(Theta) + y·sin(Theta) = R.
type SymmetryAxis struct {
	R     float64 `json:"r"`
	Theta float64 `json:"theta"`
	Votes int     `json:"votes"`
}

func (a SymmetryAxis) String() string {
	return fmt.Sprintf("r=%.3f theta=%.4f votes=%d", a.R, a.Theta, a.Votes)
}

// Translate moves an axis detected inside a cropped region into the
// enclosing image frame. offset is the region's top-left corner.
func (a SymmetryAxis) Translate(offset image.Point) SymmetryAxis {
	return SymmetryAxis{
		R:     a.R + float64(offset.X)*math.Cos(a.Theta) + float64(offset.Y)*math.Sin(a.Theta),
		Theta: a.Theta,
		Votes: a.Votes,
	}
}

// FeatureDetector finds keypoints and descriptors in an image.
type FeatureDetector interface {
	Detect(img image.Image) (*Features, error)
}

// Matcher pairs query descriptors with train descriptors. Implementations
// return at most one match per query descriptor, sorted by ascending distance.
type Matcher interface {
	Match(query, train [][]float64) ([]Match, error)
}

// Renderer draws a symmetry axis onto a copy of an image. Pixels of the line
// that fall outside the image are skipped.
type Renderer interface {
	DrawAxis(img image.Image, axis SymmetryAxis) (image.Image, error)
}
