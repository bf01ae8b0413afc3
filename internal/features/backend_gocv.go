//go:build gocv

package features

import (
	"fmt"
	"image"
	"image/draw"
	"sort"

	"gocv.io/x/gocv"

	"github.com/ironsheep/symmetry-mcp/internal/symmetry"
)

// Backend names the feature backend compiled into this binary.
func Backend() string {
	return "gocv-sift"
}

// NewDetector returns an OpenCV SIFT detector keeping at most maxKeypoints
// keypoints per image (strongest first); <= 0 keeps all of them.
func NewDetector(maxKeypoints int) symmetry.FeatureDetector {
	return &SIFTDetector{MaxKeypoints: maxKeypoints}
}

// NewMatcher returns an OpenCV brute-force k=2 matcher.
func NewMatcher() symmetry.Matcher {
	return &BFMatcher{}
}

// SIFTDetector wraps gocv's SIFT implementation.
type SIFTDetector struct {
	MaxKeypoints int
}

// Detect implements symmetry.FeatureDetector.
func (d *SIFTDetector) Detect(img image.Image) (*symmetry.Features, error) {
	bgr, err := toBGRMat(img)
	if err != nil {
		return nil, err
	}
	defer bgr.Close()

	sift := gocv.NewSIFT()
	defer sift.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	kps, desc := sift.DetectAndCompute(bgr, mask)
	defer desc.Close()

	order := make([]int, len(kps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return kps[order[i]].Response > kps[order[j]].Response
	})
	if d.MaxKeypoints > 0 && len(order) > d.MaxKeypoints {
		order = order[:d.MaxKeypoints]
	}

	out := &symmetry.Features{}
	for _, i := range order {
		kp := kps[i]
		out.Keypoints = append(out.Keypoints, symmetry.Keypoint{
			X:        kp.X,
			Y:        kp.Y,
			Angle:    kp.Angle,
			HasAngle: kp.Angle >= 0,
			Response: kp.Response,
		})
		row := make([]float64, desc.Cols())
		for c := range row {
			row[c] = float64(desc.GetFloatAt(i, c))
		}
		out.Descriptors = append(out.Descriptors, row)
	}
	return out, nil
}

// BFMatcher wraps gocv's brute-force matcher with a k=2 search, keeping the
// nearest neighbour only.
type BFMatcher struct{}

// Match implements symmetry.Matcher.
func (m *BFMatcher) Match(query, train [][]float64) ([]symmetry.Match, error) {
	if len(query) == 0 || len(train) == 0 {
		return nil, nil
	}
	q, err := toFloatMat(query)
	if err != nil {
		return nil, fmt.Errorf("query descriptors: %w", err)
	}
	defer q.Close()
	t, err := toFloatMat(train)
	if err != nil {
		return nil, fmt.Errorf("train descriptors: %w", err)
	}
	defer t.Close()

	bf := gocv.NewBFMatcher()
	defer bf.Close()

	knn := bf.KnnMatch(q, t, 2)
	matches := make([]symmetry.Match, 0, len(knn))
	for _, nn := range knn {
		if len(nn) == 0 {
			continue
		}
		matches = append(matches, symmetry.Match{
			QueryIdx: nn[0].QueryIdx,
			TrainIdx: nn[0].TrainIdx,
			Distance: nn[0].Distance,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	return matches, nil
}

func toBGRMat(img image.Image) (gocv.Mat, error) {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	mat, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC4, rgba.Pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR)
	return bgr, nil
}

func toFloatMat(rows [][]float64) (gocv.Mat, error) {
	cols := len(rows[0])
	m := gocv.NewMatWithSize(len(rows), cols, gocv.MatTypeCV32F)
	for r, row := range rows {
		if len(row) != cols {
			m.Close()
			return gocv.NewMat(), fmt.Errorf("descriptor %d has length %d, want %d", r, len(row), cols)
		}
		for c, v := range row {
			m.SetFloatAt(r, c, float32(v))
		}
	}
	return m, nil
}
