package symmetry

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Pipeline runs symmetry detection on whole images. Detector and Matcher are
// required; Renderer is optional.
type Pipeline struct {
	Detector FeatureDetector
	Matcher  Matcher
	Renderer Renderer

	// Vertical requests a vertical-axis solution, which disables the
	// exclusion of θ = 0 and θ = π bins.
	Vertical bool

	// MaxDimension downscales images whose width or height exceeds it before
	// feature detection. Zero disables downscaling.
	MaxDimension int

	// Options are passed through to Analyze.
	Options []Option

	// Logf receives debug messages. Nil disables them.
	Logf func(format string, args ...interface{})
}

// Detection is the result of running a Pipeline over one image.
type Detection struct {
	// Axis is expressed in the frame of the input image.
	Axis SymmetryAxis

	// Scale is the ratio of input width to working width (1 when the image
	// was not downscaled). Keypoints, pairs and votes are in working
	// coordinates.
	Scale float64

	Working   image.Image
	Reflected image.Image

	Original *Features
	Mirrored *Features
	Matches  []Match
	Pairs    []MatchedPair
	Analysis *Analysis
	Overlay  image.Image
}

// Run detects the mirror axis of img.
//
// When no features match, Run returns ErrDegenerateInput together with a
// Detection whose Analysis is nil. When the votes hold no qualifying axis, Run
// returns ErrNoQualifyingAxis together with a Detection carrying everything
// but the axis and overlay.
func (p *Pipeline) Run(img image.Image) (*Detection, error) {
	if p.Detector == nil || p.Matcher == nil {
		return nil, errors.New("pipeline requires a feature detector and a matcher")
	}

	working, scale := p.prepare(img)
	reflected := imaging.FlipH(working)

	orig, err := p.Detector.Detect(working)
	if err != nil {
		return nil, fmt.Errorf("failed to detect features in image: %w", err)
	}
	mirr, err := p.Detector.Detect(reflected)
	if err != nil {
		return nil, fmt.Errorf("failed to detect features in reflected image: %w", err)
	}
	if orig == nil {
		orig = &Features{}
	}
	if mirr == nil {
		mirr = &Features{}
	}
	p.logf("keypoints: original=%d reflected=%d", orig.Len(), mirr.Len())

	matches, err := p.Matcher.Match(orig.Descriptors, mirr.Descriptors)
	if err != nil {
		return nil, fmt.Errorf("failed to match descriptors: %w", err)
	}
	p.logf("matches: %d", len(matches))

	pairs, err := PairsFromMatches(orig, mirr, matches, reflected.Bounds().Dx())
	if err != nil {
		return nil, err
	}

	d := &Detection{
		Scale:     scale,
		Working:   working,
		Reflected: reflected,
		Original:  orig,
		Mirrored:  mirr,
		Matches:   matches,
		Pairs:     pairs,
	}

	analysis, err := Analyze(pairs, p.Vertical, p.Options...)
	if analysis == nil {
		return d, err
	}
	d.Analysis = analysis
	if err != nil {
		p.logf("no qualifying axis among %d bins", len(analysis.Bins))
		return d, err
	}

	d.Axis = analysis.Axis
	d.Axis.R *= scale
	p.logf("axis: %s (%d bins)", d.Axis, len(analysis.Bins))

	if p.Renderer != nil {
		overlay, err := p.Renderer.DrawAxis(img, d.Axis)
		if err != nil {
			return nil, fmt.Errorf("failed to render axis: %w", err)
		}
		d.Overlay = overlay
	}
	return d, nil
}

func (p *Pipeline) prepare(img image.Image) (image.Image, float64) {
	b := img.Bounds()
	if p.MaxDimension <= 0 || (b.Dx() <= p.MaxDimension && b.Dy() <= p.MaxDimension) {
		return img, 1
	}
	small := imaging.Fit(img, p.MaxDimension, p.MaxDimension, imaging.Lanczos)
	scale := float64(b.Dx()) / float64(small.Bounds().Dx())
	p.logf("downscaled %dx%d to %dx%d", b.Dx(), b.Dy(), small.Bounds().Dx(), small.Bounds().Dy())
	return small, scale
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	if p.Logf != nil {
		p.Logf(format, args...)
	}
}

// PairsFromMatches resolves matches against the keypoints of the original
// image (query side) and of its reflection (train side), producing one
// MatchedPair per match in match order. width is the reflected image width.
func PairsFromMatches(orig, mirr *Features, matches []Match, width int) ([]MatchedPair, error) {
	pairs := make([]MatchedPair, 0, len(matches))
	for i, m := range matches {
		if m.QueryIdx < 0 || m.QueryIdx >= orig.Len() {
			return nil, fmt.Errorf("match %d: query index %d out of range [0,%d)", i, m.QueryIdx, orig.Len())
		}
		if m.TrainIdx < 0 || m.TrainIdx >= mirr.Len() {
			return nil, fmt.Errorf("match %d: train index %d out of range [0,%d)", i, m.TrainIdx, mirr.Len())
		}
		pairs = append(pairs, NewMatchedPair(orig.Keypoints[m.QueryIdx], mirr.Keypoints[m.TrainIdx], m.Distance, width))
	}
	return pairs, nil
}
