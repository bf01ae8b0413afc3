//go:build !gocv

package features

import "github.com/ironsheep/symmetry-mcp/internal/symmetry"

// Backend names the feature backend compiled into this binary.
func Backend() string {
	return "harris"
}

// NewDetector returns the feature detector of the compiled backend.
// maxKeypoints caps the keypoints per image; <= 0 selects the default.
func NewDetector(maxKeypoints int) symmetry.FeatureDetector {
	return NewHarrisDetector(maxKeypoints)
}

// NewMatcher returns the descriptor matcher of the compiled backend.
func NewMatcher() symmetry.Matcher {
	return NewBruteForceMatcher()
}
