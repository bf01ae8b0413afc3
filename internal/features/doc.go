// Package features provides the keypoint detectors and descriptor matchers
// used to find candidate symmetric point-pairs.
//
// # Backends
//
// The default build uses a pure Go implementation:
//
//   - HarrisDetector: Harris corners with intensity-centroid orientation and
//     orientation-normalised 8x8 patch descriptors
//   - BruteForceMatcher: exhaustive L2 nearest-neighbour search
//
// Building with the gocv tag (go build -tags gocv) switches NewDetector and
// NewMatcher to OpenCV's SIFT detector and brute-force matcher through
// gocv.io/x/gocv. OpenCV 4 must be installed for that build.
//
// # Mirror Matching
//
// Symmetric features are found by detecting on an image and on its
// horizontally flipped copy, then matching each keypoint of the original to
// its nearest descriptor in the flipped copy. Descriptors are sampled in a
// frame rotated to the keypoint orientation, so a feature and its reflection
// about any axis produce similar descriptors once one of them has been
// flipped.
//
// # Coordinate System
//
// Keypoint coordinates are 0-based relative to the image bounds origin, with
// X increasing rightward and Y increasing downward. Angles are reported in
// degrees within [0, 360), following OpenCV's convention.
package features
