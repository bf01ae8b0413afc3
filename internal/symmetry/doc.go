// Package symmetry estimates the principal mirror-symmetry axis of an image
// from candidate symmetric point-pairs.
//
// The estimation is a voting procedure in the spirit of the Hough transform.
// Every matched pair of keypoints casts one vote for a line in Hesse normal
// form, the votes are binned into a sparse (r, θ) histogram, and the most
// supported bin becomes the axis.
//
// # Pipeline
//
//  1. Pair geometry: a keypoint in the original image and its match in the
//     horizontally flipped copy become a MatchedPair in the original frame,
//     and the pair becomes a PolarVote.
//  2. Accumulation: votes are binned on a grid spanning the observed range of
//     r and θ. Only non-empty bins are kept. Each bin reports the centroid of
//     the votes it received.
//  3. Selection: bins are ranked by count, and bins whose θ is exactly 0 or π
//     are skipped unless a vertical solution was requested.
//
// # Coordinate System
//
// Points use image pixel coordinates with the origin at the top-left corner,
// X increasing rightward and Y increasing downward. A point (x, y) lies on a
// SymmetryAxis iff x·cos θ + y·sin θ = r.
//
// # Angle Convention
//
// The vote angle θ is the angle that the line joining the two points of a pair
// subtends with the x-axis, normalised into [0, π). It is not the angle of the
// perpendicular bisector. Existing results depend on this convention.
//
// # Errors
//
// DetectAxis returns ErrDegenerateInput when no pairs are supplied and
// ErrNoQualifyingAxis when every candidate bin was excluded. Both are
// sentinel values for use with errors.Is.
//
// # Thread Safety
//
// All functions are pure. Separate runs share no state and can execute
// concurrently. An Accumulator is not safe for concurrent mutation.
package symmetry
