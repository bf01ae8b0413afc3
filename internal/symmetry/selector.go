package symmetry

import (
	"math"
	"sort"
)

// Rank returns a copy of bins sorted by count, highest first.
//
// Equal counts are ordered by centroid R ascending, then centroid Theta
// ascending, then by cell. The order therefore depends only on the bins
// themselves, never on map iteration or merge order.
func Rank(bins []Bin) []Bin {
	ranked := make([]Bin, len(bins))
	copy(ranked, bins)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.R != b.R {
			return a.R < b.R
		}
		if a.Theta != b.Theta {
			return a.Theta < b.Theta
		}
		if a.Cell.R != b.Cell.R {
			return a.Cell.R < b.Cell.R
		}
		return a.Cell.Theta < b.Cell.Theta
	})
	return ranked
}

// Excluded reports whether theta is one of the degenerate angles, exactly 0
// or exactly π, that the selector skips when no vertical solution is
// requested.
func Excluded(theta float64) bool {
	return theta == 0 || theta == math.Pi
}

// SelectAxis picks the axis from the histogram bins.
//
// With vertical set, the highest ranked bin wins unconditionally. Otherwise
// the first ranked bin whose angle is not excluded wins. SelectAxis returns
// ErrDegenerateInput for an empty histogram and ErrNoQualifyingAxis when
// every bin is excluded.
func SelectAxis(bins []Bin, vertical bool) (SymmetryAxis, error) {
	if len(bins) == 0 {
		return SymmetryAxis{}, ErrDegenerateInput
	}
	for _, b := range Rank(bins) {
		if !vertical && Excluded(b.Theta) {
			continue
		}
		return SymmetryAxis{R: b.R, Theta: b.Theta, Votes: b.Count}, nil
	}
	return SymmetryAxis{}, ErrNoQualifyingAxis
}
