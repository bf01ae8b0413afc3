package symmetry

import (
	"math"
	"sync"
)

// NormalizeOrientation converts a keypoint angle measured on the flipped
// image (degrees) into original-image terms: radians, reflected as π - a,
// and wrapped into [0, 2π).
func NormalizeOrientation(degrees float64) float64 {
	a := math.Mod(math.Pi-degrees*math.Pi/180.0, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	// A tiny negative remainder rounds up to 2π.
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

// NewMatchedPair builds a MatchedPair from a keypoint of the original image
// and its match in the horizontally flipped copy. width is the width of the
// flipped image. The mirrored x-coordinate is unflipped to width - x.
//
// Neither keypoint is modified.
func NewMatchedPair(origin, mirrored Keypoint, distance float64, width int) MatchedPair {
	pair := MatchedPair{
		Origin:   origin.Pt(),
		Mirrored: Point{X: float64(width) - mirrored.X, Y: mirrored.Y},
		Distance: distance,
	}
	if mirrored.HasAngle {
		pair.MirroredOrientation = NormalizeOrientation(mirrored.Angle)
	}
	return pair
}

// AngleWithXAxis returns the angle in [0, π) that the line through p and q
// subtends with the x-axis. A vertical line (equal x) gives exactly π/2.
func AngleWithXAxis(p, q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	if dx == 0 {
		return math.Pi / 2
	}
	angle := math.Atan(dy / dx)
	if angle < 0 {
		angle += math.Pi
	}
	// A tiny negative angle rounds up to π, which is the same line as 0.
	if angle >= math.Pi {
		angle = 0
	}
	return angle
}

// Midpoint returns the midpoint of the segment pq.
func Midpoint(p, q Point) Point {
	return Point{X: p.X/2 + q.X/2, Y: p.Y/2 + q.Y/2}
}

// VoteFor converts one pair into its polar vote.
//
// θ is the angle of the line joining the pair and r is the midpoint projected
// onto that direction: r = xc·cos θ + yc·sin θ.
func VoteFor(pair MatchedPair) PolarVote {
	theta := AngleWithXAxis(pair.Origin, pair.Mirrored)
	c := Midpoint(pair.Origin, pair.Mirrored)
	return PolarVote{
		R:     c.X*math.Cos(theta) + c.Y*math.Sin(theta),
		Theta: theta,
	}
}

// Votes converts every pair into a vote. The i-th vote belongs to the i-th
// pair. With workers > 1 the pairs are split into contiguous chunks that are
// transformed concurrently.
func Votes(pairs []MatchedPair, workers int) []PolarVote {
	votes := make([]PolarVote, len(pairs))
	if workers <= 1 || len(pairs) < 2*workers {
		for i, p := range pairs {
			votes[i] = VoteFor(p)
		}
		return votes
	}

	var wg sync.WaitGroup
	for _, span := range chunks(len(pairs), workers) {
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				votes[i] = VoteFor(pairs[i])
			}
		}(span[0], span[1])
	}
	wg.Wait()
	return votes
}

// chunks splits [0, n) into at most k contiguous half-open spans.
func chunks(n, k int) [][2]int {
	if k > n {
		k = n
	}
	if k < 1 {
		return nil
	}
	spans := make([][2]int, 0, k)
	size := (n + k - 1) / k
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		spans = append(spans, [2]int{lo, hi})
	}
	return spans
}
