package features

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/symmetry-mcp/internal/symmetry"
)

// BruteForceMatcher finds the K nearest train descriptors of every query
// descriptor by exhaustive L2 search and keeps only the nearest one.
//
// The second neighbour of a k=2 search is the same correspondence seen from
// the other side of the mirror, so keeping it would count a location twice.
type BruteForceMatcher struct {
	// K is the number of neighbours searched per query. Values below 1 mean 1.
	K int
}

// NewBruteForceMatcher returns a matcher performing a k=2 search.
func NewBruteForceMatcher() *BruteForceMatcher {
	return &BruteForceMatcher{K: 2}
}

type neighbour struct {
	idx  int
	dist float64
}

// Match implements symmetry.Matcher. The result holds at most one match per
// query descriptor, sorted by ascending distance; equal distances keep query
// order.
func (m *BruteForceMatcher) Match(query, train [][]float64) ([]symmetry.Match, error) {
	if len(query) == 0 || len(train) == 0 {
		return nil, nil
	}
	dim := len(train[0])
	for i, d := range train {
		if len(d) != dim {
			return nil, fmt.Errorf("train descriptor %d has length %d, want %d", i, len(d), dim)
		}
	}

	k := m.K
	if k < 1 {
		k = 1
	}

	matches := make([]symmetry.Match, 0, len(query))
	for qi, q := range query {
		if len(q) != dim {
			return nil, fmt.Errorf("query descriptor %d has length %d, want %d", qi, len(q), dim)
		}
		nearest := knn(q, train, k)
		matches = append(matches, symmetry.Match{
			QueryIdx: qi,
			TrainIdx: nearest[0].idx,
			Distance: nearest[0].dist,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	return matches, nil
}

// knn returns the k nearest train descriptors to q, nearest first. Equal
// distances prefer the lower train index. train must not be empty.
func knn(q []float64, train [][]float64, k int) []neighbour {
	if k > len(train) {
		k = len(train)
	}
	best := make([]neighbour, 0, k+1)
	for ti, t := range train {
		d := floats.Distance(q, t, 2)
		if len(best) == k && d >= best[k-1].dist {
			continue
		}
		pos := sort.Search(len(best), func(i int) bool { return best[i].dist > d })
		best = append(best, neighbour{})
		copy(best[pos+1:], best[pos:])
		best[pos] = neighbour{idx: ti, dist: d}
		if len(best) > k {
			best = best[:k]
		}
	}
	return best
}
