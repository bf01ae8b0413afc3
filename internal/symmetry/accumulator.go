package symmetry

import (
	"fmt"
	"sort"
	"sync"
)

// DefaultDivisions is the number of grid divisions along each axis of the
// (r, θ) histogram.
const DefaultDivisions = 200

// Cell is the integer grid coordinate of a histogram bin.
type Cell struct {
	R     int `json:"r"`
	Theta int `json:"theta"`
}

// Bin is a non-empty histogram cell. R and Theta are the centroid of the
// votes that fell into the cell.
type Bin struct {
	Cell  Cell    `json:"cell"`
	R     float64 `json:"r"`
	Theta float64 `json:"theta"`
	Count int     `json:"count"`
}

// Grid partitions (r, θ) space into Divisions×Divisions cells spanning
// [RMin, RMax] × [ThetaMin, ThetaMax]. The upper bound of each range belongs
// to the last cell.
type Grid struct {
	Divisions int     `json:"divisions"`
	RMin      float64 `json:"r_min"`
	RMax      float64 `json:"r_max"`
	ThetaMin  float64 `json:"theta_min"`
	ThetaMax  float64 `json:"theta_max"`
}

// GridFor returns a grid spanning the observed range of votes. A divisions
// value below 1 selects DefaultDivisions.
func GridFor(votes []PolarVote, divisions int) Grid {
	if divisions < 1 {
		divisions = DefaultDivisions
	}
	g := Grid{Divisions: divisions}
	for i, v := range votes {
		if i == 0 {
			g.RMin, g.RMax = v.R, v.R
			g.ThetaMin, g.ThetaMax = v.Theta, v.Theta
			continue
		}
		if v.R < g.RMin {
			g.RMin = v.R
		}
		if v.R > g.RMax {
			g.RMax = v.R
		}
		if v.Theta < g.ThetaMin {
			g.ThetaMin = v.Theta
		}
		if v.Theta > g.ThetaMax {
			g.ThetaMax = v.Theta
		}
	}
	return g
}

// CellOf returns the cell containing v. Values outside the grid are clamped
// to the border cells.
func (g Grid) CellOf(v PolarVote) Cell {
	return Cell{
		R:     quantize(v.R, g.RMin, g.RMax, g.Divisions),
		Theta: quantize(v.Theta, g.ThetaMin, g.ThetaMax, g.Divisions),
	}
}

func quantize(v, lo, hi float64, n int) int {
	if hi <= lo {
		return 0
	}
	i := int((v - lo) / (hi - lo) * float64(n))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Accumulator is a sparse (r, θ) vote histogram over a fixed Grid.
type Accumulator struct {
	grid  Grid
	bins  map[Cell]*Bin
	total int
}

// NewAccumulator returns an empty accumulator over grid.
func NewAccumulator(grid Grid) *Accumulator {
	if grid.Divisions < 1 {
		grid.Divisions = DefaultDivisions
	}
	return &Accumulator{
		grid: grid,
		bins: make(map[Cell]*Bin),
	}
}

// Grid returns the grid the accumulator bins over.
func (a *Accumulator) Grid() Grid {
	return a.grid
}

// Add casts one vote. The bin centroid is a running mean, so a bin that only
// ever receives identical votes reports that exact value.
func (a *Accumulator) Add(v PolarVote) {
	cell := a.grid.CellOf(v)
	a.total++

	b, ok := a.bins[cell]
	if !ok {
		a.bins[cell] = &Bin{Cell: cell, R: v.R, Theta: v.Theta, Count: 1}
		return
	}
	b.Count++
	b.R += (v.R - b.R) / float64(b.Count)
	b.Theta += (v.Theta - b.Theta) / float64(b.Count)
}

// Merge folds the counts of other into a. Both accumulators must share the
// same grid.
func (a *Accumulator) Merge(other *Accumulator) error {
	if other.grid != a.grid {
		return fmt.Errorf("cannot merge accumulators over different grids: %+v vs %+v", a.grid, other.grid)
	}

	// Visit cells in a fixed order so that repeated merges are reproducible.
	for _, ob := range other.Bins() {
		a.total += ob.Count
		b, ok := a.bins[ob.Cell]
		if !ok {
			cp := ob
			a.bins[ob.Cell] = &cp
			continue
		}
		n := b.Count + ob.Count
		w := float64(ob.Count) / float64(n)
		b.R += (ob.R - b.R) * w
		b.Theta += (ob.Theta - b.Theta) * w
		b.Count = n
	}
	return nil
}

// Total returns the number of votes cast.
func (a *Accumulator) Total() int {
	return a.total
}

// Len returns the number of non-empty bins.
func (a *Accumulator) Len() int {
	return len(a.bins)
}

// Bins returns a copy of the non-empty bins ordered by cell (R index, then
// Theta index).
func (a *Accumulator) Bins() []Bin {
	out := make([]Bin, 0, len(a.bins))
	for _, b := range a.bins {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cell.R != out[j].Cell.R {
			return out[i].Cell.R < out[j].Cell.R
		}
		return out[i].Cell.Theta < out[j].Cell.Theta
	})
	return out
}

// Accumulate bins votes on a grid spanning their observed range.
//
// Votes are put into a canonical order (by R, then Theta) before binning, so
// any permutation of the same votes yields bit-identical bins. With
// workers > 1 the ordered votes are split into contiguous chunks, each chunk
// fills a partial accumulator concurrently, and the partials are merged in
// chunk order.
func Accumulate(votes []PolarVote, divisions, workers int) *Accumulator {
	grid := GridFor(votes, divisions)

	sorted := make([]PolarVote, len(votes))
	copy(sorted, votes)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].R != sorted[j].R {
			return sorted[i].R < sorted[j].R
		}
		return sorted[i].Theta < sorted[j].Theta
	})

	acc := NewAccumulator(grid)
	if workers <= 1 || len(sorted) < 2*workers {
		for _, v := range sorted {
			acc.Add(v)
		}
		return acc
	}

	spans := chunks(len(sorted), workers)
	partials := make([]*Accumulator, len(spans))
	var wg sync.WaitGroup
	for i, span := range spans {
		wg.Add(1)
		go func(i, lo, hi int) {
			defer wg.Done()
			p := NewAccumulator(grid)
			for _, v := range sorted[lo:hi] {
				p.Add(v)
			}
			partials[i] = p
		}(i, span[0], span[1])
	}
	wg.Wait()

	for _, p := range partials {
		if err := acc.Merge(p); err != nil {
			panic(err) // partials share acc's grid
		}
	}
	return acc
}
