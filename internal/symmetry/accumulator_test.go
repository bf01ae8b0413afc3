package symmetry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestGridFor(t *testing.T) {
	votes := []PolarVote{{R: 10, Theta: 0.5}, {R: -4, Theta: 2}, {R: 7, Theta: 0.1}}

	g := GridFor(votes, 0)

	want := Grid{Divisions: DefaultDivisions, RMin: -4, RMax: 10, ThetaMin: 0.1, ThetaMax: 2}
	if g != want {
		t.Errorf("GridFor: got %+v, want %+v", g, want)
	}
}

func TestGrid_CellOf(t *testing.T) {
	g := Grid{Divisions: 10, RMin: 0, RMax: 100, ThetaMin: 0, ThetaMax: 1}

	tests := []struct {
		name string
		vote PolarVote
		want Cell
	}{
		{"lower corner", PolarVote{0, 0}, Cell{0, 0}},
		{"upper bound lands in last cell", PolarVote{100, 1}, Cell{9, 9}},
		{"interior", PolarVote{55, 0.25}, Cell{5, 2}},
		{"below range clamps", PolarVote{-5, -1}, Cell{0, 0}},
		{"above range clamps", PolarVote{500, 9}, Cell{9, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.CellOf(tt.vote); got != tt.want {
				t.Errorf("CellOf(%v): got %v, want %v", tt.vote, got, tt.want)
			}
		})
	}
}

func TestGrid_CellOfDegenerateSpan(t *testing.T) {
	g := GridFor([]PolarVote{{R: 3, Theta: 1}, {R: 3, Theta: 1}}, 50)
	if got := g.CellOf(PolarVote{R: 3, Theta: 1}); got != (Cell{0, 0}) {
		t.Errorf("CellOf on a zero-width grid: got %v, want {0 0}", got)
	}
}

func TestAccumulate_CountsAreConserved(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for _, n := range []int{0, 1, 2, 17, 1000} {
		votes := Votes(randomPairs(rng, n), 1)
		for _, workers := range []int{1, 4} {
			acc := Accumulate(votes, DefaultDivisions, workers)

			if acc.Total() != n {
				t.Errorf("n=%d workers=%d: Total() = %d", n, workers, acc.Total())
			}
			sum := 0
			for _, b := range acc.Bins() {
				if b.Count < 1 {
					t.Errorf("n=%d workers=%d: empty bin %+v reported", n, workers, b)
				}
				sum += b.Count
			}
			if sum != n {
				t.Errorf("n=%d workers=%d: bin counts sum to %d", n, workers, sum)
			}
		}
	}
}

func TestAccumulate_IdenticalVotesKeepExactCentroid(t *testing.T) {
	votes := []PolarVote{{R: 0.1, Theta: 0.3}, {R: 0.1, Theta: 0.3}, {R: 0.1, Theta: 0.3}, {R: 9, Theta: 2}}

	acc := Accumulate(votes, 10, 1)

	bins := Rank(acc.Bins())
	if bins[0].Count != 3 {
		t.Fatalf("top bin count: got %d, want 3", bins[0].Count)
	}
	if bins[0].R != 0.1 || bins[0].Theta != 0.3 {
		t.Errorf("centroid drifted: got (%v, %v), want (0.1, 0.3)", bins[0].R, bins[0].Theta)
	}
}

func TestAccumulate_Centroid(t *testing.T) {
	// Both low votes share a cell on a 2x2 grid; the high vote sits alone.
	votes := []PolarVote{{R: 0, Theta: 0}, {R: 2, Theta: 0.2}, {R: 10, Theta: 1}}

	acc := Accumulate(votes, 2, 1)

	want := []Bin{
		{Cell: Cell{0, 0}, R: 1, Theta: 0.1, Count: 2},
		{Cell: Cell{1, 1}, R: 10, Theta: 1, Count: 1},
	}
	if diff := cmp.Diff(want, acc.Bins(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Bins() mismatch (-want +got):\n%s", diff)
	}
}

func TestAccumulate_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	votes := Votes(randomPairs(rng, 500), 1)
	want := Accumulate(votes, 40, 1).Bins()

	for i := 0; i < 5; i++ {
		shuffled := make([]PolarVote, len(votes))
		copy(shuffled, votes)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		if diff := cmp.Diff(want, Accumulate(shuffled, 40, 1).Bins()); diff != "" {
			t.Fatalf("shuffle %d changed the bins (-want +got):\n%s", i, diff)
		}
	}
}

func TestAccumulate_WorkersAgreeWithSequential(t *testing.T) {
	votes := Votes(randomPairs(rand.New(rand.NewSource(5)), 2000), 1)

	seq := Accumulate(votes, 25, 1).Bins()
	par := Accumulate(votes, 25, 6).Bins()

	if diff := cmp.Diff(seq, par, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("parallel accumulation differs (-sequential +parallel):\n%s", diff)
	}
}

func TestAccumulator_Merge(t *testing.T) {
	grid := Grid{Divisions: 4, RMin: 0, RMax: 4, ThetaMin: 0, ThetaMax: 1}

	a := NewAccumulator(grid)
	a.Add(PolarVote{R: 0.5, Theta: 0.1})
	a.Add(PolarVote{R: 0.5, Theta: 0.1})

	b := NewAccumulator(grid)
	b.Add(PolarVote{R: 0.9, Theta: 0.2})
	b.Add(PolarVote{R: 3.5, Theta: 0.9})

	if err := a.Merge(b); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if a.Total() != 4 {
		t.Errorf("Total: got %d, want 4", a.Total())
	}
	if a.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", a.Len())
	}

	low := a.Bins()[0]
	if low.Count != 3 {
		t.Errorf("merged bin count: got %d, want 3", low.Count)
	}
	wantR := (0.5 + 0.5 + 0.9) / 3
	if math.Abs(low.R-wantR) > 1e-12 {
		t.Errorf("merged centroid R: got %v, want %v", low.R, wantR)
	}
}

func TestAccumulator_MergeRejectsDifferentGrid(t *testing.T) {
	a := NewAccumulator(Grid{Divisions: 4, RMax: 1, ThetaMax: 1})
	b := NewAccumulator(Grid{Divisions: 8, RMax: 1, ThetaMax: 1})

	if err := a.Merge(b); err == nil {
		t.Error("Merge of accumulators over different grids should fail")
	}
}

func TestNewAccumulator_DefaultDivisions(t *testing.T) {
	acc := NewAccumulator(Grid{})
	if acc.Grid().Divisions != DefaultDivisions {
		t.Errorf("Divisions: got %d, want %d", acc.Grid().Divisions, DefaultDivisions)
	}
}
