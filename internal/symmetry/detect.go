package symmetry

import (
	"gonum.org/v1/gonum/stat"
)

// Options tune a detection run.
type Options struct {
	// Divisions is the number of histogram divisions along each axis.
	Divisions int

	// Workers is the number of goroutines used to transform and bin votes.
	// Values below 2 run sequentially.
	Workers int
}

// Option configures a detection run.
type Option func(*Options)

// WithDivisions sets the histogram resolution.
func WithDivisions(n int) Option {
	return func(o *Options) { o.Divisions = n }
}

// WithWorkers sets the number of goroutines used for voting.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

func buildOptions(opts []Option) Options {
	o := Options{Divisions: DefaultDivisions, Workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Divisions < 1 {
		o.Divisions = DefaultDivisions
	}
	return o
}

// Analysis holds the intermediate products of a detection run.
type Analysis struct {
	Votes []PolarVote `json:"votes"`
	Grid  Grid        `json:"grid"`

	// Bins are ranked as by Rank.
	Bins []Bin        `json:"bins"`
	Axis SymmetryAxis `json:"axis"`
}

// Analyze runs the vote-and-select procedure over pairs and keeps the votes
// and ranked bins alongside the chosen axis.
//
// When no bin qualifies, Analyze returns ErrNoQualifyingAxis together with
// the analysis, whose Axis is left zero.
func Analyze(pairs []MatchedPair, vertical bool, opts ...Option) (*Analysis, error) {
	if len(pairs) == 0 {
		return nil, ErrDegenerateInput
	}
	o := buildOptions(opts)

	votes := Votes(pairs, o.Workers)
	acc := Accumulate(votes, o.Divisions, o.Workers)
	ranked := Rank(acc.Bins())

	a := &Analysis{
		Votes: votes,
		Grid:  acc.Grid(),
		Bins:  ranked,
	}
	axis, err := SelectAxis(ranked, vertical)
	if err != nil {
		return a, err
	}
	a.Axis = axis
	return a, nil
}

// DetectAxis returns the best-supported mirror axis for pairs.
//
// It fails with ErrDegenerateInput when pairs is empty and with
// ErrNoQualifyingAxis when vertical is false and every bin has θ exactly 0
// or π.
func DetectAxis(pairs []MatchedPair, vertical bool, opts ...Option) (SymmetryAxis, error) {
	a, err := Analyze(pairs, vertical, opts...)
	if err != nil {
		return SymmetryAxis{}, err
	}
	return a.Axis, nil
}

// VoteSummary describes the spread of a vote set.
type VoteSummary struct {
	Count       int     `json:"count"`
	MeanR       float64 `json:"mean_r"`
	StdDevR     float64 `json:"stddev_r"`
	MeanTheta   float64 `json:"mean_theta"`
	StdDevTheta float64 `json:"stddev_theta"`
}

// Summarize returns the mean and standard deviation of r and θ over votes.
// Standard deviations are zero for fewer than two votes.
func Summarize(votes []PolarVote) VoteSummary {
	s := VoteSummary{Count: len(votes)}
	if len(votes) == 0 {
		return s
	}
	rs := make([]float64, len(votes))
	thetas := make([]float64, len(votes))
	for i, v := range votes {
		rs[i] = v.R
		thetas[i] = v.Theta
	}
	if len(votes) == 1 {
		s.MeanR, s.MeanTheta = rs[0], thetas[0]
		return s
	}
	s.MeanR, s.StdDevR = stat.MeanStdDev(rs, nil)
	s.MeanTheta, s.StdDevTheta = stat.MeanStdDev(thetas, nil)
	return s
}
