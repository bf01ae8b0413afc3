package symmetry

import "errors"

var (
	// ErrDegenerateInput is returned when there are no pairs to vote with.
	ErrDegenerateInput = errors.New("symmetry: no matched pairs to vote with")

	// ErrNoQualifyingAxis is returned when votes existed but every bin had
	// θ exactly 0 or π and a vertical solution was not requested.
	ErrNoQualifyingAxis = errors.New("symmetry: no bin with a non-degenerate angle")
)
