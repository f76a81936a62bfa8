package sim

import "errors"

var (
	ErrInvalidTrials = errors.New("trial count must be positive")
	ErrEmptyRequest  = errors.New("no fleets given")
)
