package catalog

import "errors"

var (
	ErrInvalidStats       = errors.New("invalid ship stats")
	ErrUnknownCategory    = errors.New("unknown ship category")
	ErrInvalidComposition = errors.New("invalid fleet composition")
)
