package combat

import "errors"

var (
	ErrUnknownShipType = errors.New("unknown ship type")
	ErrInvalidCount    = errors.New("invalid ship count")
)
