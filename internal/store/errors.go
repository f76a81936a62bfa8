package store

import "errors"

var ErrShipTypeNotFound = errors.New("ship type not found")
