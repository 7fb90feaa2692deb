package game

import "errors"

var (
	ErrOutOfBounds        = errors.New("coordinate out of bounds")
	ErrAlreadyAttacked    = errors.New("coordinate already attacked")
	ErrOverlap            = errors.New("ship overlaps another ship")
	ErrInvalidShip        = errors.New("ship size must be positive")
	ErrInvalidCoordinate  = errors.New("invalid coordinate")
	ErrPlacementExhausted = errors.New("failed to place ships")
	ErrMalformedBoard     = errors.New("malformed board")
)
