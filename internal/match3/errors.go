package match3

import "errors"

var (
	// ErrInvalidCoordinate is reported when a move names a cell that is off the board or empty.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrIllegalMove is reported when a move is made while busy or between non-adjacent cells.
	ErrIllegalMove = errors.New("illegal move")

	// ErrEmptyGrid is returned when a board would have no cells.
	ErrEmptyGrid = errors.New("grid has no cells")

	// ErrTooFewGemTypes is returned when fewer than MinGemTypes gem types are configured.
	ErrTooFewGemTypes = errors.New("too few gem types")

	// ErrTooManyGemTypes is returned when more than MaxGemTypes gem types are configured.
	ErrTooManyGemTypes = errors.New("too many gem types")
)
