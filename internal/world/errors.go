package world

import "errors"

var (
	// ErrInvalidDimensions is returned by New for a grid without cells.
	ErrInvalidDimensions = errors.New("world needs at least one row and one column")
	// ErrOutOfBounds means the requested coordinates are outside the grid.
	ErrOutOfBounds = errors.New("coordinates out of bounds")
	// ErrOccupied means the destination cell already holds a block.
	ErrOccupied = errors.New("target position is occupied")
	// ErrBlockNotFound means no cell holds the given label.
	ErrBlockNotFound = errors.New("block not found")
	// ErrWorldFull means every column is full up to its top row.
	ErrWorldFull = errors.New("world is full")
)
