package world

import "fmt"

// Position is a cell coordinate. Row 0 is the top of the world.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}
