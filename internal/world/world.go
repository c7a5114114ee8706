// Package world implements the blocks world: a grid of cells where numbered
// blocks are dropped into columns, grasped and moved around, with every
// action recorded in a human-readable log.
package world

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tatianab/blocksworld/internal/journal"
	"github.com/tatianab/blocksworld/internal/logging"
)

// Empty is the label of a cell with no block in it.
const Empty = "0"

// World owns the grid, the block counter and the action log of one session.
// It is not safe for concurrent use.
type World struct {
	rows, cols int
	grid       [][]string
	index      map[string]Position
	counter    int
	log        []string

	sink   journal.Sink
	logger *slog.Logger
}

// New creates an empty rows x cols world.
func New(rows, cols int, opts ...Option) (*World, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, rows, cols)
	}

	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
		for c := range grid[r] {
			grid[r][c] = Empty
		}
	}

	w := &World{
		rows:   rows,
		cols:   cols,
		grid:   grid,
		index:  make(map[string]Position),
		sink:   journal.Discard,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Rows returns the number of rows in the grid.
func (w *World) Rows() int { return w.rows }

// Cols returns the number of columns in the grid.
func (w *World) Cols() int { return w.cols }

// Capacity returns how many blocks fit in the world.
func (w *World) Capacity() int { return w.rows * w.cols }

// BlockCount returns how many blocks have been placed so far.
func (w *World) BlockCount() int { return w.counter }

// Cell returns the label at (row, col), or false when out of bounds.
func (w *World) Cell(row, col int) (string, bool) {
	if !w.inBounds(row, col) {
		return "", false
	}
	return w.grid[row][col], true
}

// Locate returns the current position of a block without logging anything.
func (w *World) Locate(label string) (Position, bool) {
	pos, ok := w.index[label]
	return pos, ok
}

// Log returns a copy of the action log.
func (w *World) Log() []string {
	out := make([]string, len(w.log))
	copy(out, w.log)
	return out
}

// Grid returns a copy of the cell labels, row by row.
func (w *World) Grid() [][]string {
	out := make([][]string, w.rows)
	for r := range w.grid {
		out[r] = append([]string(nil), w.grid[r]...)
	}
	return out
}

// PlaceBlock drops a new block into the world. The requested column is a
// starting hint: if its top cell is taken, the next columns are tried in turn,
// wrapping around. The block lands on the lowest empty row of the chosen
// column. The returned position is where the block actually ended up.
func (w *World) PlaceBlock(row, col int) (Position, error) {
	if !w.inBounds(row, col) {
		w.record("Invalid coordinates: (%d, %d)", row, col)
		return Position{}, fmt.Errorf("place at (%d, %d): %w", row, col, ErrOutOfBounds)
	}

	target := -1
	for i := 0; i < w.cols; i++ {
		c := (col + i) % w.cols
		if w.grid[0][c] == Empty {
			target = c
			break
		}
	}
	if target < 0 {
		w.record("World is full: cannot place block at (%d, %d)", row, col)
		return Position{}, fmt.Errorf("place at (%d, %d): %w", row, col, ErrWorldFull)
	}

	// The top cell is empty, so the scan always finds a row.
	level := w.rows - 1
	for w.grid[level][target] != Empty {
		level--
	}

	w.counter++
	label := strconv.Itoa(w.counter)
	pos := Position{Row: level, Col: target}
	w.grid[level][target] = label
	w.index[label] = pos
	w.record("Placed %s at %s", label, pos)

	w.logger.Debug("block placed", "label", label, "requested", Position{Row: row, Col: col}.String(), "placed", pos.String())
	return pos, nil
}

// GraspBlock looks up a block and records the grasp. The log is flushed
// whether or not the block exists.
func (w *World) GraspBlock(label string) (Position, error) {
	pos, ok := w.index[label]
	if !ok {
		w.record("Failed to grasp %s", label)
		w.flush()
		return Position{}, fmt.Errorf("grasp %q: %w", label, ErrBlockNotFound)
	}

	w.record("Grasped %s from %s", label, pos)
	w.flush()
	return pos, nil
}

// MoveBlock moves a block to an empty cell. A failed move leaves the grid
// untouched.
func (w *World) MoveBlock(label string, row, col int) error {
	if !w.inBounds(row, col) {
		w.record("Invalid destination coordinates: (%d, %d)", row, col)
		return fmt.Errorf("move %q to (%d, %d): %w", label, row, col, ErrOutOfBounds)
	}
	if w.grid[row][col] != Empty {
		w.record("Target position at (%d, %d) is occupied.", row, col)
		return fmt.Errorf("move %q to (%d, %d): %w", label, row, col, ErrOccupied)
	}
	src, ok := w.index[label]
	if !ok {
		w.record("Block %s not found.", label)
		return fmt.Errorf("move %q: %w", label, ErrBlockNotFound)
	}

	dst := Position{Row: row, Col: col}
	w.grid[dst.Row][dst.Col] = label
	w.grid[src.Row][src.Col] = Empty
	w.index[label] = dst
	w.record("Moved %s to %s", label, dst)
	w.flush()

	w.logger.Debug("block moved", "label", label, "from", src.String(), "to", dst.String())
	return nil
}

// PutOn grasps a block and moves it to (row, col). If the block cannot be
// grasped, only the failed grasp is recorded.
func (w *World) PutOn(label string, row, col int) error {
	if _, err := w.GraspBlock(label); err != nil {
		return fmt.Errorf("put %q on (%d, %d): %w", label, row, col, err)
	}

	if err := w.MoveBlock(label, row, col); err != nil {
		w.record("Failed to put %s on (%d, %d)", label, row, col)
		return fmt.Errorf("put %q on (%d, %d): %w", label, row, col, err)
	}

	w.record("Successfully put %s on (%d, %d)", label, row, col)
	w.flush()
	return nil
}

// Display renders the grid one row per line, cells separated by a space.
func (w *World) Display() string {
	lines := make([]string, w.rows)
	for r, row := range w.grid {
		lines[r] = strings.Join(row, " ")
	}
	return strings.Join(lines, "\n")
}

// SaveLogs writes the whole action log to the sink, replacing what was there.
func (w *World) SaveLogs() error {
	if err := w.sink.Save(w.Log()); err != nil {
		return fmt.Errorf("save action log: %w", err)
	}
	return nil
}

func (w *World) inBounds(row, col int) bool {
	return row >= 0 && row < w.rows && col >= 0 && col < w.cols
}

func (w *World) record(format string, args ...any) {
	w.log = append(w.log, fmt.Sprintf(format, args...))
}

func (w *World) flush() {
	if err := w.SaveLogs(); err != nil {
		w.logger.Warn("failed to flush action log", "error", err)
	}
}
