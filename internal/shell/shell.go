// Package shell sequences the prompts that set up a blocks world and then
// move blocks around in it. It knows nothing about the terminal: each answer
// goes in through Submit and the text to show comes back out, so the same
// flow drives both the full-screen UI and plain line mode.
package shell

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tatianab/blocksworld/internal/logging"
	"github.com/tatianab/blocksworld/internal/world"
)

type step int

const (
	stepLength step = iota
	stepWidth
	stepCount
	stepBlockRow
	stepBlockCol
	stepLabel
	stepDestRow
	stepDestCol
)

// Commands accepted at any prompt.
const (
	CmdQuit    = "/quit"
	CmdRestart = "/restart"
	CmdLog     = "/log"
)

const (
	msgNotNumber     = "Please enter a whole number."
	msgZeroDimension = "The world needs at least one row and one column."
	msgTooManyBlocks = "Warning: The number of blocks exceeds the size of the matrix."
)

// MaxDimension bounds the length and width of a world.
const MaxDimension = 1000

var msgTooLarge = fmt.Sprintf("The world can be at most %d cells long and %d cells wide.", MaxDimension, MaxDimension)

// Factory builds a fresh world for each session.
type Factory func(rows, cols int) (*world.World, error)

// Shell walks the user through world setup and move commands.
type Shell struct {
	newWorld Factory
	logger   *slog.Logger

	step   step
	length int
	width  int
	count  int
	placed int
	row    int
	label  string
	world  *world.World
	done   bool
}

// Option configures a Shell.
type Option func(*Shell)

// WithLogger configures a logger for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Shell) {
		s.logger = logger
	}
}

// New creates a Shell waiting for the world length.
func New(factory Factory, opts ...Option) *Shell {
	s := &Shell{
		newWorld: factory,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// World returns the current world, or nil before setup is complete.
func (s *Shell) World() *world.World { return s.world }

// Done reports whether the user asked to quit.
func (s *Shell) Done() bool { return s.done }

// Moving reports whether setup is finished and move commands are accepted.
func (s *Shell) Moving() bool { return s.step >= stepLabel }

// Close flushes the action log of the current world, so entries from
// operations that do not flush on their own reach the file too.
func (s *Shell) Close() error {
	if s.world == nil {
		return nil
	}
	return s.world.SaveLogs()
}

// Prompt returns the question the next answer is for.
func (s *Shell) Prompt() string {
	switch s.step {
	case stepLength:
		return "Enter the length of the world:"
	case stepWidth:
		return "Enter the width of the world:"
	case stepCount:
		return "How many blocks to place?"
	case stepBlockRow:
		return fmt.Sprintf("Enter row index for block %d:", s.placed+1)
	case stepBlockCol:
		return fmt.Sprintf("Enter column index for block %d:", s.placed+1)
	case stepLabel:
		return "Enter block name:"
	case stepDestRow:
		return "Enter destination row:"
	case stepDestCol:
		return "Enter destination column:"
	}
	return ""
}

// Submit handles one answer and returns the text to append to the display.
func (s *Shell) Submit(input string) string {
	input = strings.TrimSpace(input)

	switch input {
	case CmdQuit:
		s.done = true
		if err := s.Close(); err != nil {
			return fmt.Sprintf("Error: %v\nBye!", err)
		}
		return "Bye!"
	case CmdRestart:
		if err := s.Close(); err != nil {
			s.logger.Warn("failed to save action log before restart", "error", err)
		}
		s.reset()
		return "Starting a new world."
	case CmdLog:
		if s.world == nil || len(s.world.Log()) == 0 {
			return "(no actions yet)"
		}
		return strings.Join(s.world.Log(), "\n")
	}

	switch s.step {
	case stepLength, stepWidth:
		n, ok := parseCount(input)
		if !ok {
			return msgNotNumber
		}
		if n == 0 {
			return msgZeroDimension
		}
		if n > MaxDimension {
			return msgTooLarge
		}
		if s.step == stepLength {
			s.length = n
			s.step = stepWidth
		} else {
			s.width = n
			s.step = stepCount
		}
		return ""

	case stepCount:
		n, ok := parseCount(input)
		if !ok {
			return msgNotNumber
		}
		if n > s.length*s.width {
			return msgTooManyBlocks
		}
		return s.startWorld(n)

	case stepBlockRow:
		n, err := strconv.Atoi(input)
		if err != nil {
			return msgNotNumber
		}
		s.row = n
		s.step = stepBlockCol
		return ""

	case stepBlockCol:
		n, err := strconv.Atoi(input)
		if err != nil {
			return msgNotNumber
		}
		return s.place(s.row, n)

	case stepLabel:
		if input == "" {
			return ""
		}
		s.label = input
		s.step = stepDestRow
		return ""

	case stepDestRow:
		n, err := strconv.Atoi(input)
		if err != nil {
			return msgNotNumber
		}
		s.row = n
		s.step = stepDestCol
		return ""

	case stepDestCol:
		n, err := strconv.Atoi(input)
		if err != nil {
			return msgNotNumber
		}
		return s.move(s.label, s.row, n)
	}
	return ""
}

func (s *Shell) startWorld(count int) string {
	w, err := s.newWorld(s.length, s.width)
	if err != nil {
		s.logger.Error("failed to create world", "length", s.length, "width", s.width, "error", err)
		s.reset()
		return fmt.Sprintf("Error: %v", err)
	}

	s.world = w
	s.count = count
	s.placed = 0
	if count == 0 {
		return s.finishPlacement(nil)
	}
	s.step = stepBlockRow
	return ""
}

func (s *Shell) place(row, col int) string {
	before := len(s.world.Log())
	var out []string

	if _, err := s.world.PlaceBlock(row, col); err != nil {
		s.logger.Info("placement rejected", "row", row, "col", col, "error", err)
		out = append(out, s.world.Log()[before:]...)
	} else {
		out = append(out, fmt.Sprintf("World state after adding Block %d:", s.world.BlockCount()))
	}
	out = append(out, s.world.Display())

	s.placed++
	if s.placed < s.count {
		s.step = stepBlockRow
		return strings.Join(out, "\n")
	}
	return s.finishPlacement(out)
}

func (s *Shell) finishPlacement(out []string) string {
	out = append(out, "Final world state:", s.world.Display())
	if err := s.world.SaveLogs(); err != nil {
		s.logger.Warn("failed to save action log", "error", err)
		out = append(out, fmt.Sprintf("Error: %v", err))
	}
	s.step = stepLabel
	return strings.Join(out, "\n")
}

func (s *Shell) move(label string, row, col int) string {
	before := len(s.world.Log())
	var out []string

	if err := s.world.PutOn(label, row, col); err != nil {
		s.logger.Info("move rejected", "label", label, "row", row, "col", col, "error", err)
		out = append(out, s.world.Log()[before:]...)
	}
	out = append(out, fmt.Sprintf("World state after moving Block %s:", label), s.world.Display())

	s.label = ""
	s.step = stepLabel
	return strings.Join(out, "\n")
}

func (s *Shell) reset() {
	*s = Shell{newWorld: s.newWorld, logger: s.logger}
}

func parseCount(input string) (int, bool) {
	n, err := strconv.Atoi(input)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
