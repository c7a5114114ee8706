package shell_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatianab/blocksworld/internal/journal"
	"github.com/tatianab/blocksworld/internal/shell"
	"github.com/tatianab/blocksworld/internal/world"
)

func newShell(t *testing.T, logPath string) *shell.Shell {
	t.Helper()
	sink := journal.NewFileSink(logPath)
	return shell.New(func(rows, cols int) (*world.World, error) {
		return world.New(rows, cols, world.WithSink(sink))
	})
}

// submitAll feeds answers in order and returns every non-empty output.
func submitAll(s *shell.Shell, answers ...string) []string {
	var outs []string
	for _, a := range answers {
		if out := s.Submit(a); out != "" {
			outs = append(outs, out)
		}
	}
	return outs
}

func TestShell_SetupAndMove(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "actions.log")
	s := newShell(t, logPath)

	assert.Equal(t, "Enter the length of the world:", s.Prompt())
	assert.Empty(t, s.Submit("3"))
	assert.Equal(t, "Enter the width of the world:", s.Prompt())
	assert.Empty(t, s.Submit("3"))
	assert.Equal(t, "How many blocks to place?", s.Prompt())
	assert.Empty(t, s.Submit("2"))
	assert.Equal(t, "Enter row index for block 1:", s.Prompt())
	assert.Empty(t, s.Submit("0"))
	assert.Equal(t, "Enter column index for block 1:", s.Prompt())

	out := s.Submit("0")
	assert.Equal(t, "World state after adding Block 1:\n0 0 0\n0 0 0\n1 0 0", out)
	assert.False(t, s.Moving())

	out = submitAll(s, "0", "0")[0]
	assert.Equal(t, "World state after adding Block 2:\n0 0 0\n2 0 0\n1 0 0\nFinal world state:\n0 0 0\n2 0 0\n1 0 0", out)
	assert.True(t, s.Moving())

	entries, err := journal.Load(logPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"Placed 1 at (2, 0)", "Placed 2 at (1, 0)"}, entries, "placement ends with a flush")

	assert.Equal(t, "Enter block name:", s.Prompt())
	assert.Empty(t, s.Submit("1"))
	assert.Equal(t, "Enter destination row:", s.Prompt())
	assert.Empty(t, s.Submit("0"))
	assert.Equal(t, "Enter destination column:", s.Prompt())
	out = s.Submit("1")
	assert.Equal(t, "World state after moving Block 1:\n0 1 0\n2 0 0\n0 0 0", out)
	assert.Equal(t, "Enter block name:", s.Prompt())

	entries, err = journal.Load(logPath)
	require.NoError(t, err)
	assert.Equal(t, s.World().Log(), entries)
}

func TestShell_RejectedMoveShowsLogEntries(t *testing.T) {
	s := newShell(t, filepath.Join(t.TempDir(), "actions.log"))
	submitAll(s, "2", "2", "2", "0", "0", "0", "1")

	out := submitAll(s, "1", "1", "1")[0]
	assert.Equal(t, strings.Join([]string{
		"Grasped 1 from (1, 0)",
		"Target position at (1, 1) is occupied.",
		"Failed to put 1 on (1, 1)",
		"World state after moving Block 1:",
		"0 0",
		"1 2",
	}, "\n"), out)

	out = submitAll(s, "5", "0", "0")[0]
	assert.True(t, strings.HasPrefix(out, "Failed to grasp 5\n"))
}

func TestShell_InputValidation(t *testing.T) {
	s := newShell(t, filepath.Join(t.TempDir(), "actions.log"))

	assert.Equal(t, "Please enter a whole number.", s.Submit("three"))
	assert.Equal(t, "Please enter a whole number.", s.Submit("-2"))
	assert.Equal(t, "The world needs at least one row and one column.", s.Submit("0"))
	assert.Equal(t, "Enter the length of the world:", s.Prompt())

	submitAll(s, "2", "2")
	assert.Equal(t, "Warning: The number of blocks exceeds the size of the matrix.", s.Submit("5"))
	assert.Equal(t, "How many blocks to place?", s.Prompt())
	assert.Nil(t, s.World())

	assert.Empty(t, s.Submit("1"))
	assert.Equal(t, "Please enter a whole number.", s.Submit("x"))
	assert.Equal(t, "Enter row index for block 1:", s.Prompt())
}

func TestShell_OversizedDimensions(t *testing.T) {
	s := newShell(t, filepath.Join(t.TempDir(), "actions.log"))
	tooLarge := fmt.Sprintf("The world can be at most %d cells long and %d cells wide.", shell.MaxDimension, shell.MaxDimension)

	assert.Equal(t, tooLarge, s.Submit("100000000000"))
	assert.Equal(t, "Enter the length of the world:", s.Prompt())
	assert.Equal(t, "Please enter a whole number.", s.Submit("99999999999999999999999"))

	assert.Empty(t, s.Submit(fmt.Sprint(shell.MaxDimension)))
	assert.Equal(t, tooLarge, s.Submit(fmt.Sprint(shell.MaxDimension+1)))
	assert.Equal(t, "Enter the width of the world:", s.Prompt())
	assert.Empty(t, s.Submit("1"))

	assert.Contains(t, s.Submit("0"), "Final world state:")
	require.NotNil(t, s.World())
	assert.Equal(t, shell.MaxDimension, s.World().Rows())
}

func TestShell_InvalidPlacementUsesASlot(t *testing.T) {
	s := newShell(t, filepath.Join(t.TempDir(), "actions.log"))
	submitAll(s, "2", "2", "2")

	out := submitAll(s, "7", "7")[0]
	assert.Equal(t, "Invalid coordinates: (7, 7)\n0 0\n0 0", out)
	assert.Equal(t, "Enter row index for block 2:", s.Prompt())

	out = submitAll(s, "0", "1")[0]
	assert.Contains(t, out, "World state after adding Block 1:")
	assert.Contains(t, out, "Final world state:")
	assert.True(t, s.Moving())
}

func TestShell_ZeroBlocks(t *testing.T) {
	s := newShell(t, filepath.Join(t.TempDir(), "actions.log"))
	outs := submitAll(s, "1", "2", "0")
	require.Len(t, outs, 1)
	assert.Equal(t, "Final world state:\n0 0", outs[0])
	assert.True(t, s.Moving())
}

func TestShell_Commands(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "actions.log")
	s := newShell(t, logPath)

	assert.Equal(t, "(no actions yet)", s.Submit("/log"))

	submitAll(s, "2", "2", "1", "0", "0", "1", "0", "0", "1", "5", "5")
	assert.Equal(t, strings.Join(s.World().Log(), "\n"), s.Submit("/log"))

	// The failed put-on is not flushed until the session closes.
	entries, err := journal.Load(logPath)
	require.NoError(t, err)
	assert.NotEqual(t, s.World().Log(), entries)

	assert.Equal(t, "Bye!", s.Submit("/quit"))
	assert.True(t, s.Done())
	entries, err = journal.Load(logPath)
	require.NoError(t, err)
	assert.Equal(t, s.World().Log(), entries)
}

func TestShell_Restart(t *testing.T) {
	s := newShell(t, filepath.Join(t.TempDir(), "actions.log"))
	submitAll(s, "2", "2", "1", "0", "0")
	first := s.World()
	require.NotNil(t, first)

	assert.Equal(t, "Starting a new world.", s.Submit("/restart"))
	assert.Nil(t, s.World())
	assert.Equal(t, "Enter the length of the world:", s.Prompt())

	submitAll(s, "1", "1", "1", "0", "0")
	require.NotNil(t, s.World())
	assert.NotSame(t, first, s.World())
	assert.Equal(t, []string{"Placed 1 at (0, 0)"}, s.World().Log(), "a new world starts its own counter and log")
}

func TestShell_RestartFlushesOldWorld(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "actions.log")
	s := newShell(t, logPath)
	submitAll(s, "2", "2", "1", "0", "0", "1", "5", "5")
	old := s.World().Log()
	require.Contains(t, old, "Failed to put 1 on (5, 5)")

	assert.Equal(t, "Starting a new world.", s.Submit("/restart"))
	assert.Equal(t, "Bye!", s.Submit("/quit"))

	entries, err := journal.Load(logPath)
	require.NoError(t, err)
	assert.Equal(t, old, entries)
}

func TestShell_FactoryError(t *testing.T) {
	s := shell.New(func(rows, cols int) (*world.World, error) {
		return nil, errors.New("no room")
	})
	submitAll(s, "2", "2")

	assert.Equal(t, "Error: no room", s.Submit("1"))
	assert.Equal(t, "Enter the length of the world:", s.Prompt())
}

func TestRunLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "actions.log")
	s := newShell(t, logPath)
	in := strings.NewReader("3\n3\n2\n0\n0\n0\n0\n1\n0\n1\n")
	var out bytes.Buffer

	require.NoError(t, shell.RunLines(context.Background(), s, in, &out))

	text := out.String()
	assert.Contains(t, text, "Blocks World")
	assert.Contains(t, text, "Enter the length of the world:")
	assert.Contains(t, text, "Final world state:\n0 0 0\n2 0 0\n1 0 0")
	assert.Contains(t, text, "World state after moving Block 1:\n0 1 0\n2 0 0\n0 0 0")

	entries, err := journal.Load(logPath)
	require.NoError(t, err)
	assert.Equal(t, s.World().Log(), entries)
}

func TestRunLines_QuitStopsReading(t *testing.T) {
	s := newShell(t, filepath.Join(t.TempDir(), "actions.log"))
	in := strings.NewReader("/quit\n3\n")
	var out bytes.Buffer

	require.NoError(t, shell.RunLines(context.Background(), s, in, &out))
	assert.Contains(t, out.String(), "Bye!")
	assert.True(t, s.Done())
	assert.Equal(t, "Enter the length of the world:", s.Prompt())
}

func TestRunLines_ContextCancelled(t *testing.T) {
	s := newShell(t, filepath.Join(t.TempDir(), "actions.log"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := shell.RunLines(ctx, s, strings.NewReader("3\n"), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

// syncBuffer lets the test read output while RunLines is still writing.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunLines_CancelWhileWaitingForInput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "actions.log")
	s := newShell(t, logPath)
	pr, pw := io.Pipe()
	defer pw.Close()
	out := &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- shell.RunLines(ctx, s, pr, out)
	}()

	// A failed put-on leaves entries that only a final flush writes out.
	_, err := io.WriteString(pw, "2\n2\n1\n0\n0\n1\n5\n5\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "World state after moving Block 1:")
	}, 2*time.Second, 10*time.Millisecond)

	// RunLines is now blocked waiting for the next block name.
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("RunLines did not return after cancellation")
	}

	entries, err := journal.Load(logPath)
	require.NoError(t, err)
	assert.Equal(t, s.World().Log(), entries)
	assert.Contains(t, entries, "Failed to put 1 on (5, 5)")
}
