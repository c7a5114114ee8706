package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tatianab/blocksworld/internal/config"
	"github.com/tatianab/blocksworld/internal/journal"
	"github.com/tatianab/blocksworld/internal/logging"
	"github.com/tatianab/blocksworld/internal/shell"
	"github.com/tatianab/blocksworld/internal/world"
)

// script is a full session: a 3x3 world, four blocks, then a few moves
// including ones that must be rejected.
var script = []string{
	"3", "3", "4",
	"0", "0",
	"0", "0",
	"0", "2",
	"1", "2",
	"1", "0", "1", // lifts 1 off the bottom of column 0
	"2", "2", "2", // 3 sits there
	"9", "1", "1", // no such block
	"2", "5", "5", // off the grid
	"/log",
	"/quit",
}

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(level)

	// Keep the simulated log away from a real session's file.
	dir, err := os.MkdirTemp("", "blocksworld-sim")
	if err != nil {
		log.Fatalf("Failed to create temp dir: %v", err)
	}
	logPath := filepath.Join(dir, filepath.Base(cfg.LogFile))

	sink := journal.NewFileSink(logPath)
	sh := shell.New(func(rows, cols int) (*world.World, error) {
		return world.New(rows, cols, world.WithSink(sink), world.WithLogger(logger))
	}, shell.WithLogger(logger))

	for turn, answer := range script {
		fmt.Printf("--- Turn %d ---\n", turn+1)
		fmt.Printf("%s %s\n", sh.Prompt(), answer)
		if out := sh.Submit(answer); out != "" {
			fmt.Println(out)
		}
		fmt.Println()
		if sh.Done() {
			break
		}
	}

	entries, err := journal.Load(logPath)
	if err != nil {
		log.Fatalf("Failed to read back action log: %v", err)
	}
	fmt.Printf("Action log at %s (%d entries):\n%s\n", logPath, len(entries), strings.Join(entries, "\n"))
}
