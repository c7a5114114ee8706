// Package journal persists the action log of a world as a plain text file,
// one entry per line.
package journal

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath is used when no log file is configured.
const DefaultPath = "blocksworld.log"

// Sink receives the full action log on every flush.
type Sink interface {
	Save(entries []string) error
}

type discard struct{}

func (discard) Save([]string) error { return nil }

// Discard is a Sink that drops every flush.
var Discard Sink = discard{}

// FileSink overwrites a file with the full log on every Save.
type FileSink struct {
	Path string
}

// NewFileSink creates a FileSink. If path is empty, it uses DefaultPath.
func NewFileSink(path string) *FileSink {
	if path == "" {
		path = DefaultPath
	}
	return &FileSink{Path: path}
}

// Save replaces the file contents with entries, each followed by a newline.
func (f *FileSink) Save(entries []string) error {
	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to ensure log directory: %w", err)
		}
	}

	var buf bytes.Buffer
	for _, entry := range entries {
		buf.WriteString(entry)
		buf.WriteByte('\n')
	}

	if err := os.WriteFile(f.Path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}
	return nil
}

// Load reads a log file back into entries. A missing file is an empty log.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	entries := []string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		entries = append(entries, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse log file: %w", err)
	}
	return entries, nil
}
