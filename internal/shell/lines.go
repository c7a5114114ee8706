package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// RunLines drives the shell from r one answer per line, writing prompts and
// output to w. It returns when r is exhausted, the user quits or ctx is done.
// The action log is flushed on every way out; a cancelled ctx is reported
// as ctx.Err() once the flush has succeeded.
func RunLines(ctx context.Context, s *Shell, r io.Reader, w io.Writer) error {
	out := termenv.NewOutput(w)
	prompt := func(text string) termenv.Style {
		return out.String(text).Foreground(out.Color("#FFA500")).Bold()
	}

	fmt.Fprintln(w, out.String("Blocks World").Foreground(out.Color("#5F5F87")).Bold())
	fmt.Fprintln(w, out.String("Commands: /log, /restart, /quit").Italic())
	fmt.Fprintln(w)

	cancelled := func() error {
		fmt.Fprintln(w)
		if err := s.Close(); err != nil {
			return err
		}
		return ctx.Err()
	}

	// Scan blocks on r, so lines arrive through a channel that can be
	// abandoned when ctx is done.
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		if ctx.Err() != nil {
			return cancelled()
		}

		fmt.Fprintf(w, "%s ", prompt(s.Prompt()))

		var line string
		select {
		case <-ctx.Done():
			return cancelled()
		case l, ok := <-lines:
			if !ok {
				if ctx.Err() != nil {
					return cancelled()
				}
				fmt.Fprintln(w)
				if err := <-scanErr; err != nil {
					return err
				}
				return s.Close()
			}
			line = l
		}

		if text := s.Submit(line); text != "" {
			fmt.Fprintln(w, text)
		}
		if s.Done() {
			return nil
		}
	}
}
