package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tatianab/blocksworld/internal/config"
	"github.com/tatianab/blocksworld/internal/journal"
	"github.com/tatianab/blocksworld/internal/logging"
	"github.com/tatianab/blocksworld/internal/shell"
	"github.com/tatianab/blocksworld/internal/tui"
	"github.com/tatianab/blocksworld/internal/world"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "blocksworld",
		Short:         "Place, grasp and stack numbered blocks on a grid",
		Long:          `Blocks World asks for the size of a grid and where to drop each block, then lets you move blocks around. Every action is recorded in a plain text log file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	cmd.Flags().String("config", "", "Path to a YAML config file")
	cmd.Flags().String("log-file", "", "Where to write the action log (overrides config)")
	cmd.Flags().Bool("plain", false, "Read answers line by line instead of the full-screen UI")
	cmd.Flags().Bool("no-log", false, "Do not write the action log to disk")
	cmd.Flags().Bool("debug", false, "Enable debug diagnostics on stderr")
	return cmd
}

// resolveConfig layers the command's flags over the config file and
// environment.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile, _ = cmd.Flags().GetString("log-file")
	}
	if cmd.Flags().Changed("plain") {
		cfg.Plain, _ = cmd.Flags().GetBool("plain")
	}
	if cmd.Flags().Changed("no-log") {
		cfg.NoLog, _ = cmd.Flags().GetBool("no-log")
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSink(cfg *config.Config) journal.Sink {
	if cfg.NoLog {
		return journal.Discard
	}
	return journal.NewFileSink(cfg.LogFile)
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(level)
	sink := newSink(cfg)
	logger.Debug("starting", "log_file", cfg.LogFile, "no_log", cfg.NoLog, "plain", cfg.Plain)

	factory := func(rows, cols int) (*world.World, error) {
		return world.New(rows, cols, world.WithSink(sink), world.WithLogger(logger))
	}
	sh := shell.New(factory, shell.WithLogger(logger))

	if cfg.Plain {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		err := shell.RunLines(ctx, sh, cmd.InOrStdin(), cmd.OutOrStdout())
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return tui.Run(sh)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
