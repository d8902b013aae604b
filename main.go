package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe/internal"
	"github.com/rocketscienceinc/tictactoe/internal/config"
)

// main - is the entry point of the application. It builds the command tree and runs the chosen play mode.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "tictactoe",
		Short:        "Tic-tac-toe in the terminal",
		Long:         "Play tic-tac-toe against a friend on the same terminal, against an unbeatable computer, or against another instance through a shared move log.",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "config.yml", "config file")

	rootCmd.AddCommand(
		newModeCmd(app.ModeLocal, "Two players take turns on this terminal"),
		newModeCmd(app.ModeComputer, "Play against the computer"),
		newOnlineCmd(),
	)

	return rootCmd
}

func newModeCmd(mode, short string) *cobra.Command {
	return &cobra.Command{
		Use:   mode,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := initConfig(cmd)
			return runMode(conf, mode)
		},
	}
}

func newOnlineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   app.ModeOnline,
		Short: "Play against another instance sharing the same move log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := initConfig(cmd)

			if cmd.Flags().Changed("mark") {
				conf.Online.Mark, _ = cmd.Flags().GetString("mark")
			}

			if cmd.Flags().Changed("channel") {
				conf.Online.Channel, _ = cmd.Flags().GetString("channel")
			}

			if cmd.Flags().Changed("store") {
				conf.Online.Store, _ = cmd.Flags().GetString("store")
			}

			return runMode(conf, app.ModeOnline)
		},
	}

	cmd.Flags().String("mark", "", "mark played by this instance (X or O)")
	cmd.Flags().String("channel", "", "name of the shared move log")
	cmd.Flags().String("store", "", "shared store: redis or sqlite")

	return cmd
}

func runMode(conf *config.Config, mode string) error {
	logger := initLogger(conf)

	if err := app.RunApp(logger, conf, mode); err != nil {
		return fmt.Errorf("app run failed: %w", err)
	}

	return nil
}

// initialize config.
func initConfig(cmd *cobra.Command) *config.Config {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		panic(fmt.Errorf("failed to read config flag: %w", err))
	}

	return config.MustLoad(path)
}

// initialize logger. The terminal belongs to the board, so logs go to stderr.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
