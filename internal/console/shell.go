// Package console is the text front end of the game: it prints the board and reads commands, one per line.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/usecase"
)

const help = "enter a cell 0-8, \"reset\" (r) for a new game, \"quit\" (q) to leave"

type player interface {
	MakeTurn(ctx context.Context, cell int) (usecase.Result, error)
	Reset(ctx context.Context) (usecase.Result, error)
	State() usecase.Result
}

type Shell struct {
	logger  *slog.Logger
	player  player
	title   string
	updates <-chan usecase.Result

	in  io.Reader
	out io.Writer
}

type ShellOption func(*Shell)

// WithUpdates renders results that arrive without a local command, such as the opponent's online moves.
func WithUpdates(updates <-chan usecase.Result) ShellOption {
	return func(shell *Shell) {
		shell.updates = updates
	}
}

func NewShell(logger *slog.Logger, player player, title string, in io.Reader, out io.Writer, opts ...ShellOption) *Shell {
	shell := &Shell{
		logger: logger.With("component", "console"),
		player: player,
		title:  title,
		in:     in,
		out:    out,
	}

	for _, opt := range opts {
		opt(shell)
	}

	return shell
}

// Run serves commands until quit, end of input or ctx cancellation.
func (that *Shell) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(that.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		readErr <- scanner.Err()
	}()

	that.printf("%s\n%s\n", that.title, help)
	that.render(that.player.State())

	for {
		select {
		case <-ctx.Done():
			return nil
		case result := <-that.updates:
			that.render(result)
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("failed to read input: %w", err)
					}
				default:
				}

				return nil
			}

			if quit := that.handle(ctx, log, strings.TrimSpace(line)); quit {
				return nil
			}
		}
	}
}

func (that *Shell) handle(ctx context.Context, log *slog.Logger, line string) bool {
	switch strings.ToLower(line) {
	case "":
		return false
	case "q", "quit", "exit":
		return true
	case "r", "reset":
		result, err := that.player.Reset(ctx)
		if err != nil {
			log.Error("reset failed", "error", err)
			that.printf("reset failed: %v\n", err)
			return false
		}

		that.render(result)

		return false
	case "h", "help":
		that.printf("%s\n", help)
		return false
	}

	cell, err := strconv.Atoi(line)
	if err != nil {
		that.printf("unknown command %q, %s\n", line, help)
		return false
	}

	result, err := that.player.MakeTurn(ctx, cell)
	if err != nil {
		that.printf("illegal move: %v\n", err)
		return false
	}

	that.render(result)

	return false
}

func (that *Shell) render(result usecase.Result) {
	that.printf("\n%s\n%s\n", result.Game.Board, status(result))
}

func status(result usecase.Result) string {
	score := fmt.Sprintf("X %d : %d O", result.Score.Wins(entity.MarkX), result.Score.Wins(entity.MarkO))

	switch result.Outcome.Status {
	case entity.StatusWon:
		return fmt.Sprintf("%s wins! [%s] type reset to play again", result.Outcome.Winner, score)
	case entity.StatusDraw:
		return fmt.Sprintf("Draw! [%s] type reset to play again", score)
	default:
		return fmt.Sprintf("%s to move [%s]", result.Game.Turn, score)
	}
}

func (that *Shell) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}
