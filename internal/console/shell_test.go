package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/service"
	"github.com/rocketscienceinc/tictactoe/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalShell(t *testing.T, input string, opts ...usecase.SessionOption) (*Shell, *bytes.Buffer) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	session, err := usecase.NewGameSession(logger, entity.MarkX, nil, opts...)
	require.NoError(t, err)

	mark := entity.EmptyCell
	if len(opts) > 0 {
		mark = entity.MarkX
	}

	out := &bytes.Buffer{}

	return NewShell(logger, usecase.NewLocalGame(session, mark), "tic-tac-toe", strings.NewReader(input), out), out
}

func TestShell_Run(t *testing.T) {
	t.Run("Plays moves and reports mistakes", func(t *testing.T) {
		// Given: a two-player shell fed a few commands
		shell, out := newLocalShell(t, "4\n4\nfoo\n9\nhelp\nq\n0\n")

		// When: running it
		require.NoError(t, shell.Run(context.Background()))

		// Then: the move was rendered and the mistakes were explained
		output := out.String()
		assert.Contains(t, output, "- - -\n- X -\n- - -\nO to move [X 0 : 0 O]")
		assert.Contains(t, output, "illegal move: failed to make turn: invalid turn: cell is already occupied")
		assert.Contains(t, output, `unknown command "foo"`)
		assert.Contains(t, output, "invalid cell index")
		assert.NotContains(t, output, "O - -\n- X -")
	})

	t.Run("Announces the winner and resets", func(t *testing.T) {
		shell, out := newLocalShell(t, "0\n3\n1\n4\n2\n5\nreset\n")

		require.NoError(t, shell.Run(context.Background()))

		output := out.String()
		assert.Contains(t, output, "X X -\nO O -\n- - -\nX to move [X 0 : 0 O]")
		assert.Contains(t, output, "X wins! [X 1 : 0 O]")
		assert.Contains(t, output, "game is already finished")
		assert.True(t, strings.HasSuffix(output, "- - -\n- - -\n- - -\nX to move [X 1 : 0 O]\n"))
	})

	t.Run("Computer answers every move", func(t *testing.T) {
		shell, out := newLocalShell(t, "4\n", usecase.WithBot(service.NewBotService(), entity.MarkO))

		require.NoError(t, shell.Run(context.Background()))

		assert.Contains(t, out.String(), "O - -\n- X -\n- - -\nX to move [X 0 : 0 O]")
	})
}

func TestShell_Updates(t *testing.T) {
	// Given: a shell whose input stays open and an updates feed
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session, err := usecase.NewGameSession(logger, entity.MarkX, nil)
	require.NoError(t, err)

	reader, writer := io.Pipe()
	t.Cleanup(func() { _ = writer.Close() })
	updates := make(chan usecase.Result)
	out := &bytes.Buffer{}
	shell := NewShell(logger, usecase.NewLocalGame(session, entity.MarkO), "online", reader, out, WithUpdates(updates))

	done := make(chan error, 1)
	go func() { done <- shell.Run(context.Background()) }()

	// When: a remote move arrives and the player quits
	remote, err := session.ApplyMove(entity.Move{Cell: 8, Mark: entity.MarkX})
	require.NoError(t, err)
	updates <- remote

	_, err = writer.Write([]byte("quit\n"))
	require.NoError(t, err)

	// Then: the remote move was rendered before the shell stopped
	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("shell did not stop")
	}

	assert.Contains(t, out.String(), "- - -\n- - -\n- - X\nO to move [X 0 : 0 O]")
}

func TestShell_ContextCanceled(t *testing.T) {
	shell, _ := newLocalShell(t, "")
	reader, writer := io.Pipe()
	t.Cleanup(func() { _ = writer.Close() })
	shell.in = reader

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, shell.Run(ctx))
}
