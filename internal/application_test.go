package application

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		LogLevel:  "info",
		FirstMark: "X",
		Computer:  config.Computer{Mark: "O"},
		Online: config.Online{
			Mark:         "X",
			Channel:      "test",
			Store:        config.StoreSQLite,
			PollInterval: 10 * time.Millisecond,
		},
		SQLiteStoragePath: filepath.Join(t.TempDir(), "tictactoe.db"),
	}
}

func runWithInput(t *testing.T, conf *config.Config, mode, input string) (string, error) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	out := &bytes.Buffer{}

	err := run(context.Background(), logger, conf, mode, strings.NewReader(input), out)

	return out.String(), err
}

func TestRun(t *testing.T) {
	t.Run("Local mode alternates marks", func(t *testing.T) {
		output, err := runWithInput(t, testConfig(t), ModeLocal, "4\n0\nq\n")

		require.NoError(t, err)
		assert.Contains(t, output, "two players")
		assert.Contains(t, output, "O - -\n- X -\n- - -\nX to move [X 0 : 0 O]")
	})

	t.Run("Computer opens when it plays first", func(t *testing.T) {
		// Given: the computer holds the first mark
		conf := testConfig(t)
		conf.Computer.Mark = "X"

		// When: starting without any input
		output, err := runWithInput(t, conf, ModeComputer, "")

		// Then: the opening move is shown before the human plays
		require.NoError(t, err)
		assert.Contains(t, output, "you play O")
		assert.Contains(t, output, "X - -\n- - -\n- - -\nO to move [X 0 : 0 O]")
	})

	t.Run("Online mode over sqlite", func(t *testing.T) {
		output, err := runWithInput(t, testConfig(t), ModeOnline, "4\n4\nq\n")

		require.NoError(t, err)
		assert.Contains(t, output, `you play X on channel "test"`)
		assert.Contains(t, output, "- - -\n- X -\n- - -\nO to move [X 0 : 0 O]")
		assert.Contains(t, output, "it's not your turn")
	})

	t.Run("Unknown mode", func(t *testing.T) {
		_, err := runWithInput(t, testConfig(t), "tournament", "")

		require.ErrorIs(t, err, ErrUnknownMode)
	})

	t.Run("Bad first mark", func(t *testing.T) {
		conf := testConfig(t)
		conf.FirstMark = "Z"

		_, err := runWithInput(t, conf, ModeLocal, "")

		require.ErrorIs(t, err, apperror.ErrInvalidMark)
	})

	t.Run("Redis without a host", func(t *testing.T) {
		conf := testConfig(t)
		conf.Online.Store = config.StoreRedis

		_, err := runWithInput(t, conf, ModeOnline, "")

		require.ErrorIs(t, err, ErrAddrNotFound)
	})
}
