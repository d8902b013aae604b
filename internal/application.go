package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe/internal/config"
	"github.com/rocketscienceinc/tictactoe/internal/console"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/online"
	"github.com/rocketscienceinc/tictactoe/internal/repository"
	"github.com/rocketscienceinc/tictactoe/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe/internal/service"
	"github.com/rocketscienceinc/tictactoe/internal/usecase"
)

const (
	ModeLocal    = "local"
	ModeComputer = "computer"
	ModeOnline   = "online"
)

var (
	ErrAddrNotFound = errors.New("redis address string is empty")
	ErrUnknownMode  = errors.New("unknown play mode")
)

// RunApp - runs the game in the given mode on the terminal until the player quits or a signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config, mode string) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return run(ctx, logger, conf, mode, os.Stdin, os.Stdout)
}

func run(ctx context.Context, logger *slog.Logger, conf *config.Config, mode string, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app", "mode", mode)

	firstMark, err := entity.ParseMark(conf.FirstMark)
	if err != nil {
		return fmt.Errorf("bad first-mark: %w", err)
	}

	score := &entity.Score{}

	switch mode {
	case ModeLocal:
		session, err := usecase.NewGameSession(logger, firstMark, score)
		if err != nil {
			return err
		}

		shell := console.NewShell(logger, usecase.NewLocalGame(session, entity.EmptyCell), "Tic-tac-toe: two players", in, out)

		return shell.Run(ctx)
	case ModeComputer:
		botMark, err := entity.ParseMark(conf.Computer.Mark)
		if err != nil {
			return fmt.Errorf("bad computer.mark: %w", err)
		}

		session, err := usecase.NewGameSession(logger, firstMark, score, usecase.WithBot(service.NewBotService(), botMark))
		if err != nil {
			return err
		}

		human := botMark.Opponent()
		title := fmt.Sprintf("Tic-tac-toe: you play %s against the computer", human)
		shell := console.NewShell(logger, usecase.NewLocalGame(session, human), title, in, out)

		return shell.Run(ctx)
	case ModeOnline:
		return runOnline(ctx, logger, conf, firstMark, score, in, out)
	}

	log.Error("unknown mode")

	return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

func runOnline(ctx context.Context, logger *slog.Logger, conf *config.Config, firstMark entity.Mark, score *entity.Score, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app", "mode", ModeOnline)

	mark, err := entity.ParseMark(conf.Online.Mark)
	if err != nil {
		return fmt.Errorf("bad online.mark: %w", err)
	}

	moves, closeStore, err := openMoveStore(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeStore(); err != nil {
			log.Error("could not close move store", "error", err)
		}
	}()

	session, err := usecase.NewGameSession(logger, firstMark, score)
	if err != nil {
		return err
	}

	channel := online.NewChannel(logger, moves, conf.Online.PollInterval)
	game := usecase.NewOnlineGame(logger, session, channel, mark)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	gameErr := make(chan error, 1)
	go func() {
		gameErr <- game.Run(runCtx)
		cancel()
	}()

	title := fmt.Sprintf("Tic-tac-toe online: you play %s on channel %q", mark, conf.Online.Channel)
	shell := console.NewShell(logger, game, title, in, out, console.WithUpdates(game.Updates()))

	shellErr := shell.Run(runCtx)
	cancel()

	return errors.Join(shellErr, <-gameErr)
}

func openMoveStore(ctx context.Context, conf *config.Config) (repository.MoveRepository, func() error, error) {
	switch conf.Online.Store {
	case config.StoreRedis:
		if conf.Redis.Host == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewRedisMoveRepository(redisStorage.Connection, conf.Online.Channel), redisStorage.Close, nil
	case config.StoreSQLite:
		sqliteStorage, err := storage.NewSQLiteStorage(ctx, conf.SQLiteStoragePath)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		if err = sqliteStorage.Init(ctx); err != nil {
			_ = sqliteStorage.Close()
			return nil, nil, fmt.Errorf("could not init sqlite storage: %w", err)
		}

		return repository.NewSQLiteMoveRepository(sqliteStorage.Connection, conf.Online.Channel), sqliteStorage.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown online store %q", conf.Online.Store)
}
