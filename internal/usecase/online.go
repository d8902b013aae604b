package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

var ErrOnlineGameStopped = errors.New("online game is not running")

const updatesBuffer = 16

type moveChannel interface {
	Publish(ctx context.Context, move entity.Move) error
	Consume(ctx context.Context, record entity.RemoteMove) error
	Reset(ctx context.Context) error
	Run(ctx context.Context, out chan<- entity.RemoteMove)
}

type requestKind int

const (
	requestTurn requestKind = iota
	requestReset
)

type onlineRequest struct {
	kind  requestKind
	cell  int
	reply chan onlineReply
}

type onlineReply struct {
	result Result
	err    error
}

// OnlineGame is the single goroutine that owns the session in online mode. Local moves and
// remote records reach it over channels; the poller never touches the session directly.
//
// Ordering between a local move and a remote record is whatever order they reach the loop in.
// A finished game ends on each side either through Reset or when the opponent's opening move of
// the next game arrives, whichever comes first.
type OnlineGame struct {
	logger *slog.Logger

	session *GameSession
	channel moveChannel
	mark    entity.Mark

	requests chan onlineRequest
	updates  chan Result
	done     chan struct{}

	lastSeq int64
}

func NewOnlineGame(logger *slog.Logger, session *GameSession, channel moveChannel, mark entity.Mark) *OnlineGame {
	return &OnlineGame{
		logger:   logger.With("component", "online", "mark", mark),
		session:  session,
		channel:  channel,
		mark:     mark,
		requests: make(chan onlineRequest),
		updates:  make(chan Result, updatesBuffer),
		done:     make(chan struct{}),
	}
}

// Run clears the shared log, starts the poller and serves requests until ctx is canceled.
func (that *OnlineGame) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")
	defer close(that.done)

	if err := that.channel.Reset(ctx); err != nil {
		return fmt.Errorf("failed to clear shared move log: %w", err)
	}

	remote := make(chan entity.RemoteMove)
	go that.channel.Run(ctx, remote)

	log.Info("online game started")

	for {
		select {
		case <-ctx.Done():
			log.Info("online game stopped")
			return nil
		case req := <-that.requests:
			that.handleRequest(ctx, req)
		case record := <-remote:
			that.handleRemote(ctx, record)
		}
	}
}

// MakeTurn plays cell for this instance's mark. The result is returned before the move is published.
func (that *OnlineGame) MakeTurn(ctx context.Context, cell int) (Result, error) {
	return that.call(ctx, onlineRequest{kind: requestTurn, cell: cell})
}

// Reset starts a new game once the current one is finished. While a game is in progress it only
// reports the current state, since the opponent would not follow. Scores are kept.
func (that *OnlineGame) Reset(ctx context.Context) (Result, error) {
	return that.call(ctx, onlineRequest{kind: requestReset})
}

func (that *OnlineGame) State() Result {
	return that.session.State()
}

// Updates delivers the results of moves made by the remote side.
func (that *OnlineGame) Updates() <-chan Result {
	return that.updates
}

func (that *OnlineGame) call(ctx context.Context, req onlineRequest) (Result, error) {
	req.reply = make(chan onlineReply, 1)

	select {
	case that.requests <- req:
	case <-that.done:
		return Result{}, ErrOnlineGameStopped
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	select {
	case reply := <-req.reply:
		return reply.result, reply.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (that *OnlineGame) handleRequest(ctx context.Context, req onlineRequest) {
	log := that.logger.With("method", "handleRequest")

	switch req.kind {
	case requestTurn:
		move := entity.Move{Cell: req.cell, Mark: that.mark}
		result, err := that.session.ApplyMove(move)
		req.reply <- onlineReply{result: result, err: err}

		if !result.Applied() {
			return
		}

		if err = that.channel.Publish(ctx, move); err != nil {
			log.Error("failed to publish move", "cell", move.Cell, "error", err)
		}
	case requestReset:
		if !that.session.IsTerminal() {
			log.Info("game in progress, reset ignored")
			req.reply <- onlineReply{result: that.session.State()}
			return
		}

		result, err := that.session.Reset()
		req.reply <- onlineReply{result: result, err: err}
	}
}

func (that *OnlineGame) handleRemote(ctx context.Context, record entity.RemoteMove) {
	log := that.logger.With("method", "handleRemote", "seq", record.Seq, "cell", record.Cell, "sign", record.Mark)

	if record.Mark == that.mark {
		// our own publish, left for the other side to consume
		return
	}

	if record.Seq <= that.lastSeq {
		log.Warn("discarding duplicate record")
		that.consume(ctx, log, record)
		return
	}

	if that.session.IsTerminal() {
		if record.Mark != that.session.FirstMark() {
			that.lastSeq = record.Seq
			that.consume(ctx, log, record)
			log.Warn("discarding move on a finished game")
			return
		}

		if _, err := that.session.Reset(); err != nil {
			log.Error("failed to start next game", "error", err)
			return
		}

		log.Info("opponent opened the next game")
	}

	result, err := that.session.ApplyMove(record.Move())
	that.lastSeq = record.Seq
	that.consume(ctx, log, record)

	if err != nil {
		log.Warn("discarding illegal remote move", "error", err)
		return
	}

	log.Debug("remote move applied", "status", result.Outcome.Status)

	select {
	case that.updates <- result:
	default:
		log.Warn("shell is not reading updates, dropping one")
	}
}

func (that *OnlineGame) consume(ctx context.Context, log *slog.Logger, record entity.RemoteMove) {
	if err := that.channel.Consume(ctx, record); err != nil {
		log.Error("failed to consume remote move", "error", err)
	}
}
