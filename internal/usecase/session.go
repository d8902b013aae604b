package usecase

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
)

// Result is what every call into a session reports back to the shell.
type Result struct {
	Game    entity.Game    `json:"game"`
	Outcome entity.Outcome `json:"outcome"`
	Score   entity.Score   `json:"score"`
	// Moves holds the moves applied by this call: none on rejection, two when the computer replied.
	Moves []entity.Move `json:"moves,omitempty"`
}

func (that Result) Applied() bool {
	return len(that.Moves) > 0
}

type bot interface {
	MakeTurn(game *entity.Game) (entity.Move, error)
}

type SessionOption func(*GameSession)

// WithBot lets the search engine play mark. It replies right after every accepted human move.
func WithBot(bot bot, mark entity.Mark) SessionOption {
	return func(session *GameSession) {
		session.bot = bot
		session.botMark = mark
	}
}

// GameSession owns the board of one game at a time. The score is owned by the caller and survives Reset.
type GameSession struct {
	logger *slog.Logger

	mu        sync.Mutex
	game      *entity.Game
	score     *entity.Score
	firstMark entity.Mark

	bot     bot
	botMark entity.Mark
}

func NewGameSession(logger *slog.Logger, firstMark entity.Mark, score *entity.Score, opts ...SessionOption) (*GameSession, error) {
	if !firstMark.IsPlayer() {
		return nil, fmt.Errorf("first mark %q is not a player mark", firstMark)
	}

	if score == nil {
		score = &entity.Score{}
	}

	session := &GameSession{
		logger:    logger.With("component", "session"),
		score:     score,
		firstMark: firstMark,
	}

	for _, opt := range opts {
		opt(session)
	}

	if _, err := session.Reset(); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	return session, nil
}

// ApplyMove validates and applies a move. On rejection the returned error wraps the reason and
// the Result carries no moves; the board, turn and outcome are unchanged.
func (that *GameSession) ApplyMove(move entity.Move) (Result, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "ApplyMove", "gameID", that.game.ID)

	if that.bot != nil && move.Mark == that.botMark {
		return that.result(nil), fmt.Errorf("failed to make turn: %q is played by the computer: %w", move.Mark, apperror.ErrNotYourTurn)
	}

	if err := tictactoe.MakeTurn(that.game, move.Mark, move.Cell); err != nil {
		log.Debug("move rejected", "cell", move.Cell, "mark", move.Mark, "error", err)
		return that.result(nil), fmt.Errorf("failed to make turn: %w", err)
	}

	applied := []entity.Move{move}
	outcome := that.settle(log, move)

	if !outcome.IsTerminal() && that.bot != nil && that.game.Turn == that.botMark {
		reply, err := that.bot.MakeTurn(that.game)
		if err != nil {
			return that.result(applied), fmt.Errorf("bot failed to make turn: %w", err)
		}

		applied = append(applied, reply)
		that.settle(log, reply)
	}

	return that.result(applied), nil
}

// Reset starts a fresh game. The score is kept.
func (that *GameSession) Reset() (Result, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.game = entity.NewGame(uuid.NewString(), that.firstMark)
	that.logger.Info("new game", "gameID", that.game.ID, "first", that.firstMark)

	if that.bot == nil || that.botMark != that.firstMark {
		return that.result(nil), nil
	}

	opening, err := that.bot.MakeTurn(that.game)
	if err != nil {
		return that.result(nil), fmt.Errorf("bot failed to make first turn: %w", err)
	}

	return that.result([]entity.Move{opening}), nil
}

func (that *GameSession) State() Result {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.result(nil)
}

func (that *GameSession) Turn() entity.Mark {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.Turn
}

// FirstMark is the mark that opens every game.
func (that *GameSession) FirstMark() entity.Mark {
	return that.firstMark
}

func (that *GameSession) LegalMoves() []int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return tictactoe.LegalMoves(that.game.Board)
}

func (that *GameSession) Winner() (entity.Mark, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return tictactoe.Winner(that.game.Board)
}

func (that *GameSession) IsTerminal() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return tictactoe.IsTerminal(that.game.Board)
}

// settle evaluates the board after move and records a win.
func (that *GameSession) settle(log *slog.Logger, move entity.Move) entity.Outcome {
	outcome := tictactoe.Evaluate(that.game.Board)

	log.Debug("move applied", "cell", move.Cell, "mark", move.Mark, "status", outcome.Status)

	switch outcome.Status {
	case entity.StatusWon:
		that.score.Record(outcome.Winner)
		log.Info("game won", "winner", outcome.Winner, "x", that.score.X, "o", that.score.O)
	case entity.StatusDraw:
		log.Info("game drawn")
	}

	return outcome
}

func (that *GameSession) result(moves []entity.Move) Result {
	return Result{
		Game:    that.game.Snapshot(),
		Outcome: tictactoe.Evaluate(that.game.Board),
		Score:   *that.score,
		Moves:   moves,
	}
}
