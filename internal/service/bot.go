package service

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
)

// BotService picks computer moves by exhaustive minimax.
type BotService interface {
	BestMove(board entity.Board, mark entity.Mark) (int, error)
	MakeTurn(game *entity.Game) (entity.Move, error)
}

type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

// BestMove returns the optimal cell for mark. Equal scores resolve to the lowest cell index.
func (that *botService) BestMove(board entity.Board, mark entity.Mark) (int, error) {
	if !mark.IsPlayer() {
		return -1, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	moves := tictactoe.LegalMoves(board)
	if len(moves) == 0 {
		return -1, apperror.ErrInvalidState
	}

	bestMove := -1
	bestScore := math.MinInt
	for _, cell := range moves {
		score := minimax(board.Place(cell, mark), mark.Opponent(), mark)
		if score > bestScore {
			bestScore = score
			bestMove = cell
		}
	}

	return bestMove, nil
}

// MakeTurn plays the best move for whichever mark is to move.
func (that *botService) MakeTurn(game *entity.Game) (entity.Move, error) {
	cell, err := that.BestMove(game.Board, game.Turn)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to find best move: %w", err)
	}

	move := entity.Move{Cell: cell, Mark: game.Turn}
	if err = tictactoe.MakeTurn(game, move.Mark, move.Cell); err != nil {
		return entity.Move{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return move, nil
}

// minimax scores board from self's point of view with toMove about to play.
func minimax(board entity.Board, toMove, self entity.Mark) int {
	if winner, ok := tictactoe.Winner(board); ok {
		if winner == self {
			return 1
		}
		return -1
	}

	if tictactoe.IsFull(board) {
		return 0
	}

	maximizing := toMove == self

	bestScore := math.MaxInt
	if maximizing {
		bestScore = math.MinInt
	}

	for cell := range board {
		if !board.IsEmpty(cell) {
			continue
		}

		score := minimax(board.Place(cell, toMove), toMove.Opponent(), self)
		if maximizing {
			bestScore = max(bestScore, score)
		} else {
			bestScore = min(bestScore, score)
		}
	}

	return bestScore
}
