package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

// MakeTurn applies a move to the game. A rejected move leaves the game untouched.
func MakeTurn(gameInstance *entity.Game, player entity.Mark, cell int) error {
	if IsTerminal(gameInstance.Board) {
		return apperror.ErrGameFinished
	}

	if err := validateMove(gameInstance, player, cell); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	gameInstance.Board = gameInstance.Board.Place(cell, player)
	gameInstance.Moves = append(gameInstance.Moves, entity.Move{Cell: cell, Mark: player})
	gameInstance.Turn = player.Opponent()

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(gameInstance *entity.Game, playerTurn entity.Mark, cell int) error {
	if !entity.ValidCell(cell) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if gameInstance.Turn != playerTurn {
		return apperror.ErrNotYourTurn
	}

	if !gameInstance.Board.IsEmpty(cell) {
		return apperror.ErrCellOccupied
	}

	return nil
}
