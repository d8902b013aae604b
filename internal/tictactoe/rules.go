package tictactoe

import "github.com/rocketscienceinc/tictactoe/internal/entity"

// WinCombos lists the eight lines: rows top to bottom, columns left to right, then both diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Winner returns the mark holding a full line, scanning WinCombos in order.
func Winner(board entity.Board) (entity.Mark, bool) {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a, true
		}
	}

	return entity.EmptyCell, false
}

func IsFull(board entity.Board) bool {
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return true
}

func IsTerminal(board entity.Board) bool {
	if _, ok := Winner(board); ok {
		return true
	}

	return IsFull(board)
}

// LegalMoves returns the empty cells in ascending order, or nil once the game is over.
func LegalMoves(board entity.Board) []int {
	if IsTerminal(board) {
		return nil
	}

	moves := make([]int, 0, len(board))
	for i, cell := range board {
		if cell == entity.EmptyCell {
			moves = append(moves, i)
		}
	}

	return moves
}

func Evaluate(board entity.Board) entity.Outcome {
	if winner, ok := Winner(board); ok {
		return entity.Outcome{Status: entity.StatusWon, Winner: winner}
	}

	if IsFull(board) {
		return entity.Outcome{Status: entity.StatusDraw}
	}

	return entity.Outcome{Status: entity.StatusOngoing}
}
