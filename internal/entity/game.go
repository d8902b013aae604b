package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
)

const (
	StatusOngoing = "ongoing"
	StatusWon     = "won"
	StatusDraw    = "draw"
)

// Outcome is always derived from a Board and never stored on the game.
type Outcome struct {
	Status string `json:"status"`
	Winner Mark   `json:"winner,omitempty"`
}

func (that Outcome) IsTerminal() bool {
	return that.Status == StatusWon || that.Status == StatusDraw
}

func (that Outcome) String() string {
	switch that.Status {
	case StatusWon:
		return that.Winner.String() + " has won"
	case StatusDraw:
		return "draw"
	default:
		return "in progress"
	}
}

type Move struct {
	Cell int  `json:"cell"`
	Mark Mark `json:"mark"`
}

func (that Move) Validate() error {
	if !ValidCell(that.Cell) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, that.Cell)
	}

	if !that.Mark.IsPlayer() {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMark, that.Mark)
	}

	return nil
}

// Game is the mutable state of a single in-flight game.
type Game struct {
	ID    string `json:"id"`
	Board Board  `json:"board"`
	Turn  Mark   `json:"player_turn"`
	Moves []Move `json:"moves,omitempty"`
}

func NewGame(id string, firstMark Mark) *Game {
	return &Game{
		ID:   id,
		Turn: firstMark,
	}
}

// Snapshot returns a copy that shares no memory with the game.
func (that *Game) Snapshot() Game {
	snapshot := *that
	snapshot.Moves = append([]Move(nil), that.Moves...)

	return snapshot
}
