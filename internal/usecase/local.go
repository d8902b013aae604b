package usecase

import (
	"context"

	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

// LocalGame lets one shell drive a session. With an empty mark every move is made for the side
// whose turn it is (human vs human); otherwise the shell always plays mark (human vs computer).
type LocalGame struct {
	session *GameSession
	mark    entity.Mark
}

func NewLocalGame(session *GameSession, mark entity.Mark) *LocalGame {
	return &LocalGame{
		session: session,
		mark:    mark,
	}
}

func (that *LocalGame) MakeTurn(_ context.Context, cell int) (Result, error) {
	mark := that.mark
	if mark == entity.EmptyCell {
		mark = that.session.Turn()
	}

	return that.session.ApplyMove(entity.Move{Cell: cell, Mark: mark})
}

func (that *LocalGame) Reset(_ context.Context) (Result, error) {
	return that.session.Reset()
}

func (that *LocalGame) State() Result {
	return that.session.State()
}
