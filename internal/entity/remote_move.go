package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
)

// RemoteMove is one record of the shared move log used in online mode.
type RemoteMove struct {
	Seq  int64 `json:"seq"`
	Cell int   `json:"cell"`
	Mark Mark  `json:"sign"`
}

func (that RemoteMove) Move() Move {
	return Move{Cell: that.Cell, Mark: that.Mark}
}

func (that RemoteMove) Validate() error {
	if that.Seq <= 0 {
		return fmt.Errorf("%w: sequence id %d", apperror.ErrMalformedRecord, that.Seq)
	}

	if err := that.Move().Validate(); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrMalformedRecord, err)
	}

	return nil
}
