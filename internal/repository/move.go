package repository

import (
	"context"

	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

// MoveRepository is the shared move log of one online channel.
type MoveRepository interface {
	// Append stores the move under a new, strictly increasing sequence id.
	Append(ctx context.Context, move entity.Move) (entity.RemoteMove, error)
	// List returns every record in sequence order. Entries that cannot be decoded come back with only
	// their sequence id, next to an error wrapping apperror.ErrMalformedRecord.
	List(ctx context.Context) ([]entity.RemoteMove, error)
	Delete(ctx context.Context, seq int64) error
	Clear(ctx context.Context) error
}
