// Package online makes moves visible to a second game instance through a shared move log.
//
// Every record carries a sequence id and stays in the log until the receiving side consumes it.
// Records are handed over oldest first, so a game-ending move always arrives before the first
// move of the next game.
package online

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

const DefaultPollInterval = time.Second

type moveStore interface {
	Append(ctx context.Context, move entity.Move) (entity.RemoteMove, error)
	List(ctx context.Context) ([]entity.RemoteMove, error)
	Delete(ctx context.Context, seq int64) error
	Clear(ctx context.Context) error
}

type Channel struct {
	logger   *slog.Logger
	store    moveStore
	interval time.Duration
}

func NewChannel(logger *slog.Logger, store moveStore, interval time.Duration) *Channel {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Channel{
		logger:   logger.With("component", "channel"),
		store:    store,
		interval: interval,
	}
}

// Publish appends a locally applied move to the shared log.
func (that *Channel) Publish(ctx context.Context, move entity.Move) error {
	if err := move.Validate(); err != nil {
		return fmt.Errorf("refusing to publish: %w", err)
	}

	record, err := that.store.Append(ctx, move)
	if err != nil {
		return fmt.Errorf("failed to append move: %w", err)
	}

	that.logger.Debug("move published", "seq", record.Seq, "cell", record.Cell, "sign", record.Mark)

	return nil
}

// Poll reads the pending records in sequence order. Malformed records are deleted and left out.
func (that *Channel) Poll(ctx context.Context) ([]entity.RemoteMove, error) {
	log := that.logger.With("method", "Poll")

	records, err := that.store.List(ctx)
	if err != nil && !errors.Is(err, apperror.ErrMalformedRecord) {
		return nil, fmt.Errorf("failed to read move log: %w", err)
	}

	if err != nil {
		log.Warn("move log holds unreadable records", "error", err)
	}

	candidates := make([]entity.RemoteMove, 0, len(records))
	for _, record := range records {
		if err = record.Validate(); err == nil {
			candidates = append(candidates, record)
			continue
		}

		log.Warn("discarding malformed record", "seq", record.Seq, "cell", record.Cell, "sign", record.Mark, "error", err)

		if record.Seq <= 0 {
			continue
		}

		if err = that.store.Delete(ctx, record.Seq); err != nil {
			return nil, fmt.Errorf("failed to delete malformed record: %w", err)
		}
	}

	return candidates, nil
}

// Consume removes a record once it has been dealt with.
func (that *Channel) Consume(ctx context.Context, record entity.RemoteMove) error {
	if err := that.store.Delete(ctx, record.Seq); err != nil {
		return fmt.Errorf("failed to delete record %d: %w", record.Seq, err)
	}

	return nil
}

// Reset empties the shared log.
func (that *Channel) Reset(ctx context.Context) error {
	if err := that.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear move log: %w", err)
	}

	return nil
}

// Run polls right away and then on every tick, sending each candidate record to out in sequence order.
// A failed poll is logged and retried on the next tick. Run returns when ctx is canceled.
func (that *Channel) Run(ctx context.Context, out chan<- entity.RemoteMove) {
	log := that.logger.With("method", "Run")

	ticker := time.NewTicker(that.interval)
	defer ticker.Stop()

	for {
		records, err := that.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error("poll failed", "error", err)
		}

		for _, record := range records {
			select {
			case out <- record:
			case <-ctx.Done():
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
