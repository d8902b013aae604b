package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

// redisMove keeps the log in a sorted set scored by sequence id. The sequence counter
// lives in its own key and survives Clear.
type redisMove struct {
	client *redis.Client
	key    string
	seqKey string
}

func NewRedisMoveRepository(client *redis.Client, channel string) MoveRepository {
	return &redisMove{
		client: client,
		key:    "moves:" + channel,
		seqKey: "moves:" + channel + ":seq",
	}
}

func (that *redisMove) Append(ctx context.Context, move entity.Move) (entity.RemoteMove, error) {
	seq, err := that.client.Incr(ctx, that.seqKey).Result()
	if err != nil {
		return entity.RemoteMove{}, fmt.Errorf("failed to allocate sequence id: %w", err)
	}

	record := entity.RemoteMove{Seq: seq, Cell: move.Cell, Mark: move.Mark}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return entity.RemoteMove{}, fmt.Errorf("could not marshal move: %w", err)
	}

	err = that.client.ZAdd(ctx, that.key, redis.Z{Score: float64(seq), Member: recordJSON}).Err()
	if err != nil {
		return entity.RemoteMove{}, fmt.Errorf("failed to add move: %w", err)
	}

	return record, nil
}

func (that *redisMove) List(ctx context.Context) ([]entity.RemoteMove, error) {
	members, err := that.client.ZRangeWithScores(ctx, that.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list moves: %w", err)
	}

	records := make([]entity.RemoteMove, 0, len(members))

	var decodeErrs []error
	for _, member := range members {
		record, err := decodeMember(member)
		if err != nil {
			decodeErrs = append(decodeErrs, err)
		}

		records = append(records, record)
	}

	return records, errors.Join(decodeErrs...)
}

func (that *redisMove) Delete(ctx context.Context, seq int64) error {
	score := strconv.FormatInt(seq, 10)

	if err := that.client.ZRemRangeByScore(ctx, that.key, score, score).Err(); err != nil {
		return fmt.Errorf("failed to delete move %d: %w", seq, err)
	}

	return nil
}

func (that *redisMove) Clear(ctx context.Context) error {
	if err := that.client.Del(ctx, that.key).Err(); err != nil {
		return fmt.Errorf("failed to clear moves: %w", err)
	}

	return nil
}

// decodeMember trusts the score for the sequence id, so an unreadable member still comes back
// with a usable id and an empty mark that fails validation.
func decodeMember(member redis.Z) (entity.RemoteMove, error) {
	var record entity.RemoteMove

	raw, ok := member.Member.(string)
	if !ok {
		record.Seq = int64(member.Score)
		return record, fmt.Errorf("%w: member %d is %T", apperror.ErrMalformedRecord, record.Seq, member.Member)
	}

	err := json.Unmarshal([]byte(raw), &record)
	record.Seq = int64(member.Score)

	if err != nil {
		return entity.RemoteMove{Seq: record.Seq}, fmt.Errorf("%w: member %d: %w", apperror.ErrMalformedRecord, record.Seq, err)
	}

	return record, nil
}
