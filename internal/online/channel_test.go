package online

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store down")

type mockMoveStore struct {
	mock.Mock
}

func (that *mockMoveStore) Append(ctx context.Context, move entity.Move) (entity.RemoteMove, error) {
	args := that.Called(ctx, move)
	return args.Get(0).(entity.RemoteMove), args.Error(1)
}

func (that *mockMoveStore) List(ctx context.Context) ([]entity.RemoteMove, error) {
	args := that.Called(ctx)
	records, _ := args.Get(0).([]entity.RemoteMove)
	return records, args.Error(1)
}

func (that *mockMoveStore) Delete(ctx context.Context, seq int64) error {
	return that.Called(ctx, seq).Error(0)
}

func (that *mockMoveStore) Clear(ctx context.Context) error {
	return that.Called(ctx).Error(0)
}

func newTestChannel(t *testing.T, interval time.Duration) (*Channel, *mockMoveStore) {
	t.Helper()

	store := &mockMoveStore{}
	t.Cleanup(func() { store.AssertExpectations(t) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewChannel(logger, store, interval), store
}

func TestChannel_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("Appends the move", func(t *testing.T) {
		// Given: a channel over a working store
		channel, store := newTestChannel(t, time.Second)
		move := entity.Move{Cell: 4, Mark: entity.MarkX}
		store.On("Append", mock.Anything, move).Return(entity.RemoteMove{Seq: 1, Cell: 4, Mark: entity.MarkX}, nil).Once()

		// When: publishing a move
		err := channel.Publish(ctx, move)

		// Then: it is appended without error
		require.NoError(t, err)
	})

	t.Run("Refuses an invalid move", func(t *testing.T) {
		channel, _ := newTestChannel(t, time.Second)

		err := channel.Publish(ctx, entity.Move{Cell: 12, Mark: entity.MarkX})

		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Reports store failures", func(t *testing.T) {
		channel, store := newTestChannel(t, time.Second)
		store.On("Append", mock.Anything, mock.Anything).Return(entity.RemoteMove{}, errStoreDown).Once()

		err := channel.Publish(ctx, entity.Move{Cell: 0, Mark: entity.MarkO})

		require.ErrorIs(t, err, errStoreDown)
	})
}

func TestChannel_Poll(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty log", func(t *testing.T) {
		channel, store := newTestChannel(t, time.Second)
		store.On("List", mock.Anything).Return(nil, nil).Once()

		records, err := channel.Poll(ctx)

		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("Returns pending records oldest first", func(t *testing.T) {
		// Given: the log holds the last move of one game and the first move of the next
		channel, store := newTestChannel(t, time.Second)
		pending := []entity.RemoteMove{
			{Seq: 7, Cell: 2, Mark: entity.MarkX},
			{Seq: 8, Cell: 4, Mark: entity.MarkX},
		}
		store.On("List", mock.Anything).Return(pending, nil).Once()

		// When: polling
		records, err := channel.Poll(ctx)

		// Then: both are candidates in sequence order
		require.NoError(t, err)
		assert.Equal(t, pending, records)
	})

	t.Run("Deletes malformed records", func(t *testing.T) {
		// Given: the log holds a record with an unknown sign between two good ones
		channel, store := newTestChannel(t, time.Second)
		store.On("List", mock.Anything).Return([]entity.RemoteMove{
			{Seq: 2, Cell: 0, Mark: entity.MarkX},
			{Seq: 3, Cell: 2, Mark: "Q"},
			{Seq: 4, Cell: 1, Mark: entity.MarkO},
		}, nil).Once()
		store.On("Delete", mock.Anything, int64(3)).Return(nil).Once()

		// When: polling
		records, err := channel.Poll(ctx)

		// Then: the broken record is gone and the rest are handed on
		require.NoError(t, err)
		assert.Equal(t, []entity.RemoteMove{
			{Seq: 2, Cell: 0, Mark: entity.MarkX},
			{Seq: 4, Cell: 1, Mark: entity.MarkO},
		}, records)
	})

	t.Run("Unreadable entries are dropped, readable ones kept", func(t *testing.T) {
		// Given: the store could not decode one entry
		channel, store := newTestChannel(t, time.Second)
		decodeErr := fmt.Errorf("%w: member 5", apperror.ErrMalformedRecord)
		store.On("List", mock.Anything).Return([]entity.RemoteMove{
			{Seq: 5},
			{Seq: 6, Cell: 3, Mark: entity.MarkO},
		}, decodeErr).Once()
		store.On("Delete", mock.Anything, int64(5)).Return(nil).Once()

		// When: polling
		records, err := channel.Poll(ctx)

		// Then: the poll succeeds with the readable record
		require.NoError(t, err)
		assert.Equal(t, []entity.RemoteMove{{Seq: 6, Cell: 3, Mark: entity.MarkO}}, records)
	})

	t.Run("Read failure", func(t *testing.T) {
		channel, store := newTestChannel(t, time.Second)
		store.On("List", mock.Anything).Return(nil, errStoreDown).Once()

		records, err := channel.Poll(ctx)

		require.ErrorIs(t, err, errStoreDown)
		assert.Empty(t, records)
	})
}

func TestChannel_ConsumeAndReset(t *testing.T) {
	ctx := context.Background()
	channel, store := newTestChannel(t, time.Second)

	store.On("Delete", mock.Anything, int64(9)).Return(nil).Once()
	store.On("Clear", mock.Anything).Return(errStoreDown).Once()

	require.NoError(t, channel.Consume(ctx, entity.RemoteMove{Seq: 9, Cell: 1, Mark: entity.MarkX}))
	require.ErrorIs(t, channel.Reset(ctx), errStoreDown)
}

func TestChannel_Run(t *testing.T) {
	t.Run("Retries after a failed read", func(t *testing.T) {
		// Given: a store that fails once and then holds two records
		channel, store := newTestChannel(t, 10*time.Millisecond)
		first := entity.RemoteMove{Seq: 1, Cell: 4, Mark: entity.MarkO}
		second := entity.RemoteMove{Seq: 2, Cell: 0, Mark: entity.MarkX}
		store.On("List", mock.Anything).Return(nil, errStoreDown).Once()
		store.On("List", mock.Anything).Return([]entity.RemoteMove{first, second}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		out := make(chan entity.RemoteMove)
		stopped := make(chan struct{})
		go func() {
			channel.Run(ctx, out)
			close(stopped)
		}()

		// Then: the records arrive in order on a later tick
		for _, want := range []entity.RemoteMove{first, second} {
			select {
			case got := <-out:
				assert.Equal(t, want, got)
			case <-time.After(2 * time.Second):
				t.Fatal("no record delivered")
			}
		}

		// And: Run stops with the context
		cancel()
		select {
		case <-stopped:
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not stop")
		}
	})
}
