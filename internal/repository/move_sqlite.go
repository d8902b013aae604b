package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

type sqliteMove struct {
	conn    *sql.DB
	channel string
}

func NewSQLiteMoveRepository(conn *sql.DB, channel string) MoveRepository {
	return &sqliteMove{
		conn:    conn,
		channel: channel,
	}
}

func (that *sqliteMove) Append(ctx context.Context, move entity.Move) (entity.RemoteMove, error) {
	query := `INSERT INTO moves (channel, cell, sign) VALUES (?, ?, ?)`

	res, err := that.conn.ExecContext(ctx, query, that.channel, move.Cell, string(move.Mark))
	if err != nil {
		return entity.RemoteMove{}, fmt.Errorf("can't save move: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return entity.RemoteMove{}, fmt.Errorf("can't read move id: %w", err)
	}

	return entity.RemoteMove{Seq: seq, Cell: move.Cell, Mark: move.Mark}, nil
}

func (that *sqliteMove) List(ctx context.Context) ([]entity.RemoteMove, error) {
	query := `SELECT id, cell, sign FROM moves WHERE channel = ? ORDER BY id`

	rows, err := that.conn.QueryContext(ctx, query, that.channel)
	if err != nil {
		return nil, fmt.Errorf("can't list moves: %w", err)
	}
	defer rows.Close()

	var records []entity.RemoteMove
	for rows.Next() {
		var (
			record entity.RemoteMove
			sign   string
		)

		if err = rows.Scan(&record.Seq, &record.Cell, &sign); err != nil {
			return nil, fmt.Errorf("can't scan move: %w", err)
		}

		record.Mark = entity.Mark(sign)
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't list moves: %w", err)
	}

	return records, nil
}

func (that *sqliteMove) Delete(ctx context.Context, seq int64) error {
	query := `DELETE FROM moves WHERE channel = ? AND id = ?`

	if _, err := that.conn.ExecContext(ctx, query, that.channel, seq); err != nil {
		return fmt.Errorf("can't delete move %d: %w", seq, err)
	}

	return nil
}

func (that *sqliteMove) Clear(ctx context.Context) error {
	query := `DELETE FROM moves WHERE channel = ?`

	if _, err := that.conn.ExecContext(ctx, query, that.channel); err != nil {
		return fmt.Errorf("can't clear moves: %w", err)
	}

	return nil
}
