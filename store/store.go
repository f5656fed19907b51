// Package store persists draw results in MySQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/xor-shift/mcprng/common"
)

const (
	insertStreamQuery = "INSERT INTO streams (batch_key, stream_number, generator, seed_words, num_rows, num_columns, error)" +
		" VALUES (?, ?, ?, ?, ?, ?, ?)"
	insertCellQuery = "INSERT INTO draws (stream_id, row_idx, col_idx, value) VALUES (?, ?, ?, ?)"

	selectStreamsQuery = "SELECT stream_id, stream_number, generator, seed_words, num_rows, num_columns, error" +
		" FROM streams WHERE batch_key=? ORDER BY stream_number, stream_id"
	selectCellsQuery = "SELECT row_idx, col_idx, value FROM draws WHERE stream_id=?"
)

var ErrNotFound = errors.New("batch not found")

type Store struct {
	db *sql.DB
}

func Open(cfg *mysql.Config) (*Store, error) {
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InsertResult writes one stream row and one row per cell in a single
// transaction.
func (s *Store) InsertResult(ctx context.Context, result common.JobResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	numRows, numColumns := gridShape(result.Result)

	res, err := tx.ExecContext(ctx, insertStreamQuery,
		result.BatchKey, result.StreamNumber, result.Generator, result.SeedWords,
		numRows, numColumns, result.Error)
	if err != nil {
		return fmt.Errorf("inserting stream: %w", err)
	}

	streamID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, insertCellQuery)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for r, row := range result.Result {
		for c, v := range row {
			if _, err = stmt.ExecContext(ctx, streamID, r, c, v); err != nil {
				return fmt.Errorf("inserting cell (%d, %d): %w", r, c, err)
			}
		}
	}

	return tx.Commit()
}

// LoadBatch returns every stored result of batchKey ordered by stream.
func (s *Store) LoadBatch(ctx context.Context, batchKey string) ([]common.JobResult, error) {
	type streamRow struct {
		id                  int64
		numRows, numColumns int
		result              common.JobResult
	}

	rows, err := s.db.QueryContext(ctx, selectStreamsQuery, batchKey)
	if err != nil {
		return nil, err
	}

	var streams []streamRow
	for rows.Next() {
		row := streamRow{result: common.JobResult{BatchKey: batchKey}}
		if err = rows.Scan(&row.id, &row.result.StreamNumber, &row.result.Generator, &row.result.SeedWords,
			&row.numRows, &row.numColumns, &row.result.Error); err != nil {
			rows.Close()
			return nil, err
		}
		streams = append(streams, row)
	}
	rows.Close()

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(streams) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, batchKey)
	}

	results := make([]common.JobResult, 0, len(streams))
	for _, stream := range streams {
		if stream.result.Result, err = s.loadCells(ctx, stream.id, stream.numRows, stream.numColumns); err != nil {
			return nil, fmt.Errorf("stream %d: %w", stream.result.StreamNumber, err)
		}
		results = append(results, stream.result)
	}

	return results, nil
}

func (s *Store) loadCells(ctx context.Context, streamID int64, numRows, numColumns int) ([][]float64, error) {
	if numRows == 0 {
		return nil, nil
	}

	grid := newGrid(numRows, numColumns)

	rows, err := s.db.QueryContext(ctx, selectCellsQuery, streamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r, c int
		var v float64

		if err = rows.Scan(&r, &c, &v); err != nil {
			return nil, err
		}

		if r < 0 || r >= numRows || c < 0 || c >= numColumns {
			return nil, fmt.Errorf("cell (%d, %d) outside %dx%d grid", r, c, numRows, numColumns)
		}

		grid[r][c] = v
	}

	return grid, rows.Err()
}

func gridShape(grid [][]float64) (rows, cols int) {
	if len(grid) == 0 {
		return 0, 0
	}

	return len(grid), len(grid[0])
}

func newGrid(rows, cols int) [][]float64 {
	grid := make([][]float64, rows)
	for r := range grid {
		grid[r] = make([]float64, cols)
	}

	return grid
}
