package sqlstore

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashy/internal/db"
)

// Helper functions shared across repository implementations

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func insertReturningID(ctx context.Context, conn db.DBTX, query squirrel.InsertBuilder) (int64, error) {
	q, args, err := query.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := conn.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func exec(ctx context.Context, conn db.DBTX, query squirrel.Sqlizer) (sql.Result, error) {
	q, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	return conn.ExecContext(ctx, q, args...)
}

// queryIDs collects a single int64 column. Rows are fully drained before
// returning so the connection is free for the next statement.
func queryIDs(ctx context.Context, conn db.DBTX, query squirrel.SelectBuilder) ([]int64, error) {
	q, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
