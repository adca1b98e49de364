package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

// QueryRepository runs caller supplied statements inside read-only transactions.
type QueryRepository struct {
	db *bun.DB
}

func NewQueryRepository(db *bun.DB) *QueryRepository {
	return &QueryRepository{db: db}
}

func (r *QueryRepository) Select(ctx context.Context, query string, params []any, maxRows int) ([]map[string]any, error) {
	var rows []map[string]any
	err := r.db.RunInTx(ctx, &sql.TxOptions{ReadOnly: true}, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(query, params...).Scan(ctx, &rows)
	})
	if err != nil {
		return nil, fmt.Errorf("read-only query: %w", err)
	}

	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	for _, row := range rows {
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	return rows, nil
}
