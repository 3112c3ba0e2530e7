package sql

import (
	"context"
	"database/sql"

	"scan_report_srv/internal/usecase/repository"
)

// DB wraps *sql.DB to run generic read queries.
type DB struct {
	*sql.DB
}

// Execute executes a query and returns the columns and rows in result order.
func (d DB) Execute(ctx context.Context, query string, args ...any) (repository.ResultSet, error) {
	rows, err := d.QueryContext(ctx, query, args...)
	if err != nil {
		return repository.ResultSet{}, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return repository.ResultSet{}, err
	}

	result := repository.ResultSet{Columns: cols, Rows: make([][]any, 0)}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range ptrs {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return repository.ResultSet{}, err
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return repository.ResultSet{}, err
	}
	return result, nil
}
