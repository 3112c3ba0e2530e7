package repository

import (
	"context"

	"scan_report_srv/internal/domain/query"
)

// ResultSet holds rows of a query together with column names in result order.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// QueryExecutor executes read-only SQL queries and returns resulting rows.
type QueryExecutor interface {
	Execute(ctx context.Context, q query.Query) (ResultSet, error)
}
