// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/tomtom215/homematch/internal/metrics"
)

// ErrEmptySource is returned when a source file has no columns or no rows.
var ErrEmptySource = errors.New("source has no data")

// Table is a fully materialized string table in source row order.
type Table struct {
	Columns []string
	Rows    [][]sql.NullString
}

// Column returns the index of name in Columns, or -1.
func (t *Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ReadTable reads a CSV (any extension) or Parquet file with a header row.
// Every column is cast to VARCHAR so the caller sees values exactly as
// rendered by DuckDB; NULL cells stay invalid.
func (db *DB) ReadTable(ctx context.Context, path string) (_ *Table, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("read_table", time.Since(start), err) }()

	source := sourceExpr(path, true)

	columns, err := db.describe(ctx, source)
	if err != nil {
		return nil, err
	}

	selects := make([]string, len(columns))
	for i, c := range columns {
		selects[i] = fmt.Sprintf("CAST(%s AS VARCHAR) AS %s", quoteIdent(c), quoteIdent(c))
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(selects, ", "), source)

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", path, err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // read-only query

	table := &Table{Columns: columns}
	for rows.Next() {
		row := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d of %s: %w", len(table.Rows), path, err)
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", path, err)
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptySource)
	}

	return table, nil
}

// ReadMatrix reads a headerless numeric CSV into row-major data.
// Every row must have the same number of columns and no NULL cells.
func (db *DB) ReadMatrix(ctx context.Context, path string) (data []float64, rows, cols int, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("read_matrix", time.Since(start), err) }()

	source := sourceExpr(path, false)

	columns, err := db.describe(ctx, source)
	if err != nil {
		return nil, 0, 0, err
	}
	cols = len(columns)

	selects := make([]string, cols)
	for i, c := range columns {
		selects[i] = fmt.Sprintf("CAST(%s AS DOUBLE)", quoteIdent(c))
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(selects, ", "), source)

	result, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to query %s: %w", path, err)
	}
	defer func() { _ = result.Close() }() //nolint:errcheck // read-only query

	row := make([]sql.NullFloat64, cols)
	dest := make([]any, cols)
	for i := range row {
		dest[i] = &row[i]
	}

	for result.Next() {
		if err := result.Scan(dest...); err != nil {
			return nil, 0, 0, fmt.Errorf("failed to scan matrix row %d: %w", rows, err)
		}
		for j, v := range row {
			if !v.Valid {
				return nil, 0, 0, fmt.Errorf("matrix cell (%d,%d) is empty", rows, j)
			}
			data = append(data, v.Float64)
		}
		rows++
	}
	if err := result.Err(); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to iterate %s: %w", path, err)
	}
	if rows == 0 {
		return nil, 0, 0, fmt.Errorf("%s: %w", path, ErrEmptySource)
	}

	return data, rows, cols, nil
}

// describe returns the column names DuckDB infers for source.
func (db *DB) describe(ctx context.Context, source string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, "DESCRIBE SELECT * FROM "+source)
	if err != nil {
		return nil, fmt.Errorf("failed to describe %s: %w", source, err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // read-only query

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read describe columns: %w", err)
	}

	var names []string
	for rows.Next() {
		// DESCRIBE returns column_name first; the remaining fields are ignored.
		vals := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan describe row: %w", err)
		}
		names = append(names, vals[0].String)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate describe rows: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptySource)
	}
	return names, nil
}

// sourceExpr builds a table function call for path. Files ending in
// .parquet use read_parquet; everything else is treated as CSV, which covers
// the upstream catalog export that carries a spreadsheet extension.
func sourceExpr(path string, header bool) string {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return fmt.Sprintf("read_parquet(%s)", quoteLiteral(path))
	}
	return fmt.Sprintf("read_csv_auto(%s, header = %t)", quoteLiteral(path), header)
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
