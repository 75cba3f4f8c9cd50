// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
)

// BrowserPageSize is the number of rows shown per page in the table browser.
const BrowserPageSize = 50

// redactedColumns are never shown in the table browser.
var redactedColumns = []string{"password_hash", "totp_secret"}

// Cell is one rendered value of the table browser. Null distinguishes SQL
// NULL from an empty string.
type Cell struct {
	Value string
	Null  bool
}

// TablePage is one page of rows from an arbitrary table.
type TablePage struct {
	Table      string
	Columns    []string
	Rows       [][]Cell
	Page       int
	TotalRows  int
	TotalPages int
}

// TableBrowser is a read-only view over the user tables of the public schema.
type TableBrowser struct {
	db     *sql.DB
	hidden []string
}

// NewTableBrowser returns a TableBrowser that hides the named tables (for
// example the migration bookkeeping table).
func NewTableBrowser(db *sql.DB, hidden ...string) *TableBrowser {
	return &TableBrowser{db: db, hidden: hidden}
}

// Tables lists the browsable tables in alphabetical order.
func (b *TableBrowser) Tables(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		if slices.Contains(b.hidden, name) {
			continue
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// Page returns one page (1-based) of rows from table. The table must be one
// of Tables; anything else yields ErrNotFound.
func (b *TableBrowser) Page(ctx context.Context, table string, page int) (*TablePage, error) {
	tables, err := b.Tables(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(tables, table) {
		return nil, fmt.Errorf("browse %q: %w", table, ErrNotFound)
	}
	if page < 1 {
		page = 1
	}

	ident := pgx.Identifier{table}.Sanitize()

	var total int
	countSQL, _, err := psql.Select("COUNT(*)").From(ident).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count: %w", err)
	}
	if err := b.db.QueryRowContext(ctx, countSQL).Scan(&total); err != nil {
		return nil, fmt.Errorf("count %s: %w", table, err)
	}

	query, args, err := psql.Select("*").From(ident).
		OrderBy("1").
		Limit(BrowserPageSize).
		Offset(uint64((page - 1) * BrowserPageSize)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build browse: %w", err)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("browse %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("browse columns: %w", err)
	}

	result := &TablePage{
		Table:      table,
		Columns:    cols,
		Page:       page,
		TotalRows:  total,
		TotalPages: max(1, (total+BrowserPageSize-1)/BrowserPageSize),
	}

	values := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		row := make([]Cell, len(cols))
		for i, v := range values {
			if slices.Contains(redactedColumns, cols[i]) && v != nil {
				row[i] = Cell{Value: "[redacted]"}
				continue
			}
			row[i] = formatCell(v)
		}
		result.Rows = append(result.Rows, row)
	}
	return result, rows.Err()
}

func formatCell(v any) Cell {
	switch x := v.(type) {
	case nil:
		return Cell{Null: true}
	case []byte:
		return Cell{Value: string(x)}
	case time.Time:
		return Cell{Value: x.Format(time.RFC3339)}
	default:
		return Cell{Value: fmt.Sprint(x)}
	}
}
