package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rebind rewrites `?` placeholders to the form the active engine expects.
// SQLite passes through unchanged; PostgreSQL gets positional `$N` markers.
// Placeholders inside single-quoted literals are left alone. A malformed
// query (e.g. an unterminated literal) is passed through untouched and
// surfaces as the engine's own query error.
func (d *Database) Rebind(query string) string {
	return rebind(d.dialect, query)
}

func rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query) + 8)

	inQuote := false
	n := 0
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			// '' inside a literal is an escaped quote, not a terminator
			if inQuote && i+1 < len(query) && query[i+1] == '\'' {
				sb.WriteString("''")
				i++
				continue
			}
			inQuote = !inQuote
			sb.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String()
}

// Exec executes a query without returning rows
func (d *Database) Exec(query string, args ...any) (sql.Result, error) {
	return d.DB.Exec(d.Rebind(query), args...)
}

// ExecContext executes a query without returning rows
func (d *Database) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.DB.ExecContext(ctx, d.Rebind(query), args...)
}

// Query executes a query that returns rows
func (d *Database) Query(query string, args ...any) (*sql.Rows, error) {
	return d.DB.Query(d.Rebind(query), args...)
}

// QueryRow executes a query that returns at most one row
func (d *Database) QueryRow(query string, args ...any) *sql.Row {
	return d.DB.QueryRow(d.Rebind(query), args...)
}

// QueryMaps executes a query and returns every row as a field-name-keyed
// mapping, normalized identically for both backends.
func (d *Database) QueryMaps(query string, args ...any) ([]map[string]any, error) {
	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMaps(rows)
}

// Begin starts a transaction whose statements go through the same
// placeholder rewrite as the connection itself.
func (d *Database) Begin() (*Tx, error) {
	tx, err := d.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: begin transaction: %v", ErrUnavailable, err)
	}
	return &Tx{tx: tx, dialect: d.dialect}, nil
}

// Tx wraps sql.Tx with the adapter's placeholder rewrite
type Tx struct {
	tx      *sql.Tx
	dialect Dialect
}

// Exec executes a query within the transaction
func (t *Tx) Exec(query string, args ...any) (sql.Result, error) {
	return t.tx.Exec(rebind(t.dialect, query), args...)
}

// Query executes a query within the transaction
func (t *Tx) Query(query string, args ...any) (*sql.Rows, error) {
	return t.tx.Query(rebind(t.dialect, query), args...)
}

// QueryRow executes a query within the transaction
func (t *Tx) QueryRow(query string, args ...any) *sql.Row {
	return t.tx.QueryRow(rebind(t.dialect, query), args...)
}

// Commit commits the transaction
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// scanMaps converts sql.Rows into field-keyed mappings with values
// normalized across drivers: []byte becomes string, integer types become
// int64. Calling code never sees backend-specific row shapes.
func scanMaps(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		m := make(map[string]any, len(cols))
		for i, col := range cols {
			m[col] = normalizeValue(values[i])
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case time.Time:
		return val.UTC()
	default:
		return v
	}
}
