package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebindPostgres(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "no placeholders",
			query: "SELECT * FROM units",
			want:  "SELECT * FROM units",
		},
		{
			name:  "single placeholder",
			query: "SELECT * FROM units WHERE unit_id = ?",
			want:  "SELECT * FROM units WHERE unit_id = $1",
		},
		{
			name:  "multiple placeholders",
			query: "INSERT INTO units (unit_id, name, level) VALUES (?, ?, ?)",
			want:  "INSERT INTO units (unit_id, name, level) VALUES ($1, $2, $3)",
		},
		{
			name:  "placeholder inside literal untouched",
			query: "SELECT * FROM reports WHERE structured_json = '?' AND report_id = ?",
			want:  "SELECT * FROM reports WHERE structured_json = '?' AND report_id = $1",
		},
		{
			name:  "escaped quote inside literal",
			query: "SELECT 'it''s ?' , ?",
			want:  "SELECT 'it''s ?' , $1",
		},
		{
			name:  "unterminated literal passed through",
			query: "SELECT 'broken ?",
			want:  "SELECT 'broken ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rebind(DialectPostgres, tt.query))
		})
	}
}

func TestRebindSQLitePassthrough(t *testing.T) {
	query := "SELECT * FROM units WHERE unit_id = ? AND level = ?"
	assert.Equal(t, query, rebind(DialectSQLite, query))
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, "hello", normalizeValue([]byte("hello")))
	assert.Equal(t, int64(7), normalizeValue(7))
	assert.Equal(t, int64(7), normalizeValue(int32(7)))
	assert.Equal(t, int64(7), normalizeValue(int64(7)))
	assert.Equal(t, 1.5, normalizeValue(1.5))
	assert.Nil(t, normalizeValue(nil))
}

func TestQueryMaps(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`CREATE TABLE samples (id TEXT PRIMARY KEY, count INTEGER, score REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO samples (id, count, score) VALUES (?, ?, ?)`, "a", 3, 0.5)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO samples (id, count, score) VALUES (?, ?, ?)`, "b", 4, 0.9)
	require.NoError(t, err)

	rows, err := db.QueryMaps(`SELECT id, count, score FROM samples ORDER BY id`)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "a", rows[0]["id"])
	assert.Equal(t, int64(3), rows[0]["count"])
	assert.Equal(t, 0.5, rows[0]["score"])
	assert.Equal(t, "b", rows[1]["id"])
}

func TestTransactionRollback(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`CREATE TABLE samples (id TEXT PRIMARY KEY)`)
	require.NoError(t, err)

	tx, err := db.Begin()
	require.NoError(t, err)
	_, err = tx.Exec(`INSERT INTO samples (id) VALUES (?)`, "a")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	rows, err := db.QueryMaps(`SELECT id FROM samples`)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
