package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhier/internal/config"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()

	db, err := New(&config.DatabaseConfig{
		SQLitePath:      filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestNewSQLite(t *testing.T) {
	db := openTestDB(t)
	assert.Equal(t, DialectSQLite, db.Dialect())
	assert.NoError(t, db.Ping())
	assert.NoError(t, db.HealthCheck())
}

func TestRunMigrations(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.RunMigrations())

	// All tables exist
	for _, table := range []string{"units", "soldiers", "soldier_raw_inputs", "reports",
		"suggestions", "report_sequences", "frago_sequence", "generated_documents"} {
		_, err := db.Exec("SELECT 1 FROM " + table + " LIMIT 1")
		assert.NoError(t, err, "table %s should exist", table)
	}

	// Legacy counter is seeded
	rows, err := db.QueryMaps(`SELECT next_number FROM frago_sequence WHERE id = 1`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0]["next_number"])

	// Second run is a no-op
	require.NoError(t, db.RunMigrations())
}

func TestRunMigrationsChecksumMismatch(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.RunMigrations())

	_, err := db.Exec(`UPDATE schema_migrations SET checksum = ? WHERE version = ?`, "tampered", "001")
	require.NoError(t, err)

	err = db.RunMigrations()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}
