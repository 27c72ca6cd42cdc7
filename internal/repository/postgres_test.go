package repository_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhier/internal/database"
	"milhier/internal/models"
	"milhier/internal/repository"
	"milhier/internal/testutil"
)

// The same repository code runs against both engines; this exercises the
// placeholder rewrite and sequence allocation on a real PostgreSQL.
func TestPostgresBackend(t *testing.T) {
	db := testutil.NewPostgresDB(t)

	units := repository.NewUnitRepository(db)
	soldiers := repository.NewSoldierRepository(db)
	sequences := repository.NewSequenceRepository(db)

	unit := &models.Unit{
		UnitID: uuid.New().String(),
		Name:   "Alpha Company",
		Level:  "company",
	}
	require.NoError(t, units.Create(unit))

	soldier := &models.Soldier{
		SoldierID: uuid.New().String(),
		Name:      "Vance",
		Rank:      "CPL",
		UnitID:    unit.UnitID,
	}
	require.NoError(t, soldiers.Create(soldier))

	got, err := soldiers.GetByID(soldier.SoldierID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha Company", got.UnitName)

	for want := int64(1); want <= 3; want++ {
		tx, err := db.Begin()
		require.NoError(t, err)
		n, err := sequences.AllocateNext(tx, models.DocTypeCASEVAC)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())
		assert.Equal(t, want, n)
	}

	assert.ErrorIs(t, units.Delete(unit.UnitID), repository.ErrUnitHasDependents)
}

// The same query through QueryMaps must return identically keyed rows with
// equal, normalized values on both engines.
func TestQueryMapsBackendParity(t *testing.T) {
	pg := testutil.NewPostgresDB(t)
	lite := testutil.NewSQLiteDB(t)

	seed := func(db *database.Database) {
		_, err := db.Exec(
			`INSERT INTO units (unit_id, name, parent_unit_id, level, created_at) VALUES (?, ?, NULL, ?, ?)`,
			"u-parity", "Alpha Company", "company", "2026-08-30T12:00:00Z")
		require.NoError(t, err)
		_, err = db.Exec(
			`INSERT INTO report_sequences (report_type, next_number) VALUES (?, ?)`,
			models.DocTypeCASEVAC, 7)
		require.NoError(t, err)
		_, err = db.Exec(
			`INSERT INTO soldiers (soldier_id, name, rank, unit_id, device_id, status, created_at, last_seen)
			 VALUES (?, ?, ?, ?, NULL, ?, ?, NULL)`,
			"s-parity", "Vance", "CPL", "u-parity", "active", "2026-08-30T12:00:00Z")
		require.NoError(t, err)
	}
	seed(lite)
	seed(pg)

	query := `SELECT s.soldier_id, s.name, s.device_id, s.last_seen, u.name AS unit_name, u.created_at, q.next_number
		FROM soldiers s
		JOIN units u ON u.unit_id = s.unit_id
		JOIN report_sequences q ON q.report_type = ?
		WHERE s.soldier_id = ?`

	liteRows, err := lite.QueryMaps(query, models.DocTypeCASEVAC, "s-parity")
	require.NoError(t, err)
	pgRows, err := pg.QueryMaps(query, models.DocTypeCASEVAC, "s-parity")
	require.NoError(t, err)

	require.Len(t, liteRows, 1)
	assert.Equal(t, liteRows, pgRows)

	row := liteRows[0]
	assert.Equal(t, "Vance", row["name"])
	assert.Equal(t, "Alpha Company", row["unit_name"])
	assert.Equal(t, int64(7), row["next_number"])
	assert.Nil(t, row["device_id"])
	assert.Nil(t, row["last_seen"])
}
