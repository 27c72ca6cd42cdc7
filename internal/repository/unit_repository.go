package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"milhier/internal/database"
	"milhier/internal/models"
)

var (
	ErrUnitNotFound      = errors.New("unit not found")
	ErrUnitHasDependents = errors.New("unit has dependent records")
)

// UnitRepository handles unit database operations
type UnitRepository struct {
	db *database.Database
}

// NewUnitRepository creates a new unit repository
func NewUnitRepository(db *database.Database) *UnitRepository {
	return &UnitRepository{db: db}
}

// Create creates a new unit. The parent unit, if set, must already exist.
func (r *UnitRepository) Create(unit *models.Unit) error {
	if unit.ParentUnitID != nil {
		if _, err := r.GetByID(*unit.ParentUnitID); err != nil {
			return err
		}
	}

	unit.CreatedAt = time.Now().UTC()
	_, err := r.db.Exec(`
		INSERT INTO units (unit_id, name, parent_unit_id, level, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, unit.UnitID, unit.Name, unit.ParentUnitID, unit.Level, formatTime(unit.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create unit: %w", err)
	}

	return nil
}

// GetByID retrieves a unit by ID
func (r *UnitRepository) GetByID(id string) (*models.Unit, error) {
	row := r.db.QueryRow(`
		SELECT unit_id, name, parent_unit_id, level, created_at
		FROM units
		WHERE unit_id = ?
	`, id)

	unit, err := scanUnit(row)
	if err == sql.ErrNoRows {
		return nil, ErrUnitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get unit: %w", err)
	}

	return unit, nil
}

// GetAll retrieves all units ordered by hierarchy level and name
func (r *UnitRepository) GetAll() ([]models.Unit, error) {
	rows, err := r.db.Query(`
		SELECT unit_id, name, parent_unit_id, level, created_at
		FROM units
		ORDER BY level, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get units: %w", err)
	}
	defer rows.Close()

	var units []models.Unit
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, *unit)
	}

	return units, rows.Err()
}

// Delete removes a unit. Units with soldiers or subordinate units are
// rejected rather than cascaded.
func (r *UnitRepository) Delete(id string) error {
	var dependents int
	err := r.db.QueryRow(`
		SELECT (SELECT COUNT(*) FROM soldiers WHERE unit_id = ?)
		     + (SELECT COUNT(*) FROM units WHERE parent_unit_id = ?)
	`, id, id).Scan(&dependents)
	if err != nil {
		return fmt.Errorf("failed to count unit dependents: %w", err)
	}
	if dependents > 0 {
		return ErrUnitHasDependents
	}

	result, err := r.db.Exec(`DELETE FROM units WHERE unit_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete unit: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrUnitNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUnit(row rowScanner) (*models.Unit, error) {
	var (
		unit      models.Unit
		parent    sql.NullString
		createdAt string
	)
	if err := row.Scan(&unit.UnitID, &unit.Name, &parent, &unit.Level, &createdAt); err != nil {
		return nil, err
	}
	unit.ParentUnitID = stringPtr(parent)
	unit.CreatedAt = parseTime(createdAt)
	return &unit, nil
}
