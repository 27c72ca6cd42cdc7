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
	ErrSoldierNotFound      = errors.New("soldier not found")
	ErrSoldierHasDependents = errors.New("soldier has dependent records")
)

// SoldierRepository handles soldier database operations
type SoldierRepository struct {
	db *database.Database
}

// NewSoldierRepository creates a new soldier repository
func NewSoldierRepository(db *database.Database) *SoldierRepository {
	return &SoldierRepository{db: db}
}

// Create creates a new soldier. The owning unit must exist.
func (r *SoldierRepository) Create(soldier *models.Soldier) error {
	var unitID string
	err := r.db.QueryRow(`SELECT unit_id FROM units WHERE unit_id = ?`, soldier.UnitID).Scan(&unitID)
	if err == sql.ErrNoRows {
		return ErrUnitNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to verify unit: %w", err)
	}

	if soldier.Status == "" {
		soldier.Status = "active"
	}
	soldier.CreatedAt = time.Now().UTC()

	_, err = r.db.Exec(`
		INSERT INTO soldiers (soldier_id, name, rank, unit_id, device_id, status, created_at, last_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, soldier.SoldierID, soldier.Name, soldier.Rank, soldier.UnitID, soldier.DeviceID,
		soldier.Status, formatTime(soldier.CreatedAt), formatTime(soldier.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create soldier: %w", err)
	}

	now := soldier.CreatedAt
	soldier.LastSeen = &now
	return nil
}

// GetByID retrieves a soldier by ID
func (r *SoldierRepository) GetByID(id string) (*models.Soldier, error) {
	row := r.db.QueryRow(`
		SELECT s.soldier_id, s.name, s.rank, s.unit_id, s.device_id, s.status,
		       s.created_at, s.last_seen, u.name AS unit_name
		FROM soldiers s
		JOIN units u ON s.unit_id = u.unit_id
		WHERE s.soldier_id = ?
	`, id)

	soldier, err := scanSoldier(row)
	if err == sql.ErrNoRows {
		return nil, ErrSoldierNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get soldier: %w", err)
	}

	return soldier, nil
}

// GetAll retrieves all soldiers with their unit names
func (r *SoldierRepository) GetAll() ([]models.Soldier, error) {
	return r.list(`
		SELECT s.soldier_id, s.name, s.rank, s.unit_id, s.device_id, s.status,
		       s.created_at, s.last_seen, u.name AS unit_name
		FROM soldiers s
		JOIN units u ON s.unit_id = u.unit_id
		ORDER BY u.level, s.rank, s.name
	`)
}

// GetByUnit retrieves all soldiers belonging to a unit
func (r *SoldierRepository) GetByUnit(unitID string) ([]models.Soldier, error) {
	return r.list(`
		SELECT s.soldier_id, s.name, s.rank, s.unit_id, s.device_id, s.status,
		       s.created_at, s.last_seen, u.name AS unit_name
		FROM soldiers s
		JOIN units u ON s.unit_id = u.unit_id
		WHERE s.unit_id = ?
		ORDER BY s.name
	`, unitID)
}

func (r *SoldierRepository) list(query string, args ...any) ([]models.Soldier, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get soldiers: %w", err)
	}
	defer rows.Close()

	var soldiers []models.Soldier
	for rows.Next() {
		soldier, err := scanSoldier(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan soldier: %w", err)
		}
		soldiers = append(soldiers, *soldier)
	}

	return soldiers, rows.Err()
}

// UpdateStatus updates a soldier's status and refreshes last_seen
func (r *SoldierRepository) UpdateStatus(id, status string) error {
	result, err := r.db.Exec(`
		UPDATE soldiers SET status = ?, last_seen = ? WHERE soldier_id = ?
	`, status, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update soldier status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrSoldierNotFound
	}
	return nil
}

// TouchLastSeen refreshes a soldier's last_seen timestamp (device heartbeat)
func (r *SoldierRepository) TouchLastSeen(id string) error {
	result, err := r.db.Exec(`
		UPDATE soldiers SET last_seen = ? WHERE soldier_id = ?
	`, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update last_seen: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrSoldierNotFound
	}
	return nil
}

// Delete removes a soldier. Soldiers with reports or raw inputs are
// rejected rather than cascaded.
func (r *SoldierRepository) Delete(id string) error {
	var dependents int
	err := r.db.QueryRow(`
		SELECT (SELECT COUNT(*) FROM reports WHERE soldier_id = ?)
		     + (SELECT COUNT(*) FROM soldier_raw_inputs WHERE soldier_id = ?)
	`, id, id).Scan(&dependents)
	if err != nil {
		return fmt.Errorf("failed to count soldier dependents: %w", err)
	}
	if dependents > 0 {
		return ErrSoldierHasDependents
	}

	result, err := r.db.Exec(`DELETE FROM soldiers WHERE soldier_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete soldier: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrSoldierNotFound
	}

	return nil
}

func scanSoldier(row rowScanner) (*models.Soldier, error) {
	var (
		soldier   models.Soldier
		rank      sql.NullString
		deviceID  sql.NullString
		createdAt string
		lastSeen  sql.NullString
	)
	if err := row.Scan(&soldier.SoldierID, &soldier.Name, &rank, &soldier.UnitID,
		&deviceID, &soldier.Status, &createdAt, &lastSeen, &soldier.UnitName); err != nil {
		return nil, err
	}
	soldier.Rank = rank.String
	soldier.DeviceID = stringPtr(deviceID)
	soldier.CreatedAt = parseTime(createdAt)
	soldier.LastSeen = parseTimePtr(lastSeen)
	return &soldier, nil
}
