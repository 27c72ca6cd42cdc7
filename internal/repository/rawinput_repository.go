package repository

import (
	"database/sql"
	"fmt"

	"milhier/internal/database"
	"milhier/internal/models"
)

// RawInputRepository handles soldier raw input database operations
type RawInputRepository struct {
	db *database.Database
}

// NewRawInputRepository creates a new raw input repository
func NewRawInputRepository(db *database.Database) *RawInputRepository {
	return &RawInputRepository{db: db}
}

// Create persists a raw soldier transmission. The soldier must exist.
func (r *RawInputRepository) Create(input *models.RawInput) error {
	var soldierID string
	err := r.db.QueryRow(`SELECT soldier_id FROM soldiers WHERE soldier_id = ?`, input.SoldierID).Scan(&soldierID)
	if err == sql.ErrNoRows {
		return ErrSoldierNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to verify soldier: %w", err)
	}

	if input.InputType == "" {
		input.InputType = "voice"
	}

	_, err = r.db.Exec(`
		INSERT INTO soldier_raw_inputs (input_id, soldier_id, timestamp, raw_text, raw_audio_ref, input_type, confidence, location_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, input.InputID, input.SoldierID, formatTime(input.Timestamp), input.RawText,
		input.RawAudioRef, input.InputType, input.Confidence, input.LocationRef)
	if err != nil {
		return fmt.Errorf("failed to create raw input: %w", err)
	}

	return nil
}

// GetBySoldier retrieves recent raw inputs for a soldier, newest first
func (r *RawInputRepository) GetBySoldier(soldierID string, limit int) ([]models.RawInput, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(`
		SELECT input_id, soldier_id, timestamp, raw_text, raw_audio_ref, input_type, confidence, location_ref
		FROM soldier_raw_inputs
		WHERE soldier_id = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`, soldierID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get raw inputs: %w", err)
	}
	defer rows.Close()

	var inputs []models.RawInput
	for rows.Next() {
		var (
			input     models.RawInput
			timestamp string
			audioRef  sql.NullString
			location  sql.NullString
		)
		if err := rows.Scan(&input.InputID, &input.SoldierID, &timestamp, &input.RawText,
			&audioRef, &input.InputType, &input.Confidence, &location); err != nil {
			return nil, fmt.Errorf("failed to scan raw input: %w", err)
		}
		input.Timestamp = parseTime(timestamp)
		input.RawAudioRef = stringPtr(audioRef)
		input.LocationRef = stringPtr(location)
		inputs = append(inputs, input)
	}

	return inputs, rows.Err()
}
