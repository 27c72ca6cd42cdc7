package repository

import (
	"fmt"

	"milhier/internal/database"
)

// SequenceRepository allocates document numbers. Allocation runs inside the
// caller's transaction as a single upsert with RETURNING, so two concurrent
// generations can never observe the same number and an aborted transaction
// releases nothing it did not commit.
type SequenceRepository struct {
	db *database.Database
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *database.Database) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// AllocateNext returns the next document number for the given document type,
// starting at 1 for a type that has never been allocated.
func (r *SequenceRepository) AllocateNext(tx *database.Tx, docType string) (int64, error) {
	var number int64
	err := tx.QueryRow(`
		INSERT INTO report_sequences (report_type, next_number)
		VALUES (?, 2)
		ON CONFLICT (report_type)
		DO UPDATE SET next_number = report_sequences.next_number + 1
		RETURNING next_number - 1
	`, docType).Scan(&number)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate sequence number for %s: %w", docType, err)
	}
	return number, nil
}

// AllocateNextFrago returns the next number from the legacy single-row FRAGO
// counter, which is tracked independently of the per-type sequences.
func (r *SequenceRepository) AllocateNextFrago(tx *database.Tx) (int64, error) {
	var number int64
	err := tx.QueryRow(`
		UPDATE frago_sequence
		SET next_number = next_number + 1
		WHERE id = 1
		RETURNING next_number - 1
	`).Scan(&number)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate frago number: %w", err)
	}
	return number, nil
}
