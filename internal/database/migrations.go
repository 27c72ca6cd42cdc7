package database

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
)

// Migration represents a schema migration. Statements are written in the
// adapter's portable SQL subset so the same migration runs on both engines.
type Migration struct {
	Version    string
	Title      string
	Statements []string
}

// Checksum returns the SHA256 checksum of the migration's statements
func (m Migration) Checksum() string {
	h := sha256.Sum256([]byte(strings.Join(m.Statements, ";\n")))
	return hex.EncodeToString(h[:])
}

// All timestamps are stored as RFC3339 TEXT so both backends return the
// same row shape through the adapter.
var migrations = []Migration{
	{
		Version: "001",
		Title:   "units and soldiers",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS units (
				unit_id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				parent_unit_id TEXT REFERENCES units(unit_id),
				level TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS soldiers (
				soldier_id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				rank TEXT,
				unit_id TEXT NOT NULL REFERENCES units(unit_id),
				device_id TEXT,
				status TEXT NOT NULL DEFAULT 'active',
				created_at TEXT NOT NULL,
				last_seen TEXT
			)`,
			`CREATE INDEX IF NOT EXISTS idx_units_parent ON units(parent_unit_id)`,
			`CREATE INDEX IF NOT EXISTS idx_units_level ON units(level)`,
			`CREATE INDEX IF NOT EXISTS idx_soldiers_unit ON soldiers(unit_id)`,
			`CREATE INDEX IF NOT EXISTS idx_soldiers_status ON soldiers(status)`,
		},
	},
	{
		Version: "002",
		Title:   "raw inputs and reports",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS soldier_raw_inputs (
				input_id TEXT PRIMARY KEY,
				soldier_id TEXT NOT NULL REFERENCES soldiers(soldier_id),
				timestamp TEXT NOT NULL,
				raw_text TEXT NOT NULL,
				raw_audio_ref TEXT,
				input_type TEXT NOT NULL DEFAULT 'voice',
				confidence REAL NOT NULL DEFAULT 0.0,
				location_ref TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS reports (
				report_id TEXT PRIMARY KEY,
				soldier_id TEXT NOT NULL REFERENCES soldiers(soldier_id),
				unit_id TEXT NOT NULL REFERENCES units(unit_id),
				timestamp TEXT NOT NULL,
				report_type TEXT NOT NULL,
				structured_json TEXT NOT NULL,
				confidence REAL NOT NULL DEFAULT 0.0,
				status TEXT NOT NULL DEFAULT 'submitted'
			)`,
			`CREATE INDEX IF NOT EXISTS idx_raw_inputs_soldier ON soldier_raw_inputs(soldier_id)`,
			`CREATE INDEX IF NOT EXISTS idx_raw_inputs_timestamp ON soldier_raw_inputs(timestamp)`,
			`CREATE INDEX IF NOT EXISTS idx_reports_soldier ON reports(soldier_id)`,
			`CREATE INDEX IF NOT EXISTS idx_reports_unit ON reports(unit_id)`,
			`CREATE INDEX IF NOT EXISTS idx_reports_type ON reports(report_type)`,
			`CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON reports(timestamp)`,
		},
	},
	{
		Version: "003",
		Title:   "suggestions and sequences",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS suggestions (
				suggestion_id TEXT PRIMARY KEY,
				suggestion_type TEXT NOT NULL,
				urgency TEXT NOT NULL DEFAULT 'MEDIUM',
				reason TEXT NOT NULL,
				confidence REAL NOT NULL DEFAULT 0.8,
				source_reports TEXT NOT NULL DEFAULT '[]',
				status TEXT NOT NULL DEFAULT 'pending',
				unit_id TEXT REFERENCES units(unit_id),
				created_at TEXT NOT NULL,
				reviewed_at TEXT,
				reviewed_by TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS report_sequences (
				report_type TEXT PRIMARY KEY,
				next_number INTEGER NOT NULL DEFAULT 1
			)`,
			`CREATE TABLE IF NOT EXISTS frago_sequence (
				id INTEGER PRIMARY KEY,
				next_number INTEGER NOT NULL DEFAULT 1
			)`,
			`INSERT INTO frago_sequence (id, next_number) VALUES (1, 1)
				ON CONFLICT (id) DO NOTHING`,
			`CREATE INDEX IF NOT EXISTS idx_suggestions_unit ON suggestions(unit_id)`,
			`CREATE INDEX IF NOT EXISTS idx_suggestions_status ON suggestions(status)`,
			`CREATE INDEX IF NOT EXISTS idx_suggestions_urgency ON suggestions(urgency)`,
		},
	},
	{
		Version: "004",
		Title:   "generated documents",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS generated_documents (
				document_id TEXT PRIMARY KEY,
				doc_type TEXT NOT NULL,
				doc_number INTEGER NOT NULL,
				unit_id TEXT REFERENCES units(unit_id),
				source_reports TEXT NOT NULL DEFAULT '[]',
				suggested_fields TEXT NOT NULL DEFAULT '{}',
				final_fields TEXT NOT NULL DEFAULT '{}',
				formatted_document TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'draft',
				created_at TEXT NOT NULL,
				finalized_at TEXT
			)`,
			`CREATE INDEX IF NOT EXISTS idx_documents_unit ON generated_documents(unit_id)`,
			`CREATE INDEX IF NOT EXISTS idx_documents_type ON generated_documents(doc_type)`,
			`CREATE INDEX IF NOT EXISTS idx_documents_number ON generated_documents(doc_number)`,
		},
	},
}

// RunMigrations executes all pending schema migrations
func (d *Database) RunMigrations() error {
	if err := d.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := d.appliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, migration := range migrations {
		checksum, ok := applied[migration.Version]
		if ok {
			if checksum != migration.Checksum() {
				return fmt.Errorf("migration %s was modified after being applied (checksum mismatch)", migration.Version)
			}
			continue
		}
		if err := d.executeMigration(migration); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
		}
		slog.Info("Applied migration", "version", migration.Version, "title", migration.Title)
	}

	return nil
}

func (d *Database) createMigrationsTable() error {
	_, err := d.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			title TEXT,
			checksum TEXT,
			applied_at TEXT NOT NULL
		)
	`)
	return err
}

func (d *Database) appliedMigrations() (map[string]string, error) {
	rows, err := d.Query(`SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]string)
	for rows.Next() {
		var version, checksum string
		if err := rows.Scan(&version, &checksum); err != nil {
			return nil, err
		}
		applied[version] = checksum
	}
	return applied, rows.Err()
}

func (d *Database) executeMigration(migration Migration) error {
	tx, err := d.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range migration.Statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("statement failed: %w", err)
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO schema_migrations (version, title, checksum, applied_at) VALUES (?, ?, ?, ?)`,
		migration.Version, migration.Title, migration.Checksum(), nowRFC3339(),
	); err != nil {
		return err
	}

	return tx.Commit()
}
