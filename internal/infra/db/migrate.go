package db

import (
	"database/sql"
	_ "embed"
)

//go:embed seeds/preferences.sql
var seedPreferencesSQL string

// MigrateUp creates the schedule_preferences table and its indexes, then
// loads the seed rows. The preference store is normally managed by the
// account service; this migration exists for local development and tests.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schedule_preferences (
    id         SERIAL PRIMARY KEY,
    recipient  TEXT NOT NULL,
    platform   VARCHAR(20) NOT NULL,
    username   TEXT NOT NULL,
    frequency  VARCHAR(10) NOT NULL,
    send_time  VARCHAR(5) NOT NULL,
    timezone   TEXT NOT NULL DEFAULT 'UTC',
    enabled    BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE(recipient, platform, username)
)`); err != nil {
		return err
	}

	indexes := []string{
		// ListEnabled filters on enabled and orders by recipient.
		`CREATE INDEX IF NOT EXISTS idx_schedule_preferences_enabled ON schedule_preferences(enabled) WHERE enabled = TRUE`,
		`CREATE INDEX IF NOT EXISTS idx_schedule_preferences_recipient ON schedule_preferences(recipient)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// Column value constraints mirror the entity validation rules.
	// Errors are ignored when the constraints already exist.
	_, _ = db.Exec(`
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint
        WHERE conname = 'chk_preference_platform'
    ) THEN
        ALTER TABLE schedule_preferences ADD CONSTRAINT chk_preference_platform
        CHECK (platform IN ('MEDIUM', 'X', 'INSTAGRAM'));
    END IF;
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint
        WHERE conname = 'chk_preference_frequency'
    ) THEN
        ALTER TABLE schedule_preferences ADD CONSTRAINT chk_preference_frequency
        CHECK (frequency IN ('daily', 'weekly', 'monthly'));
    END IF;
END $$;
`)

	// Seed rows; duplicates are skipped.
	if _, err := db.Exec(seedPreferencesSQL); err != nil {
		return err
	}

	return nil
}

// MigrateDown removes the schedule_preferences table.
// Use with caution: this deletes all preference rows.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_schedule_preferences_enabled`,
		`DROP INDEX IF EXISTS idx_schedule_preferences_recipient`,
		`DROP TABLE IF EXISTS schedule_preferences CASCADE`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
