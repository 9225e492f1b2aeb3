// Package postgres implements the schedule preference store on PostgreSQL.
// The dispatcher only reads; preference writes happen through an external
// account system that owns the table.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"follow-digest/internal/domain/entity"
	"follow-digest/internal/repository"
)

type PreferenceRepo struct {
	db *sql.DB
}

func NewPreferenceRepo(db *sql.DB) repository.PreferenceRepository {
	return &PreferenceRepo{db: db}
}

func (repo *PreferenceRepo) ListEnabled(ctx context.Context) ([]*entity.SchedulePreference, error) {
	const query = `
SELECT id, recipient, platform, username, frequency, send_time, timezone, enabled
FROM schedule_preferences
WHERE enabled = TRUE
ORDER BY recipient, platform, username`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListEnabled: %w", err)
	}
	defer func() { _ = rows.Close() }()

	prefs := make([]*entity.SchedulePreference, 0, 100)
	for rows.Next() {
		var pref entity.SchedulePreference
		if err := rows.Scan(&pref.ID, &pref.Recipient, &pref.Platform, &pref.Username,
			&pref.Frequency, &pref.SendTime, &pref.Timezone, &pref.Enabled); err != nil {
			return nil, fmt.Errorf("ListEnabled: Scan: %w", err)
		}
		prefs = append(prefs, &pref)
	}
	return prefs, rows.Err()
}
