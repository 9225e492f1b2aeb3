package repository

import (
	"context"

	"follow-digest/internal/domain/entity"
)

// PreferenceRepository reads schedule preferences from the external
// preference store. The store is owned elsewhere; this system never writes.
type PreferenceRepository interface {
	ListEnabled(ctx context.Context) ([]*entity.SchedulePreference, error)
}
