package repository

import (
	"context"

	"github.com/oksasatya/devconnector/internal/domain/entity"
)

// ProfileRepository stores Profile aggregates keyed by owner.
// Nested list mutations apply atomically; they return ErrNotFound when the
// profile is missing and ErrEntryNotFound when the entry id is unknown.
type ProfileRepository interface {
	// Upsert returns ErrNotFound when userID has no user row.
	Upsert(ctx context.Context, userID string, f entity.ProfileFields) (*entity.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
	List(ctx context.Context) ([]entity.Profile, error)

	AddExperience(ctx context.Context, userID string, e entity.Experience) (*entity.Profile, error)
	RemoveExperience(ctx context.Context, userID, expID string) (*entity.Profile, error)
	AddEducation(ctx context.Context, userID string, e entity.Education) (*entity.Profile, error)
	RemoveEducation(ctx context.Context, userID, eduID string) (*entity.Profile, error)
}
