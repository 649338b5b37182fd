// Package store declares the persistence interfaces the handlers depend on.
// Two implementations exist: store/dynamo (the deployed functions) and store/postgres
// (GORM, for running the local gateway against a relational database).
package store

import (
	"context"
	"errors"

	"github.com/smartgolf/smartgolf-api/internal/models"
)

// ErrNotFound is returned when a keyed lookup finds no record.
var ErrNotFound = errors.New("record not found")

// CourseStore persists courses. There is no secondary index on the external id, so
// FindByExternalID may scan the whole table.
type CourseStore interface {
	FindByExternalID(ctx context.Context, externalID string) (*models.Course, error)
	Search(ctx context.Context, query string) ([]models.CourseSummary, error)
	Create(ctx context.Context, course *models.Course) error
}

// ScoreStore persists submitted rounds.
type ScoreStore interface {
	Put(ctx context.Context, score *models.Score) error
	// Recent returns up to limit rounds for the user, newest Date first.
	Recent(ctx context.Context, userID string, limit int) ([]models.Score, error)
}

// UserStore persists user profiles. Put overwrites any existing profile.
type UserStore interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	Put(ctx context.Context, profile *models.UserProfile) error
}

// FlagStore lists feature flags for one environment.
type FlagStore interface {
	ListByEnvironment(ctx context.Context, env string) ([]models.FeatureFlag, error)
}

// Stores bundles one implementation of every interface.
type Stores struct {
	Courses CourseStore
	Scores  ScoreStore
	Users   UserStore
	Flags   FlagStore
}
