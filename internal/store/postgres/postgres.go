// Package postgres implements the store interfaces with GORM.
// It is the backend the local gateway uses when STORE_BACKEND=postgres; the schema lives
// in migrations/ and is applied by database.RunMigrations. Nested documents (course data,
// per-hole scores, flag config) are stored as JSON columns via gorm.io/datatypes.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartgolf/smartgolf-api/internal/models"
	"github.com/smartgolf/smartgolf-api/internal/store"
)

// --- Row types ---
// Each row maps to one table. They are private: callers only ever see models.* values.

type courseRow struct {
	ID               string `gorm:"primaryKey"`
	ExternalCourseID string `gorm:"uniqueIndex;not null"`
	Name             string `gorm:"not null"`
	Data             datatypes.JSON
	CreatedAt        time.Time
}

func (courseRow) TableName() string { return "courses" }

type scoreRow struct {
	UserID    string `gorm:"primaryKey"`
	ScoreID   string `gorm:"primaryKey"`
	CourseID  string
	Date      string         `gorm:"column:played_on;not null"`
	Holes     datatypes.JSON `gorm:"not null"` // [18]models.HoleScore
	CreatedAt time.Time
}

func (scoreRow) TableName() string { return "user_scores" }

type userRow struct {
	UserID      string `gorm:"primaryKey"`
	FirstName   string `gorm:"not null"`
	LastName    string `gorm:"not null"`
	Email       string `gorm:"not null"`
	HomeCourse  string
	ScoringType string
	TeeBox      string
	UpdatedAt   time.Time
}

func (userRow) TableName() string { return "users" }

type flagRow struct {
	Environment string `gorm:"primaryKey"`
	FlagName    string `gorm:"primaryKey"`
	IsEnabled   bool   `gorm:"not null"`
	Config      datatypes.JSON
}

func (flagRow) TableName() string { return "feature_flags" }

// Models lists the row types, for tests that build the schema with AutoMigrate.
func Models() []any {
	return []any{&courseRow{}, &scoreRow{}, &userRow{}, &flagRow{}}
}

// New returns all four stores sharing one *gorm.DB.
func New(db *gorm.DB) store.Stores {
	return store.Stores{
		Courses: &CourseStore{db: db},
		Scores:  &ScoreStore{db: db},
		Users:   &UserStore{db: db},
		Flags:   &FlagStore{db: db},
	}
}

// upsert inserts the row or overwrites every column of an existing one.
var upsert = clause.OnConflict{UpdateAll: true}

// --- Courses ---

type CourseStore struct{ db *gorm.DB }

func (s *CourseStore) FindByExternalID(ctx context.Context, externalID string) (*models.Course, error) {
	var row courseRow
	err := s.db.WithContext(ctx).Where("external_course_id = ?", externalID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find course: %w", err)
	}

	course := &models.Course{CourseID: row.ID, ExternalCourseID: row.ExternalCourseID, CourseName: row.Name}
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &course.CourseData); err != nil {
			return nil, fmt.Errorf("failed to decode course data: %w", err)
		}
	}
	return course, nil
}

func (s *CourseStore) Search(ctx context.Context, query string) ([]models.CourseSummary, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	var rows []courseRow
	err := s.db.WithContext(ctx).
		Select("id", "external_course_id", "name").
		Where("LOWER(name) LIKE ? ESCAPE '\\'", pattern).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search courses: %w", err)
	}

	out := make([]models.CourseSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.CourseSummary{CourseID: r.ID, ExternalCourseID: r.ExternalCourseID, CourseName: r.Name})
	}
	return out, nil
}

func (s *CourseStore) Create(ctx context.Context, course *models.Course) error {
	data, err := json.Marshal(course.CourseData)
	if err != nil {
		return fmt.Errorf("failed to encode course data: %w", err)
	}
	row := courseRow{
		ID:               course.CourseID,
		ExternalCourseID: course.ExternalCourseID,
		Name:             course.CourseName,
		Data:             datatypes.JSON(data),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to store course: %w", err)
	}
	return nil
}

// --- Scores ---

type ScoreStore struct{ db *gorm.DB }

func (s *ScoreStore) Put(ctx context.Context, score *models.Score) error {
	holes, err := json.Marshal(score.Holes)
	if err != nil {
		return fmt.Errorf("failed to encode holes: %w", err)
	}
	row := scoreRow{
		UserID:   score.UserID,
		ScoreID:  score.ScoreID,
		CourseID: score.CourseID,
		Date:     score.Date,
		Holes:    datatypes.JSON(holes),
	}
	if err := s.db.WithContext(ctx).Clauses(upsert).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to store score: %w", err)
	}
	return nil
}

func (s *ScoreStore) Recent(ctx context.Context, userID string, limit int) ([]models.Score, error) {
	var rows []scoreRow
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}

	scores := make([]models.Score, 0, len(rows))
	for _, r := range rows {
		score := models.Score{UserID: r.UserID, ScoreID: r.ScoreID, CourseID: r.CourseID, Date: r.Date}
		if err := json.Unmarshal(r.Holes, &score.Holes); err != nil {
			return nil, fmt.Errorf("failed to decode holes for score %s: %w", r.ScoreID, err)
		}
		scores = append(scores, score)
	}
	return store.NewestFirst(scores, limit), nil
}

// --- Users ---

type UserStore struct{ db *gorm.DB }

func (s *UserStore) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	var row userRow
	err := s.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return &models.UserProfile{
		UserID:      row.UserID,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		Email:       row.Email,
		HomeCourse:  row.HomeCourse,
		ScoringType: row.ScoringType,
		TeeBox:      row.TeeBox,
	}, nil
}

func (s *UserStore) Put(ctx context.Context, p *models.UserProfile) error {
	row := userRow{
		UserID:      p.UserID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		HomeCourse:  p.HomeCourse,
		ScoringType: p.ScoringType,
		TeeBox:      p.TeeBox,
	}
	if err := s.db.WithContext(ctx).Clauses(upsert).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to store user profile: %w", err)
	}
	return nil
}

// --- Flags ---

type FlagStore struct{ db *gorm.DB }

func (s *FlagStore) ListByEnvironment(ctx context.Context, env string) ([]models.FeatureFlag, error) {
	var rows []flagRow
	if err := s.db.WithContext(ctx).Where("environment = ?", env).Order("flag_name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list flags: %w", err)
	}

	flags := make([]models.FeatureFlag, 0, len(rows))
	for _, r := range rows {
		flag := models.FeatureFlag{Environment: r.Environment, FlagName: r.FlagName, IsEnabled: r.IsEnabled}
		if len(r.Config) > 0 {
			if err := json.Unmarshal(r.Config, &flag.Config); err != nil {
				return nil, fmt.Errorf("failed to decode config for flag %s: %w", r.FlagName, err)
			}
		}
		flags = append(flags, flag)
	}
	return flags, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
