package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/smartgolf/smartgolf-api/internal/apigw"
	"github.com/smartgolf/smartgolf-api/internal/models"
	"github.com/smartgolf/smartgolf-api/internal/store"
)

// ProfileResponse is the body of a successful GET /users.
type ProfileResponse struct {
	Status string              `json:"status"`
	Data   *models.UserProfile `json:"data"`
}

type saveProfileRequest struct {
	UserID      string `mapstructure:"userID" validate:"required"`
	FirstName   string `mapstructure:"firstName" validate:"required"`
	LastName    string `mapstructure:"lastName" validate:"required"`
	Email       string `mapstructure:"email" validate:"required,email"`
	HomeCourse  string `mapstructure:"homeCourse"`
	ScoringType string `mapstructure:"scoringType"`
	TeeBox      string `mapstructure:"teeBox"`
}

// GetUserProfile handles GET /users for the authenticated caller.
func GetUserProfile(users store.UserStore, log *zap.Logger) apigw.MethodFunc {
	return func(ctx context.Context, req apigw.Request) (apigw.Result, error) {
		userID := req.Subject()
		if userID == "" {
			return apigw.Fail(http.StatusBadRequest, "User not authenticated"), nil
		}

		profile, err := users.Get(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return apigw.Fail(http.StatusNotFound, "User not found"), nil
		}
		if err != nil {
			log.Error("failed to load profile", zap.String("user_id", userID), zap.Error(err))
			return apigw.Fail(http.StatusInternalServerError, "Database error"), nil
		}
		return apigw.JSON(http.StatusOK, ProfileResponse{Status: "success", Data: profile}), nil
	}
}

// SaveUserProfile handles POST /users, replacing any stored profile for userID.
func SaveUserProfile(users store.UserStore, log *zap.Logger) apigw.MethodFunc {
	return func(ctx context.Context, req apigw.Request) (apigw.Result, error) {
		var body saveProfileRequest
		if err := req.DecodeBody(&body); err != nil {
			return apigw.Fail(http.StatusBadRequest, err.Error()), nil
		}

		profile := &models.UserProfile{
			UserID:      body.UserID,
			FirstName:   body.FirstName,
			LastName:    body.LastName,
			Email:       body.Email,
			HomeCourse:  body.HomeCourse,
			ScoringType: orDefault(body.ScoringType, models.DefaultScoringType),
			TeeBox:      orDefault(body.TeeBox, models.DefaultTeeBox),
		}
		if err := users.Put(ctx, profile); err != nil {
			log.Error("failed to save profile", zap.String("user_id", profile.UserID), zap.Error(err))
			return apigw.Fail(http.StatusInternalServerError, "Database error occurred"), nil
		}
		log.Info("profile saved", zap.String("user_id", profile.UserID))
		return apigw.Success(""), nil
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
