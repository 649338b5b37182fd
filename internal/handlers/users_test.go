package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartgolf/smartgolf-api/internal/models"
)

func TestSaveUserProfileAppliesDefaults(t *testing.T) {
	users := &fakeUsers{profiles: map[string]models.UserProfile{}}

	resp := call(t, http.MethodPost, SaveUserProfile(users, zap.NewNop()),
		withBody(`{"userID":"u1","firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"status": "success"}, bodyOf(t, resp))

	assert.Equal(t, models.UserProfile{
		UserID:      "u1",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		ScoringType: "Normal Scoring",
		TeeBox:      "Championship Back",
	}, users.profiles["u1"])
}

func TestSaveUserProfileOverwrites(t *testing.T) {
	users := &fakeUsers{profiles: map[string]models.UserProfile{
		"u1": {UserID: "u1", FirstName: "Old", TeeBox: "Forward"},
	}}

	resp := call(t, http.MethodPost, SaveUserProfile(users, zap.NewNop()),
		withBody(`{"userID":"u1","firstName":"Ada","lastName":"L","email":"ada@example.com","homeCourse":"c1","scoringType":"Stableford","teeBox":"Middle"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ada", users.profiles["u1"].FirstName)
	assert.Equal(t, "c1", users.profiles["u1"].HomeCourse)
	assert.Equal(t, "Stableford", users.profiles["u1"].ScoringType)
	assert.Equal(t, "Middle", users.profiles["u1"].TeeBox)
}

func TestSaveUserProfileValidation(t *testing.T) {
	users := &fakeUsers{profiles: map[string]models.UserProfile{}}
	h := SaveUserProfile(users, zap.NewNop())

	resp := call(t, http.MethodPost, h, withBody(`{"userID":"u1","firstName":"Ada","lastName":"L"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, errorBody("Missing or invalid field email"), bodyOf(t, resp))

	resp = call(t, http.MethodPost, h, withBody(`{"userID":"u1","firstName":"Ada","lastName":"L","email":"not-an-email"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, users.profiles)
}

func TestSaveUserProfileStoreError(t *testing.T) {
	users := &fakeUsers{profiles: map[string]models.UserProfile{}, err: errors.New("boom")}

	resp := call(t, http.MethodPost, SaveUserProfile(users, zap.NewNop()),
		withBody(`{"userID":"u1","firstName":"Ada","lastName":"L","email":"ada@example.com"}`))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, errorBody("Database error occurred"), bodyOf(t, resp))
}

func TestGetUserProfile(t *testing.T) {
	users := &fakeUsers{profiles: map[string]models.UserProfile{
		"u1": {UserID: "u1", FirstName: "Ada", ScoringType: models.DefaultScoringType},
	}}
	h := GetUserProfile(users, zap.NewNop())

	resp := call(t, http.MethodGet, h, withSubject("u1"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := bodyOf(t, resp)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Ada", body["data"].(map[string]any)["firstName"])

	resp = call(t, http.MethodGet, h, withSubject("u2"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, errorBody("User not found"), bodyOf(t, resp))

	resp = call(t, http.MethodGet, h, withBody(""))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, errorBody("User not authenticated"), bodyOf(t, resp))
}
