package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smartgolf/smartgolf-api/internal/apigw"
	"github.com/smartgolf/smartgolf-api/internal/models"
	"github.com/smartgolf/smartgolf-api/internal/store"
)

// RecentRounds is how many rounds GET /scores and /scores/averages look at.
const RecentRounds = 10

type scoreRequest struct {
	UserID   string `mapstructure:"userId"`
	ScoreID  string `mapstructure:"scoreId"`
	CourseID string `mapstructure:"courseID"`
	Date     string `mapstructure:"Date" validate:"required"`
}

type holeRequest struct {
	Strokes int  `mapstructure:"strokes" validate:"required,min=1,max=30"`
	Putts   *int `mapstructure:"putts" validate:"omitempty,min=0,max=30"`
	Par     *int `mapstructure:"par" validate:"omitempty,min=3,max=6"`
}

// SubmitScore handles POST /scores. All 18 HoleNScore fields are required; HoleNPutts and
// HoleNPar are optional. A missing userId falls back to the caller's subject and a missing
// scoreId is generated.
func SubmitScore(scores store.ScoreStore, log *zap.Logger) apigw.MethodFunc {
	return func(ctx context.Context, req apigw.Request) (apigw.Result, error) {
		score, err := decodeScore(req)
		if err != nil {
			return apigw.Fail(http.StatusBadRequest, err.Error()), nil
		}

		if err := scores.Put(ctx, score); err != nil {
			log.Error("failed to save score", zap.String("user_id", score.UserID), zap.Error(err))
			return apigw.Fail(http.StatusInternalServerError, "Database error occurred"), nil
		}
		log.Info("score saved",
			zap.String("user_id", score.UserID),
			zap.String("score_id", score.ScoreID),
			zap.Int("total", score.Total()),
		)
		return apigw.Success("Score saved"), nil
	}
}

func decodeScore(req apigw.Request) (*models.Score, error) {
	raw, err := req.RawBody()
	if err != nil {
		return nil, err
	}

	var body scoreRequest
	if err := apigw.DecodeMap(raw, &body); err != nil {
		return nil, err
	}

	score := &models.Score{
		UserID:   body.UserID,
		ScoreID:  body.ScoreID,
		CourseID: body.CourseID,
		Date:     body.Date,
	}
	if score.UserID == "" {
		score.UserID = req.Subject()
	}
	if score.UserID == "" {
		return nil, &apigw.FieldError{Field: "userId"}
	}
	if score.ScoreID == "" {
		score.ScoreID = uuid.NewString()
	}

	for i := range score.Holes {
		hole, err := decodeHole(raw, i+1)
		if err != nil {
			return nil, err
		}
		score.Holes[i] = hole
	}
	return score, nil
}

// decodeHole validates one hole's flat fields, reporting failures under the client's
// field name (e.g. Hole7Putts).
func decodeHole(raw map[string]any, n int) (models.HoleScore, error) {
	names := map[string]string{
		"strokes": models.HoleScoreKey(n),
		"putts":   models.HolePuttsKey(n),
		"par":     models.HoleParKey(n),
	}
	sub := make(map[string]any, len(names))
	for field, key := range names {
		if v, ok := raw[key]; ok && v != nil && v != "" {
			sub[field] = v
		}
	}

	var h holeRequest
	if err := apigw.DecodeMap(sub, &h); err != nil {
		var fe *apigw.FieldError
		if errors.As(err, &fe) {
			if key, ok := names[fe.Field]; ok {
				fe.Field = key
			}
		}
		return models.HoleScore{}, err
	}
	return models.HoleScore{Strokes: h.Strokes, Putts: h.Putts, Par: h.Par}, nil
}

// RecentScores handles GET /scores: the caller's most recent rounds, newest first.
func RecentScores(scores store.ScoreStore, log *zap.Logger) apigw.MethodFunc {
	return func(ctx context.Context, req apigw.Request) (apigw.Result, error) {
		userID := req.Subject()
		if userID == "" {
			return apigw.Fail(http.StatusUnauthorized, "User not authenticated"), nil
		}

		rounds, err := scores.Recent(ctx, userID, RecentRounds)
		if err != nil {
			return apigw.Result{}, err
		}
		log.Debug("recent scores", zap.String("user_id", userID), zap.Int("rounds", len(rounds)))
		if rounds == nil {
			rounds = []models.Score{}
		}
		return apigw.JSON(http.StatusOK, rounds), nil
	}
}

// AveragesResponse is the body of GET /scores/averages. Averages are keyed "Hole1".."Hole18".
type AveragesResponse struct {
	Rounds   int                `json:"rounds"`
	Averages map[string]float64 `json:"averages"`
}

// ScoreAverages handles GET /scores/averages: average strokes per hole over the caller's
// most recent rounds, rounded to two places.
func ScoreAverages(scores store.ScoreStore, log *zap.Logger) apigw.MethodFunc {
	return func(ctx context.Context, req apigw.Request) (apigw.Result, error) {
		userID := req.Subject()
		if userID == "" {
			return apigw.Fail(http.StatusUnauthorized, "User not authenticated"), nil
		}

		rounds, err := scores.Recent(ctx, userID, RecentRounds)
		if err != nil {
			return apigw.Result{}, err
		}
		log.Debug("score averages", zap.String("user_id", userID), zap.Int("rounds", len(rounds)))
		return apigw.JSON(http.StatusOK, AveragesResponse{
			Rounds:   len(rounds),
			Averages: holeAverages(rounds),
		}), nil
	}
}

func holeAverages(rounds []models.Score) map[string]float64 {
	out := make(map[string]float64, models.HoleCount)
	if len(rounds) == 0 {
		return out
	}
	n := decimal.NewFromInt(int64(len(rounds)))
	for hole := 1; hole <= models.HoleCount; hole++ {
		sum := decimal.Zero
		for _, r := range rounds {
			sum = sum.Add(decimal.NewFromInt(int64(r.Holes[hole-1].Strokes)))
		}
		out["Hole"+strconv.Itoa(hole)] = sum.Div(n).Round(2).InexactFloat64()
	}
	return out
}
