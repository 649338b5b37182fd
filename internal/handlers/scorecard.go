package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartgolf/smartgolf-api/internal/apigw"
	"github.com/smartgolf/smartgolf-api/internal/objectstore"
	"github.com/smartgolf/smartgolf-api/internal/scorecard"
	"github.com/smartgolf/smartgolf-api/internal/secrets"
	"github.com/smartgolf/smartgolf-api/internal/vision"
)

// ProcessedURLExpiry is how long the vision model may read the preprocessed image.
const ProcessedURLExpiry = 5 * time.Minute

// Scorecard bundles the dependencies of TranscribeScorecard.
type Scorecard struct {
	Bucket       objectstore.Store
	Downloader   scorecard.Downloader
	Secrets      secrets.Reader
	OpenAISecret string // plain-string secret holding the API key
	Vision       vision.Transcriber
}

// TranscribeResponse is the body of a successful POST /scorecard. Scores is present only
// when the model's reply could be read as per-hole strokes.
type TranscribeResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Scores  map[string]int `json:"scores,omitempty"`
}

type transcribeRequest struct {
	S3Key      string `mapstructure:"s3Key"`
	ImageURL   string `mapstructure:"imageUrl"`
	PlayerName string `mapstructure:"playerName"`
}

// TranscribeScorecard handles POST /scorecard. The uploaded photo is cleaned up for
// legibility, stored as a private PNG and handed to the vision model through a
// short-lived URL.
func TranscribeScorecard(deps Scorecard, log *zap.Logger) apigw.MethodFunc {
	return func(ctx context.Context, req apigw.Request) (apigw.Result, error) {
		// --- Step 1: Validate the body (one of s3Key or imageUrl) ---
		var body transcribeRequest
		if err := req.DecodeBody(&body); err != nil || (body.S3Key == "" && body.ImageURL == "") {
			return apigw.Fail(http.StatusBadRequest, "Missing s3Key or imageUrl"), nil
		}

		// --- Step 2: Load the original image ---
		// An S3 key wins when both are given.
		var (
			raw []byte
			err error
		)
		if body.S3Key != "" {
			raw, err = deps.Bucket.Get(ctx, body.S3Key)
		} else {
			raw, err = deps.Downloader.Download(ctx, body.ImageURL)
		}
		if err != nil {
			log.Error("failed to fetch scorecard", zap.String("s3_key", body.S3Key), zap.String("image_url", body.ImageURL), zap.Error(err))
			return apigw.Fail(http.StatusBadGateway, "Failed to fetch scorecard image"), nil
		}

		// --- Step 3: Rotate, grayscale and sharpen, then park the PNG in S3 ---
		// The vision model reads it back through a short-lived presigned URL.
		imageURL, err := preprocessAndStore(ctx, deps.Bucket, raw)
		if err != nil {
			log.Error("image preprocessing failed", zap.Error(err))
			return apigw.Fail(http.StatusInternalServerError, "Image preprocessing failed"), nil
		}

		// --- Step 4: Ask the vision model for the player's hole scores ---
		apiKey, err := deps.Secrets.Get(ctx, deps.OpenAISecret)
		if err != nil {
			log.Error("failed to read vision api key", zap.Error(err))
			return apigw.Fail(http.StatusInternalServerError, "Error returning secrets"), nil
		}

		text, err := deps.Vision.Transcribe(ctx, apiKey, imageURL, body.PlayerName)
		if err != nil {
			log.Error("vision request failed", zap.Error(err))
			return apigw.Fail(http.StatusInternalServerError, "Error occurred"), nil
		}

		// --- Step 5: Return the raw reply, plus structured scores when it parses ---
		resp := TranscribeResponse{Status: "success", Message: text}
		if scores, ok := scorecard.ParseHoleScores(text); ok {
			resp.Scores = scores
		}
		log.Info("scorecard transcribed", zap.Int("holes_read", len(resp.Scores)))
		return apigw.JSON(http.StatusOK, resp), nil
	}
}

// preprocessAndStore runs the image filters, uploads the result under processed/ and
// returns a presigned read URL for it.
func preprocessAndStore(ctx context.Context, bucket objectstore.Store, raw []byte) (string, error) {
	png, err := scorecard.Preprocess(raw)
	if err != nil {
		return "", err
	}
	key := "processed/" + uuid.NewString() + ".png"
	if err := bucket.Put(ctx, key, scorecard.ContentType, png); err != nil {
		return "", err
	}
	return bucket.PresignGet(ctx, key, ProcessedURLExpiry)
}
