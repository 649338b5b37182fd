package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/smartgolf/smartgolf-api/internal/apigw"
	"github.com/smartgolf/smartgolf-api/internal/objectstore"
)

// UploadURLExpiry is how long a presigned upload URL stays valid.
const UploadURLExpiry = time.Hour

// UploadURLResponse is the body of POST /upload-url.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
}

type uploadURLRequest struct {
	FileName    string `mapstructure:"fileName"`
	ContentType string `mapstructure:"contentType"`
}

// UploadURL handles POST /upload-url: a presigned PUT the browser uploads the scorecard
// photo to, plus the URL the object will have once uploaded.
func UploadURL(bucket objectstore.Store, log *zap.Logger) apigw.MethodFunc {
	return func(ctx context.Context, req apigw.Request) (apigw.Result, error) {
		var body uploadURLRequest
		if err := req.DecodeBody(&body); err != nil || body.FileName == "" || body.ContentType == "" {
			return apigw.Message(http.StatusBadRequest, "Missing fileName or contentType"), nil
		}

		uploadURL, err := bucket.PresignPut(ctx, body.FileName, body.ContentType, UploadURLExpiry)
		if err != nil {
			log.Error("failed to presign upload", zap.String("key", body.FileName), zap.Error(err))
			return apigw.Message(http.StatusInternalServerError, "Error generating pre-signed URL"), nil
		}
		return apigw.JSON(http.StatusOK, UploadURLResponse{
			UploadURL: uploadURL,
			FileURL:   bucket.PublicURL(body.FileName),
		}), nil
	}
}
