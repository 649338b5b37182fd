package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/smartgolf/smartgolf-api/internal/apigw"
	"github.com/smartgolf/smartgolf-api/internal/models"
)

// FlagSource returns the flags of one environment; *flags.Cache implements it.
type FlagSource interface {
	Get(ctx context.Context, env string) (models.FlagSet, error)
}

// GetFlags handles GET /flags?env=... and answers {flagname: {isEnabled, config}}.
func GetFlags(flags FlagSource, defaultEnv string, log *zap.Logger) apigw.MethodFunc {
	return func(ctx context.Context, req apigw.Request) (apigw.Result, error) {
		env := req.Query("env")
		if env == "" {
			env = defaultEnv
		}

		set, err := flags.Get(ctx, env)
		if err != nil {
			return apigw.Result{}, err
		}
		log.Debug("flags served", zap.String("env", env), zap.Int("count", len(set)))
		return apigw.JSON(http.StatusOK, set), nil
	}
}
