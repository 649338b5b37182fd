// Package app wires configuration, AWS clients and stores into the handler of each
// function. A function's main builds one App per cold start and passes the handler it
// needs to lambda.Start; the local gateway builds one App and mounts every handler.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/smartgolf/smartgolf-api/internal/apigw"
	"github.com/smartgolf/smartgolf-api/internal/awsclient"
	"github.com/smartgolf/smartgolf-api/internal/config"
	"github.com/smartgolf/smartgolf-api/internal/courseapi"
	"github.com/smartgolf/smartgolf-api/internal/database"
	"github.com/smartgolf/smartgolf-api/internal/flags"
	"github.com/smartgolf/smartgolf-api/internal/handlers"
	"github.com/smartgolf/smartgolf-api/internal/objectstore"
	"github.com/smartgolf/smartgolf-api/internal/scorecard"
	"github.com/smartgolf/smartgolf-api/internal/secrets"
	"github.com/smartgolf/smartgolf-api/internal/store"
	"github.com/smartgolf/smartgolf-api/internal/store/dynamo"
	"github.com/smartgolf/smartgolf-api/internal/store/postgres"
	"github.com/smartgolf/smartgolf-api/internal/vision"
)

// App holds everything the handlers depend on.
type App struct {
	Config *config.Config
	Log    *zap.Logger

	Stores     store.Stores
	Bucket     objectstore.Store
	Secrets    secrets.Reader
	CourseAPI  courseapi.Fetcher
	Downloader scorecard.Downloader
	Vision     vision.Transcriber

	flags *flags.Cache
}

// New builds an App from cfg using real AWS clients.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	clients, err := awsclient.New(ctx, cfg.AWSRegion, cfg.DynamoDBEndpoint, log)
	if err != nil {
		return nil, err
	}

	stores, err := NewStores(cfg, clients.DynamoDB)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:     cfg,
		Log:        log,
		Stores:     stores,
		Bucket:     objectstore.NewBucket(clients.S3, cfg.ScorecardBucket),
		Secrets:    secrets.New(clients.SecretsManager),
		CourseAPI:  courseapi.New(cfg.CourseAPIURL),
		Downloader: scorecard.HTTPDownloader{},
		Vision:     vision.New(cfg.VisionModel, ""),
	}, nil
}

// NewStores returns the stores selected by cfg.StoreBackend.
func NewStores(cfg *config.Config, ddb dynamo.API) (store.Stores, error) {
	switch cfg.StoreBackend {
	case config.BackendDynamoDB:
		return dynamo.New(ddb, dynamo.Tables{
			Courses: cfg.CoursesTable,
			Scores:  cfg.ScoresTable,
			Users:   cfg.UsersTable,
			Flags:   cfg.FlagsTable,
		}), nil
	case config.BackendPostgres:
		if cfg.DatabaseURL == "" {
			return store.Stores{}, fmt.Errorf("DATABASE_URL is required for the %s backend", config.BackendPostgres)
		}
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			return store.Stores{}, fmt.Errorf("connect to database: %w", err)
		}
		return postgres.New(db), nil
	default:
		return store.Stores{}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func (a *App) route(methods apigw.Methods) apigw.Handler {
	return apigw.Route(apigw.CORS{AllowedOrigins: a.Config.AllowedOrigins}, methods, a.Log)
}

// CoursesHandler serves /courses: search (GET) and check-or-create (POST).
func (a *App) CoursesHandler() apigw.Handler {
	log := a.Log.Named("courses")
	return a.route(apigw.Methods{
		http.MethodGet: handlers.SearchCourses(a.Stores.Courses, log),
		http.MethodPost: handlers.CheckOrCreateCourse(a.Stores.Courses, handlers.CourseAPI{
			Secrets:    a.Secrets,
			SecretName: a.Config.CourseAPISecret,
			Fetcher:    a.CourseAPI,
		}, log),
	})
}

// ScoresHandler serves /scores (GET recent rounds, POST a round) and GET /scores/averages.
func (a *App) ScoresHandler() apigw.Handler {
	log := a.Log.Named("scores")
	recent := handlers.RecentScores(a.Stores.Scores, log)
	averages := handlers.ScoreAverages(a.Stores.Scores, log)

	return a.route(apigw.Methods{
		http.MethodGet: func(ctx context.Context, req apigw.Request) (apigw.Result, error) {
			if strings.HasSuffix(strings.TrimRight(req.Path, "/"), "/averages") {
				return averages(ctx, req)
			}
			return recent(ctx, req)
		},
		http.MethodPost: handlers.SubmitScore(a.Stores.Scores, log),
	})
}

// UsersHandler serves /users: the caller's profile (GET) and profile saves (POST).
func (a *App) UsersHandler() apigw.Handler {
	log := a.Log.Named("users")
	return a.route(apigw.Methods{
		http.MethodGet:  handlers.GetUserProfile(a.Stores.Users, log),
		http.MethodPost: handlers.SaveUserProfile(a.Stores.Users, log),
	})
}

// FlagsHandler serves GET /flags from a cache shared by every request of this App.
func (a *App) FlagsHandler() apigw.Handler {
	if a.flags == nil {
		a.flags = flags.NewCache(a.Stores.Flags, a.Config.FlagCacheTTL)
	}
	return a.route(apigw.Methods{
		http.MethodGet: handlers.GetFlags(a.flags, a.Config.DefaultFlagEnv, a.Log.Named("flags")),
	})
}

// UploadURLHandler serves POST /upload-url.
func (a *App) UploadURLHandler() apigw.Handler {
	return a.route(apigw.Methods{
		http.MethodPost: handlers.UploadURL(a.Bucket, a.Log.Named("upload_url")),
	})
}

// ScorecardHandler serves POST /scorecard.
func (a *App) ScorecardHandler() apigw.Handler {
	return a.route(apigw.Methods{
		http.MethodPost: handlers.TranscribeScorecard(handlers.Scorecard{
			Bucket:       a.Bucket,
			Downloader:   a.Downloader,
			Secrets:      a.Secrets,
			OpenAISecret: a.Config.OpenAISecret,
			Vision:       a.Vision,
		}, a.Log.Named("scorecard")),
	})
}
