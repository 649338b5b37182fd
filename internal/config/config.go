// Package config handles loading runtime configuration for the Smart Golf functions.
// Every value comes from an environment variable so the same binary can run as a Lambda
// function in AWS, or as the local development gateway, without code changes. Sensible
// defaults mirror the names of the tables, bucket and secrets used by the DEV stage.
package config

import (
	"os"
	"strings"
	"time"

	// godotenv reads a .env file and loads its key=value pairs into the process environment.
	// Handy for the local gateway; Lambda functions get real environment variables instead.
	"github.com/joho/godotenv"
)

// Store backends understood by app.NewStores.
const (
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
)

// DefaultAllowedOrigins is the CORS allow-list used when ALLOWED_ORIGINS is not set.
// The first entry doubles as the fallback origin for requests without an Origin header.
var DefaultAllowedOrigins = []string{
	"https://master.d2dnzia3915c3v.amplifyapp.com",
	"https://main.d2dnzia3915c3v.amplifyapp.com",
	"http://localhost:3000",
}

// Config holds all runtime configuration values for the functions and the local gateway.
type Config struct {
	Port     string // TCP port for the local gateway (e.g. "8080")
	Env      string // "development", "staging" or "production"
	LogLevel string // zap level name: debug, info, warn, error

	AllowedOrigins []string // CORS allow-list; first entry is the default origin

	AWSRegion        string // Region for every AWS client
	DynamoDBEndpoint string // Optional endpoint override (DynamoDB Local); empty = SDK default

	StoreBackend string // BackendDynamoDB or BackendPostgres
	DatabaseURL  string // PostgreSQL DSN, only read when StoreBackend is BackendPostgres

	CoursesTable string
	ScoresTable  string
	UsersTable   string
	FlagsTable   string

	ScorecardBucket string // Bucket for browser uploads and preprocessed scorecards

	CourseAPIURL    string // Base URL; the external course id is appended
	CourseAPISecret string // Secrets Manager name holding {"Authorization": "..."}
	OpenAISecret    string // Secrets Manager name holding the plain API key
	VisionModel     string

	FlagCacheTTL   time.Duration
	DefaultFlagEnv string
}

// Load reads configuration from environment variables and returns a populated Config.
// A missing .env file is fine: deployed functions get their variables from the platform.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getenv("PORT", "8080"),
		Env:      getenv("ENV", "development"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		AllowedOrigins: ParseOrigins(os.Getenv("ALLOWED_ORIGINS")),

		AWSRegion:        getenv("AWS_REGION", "us-east-2"),
		DynamoDBEndpoint: os.Getenv("DYNAMODB_ENDPOINT"),

		StoreBackend: strings.ToLower(getenv("STORE_BACKEND", BackendDynamoDB)),
		DatabaseURL:  os.Getenv("DATABASE_URL"),

		CoursesTable: getenv("COURSES_TABLE", "sg_courses"),
		ScoresTable:  getenv("SCORES_TABLE", "sg_user_scores"),
		UsersTable:   getenv("USERS_TABLE", "sg_users"),
		FlagsTable:   getenv("FLAGS_TABLE", "sg_feature_flags"),

		ScorecardBucket: getenv("SCORECARD_BUCKET", "golf-scorecards-bucket"),

		CourseAPIURL:    getenv("COURSE_API_URL", "https://api.golfcourseapi.com/v1/courses/"),
		CourseAPISecret: getenv("COURSE_API_SECRET", "golfCourseAPI"),
		OpenAISecret:    getenv("OPENAI_SECRET", "openAI_API2"),
		VisionModel:     getenv("VISION_MODEL", "gpt-4o-mini"),

		FlagCacheTTL:   parseDuration(os.Getenv("FLAG_CACHE_TTL"), 5*time.Minute),
		DefaultFlagEnv: getenv("DEFAULT_FLAG_ENV", "dev"),
	}
}

// ParseOrigins splits a comma-separated allow-list. Whitespace and trailing slashes are
// dropped so "https://main.example.com/" and "https://main.example.com" compare equal.
// An empty input yields DefaultAllowedOrigins.
func ParseOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return append([]string(nil), DefaultAllowedOrigins...)
	}
	return origins
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
