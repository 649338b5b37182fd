// Package handlers holds one method handler per operation of the Smart Golf API.
// Each exported function is a factory: it takes the stores and clients the operation
// needs and returns an apigw.MethodFunc, so the same handler runs under lambda.Start and
// behind the local Fiber gateway.
//
// Handlers return an apigw.Result for every outcome they expect (bad input, not found,
// upstream failures). A returned error is reserved for the unexpected and is echoed to
// the client as a 500 by apigw.Route.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartgolf/smartgolf-api/internal/apigw"
	"github.com/smartgolf/smartgolf-api/internal/courseapi"
	"github.com/smartgolf/smartgolf-api/internal/models"
	"github.com/smartgolf/smartgolf-api/internal/secrets"
	"github.com/smartgolf/smartgolf-api/internal/store"
)

// MinSearchLength is the shortest search_query accepted by SearchCourses.
const MinSearchLength = 2

// CourseAPI bundles what CheckOrCreateCourse needs to reach the external course API.
type CourseAPI struct {
	Secrets    secrets.Reader
	SecretName string // JSON secret holding the key under "Authorization"
	Fetcher    courseapi.Fetcher
}

// SearchCoursesResponse is the body of GET /courses.
type SearchCoursesResponse struct {
	Courses []models.CourseSummary `json:"courses"`
}

// UUIDResponse is the body of POST /courses.
type UUIDResponse struct {
	UUID string `json:"uuid"`
}

type createCourseRequest struct {
	ExternalCourseID string `mapstructure:"externalCourseID" validate:"required"`
	CourseName       string `mapstructure:"courseName" validate:"required"`
}

// SearchCourses handles GET /courses?search_query=... with a case-insensitive substring
// match on the course name.
func SearchCourses(courses store.CourseStore, log *zap.Logger) apigw.MethodFunc {
	return func(ctx context.Context, req apigw.Request) (apigw.Result, error) {
		query := strings.ToLower(req.Query("search_query"))
		if len(query) < MinSearchLength {
			return apigw.Fail(http.StatusBadRequest, "Missing or too short search_query"), nil
		}

		matches, err := courses.Search(ctx, query)
		if err != nil {
			return apigw.Result{}, err
		}
		log.Info("course search", zap.String("query", query), zap.Int("matches", len(matches)))
		return apigw.JSON(http.StatusOK, SearchCoursesResponse{Courses: matches}), nil
	}
}

// CheckOrCreateCourse handles POST /courses. A course already stored under the external
// id is returned as is; otherwise the full document is fetched from the course API and a
// new course is created.
func CheckOrCreateCourse(courses store.CourseStore, api CourseAPI, log *zap.Logger) apigw.MethodFunc {
	return func(ctx context.Context, req apigw.Request) (apigw.Result, error) {
		// --- Step 1: Validate the body ---
		var body createCourseRequest
		if err := req.DecodeBody(&body); err != nil {
			return apigw.Fail(http.StatusBadRequest, "Missing required fields"), nil
		}
		log := log.With(zap.String("external_course_id", body.ExternalCourseID))

		// --- Step 2: Return the existing course if we already have it ---
		existing, err := courses.FindByExternalID(ctx, body.ExternalCourseID)
		switch {
		case err == nil:
			log.Info("course already exists", zap.String("course_id", existing.CourseID))
			return apigw.JSON(http.StatusOK, UUIDResponse{UUID: existing.CourseID}), nil
		case !errors.Is(err, store.ErrNotFound):
			return apigw.Result{}, err
		}

		// --- Step 3: Fetch the full document from the course API ---
		// The API key is read from Secrets Manager on every miss.
		apiKey, err := secrets.Field(ctx, api.Secrets, api.SecretName, "Authorization")
		if err != nil {
			return apigw.Result{}, err
		}

		doc, err := api.Fetcher.Fetch(ctx, apiKey, body.ExternalCourseID)
		if err != nil {
			log.Error("course api fetch failed", zap.Error(err))
			return apigw.Fail(http.StatusBadGateway, "Failed to fetch external course data"), nil
		}

		// --- Step 4: Store it under a fresh UUID ---
		course := &models.Course{
			CourseID:         uuid.NewString(),
			ExternalCourseID: body.ExternalCourseID,
			CourseName:       body.CourseName,
			CourseData:       doc,
		}
		if err := courses.Create(ctx, course); err != nil {
			return apigw.Result{}, err
		}
		log.Info("course created", zap.String("course_id", course.CourseID))
		return apigw.JSON(http.StatusCreated, UUIDResponse{UUID: course.CourseID}), nil
	}
}
