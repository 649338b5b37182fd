package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartgolf/smartgolf-api/internal/models"
)

func courseFixture() (*fakeCourses, *fakeFetcher, *fakeSecrets, CourseAPI) {
	courses := newFakeCourses(models.Course{
		CourseID:         "c0f6a8e2-1111-4a4a-9c9c-000000000001",
		ExternalCourseID: "18218",
		CourseName:       "Pinehurst No. 2",
	})
	fetcher := &fakeFetcher{doc: map[string]any{"course": map[string]any{"id": float64(9001)}}}
	secrets := &fakeSecrets{values: map[string]string{"golfCourseAPI": `{"Authorization":"Key abc"}`}}
	return courses, fetcher, secrets, CourseAPI{Secrets: secrets, SecretName: "golfCourseAPI", Fetcher: fetcher}
}

func TestCheckOrCreateCourseRejectsForeignOrigin(t *testing.T) {
	courses, fetcher, secrets, api := courseFixture()

	ev := withBody(`{"externalCourseID":"9001","courseName":"Bandon Dunes"}`)
	ev.Headers = map[string]string{"Origin": "https://evil.example.com"}
	resp := call(t, http.MethodPost, CheckOrCreateCourse(courses, api, zap.NewNop()), ev)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, errorBody("Invalid origin"), bodyOf(t, resp))
	assert.Zero(t, courses.finds)
	assert.Zero(t, courses.creates)
	assert.Zero(t, fetcher.calls)
	assert.Zero(t, secrets.calls)
}

func TestCheckOrCreateCourseReturnsExisting(t *testing.T) {
	courses, fetcher, secrets, api := courseFixture()

	resp := call(t, http.MethodPost, CheckOrCreateCourse(courses, api, zap.NewNop()),
		withBody(`{"externalCourseID":18218,"courseName":"Pinehurst No. 2"}`))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"uuid": "c0f6a8e2-1111-4a4a-9c9c-000000000001"}, bodyOf(t, resp))
	assert.Zero(t, fetcher.calls)
	assert.Zero(t, secrets.calls)
	assert.Zero(t, courses.creates)
}

func TestCheckOrCreateCourseCreatesOnce(t *testing.T) {
	courses, fetcher, _, api := courseFixture()

	resp := call(t, http.MethodPost, CheckOrCreateCourse(courses, api, zap.NewNop()),
		withBody(`{"externalCourseID":"9001","courseName":"Bandon Dunes"}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	id, ok := bodyOf(t, resp)["uuid"].(string)
	require.True(t, ok)
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, "Key abc", fetcher.key)
	assert.Equal(t, 1, courses.creates)

	var stored []models.Course
	for _, c := range courses.byID {
		if c.ExternalCourseID == "9001" {
			stored = append(stored, c)
		}
	}
	require.Len(t, stored, 1)
	assert.Equal(t, id, stored[0].CourseID)
	assert.Equal(t, "Bandon Dunes", stored[0].CourseName)
	assert.Equal(t, fetcher.doc, stored[0].CourseData)

	// A second request for the same course finds the stored record.
	resp = call(t, http.MethodPost, CheckOrCreateCourse(courses, api, zap.NewNop()),
		withBody(`{"externalCourseID":"9001","courseName":"Bandon Dunes"}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, id, bodyOf(t, resp)["uuid"])
	assert.Equal(t, 1, fetcher.calls)
}

func TestCheckOrCreateCourseFailures(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		courses, fetcher, _, api := courseFixture()
		resp := call(t, http.MethodPost, CheckOrCreateCourse(courses, api, zap.NewNop()),
			withBody(`{"courseName":"Bandon Dunes"}`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, errorBody("Missing required fields"), bodyOf(t, resp))
		assert.Zero(t, courses.finds)
		assert.Zero(t, fetcher.calls)
	})

	t.Run("external api failure", func(t *testing.T) {
		courses, fetcher, _, api := courseFixture()
		fetcher.err = errors.New("course api returned 404")
		resp := call(t, http.MethodPost, CheckOrCreateCourse(courses, api, zap.NewNop()),
			withBody(`{"externalCourseID":"9001","courseName":"Bandon Dunes"}`))
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, errorBody("Failed to fetch external course data"), bodyOf(t, resp))
		assert.Zero(t, courses.creates)
	})

	t.Run("secret unavailable", func(t *testing.T) {
		courses, fetcher, secrets, api := courseFixture()
		secrets.values = map[string]string{}
		resp := call(t, http.MethodPost, CheckOrCreateCourse(courses, api, zap.NewNop()),
			withBody(`{"externalCourseID":"9001","courseName":"Bandon Dunes"}`))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Contains(t, bodyOf(t, resp)["message"], "ResourceNotFoundException")
		assert.Zero(t, fetcher.calls)
	})

	t.Run("store failure is echoed", func(t *testing.T) {
		courses, _, _, api := courseFixture()
		courses.findErr = errors.New("ProvisionedThroughputExceededException")
		resp := call(t, http.MethodPost, CheckOrCreateCourse(courses, api, zap.NewNop()),
			withBody(`{"externalCourseID":"9001","courseName":"Bandon Dunes"}`))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, errorBody("ProvisionedThroughputExceededException"), bodyOf(t, resp))
	})
}

func TestSearchCourses(t *testing.T) {
	courses := newFakeCourses()
	courses.searchIn = []models.CourseSummary{
		{CourseID: "1", ExternalCourseID: "18218", CourseName: "Pinehurst No. 2"},
		{CourseID: "2", ExternalCourseID: "9001", CourseName: "Bandon Dunes"},
	}
	h := SearchCourses(courses, zap.NewNop())

	resp := call(t, http.MethodGet, h, events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"search_query": "PINE"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"courses":[{"courseID":"1","externalCourseID":"18218","courseName":"Pinehurst No. 2"}]}`, resp.Body)

	resp = call(t, http.MethodGet, h, events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"search_query": "zz"},
	})
	assert.JSONEq(t, `{"courses":[]}`, resp.Body)

	resp = call(t, http.MethodGet, h, events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"search_query": "p"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, errorBody("Missing or too short search_query"), bodyOf(t, resp))
}
