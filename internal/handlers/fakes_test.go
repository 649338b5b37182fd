package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartgolf/smartgolf-api/internal/apigw"
	"github.com/smartgolf/smartgolf-api/internal/models"
	"github.com/smartgolf/smartgolf-api/internal/store"
)

const testOrigin = "http://localhost:3000"

var testCORS = apigw.CORS{AllowedOrigins: []string{"https://main.example.com", testOrigin}}

type fakeCourses struct {
	byID     map[string]models.Course
	finds    int
	creates  int
	findErr  error
	searchIn []models.CourseSummary
}

func newFakeCourses(courses ...models.Course) *fakeCourses {
	f := &fakeCourses{byID: map[string]models.Course{}}
	for _, c := range courses {
		f.byID[c.CourseID] = c
	}
	return f
}

func (f *fakeCourses) FindByExternalID(_ context.Context, externalID string) (*models.Course, error) {
	f.finds++
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, c := range f.byID {
		if c.ExternalCourseID == externalID {
			c := c
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeCourses) Search(_ context.Context, query string) ([]models.CourseSummary, error) {
	out := []models.CourseSummary{}
	for _, c := range f.searchIn {
		if strings.Contains(strings.ToLower(c.CourseName), query) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourses) Create(_ context.Context, c *models.Course) error {
	f.creates++
	f.byID[c.CourseID] = *c
	return nil
}

type fakeFetcher struct {
	doc   map[string]any
	err   error
	calls int
	key   string
}

func (f *fakeFetcher) Fetch(_ context.Context, apiKey, _ string) (map[string]any, error) {
	f.calls++
	f.key = apiKey
	return f.doc, f.err
}

type fakeSecrets struct {
	values map[string]string
	calls  int
}

func (f *fakeSecrets) Get(_ context.Context, name string) (string, error) {
	f.calls++
	v, ok := f.values[name]
	if !ok {
		return "", errors.New("ResourceNotFoundException: " + name)
	}
	return v, nil
}

type fakeScores struct {
	items  map[string]models.Score
	putErr error
}

func newFakeScores() *fakeScores { return &fakeScores{items: map[string]models.Score{}} }

func (f *fakeScores) Put(_ context.Context, s *models.Score) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.items[s.UserID+"/"+s.ScoreID] = *s
	return nil
}

func (f *fakeScores) Recent(_ context.Context, userID string, limit int) ([]models.Score, error) {
	var out []models.Score
	for _, s := range f.items {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return store.NewestFirst(out, limit), nil
}

type fakeUsers struct {
	profiles map[string]models.UserProfile
	err      error
}

func (f *fakeUsers) Get(_ context.Context, userID string) (*models.UserProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (f *fakeUsers) Put(_ context.Context, p *models.UserProfile) error {
	if f.err != nil {
		return f.err
	}
	f.profiles[p.UserID] = *p
	return nil
}

type fakeFlagStore struct {
	flags []models.FeatureFlag
	scans int
}

func (f *fakeFlagStore) ListByEnvironment(_ context.Context, env string) ([]models.FeatureFlag, error) {
	f.scans++
	var out []models.FeatureFlag
	for _, fl := range f.flags {
		if fl.Environment == env {
			out = append(out, fl)
		}
	}
	return out, nil
}

type fakeBucket struct {
	objects  map[string][]byte
	calls    int
	presigns []string
	err      error
}

func newFakeBucket() *fakeBucket { return &fakeBucket{objects: map[string][]byte{}} }

func (b *fakeBucket) Put(_ context.Context, key, _ string, body []byte) error {
	b.calls++
	if b.err != nil {
		return b.err
	}
	b.objects[key] = body
	return nil
}

func (b *fakeBucket) Get(_ context.Context, key string) ([]byte, error) {
	b.calls++
	data, ok := b.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return data, nil
}

func (b *fakeBucket) PresignPut(_ context.Context, key, contentType string, expires time.Duration) (string, error) {
	b.calls++
	if b.err != nil {
		return "", b.err
	}
	b.presigns = append(b.presigns, "PUT "+key)
	return "https://signed.example.com/" + key + "?type=" + contentType + "&expires=" + expires.String(), nil
}

func (b *fakeBucket) PresignGet(_ context.Context, key string, expires time.Duration) (string, error) {
	b.calls++
	b.presigns = append(b.presigns, "GET "+key)
	return "https://signed.example.com/" + key + "?expires=" + expires.String(), nil
}

func (b *fakeBucket) PublicURL(key string) string {
	return "https://golf-scorecards-bucket.s3.amazonaws.com/" + key
}

// call runs fn for method behind apigw.Route, the way API Gateway would invoke it.
func call(t *testing.T, method string, fn apigw.MethodFunc, ev events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	t.Helper()
	ev.HTTPMethod = method
	if ev.Headers == nil {
		ev.Headers = map[string]string{"origin": testOrigin}
	}
	resp, err := apigw.Route(testCORS, apigw.Methods{method: fn}, zap.NewNop())(context.Background(), ev)
	require.NoError(t, err)
	return resp
}

func withBody(body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{Body: body}
}

func withSubject(sub string) events.APIGatewayProxyRequest {
	var ev events.APIGatewayProxyRequest
	ev.RequestContext.Authorizer = map[string]interface{}{
		"claims": map[string]interface{}{"sub": sub},
	}
	return ev
}

func bodyOf(t *testing.T, resp events.APIGatewayProxyResponse) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out), resp.Body)
	return out
}

func errorBody(message string) map[string]any {
	return map[string]any{"status": "error", "message": message}
}
