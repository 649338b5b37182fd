package flags

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartgolf/smartgolf-api/internal/models"
)

type countingStore struct {
	scans map[string]int
	flags map[string][]models.FeatureFlag
	err   error
}

func (s *countingStore) ListByEnvironment(_ context.Context, env string) ([]models.FeatureFlag, error) {
	s.scans[env]++
	if s.err != nil {
		return nil, s.err
	}
	return s.flags[env], nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFixture() (*countingStore, *fakeClock, *Cache) {
	s := &countingStore{
		scans: map[string]int{},
		flags: map[string][]models.FeatureFlag{
			"dev": {
				{Environment: "dev", FlagName: "scorecardUpload", IsEnabled: true, Config: map[string]any{"maxMB": float64(5)}},
				{Environment: "dev", FlagName: "averages", IsEnabled: false},
			},
			"prod": {
				{Environment: "prod", FlagName: "scorecardUpload", IsEnabled: false},
			},
		},
	}
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	return s, clock, NewCache(s, 5*time.Minute).WithClock(clock.now)
}

func marshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestCacheServesWithinTTLAndRescansOnceAfter(t *testing.T) {
	s, clock, c := newFixture()
	ctx := context.Background()

	first, err := c.Get(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, 1, s.scans["dev"])

	clock.advance(4*time.Minute + 59*time.Second)
	second, err := c.Get(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, 1, s.scans["dev"], "no scan within the TTL")
	assert.Equal(t, marshal(t, first), marshal(t, second))

	clock.advance(2 * time.Second)
	_, err = c.Get(ctx, "dev")
	require.NoError(t, err)
	_, err = c.Get(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, 2, s.scans["dev"], "exactly one scan after expiry")
}

func TestCacheEntriesArePerEnvironment(t *testing.T) {
	s, clock, c := newFixture()
	ctx := context.Background()

	_, err := c.Get(ctx, "dev")
	require.NoError(t, err)
	clock.advance(3 * time.Minute)

	prod, err := c.Get(ctx, "prod")
	require.NoError(t, err)
	assert.False(t, prod["scorecardUpload"].IsEnabled)

	// dev expires on its own schedule; prod is still fresh.
	clock.advance(3 * time.Minute)
	_, _ = c.Get(ctx, "dev")
	_, _ = c.Get(ctx, "prod")
	assert.Equal(t, 2, s.scans["dev"])
	assert.Equal(t, 1, s.scans["prod"])
}

func TestCacheShape(t *testing.T) {
	_, _, c := newFixture()

	set, err := c.Get(context.Background(), "dev")
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"scorecardUpload":{"isEnabled":true,"config":{"maxMB":5}},"averages":{"isEnabled":false,"config":{}}}`,
		string(marshal(t, set)))
}

func TestCachePassesNonObjectConfigThrough(t *testing.T) {
	s, _, c := newFixture()
	s.flags["dev"] = append(s.flags["dev"], models.FeatureFlag{Environment: "dev", FlagName: "theme", IsEnabled: true, Config: "dark"})

	set, err := c.Get(context.Background(), "dev")
	require.NoError(t, err)
	assert.Len(t, set, 3)
	assert.JSONEq(t,
		`{"scorecardUpload":{"isEnabled":true,"config":{"maxMB":5}},"averages":{"isEnabled":false,"config":{}},"theme":{"isEnabled":true,"config":"dark"}}`,
		string(marshal(t, set)))
}

func TestCacheDoesNotStoreFailures(t *testing.T) {
	s, _, c := newFixture()
	s.err = errors.New("throttled")

	_, err := c.Get(context.Background(), "dev")
	require.Error(t, err)

	s.err = nil
	set, err := c.Get(context.Background(), "dev")
	require.NoError(t, err)
	assert.Len(t, set, 2)
	assert.Equal(t, 2, s.scans["dev"])
}

func TestCacheEmptyEnvironmentIsCached(t *testing.T) {
	s, _, c := newFixture()

	set, err := c.Get(context.Background(), "staging")
	require.NoError(t, err)
	assert.Empty(t, set)
	_, _ = c.Get(context.Background(), "staging")
	assert.Equal(t, 1, s.scans["staging"])
}
