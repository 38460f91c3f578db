package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableRedis returns a client that fails fast on every command, so the
// tests can tell the bypass branch (cache never consulted, no X-Cache header)
// from the miss branch (cache consulted, X-Cache set).
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		ReadTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func newCachedApp(hits map[string]int) *fiber.App {
	app := fiber.New()
	app.Use(CacheMiddleware(unreachableRedis(), DefaultCacheConfig()))

	register := func(path string) {
		app.Get(path, func(c *fiber.Ctx) error {
			hits[path]++
			return c.JSON(fiber.Map{"success": true})
		})
	}
	register("/api/alerts/trigger")
	register("/api/alerts/list")
	return app
}

func TestCacheNeverInterceptsAlertTrigger(t *testing.T) {
	hits := map[string]int{}
	app := newCachedApp(hits)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/alerts/trigger", nil), 1000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Empty(t, resp.Header.Get("X-Cache"), "trigger must bypass the cache entirely")
	}

	assert.Equal(t, 2, hits["/api/alerts/trigger"],
		"every trigger must reach the monitor so dispatch runs")
}

func TestCacheEngagesForListPath(t *testing.T) {
	hits := map[string]int{}
	app := newCachedApp(hits)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/alerts/list", nil), 1000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))
	assert.Equal(t, 1, hits["/api/alerts/list"])
}

func TestIsPathSkipped(t *testing.T) {
	skip := DefaultCacheConfig().SkipPaths

	tests := []struct {
		path string
		want bool
	}{
		{"/api/alerts/trigger", true},
		{"/api/alerts/trigger/", true},
		{"/api/alerts/list", false},
		{"/api/pricing/suggest", false},
		{"/form", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isPathSkipped(tt.path, skip), tt.path)
	}
}
