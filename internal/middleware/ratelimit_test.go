package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedApp(t *testing.T, rdb *redis.Client, limit int, pre ...fiber.Handler) *fiber.App {
	t.Helper()
	app := fiber.New()
	handlers := append(pre, RateLimit(rdb, limit, time.Minute, "test_resource"))
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/", handlers...)
	return app
}

func get(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	return resp
}

func TestRateLimitEnforcesWindow(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	app := limitedApp(t, rdb, 2)

	assert.Equal(t, http.StatusOK, get(t, app).StatusCode)
	assert.Equal(t, http.StatusOK, get(t, app).StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, get(t, app).StatusCode)

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, http.StatusOK, get(t, app).StatusCode)
}

func TestRateLimitDisabledOutsideProduction(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	app := limitedApp(t, rdb, 1)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(t, app).StatusCode)
	}
	assert.Empty(t, mr.Keys())
}

func TestRateLimitHonorsRequestContext(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	// A caller that already gave up: the Redis counter must not advance,
	// and the middleware fails open.
	canceled := func(c *fiber.Ctx) error {
		ctx, cancel := context.WithCancel(c.UserContext())
		cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
	app := limitedApp(t, rdb, 1, canceled)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(t, app).StatusCode)
	}
	assert.Empty(t, mr.Keys(), "canceled requests must not be counted")
}
