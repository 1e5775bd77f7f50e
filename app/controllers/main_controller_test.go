package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/premiumgate/premiumgate/internal/pkg/config"
)

func TestHealthz(t *testing.T) {
	a := newTestApp(t)

	resp := a.get("/healthz")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal([]byte(body(t, resp)), &payload))
	assert.Equal(t, "ok", payload.Status)
	assert.Equal(t, "ok", payload.Checks["database"])
	assert.NotContains(t, payload.Checks, "cache")
}

func TestHealthzDatabaseDown(t *testing.T) {
	a := newTestApp(t)
	sqlDB, err := a.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	resp := a.get("/healthz")
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body(t, resp), `"unavailable"`)
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t)
	a.createUser("a@x.com", "secret")
	a.login("a@x.com", "secret")
	a.get("/comprar")

	resp := a.get("/metrics")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	text := body(t, resp)
	assert.Contains(t, text, `premiumgate_checkouts_total{result="redirected"} 1`)
}

func TestMetricsBasicAuth(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) {
		c.Metrics = config.MetricsConfig{User: "admin", Password: "s3cret"}
	})

	resp := a.get("/metrics")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.SetBasicAuth("admin", "s3cret")
	resp = a.do(req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHomeShowsStatistics(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser("a@x.com", "secret")
	a.createUser("b@x.com", "secret")
	a.subscribe(u.ID)

	resp := a.get("/")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "2 usuários, 1 assinantes.")
}

func TestHomeRendersPageFrame(t *testing.T) {
	a := newTestApp(t)

	resp := a.get("/")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")
	assert.Equal(t, "no-store", resp.Header.Get(fiber.HeaderCacheControl))

	html := body(t, resp)
	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, `<body data-page="home">`)
	assert.Contains(t, html, "<h1>Bem-vindo ao PremiumGate</h1>")
	assert.NotContains(t, html, `role="alert"`)
}

func TestUnknownRouteRendersErrorPage(t *testing.T) {
	a := newTestApp(t)

	resp := a.get("/nao-existe")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "<h1>404</h1>")
	assert.Contains(t, html, "Página não encontrada.")
}
