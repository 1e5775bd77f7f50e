package controllers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/premiumgate/premiumgate/app/controllers"
	"github.com/premiumgate/premiumgate/app/models"
	"github.com/premiumgate/premiumgate/app/repository"
	"github.com/premiumgate/premiumgate/internal/pkg/billing"
	"github.com/premiumgate/premiumgate/internal/pkg/config"
	"github.com/premiumgate/premiumgate/internal/pkg/database"
	"github.com/premiumgate/premiumgate/internal/pkg/logging"
	"github.com/premiumgate/premiumgate/internal/pkg/metrics"
	"github.com/premiumgate/premiumgate/internal/pkg/router"
	"github.com/premiumgate/premiumgate/internal/pkg/session"
	"github.com/premiumgate/premiumgate/views"
)

const checkoutURL = "https://www.mercadopago.com.br/checkout/v1/redirect?pref_id=test"

// testApp is the full router over an in-memory database and a fake provider,
// with a cookie jar so consecutive requests share a browser session.
type testApp struct {
	t        *testing.T
	app      *fiber.App
	db       *gorm.DB
	repos    *repository.Repositories
	provider *billing.FakeProvider
	metrics  *metrics.Metrics
	cookies  map[string]*http.Cookie
}

func newTestApp(t *testing.T, opts ...func(*config.Config)) *testApp {
	t.Helper()

	cfg := config.Config{
		SecretKey:  "test-secret",
		SessionTTL: time.Hour,
		Database:   config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		Offer: config.OfferConfig{
			Title:               "Assinatura Premium Mensal",
			Description:         "Acesso completo à área premium por 30 dias",
			CurrencyID:          "BRL",
			UnitPrice:           15,
			StatementDescriptor: "PREMIUMASSINATURA",
		},
	}
	for _, o := range opts {
		o(&cfg)
	}

	l := logging.Discard()
	db := database.OpenTestDB(t)
	repos := repository.NewRepositories(db)
	m := metrics.New()
	provider := billing.NewFakeProvider(checkoutURL)
	svc := billing.NewService(provider, repos, billing.ServiceOptions{Offer: cfg.Offer, Metrics: m, Logger: l})

	app := fiber.New(fiber.Config{Views: views.NewEngine(), ErrorHandler: controllers.HandleError})
	router.InstallRouter(app, router.Dependencies{
		Config:   cfg,
		DB:       db,
		Repos:    repos,
		Sessions: session.NewStore(cfg, nil, l),
		Billing:  svc,
		Metrics:  m,
		Logger:   l,
	})

	return &testApp{
		t:        t,
		app:      app,
		db:       db,
		repos:    repos,
		provider: provider,
		metrics:  m,
		cookies:  map[string]*http.Cookie{},
	}
}

func (a *testApp) do(req *http.Request) *http.Response {
	a.t.Helper()
	for _, c := range a.cookies {
		req.AddCookie(c)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)

	for _, c := range resp.Cookies() {
		expired := c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now()))
		if expired {
			delete(a.cookies, c.Name)
			continue
		}
		a.cookies[c.Name] = &http.Cookie{Name: c.Name, Value: c.Value}
	}
	return resp
}

func (a *testApp) get(path string) *http.Response {
	a.t.Helper()
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) postForm(path string, form url.Values) *http.Response {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return a.do(req)
}

func (a *testApp) postJSON(path, body string) *http.Response {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return a.do(req)
}

// hasSession reports whether the jar holds a session cookie.
func (a *testApp) hasSession() bool {
	_, ok := a.cookies[session.CookieName]
	return ok
}

func (a *testApp) createUser(email, password string) *models.User {
	a.t.Helper()
	u, err := models.NewUser(email, password)
	require.NoError(a.t, err)
	require.NoError(a.t, a.repos.User.Create(context.Background(), u))
	return u
}

func (a *testApp) login(email, password string) {
	a.t.Helper()
	resp := a.postForm("/login", url.Values{"email": {email}, "senha": {password}})
	require.Equal(a.t, fiber.StatusSeeOther, resp.StatusCode)
	require.Equal(a.t, "/area-premium", resp.Header.Get(fiber.HeaderLocation))
}

func (a *testApp) user(id uint) *models.User {
	a.t.Helper()
	u, err := a.repos.User.GetByID(context.Background(), id)
	require.NoError(a.t, err)
	return u
}

func (a *testApp) subscribe(id uint) {
	a.t.Helper()
	_, err := a.repos.User.ActivateSubscription(context.Background(), id)
	require.NoError(a.t, err)
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func location(resp *http.Response) string {
	return resp.Header.Get(fiber.HeaderLocation)
}
