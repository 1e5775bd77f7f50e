package controllers_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/premiumgate/premiumgate/internal/pkg/billing"
	"github.com/premiumgate/premiumgate/internal/pkg/config"
)

const premiumContent = "conteúdo exclusivo"

func TestPremiumRequiresSubscription(t *testing.T) {
	a := newTestApp(t)
	a.createUser("a@x.com", "secret")
	a.login("a@x.com", "secret")

	resp := a.get("/area-premium")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/comprar", location(resp))
	assert.NotContains(t, body(t, resp), premiumContent)
}

func TestPremiumForSubscriber(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser("a@x.com", "secret")
	a.subscribe(u.ID)
	a.login("a@x.com", "secret")

	resp := a.get("/area-premium")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), premiumContent)
}

func TestCheckoutRedirectsToProvider(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser("a@x.com", "secret")
	a.login("a@x.com", "secret")

	resp := a.get("/comprar")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, checkoutURL, location(resp))

	require.Len(t, a.provider.Preferences, 1)
	pref := a.provider.Preferences[0]
	assert.Equal(t, strconv.FormatUint(uint64(u.ID), 10), pref.ExternalReference)
	assert.Equal(t, "a@x.com", pref.Payer.Email)
	assert.Equal(t, "http://example.com/pagamento_sucesso", pref.BackURLs.Success)
	assert.Equal(t, "http://example.com/pagamento_erro", pref.BackURLs.Failure)
	assert.Equal(t, "http://example.com/pagamento_pendente", pref.BackURLs.Pending)
	assert.Equal(t, "http://example.com/notificacao", pref.NotificationURL)
	assert.Equal(t, "PREMIUMASSINATURA", pref.StatementDescriptor)

	assert.False(t, a.user(u.ID).Subscribed)
}

func TestCheckoutUsesPublicBaseURL(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) { c.PublicBaseURL = "https://premium.example.org" })
	a.createUser("a@x.com", "secret")
	a.login("a@x.com", "secret")

	a.get("/comprar")
	require.Len(t, a.provider.Preferences, 1)
	assert.Equal(t, "https://premium.example.org/notificacao", a.provider.Preferences[0].NotificationURL)
}

func TestCheckoutProviderFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "status",
			err:     &billing.ProviderError{Op: "create preference", Kind: billing.KindStatus, StatusCode: 400},
			message: "Erro ao iniciar pagamento. Tente novamente mais tarde.",
		},
		{
			name:    "transport",
			err:     &billing.ProviderError{Op: "create preference", Kind: billing.KindTransport, Err: errors.New("timeout")},
			message: "Erro inesperado. Por favor, tente novamente.",
		},
		{
			name:    "decode",
			err:     &billing.ProviderError{Op: "create preference", Kind: billing.KindDecode, Err: errors.New("bad json")},
			message: "Erro inesperado. Por favor, tente novamente.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			a.createUser("a@x.com", "secret")
			a.login("a@x.com", "secret")
			a.provider.PreferenceErr = tt.err

			resp := a.get("/comprar")
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			html := body(t, resp)
			assert.Contains(t, html, `<div class="alert" data-type="error" role="alert">`+tt.message+`</div>`)
			assert.Contains(t, html, `href="/comprar"`)
			assert.NotContains(t, html, premiumContent)
			assert.Len(t, a.provider.Preferences, 1)
		})
	}
}

func TestPaymentSuccessConfirmsWithProvider(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser("a@x.com", "secret")
	a.login("a@x.com", "secret")
	a.provider.SetPayment("555", billing.StatusApproved, strconv.FormatUint(uint64(u.ID), 10))

	resp := a.get("/pagamento_sucesso?payment_id=555&status=approved")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/area-premium", location(resp))
	assert.True(t, a.user(u.ID).Subscribed)

	page := a.get("/area-premium")
	html := body(t, page)
	assert.Contains(t, html, "Pagamento aprovado com sucesso! Bem-vindo à área premium.")
	assert.Contains(t, html, premiumContent)

	// A second return is harmless.
	resp = a.get("/pagamento_sucesso?payment_id=555")
	assert.Equal(t, "/area-premium", location(resp))
	assert.True(t, a.user(u.ID).Subscribed)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.metrics.ActivationsTotal.WithLabelValues(billing.SourceReturn)))
}

func TestPaymentSuccessUnconfirmed(t *testing.T) {
	tests := []struct {
		name  string
		query string
		setup func(a *testApp, otherID uint)
	}{
		{name: "no payment id", query: ""},
		{name: "unknown payment", query: "?payment_id=404"},
		{
			name:  "pending payment",
			query: "?payment_id=1",
			setup: func(a *testApp, _ uint) {
				a.provider.SetPayment("1", billing.StatusPending, "1")
			},
		},
		{
			name:  "another user's payment",
			query: "?payment_id=2",
			setup: func(a *testApp, otherID uint) {
				a.provider.SetPayment("2", billing.StatusApproved, strconv.FormatUint(uint64(otherID), 10))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			u := a.createUser("a@x.com", "secret")
			other := a.createUser("b@x.com", "secret")
			if tt.setup != nil {
				tt.setup(a, other.ID)
			}
			a.login("a@x.com", "secret")

			resp := a.get("/pagamento_sucesso" + tt.query)
			assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
			assert.Equal(t, "/area-premium", location(resp))
			assert.False(t, a.user(u.ID).Subscribed)
			assert.False(t, a.user(other.ID).Subscribed)
		})
	}
}

func TestPaymentSuccessTrustedReturn(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) { c.TrustReturnRedirect = true })
	u := a.createUser("a@x.com", "secret")
	a.login("a@x.com", "secret")

	resp := a.get("/pagamento_sucesso")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/area-premium", location(resp))
	assert.True(t, a.user(u.ID).Subscribed)

	// Coming back again leaves the flag set.
	resp = a.get("/pagamento_sucesso")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/area-premium", location(resp))
	assert.True(t, a.user(u.ID).Subscribed)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.metrics.ActivationsTotal.WithLabelValues(billing.SourceReturn)))
	assert.Zero(t, a.provider.LookupCount())
}

func TestPaymentFailureAndPending(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser("a@x.com", "secret")
	a.login("a@x.com", "secret")

	resp := a.get("/pagamento_erro")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/comprar", location(resp))

	resp = a.get("/pagamento_pendente")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/area-premium", location(resp))

	assert.False(t, a.user(u.ID).Subscribed)
	assert.Zero(t, a.provider.LookupCount())
}
