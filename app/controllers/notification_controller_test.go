package controllers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/premiumgate/premiumgate/app/models"
	"github.com/premiumgate/premiumgate/internal/pkg/billing"
)

func ref(u *models.User) string {
	return strconv.FormatUint(uint64(u.ID), 10)
}

func TestNotificationActivatesFromEachSource(t *testing.T) {
	tests := []struct {
		name string
		send func(a *testApp) *http.Response
	}{
		{
			name: "form data.id",
			send: func(a *testApp) *http.Response {
				return a.postForm("/notificacao", url.Values{"data.id": {"900"}})
			},
		},
		{
			name: "query data.id",
			send: func(a *testApp) *http.Response {
				return a.postJSON("/notificacao?data.id=900&type=payment", "")
			},
		},
		{
			name: "json body",
			send: func(a *testApp) *http.Response {
				return a.postJSON("/notificacao", `{"action":"payment.updated","type":"payment","data":{"id":"900"}}`)
			},
		},
		{
			name: "json body numeric id",
			send: func(a *testApp) *http.Response {
				return a.postJSON("/notificacao", `{"type":"payment","data":{"id":900}}`)
			},
		},
		{
			name: "legacy id and topic",
			send: func(a *testApp) *http.Response {
				return a.do(httptest.NewRequest(http.MethodPost, "/notificacao?id=900&topic=payment", nil))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			u := a.createUser("a@x.com", "secret")
			a.provider.SetPayment("900", billing.StatusApproved, ref(u))

			resp := tt.send(a)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Empty(t, body(t, resp))
			assert.True(t, a.user(u.ID).Subscribed)
			assert.Equal(t, []string{"900"}, a.provider.Lookups)

			rows, err := a.repos.Notification.ListByPaymentID(context.Background(), "900")
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, string(billing.OutcomeActivated), rows[0].Outcome)
		})
	}
}

func TestNotificationFormTakesPriorityOverQuery(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser("a@x.com", "secret")
	a.provider.SetPayment("1", billing.StatusApproved, ref(u))

	resp := a.postForm("/notificacao?data.id=2", url.Values{"data.id": {"1"}})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"1"}, a.provider.Lookups)
	assert.True(t, a.user(u.ID).Subscribed)
}

func TestNotificationHandledWithoutActivation(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(a *testApp, u *models.User)
		path        string
		body        string
		wantLookups int
	}{
		{
			name: "no payment id",
			path: "/notificacao",
			body: `{}`,
		},
		{
			name: "other topic",
			path: "/notificacao?topic=merchant_order&id=77",
		},
		{
			name: "other type with data id",
			path: "/notificacao",
			body: `{"type":"plan","data":{"id":"77"}}`,
		},
		{
			name: "pending payment",
			setup: func(a *testApp, u *models.User) {
				a.provider.SetPayment("5", billing.StatusPending, ref(u))
			},
			path:        "/notificacao",
			body:        `{"type":"payment","data":{"id":"5"}}`,
			wantLookups: 1,
		},
		{
			name:        "provider does not know the payment",
			path:        "/notificacao",
			body:        `{"type":"payment","data":{"id":"6"}}`,
			wantLookups: 1,
		},
		{
			name: "unknown user",
			setup: func(a *testApp, _ *models.User) {
				a.provider.SetPayment("7", billing.StatusApproved, "424242")
			},
			path:        "/notificacao",
			body:        `{"type":"payment","data":{"id":"7"}}`,
			wantLookups: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			u := a.createUser("a@x.com", "secret")
			if tt.setup != nil {
				tt.setup(a, u)
			}

			resp := a.postJSON(tt.path, tt.body)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Empty(t, body(t, resp))
			assert.False(t, a.user(u.ID).Subscribed)
			assert.Equal(t, tt.wantLookups, a.provider.LookupCount())

			var count int64
			require.NoError(t, a.db.Model(&models.PaymentNotification{}).Count(&count).Error)
			assert.Equal(t, int64(1), count)
		})
	}
}

func TestNotificationFailuresReturn500(t *testing.T) {
	tests := []struct {
		name  string
		setup func(a *testApp)
	}{
		{
			name: "provider unreachable",
			setup: func(a *testApp) {
				a.provider.PaymentErr = &billing.ProviderError{Op: "get payment", Kind: billing.KindTransport, Err: errors.New("connection refused")}
			},
		},
		{
			name: "non numeric reference",
			setup: func(a *testApp) {
				a.provider.SetPayment("8", billing.StatusApproved, "not-a-user")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			tt.setup(a)

			resp := a.postJSON("/notificacao", `{"type":"payment","data":{"id":"8"}}`)
			assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
			assert.Empty(t, body(t, resp))

			rows, err := a.repos.Notification.ListByPaymentID(context.Background(), "8")
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, string(billing.OutcomeError), rows[0].Outcome)
			assert.NotEmpty(t, rows[0].ProcessingError)
		})
	}
}

func TestNotificationRepeatedDeliveryIsHarmless(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser("a@x.com", "secret")
	a.provider.SetPayment("900", billing.StatusApproved, ref(u))

	for i := 0; i < 3; i++ {
		resp := a.postJSON("/notificacao", `{"type":"payment","data":{"id":"900"}}`)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	assert.True(t, a.user(u.ID).Subscribed)

	rows, err := a.repos.Notification.ListByPaymentID(context.Background(), "900")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	outcomes := []string{rows[0].Outcome, rows[1].Outcome, rows[2].Outcome}
	assert.ElementsMatch(t, []string{
		string(billing.OutcomeActivated),
		string(billing.OutcomeAlreadyActive),
		string(billing.OutcomeAlreadyActive),
	}, outcomes)
}

func TestNotificationVisibleToLoggedInUser(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser("a@x.com", "secret")
	a.login("a@x.com", "secret")

	resp := a.get("/area-premium")
	require.Equal(t, "/comprar", location(resp))

	a.provider.SetPayment("900", billing.StatusApproved, ref(u))
	resp = a.postJSON("/notificacao", `{"type":"payment","data":{"id":"900"}}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = a.get("/area-premium")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), premiumContent)
}

func TestNotificationPayloadIsCappedOnRuneBoundary(t *testing.T) {
	a := newTestApp(t)

	// The two-byte rune straddles the 65535 byte limit.
	payload := strings.Repeat("a", 65534) + "é" + strings.Repeat("b", 100)
	resp := a.postJSON("/notificacao", payload)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	rows, err := a.repos.Notification.ListByPaymentID(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0].PayloadJSON, 65534)
	assert.True(t, utf8.ValidString(rows[0].PayloadJSON))
	assert.Equal(t, string(billing.OutcomeIgnored), rows[0].Outcome)
}
