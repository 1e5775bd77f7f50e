package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/premiumgate/premiumgate/internal/pkg/config"
	"github.com/premiumgate/premiumgate/internal/pkg/metrics"
)

const defaultMercadoPagoAPIBaseURL = "https://api.mercadopago.com"

var _ Provider = (*MercadoPagoClient)(nil)

// MercadoPagoClient talks to the Mercado Pago REST API with an access token.
type MercadoPagoClient struct {
	AccessToken string
	APIBaseURL  string

	HTTPClient *http.Client
	// NewIdempotencyKey returns the X-Idempotency-Key for each POST.
	NewIdempotencyKey func() string

	metrics *metrics.Metrics
}

// NewMercadoPagoClient builds a client from configuration. m may be nil.
func NewMercadoPagoClient(cfg config.PaymentConfig, m *metrics.Metrics) *MercadoPagoClient {
	base := strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if base == "" {
		base = defaultMercadoPagoAPIBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &MercadoPagoClient{
		AccessToken: strings.TrimSpace(cfg.AccessToken),
		APIBaseURL:  base,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		NewIdempotencyKey: uuid.NewString,
		metrics:           m,
	}
}

// CreatePreference registers a checkout preference. 200 and 201 are success.
func (c *MercadoPagoClient) CreatePreference(ctx context.Context, pref Preference) (*PreferenceResult, error) {
	const op = "create preference"

	payload, err := json.Marshal(pref)
	if err != nil {
		return nil, &ProviderError{Op: op, Kind: KindDecode, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+"/checkout/preferences", bytes.NewReader(payload))
	if err != nil {
		return nil, &ProviderError{Op: op, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.NewIdempotencyKey != nil {
		req.Header.Set("X-Idempotency-Key", c.NewIdempotencyKey())
	}

	body, status, err := c.do(op, req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, &ProviderError{Op: op, Kind: KindStatus, StatusCode: status, Body: truncate(body)}
	}

	var out PreferenceResult
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &ProviderError{Op: op, Kind: KindDecode, StatusCode: status, Err: err}
	}
	if strings.TrimSpace(out.InitPoint) == "" && strings.TrimSpace(out.SandboxInitPoint) == "" {
		return nil, &ProviderError{Op: op, Kind: KindDecode, StatusCode: status, Err: errors.New("response missing init_point")}
	}
	return &out, nil
}

// GetPayment loads a payment by id. Only 200 is success.
func (c *MercadoPagoClient) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	const op = "get payment"

	id := strings.TrimSpace(paymentID)
	if id == "" {
		return nil, &ProviderError{Op: op, Kind: KindTransport, Err: errors.New("payment id is required")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBaseURL+"/v1/payments/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, &ProviderError{Op: op, Kind: KindTransport, Err: err}
	}

	body, status, err := c.do(op, req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &ProviderError{Op: op, Kind: KindStatus, StatusCode: status, Body: truncate(body)}
	}

	var out Payment
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &ProviderError{Op: op, Kind: KindDecode, StatusCode: status, Err: err}
	}
	return &out, nil
}

func (c *MercadoPagoClient) do(op string, req *http.Request) ([]byte, int, error) {
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.observe(op, "error", start)
		return nil, 0, &ProviderError{Op: op, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		c.observe(op, "error", start)
		return nil, resp.StatusCode, &ProviderError{Op: op, Kind: KindTransport, StatusCode: resp.StatusCode, Err: err}
	}
	c.observe(op, http.StatusText(resp.StatusCode), start)
	return body, resp.StatusCode, nil
}

func (c *MercadoPagoClient) observe(op, result string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.ProviderCallDuration.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
}

func truncate(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
