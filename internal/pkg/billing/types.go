package billing

import "context"

// Payment statuses reported by the provider. Only StatusApproved grants access.
const (
	StatusApproved   = "approved"
	StatusPending    = "pending"
	StatusInProcess  = "in_process"
	StatusRejected   = "rejected"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"
	StatusChargeBack = "charged_back"
)

// Provider is the payment processor as seen by the application: create a
// checkout preference, and look up a payment by id.
type Provider interface {
	CreatePreference(ctx context.Context, pref Preference) (*PreferenceResult, error)
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
}

// Preference is the checkout description sent to the provider.
type Preference struct {
	Items               []Item         `json:"items"`
	Payer               Payer          `json:"payer"`
	PaymentMethods      PaymentMethods `json:"payment_methods"`
	BackURLs            BackURLs       `json:"back_urls"`
	AutoReturn          string         `json:"auto_return,omitempty"`
	NotificationURL     string         `json:"notification_url,omitempty"`
	ExternalReference   string         `json:"external_reference"`
	StatementDescriptor string         `json:"statement_descriptor,omitempty"`
}

type Item struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity"`
	CurrencyID  string  `json:"currency_id"`
	UnitPrice   float64 `json:"unit_price"`
}

type Payer struct {
	Email string `json:"email"`
}

type PaymentMethods struct {
	ExcludedPaymentTypes []PaymentType `json:"excluded_payment_types,omitempty"`
	Installments         int           `json:"installments,omitempty"`
}

type PaymentType struct {
	ID string `json:"id"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

// PreferenceResult is the part of the provider's answer the checkout needs.
type PreferenceResult struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// CheckoutURL picks the hosted checkout link for the environment.
func (r *PreferenceResult) CheckoutURL(sandbox bool) string {
	if sandbox && r.SandboxInitPoint != "" {
		return r.SandboxInitPoint
	}
	return r.InitPoint
}

// Payment is the subset of the provider's payment resource used for activation.
type Payment struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	StatusDetail      string  `json:"status_detail"`
	ExternalReference string  `json:"external_reference"`
	TransactionAmount float64 `json:"transaction_amount"`
	CurrencyID        string  `json:"currency_id"`
}

// Approved reports whether the payment grants access.
func (p *Payment) Approved() bool {
	return p != nil && p.Status == StatusApproved
}
