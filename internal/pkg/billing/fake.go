package billing

import (
	"context"
	"sync"
)

// FakeProvider is an in-memory Provider for tests and local development.
type FakeProvider struct {
	mu sync.Mutex

	// PreferenceResult is returned by CreatePreference unless PreferenceErr is set.
	PreferenceResult *PreferenceResult
	PreferenceErr    error
	// Payments maps payment id to the payment GetPayment returns.
	Payments   map[string]*Payment
	PaymentErr error

	Preferences []Preference
	Lookups     []string
}

var _ Provider = (*FakeProvider)(nil)

// NewFakeProvider returns a provider whose checkout URL is checkoutURL.
func NewFakeProvider(checkoutURL string) *FakeProvider {
	return &FakeProvider{
		PreferenceResult: &PreferenceResult{ID: "pref-test", InitPoint: checkoutURL, SandboxInitPoint: checkoutURL},
		Payments:         map[string]*Payment{},
	}
}

func (f *FakeProvider) CreatePreference(_ context.Context, pref Preference) (*PreferenceResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Preferences = append(f.Preferences, pref)
	if f.PreferenceErr != nil {
		return nil, f.PreferenceErr
	}
	return f.PreferenceResult, nil
}

func (f *FakeProvider) GetPayment(_ context.Context, paymentID string) (*Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Lookups = append(f.Lookups, paymentID)
	if f.PaymentErr != nil {
		return nil, f.PaymentErr
	}
	p, ok := f.Payments[paymentID]
	if !ok {
		return nil, &ProviderError{Op: "get payment", Kind: KindStatus, StatusCode: 404, Body: `{"message":"Payment not found"}`}
	}
	return p, nil
}

// SetPayment registers a payment for later lookups.
func (f *FakeProvider) SetPayment(id, status, externalReference string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Payments[id] = &Payment{Status: status, ExternalReference: externalReference}
}

// LookupCount returns how many times GetPayment was called.
func (f *FakeProvider) LookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Lookups)
}
