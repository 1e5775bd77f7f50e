package billing

import (
	"errors"
	"fmt"
)

// ErrorKind classifies provider failures so callers can choose how to react.
type ErrorKind int

const (
	// KindTransport: the request never produced a response (DNS, TLS, timeout, cancel).
	KindTransport ErrorKind = iota + 1
	// KindStatus: the provider answered with an unexpected HTTP status.
	KindStatus
	// KindDecode: the response body could not be understood.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// ProviderError wraps a failed provider call.
type ProviderError struct {
	Op         string
	Kind       ErrorKind
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("mercadopago %s: unexpected status=%d body=%s", e.Op, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("mercadopago %s: %s error: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// KindOf returns the provider error kind of err, or 0 if err is not a ProviderError.
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

var (
	// ErrPaymentNotConfirmed is returned when a return redirect cannot be
	// matched to an approved payment of the current user.
	ErrPaymentNotConfirmed = errors.New("payment not confirmed")
	// ErrInvalidExternalReference means an approved payment carries a reference
	// that is not a user id.
	ErrInvalidExternalReference = errors.New("invalid external_reference")
)
