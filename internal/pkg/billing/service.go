package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/premiumgate/premiumgate/app/models"
	"github.com/premiumgate/premiumgate/app/repository"
	"github.com/premiumgate/premiumgate/internal/pkg/config"
	"github.com/premiumgate/premiumgate/internal/pkg/metrics"
)

// Activation sources, used for metrics and logs.
const (
	SourceWebhook = "webhook"
	SourceReturn  = "return"
)

// Outcome describes how a webhook call was handled.
type Outcome string

const (
	OutcomeIgnored       Outcome = "ignored"
	OutcomeLookupFailed  Outcome = "lookup_failed"
	OutcomeNotApproved   Outcome = "not_approved"
	OutcomeUserMissing   Outcome = "user_missing"
	OutcomeActivated     Outcome = "activated"
	OutcomeAlreadyActive Outcome = "already_active"
	OutcomeError         Outcome = "error"
)

// NotificationResult is the handled outcome of a webhook call.
type NotificationResult struct {
	Outcome       Outcome
	PaymentStatus string
	UserID        *uint
}

// ServiceOptions carries the non-repository dependencies of Service.
type ServiceOptions struct {
	Offer   config.OfferConfig
	Sandbox bool
	Metrics *metrics.Metrics
	Logger  *log.Logger
}

// Service runs the checkout and subscription activation flows.
type Service struct {
	provider      Provider
	users         repository.UserRepository
	notifications repository.NotificationRepository
	offer         config.OfferConfig
	sandbox       bool
	metrics       *metrics.Metrics
	log           *log.Logger
	now           func() time.Time
}

// NewService creates a billing service from injected dependencies.
func NewService(provider Provider, repos *repository.Repositories, opts ServiceOptions) *Service {
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	l := opts.Logger
	if l == nil {
		l = log.Default()
	}
	return &Service{
		provider:      provider,
		users:         repos.User,
		notifications: repos.Notification,
		offer:         opts.Offer,
		sandbox:       opts.Sandbox,
		metrics:       m,
		log:           l.WithPrefix("billing"),
		now:           time.Now,
	}
}

// BuildPreference describes the premium offer for user. baseURL is the public
// scheme+host the provider should send the browser and notifications back to.
func (s *Service) BuildPreference(user *models.User, baseURL string) Preference {
	base := strings.TrimRight(baseURL, "/")
	return Preference{
		Items: []Item{{
			Title:       s.offer.Title,
			Description: s.offer.Description,
			Quantity:    1,
			CurrencyID:  s.offer.CurrencyID,
			UnitPrice:   s.offer.UnitPrice,
		}},
		Payer: Payer{Email: user.Email},
		PaymentMethods: PaymentMethods{
			ExcludedPaymentTypes: []PaymentType{{ID: "ticket"}},
			Installments:         1,
		},
		BackURLs: BackURLs{
			Success: base + "/pagamento_sucesso",
			Failure: base + "/pagamento_erro",
			Pending: base + "/pagamento_pendente",
		},
		AutoReturn:          StatusApproved,
		NotificationURL:     base + "/notificacao",
		ExternalReference:   strconv.FormatUint(uint64(user.ID), 10),
		StatementDescriptor: s.offer.StatementDescriptor,
	}
}

// StartCheckout creates a preference and returns the hosted checkout URL.
func (s *Service) StartCheckout(ctx context.Context, user *models.User, baseURL string) (string, error) {
	res, err := s.provider.CreatePreference(ctx, s.BuildPreference(user, baseURL))
	if err != nil {
		s.metrics.CheckoutsTotal.WithLabelValues("failed_" + KindOf(err).String()).Inc()
		return "", err
	}

	s.metrics.CheckoutsTotal.WithLabelValues("redirected").Inc()
	s.log.Debug("checkout preference created", "user_id", user.ID, "preference_id", res.ID)
	return res.CheckoutURL(s.sandbox), nil
}

// ActivateSubscription marks the user subscribed. It reports whether this
// call performed the transition.
func (s *Service) ActivateSubscription(ctx context.Context, userID uint, source string) (bool, error) {
	changed, err := s.users.ActivateSubscription(ctx, userID)
	if err != nil {
		return false, err
	}
	if changed {
		s.metrics.ActivationsTotal.WithLabelValues(source).Inc()
		s.log.Info("subscription activated", "user_id", userID, "source", source)
	}
	return changed, nil
}

// ConfirmReturn verifies that paymentID is an approved payment made by userID
// before activating. It returns ErrPaymentNotConfirmed when that cannot be shown.
func (s *Service) ConfirmReturn(ctx context.Context, userID uint, paymentID string) error {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return fmt.Errorf("%w: no payment_id on return", ErrPaymentNotConfirmed)
	}

	payment, err := s.provider.GetPayment(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPaymentNotConfirmed, err)
	}
	if !payment.Approved() {
		return fmt.Errorf("%w: status %q", ErrPaymentNotConfirmed, payment.Status)
	}
	ref, err := parseExternalReference(payment.ExternalReference)
	if err != nil || ref <= 0 || uint(ref) != userID {
		return fmt.Errorf("%w: payment %s belongs to reference %q", ErrPaymentNotConfirmed, paymentID, payment.ExternalReference)
	}

	_, err = s.ActivateSubscription(ctx, userID, SourceReturn)
	return err
}

// ProcessNotification handles one webhook call. A nil error means the call was
// handled and the provider should get a 200; an error means it should be retried.
func (s *Service) ProcessNotification(ctx context.Context, n Notification) (NotificationResult, error) {
	stored := s.record(ctx, n)

	res, err := s.processNotification(ctx, n)
	if err != nil {
		res.Outcome = OutcomeError
	}
	s.metrics.NotificationsTotal.WithLabelValues(string(res.Outcome)).Inc()
	s.markProcessed(ctx, stored, res, err)
	return res, err
}

func (s *Service) processNotification(ctx context.Context, n Notification) (NotificationResult, error) {
	if !n.IsPayment() || strings.TrimSpace(n.PaymentID) == "" {
		return NotificationResult{Outcome: OutcomeIgnored}, nil
	}

	payment, err := s.provider.GetPayment(ctx, n.PaymentID)
	if err != nil {
		// The provider answered but not with the payment: handled, like any
		// non-approved lookup. Only failures to get an answer are retried.
		if KindOf(err) == KindStatus {
			s.log.Warn("payment lookup rejected", "payment_id", n.PaymentID, "err", err)
			return NotificationResult{Outcome: OutcomeLookupFailed}, nil
		}
		return NotificationResult{}, fmt.Errorf("lookup payment %s: %w", n.PaymentID, err)
	}

	res := NotificationResult{PaymentStatus: payment.Status}
	if !payment.Approved() {
		res.Outcome = OutcomeNotApproved
		return res, nil
	}

	ref, err := parseExternalReference(payment.ExternalReference)
	if err != nil {
		return res, fmt.Errorf("payment %s: %w", n.PaymentID, err)
	}
	// No user row can have an id below 1.
	if ref <= 0 {
		s.log.Warn("approved payment references no user", "payment_id", n.PaymentID, "external_reference", payment.ExternalReference)
		res.Outcome = OutcomeUserMissing
		return res, nil
	}
	userID := uint(ref)
	res.UserID = &userID

	changed, err := s.ActivateSubscription(ctx, userID, SourceWebhook)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			res.Outcome = OutcomeUserMissing
			return res, nil
		}
		return res, err
	}
	if changed {
		res.Outcome = OutcomeActivated
	} else {
		res.Outcome = OutcomeAlreadyActive
	}
	return res, nil
}

func (s *Service) record(ctx context.Context, n Notification) *models.PaymentNotification {
	row := &models.PaymentNotification{
		Provider:    models.PaymentProviderMercadoPago,
		Topic:       strings.TrimSpace(n.Topic),
		PaymentID:   strings.TrimSpace(n.PaymentID),
		PayloadJSON: n.Payload,
	}
	if err := s.notifications.Create(ctx, row); err != nil {
		s.log.Error("failed to record payment notification", "payment_id", n.PaymentID, "err", err)
		return nil
	}
	return row
}

func (s *Service) markProcessed(ctx context.Context, row *models.PaymentNotification, res NotificationResult, processingErr error) {
	if row == nil {
		return
	}
	update := repository.NotificationUpdate{
		PaymentStatus: res.PaymentStatus,
		Outcome:       string(res.Outcome),
		UserID:        res.UserID,
		ProcessedAt:   s.now(),
	}
	if processingErr != nil {
		update.ProcessingError = processingErr.Error()
	}
	if err := s.notifications.MarkProcessed(ctx, row.ID, update); err != nil {
		s.log.Error("failed to mark payment notification processed", "notification_id", row.ID, "err", err)
	}
}

// parseExternalReference reads the user id the preference was created with.
// Signed values parse; callers decide what a non-positive id means.
func parseExternalReference(ref string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(ref), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidExternalReference, ref)
	}
	return id, nil
}
