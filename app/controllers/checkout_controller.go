package controllers

import (
	"errors"

	"github.com/a-h/templ"
	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/premiumgate/premiumgate/app/repository"
	"github.com/premiumgate/premiumgate/internal/pkg/billing"
	"github.com/premiumgate/premiumgate/internal/pkg/config"
	"github.com/premiumgate/premiumgate/internal/pkg/constants"
	"github.com/premiumgate/premiumgate/internal/pkg/flash"
	"github.com/premiumgate/premiumgate/internal/pkg/usercontext"
	"github.com/premiumgate/premiumgate/internal/pkg/viewmodel"
	premium_views "github.com/premiumgate/premiumgate/views/premium"
)

const (
	msgCheckoutFailed     = "Erro ao iniciar pagamento. Tente novamente mais tarde."
	msgCheckoutUnexpected = "Erro inesperado. Por favor, tente novamente."
	msgPaymentApproved    = "Pagamento aprovado com sucesso! Bem-vindo à área premium."
	msgPaymentFailed      = "Houve um problema com seu pagamento. Por favor, tente novamente."
	msgPaymentPending     = "Seu pagamento está sendo processado. Você receberá um e-mail quando for confirmado."
)

// CheckoutOptions configures CheckoutController.
type CheckoutOptions struct {
	Offer         config.OfferConfig
	PublicBaseURL string
	// TrustReturn activates on /pagamento_sucesso without asking the provider.
	TrustReturn bool
}

// CheckoutController starts the hosted checkout and handles the browser
// coming back from it.
type CheckoutController struct {
	billing *billing.Service
	users   repository.UserRepository
	opts    CheckoutOptions
	log     *log.Logger
}

func NewCheckoutController(svc *billing.Service, users repository.UserRepository, opts CheckoutOptions, l *log.Logger) *CheckoutController {
	return &CheckoutController{billing: svc, users: users, opts: opts, log: l.WithPrefix("checkout")}
}

func (cc *CheckoutController) HandleCheckout(c *fiber.Ctx) error {
	user, err := cc.users.GetByID(c.UserContext(), usercontext.GetUserID(c))
	if err != nil {
		cc.log.Error("failed to load checkout user", "user_id", usercontext.GetUserID(c), "err", err)
		return cc.renderCheckoutError(c, msgCheckoutUnexpected)
	}

	url, err := cc.billing.StartCheckout(c.UserContext(), user, baseURL(c, cc.opts.PublicBaseURL))
	if err != nil {
		cc.log.Error("failed to create payment preference", "user_id", user.ID, "kind", billing.KindOf(err), "err", err)
		if billing.KindOf(err) == billing.KindStatus {
			return cc.renderCheckoutError(c, msgCheckoutFailed)
		}
		return cc.renderCheckoutError(c, msgCheckoutUnexpected)
	}

	return c.Redirect(url, fiber.StatusSeeOther)
}

// renderCheckoutError shows the offer page with an error and never the
// premium content.
func (cc *CheckoutController) renderCheckoutError(c *fiber.Ctx, message string) error {
	flash.Set(c, flash.TypeError, message)

	pindex := premium_views.PremiumIndex(false, viewmodel.NewOffer(cc.opts.Offer))
	premium := page(c, "premium", "Área Premium", pindex)

	handler := adaptor.HTTPHandler(templ.Handler(premium))

	return handler(c)
}

func (cc *CheckoutController) HandlePaymentSuccess(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	if cc.opts.TrustReturn {
		if _, err := cc.billing.ActivateSubscription(c.UserContext(), userID, billing.SourceReturn); err != nil {
			cc.log.Error("failed to activate subscription on return", "user_id", userID, "err", err)
			return flash.Error(c, msgCheckoutUnexpected).Redirect(constants.RoutePremium, fiber.StatusSeeOther)
		}
		return flash.Success(c, msgPaymentApproved).Redirect(constants.RoutePremium, fiber.StatusSeeOther)
	}

	paymentID := c.Query("payment_id")
	if paymentID == "" {
		paymentID = c.Query("collection_id")
	}
	if err := cc.billing.ConfirmReturn(c.UserContext(), userID, paymentID); err != nil {
		if !errors.Is(err, billing.ErrPaymentNotConfirmed) {
			cc.log.Error("failed to activate subscription on return", "user_id", userID, "err", err)
		} else {
			cc.log.Info("return not confirmed, waiting for notification", "user_id", userID, "reason", err)
		}
		return flash.Warning(c, msgPaymentPending).Redirect(constants.RoutePremium, fiber.StatusSeeOther)
	}

	return flash.Success(c, msgPaymentApproved).Redirect(constants.RoutePremium, fiber.StatusSeeOther)
}

func (cc *CheckoutController) HandlePaymentFailure(c *fiber.Ctx) error {
	return flash.Error(c, msgPaymentFailed).Redirect(constants.RouteCheckout, fiber.StatusSeeOther)
}

func (cc *CheckoutController) HandlePaymentPending(c *fiber.Ctx) error {
	return flash.Warning(c, msgPaymentPending).Redirect(constants.RoutePremium, fiber.StatusSeeOther)
}
