package controllers

import (
	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/premiumgate/premiumgate/internal/pkg/config"
	"github.com/premiumgate/premiumgate/internal/pkg/constants"
	"github.com/premiumgate/premiumgate/internal/pkg/flash"
	"github.com/premiumgate/premiumgate/internal/pkg/usercontext"
	"github.com/premiumgate/premiumgate/internal/pkg/viewmodel"
	premium_views "github.com/premiumgate/premiumgate/views/premium"
)

const msgSubscriptionRequired = "Você precisa assinar o serviço premium para acessar esta área."

// PremiumController gates the premium area on the subscription flag.
type PremiumController struct {
	offer config.OfferConfig
}

func NewPremiumController(offer config.OfferConfig) *PremiumController {
	return &PremiumController{offer: offer}
}

func (pc *PremiumController) HandlePremium(c *fiber.Ctx) error {
	if !usercontext.IsSubscribed(c) {
		return flash.Warning(c, msgSubscriptionRequired).Redirect(constants.RouteCheckout, fiber.StatusSeeOther)
	}

	pindex := premium_views.PremiumIndex(true, viewmodel.NewOffer(pc.offer))
	premium := page(c, "premium", "Área Premium", pindex)

	handler := adaptor.HTTPHandler(templ.Handler(premium))

	return handler(c)
}
