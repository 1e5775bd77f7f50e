package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/premiumgate/premiumgate/internal/pkg/constants"
	"github.com/premiumgate/premiumgate/internal/pkg/middleware"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get(constants.RouteHome, h.main.HandleHome)

	// Auth
	app.Get(constants.RouteRegister, h.auth.HandleRegister)
	app.Post(constants.RouteRegister, h.auth.HandleRegister)
	app.Get(constants.RouteLogin, h.auth.HandleLogin)
	app.Post(constants.RouteLogin, h.auth.HandleLogin)

	// Payment provider webhook (no session, no signature)
	app.Post(constants.RouteNotification, h.notification.HandleNotification)
}

func (h HttpRouter) registerProtectedRoutes(app *fiber.App) {
	app.Get(constants.RouteLogout, middleware.RequireAuth, h.auth.HandleLogout)
	app.Get(constants.RoutePremium, middleware.RequireAuth, h.premium.HandlePremium)

	// Checkout and the provider's back URLs
	app.Get(constants.RouteCheckout, middleware.RequireAuth, h.checkout.HandleCheckout)
	app.Get(constants.RoutePaymentSuccess, middleware.RequireAuth, h.checkout.HandlePaymentSuccess)
	app.Get(constants.RoutePaymentFailure, middleware.RequireAuth, h.checkout.HandlePaymentFailure)
	app.Get(constants.RoutePaymentPending, middleware.RequireAuth, h.checkout.HandlePaymentPending)
}
