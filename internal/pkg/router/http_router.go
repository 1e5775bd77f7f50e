package router

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"

	"github.com/premiumgate/premiumgate/app/controllers"
	"github.com/premiumgate/premiumgate/internal/pkg/middleware"
	"github.com/premiumgate/premiumgate/internal/pkg/statistics"
)

type HttpRouter struct {
	deps Dependencies

	main         *controllers.MainController
	auth         *controllers.AuthController
	premium      *controllers.PremiumController
	checkout     *controllers.CheckoutController
	notification *controllers.NotificationController
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Session and flash cookies are encrypted with a key derived from SECRET_KEY.
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: CookieKey(h.deps.Config.SecretKey),
	}))

	// Apply UserContext middleware globally
	app.Use(middleware.UserContextMiddleware(h.deps.Sessions, h.deps.Repos.User, h.deps.Logger))

	h.registerPublicRoutes(app)
	h.registerProtectedRoutes(app)
}

func NewHttpRouter(deps Dependencies) *HttpRouter {
	l := deps.Logger
	stats := statistics.NewService(deps.Repos.User, deps.Cache, l)
	return &HttpRouter{
		deps:    deps,
		main:    controllers.NewMainController(deps.DB, deps.Cache, stats, l),
		auth:    controllers.NewAuthController(deps.Repos.User, deps.Sessions, stats, l),
		premium: controllers.NewPremiumController(deps.Config.Offer),
		checkout: controllers.NewCheckoutController(deps.Billing, deps.Repos.User, controllers.CheckoutOptions{
			Offer:         deps.Config.Offer,
			PublicBaseURL: deps.Config.PublicBaseURL,
			TrustReturn:   deps.Config.TrustReturnRedirect,
		}, l),
		notification: controllers.NewNotificationController(deps.Billing, l),
	}
}

// CookieKey derives the base64 AES-256 key encryptcookie expects.
func CookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}
