package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/basicauth"

	"github.com/premiumgate/premiumgate/app/controllers"
	"github.com/premiumgate/premiumgate/internal/pkg/constants"
)

// OpsRouter serves the health probe and prometheus metrics.
type OpsRouter struct {
	deps Dependencies
}

func (o OpsRouter) InstallRouter(app *fiber.App) {
	mc := controllers.NewMainController(o.deps.DB, o.deps.Cache, nil, o.deps.Logger)
	app.Get(constants.RouteHealth, mc.HandleHealthz)

	if o.deps.Metrics == nil {
		return
	}
	handlers := []fiber.Handler{}
	if m := o.deps.Config.Metrics; m.Protected() {
		handlers = append(handlers, basicauth.New(basicauth.Config{
			Users: map[string]string{m.User: m.Password},
		}))
	}
	handlers = append(handlers, adaptor.HTTPHandler(o.deps.Metrics.Handler()))
	app.Get(constants.RouteMetrics, handlers...)
}

func NewOpsRouter(deps Dependencies) *OpsRouter {
	return &OpsRouter{deps: deps}
}
