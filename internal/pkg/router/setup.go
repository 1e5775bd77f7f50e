package router

import (
	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/premiumgate/premiumgate/app/repository"
	"github.com/premiumgate/premiumgate/internal/pkg/billing"
	"github.com/premiumgate/premiumgate/internal/pkg/config"
	"github.com/premiumgate/premiumgate/internal/pkg/metrics"
)

// Router installs a group of routes on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// Dependencies are the process-wide handles the routes are built from.
type Dependencies struct {
	Config   config.Config
	DB       *gorm.DB
	Cache    *redis.Client
	Repos    *repository.Repositories
	Sessions *session.Store
	Billing  *billing.Service
	Metrics  *metrics.Metrics
	Logger   *log.Logger
}

func InstallRouter(app *fiber.App, deps Dependencies) {
	// Operational routes go first so probes and scrapes skip the session
	// middleware installed by HttpRouter.
	setup(app, NewOpsRouter(deps), NewHttpRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
