package controllers

import (
	"context"
	"time"

	"github.com/a-h/templ"
	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/premiumgate/premiumgate/internal/pkg/cache"
	"github.com/premiumgate/premiumgate/internal/pkg/database"
	"github.com/premiumgate/premiumgate/internal/pkg/statistics"
	"github.com/premiumgate/premiumgate/internal/pkg/viewmodel"
	"github.com/premiumgate/premiumgate/views"
)

// MainController serves the home page and the health probe.
type MainController struct {
	db    *gorm.DB
	cache *redis.Client
	stats *statistics.Service
	log   *log.Logger
}

// NewMainController wires the probe targets. cacheClient and stats may be nil.
func NewMainController(db *gorm.DB, cacheClient *redis.Client, stats *statistics.Service, l *log.Logger) *MainController {
	return &MainController{db: db, cache: cacheClient, stats: stats, log: l}
}

func (mc *MainController) HandleHome(c *fiber.Ctx) error {
	var stats *viewmodel.Stats
	if mc.stats != nil {
		if st, err := mc.stats.Get(c.UserContext()); err != nil {
			mc.log.Warn("failed to load statistics", "err", err)
		} else {
			stats = &viewmodel.Stats{TotalUsers: st.TotalUsers, Subscribers: st.Subscribers}
		}
	}

	vm := viewmodel.NewLayout(c, "home", "")
	hindex := views.HomeIndex(vm, stats)
	home := page(c, "home", "", hindex)

	handler := adaptor.HTTPHandler(templ.Handler(home))

	return handler(c)
}

func (mc *MainController) HandleHealthz(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	checks := fiber.Map{"database": "ok"}
	status := fiber.StatusOK
	if err := database.Ping(ctx, mc.db); err != nil {
		mc.log.Warn("health check: database unreachable", "err", err)
		checks["database"] = "unavailable"
		status = fiber.StatusServiceUnavailable
	}
	// Sessions fall back to memory, so an unreachable cache only degrades.
	if mc.cache != nil {
		checks["cache"] = "ok"
		if err := cache.Ping(ctx, mc.cache); err != nil {
			checks["cache"] = "unavailable"
		}
	}

	result := "ok"
	if status != fiber.StatusOK {
		result = "unavailable"
	}
	return c.Status(status).JSON(fiber.Map{"status": result, "checks": checks})
}
