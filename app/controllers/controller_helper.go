package controllers

import (
	"strings"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"

	"github.com/premiumgate/premiumgate/internal/pkg/flash"
	"github.com/premiumgate/premiumgate/internal/pkg/viewmodel"
	"github.com/premiumgate/premiumgate/views"
)

// page wraps content in the site frame together with the pending notice.
// Pages carry per-user state, so they are never cached.
func page(c *fiber.Ctx, name, title string, content templ.Component) templ.Component {
	c.Set(fiber.HeaderCacheControl, "no-store")
	return views.Page(viewmodel.NewLayout(c, name, title), flash.Get(c), content)
}

// baseURL is where the provider sends the browser and notifications back to.
func baseURL(c *fiber.Ctx, configured string) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}
	return c.BaseURL()
}
