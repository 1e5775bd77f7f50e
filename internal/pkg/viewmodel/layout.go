package viewmodel

import (
	"github.com/gofiber/fiber/v2"

	"github.com/premiumgate/premiumgate/internal/pkg/usercontext"
)

// Layout is the data the page frame needs on every request.
type Layout struct {
	Page       string
	Title      string
	LoggedIn   bool
	Email      string
	Subscribed bool
}

// NewLayout fills the shared fields from the request.
func NewLayout(c *fiber.Ctx, page, title string) Layout {
	uc := usercontext.GetUserContext(c)
	return Layout{
		Page:       page,
		Title:      title,
		LoggedIn:   uc.IsLoggedIn,
		Email:      uc.Email,
		Subscribed: uc.Subscribed,
	}
}
