package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// HandleError is the fiber error handler: every unhandled error becomes the
// html error page with the matching status.
func HandleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	message := msgSomethingWentWrong
	switch code {
	case fiber.StatusNotFound:
		message = "Página não encontrada."
	case fiber.StatusMethodNotAllowed:
		message = "Método não permitido."
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	if rerr := c.Status(code).Render("error", fiber.Map{"Status": code, "Message": message}); rerr != nil {
		return c.Status(code).SendString(message)
	}
	return nil
}
