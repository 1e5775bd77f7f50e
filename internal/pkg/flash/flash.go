package flash

import (
	"github.com/gofiber/fiber/v2"
	sflash "github.com/sujit-baniya/flash"
)

// Notice categories rendered by the layout.
const (
	TypeError   = "error"
	TypeSuccess = "success"
	TypeWarning = "warning"
	TypeInfo    = "info"
)

// localsKey holds a notice for the current render only.
const localsKey = "flash"

func notice(kind, message string) fiber.Map {
	return fiber.Map{"type": kind, "message": message}
}

// Error queues an error notice for the next request.
func Error(c *fiber.Ctx, message string) *fiber.Ctx {
	return sflash.WithError(c, notice(TypeError, message))
}

// Success queues a success notice for the next request.
func Success(c *fiber.Ctx, message string) *fiber.Ctx {
	return sflash.WithSuccess(c, notice(TypeSuccess, message))
}

// Warning queues a warning notice for the next request.
func Warning(c *fiber.Ctx, message string) *fiber.Ctx {
	return sflash.WithInfo(c, notice(TypeWarning, message))
}

// Info queues an informational notice for the next request.
func Info(c *fiber.Ctx, message string) *fiber.Ctx {
	return sflash.WithInfo(c, notice(TypeInfo, message))
}

// Set attaches a notice to the page rendered by this request.
func Set(c *fiber.Ctx, kind, message string) {
	c.Locals(localsKey, notice(kind, message))
}

// Get returns the notice for this render and consumes the flash cookie. A
// notice set on this request wins over one carried by the cookie. It returns
// nil when there is none.
func Get(c *fiber.Ctx) fiber.Map {
	queued := sflash.Get(c)
	if m, ok := c.Locals(localsKey).(fiber.Map); ok {
		return m
	}
	if len(queued) == 0 || queued["message"] == nil {
		return nil
	}
	return queued
}
