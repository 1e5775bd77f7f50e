package controllers

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/premiumgate/premiumgate/internal/pkg/billing"
)

// NotificationController receives payment provider webhooks.
type NotificationController struct {
	billing *billing.Service
	log     *log.Logger
}

func NewNotificationController(svc *billing.Service, l *log.Logger) *NotificationController {
	return &NotificationController{billing: svc, log: l.WithPrefix("notificacao")}
}

// HandleNotification answers 200 for every handled call and 500 when the
// payment could not be processed, so the provider retries it.
func (nc *NotificationController) HandleNotification(c *fiber.Ctx) error {
	n := notificationFromRequest(c)

	res, err := nc.billing.ProcessNotification(c.UserContext(), n)
	if err != nil {
		nc.log.Error("failed to process notification", "payment_id", n.PaymentID, "topic", n.Topic, "err", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	nc.log.Info("notification handled", "payment_id", n.PaymentID, "topic", n.Topic, "outcome", res.Outcome, "status", res.PaymentStatus)
	return c.SendStatus(fiber.StatusOK)
}

// notificationFromRequest finds the payment id in, by priority, the form field
// data.id, the query data.id, the JSON body data.id, and the legacy
// ?id=...&topic=payment query.
func notificationFromRequest(c *fiber.Ctx) billing.Notification {
	body := c.Body()
	jsonTopic, jsonID := billing.ParseNotificationBody(body)

	topic := firstNonEmpty(
		c.Query("type"),
		c.Query("topic"),
		string(c.Request().PostArgs().Peek("type")),
		string(c.Request().PostArgs().Peek("topic")),
		jsonTopic,
	)

	paymentID := firstNonEmpty(
		string(c.Request().PostArgs().Peek("data.id")),
		c.Query("data.id"),
		jsonID,
	)
	if paymentID == "" && strings.EqualFold(c.Query("topic"), billing.TopicPayment) {
		paymentID = strings.TrimSpace(c.Query("id"))
	}

	return billing.Notification{
		Topic:     topic,
		PaymentID: paymentID,
		Payload:   notificationPayload(c, body),
	}
}

// maxPayloadBytes fits the payload into a MySQL TEXT column.
const maxPayloadBytes = 65535

// notificationPayload is what gets stored for the audit trail: the body, or
// the query string when the body is empty.
func notificationPayload(c *fiber.Ctx, body []byte) string {
	if len(body) == 0 {
		body = c.Request().URI().QueryString()
	}
	return truncatePayload(body)
}

// truncatePayload cuts b to maxPayloadBytes without splitting a UTF-8 sequence.
func truncatePayload(b []byte) string {
	if len(b) <= maxPayloadBytes {
		return string(b)
	}
	cut := maxPayloadBytes
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return string(b[:cut])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
