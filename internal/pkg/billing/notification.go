package billing

import (
	"bytes"
	"encoding/json"
	"strings"
)

// TopicPayment is the only notification topic that can activate a subscription.
const TopicPayment = "payment"

// Notification is a provider webhook call reduced to what processing needs.
type Notification struct {
	Topic     string
	PaymentID string
	Payload   string
}

// IsPayment reports whether the notification concerns a payment. Calls that
// carry no topic at all are treated as payment notifications.
func (n Notification) IsPayment() bool {
	t := strings.ToLower(strings.TrimSpace(n.Topic))
	return t == "" || t == TopicPayment
}

// ParseNotificationBody extracts the topic and payment id from a JSON webhook
// body of the form {"type":"payment","data":{"id":"123"}}. data.id may be a
// string or a number. Non-JSON bodies yield empty values.
func ParseNotificationBody(body []byte) (topic string, paymentID string) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", ""
	}

	var raw struct {
		Type  string `json:"type"`
		Topic string `json:"topic"`
		Data  struct {
			ID json.RawMessage `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return "", ""
	}

	topic = strings.TrimSpace(raw.Type)
	if topic == "" {
		topic = strings.TrimSpace(raw.Topic)
	}
	return topic, rawID(raw.Data.ID)
}

func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
