package models

import "time"

// PaymentProviderMercadoPago identifies notifications sent by Mercado Pago.
const PaymentProviderMercadoPago = "mercadopago"

// PaymentNotification stores every provider webhook call together with the
// outcome of processing it. Rows are an audit trail, not a dedupe table.
type PaymentNotification struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Provider        string     `gorm:"type:varchar(20);not null;index" json:"provider"`
	Topic           string     `gorm:"type:varchar(50);not null;default:''" json:"topic"`
	PaymentID       string     `gorm:"type:varchar(64);not null;default:'';index" json:"payment_id"`
	PayloadJSON     string     `gorm:"type:text" json:"payload_json"`
	PaymentStatus   string     `gorm:"type:varchar(30);not null;default:''" json:"payment_status"`
	Outcome         string     `gorm:"type:varchar(30);not null;default:''" json:"outcome"`
	UserID          *uint      `gorm:"index" json:"user_id,omitempty"`
	ProcessedAt     *time.Time `gorm:"default:null" json:"processed_at,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"processing_error"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}
