package domain

import (
	"context"

	"gorm.io/gorm"
)

// Channel is the delivery medium for a notification.
type Channel string

const ChannelLog Channel = "log"

// Notification is a record of a customer-facing message triggered by an
// order event. Delivery itself is best-effort; the record is the audit trail.
type Notification struct {
	gorm.Model
	OrderNumber string  `gorm:"size:32;index" json:"order_number"`
	Recipient   string  `gorm:"size:255" json:"recipient"`
	Channel     Channel `gorm:"size:16" json:"channel"`
	Subject     string  `gorm:"size:255" json:"subject"`
	Body        string  `gorm:"type:text" json:"body"`
	Sent        bool    `json:"sent"`
}

type NotificationRepository interface {
	Save(ctx context.Context, n *Notification) error
	ListByOrder(ctx context.Context, orderNumber string) ([]*Notification, error)
}
