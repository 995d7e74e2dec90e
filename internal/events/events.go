package events

import (
	"time"

	"github.com/supplyhub/storefront-api/pkg/models"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the payload published to the order-events topic for
// downstream consumers (reporting, notifications). Publishing is
// observational: a failed publish never fails the originating request.
type OrderEvent struct {
	EventID     string             `json:"event_id"`
	Type        string             `json:"type"`
	OrderID     string             `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	UserID      string             `json:"user_id"`
	Status      string             `json:"status"`
	Total       float64            `json:"total"`
	Items       []models.OrderItem `json:"items,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
}
