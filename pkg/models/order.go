package models

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Order status values. Status only ever moves by admin action or a
// payment callback; orders are never hard-deleted.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment status values for the embedded payment details.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// OrderItem is a snapshot of product data at order time, decoupled from
// the live catalog so historical orders stay stable.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"productId" validate:"required"`
	Name      string  `json:"name" bson:"name" validate:"required"`
	Price     float64 `json:"price" bson:"price" validate:"gte=0"`
	Quantity  int     `json:"quantity" bson:"quantity" validate:"gte=1"`
}

type ShippingAddress struct {
	FirstName string `json:"firstName" bson:"firstName" validate:"required"`
	LastName  string `json:"lastName" bson:"lastName" validate:"required"`
	Email     string `json:"email" bson:"email" validate:"required"`
	Address   string `json:"address" bson:"address" validate:"required"`
	City      string `json:"city" bson:"city" validate:"required"`
	State     string `json:"state" bson:"state" validate:"required"`
	ZipCode   string `json:"zipCode" bson:"zipCode" validate:"required"`
}

type PaymentDetails struct {
	StripePaymentIntentID string  `json:"stripePaymentIntentId,omitempty" bson:"stripePaymentIntentId,omitempty"`
	Status                string  `json:"status" bson:"status" validate:"oneof=pending paid failed refunded"`
	Amount                float64 `json:"amount" bson:"amount" validate:"gte=0"`
	Currency              string  `json:"currency" bson:"currency"`
}

type Order struct {
	ID              bson.ObjectID   `json:"id" bson:"_id,omitempty"`
	OrderNumber     string          `json:"orderNumber" bson:"orderNumber" validate:"required"`
	UserID          string          `json:"userId" bson:"userId" validate:"required"`
	Items           []OrderItem     `json:"items" bson:"items" validate:"required,min=1,dive"`
	Total           float64         `json:"total" bson:"total" validate:"gt=0"`
	Status          string          `json:"status" bson:"status" validate:"oneof=pending processing shipped delivered cancelled"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shippingAddress"`
	PaymentDetails  *PaymentDetails `json:"paymentDetails,omitempty" bson:"paymentDetails,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
}

func (o *Order) SetTimestamps() {
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
}

// ItemsTotal returns the dot product of item quantities and prices.
func (o *Order) ItemsTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func (o *Order) GetItemCount() int {
	var count int
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// GenerateOrderNumber produces the customer-facing identifier used by the
// order endpoint. Format: ORD-YYYYMMDD-NNN. Collisions are rare but
// possible; the order store retries on the unique index.
func GenerateOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%03d", time.Now().Format("20060102"), rand.Intn(1000))
}

// GenerateCheckoutOrderNumber produces the identifier used by the checkout
// flow. Format: ORD-<unix millis>-<9 char base36 suffix>.
func GenerateCheckoutOrderNumber() string {
	suffix := strconv.FormatUint(rand.Uint64(), 36)
	if len(suffix) > 9 {
		suffix = suffix[:9]
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}

type CreateOrderRequest struct {
	Items           []OrderItem     `json:"items"`
	Total           float64         `json:"total"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
}

type CheckoutRequest struct {
	Items           []OrderItem     `json:"items"`
	Total           float64         `json:"total"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
}

type UpdateOrderStatusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}
