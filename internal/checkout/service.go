// Package checkout converts a validated cart submission into a persisted
// order and, for card payments, a payment intent from the external
// collaborator.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/supplyhub/storefront-api/pkg/models"
	"github.com/supplyhub/storefront-api/pkg/payment"
)

// ErrPaymentFailed marks an upstream payment-collaborator failure after
// the order record was already written.
var ErrPaymentFailed = errors.New("payment processing failed")

// ValidationError reports a rejected checkout field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// OrderStore is the slice of the order repository the orchestrator needs.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order, regenerate func() string) (*models.Order, error)
	SetPaymentIntent(ctx context.Context, id bson.ObjectID, intentID string) error
	MarkPaymentFailed(ctx context.Context, id bson.ObjectID) error
}

// EventPublisher receives order lifecycle notifications. The kafka
// producer satisfies it; nil means events are disabled.
type EventPublisher interface {
	PublishOrderCreated(order *models.Order)
	PublishOrderStatusChanged(order *models.Order)
}

type Service struct {
	orders   OrderStore
	payments payment.Provider
	producer EventPublisher
	logger   *zap.Logger
}

func NewService(orders OrderStore, payments payment.Provider, producer EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		orders:   orders,
		payments: payments,
		producer: producer,
		logger:   logger,
	}
}

// Result is the successful checkout response. Intent is nil for
// non-card payment methods.
type Result struct {
	OrderID     string          `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	Intent      *payment.Intent `json:"paymentIntent,omitempty"`
}

// Checkout runs the orchestration: validate, persist a pending order,
// request a payment intent, and record the outcome. A collaborator
// failure cancels the order but keeps the record as an audit trail.
func (s *Service) Checkout(ctx context.Context, userID string, req models.CheckoutRequest) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "stripe"
	}

	if paymentMethod == "stripe" && s.payments == nil {
		s.logger.Error("Card checkout rejected: no payment provider configured")
		return nil, ErrPaymentFailed
	}

	order := &models.Order{
		OrderNumber:     models.GenerateCheckoutOrderNumber(),
		UserID:          userID,
		Items:           req.Items,
		Total:           req.Total,
		Status:          models.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
		PaymentDetails: &models.PaymentDetails{
			Status:   models.PaymentStatusPending,
			Amount:   req.Total,
			Currency: "usd",
		},
	}

	created, err := s.orders.Create(ctx, order, models.GenerateCheckoutOrderNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if s.producer != nil {
		s.producer.PublishOrderCreated(created)
	}

	result := &Result{
		OrderID:     created.ID.Hex(),
		OrderNumber: created.OrderNumber,
	}

	if paymentMethod != "stripe" {
		// Non-card methods settle out of band; the order stays pending.
		return result, nil
	}

	intent, err := s.payments.CreateIntent(ctx, payment.IntentRequest{
		AmountMinor: int64(math.Round(req.Total * 100)),
		Currency:    "usd",
		OrderID:     created.ID.Hex(),
		OrderNumber: created.OrderNumber,
		UserID:      userID,
	})
	if err == nil {
		err = s.orders.SetPaymentIntent(ctx, created.ID, intent.ID)
	}
	if err != nil {
		// Compensating update: cancel the order and mark the payment
		// failed. The record is retained as an audit trail.
		s.logger.Error("Payment intent creation failed",
			zap.String("order_id", created.ID.Hex()),
			zap.String("order_number", created.OrderNumber),
			zap.Error(err))
		if markErr := s.orders.MarkPaymentFailed(ctx, created.ID); markErr != nil {
			s.logger.Error("Failed to mark order payment as failed",
				zap.String("order_id", created.ID.Hex()),
				zap.Error(markErr))
		} else {
			created.Status = models.OrderStatusCancelled
			if created.PaymentDetails != nil {
				created.PaymentDetails.Status = models.PaymentStatusFailed
			}
			if s.producer != nil {
				s.producer.PublishOrderStatusChanged(created)
			}
		}
		return nil, ErrPaymentFailed
	}

	result.Intent = intent
	return result, nil
}

func validate(req models.CheckoutRequest) error {
	if len(req.Items) == 0 {
		return &ValidationError{Field: "items", Message: "Cart items are required"}
	}
	if req.Total <= 0 {
		return &ValidationError{Field: "total", Message: "Invalid total amount"}
	}

	addr := req.ShippingAddress
	fields := []struct {
		name  string
		value string
	}{
		{"firstName", addr.FirstName},
		{"lastName", addr.LastName},
		{"email", addr.Email},
		{"address", addr.Address},
		{"city", addr.City},
		{"state", addr.State},
		{"zipCode", addr.ZipCode},
	}
	for _, field := range fields {
		if field.value == "" {
			return &ValidationError{
				Field:   field.name,
				Message: fmt.Sprintf("Shipping address %s is required", field.name),
			}
		}
	}
	return nil
}
