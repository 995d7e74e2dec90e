package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/supplyhub/storefront-api/pkg/models"
)

// Producer publishes order lifecycle events. A nil Producer is valid and
// drops everything, so callers never need to branch on whether Kafka is
// configured.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewProducer returns nil when no brokers are configured.
func NewProducer(brokers string, logger *zap.Logger) *Producer {
	if brokers == "" {
		logger.Info("Kafka disabled - no brokers configured")
		return nil
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers),
		Topic:    "order-events",
		Balancer: &kafka.LeastBytes{},
	}

	return &Producer{
		writer: writer,
		logger: logger,
	}
}

func (p *Producer) PublishOrderCreated(order *models.Order) {
	if p == nil {
		return
	}
	p.publish(OrderEvent{
		EventID:     uuid.New().String(),
		Type:        TypeOrderCreated,
		OrderID:     order.ID.Hex(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Status:      order.Status,
		Total:       order.Total,
		Items:       order.Items,
		Timestamp:   time.Now().UTC(),
	})
}

func (p *Producer) PublishOrderStatusChanged(order *models.Order) {
	if p == nil {
		return
	}
	p.publish(OrderEvent{
		EventID:     uuid.New().String(),
		Type:        TypeOrderStatusChanged,
		OrderID:     order.ID.Hex(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Status:      order.Status,
		Total:       order.Total,
		Timestamp:   time.Now().UTC(),
	})
}

func (p *Producer) publish(event OrderEvent) {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal order event", zap.Error(err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderNumber),
		Value: eventBytes,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish order event",
			zap.String("event_id", event.EventID),
			zap.String("type", event.Type),
			zap.Error(err))
	}
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
