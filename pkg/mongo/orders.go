package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/supplyhub/storefront-api/pkg/models"
)

var (
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidStatus = errors.New("invalid order status")
)

// orderNumberAttempts bounds the retry loop on the unique orderNumber
// index. Collisions need the same day and the same random suffix, so one
// retry almost always suffices.
const orderNumberAttempts = 3

// OrderStore provides CRUD access to order documents. It satisfies the
// checkout orchestrator's store interface.
type OrderStore struct{}

func NewOrderStore() *OrderStore {
	return &OrderStore{}
}

func (s *OrderStore) collection() *mongo.Collection {
	return GetCollection("orders")
}

// Create persists the order, regenerating the order number on a
// duplicate-key collision.
func (s *OrderStore) Create(ctx context.Context, order *models.Order, regenerate func() string) (*models.Order, error) {
	order.SetTimestamps()
	if order.ID.IsZero() {
		order.ID = bson.NewObjectID()
	}

	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		_, err := s.collection().InsertOne(ctx, order)
		if err == nil {
			return order, nil
		}
		if !mongo.IsDuplicateKeyError(err) || regenerate == nil {
			return nil, err
		}
		order.OrderNumber = regenerate()
	}

	return nil, fmt.Errorf("exhausted order number attempts")
}

// ListByUser returns the caller's orders, newest first.
func (s *OrderStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection().Find(ctx, bson.D{{Key: "userId", Value: userID}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAll returns every order, newest first. Admin only; role is enforced
// at the route boundary.
func (s *OrderStore) ListAll(ctx context.Context) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetByID fetches one order with an ownership check: a non-admin caller
// may only fetch their own order.
func (s *OrderStore) GetByID(ctx context.Context, id bson.ObjectID, userID string, isAdmin bool) (*models.Order, error) {
	var order models.Order
	err := s.collection().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !isAdmin && order.UserID != userID {
		return nil, ErrForbidden
	}
	return &order, nil
}

// UpdateStatus sets the order status. Admin only; the status must be one
// of the five defined values.
func (s *OrderStore) UpdateStatus(ctx context.Context, id bson.ObjectID, status string) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := s.collection().FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: status},
			{Key: "updatedAt", Value: time.Now()},
		}}},
		opts,
	).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// SetPaymentIntent records the payment collaborator's intent handle on a
// pending order.
func (s *OrderStore) SetPaymentIntent(ctx context.Context, id bson.ObjectID, intentID string) error {
	_, err := s.collection().UpdateOne(
		ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "paymentDetails.stripePaymentIntentId", Value: intentID},
			{Key: "updatedAt", Value: time.Now()},
		}}},
	)
	return err
}

// MarkPaymentFailed is the compensating update after a payment
// collaborator failure: the order is cancelled and retained, not deleted.
func (s *OrderStore) MarkPaymentFailed(ctx context.Context, id bson.ObjectID) error {
	_, err := s.collection().UpdateOne(
		ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: models.OrderStatusCancelled},
			{Key: "paymentDetails.status", Value: models.PaymentStatusFailed},
			{Key: "updatedAt", Value: time.Now()},
		}}},
	)
	return err
}
