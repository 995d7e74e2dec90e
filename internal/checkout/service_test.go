package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/supplyhub/storefront-api/pkg/models"
	"github.com/supplyhub/storefront-api/pkg/payment"
)

type fakeOrderStore struct {
	created          *models.Order
	createErr        error
	intentID         string
	setIntentErr     error
	markedFailed     bool
	deleteEverCalled bool
}

func (f *fakeOrderStore) Create(ctx context.Context, order *models.Order, regenerate func() string) (*models.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	order.ID = bson.NewObjectID()
	f.created = order
	return order, nil
}

func (f *fakeOrderStore) SetPaymentIntent(ctx context.Context, id bson.ObjectID, intentID string) error {
	if f.setIntentErr != nil {
		return f.setIntentErr
	}
	f.intentID = intentID
	if f.created != nil && f.created.PaymentDetails != nil {
		f.created.PaymentDetails.StripePaymentIntentID = intentID
	}
	return nil
}

func (f *fakeOrderStore) MarkPaymentFailed(ctx context.Context, id bson.ObjectID) error {
	f.markedFailed = true
	if f.created != nil {
		f.created.Status = models.OrderStatusCancelled
		f.created.PaymentDetails.Status = models.PaymentStatusFailed
	}
	return nil
}

type fakeProvider struct {
	intent      *payment.Intent
	err         error
	calls       int
	lastRequest payment.IntentRequest
}

func (f *fakeProvider) CreateIntent(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	f.calls++
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return f.intent, nil
}

type fakePublisher struct {
	created       []*models.Order
	statusChanged []*models.Order
}

func (f *fakePublisher) PublishOrderCreated(order *models.Order) {
	f.created = append(f.created, order)
}

func (f *fakePublisher) PublishOrderStatusChanged(order *models.Order) {
	f.statusChanged = append(f.statusChanged, order)
}

func validRequest() models.CheckoutRequest {
	return models.CheckoutRequest{
		Items: []models.OrderItem{
			{ProductID: "p1", Name: "Garbage Bags", Price: 24.99, Quantity: 2},
		},
		Total: 49.98,
		ShippingAddress: models.ShippingAddress{
			FirstName: "Pat",
			LastName:  "Chen",
			Email:     "pat@example.com",
			Address:   "1 Industrial Way",
			City:      "Springfield",
			State:     "IL",
			ZipCode:   "62701",
		},
	}
}

func newService(store *fakeOrderStore, provider *fakeProvider) *Service {
	return NewService(store, provider, nil, zap.NewNop())
}

func TestCheckoutSuccess(t *testing.T) {
	store := &fakeOrderStore{}
	provider := &fakeProvider{intent: &payment.Intent{ID: "pi_123", ClientSecret: "pi_123_secret"}}
	svc := newService(store, provider)

	result, err := svc.Checkout(context.Background(), "user-1", validRequest())

	require.NoError(t, err)
	require.NotNil(t, result.Intent)
	assert.Equal(t, "pi_123", result.Intent.ID)
	assert.Equal(t, "pi_123_secret", result.Intent.ClientSecret)
	assert.Equal(t, "pi_123", store.intentID)

	require.NotNil(t, store.created)
	assert.Equal(t, models.OrderStatusPending, store.created.Status)
	assert.Equal(t, "user-1", store.created.UserID)
	assert.Equal(t, models.PaymentStatusPending, store.created.PaymentDetails.Status)
	assert.Equal(t, 49.98, store.created.PaymentDetails.Amount)
	assert.True(t, strings.HasPrefix(result.OrderNumber, "ORD-"))

	// Amount is converted to minor units, tagged with the order id.
	assert.Equal(t, int64(4998), provider.lastRequest.AmountMinor)
	assert.Equal(t, result.OrderID, provider.lastRequest.OrderID)
	assert.Equal(t, "usd", provider.lastRequest.Currency)
}

func TestCheckoutMissingZipCodeCreatesNoOrder(t *testing.T) {
	store := &fakeOrderStore{}
	provider := &fakeProvider{}
	svc := newService(store, provider)

	req := validRequest()
	req.ShippingAddress.ZipCode = ""

	_, err := svc.Checkout(context.Background(), "user-1", req)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "zipCode", validationErr.Field)
	assert.Nil(t, store.created)
	assert.Zero(t, provider.calls)
}

func TestCheckoutEmptyItemsRejected(t *testing.T) {
	store := &fakeOrderStore{}
	svc := newService(store, &fakeProvider{})

	req := validRequest()
	req.Items = nil

	_, err := svc.Checkout(context.Background(), "user-1", req)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "items", validationErr.Field)
	assert.Nil(t, store.created)
}

func TestCheckoutNonPositiveTotalRejected(t *testing.T) {
	store := &fakeOrderStore{}
	svc := newService(store, &fakeProvider{})

	req := validRequest()
	req.Total = 0

	_, err := svc.Checkout(context.Background(), "user-1", req)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "total", validationErr.Field)
}

func TestCheckoutPaymentFailureCancelsOrderButKeepsIt(t *testing.T) {
	store := &fakeOrderStore{}
	provider := &fakeProvider{err: errors.New("card network unreachable")}
	svc := newService(store, provider)

	_, err := svc.Checkout(context.Background(), "user-1", validRequest())

	require.ErrorIs(t, err, ErrPaymentFailed)
	require.NotNil(t, store.created, "order record must be retained as audit trail")
	assert.True(t, store.markedFailed)
	assert.Equal(t, models.OrderStatusCancelled, store.created.Status)
	assert.Equal(t, models.PaymentStatusFailed, store.created.PaymentDetails.Status)
	assert.False(t, store.deleteEverCalled)
}

func TestCheckoutPaymentFailureEmitsStatusChange(t *testing.T) {
	store := &fakeOrderStore{}
	provider := &fakeProvider{err: errors.New("card network unreachable")}
	publisher := &fakePublisher{}
	svc := NewService(store, provider, publisher, zap.NewNop())

	_, err := svc.Checkout(context.Background(), "user-1", validRequest())

	require.ErrorIs(t, err, ErrPaymentFailed)
	require.Len(t, publisher.created, 1)
	require.Len(t, publisher.statusChanged, 1, "compensation must notify downstream consumers")
	assert.Equal(t, models.OrderStatusCancelled, publisher.statusChanged[0].Status)
	assert.Equal(t, models.PaymentStatusFailed, publisher.statusChanged[0].PaymentDetails.Status)
}

func TestCheckoutSuccessEmitsOrderCreatedOnly(t *testing.T) {
	store := &fakeOrderStore{}
	provider := &fakeProvider{intent: &payment.Intent{ID: "pi_123", ClientSecret: "s"}}
	publisher := &fakePublisher{}
	svc := NewService(store, provider, publisher, zap.NewNop())

	_, err := svc.Checkout(context.Background(), "user-1", validRequest())

	require.NoError(t, err)
	require.Len(t, publisher.created, 1)
	assert.Equal(t, models.OrderStatusPending, publisher.created[0].Status)
	assert.Empty(t, publisher.statusChanged)
}

func TestCheckoutIntentRecordFailureCompensatesToo(t *testing.T) {
	store := &fakeOrderStore{setIntentErr: errors.New("write timeout")}
	provider := &fakeProvider{intent: &payment.Intent{ID: "pi_9", ClientSecret: "s"}}
	svc := newService(store, provider)

	_, err := svc.Checkout(context.Background(), "user-1", validRequest())

	require.ErrorIs(t, err, ErrPaymentFailed)
	assert.True(t, store.markedFailed)
}

func TestCheckoutStoreFailurePropagates(t *testing.T) {
	store := &fakeOrderStore{createErr: errors.New("connection reset")}
	provider := &fakeProvider{}
	svc := newService(store, provider)

	_, err := svc.Checkout(context.Background(), "user-1", validRequest())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPaymentFailed)
	assert.Zero(t, provider.calls)
}

func TestCheckoutNonCardMethodSkipsPaymentProvider(t *testing.T) {
	store := &fakeOrderStore{}
	provider := &fakeProvider{}
	svc := newService(store, provider)

	req := validRequest()
	req.PaymentMethod = "invoice"

	result, err := svc.Checkout(context.Background(), "user-1", req)

	require.NoError(t, err)
	assert.Nil(t, result.Intent)
	assert.Zero(t, provider.calls)
	assert.Equal(t, models.OrderStatusPending, store.created.Status)
}

func TestCheckoutNoProviderRejectsCardPayment(t *testing.T) {
	store := &fakeOrderStore{}
	svc := NewService(store, nil, nil, zap.NewNop())

	_, err := svc.Checkout(context.Background(), "user-1", validRequest())

	require.ErrorIs(t, err, ErrPaymentFailed)
	assert.Nil(t, store.created)
}

func TestCheckoutDefaultsToStripe(t *testing.T) {
	store := &fakeOrderStore{}
	provider := &fakeProvider{intent: &payment.Intent{ID: "pi_1", ClientSecret: "s"}}
	svc := newService(store, provider)

	req := validRequest()
	req.PaymentMethod = ""

	result, err := svc.Checkout(context.Background(), "user-1", req)

	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
	require.NotNil(t, result.Intent)
}
