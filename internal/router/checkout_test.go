package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/supplyhub/storefront-api/internal/checkout"
	"github.com/supplyhub/storefront-api/pkg/models"
	"github.com/supplyhub/storefront-api/pkg/payment"
)

type stubCheckoutStore struct{}

func (stubCheckoutStore) Create(ctx context.Context, order *models.Order, regenerate func() string) (*models.Order, error) {
	order.ID = bson.NewObjectID()
	return order, nil
}

func (stubCheckoutStore) SetPaymentIntent(ctx context.Context, id bson.ObjectID, intentID string) error {
	return nil
}

func (stubCheckoutStore) MarkPaymentFailed(ctx context.Context, id bson.ObjectID) error {
	return nil
}

type stubIntentProvider struct{}

func (stubIntentProvider) CreateIntent(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	return &payment.Intent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

func checkoutEngine(provider payment.Provider) *gin.Engine {
	logger = zap.NewNop()
	checkoutService = checkout.NewService(stubCheckoutStore{}, provider, nil, logger)

	r := gin.New()
	r.POST("/checkout", Checkout)
	return r
}

func postCheckout(t *testing.T, r *gin.Engine, req models.CheckoutRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)
	return w
}

func checkoutRequest(method string) models.CheckoutRequest {
	return models.CheckoutRequest{
		Items: []models.OrderItem{
			{ProductID: "p1", Name: "Drum Liners", Price: 19.99, Quantity: 3},
		},
		Total: 59.97,
		ShippingAddress: models.ShippingAddress{
			FirstName: "Pat",
			LastName:  "Chen",
			Email:     "pat@example.com",
			Address:   "1 Industrial Way",
			City:      "Springfield",
			State:     "IL",
			ZipCode:   "62701",
		},
		PaymentMethod: method,
	}
}

func TestCheckoutResponseIncludesIntentForCardPayments(t *testing.T) {
	r := checkoutEngine(stubIntentProvider{})

	w := postCheckout(t, r, checkoutRequest("stripe"))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body, "paymentIntent")
	intent := body["paymentIntent"].(map[string]interface{})
	assert.Equal(t, "pi_test", intent["id"])
	assert.Equal(t, "pi_test_secret", intent["clientSecret"])
	assert.Contains(t, body, "orderNumber")
}

func TestCheckoutResponseOmitsIntentForNonCardPayments(t *testing.T) {
	r := checkoutEngine(stubIntentProvider{})

	w := postCheckout(t, r, checkoutRequest("invoice"))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotContains(t, body, "paymentIntent")
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body, "orderId")
	assert.Contains(t, body, "orderNumber")
}

func TestCheckoutValidationErrorIsFielded(t *testing.T) {
	r := checkoutEngine(stubIntentProvider{})

	req := checkoutRequest("stripe")
	req.ShippingAddress.ZipCode = ""
	w := postCheckout(t, r, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"zipCode"`)
}
