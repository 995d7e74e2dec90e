package models

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{8}-\d{3}$`)

	for i := 0; i < 20; i++ {
		number := GenerateOrderNumber()
		assert.Regexp(t, pattern, number)
		assert.Contains(t, number, time.Now().Format("20060102"))
	}
}

func TestGenerateCheckoutOrderNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{13}-[0-9a-z]{1,9}$`)

	for i := 0; i < 20; i++ {
		assert.Regexp(t, pattern, GenerateCheckoutOrderNumber())
	}
}

func TestItemsTotal(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{ProductID: "p1", Name: "Pallet Jack", Price: 249.99, Quantity: 2},
			{ProductID: "p2", Name: "Safety Gloves", Price: 12.50, Quantity: 10},
		},
	}

	assert.InDelta(t, 624.98, order.ItemsTotal(), 0.001)
	assert.Equal(t, 12, order.GetItemCount())
}

func TestItemsTotalEmpty(t *testing.T) {
	order := &Order{}
	assert.Zero(t, order.ItemsTotal())
	assert.Zero(t, order.GetItemCount())
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		assert.True(t, IsValidOrderStatus(status), status)
	}
	for _, status := range []string{"", "refunded", "Pending", "shipped "} {
		assert.False(t, IsValidOrderStatus(status), status)
	}
}

func TestSetTimestamps(t *testing.T) {
	order := &Order{}
	order.SetTimestamps()
	require.False(t, order.CreatedAt.IsZero())
	require.False(t, order.UpdatedAt.IsZero())

	created := order.CreatedAt
	time.Sleep(time.Millisecond)
	order.SetTimestamps()
	assert.Equal(t, created, order.CreatedAt)
	assert.True(t, order.UpdatedAt.After(created))
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{RoleUser, RoleSupplier, RoleAdmin} {
		assert.True(t, IsValidRole(role), role)
	}
	assert.False(t, IsValidRole("superadmin"))
	assert.False(t, IsValidRole(""))
}
