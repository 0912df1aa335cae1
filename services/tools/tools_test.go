package tools

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckOrderStatus_Found(t *testing.T) {
	store := NewOrderStore()

	result := store.CheckOrderStatus("A123")
	assert.Equal(t, true, result["found"])
	assert.Equal(t, "A123", result["order_id"])
	assert.Equal(t, "Delivered", result["status"])
	assert.Equal(t, "2025-10-20", result["delivered_at"])
	assert.Equal(t, 79.99, result["amount"])
	assert.True(t, result.OK())
}

func TestCheckOrderStatus_InTransitHasETA(t *testing.T) {
	store := NewOrderStore()

	result := store.CheckOrderStatus("B456")
	assert.Equal(t, "In Transit", result["status"])
	assert.Equal(t, "2025-11-02", result["eta"])
	_, hasDelivered := result["delivered_at"]
	assert.False(t, hasDelivered)
}

func TestCheckOrderStatus_NotFound(t *testing.T) {
	store := NewOrderStore()

	result := store.CheckOrderStatus("Z999")
	assert.Equal(t, false, result["found"])
	assert.False(t, result.OK())
}

func TestProcessRefund_DefaultsToOrderAmount(t *testing.T) {
	store := NewOrderStore()

	result := store.ProcessRefund("B456", "damaged", nil)
	require.True(t, result.OK())
	assert.Equal(t, 129.49, result["amount"])
	assert.Equal(t, "damaged", result["reason"])
	assert.Regexp(t, regexp.MustCompile(`^RF-B456-\d+$`), result["reference"])
}

func TestProcessRefund_ExplicitAmount(t *testing.T) {
	store := NewOrderStore()

	amount := 10.0
	result := store.ProcessRefund("A123", "partial", &amount)
	assert.Equal(t, 10.0, result["amount"])
}

func TestProcessRefund_ReferenceUniquePerCall(t *testing.T) {
	store := NewOrderStore()

	first := store.ProcessRefund("A123", "damaged", nil)
	second := store.ProcessRefund("A123", "damaged", nil)
	assert.NotEqual(t, first["reference"], second["reference"])
}

func TestCreateReturnLabel(t *testing.T) {
	store := NewOrderStore()

	result := store.CreateReturnLabel("B456", "damaged")
	require.True(t, result.OK())
	assert.Equal(t, "UPS", result["carrier"])
	assert.Equal(t, "https://example.com/labels/B456.pdf", result["label_url"])
	assert.NotEmpty(t, result["expires"])
}
