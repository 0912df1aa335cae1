// Package tools provides the deterministic business actions the pipeline
// can invoke, plus the dispatcher that maps intents onto them.
package tools

import (
	"fmt"
	"math"
	"time"

	"github.com/upb/support-orchestrator/models"
)

// Order is one record in the toy order store.
type Order struct {
	Status      string
	DeliveredAt string
	ETA         string
	Amount      float64
}

// OrderStore is a deterministic lookup table of orders. It stands in for
// the external order database and has no interesting state.
type OrderStore struct {
	orders map[string]Order
}

// NewOrderStore creates an order store seeded with the sample orders.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: map[string]Order{
			"A123": {Status: "Delivered", DeliveredAt: "2025-10-20", Amount: 79.99},
			"B456": {Status: "In Transit", ETA: "2025-11-02", Amount: 129.49},
		},
	}
}

// CheckOrderStatus looks up an order. Unknown orders report found=false;
// that is data, not an error.
func (s *OrderStore) CheckOrderStatus(orderID string) models.ActionResult {
	order, ok := s.orders[orderID]
	if !ok {
		return models.ActionResult{"found": false}
	}

	result := models.ActionResult{
		"found":    true,
		"order_id": orderID,
		"status":   order.Status,
		"amount":   order.Amount,
	}
	if order.DeliveredAt != "" {
		result["delivered_at"] = order.DeliveredAt
	}
	if order.ETA != "" {
		result["eta"] = order.ETA
	}
	return result
}

// ProcessRefund issues a refund. The reference is unique per call,
// derived from the order id and issuance time. Amount defaults to the
// order's recorded amount when not supplied.
func (s *OrderStore) ProcessRefund(orderID, reason string, amount *float64) models.ActionResult {
	amt := 0.0
	if amount != nil {
		amt = *amount
	} else if order, ok := s.orders[orderID]; ok {
		amt = order.Amount
	}

	now := time.Now().UTC()
	return models.ActionResult{
		"ok":         true,
		"order_id":   orderID,
		"amount":     math.Round(amt*100) / 100,
		"created_at": now.Format(time.RFC3339),
		"reference":  fmt.Sprintf("RF-%s-%d", orderID, now.UnixNano()),
		"reason":     reason,
	}
}

// CreateReturnLabel issues a prepaid return shipping label.
func (s *OrderStore) CreateReturnLabel(orderID, reason string) models.ActionResult {
	return models.ActionResult{
		"ok":        true,
		"order_id":  orderID,
		"carrier":   "UPS",
		"label_url": fmt.Sprintf("https://example.com/labels/%s.pdf", orderID),
		"expires":   time.Now().UTC().AddDate(0, 0, 14).Format("2006-01-02"),
		"reason":    reason,
	}
}
