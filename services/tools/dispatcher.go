package tools

import (
	"context"
	"regexp"

	"github.com/upb/support-orchestrator/models"
	"go.uber.org/zap"
)

// orderIDPattern is a best-effort matcher for order identifier tokens
// like "A123". Extraction failure skips the action, it never fails a turn.
var orderIDPattern = regexp.MustCompile(`\b[A-Z]{1,3}[0-9]{2,8}\b`)

// ExtractOrderID pulls the first order identifier token out of free
// text, or "" when none is present.
func ExtractOrderID(message string) string {
	return orderIDPattern.FindString(message)
}

// Outcome reports what the dispatcher did for one turn.
type Outcome struct {
	// Invoked is true when a business action actually ran.
	Invoked bool
	// SkippedReason is set when a registered action was skipped
	// (e.g. no order identifier in the message).
	SkippedReason string
	// Result holds the structured action result when Invoked.
	Result models.ActionResult
}

// action runs one business operation for an extracted order id.
type action func(ctx context.Context, orderID, message string) models.ActionResult

// Dispatcher holds the closed mapping from intent category to business
// action. The set of supported actions is statically enumerable.
type Dispatcher struct {
	store   *OrderStore
	actions map[models.IntentCategory]action
	logger  *zap.Logger
}

// NewDispatcher creates a dispatcher over the given order store.
func NewDispatcher(store *OrderStore, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		logger: logger,
	}
	d.actions = map[models.IntentCategory]action{
		models.IntentOrderStatus:  d.orderStatus,
		models.IntentReturnRefund: d.returnRefund,
	}
	return d
}

// Supports reports whether the category maps to a registered action.
func (d *Dispatcher) Supports(category models.IntentCategory) bool {
	_, ok := d.actions[category]
	return ok
}

// SupportedCategories returns the categories with registered actions.
func (d *Dispatcher) SupportedCategories() []models.IntentCategory {
	out := make([]models.IntentCategory, 0, len(d.actions))
	for _, c := range models.Categories() {
		if _, ok := d.actions[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Dispatch runs the action registered for the category, if any. A
// missing order identifier skips the action and reports why.
func (d *Dispatcher) Dispatch(ctx context.Context, category models.IntentCategory, message string) Outcome {
	act, ok := d.actions[category]
	if !ok {
		return Outcome{}
	}

	orderID := ExtractOrderID(message)
	if orderID == "" {
		d.logger.Debug("action skipped, no order identifier in message",
			zap.String("category", string(category)))
		return Outcome{SkippedReason: "no order identifier found in the message"}
	}

	result := act(ctx, orderID, message)
	d.logger.Info("business action invoked",
		zap.String("category", string(category)),
		zap.String("order_id", orderID),
		zap.Bool("ok", result.OK()))

	return Outcome{Invoked: true, Result: result}
}

// orderStatus handles the order_status action.
func (d *Dispatcher) orderStatus(_ context.Context, orderID, _ string) models.ActionResult {
	return d.store.CheckOrderStatus(orderID)
}

// returnRefund handles the return_refund action: refund first, then a
// return label when the refund succeeded.
func (d *Dispatcher) returnRefund(_ context.Context, orderID, _ string) models.ActionResult {
	const reason = "customer request"

	refund := d.store.ProcessRefund(orderID, reason, nil)
	if refund.OK() {
		refund["return_label"] = map[string]interface{}(d.store.CreateReturnLabel(orderID, reason))
	}
	return refund
}
