package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/support-orchestrator/models"
	"go.uber.org/zap"
)

func newTestDispatcher() *Dispatcher {
	return NewDispatcher(NewOrderStore(), zap.NewNop())
}

func TestExtractOrderID(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Where is my order A123?", "A123"},
		{"refund for order B456 please", "B456"},
		{"orders A123 and B456", "A123"},
		{"no order here", ""},
		{"lowercase a123 is not an order id", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractOrderID(tt.message), "message %q", tt.message)
	}
}

func TestDispatcher_SupportedCategories(t *testing.T) {
	d := newTestDispatcher()

	assert.True(t, d.Supports(models.IntentOrderStatus))
	assert.True(t, d.Supports(models.IntentReturnRefund))
	assert.False(t, d.Supports(models.IntentPolicyQuestion))
	assert.False(t, d.Supports(models.IntentOther))

	assert.ElementsMatch(t,
		[]models.IntentCategory{models.IntentOrderStatus, models.IntentReturnRefund},
		d.SupportedCategories())
}

func TestDispatch_OrderStatus(t *testing.T) {
	d := newTestDispatcher()

	outcome := d.Dispatch(context.Background(), models.IntentOrderStatus, "Where is my order A123?")
	require.True(t, outcome.Invoked)
	assert.Equal(t, "Delivered", outcome.Result["status"])
}

func TestDispatch_ReturnRefundIssuesLabel(t *testing.T) {
	d := newTestDispatcher()

	outcome := d.Dispatch(context.Background(), models.IntentReturnRefund, "refund order B456, damaged")
	require.True(t, outcome.Invoked)
	require.True(t, outcome.Result.OK())
	assert.Regexp(t, `^RF-B456-\d+$`, outcome.Result["reference"])

	label, ok := outcome.Result["return_label"].(map[string]interface{})
	require.True(t, ok, "refund should carry a return label")
	assert.Equal(t, "UPS", label["carrier"])
}

func TestDispatch_SkipsWithoutOrderID(t *testing.T) {
	d := newTestDispatcher()

	outcome := d.Dispatch(context.Background(), models.IntentOrderStatus, "where is my order?")
	assert.False(t, outcome.Invoked)
	assert.NotEmpty(t, outcome.SkippedReason)
	assert.Nil(t, outcome.Result)
}

func TestDispatch_NoActionForUnmappedCategory(t *testing.T) {
	d := newTestDispatcher()

	outcome := d.Dispatch(context.Background(), models.IntentPolicyQuestion, "what is the policy for order A123?")
	assert.False(t, outcome.Invoked)
	assert.Empty(t, outcome.SkippedReason)
	assert.Nil(t, outcome.Result)
}
