package orchestrator

import (
	"fmt"
	"strings"

	"github.com/upb/support-orchestrator/models"
	"github.com/upb/support-orchestrator/services/tools"
)

const snippetLimit = 280

// composeResponse builds the natural-language reply from the intent, the
// retrieved grounding passages, and the action outcome.
func composeResponse(classified models.Intent, retrieved []models.ScoredChunk, outcome tools.Outcome) string {
	var b strings.Builder

	switch classified.Category {
	case models.IntentOrderStatus:
		composeOrderStatus(&b, outcome)
	case models.IntentReturnRefund:
		composeReturnRefund(&b, outcome)
	case models.IntentPolicyQuestion:
		b.WriteString("Here's what I found in our policies.")
	default:
		b.WriteString("Thanks for reaching out. Let me share what I know that might help.")
	}

	if len(retrieved) > 0 {
		top := retrieved[0]
		b.WriteString("\n\n")
		b.WriteString(snippet(top.Chunk.Text))
		b.WriteString(fmt.Sprintf("\n(Source: %s)", top.Chunk.Path()))
	}

	return b.String()
}

func composeOrderStatus(b *strings.Builder, outcome tools.Outcome) {
	switch {
	case outcome.SkippedReason != "":
		b.WriteString("I can check on your order, but I couldn't spot an order number in your message. ")
		b.WriteString("Could you share it (it looks like A123)?")
	case outcome.Invoked && outcome.Result.OK():
		orderID, _ := outcome.Result["order_id"].(string)
		status, _ := outcome.Result["status"].(string)
		fmt.Fprintf(b, "Order %s is currently: %s.", orderID, status)
		if eta, ok := outcome.Result["eta"].(string); ok {
			fmt.Fprintf(b, " Estimated arrival: %s.", eta)
		}
		if deliveredAt, ok := outcome.Result["delivered_at"].(string); ok {
			fmt.Fprintf(b, " It was delivered on %s.", deliveredAt)
		}
	case outcome.Invoked:
		b.WriteString("I couldn't find that order in our system. ")
		b.WriteString("I've escalated this so a specialist can take a closer look.")
	default:
		b.WriteString("I can help you check on an order.")
	}
}

func composeReturnRefund(b *strings.Builder, outcome tools.Outcome) {
	switch {
	case outcome.SkippedReason != "":
		b.WriteString("I can start a refund for you, but I couldn't spot an order number in your message. ")
		b.WriteString("Could you share it (it looks like B456)?")
	case outcome.Invoked && outcome.Result.OK():
		orderID, _ := outcome.Result["order_id"].(string)
		reference, _ := outcome.Result["reference"].(string)
		fmt.Fprintf(b, "I've started a refund for order %s. Your reference is %s.", orderID, reference)
		if amount, ok := outcome.Result["amount"].(float64); ok {
			fmt.Fprintf(b, " The refunded amount is $%.2f.", amount)
		}
		if _, ok := outcome.Result["return_label"]; ok {
			b.WriteString(" A prepaid return label has been created for you as well.")
		}
	case outcome.Invoked:
		b.WriteString("I wasn't able to process that refund automatically. ")
		b.WriteString("I've escalated it so a specialist can sort it out.")
	default:
		b.WriteString("I can help you with returns and refunds.")
	}
}

// snippet trims chunk text for inline quoting.
func snippet(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= snippetLimit {
		return text
	}
	return strings.TrimSpace(text[:snippetLimit]) + "..."
}
