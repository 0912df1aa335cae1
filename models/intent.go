package models

// IntentCategory is the closed set of intents the classifier can produce.
type IntentCategory string

const (
	IntentOrderStatus    IntentCategory = "order_status"
	IntentReturnRefund   IntentCategory = "return_refund"
	IntentPolicyQuestion IntentCategory = "policy_question"
	IntentOther          IntentCategory = "other"
)

// Categories returns all classifiable categories.
func Categories() []IntentCategory {
	return []IntentCategory{
		IntentOrderStatus,
		IntentReturnRefund,
		IntentPolicyQuestion,
		IntentOther,
	}
}

// Intent is the classified category of one user utterance plus the
// classifier's confidence in [0,1]. Produced per turn; not persisted
// beyond the audit record.
type Intent struct {
	Category   IntentCategory `json:"category"`
	Confidence float64        `json:"confidence"`
}
