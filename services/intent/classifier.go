// Package intent classifies user utterances into the closed support
// category set with a confidence score.
package intent

import (
	"strings"

	"github.com/upb/support-orchestrator/models"
)

// Classifier maps a user utterance to an intent. The orchestration
// pipeline treats this as a pluggable stage.
type Classifier interface {
	Classify(message string) models.Intent
}

// rule is one weighted phrase for a category. More matched weight means
// more evidence and a higher confidence.
type rule struct {
	phrase string
	weight float64
}

var categoryRules = map[models.IntentCategory][]rule{
	models.IntentOrderStatus: {
		{"where is my order", 2},
		{"where's my order", 2},
		{"order status", 2},
		{"track", 1.5},
		{"tracking", 1.5},
		{"has my order shipped", 1.5},
		{"delivered", 1},
	},
	models.IntentReturnRefund: {
		{"refund", 2},
		{"money back", 2},
		{"return", 1},
		{"exchange", 1},
		{"damaged", 1},
		{"broken", 1},
		{"arrived late", 1},
	},
	models.IntentPolicyQuestion: {
		{"policy", 2},
		{"how long", 1.5},
		{"warranty", 1.5},
		{"shipping", 1},
		{"business days", 1},
		{"international", 1},
	},
}

// classification order makes tie-breaking deterministic
var classifyOrder = []models.IntentCategory{
	models.IntentOrderStatus,
	models.IntentReturnRefund,
	models.IntentPolicyQuestion,
}

const (
	baseConfidence    = 0.45
	perWeight         = 0.15
	maxConfidence     = 0.95
	unknownConfidence = 0.30
)

// RuleClassifier is a deterministic keyword-evidence classifier. It
// satisfies the confidence contract: confidence grows monotonically with
// matched evidence and stays in [0,1].
type RuleClassifier struct{}

// NewRuleClassifier creates a rule-based classifier.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

// Classify scores each category by summed matched phrase weight and
// returns the best one, or the catch-all with low confidence when
// nothing matches.
func (c *RuleClassifier) Classify(message string) models.Intent {
	lower := strings.ToLower(message)

	best := models.IntentOther
	bestScore := 0.0
	for _, category := range classifyOrder {
		var score float64
		for _, r := range categoryRules[category] {
			if strings.Contains(lower, r.phrase) {
				score += r.weight
			}
		}
		if score > bestScore {
			best = category
			bestScore = score
		}
	}

	if best == models.IntentOther {
		return models.Intent{Category: models.IntentOther, Confidence: unknownConfidence}
	}

	confidence := baseConfidence + perWeight*bestScore
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	return models.Intent{Category: best, Confidence: confidence}
}
