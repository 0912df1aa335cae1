// Package compliance implements the outbound text gate: blocking for
// sensitive-data leakage, advisory for toxic language.
package compliance

import (
	"fmt"
	"strings"
)

// blockedPatterns are sensitive-data patterns that must never appear in
// an outbound response. Order is significant: the first match determines
// the reported reason.
var blockedPatterns = []string{
	"credit card number",
	"social security number",
	"password",
}

// toxicWords flag abusive language. Presence is advisory, not blocking.
var toxicWords = []string{"idiot", "stupid", "hate", "kill"}

// Result is the outcome of filtering one piece of text.
type Result struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// BasicTextFilter classifies free text as allowed, blocked, or advisory.
// Matching is case-insensitive substring matching. A blocked pattern wins
// over any toxic-word advisory.
func BasicTextFilter(text string) Result {
	lower := strings.ToLower(text)

	for _, p := range blockedPatterns {
		if strings.Contains(lower, p) {
			return Result{Allowed: false, Reason: fmt.Sprintf("Contains sensitive info pattern: %s", p)}
		}
	}

	for _, w := range toxicWords {
		if strings.Contains(lower, w) {
			return Result{Allowed: true, Reason: "Toxic language detected; advise de-escalation."}
		}
	}

	return Result{Allowed: true, Reason: "OK"}
}

// BlockedPatterns returns the sensitive-data pattern list in match order.
func BlockedPatterns() []string {
	out := make([]string, len(blockedPatterns))
	copy(out, blockedPatterns)
	return out
}
