package models

import (
	"time"

	"github.com/google/uuid"
)

// ActionResult is the structured output of one tool invocation
// (order lookup, refund, return label). Flags under "ok"/"found"
// signal success; the orchestrator must not assume either.
type ActionResult map[string]interface{}

// OK reports whether the action succeeded. Actions report success via
// "ok" (mutating actions) or "found" (lookups).
func (a ActionResult) OK() bool {
	if a == nil {
		return false
	}
	if v, ok := a["ok"].(bool); ok {
		return v
	}
	if v, ok := a["found"].(bool); ok {
		return v
	}
	return false
}

// TurnMeta carries the per-turn decision metadata returned to the caller.
// Confidence duplicates Intent.Confidence for caller convenience and must
// always equal it.
type TurnMeta struct {
	Model        string       `json:"model"`
	Intent       Intent       `json:"intent"`
	Confidence   float64      `json:"confidence"`
	Escalate     bool         `json:"escalate"`
	Citations    []string     `json:"citations"`
	ActionResult ActionResult `json:"action_result,omitempty"`
	// ComplianceReason records why the gate blocked or flagged the
	// composed text; empty for an unremarkable turn.
	ComplianceReason string `json:"compliance_reason,omitempty"`
}

// TurnResult is the externally visible contract of one orchestration step.
type TurnResult struct {
	Text string   `json:"text"`
	Meta TurnMeta `json:"meta"`
}

// AuditRecord is one append-only account of a single turn. Records are
// never mutated after append.
type AuditRecord struct {
	ID        uuid.UUID  `json:"id"`
	Input     string     `json:"input"`
	Result    TurnResult `json:"result"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewAuditRecord creates an audit record for one completed turn.
func NewAuditRecord(input string, result TurnResult) AuditRecord {
	return AuditRecord{
		ID:        uuid.New(),
		Input:     input,
		Result:    result,
		Timestamp: time.Now().UTC(),
	}
}
