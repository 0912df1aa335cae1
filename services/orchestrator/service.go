// Package orchestrator sequences the per-turn decision pipeline:
// classify, retrieve, act, compose, gate, escalate, audit.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/upb/support-orchestrator/internal/compliance"
	"github.com/upb/support-orchestrator/models"
	"github.com/upb/support-orchestrator/services/audit"
	"github.com/upb/support-orchestrator/services/intent"
	"github.com/upb/support-orchestrator/services/tools"
	"go.uber.org/zap"
)

// refusalText replaces any composed response the compliance gate blocks.
const refusalText = "I'm sorry, but I can't include that information in a response. " +
	"I've flagged this conversation for a support specialist to follow up."

// Retriever is the read-only retrieval capability the pipeline shares
// with other sessions.
type Retriever interface {
	Query(ctx context.Context, text string, k int) ([]models.ScoredChunk, error)
	Size() int
}

// Config holds decision-pipeline settings.
type Config struct {
	ModelName           string
	ConfidenceThreshold float64
	TopK                int
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		ModelName:           "support-rules-v1",
		ConfidenceThreshold: 0.5,
		TopK:                4,
	}
}

// Service is the orchestration pipeline. It exclusively owns the audit
// log and holds a non-owning reference to one retrieval engine. A single
// instance may be stepped concurrently by multiple chat sessions.
type Service struct {
	retriever  Retriever
	classifier intent.Classifier
	dispatcher *tools.Dispatcher
	auditLog   *audit.Log
	logger     *zap.Logger
	cfg        Config
}

// NewService creates the orchestration pipeline.
func NewService(
	retriever Retriever,
	classifier intent.Classifier,
	dispatcher *tools.Dispatcher,
	auditLog *audit.Log,
	logger *zap.Logger,
	cfg Config,
) (*Service, error) {
	if retriever == nil {
		return nil, fmt.Errorf("retriever is required")
	}
	if classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if auditLog == nil {
		return nil, fmt.Errorf("audit log is required")
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultConfig().TopK
	}
	if cfg.ModelName == "" {
		cfg.ModelName = DefaultConfig().ModelName
	}

	return &Service{
		retriever:  retriever,
		classifier: classifier,
		dispatcher: dispatcher,
		auditLog:   auditLog,
		logger:     logger,
		cfg:        cfg,
	}, nil
}

// Step runs one full turn for a user message and returns the TurnResult.
// Every turn, including a failed one, is appended to the audit log;
// nothing in a single turn may take the process down.
func (s *Service) Step(ctx context.Context, message string) (result models.TurnResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("turn failed unexpectedly", zap.Any("panic", r))
			result = s.failureTurn(fmt.Sprintf("turn failed unexpectedly: %v", r))
			s.auditLog.Append(models.NewAuditRecord(message, result))
		}
	}()

	// Classify
	classified := s.classifier.Classify(message)
	s.logger.Debug("intent classified",
		zap.String("category", string(classified.Category)),
		zap.Float64("confidence", classified.Confidence))

	// Retrieve. Failures degrade to a turn without citations.
	retrieved, err := s.retriever.Query(ctx, message, s.cfg.TopK)
	if err != nil {
		s.logger.Warn("retrieval failed, continuing without citations", zap.Error(err))
		retrieved = nil
	}
	citations := make([]string, 0, len(retrieved))
	for _, r := range retrieved {
		citations = append(citations, r.Chunk.Path())
	}

	// Act
	outcome := s.dispatcher.Dispatch(ctx, classified.Category, message)

	// Compose
	text := composeResponse(classified, retrieved, outcome)

	// Gate
	gate := compliance.BasicTextFilter(text)
	blocked := !gate.Allowed
	complianceReason := ""
	if blocked {
		s.logger.Warn("compliance gate blocked response", zap.String("reason", gate.Reason))
		text = refusalText
		complianceReason = gate.Reason
	} else if gate.Reason != "OK" {
		complianceReason = gate.Reason
	}

	// Escalate decision
	toolFailed := outcome.Invoked && !outcome.Result.OK()
	escalate := classified.Confidence < s.cfg.ConfidenceThreshold || blocked || toolFailed

	result = models.TurnResult{
		Text: text,
		Meta: models.TurnMeta{
			Model:            s.cfg.ModelName,
			Intent:           classified,
			Confidence:       classified.Confidence,
			Escalate:         escalate,
			Citations:        citations,
			ActionResult:     outcome.Result,
			ComplianceReason: complianceReason,
		},
	}

	// Audit, then return.
	s.auditLog.Append(models.NewAuditRecord(message, result))

	s.logger.Info("turn completed",
		zap.String("category", string(classified.Category)),
		zap.Bool("escalate", escalate),
		zap.Int("citations", len(citations)),
		zap.Bool("action_invoked", outcome.Invoked))

	return result
}

// ExportAudit serializes the full ordered audit log as a JSON document.
func (s *Service) ExportAudit() ([]byte, error) {
	return s.auditLog.Export()
}

// AuditLen returns the number of audited turns.
func (s *Service) AuditLen() int {
	return s.auditLog.Len()
}

// failureTurn builds the degraded TurnResult for an unhandled turn-level
// failure: the text names the failure and escalation is forced.
func (s *Service) failureTurn(explanation string) models.TurnResult {
	return models.TurnResult{
		Text: "Something went wrong while handling your request, and I've escalated it to a support specialist. (" + explanation + ")",
		Meta: models.TurnMeta{
			Model:      s.cfg.ModelName,
			Intent:     models.Intent{Category: models.IntentOther, Confidence: 0},
			Confidence: 0,
			Escalate:   true,
			Citations:  []string{},
		},
	}
}
