// Package repositories defines persistence interfaces. The orchestrator
// depends on these abstractions, not on concrete drivers.
package repositories

import (
	"context"

	"github.com/upb/support-orchestrator/models"
)

// AuditRepository persists turn audit records.
type AuditRepository interface {
	// Insert appends one audit record.
	Insert(ctx context.Context, record *models.AuditRecord) error

	// List returns persisted records ordered by timestamp ascending.
	List(ctx context.Context, limit, offset int) ([]*models.AuditRecord, error)
}
