package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/upb/support-orchestrator/models"
	"github.com/upb/support-orchestrator/repositories"
	"go.uber.org/zap"
)

// AuditRepository implements repositories.AuditRepository on Postgres.
type AuditRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *DB, logger *zap.Logger) repositories.AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends one turn audit record.
func (r *AuditRepository) Insert(ctx context.Context, record *models.AuditRecord) error {
	result, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("failed to serialize turn result: %w", err)
	}

	query := `
		INSERT INTO turn_audit (id, input, intent, confidence, escalate, result, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		record.ID,
		record.Input,
		string(record.Result.Meta.Intent.Category),
		record.Result.Meta.Confidence,
		record.Result.Meta.Escalate,
		result,
		record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}

	r.logger.Debug("audit record inserted", zap.String("id", record.ID.String()))
	return nil
}

// List returns persisted records ordered by timestamp ascending.
func (r *AuditRepository) List(ctx context.Context, limit, offset int) ([]*models.AuditRecord, error) {
	query := `
		SELECT id, input, result, recorded_at
		FROM turn_audit
		ORDER BY recorded_at ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var records []*models.AuditRecord
	for rows.Next() {
		record := &models.AuditRecord{}
		var result []byte
		if err := rows.Scan(&record.ID, &record.Input, &result, &record.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		if err := json.Unmarshal(result, &record.Result); err != nil {
			return nil, fmt.Errorf("failed to decode turn result: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}

	return records, nil
}
